package domain

import "time"

// Correction is an immutable audit entry for a single change made by the
// cleaning pipeline. Drops and bulk nulling are additionally recorded at
// summary granularity with RecordID 0 and a count in the reason.
type Correction struct {
	Timestamp time.Time `ch:"timestamp"`
	RunID     string    `ch:"run_id"`
	Dataset   string    `ch:"dataset"`
	RecordID  int64     `ch:"record_id"`
	Field     string    `ch:"field"`
	OldValue  string    `ch:"old_value"`
	NewValue  string    `ch:"new_value"`
	Reason    string    `ch:"reason"`
}
