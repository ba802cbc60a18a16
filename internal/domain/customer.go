package domain

import "time"

// Customer represents a customer record. Date fields arrive from the loader
// as raw text (the source files carry them as strings) and are parsed during
// cleaning; a nil parsed date means the raw value was absent or unusable.
type Customer struct {
	ID              int64
	Name            string
	Email           string
	Phone           string
	City            string
	State           string
	BirthDateRaw    string
	BirthDate       *time.Time
	RegisteredAtRaw string
	RegisteredAt    *time.Time
}
