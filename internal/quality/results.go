package quality

// CheckOutcome is the pass/fail verdict for one named check.
type CheckOutcome struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Summary aggregates check outcomes. SuccessRate is a percentage in [0,100].
type Summary struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// Results is the checker report consumed by the alert engine. Any rule
// engine that produces this shape can feed the engine.
type Results struct {
	Checks  map[string]CheckOutcome `json:"checks"`
	Summary Summary                 `json:"summary"`
}

func summarize(checks map[string]CheckOutcome) Summary {
	s := Summary{Total: len(checks)}
	for _, outcome := range checks {
		if outcome.Success {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.Total) * 100
	}
	return s
}
