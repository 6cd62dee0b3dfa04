package services

// RecordError ties a per-record outcome to the source record it came from.
type RecordError struct {
	RecordRef string `json:"record_ref"`
	Reason    string `json:"reason"`
}

// DatabaseUpdateResult is the per-session accounting of one Execute pass.
// UpdatedCount plus FailedCount always equals the number of match results
// the pass visited, so repeated passes stay comparable.
type DatabaseUpdateResult struct {
	UpdatedCount int           `json:"updated_count"`
	FailedCount  int           `json:"failed_count"`
	Failures     []RecordError `json:"failures,omitempty"`
	// Warnings lists records whose registry write landed but whose undo
	// record could not be persisted after retries. Those records still
	// count as updated; the warning flags them for manual reconciliation.
	Warnings []RecordError `json:"warnings,omitempty"`
}

// RollbackResult is the accounting of one rollback pass over a session.
type RollbackResult struct {
	RevertedCount int           `json:"reverted_count"`
	FailedCount   int           `json:"failed_count"`
	Failures      []RecordError `json:"failures,omitempty"`
}
