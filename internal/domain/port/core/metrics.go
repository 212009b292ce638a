package core

// MetricsRecorder receives operational counters from the transaction engine
type MetricsRecorder interface {
	// ObserveOperation records the outcome class and latency of a service operation
	ObserveOperation(operation string, outcome string, seconds float64)
	// IncTransition counts a status change between two states
	IncTransition(from, to string)
	// IncWriteConflict counts a lost optimistic write or lock contention
	IncWriteConflict(operation string)
}
