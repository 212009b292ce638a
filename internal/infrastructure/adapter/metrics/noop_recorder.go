package metrics

import "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"

var _ core.MetricsRecorder = NoopRecorder{}

// NoopRecorder drops all measurements; used when metrics are disabled
type NoopRecorder struct{}

// ObserveOperation does nothing
func (NoopRecorder) ObserveOperation(string, string, float64) {}

// IncTransition does nothing
func (NoopRecorder) IncTransition(string, string) {}

// IncWriteConflict does nothing
func (NoopRecorder) IncWriteConflict(string) {}
