// Package metrics exposes ingestion counters through a Recorder interface.
// Components default to NoopRecorder; the API binary injects the Prometheus one.
package metrics

// Outcome labels a delivery's fate for the deliveries counter.
type Outcome string

const (
	OutcomeAppended  Outcome = "appended"
	OutcomePong      Outcome = "pong"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
)

// Recorder defines the observability hooks of the ingestion pipeline.
type Recorder interface {
	IncDelivery(event string, outcome Outcome)
	IncAppend()
	IncFlushFailure()
	SetLogSize(n int)
	IncDeadLetter(reason string)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) IncDelivery(string, Outcome) {}
func (NoopRecorder) IncAppend()                  {}
func (NoopRecorder) IncFlushFailure()            {}
func (NoopRecorder) SetLogSize(int)              {}
func (NoopRecorder) IncDeadLetter(string)        {}
