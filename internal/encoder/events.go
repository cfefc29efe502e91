package encoder

// EventType classifies encoder lifecycle events.
type EventType string

const (
	// EventStarted is emitted exactly once, after the process has been
	// spawned and begun writing output.
	EventStarted EventType = "started"
	// EventProgress carries a completion percentage while encoding runs.
	EventProgress EventType = "progress"
	// EventFinished means the process exited cleanly. The output still has
	// to pass playlist verification before the job is ready.
	EventFinished EventType = "finished"
	// EventFailed terminates the stream with a failure reason.
	EventFailed EventType = "failed"
)

// FailureReason identifies why a conversion failed.
type FailureReason string

const (
	// ReasonSourceMissing means the input file disappeared before encoding.
	ReasonSourceMissing FailureReason = "source_missing"
	// ReasonSpawnFailed means the encoder binary could not be started.
	ReasonSpawnFailed FailureReason = "spawn_failed"
	// ReasonExitedNonZero means the encoder ran but reported an error.
	ReasonExitedNonZero FailureReason = "exited_non_zero"
	// ReasonTimeout means the conversion exceeded its deadline and was killed.
	ReasonTimeout FailureReason = "timeout"
)

// Event is one entry in a conversion's event stream. Once the process
// spawns the stream is Started, zero or more Progress, then exactly one
// of Finished or Failed; a conversion that fails before spawning emits
// only the Failed event. The channel is closed after the terminal event.
type Event struct {
	Type    EventType
	Percent float64
	Reason  FailureReason
	Message string
}
