package trace

// Recorder incrementally builds a Trace from per-tick observations.
//
// RecordLevel stores only transitions, so idle stretches cost nothing.
// Recorder is not goroutine-safe; it is driven from the simulation loop,
// typically via the link package's step hook.
type Recorder struct {
	trace     Trace
	lastLevel bool
	started   bool
}

// NewRecorder creates a Recorder for a capture taken under the given timing
// parameters.
func NewRecorder(clockHz, baudRate, ticksPerBit int) *Recorder {
	return &Recorder{
		trace: Trace{
			Header: Header{
				Version:     FormatVersion,
				ClockHz:     clockHz,
				BaudRate:    baudRate,
				TicksPerBit: ticksPerBit,
			},
		},
	}
}

// RecordLevel observes the line level at a tick, storing a transition when
// the level differs from the previous observation. The first observation is
// always stored.
func (r *Recorder) RecordLevel(tick uint64, level bool) {
	if r.started && level == r.lastLevel {
		return
	}

	r.trace.Transitions = append(r.trace.Transitions, Transition{Tick: tick, Level: level})
	r.lastLevel = level
	r.started = true
}

// RecordEvent stores a frame event. Pass 0 as data for KindError and
// KindDone events.
func (r *Recorder) RecordEvent(tick uint64, kind EventKind, data byte) {
	r.trace.Events = append(r.trace.Events, Event{Tick: tick, Kind: kind, Byte: data})
}

// Trace returns the capture built so far. The returned value shares storage
// with the recorder; marshal it before recording further.
func (r *Recorder) Trace() *Trace {
	return &r.trace
}
