// Package ring provides a fixed-depth shift register used to model signal
// propagation delay in tick counts.
package ring

// DelayLine is a fixed-depth shift register of boolean samples.
//
// Each Shift pushes a new sample in and returns the sample that entered
// depth shifts ago. A DelayLine of depth 0 is a wire: Shift returns its
// input unchanged.
//
// DelayLine is not goroutine-safe; it is designed for single-threaded
// tick-driven simulation loops.
type DelayLine struct {
	samples []bool
	head    int
}

// NewDelayLine creates a DelayLine with the given depth, preloaded with
// the given fill value.
func NewDelayLine(depth int, fill bool) *DelayLine {
	if depth < 0 {
		depth = 0
	}
	dl := &DelayLine{samples: make([]bool, depth)}
	dl.Fill(fill)

	return dl
}

// Depth returns the delay depth in samples.
func (dl *DelayLine) Depth() int {
	return len(dl.samples)
}

// Shift pushes in and returns the sample that entered Depth() shifts ago.
func (dl *DelayLine) Shift(in bool) bool {
	if len(dl.samples) == 0 {
		return in
	}

	out := dl.samples[dl.head]
	dl.samples[dl.head] = in
	dl.head++
	if dl.head == len(dl.samples) {
		dl.head = 0
	}

	return out
}

// Peek returns the sample that the next Shift would return, without shifting.
func (dl *DelayLine) Peek(in bool) bool {
	if len(dl.samples) == 0 {
		return in
	}

	return dl.samples[dl.head]
}

// Fill overwrites every stored sample with v.
func (dl *DelayLine) Fill(v bool) {
	for i := range dl.samples {
		dl.samples[i] = v
	}
	dl.head = 0
}
