package uart

import (
	"sync/atomic"
)

// Metrics contains atomic counters for a transmit/receive engine pair.
// Counters can be used as the value of a prometheus CounterFunc.
//
// A single Metrics value may be shared by a Transmitter and a Receiver on the
// same link, or attached to only one side.
type Metrics struct {
	// FrameSendCount indicates the number of frames fully transmitted.
	FrameSendCount atomic.Uint64
	// FrameRecvCount indicates the number of frames received with a valid stop bit.
	FrameRecvCount atomic.Uint64
	// FramingErrCount indicates the number of frames discarded on a low stop bit.
	FramingErrCount atomic.Uint64
	// FalseStartCount indicates the number of start-bit glitches rejected at
	// the half-bit midpoint check.
	FalseStartCount atomic.Uint64
	// SubmitDropCount indicates the number of transmit requests dropped
	// because a transmission was already in flight.
	SubmitDropCount atomic.Uint64
}

func (m *Metrics) incFrameSendCount() {
	if m != nil {
		m.FrameSendCount.Add(1)
	}
}

func (m *Metrics) incFrameRecvCount() {
	if m != nil {
		m.FrameRecvCount.Add(1)
	}
}

func (m *Metrics) incFramingErrCount() {
	if m != nil {
		m.FramingErrCount.Add(1)
	}
}

func (m *Metrics) incFalseStartCount() {
	if m != nil {
		m.FalseStartCount.Add(1)
	}
}

func (m *Metrics) incSubmitDropCount() {
	if m != nil {
		m.SubmitDropCount.Add(1)
	}
}
