// Package link wires a transmit engine and a receive engine to the shared
// serial line and advances them in lock step, one deterministic tick at a
// time.
//
// The scheduling model is the single-clock-domain discipline of the uart
// package: every Step advances both engines exactly once, with each engine
// observing the line value from before the clock edge. The link can model a
// fixed line propagation delay and can force the line level for a bounded
// number of ticks, which is how tests and the CLI inject start-bit glitches
// and stop-bit corruption.
package link

import (
	"errors"

	"github.com/arloliu/go-uartlink/internal/ring"
	"github.com/arloliu/go-uartlink/logger"
	"github.com/arloliu/go-uartlink/uart"
)

var (
	// ErrNilEngine indicates that a nil Transmitter or Receiver was provided.
	ErrNilEngine = errors.New("link: transmitter and receiver must not be nil")

	// ErrTimingMismatch indicates that the two engines were built from
	// different timing values. Both ends of a link must share the identical
	// derived tick counts.
	ErrTimingMismatch = errors.New("link: transmitter and receiver timing differ")

	// ErrLinkBusy indicates that a transfer was requested while a
	// transmission was already in flight.
	ErrLinkBusy = errors.New("link: transmission in flight")
)

// StepFunc observes the line level of one executed tick. It is invoked once
// per Step with the tick index and the level the receiver saw.
type StepFunc func(tick uint64, level bool)

// Link connects one Transmitter to one Receiver over the shared line.
//
// Link is NOT goroutine-safe; all methods must be called from the goroutine
// driving the simulation.
type Link struct {
	tx     *uart.Transmitter
	rx     *uart.Receiver
	delay  *ring.DelayLine
	logger logger.Logger

	tick       uint64
	forceTicks int
	forceLevel bool

	onStep  StepFunc
	onValid func(byte)
	onError func()
	onDone  func()
}

// New creates a Link for the given engine pair.
//
// Both engines must have been constructed from the same Timing value.
func New(tx *uart.Transmitter, rx *uart.Receiver, opts ...Option) (*Link, error) {
	if tx == nil || rx == nil {
		return nil, ErrNilEngine
	}
	if tx.Timing() != rx.Timing() {
		return nil, ErrTimingMismatch
	}

	l := &Link{
		tx:     tx,
		rx:     rx,
		delay:  ring.NewDelayLine(0, true),
		logger: logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Step advances the simulation by one clock tick.
//
// The line level is captured before the engines are ticked, so both state
// machines observe pre-edge values, matching registered hardware semantics.
func (l *Link) Step() {
	level := l.delay.Shift(l.tx.Out())
	if l.forceTicks > 0 {
		level = l.forceLevel
		l.forceTicks--
	}

	l.tx.Tick()
	l.rx.Tick(level)

	cur := l.tick
	l.tick++

	if l.onStep != nil {
		l.onStep(cur, level)
	}
	if l.onValid != nil && l.rx.Valid() {
		l.onValid(l.rx.Data())
	}
	if l.onError != nil && l.rx.Err() {
		l.onError()
	}
	if l.onDone != nil && l.tx.Done() {
		l.onDone()
	}
}

// Run advances the simulation by n ticks.
func (l *Link) Run(n int) {
	for i := 0; i < n; i++ {
		l.Step()
	}
}

// Transfer submits one byte and steps the simulation until the receiver
// reports an outcome or the frame budget is exhausted.
//
// It returns ErrLinkBusy without stepping if a transmission is already in
// flight. A timing configuration whose accumulated truncation error pushes
// the stop-bit sample outside the frame can exhaust the budget; in that case
// the returned event reports ok=false.
func (l *Link) Transfer(data byte) (ev uart.Event, ok bool, err error) {
	if !l.tx.Submit(data) {
		return uart.Event{}, false, ErrLinkBusy
	}

	// Frame length plus synchronizer latency, line delay, and cleanup slack.
	budget := l.tx.Timing().FrameTicks() + l.tx.Timing().TicksPerBit() + l.delay.Depth() + 8

	for i := 0; i < budget; i++ {
		l.Step()
		if ev, done := l.rx.Poll(); done {
			return ev, true, nil
		}
	}

	l.logger.Warn("transfer budget exhausted with no receive outcome",
		"data", data, "budget", budget)

	return uart.Event{}, false, nil
}

// ForceLow overrides the line to logic low for the next n ticks.
func (l *Link) ForceLow(n int) {
	l.forceTicks = n
	l.forceLevel = false
}

// ForceHigh overrides the line to logic high for the next n ticks.
func (l *Link) ForceHigh(n int) {
	l.forceTicks = n
	l.forceLevel = true
}

// Reset synchronously resets both engines and clears the line model: the
// delay line refills with the idle-high level and any pending force expires.
func (l *Link) Reset() {
	l.tx.Reset()
	l.rx.Reset()
	l.delay.Fill(true)
	l.forceTicks = 0
}

// Tx returns the transmit engine.
func (l *Link) Tx() *uart.Transmitter { return l.tx }

// Rx returns the receive engine.
func (l *Link) Rx() *uart.Receiver { return l.rx }

// Tick returns the number of ticks executed so far.
func (l *Link) Tick() uint64 { return l.tick }
