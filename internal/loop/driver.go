// Package loop drives a simulation without a terminal: one step per tick
// on a time.Ticker, with input collected from other goroutines.
package loop

import (
	"context"
	"time"

	"github.com/vovakirdan/neon-runner/internal/core"
)

// Simulation is the part of a game the driver needs.
type Simulation interface {
	Restart()
	Step(in core.InputFrame, delta time.Duration) core.StepResult
	State() core.GameState
}

// Frame is published after every step.
type Frame struct {
	Result core.StepResult
	Delta  time.Duration
}

// Driver owns a simulation and is the only goroutine that touches it.
type Driver struct {
	sim      Simulation
	input    *core.InputLatch
	interval time.Duration
	onFrame  func(Frame)
	clock    core.FrameClock
	restart  chan struct{}
}

// NewDriver creates a driver stepping sim every interval. onFrame runs on
// the driver goroutine, so it may read the simulation.
func NewDriver(sim Simulation, input *core.InputLatch, interval time.Duration, onFrame func(Frame)) *Driver {
	if interval <= 0 {
		interval = core.NominalFrame
	}
	if onFrame == nil {
		onFrame = func(Frame) {}
	}
	return &Driver{
		sim:      sim,
		input:    input,
		interval: interval,
		onFrame:  onFrame,
		restart:  make(chan struct{}, 1),
	}
}

// Restart asks the driver to begin a fresh session. Safe for concurrent
// use; requests made before the previous one was handled are merged.
func (d *Driver) Restart() {
	select {
	case d.restart <- struct{}{}:
	default:
	}
}

// Run steps the simulation until ctx is cancelled. While the session is not
// active it schedules nothing and blocks until Restart is called.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if !d.sim.State().Active {
			ticker.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-d.restart:
			}
			d.begin(ticker)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.restart:
			d.begin(ticker)
		case now := <-ticker.C:
			delta := d.clock.Tick(now)
			res := d.sim.Step(d.input.Drain(), delta)
			d.onFrame(Frame{Result: res, Delta: delta})
		}
	}
}

// begin restarts the session, discards stale input and re-arms the schedule.
func (d *Driver) begin(ticker *time.Ticker) {
	d.sim.Restart()
	d.input.Drain()
	d.clock.Arm()
	ticker.Reset(d.interval)
}
