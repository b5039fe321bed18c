// Package debounce turns a rapidly changing string into a committed value
// once input has been quiet for a fixed period.
package debounce

import (
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultQuietPeriod is how long input must stay unchanged before it commits.
const DefaultQuietPeriod = 700 * time.Millisecond

// SettledMsg is delivered when a quiet-period timer expires. Pass it back to
// the Debouncer that produced it via Settle.
type SettledMsg struct {
	owner *Debouncer
	gen   uint64
}

// Debouncer tracks a raw value and the last committed value. It is driven from
// a single event loop: Set, Settle, Reset and Stop must not be called
// concurrently.
type Debouncer struct {
	clock clock.Clock
	quiet time.Duration

	raw       string
	committed string
	pending   bool
	stopped   bool

	gen   uint64
	timer *clock.Timer
	done  chan struct{}
}

// New returns a Debouncer using clk for timers. A nil clk uses the wall clock
// and a non-positive quiet uses DefaultQuietPeriod.
func New(clk clock.Clock, quiet time.Duration) *Debouncer {
	if clk == nil {
		clk = clock.New()
	}
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{clock: clk, quiet: quiet}
}

// Raw returns the latest raw value.
func (d *Debouncer) Raw() string { return d.raw }

// Committed returns the last committed value.
func (d *Debouncer) Committed() string { return d.committed }

// Pending reports whether raw has diverged from committed and a commit is
// still outstanding.
func (d *Debouncer) Pending() bool { return d.pending }

// QuietPeriod returns the configured quiet period.
func (d *Debouncer) QuietPeriod() time.Duration { return d.quiet }

// Set records a new raw value, cancelling any running timer. When raw differs
// from the committed value a new timer starts and the returned command waits
// for it; otherwise the returned command is nil.
func (d *Debouncer) Set(raw string) tea.Cmd {
	d.cancelTimer()
	d.raw = raw
	if d.stopped || raw == d.committed {
		d.pending = false
		return nil
	}

	d.pending = true
	d.gen++
	msg := SettledMsg{owner: d, gen: d.gen}
	timer := d.clock.Timer(d.quiet)
	done := make(chan struct{})
	d.timer, d.done = timer, done

	return func() tea.Msg {
		select {
		case <-timer.C:
			return msg
		case <-done:
			return nil
		}
	}
}

// Settle handles an expired timer. It returns the newly committed value and
// true when msg belongs to the current timer and raw differs from the last
// committed value.
func (d *Debouncer) Settle(msg SettledMsg) (string, bool) {
	if msg.owner != d || msg.gen != d.gen || d.stopped || !d.pending {
		return "", false
	}
	d.timer, d.done = nil, nil
	d.pending = false
	if d.raw == d.committed {
		return "", false
	}
	d.committed = d.raw
	return d.committed, true
}

// Reset sets both raw and committed to value without waiting, cancelling any
// running timer.
func (d *Debouncer) Reset(value string) {
	d.cancelTimer()
	d.raw = value
	d.committed = value
	d.pending = false
}

// Stop cancels any running timer without committing. Later Set calls record
// the raw value but never start timers.
func (d *Debouncer) Stop() {
	d.cancelTimer()
	d.pending = false
	d.stopped = true
}

func (d *Debouncer) cancelTimer() {
	if d.timer == nil {
		return
	}
	d.timer.Stop()
	close(d.done)
	d.timer, d.done = nil, nil
}
