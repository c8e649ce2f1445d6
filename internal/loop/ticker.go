package loop

import "time"

// Ticker delivers one value per display refresh.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

// NewTicker returns a Ticker firing fps times per second. Non-positive
// rates fall back to 60.
func NewTicker(fps int) Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &timeTicker{t: time.NewTicker(time.Second / time.Duration(fps))}
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }

// ManualTicker fires only when Tick is called.
type ManualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
}

// NewManualTicker returns an unbuffered manual ticker.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

// Stop is idempotent.
func (t *ManualTicker) Stop() {
	select {
	case <-t.stopped:
	default:
		close(t.stopped)
	}
}

// Tick delivers one tick and blocks until the loop has received it. It
// reports false if the ticker was stopped first.
func (t *ManualTicker) Tick() bool {
	select {
	case t.ch <- time.Time{}:
		return true
	case <-t.stopped:
		return false
	}
}
