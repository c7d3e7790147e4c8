package workspace

import "time"

// Ticker is the part of time.Ticker the timer driver needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// timerDriver forwards one-second ticks to onTick until stopped. stop never
// blocks, so it is safe to call while holding the workspace lock; onTick must
// check that its driver is still current.
type timerDriver struct {
	ticker Ticker
	done   chan struct{}
	exited chan struct{}
}

func startTimer(factory TickerFactory, onTick func(*timerDriver)) *timerDriver {
	d := &timerDriver{
		ticker: factory(time.Second),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go func() {
		defer close(d.exited)
		for {
			select {
			case <-d.done:
				return
			case <-d.ticker.C():
				onTick(d)
			}
		}
	}()
	return d
}

func (d *timerDriver) stop() {
	close(d.done)
	d.ticker.Stop()
}
