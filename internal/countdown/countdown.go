// Package countdown tracks offer expiry for display.
//
// The server uses it to render the initial remaining time next to an offered
// price; the browser runs the same contract in web/static/js/price-timer.js.
// A reload is the only resynchronization: once any timer reaches zero the
// page is reloaded and the server reconciles the cart before rendering.
//
// Format and Remaining are used by the cart view. Timer, Presenter and Run
// are a Go model of the script's behavior (one tick source, mm:ss text, the
// expired label, a single reload) and are exercised only by this package's
// tests, which pin that contract. Keep price-timer.js in step with them.
package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Interval is the tick period.
const Interval = time.Second

// Format renders a remaining number of seconds as zero-padded mm:ss.
func Format(remaining int64) string {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}

// Remaining is the whole seconds left until expiresAt at now.
func Remaining(expiresAt, now time.Time) int64 {
	return expiresAt.Unix() - now.Unix()
}

// Reloader forces the page to be fetched again.
type Reloader interface {
	Reload()
}

// ReloadFunc adapts a function to Reloader.
type ReloadFunc func()

func (f ReloadFunc) Reload() { f() }

// Timer is one rendered countdown.
type Timer struct {
	ExpiresAt    time.Time
	ExpiredLabel string

	text    string
	expired bool
}

// Text is what the timer currently displays.
func (t *Timer) Text() string { return t.text }

func (t *Timer) Expired() bool { return t.expired }

// Presenter drives a set of timers from a single tick source.
type Presenter struct {
	mu       sync.Mutex
	timers   []*Timer
	reloader Reloader
	reloaded bool
}

func New(reloader Reloader, timers ...*Timer) *Presenter {
	return &Presenter{timers: timers, reloader: reloader}
}

// Tick renders every timer at now and reloads once if any of them expired.
// It reports whether a reload was triggered by this call.
func (p *Presenter) Tick(now time.Time) bool {
	if !p.render(now) {
		return false
	}
	return p.fire()
}

// Reloaded reports whether the reload already fired.
func (p *Presenter) Reloaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloaded
}

// Run ticks every Interval until a reload fires or ctx is done. The ticker is
// stopped before the reload so no tick lands during navigation.
func (p *Presenter) Run(ctx context.Context, now func() time.Time) error {
	if len(p.timers) == 0 {
		return nil
	}
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.render(now()) {
				ticker.Stop()
				p.fire()
				return nil
			}
		}
	}
}

func (p *Presenter) render(now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reloaded {
		return false
	}
	anyExpired := false
	for _, t := range p.timers {
		remaining := Remaining(t.ExpiresAt, now)
		if remaining <= 0 {
			t.text = t.ExpiredLabel
			t.expired = true
			anyExpired = true
			continue
		}
		t.text = Format(remaining)
	}
	return anyExpired
}

func (p *Presenter) fire() bool {
	p.mu.Lock()
	if p.reloaded {
		p.mu.Unlock()
		return false
	}
	p.reloaded = true
	p.mu.Unlock()
	if p.reloader != nil {
		p.reloader.Reload()
	}
	return true
}
