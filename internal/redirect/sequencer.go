package redirect

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// State is the sequencer lifecycle state
type State int

// Sequencer states
const (
	StateIdle State = iota
	StateInvoking
	StateTerminal
)

// Navigator receives navigation attempts. Exactly one call carries
// KindFallback (or the direct target): the terminal navigation.
type Navigator interface {
	Navigate(url string, kind InvocationKind)
}

// Sequencer executes a Plan: it issues the plan's invocations, races the
// fallback timer against manual gestures, and converges on a single terminal
// navigation. All timers are held as cancelable handles released by Stop.
//
// Entry points are idempotent: re-entry while invoking or terminal neither
// restarts timers nor navigates twice.
type Sequencer struct {
	mu       sync.Mutex
	plan     Plan
	nav      Navigator
	state    State
	gesture  bool
	timers   []*time.Timer
	terminal string
}

// NewSequencer creates a sequencer for a plan
func NewSequencer(plan Plan, nav Navigator) *Sequencer {
	return &Sequencer{plan: plan, nav: nav}
}

// Arm schedules the automatic attempt at countdown expiry. The countdown
// attempt carries no user gesture, so gesture-gated plans stay idle until
// Gesture is called.
func (s *Sequencer) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return
	}
	t := time.AfterFunc(s.plan.Countdown, func() {
		s.attempt(false)
	})
	s.timers = append(s.timers, t)
}

// Attempt is the automatic entry point (page load, countdown expiry).
func (s *Sequencer) Attempt() {
	s.attempt(false)
}

// Gesture is the manual entry point, the only path that may invoke iOS
// custom schemes.
func (s *Sequencer) Gesture() {
	s.attempt(true)
}

func (s *Sequencer) attempt(gesture bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		// A failing invocation degrades to the web fallback; the user is
		// never left on a dead page.
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("slug", s.plan.Slug).Msg("Redirect attempt panicked")
			s.finalizeLocked(s.plan.WebFallback)
		}
	}()

	if gesture {
		s.gesture = true
	}
	if s.state != StateIdle {
		return
	}
	if s.plan.GestureRequired && !s.gesture {
		// Waiting for a user gesture; custom schemes on iOS are ignored
		// without one.
		log.Debug().Str("slug", s.plan.Slug).Msg("Redirect gesture-gated, staying idle")
		return
	}

	s.state = StateInvoking

	if s.plan.Direct {
		s.finalizeLocked(s.plan.FallbackURL)
		return
	}

	for _, inv := range s.plan.Invocations {
		log.Debug().Str("slug", s.plan.Slug).Str("url", inv.URL).Str("kind", string(inv.Kind)).Msg("Issuing invocation")
		s.nav.Navigate(inv.URL, inv.Kind)
	}

	t := time.AfterFunc(s.plan.FallbackDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.finalizeLocked(s.plan.FallbackURL)
	})
	s.timers = append(s.timers, t)
}

// finalizeLocked issues the terminal navigation exactly once. Callers hold mu.
func (s *Sequencer) finalizeLocked(url string) {
	if s.state == StateTerminal {
		return
	}
	if url == "" {
		url = s.plan.WebFallback
	}
	s.state = StateTerminal
	s.terminal = url
	s.stopTimersLocked()
	s.nav.Navigate(url, KindFallback)
}

// Stop cancels all pending timers. Called on page teardown.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
}

func (s *Sequencer) stopTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// State returns the current lifecycle state
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Terminal returns the terminal navigation target, if one was issued
func (s *Sequencer) Terminal() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal, s.state == StateTerminal
}
