package auth

import (
	"context"
	"sync"
	"time"

	"github.com/adspay/console/session"
	"github.com/rs/zerolog/log"
)

// DefaultRefreshLead is how long before expiry the scheduler refreshes,
// tolerating clock skew and exchange latency.
const DefaultRefreshLead = 30 * time.Second

// Refresher is the refresh operation the scheduler drives. Satisfied by
// *Service.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// TimerHandle is a cancellable one-shot timer.
type TimerHandle interface {
	Stop() bool
}

// Scheduler keeps the access token fresh while the console runs. Every
// session change supersedes the previous timer: a new authenticated tuple
// schedules a refresh at expiry minus the lead, an already-expired tuple
// refreshes immediately, and a cleared tuple leaves the scheduler idle.
// A failed refresh clears the session and is not retried; the route guard
// forces re-authentication from there.
type Scheduler struct {
	sessions  *session.Manager
	refresher Refresher
	lead      time.Duration
	nowTime   func() time.Time
	afterFunc func(d time.Duration, fn func()) TimerHandle

	mu      sync.Mutex
	timer   TimerHandle
	stopped bool
}

// SchedulerOption defines a function type to modify the Scheduler instance.
type SchedulerOption func(*Scheduler)

// WithSchedulerNowTime sets the now time function (primarily for testing)
func WithSchedulerNowTime(nowFunc func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.nowTime = nowFunc
	}
}

// WithAfterFunc sets the timer factory (primarily for testing)
func WithAfterFunc(afterFunc func(d time.Duration, fn func()) TimerHandle) SchedulerOption {
	return func(s *Scheduler) {
		s.afterFunc = afterFunc
	}
}

// WithRefreshLead overrides the refresh lead.
func WithRefreshLead(lead time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.lead = lead
	}
}

func NewScheduler(sessions *session.Manager, refresher Refresher, options ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		sessions:  sessions,
		refresher: refresher,
		lead:      DefaultRefreshLead,
		nowTime:   time.Now,
		afterFunc: func(d time.Duration, fn func()) TimerHandle {
			return time.AfterFunc(d, fn)
		},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Start subscribes to session changes and evaluates the current tuple once,
// so a hydrated session gets a timer without waiting for the next mutation.
func (s *Scheduler) Start() {
	s.sessions.Watch(s.handleChange)
	s.handleChange(s.sessions.State())
}

// Stop cancels any pending timer. Used on console teardown so no stale
// callback fires against a dead session.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) handleChange(snap session.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !snap.Authenticated() || snap.ExpiresAt == 0 {
		return
	}

	timeLeft := time.UnixMilli(snap.ExpiresAt).Sub(s.nowTime())
	if timeLeft <= 0 {
		// Already expired; refresh now. Runs off this goroutine because
		// handleChange is invoked from the session's notification path.
		go s.refreshNow()
		return
	}

	delay := timeLeft - s.lead
	if delay < 0 {
		delay = 0
	}
	s.timer = s.afterFunc(delay, s.refreshNow)
}

func (s *Scheduler) refreshNow() {
	if _, err := s.refresher.Refresh(context.Background()); err != nil {
		log.Error().Err(err).Msg("scheduled token refresh failed, clearing session")
		if clearErr := s.sessions.ClearAuth(); clearErr != nil {
			log.Error().Err(clearErr).Msg("clearing session after failed refresh")
		}
	}
}
