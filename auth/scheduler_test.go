package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/adspay/console/auth"
	"github.com/adspay/console/credstore"
	"github.com/adspay/console/credstore/memory"
	apperrors "github.com/adspay/console/internal/errors"
	"github.com/adspay/console/session"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return false
	}
	f.stopped = true
	return true
}

func (f *fakeTimer) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// timerRecorder stands in for time.AfterFunc and records every scheduled
// delay without ever firing on its own.
type timerRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
	timers []*fakeTimer
}

func (r *timerRecorder) afterFunc(d time.Duration, fn func()) auth.TimerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	timer := &fakeTimer{}
	r.delays = append(r.delays, d)
	r.fns = append(r.fns, fn)
	r.timers = append(r.timers, timer)
	return timer
}

func (r *timerRecorder) lastDelay(t *testing.T) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.delays)
	return r.delays[len(r.delays)-1]
}

func (r *timerRecorder) fireLast(t *testing.T) {
	r.mu.Lock()
	require.NotEmpty(t, r.fns)
	fn := r.fns[len(r.fns)-1]
	r.mu.Unlock()
	fn()
}

func (r *timerRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delays)
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context) (string, error)
}

func (f *fakeRefresher) Refresh(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.calls++
	fn := f.fn
	f.mu.Unlock()
	if fn == nil {
		return "refreshed", nil
	}
	return fn(ctx)
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newSchedulerFixture(t *testing.T, refresher auth.Refresher) (*auth.Scheduler, *session.Manager, *timerRecorder) {
	t.Helper()
	sessions := session.NewManager(credstore.New(memory.New()))
	recorder := &timerRecorder{}
	scheduler := auth.NewScheduler(sessions, refresher,
		auth.WithSchedulerNowTime(func() time.Time { return fixedNow }),
		auth.WithAfterFunc(recorder.afterFunc),
	)
	t.Cleanup(scheduler.Stop)
	return scheduler, sessions, recorder
}

func TestSchedulerTimesRefreshLeadBeforeExpiry(t *testing.T) {
	refresher := &fakeRefresher{}
	scheduler, sessions, recorder := newSchedulerFixture(t, refresher)
	scheduler.Start()

	expiresAt := fixedNow.Add(60 * time.Second).UnixMilli()
	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", expiresAt))

	require.Equal(t, 1, recorder.count())
	require.Equal(t, 30*time.Second, recorder.lastDelay(t))
	require.Zero(t, refresher.callCount(), "nothing fires until the timer does")
}

func TestSchedulerClampsShortLifetimesToImmediate(t *testing.T) {
	refresher := &fakeRefresher{}
	scheduler, sessions, recorder := newSchedulerFixture(t, refresher)
	scheduler.Start()

	expiresAt := fixedNow.Add(10 * time.Second).UnixMilli()
	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", expiresAt))

	require.Equal(t, time.Duration(0), recorder.lastDelay(t))
}

func TestSchedulerRefreshesExpiredSessionImmediately(t *testing.T) {
	refresher := &fakeRefresher{}
	scheduler, sessions, recorder := newSchedulerFixture(t, refresher)
	scheduler.Start()

	expiresAt := fixedNow.Add(-time.Second).UnixMilli()
	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", expiresAt))

	require.Eventually(t, func() bool { return refresher.callCount() == 1 },
		time.Second, 5*time.Millisecond)
	require.Zero(t, recorder.count(), "an expired tuple bypasses the timer")
}

func TestSchedulerIdlesWithoutSessionOrDeadline(t *testing.T) {
	refresher := &fakeRefresher{}
	scheduler, sessions, recorder := newSchedulerFixture(t, refresher)
	scheduler.Start()

	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", 0))
	require.NoError(t, sessions.ClearAuth())

	require.Zero(t, recorder.count())
	require.Zero(t, refresher.callCount())
}

func TestSchedulerSupersedesPendingTimer(t *testing.T) {
	refresher := &fakeRefresher{}
	scheduler, sessions, recorder := newSchedulerFixture(t, refresher)
	scheduler.Start()

	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", fixedNow.Add(60*time.Second).UnixMilli()))
	require.NoError(t, sessions.SetAuth(nil, "at-2", "rt-2", fixedNow.Add(120*time.Second).UnixMilli()))

	require.Equal(t, 2, recorder.count())
	require.True(t, recorder.timers[0].Stopped(), "the first timer is cancelled by the second tuple")
	require.Equal(t, 90*time.Second, recorder.lastDelay(t))
}

func TestSchedulerClearsSessionOnRefreshFailure(t *testing.T) {
	refresher := &fakeRefresher{fn: func(context.Context) (string, error) {
		return "", apperrors.ErrBackendRejected
	}}
	scheduler, sessions, recorder := newSchedulerFixture(t, refresher)
	scheduler.Start()

	require.NoError(t, sessions.SetAuth(&session.User{Username: "admin"}, "at-1", "rt-1", fixedNow.Add(60*time.Second).UnixMilli()))
	recorder.fireLast(t)

	snap := sessions.State()
	require.False(t, snap.Authenticated())
	require.Empty(t, snap.RefreshToken)
	require.Nil(t, snap.User)
	require.Zero(t, snap.ExpiresAt)
	require.Equal(t, 1, refresher.callCount(), "a failed refresh is not retried")
}

func TestSchedulerStartEvaluatesHydratedSession(t *testing.T) {
	sessions := session.NewManager(credstore.New(memory.New()))
	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", fixedNow.Add(60*time.Second).UnixMilli()))

	refresher := &fakeRefresher{}
	recorder := &timerRecorder{}
	scheduler := auth.NewScheduler(sessions, refresher,
		auth.WithSchedulerNowTime(func() time.Time { return fixedNow }),
		auth.WithAfterFunc(recorder.afterFunc),
	)
	t.Cleanup(scheduler.Stop)

	scheduler.Start()
	require.Equal(t, 1, recorder.count(), "Start evaluates the already-present tuple")
	require.Equal(t, 30*time.Second, recorder.lastDelay(t))
}

func TestSchedulerStopCancelsPendingTimer(t *testing.T) {
	refresher := &fakeRefresher{}
	scheduler, sessions, recorder := newSchedulerFixture(t, refresher)
	scheduler.Start()

	require.NoError(t, sessions.SetAuth(nil, "at-1", "rt-1", fixedNow.Add(60*time.Second).UnixMilli()))
	scheduler.Stop()

	require.True(t, recorder.timers[0].Stopped())

	// Changes after Stop schedule nothing.
	require.NoError(t, sessions.SetAuth(nil, "at-2", "rt-2", fixedNow.Add(60*time.Second).UnixMilli()))
	require.Equal(t, 1, recorder.count())
}
