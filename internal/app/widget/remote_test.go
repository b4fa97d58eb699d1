package widget

import (
	"context"
	"fmt"
	"francoggm/versapay-checkout/internal/models"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyResult struct {
	key string
	err error
}

func startLoop(t *testing.T) (*LoopScheduler, context.Context) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sched := NewLoopScheduler()
	go sched.Run(ctx)
	return sched, ctx
}

func await(t *testing.T, ch <-chan keyResult) keyResult {
	t.Helper()

	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for session key")
		return keyResult{}
	}
}

// onLoopField reads a host field on the scheduler goroutine.
func onLoopField(t *testing.T, sched Scheduler, host *fakeHost, name string) string {
	t.Helper()

	ch := make(chan string, 1)
	sched.Post(func() { ch <- host.fields[name] })
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out reading field")
		return ""
	}
}

func TestRemoteSession_RetriesAndSharesFetch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "nonce-1", r.FormValue("nonce"))
		assert.Equal(t, "49.99", r.FormValue("amount"))
		assert.Equal(t, "USD", r.FormValue("currency"))
		if c, err := r.Cookie("vp_checkout"); assert.NoError(t, err) {
			assert.Equal(t, "chk-1", c.Value)
		}

		if n <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"success":true,"data":{"sessionKey":"key-%d"}}`, n)
	}))
	defer srv.Close()

	sched, ctx := startLoop(t)
	host := newFakeHost()
	s := NewRemoteSession(ctx, sched, host, RemoteSessionConfig{
		URL:        srv.URL,
		Nonce:      "nonce-1",
		Currency:   "USD",
		Precision:  2,
		CookieName: "vp_checkout",
		CheckoutID: "chk-1",
		Retries:    2,
		RetryWait:  10 * time.Millisecond,
	})
	defer s.Close()

	results := make(chan keyResult, 3)
	done := func(key string, err error) { results <- keyResult{key, err} }

	s.SessionKey(4999, false, done)
	s.SessionKey(4999, false, done)

	for range 2 {
		r := await(t, results)
		require.NoError(t, r.err)
		assert.Equal(t, "key-3", r.key)
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "key-3", onLoopField(t, sched, host, models.FieldSessionKey))

	s.SessionKey(4999, false, done)
	assert.Equal(t, "key-3", await(t, results).key)
	assert.Equal(t, int32(3), calls.Load())

	s.SessionKey(4999, true, done)
	r := await(t, results)
	require.NoError(t, r.err)
	assert.Equal(t, "key-4", r.key)
	assert.Equal(t, int32(4), calls.Load())
}

func TestRemoteSession_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sched, ctx := startLoop(t)
	host := newFakeHost()
	s := NewRemoteSession(ctx, sched, host, RemoteSessionConfig{
		URL:       srv.URL,
		Currency:  "USD",
		Precision: 2,
		Retries:   2,
		RetryWait: 10 * time.Millisecond,
	})
	defer s.Close()

	results := make(chan keyResult, 1)
	s.SessionKey(100, false, func(key string, err error) { results <- keyResult{key, err} })

	r := await(t, results)
	assert.ErrorIs(t, r.err, models.ErrTransport)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "", onLoopField(t, sched, host, models.FieldSessionKey))
}

func TestRemoteSession_RejectedRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":false}`)
	}))
	defer srv.Close()

	sched, ctx := startLoop(t)
	s := NewRemoteSession(ctx, sched, newFakeHost(), RemoteSessionConfig{URL: srv.URL, Currency: "USD", Precision: 2})
	defer s.Close()

	results := make(chan keyResult, 1)
	s.SessionKey(100, false, func(key string, err error) { results <- keyResult{key, err} })
	assert.Error(t, await(t, results).err)
}

func TestController_WithRemoteSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":{"sessionKey":"remote-key"}}`)
	}))
	defer srv.Close()

	sched, ctx := startLoop(t)
	host := newFakeHost()
	sdk := &fakeSDK{ready: true, autoFrame: true}
	sessions := NewRemoteSession(ctx, sched, host, RemoteSessionConfig{URL: srv.URL, Currency: "USD", Precision: 2})
	defer sessions.Close()

	ctrl := NewController(sched, sdk, host, sessions, Options{Currency: "USD"})
	ctrl.Start()

	require.Eventually(t, func() bool {
		return ctrl.State() == StateReady
	}, 5*time.Second, 10*time.Millisecond)

	ch := make(chan string, 1)
	sched.Post(func() { ch <- sdk.last().cfg.SessionKey })
	assert.Equal(t, "remote-key", <-ch)
}

func TestRemoteSession_KeyFollowsAmount(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "42", r.Header.Get("X-Customer-Id"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"success":true,"data":{"sessionKey":"key-%d-%s"}}`, n, r.FormValue("amount"))
	}))
	defer srv.Close()

	sched, ctx := startLoop(t)
	s := NewRemoteSession(ctx, sched, newFakeHost(), RemoteSessionConfig{
		URL:        srv.URL,
		Currency:   "USD",
		Precision:  2,
		CustomerID: "42",
	})
	defer s.Close()

	results := make(chan keyResult, 1)
	done := func(key string, err error) { results <- keyResult{key, err} }

	s.SessionKey(4999, false, done)
	assert.Equal(t, "key-1-49.99", await(t, results).key)

	s.SessionKey(2500, false, done)
	assert.Equal(t, "key-2-25.00", await(t, results).key)

	s.SessionKey(2500, false, done)
	assert.Equal(t, "key-2-25.00", await(t, results).key)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRemoteSession_NewAmountSupersedesFetch(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		amount := r.FormValue("amount")
		if amount == "49.99" {
			<-release
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"success":true,"data":{"sessionKey":"key-%s"}}`, amount)
	}))
	defer srv.Close()
	defer close(release)

	sched, ctx := startLoop(t)
	host := newFakeHost()
	s := NewRemoteSession(ctx, sched, host, RemoteSessionConfig{URL: srv.URL, Currency: "USD", Precision: 2})
	defer s.Close()

	stale := make(chan keyResult, 1)
	fresh := make(chan keyResult, 1)

	s.SessionKey(4999, false, func(key string, err error) { stale <- keyResult{key, err} })
	s.SessionKey(2500, false, func(key string, err error) { fresh <- keyResult{key, err} })

	r := await(t, stale)
	assert.ErrorIs(t, r.err, errSuperseded)
	assert.Empty(t, r.key)

	r = await(t, fresh)
	require.NoError(t, r.err)
	assert.Equal(t, "key-25.00", r.key)
	assert.Equal(t, "key-25.00", onLoopField(t, sched, host, models.FieldSessionKey))
}
