package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRunClearsBusy(t *testing.T) {
	r := NewRunner(Options{})
	if r.Busy() {
		t.Fatalf("new runner busy")
	}
	task := r.Run(context.Background(), func(context.Context) error { return nil })
	if err := task.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if r.Busy() {
		t.Fatalf("busy after completion")
	}
}

func TestStaleCompletionDoesNotClearBusy(t *testing.T) {
	r := NewRunner(Options{})
	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	var ctxA context.Context

	a := r.Run(context.Background(), func(ctx context.Context) error {
		ctxA = ctx
		<-releaseA
		return nil
	})
	b := r.Run(context.Background(), func(ctx context.Context) error {
		<-releaseB
		return nil
	})
	if b.Seq() <= a.Seq() {
		t.Fatalf("sequence not increasing: %d then %d", a.Seq(), b.Seq())
	}

	close(releaseA)
	if err := a.Wait(); err != nil {
		t.Fatalf("a: %v", err)
	}
	if ctxA.Err() == nil {
		t.Fatalf("superseded task context not canceled")
	}
	if !r.Busy() {
		t.Fatalf("stale completion cleared busy")
	}

	close(releaseB)
	if err := b.Wait(); err != nil {
		t.Fatalf("b: %v", err)
	}
	if r.Busy() {
		t.Fatalf("busy after latest completion")
	}
}

func TestLateStaleCompletionAfterLatest(t *testing.T) {
	r := NewRunner(Options{})
	releaseA := make(chan struct{})
	a := r.Run(context.Background(), func(ctx context.Context) error {
		<-releaseA
		return nil
	})
	b := r.Run(context.Background(), func(ctx context.Context) error { return nil })
	if err := b.Wait(); err != nil {
		t.Fatalf("b: %v", err)
	}
	if r.Busy() {
		t.Fatalf("busy after B")
	}
	c := r.Run(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	close(releaseA)
	_ = a.Wait()
	if !r.Busy() {
		t.Fatalf("A's late completion cleared busy while C runs")
	}
	r.Cancel()
	if err := c.Wait(); !IsCanceled(err) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if r.Busy() {
		t.Fatalf("busy after cancel")
	}
}

func TestSupersessionAbortsHTTPRequest(t *testing.T) {
	aborted := make(chan struct{})
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		close(started)
		select {
		case <-req.Context().Done():
			close(aborted)
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	r := NewRunner(Options{})
	first := r.Run(context.Background(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		if err != nil {
			return err
		}
		resp, err := srv.Client().Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		return nil
	})
	<-started
	second := r.Run(context.Background(), func(context.Context) error { return nil })

	select {
	case <-aborted:
	case <-time.After(2 * time.Second):
		t.Fatalf("server never saw the request abort")
	}
	if err := first.Wait(); !IsCanceled(err) {
		t.Fatalf("first task error = %v, want cancellation", err)
	}
	if err := second.Wait(); err != nil {
		t.Fatalf("second: %v", err)
	}
}

func TestOnErrorSkipsCancellation(t *testing.T) {
	var (
		mu   sync.Mutex
		errs []error
	)
	r := NewRunner(Options{OnError: func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}})
	boom := errors.New("boom")
	if err := r.Run(context.Background(), func(context.Context) error { return boom }).Wait(); !errors.Is(err, boom) {
		t.Fatalf("wait = %v", err)
	}
	task := r.Run(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	task.Cancel()
	_ = task.Wait()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(errs) >= 1
	})
	mu.Lock()
	defer mu.Unlock()
	if len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Fatalf("errors = %v", errs)
	}
}

func TestSubscribe(t *testing.T) {
	r := NewRunner(Options{})
	ch, unsubscribe := r.Subscribe()
	defer unsubscribe()
	if v := <-ch; v {
		t.Fatalf("initial state busy")
	}
	release := make(chan struct{})
	task := r.Run(context.Background(), func(context.Context) error {
		<-release
		return nil
	})
	if v := <-ch; !v {
		t.Fatalf("expected busy notification")
	}
	close(release)
	_ = task.Wait()
	if v := <-ch; v {
		t.Fatalf("expected idle notification")
	}
}

func TestWaitIdle(t *testing.T) {
	if err := NewRunner(Options{}).Wait(); err != nil {
		t.Fatalf("idle wait: %v", err)
	}
}
