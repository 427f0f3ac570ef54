package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type countingPinger struct {
	failures int
	calls    int
}

func (p *countingPinger) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitForPing_Ready(t *testing.T) {
	p := &countingPinger{failures: 2}
	if err := WaitForPing(context.Background(), p, "redis", 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls != 3 {
		t.Errorf("calls = %d, want 3", p.calls)
	}
}

func TestWaitForPing_Timeout(t *testing.T) {
	p := &countingPinger{failures: 1 << 30}
	err := WaitForPing(context.Background(), p, "valkey", 120*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error should wrap DeadlineExceeded: %v", err)
	}
	if !strings.Contains(err.Error(), "valkey") || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error should name backend and last ping failure: %v", err)
	}
}
