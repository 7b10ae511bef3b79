package httpapi

import (
	"context"
	"testing"
	"time"
)

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled in time")
	}
}

func TestJoinContextsCancelsWhenEitherParentDoes(t *testing.T) {
	a, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	b, cancelB := context.WithCancel(context.Background())
	defer cancelB()

	joined, cancel := joinContexts(a, b)
	defer cancel()
	cancelA()
	waitDone(t, joined)

	a2, cancelA2 := context.WithCancel(context.Background())
	defer cancelA2()
	b2, cancelB2 := context.WithCancel(context.Background())
	joined2, cancel2 := joinContexts(a2, b2)
	defer cancel2()
	cancelB2()
	waitDone(t, joined2)
}

func TestJoinContextsCancelReleasesWithLiveParents(t *testing.T) {
	// Neither parent ever cancels; the returned cancel alone must end
	// the joined context (and with it the forwarding goroutine).
	joined, cancel := joinContexts(context.Background(), context.Background())
	cancel()
	waitDone(t, joined)
}
