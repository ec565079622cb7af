package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func runPump(ctx context.Context, readDone <-chan struct{}, ch <-chan *redis.Message, write func([]byte) error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		pumpStatus(ctx, readDone, ch, write)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("pump did not return after %s", what)
	}
}

func TestPumpStatusForwardsPayloads(t *testing.T) {
	ch := make(chan *redis.Message, 2)
	ch <- &redis.Message{Payload: "first"}
	ch <- &redis.Message{Payload: "second"}
	close(ch)

	var got []string
	done := runPump(context.Background(), make(chan struct{}), ch, func(b []byte) error {
		got = append(got, string(b))
		return nil
	})
	waitDone(t, done, "channel close")

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("forwarded %v, want [first second] in order", got)
	}
}

func TestPumpStatusReturnsOnReaderExit(t *testing.T) {
	readDone := make(chan struct{})
	// no message is ever published; only readDone may release the pump
	done := runPump(context.Background(), readDone, make(chan *redis.Message), func([]byte) error { return nil })

	close(readDone)
	waitDone(t, done, "reader exit")
}

func TestPumpStatusReturnsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := runPump(ctx, make(chan struct{}), make(chan *redis.Message), func([]byte) error { return nil })

	cancel()
	waitDone(t, done, "context cancel")
}

func TestPumpStatusStopsOnWriteFailure(t *testing.T) {
	ch := make(chan *redis.Message, 2)
	ch <- &redis.Message{Payload: "first"}
	ch <- &redis.Message{Payload: "second"}

	var writes int
	done := runPump(context.Background(), make(chan struct{}), ch, func([]byte) error {
		writes++
		return errors.New("peer gone")
	})
	waitDone(t, done, "write failure")

	if writes != 1 {
		t.Fatalf("pump kept writing to a dead peer, writes=%d", writes)
	}
}
