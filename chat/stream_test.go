// Copyright (c) Microsoft. All rights reserved.

package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/microsoft/agent-workflow/go/chat"
)

func TestStream_Collect(t *testing.T) {
	s := chat.NewStream(context.Background(), func(ctx context.Context, ch chan<- int) error {
		for i := 1; i <= 5; i++ {
			ch <- i
		}
		return nil
	})

	vals, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(vals) != 5 || vals[0] != 1 || vals[4] != 5 {
		t.Errorf("vals = %v", vals)
	}
}

func TestStream_ProducerError(t *testing.T) {
	wantErr := errors.New("producer blew up")
	s := chat.NewStream(context.Background(), func(ctx context.Context, ch chan<- string) error {
		ch <- "first"
		return wantErr
	})

	vals, err := s.Collect(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if len(vals) != 1 || vals[0] != "first" {
		t.Errorf("vals = %v", vals)
	}
}

func TestStream_NextAfterExhaustion(t *testing.T) {
	s := chat.NewStream(context.Background(), func(ctx context.Context, ch chan<- int) error {
		ch <- 1
		return nil
	})

	if _, ok, err := s.Next(context.Background()); !ok || err != nil {
		t.Fatalf("first Next: ok=%v err=%v", ok, err)
	}
	if _, ok, err := s.Next(context.Background()); ok || err != nil {
		t.Errorf("exhausted Next: ok=%v err=%v", ok, err)
	}
	// Repeated calls after exhaustion stay terminal.
	if _, ok, _ := s.Next(context.Background()); ok {
		t.Error("Next after exhaustion returned ok")
	}
}

func TestStream_ContextCancellation(t *testing.T) {
	s := chat.NewStream(context.Background(), func(ctx context.Context, ch chan<- int) error {
		<-ctx.Done() // never produces
		return ctx.Err()
	})
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok, err := s.Next(ctx)
	if ok {
		t.Error("Next returned a value from a blocked producer")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v", err)
	}
}

func TestStream_CloseUnblocksProducer(t *testing.T) {
	done := make(chan struct{})
	s := chat.NewStream(context.Background(), func(ctx context.Context, ch chan<- int) error {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case ch <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	if _, ok, err := s.Next(context.Background()); !ok || err != nil {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Close is idempotent.
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer did not stop after Close")
	}
}

func TestMapStream(t *testing.T) {
	src := chat.NewStream(context.Background(), func(ctx context.Context, ch chan<- int) error {
		for _, v := range []int{1, 2, 3} {
			ch <- v
		}
		return nil
	})

	dst := chat.MapStream(context.Background(), src, func(v int) int { return v * 10 })
	vals, err := dst.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(vals) != 3 || vals[0] != 10 || vals[2] != 30 {
		t.Errorf("vals = %v", vals)
	}
}
