package events

import (
	"context"
	"testing"
	"time"
)

func TestBus_FanOutToRecipients(t *testing.T) {
	ctx := context.Background()
	bus := NewBus()

	chB, cancelB := bus.Subscribe("B")
	defer cancelB()
	chC, cancelC := bus.Subscribe("C")
	defer cancelC()

	bus.Publish(ctx, Event{Type: TypeNudge, ThreadID: "T1", From: "A", Recipients: []string{"B"}})

	select {
	case ev := <-chB:
		if ev.ThreadID != "T1" || ev.From != "A" {
			t.Errorf("Unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("B never received the event")
	}

	select {
	case ev := <-chC:
		t.Errorf("C should not receive an event targeted at B, got %+v", ev)
	default:
	}
}

func TestBus_MultipleSubscribersPerUser(t *testing.T) {
	ctx := context.Background()
	bus := NewBus()

	ch1, cancel1 := bus.Subscribe("B")
	defer cancel1()
	ch2, cancel2 := bus.Subscribe("B")
	defer cancel2()

	bus.Publish(ctx, Event{Type: TypeMessageSent, Recipients: []string{"B"}})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("Subscriber %d never received the event", i)
		}
	}
}

func TestBus_SlowSubscriberNeverBlocks(t *testing.T) {
	ctx := context.Background()
	bus := NewBus()

	_, cancel := bus.Subscribe("B")
	defer cancel()

	// Publish far beyond the buffer; the bus must drop, not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			bus.Publish(ctx, Event{Type: TypeNudge, Recipients: []string{"B"}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe("B")
	cancel()

	if _, open := <-ch; open {
		t.Error("Expected channel closed after cancel")
	}

	// Publishing after cancel is a no-op, not a panic.
	bus.Publish(context.Background(), Event{Recipients: []string{"B"}})
}
