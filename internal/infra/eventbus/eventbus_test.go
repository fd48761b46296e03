package eventbus

import (
	"testing"
	"time"
)

func TestEventBus_PublishAndSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe("chat.state")

	bus.Publish("chat.state", "pending")

	select {
	case evt := <-ch:
		if evt.Topic != "chat.state" {
			t.Errorf("expected topic 'chat.state', got %q", evt.Topic)
		}
		if evt.Payload != "pending" {
			t.Errorf("expected payload 'pending', got %v", evt.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout: expected event to be received within 100ms")
	}
}

func TestEventBus_MultipleSubscribers_AllReceive(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe("multi.topic")
	ch2 := bus.Subscribe("multi.topic")

	bus.Publish("multi.topic", 42)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.Payload != 42 {
				t.Errorf("subscriber %d: expected payload 42, got %v", i, evt.Payload)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestEventBus_DifferentTopics_NoInterference(t *testing.T) {
	bus := New()
	chA := bus.Subscribe("topic.a")
	chB := bus.Subscribe("topic.b")

	bus.Publish("topic.a", "for-a")

	select {
	case evt := <-chA:
		if evt.Payload != "for-a" {
			t.Errorf("topic.a: unexpected payload %v", evt.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("topic.a: timeout waiting for event")
	}

	select {
	case evt := <-chB:
		t.Errorf("topic.b: received unexpected event: %v", evt)
	default:
	}
}

func TestEventBus_NonBlockingPublish_FullBuffer(t *testing.T) {
	bus := New()
	_ = bus.Subscribe("overflow.topic")

	done := make(chan struct{})
	go func() {
		for i := 0; i <= defaultBufferSize+10; i++ {
			bus.Publish("overflow.topic", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Error("Publish blocked when buffer was full (should be non-blocking)")
	}
}

func TestEventBus_CloseEndsSubscriptions(t *testing.T) {
	bus := New()
	ch := bus.Subscribe("chat.state")
	bus.Publish("chat.state", "idle")
	bus.Close()

	if evt, ok := <-ch; !ok || evt.Payload != "idle" {
		t.Fatalf("expected buffered event before close, got %v (ok=%v)", evt, ok)
	}
	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}

	bus.Publish("chat.state", "ignored")
	bus.Close()

	if _, ok := <-bus.Subscribe("chat.state"); ok {
		t.Fatal("subscribing after Close should yield a closed channel")
	}
}
