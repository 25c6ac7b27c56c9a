package notify

import (
	"errors"
	"testing"

	"github.com/dshills/macropad/internal/keyaction"
)

func TestSubscribePublish(t *testing.T) {
	n := New()

	var got []Event
	if _, err := n.Subscribe(func(e Event) { got = append(got, e) }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	e := Event{Kind: Recorded, Trigger: keyaction.Press(0, 1, 2)}
	n.Publish(e)

	if len(got) != 1 || got[0] != e {
		t.Errorf("handler saw %v, want [%v]", got, e)
	}
}

func TestPublishOrder(t *testing.T) {
	n := New()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		if _, err := n.Subscribe(func(Event) { order = append(order, i) }); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
	}

	n.Publish(Event{Kind: Compacted, Reclaimed: 10})

	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("delivery order = %v, want [0 1 2]", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()

	calls := 0
	id, err := n.Subscribe(func(Event) { calls++ })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := n.Unsubscribe(id); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	n.Publish(Event{Kind: Cleared})

	if calls != 0 {
		t.Errorf("unsubscribed handler called %d times", calls)
	}
	if got := n.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}

	if err := n.Unsubscribe(id); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestSubscribeNilHandler(t *testing.T) {
	n := New()
	if _, err := n.Subscribe(nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("Subscribe(nil) = %v, want ErrNilHandler", err)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		in   Kind
		want string
	}{
		{Recorded, "recorded"},
		{Cleared, "cleared"},
		{Compacted, "compacted"},
		{Reinitialized, "reinitialized"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
