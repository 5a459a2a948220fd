package notify

import "testing"

func TestBrokerBroadcast(t *testing.T) {
	b := NewBroker()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Changed()

	for i, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		default:
			t.Fatalf("subscriber %d missed the signal", i)
		}
	}
}

func TestBrokerPublishNeverBlocks(t *testing.T) {
	b := NewBroker()
	_, cancel := b.Subscribe()
	defer cancel()

	// Nobody drains; repeated publishes must still return.
	for i := 0; i < 10; i++ {
		b.Changed()
	}
}

func TestBrokerCancelRemovesSubscriber(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()
	cancel()
	b.Changed()
	select {
	case <-ch:
		t.Fatalf("cancelled subscriber still received a signal")
	default:
	}
}

type countListener struct{ n int }

func (c *countListener) Changed() { c.n++ }

func TestMultiFansOut(t *testing.T) {
	a, b := &countListener{}, &countListener{}
	m := Multi{a, b}
	m.Changed()
	m.Changed()
	if a.n != 2 || b.n != 2 {
		t.Fatalf("listener counts = %d, %d, want 2, 2", a.n, b.n)
	}
}
