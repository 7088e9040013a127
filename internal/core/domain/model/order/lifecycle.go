package order

import (
	"context"
	"errors"
	"sync"

	"github.com/looplab/fsm"
)

// lifecycle is the legal source→destination graph. Guards and effects live in
// Apply; the graph only answers "may this event fire from here, and where to".
type lifecycle struct {
	fsm *fsm.FSM
	mu  sync.Mutex
}

var graph = newLifecycle()

func newLifecycle() *lifecycle {
	all := make([]string, 0, int(Cancelled))
	for s := Pending; s <= Cancelled; s++ {
		all = append(all, s.String())
	}

	l := &lifecycle{}
	l.fsm = fsm.NewFSM(
		Pending.String(),
		fsm.Events{
			{Name: EventRequestReady.String(), Src: []string{Pending.String()}, Dst: OrderReady.String()},
			{
				Name: EventCustomerConfirm.String(),
				Src:  []string{OrderReady.String(), OnHold.String()},
				Dst:  CustomerConfirmed.String(),
			},
			{Name: EventMarkReadyToShip.String(), Src: []string{CustomerConfirmed.String()}, Dst: ReadyToShip.String()},
			{Name: EventCarrierPickedUp.String(), Src: []string{ReadyToShip.String()}, Dst: Shipped.String()},
			{Name: EventCarrierDelivered.String(), Src: []string{Shipped.String()}, Dst: Fulfilled.String()},
			{Name: EventEscalateToHold.String(), Src: []string{OrderReady.String()}, Dst: OnHold.String()},
			{Name: EventEscalateToCancel.String(), Src: []string{OnHold.String()}, Dst: Cancelled.String()},
			{Name: EventManualCancel.String(), Src: all, Dst: Cancelled.String()},
			{
				Name: EventCarrierReturnConfirmed.String(),
				Src:  []string{Cancelled.String()},
				Dst:  Cancelled.String(),
			},
		},
		fsm.Callbacks{},
	)
	return l
}

// destination returns the status the event leads to from current. ok is false when
// the event is not legal from current.
func (l *lifecycle) destination(current Status, event EventKind) (Status, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fsm.SetState(current.String())
	err := l.fsm.Event(context.Background(), event.String())
	if err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return Unknown, false
		}
	}

	dst, perr := ParseStatus(l.fsm.Current())
	if perr != nil {
		return Unknown, false
	}
	return dst, true
}

// available lists the events that may fire from current.
func (l *lifecycle) available(current Status) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fsm.SetState(current.String())
	return l.fsm.AvailableTransitions()
}
