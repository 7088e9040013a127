package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Customer holds the contact fields used to message the buyer and to match carrier
// parcels that lack a tracking token.
type Customer struct {
	Phone     string
	FirstName string
}

// Order is a snapshot of an order owned by the commerce platform. Commerce fields
// (lines, totals, addresses) are not modeled; only identity, customer contact and the
// decoded label state are.
//
// An Order is read, decided on and written back within a single unit of work. It is
// never cached between job cycles.
type Order struct {
	// id is the platform's numeric order id
	id int64

	// number is the human-readable order name, e.g. "#1001"
	number string

	customer  Customer
	createdAt time.Time
	state     State

	// isConstructed ensures the order was created via NewOrder
	isConstructed bool
}

// NewOrder creates an Order snapshot with validation.
//
// Parameters:
//   - id: platform order id (must be positive)
//   - number: human-readable order number (must not be blank)
//   - customer: contact fields, may be empty
//   - createdAt: creation time on the platform
//   - state: decoded label state
func NewOrder(id int64, number string, customer Customer, createdAt time.Time, state State) (*Order, error) {
	o := &Order{
		customer:      customer,
		createdAt:     createdAt,
		state:         state,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) Customer() Customer {
	return o.customer
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) State() State {
	return o.state
}

func (o *Order) Status() Status {
	return o.state.Status()
}

// Apply runs the state machine and keeps the resulting state on the order when the
// transition succeeds.
func (o *Order) Apply(ev Event) (Transition, error) {
	tr, err := Apply(o.state, ev)
	if err != nil {
		return tr, err
	}
	o.state = tr.To
	return tr, nil
}

// MarkNotified records the status last announced to humans.
func (o *Order) MarkNotified(status Status) {
	o.state = o.state.WithAttribute(KeyNotified, status.String())
}

func (o *Order) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

// SameNumber compares order numbers ignoring a leading '#'.
func SameNumber(a, b string) bool {
	trim := func(s string) string { return strings.TrimPrefix(strings.TrimSpace(s), "#") }
	return trim(a) != "" && trim(a) == trim(b)
}
