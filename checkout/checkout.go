// Package checkout drives the cart -> shipping -> payment sequence.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ManishKrBarman/LokRise-sub002/cart"
)

type State string

const (
	StateCart     State = "cart"
	StateShipping State = "shipping"
	StatePayment  State = "payment"
)

const (
	LoginPath   = "/login"
	PaymentPath = "/payment"

	saveFailedMessage = "We couldn't save your address. Please try again or continue without saving."
)

var (
	ErrNotAuthenticated = errors.New("login required")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrWrongState       = errors.New("action not allowed in current checkout state")
	ErrInvalidShipping  = errors.New("invalid shipping details")
	ErrAddressSave      = errors.New("failed to save address")
)

// ShippingDetails is the flat address/contact record collected at checkout.
type ShippingDetails struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Validate reports the first missing required field.
func (d ShippingDetails) Validate() error {
	required := []struct{ name, value string }{
		{"full_name", d.FullName},
		{"phone", d.Phone},
		{"street", d.Street},
		{"city", d.City},
		{"postal_code", d.PostalCode},
		{"country", d.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidShipping, f.name)
		}
	}
	return nil
}

// Authenticator answers whether a session exists.
type Authenticator interface {
	Authenticated() bool
}

// AddressSaver persists shipping details to the user's profile.
type AddressSaver interface {
	SaveAddress(ctx context.Context, d ShippingDetails) error
}

// Handoff is what the payment step receives.
type Handoff struct {
	Path     string          `json:"path"`
	Shipping ShippingDetails `json:"shipping_details"`
	Totals   cart.Totals     `json:"totals"`
}

// Step tells the caller where to go after an action.
type Step struct {
	State    State
	Redirect string
}

// Flow is one checkout session.
type Flow struct {
	mu      sync.Mutex
	state   State
	message string
	cart    *cart.Store
	auth    Authenticator
	saver   AddressSaver
}

func New(c *cart.Store, auth Authenticator, saver AddressSaver) *Flow {
	return &Flow{state: StateCart, cart: c, auth: auth, saver: saver}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message is the inline message left by the last failed action, if any.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Proceed moves from cart to shipping. Without a session the caller is sent to
// the login step and the flow stays in cart.
func (f *Flow) Proceed() (Step, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateCart {
		return Step{State: f.state}, ErrWrongState
	}
	if f.cart.Len() == 0 {
		f.message = ErrEmptyCart.Error()
		return Step{State: f.state}, ErrEmptyCart
	}
	if f.auth == nil || !f.auth.Authenticated() {
		f.message = ""
		return Step{State: f.state, Redirect: LoginPath}, ErrNotAuthenticated
	}

	f.state = StateShipping
	f.message = ""
	return Step{State: f.state}, nil
}

// Back returns from shipping to cart.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateShipping {
		return ErrWrongState
	}
	f.state = StateCart
	f.message = ""
	return nil
}

// SubmitShipping finishes the flow. When save is set the address is written to
// the profile first and a failure keeps the flow in shipping.
func (f *Flow) SubmitShipping(ctx context.Context, d ShippingDetails, save bool) (Handoff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateShipping {
		return Handoff{}, ErrWrongState
	}
	if err := d.Validate(); err != nil {
		f.message = err.Error()
		return Handoff{}, err
	}

	if save {
		if f.saver == nil {
			f.message = saveFailedMessage
			return Handoff{}, ErrAddressSave
		}
		if err := f.saver.SaveAddress(ctx, d); err != nil {
			f.message = saveFailedMessage
			return Handoff{}, fmt.Errorf("%w: %w", ErrAddressSave, err)
		}
	}

	f.state = StatePayment
	f.message = ""
	return Handoff{
		Path:     PaymentPath,
		Shipping: d,
		Totals:   f.cart.Totals(),
	}, nil
}
