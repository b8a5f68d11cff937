package cartview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/your-org/storefront/internal/domain/cart"
)

// Action identifies a user interaction with a cart line
type Action string

const (
	ActionIncrement   Action = "increment"
	ActionDecrement   Action = "decrement"
	ActionSetQuantity Action = "set_quantity"
	ActionRemove      Action = "remove"
)

// ErrUnknownAction is returned for events no control produces
var ErrUnknownAction = errors.New("unknown cart action")

// Event is a user interaction delivered by a surface
type Event struct {
	Action Action
	ItemID string
	Value  string // raw input for ActionSetQuantity
}

// RenderFunc draws a view onto a surface
type RenderFunc func(View) error

// Binder routes events to store operations and redraws after each one.
// Events are dispatched by action, so a full redraw never duplicates handlers.
type Binder struct {
	store  *cart.Store
	symbol string
	render RenderFunc
}

// NewBinder creates a binder for store drawing through render
func NewBinder(store *cart.Store, symbol string, render RenderFunc) *Binder {
	return &Binder{
		store:  store,
		symbol: symbol,
		render: render,
	}
}

// Render draws the current store state
func (b *Binder) Render() error {
	return b.render(b.View())
}

// View projects the current store state
func (b *Binder) View() View {
	return Project(b.store.Items(), b.symbol)
}

// Dispatch applies the event to the store and redraws. Events for unknown
// lines and unparseable quantity input change nothing but still redraw, so the
// surface resets to the stored value. A failed save still redraws, since the
// in-memory cart has changed.
func (b *Binder) Dispatch(ctx context.Context, event Event) error {
	if err := b.apply(ctx, event); err != nil {
		if errors.Is(err, ErrUnknownAction) {
			return err
		}
		return errors.Join(err, b.Render())
	}
	return b.Render()
}

func (b *Binder) apply(ctx context.Context, event Event) error {
	switch event.Action {
	case ActionIncrement, ActionDecrement:
		item, ok := b.store.Item(event.ItemID)
		if !ok {
			return nil
		}
		quantity := item.Quantity + 1
		if event.Action == ActionDecrement {
			quantity = item.Quantity - 1
		}
		return b.store.UpdateQuantity(ctx, event.ItemID, quantity)

	case ActionSetQuantity:
		quantity, ok := ParseQuantity(event.Value)
		if !ok {
			return nil
		}
		return b.store.UpdateQuantity(ctx, event.ItemID, quantity)

	case ActionRemove:
		return b.store.RemoveItem(ctx, event.ItemID)

	default:
		return fmt.Errorf("%w %q", ErrUnknownAction, event.Action)
	}
}

// ParseQuantity coerces typed input to an integer the way a number field
// does: surrounding space is ignored, an optional sign and the leading digits
// are used and anything after them is dropped ("3.7" is 3, "4 items" is 4).
// Input without leading digits is rejected.
func ParseQuantity(raw string) (int, bool) {
	s := strings.TrimSpace(raw)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == digits {
		return 0, false
	}

	quantity, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return quantity, true
}
