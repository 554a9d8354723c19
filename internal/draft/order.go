// Package draft holds operator-edited request drafts that outlive a single
// command: the pending order's line items and the payment form.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ItemKind is the catalog family a line item refers to.
type ItemKind string

const (
	ItemProduct  ItemKind = "product"
	ItemService  ItemKind = "service"
	ItemResource ItemKind = "resource"
)

// ErrInvalidLineItem wraps validation failures of a line item.
var ErrInvalidLineItem = errors.New("invalid line item")

// LineItem is one entry of a pending order.
type LineItem struct {
	Kind     ItemKind `json:"item_type" validate:"required,oneof=product service resource"`
	ItemID   string   `json:"item_id"`
	Quantity int      `json:"quantity" validate:"min=1"`
	Variant  string   `json:"variant"`
}

// DefaultLineItem is the blank line a fresh draft starts with.
func DefaultLineItem() LineItem {
	return LineItem{Kind: ItemProduct, Quantity: 1}
}

var validate = validator.New()

// Validate checks the kind and quantity constraints.
func (li LineItem) Validate() error {
	if err := validate.Struct(li); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidLineItem, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidLineItem, err)
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Order is the pending order draft. It always holds at least one line item.
type Order struct {
	mu    sync.RWMutex
	items []LineItem
}

// NewOrder returns a draft holding a single blank product line.
func NewOrder() *Order {
	return &Order{items: []LineItem{DefaultLineItem()}}
}

// Items returns a copy of the line items in order.
func (o *Order) Items() []LineItem {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]LineItem(nil), o.items...)
}

// Add appends a validated line item and returns its index.
func (o *Order) Add(item LineItem) (int, error) {
	if err := item.Validate(); err != nil {
		return 0, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append(o.items, item)
	return len(o.items) - 1, nil
}

// Remove deletes the line at index. Removing the sole remaining line is a
// silent no-op and reports false.
func (o *Order) Remove(index int) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkIndex(index); err != nil {
		return false, err
	}
	if len(o.items) == 1 {
		return false, nil
	}
	o.items = append(o.items[:index], o.items[index+1:]...)
	return true, nil
}

// Update replaces the line at index after validation.
func (o *Order) Update(index int, item LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkIndex(index); err != nil {
		return err
	}
	o.items[index] = item
	return nil
}

// Item returns the line at index.
func (o *Order) Item(index int) (LineItem, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	return o.items[index], nil
}

// Reset returns the draft to a single blank line.
func (o *Order) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = []LineItem{DefaultLineItem()}
}

func (o *Order) checkIndex(index int) error {
	if index < 0 || index >= len(o.items) {
		return fmt.Errorf("line item %d out of range (draft has %d)", index+1, len(o.items))
	}
	return nil
}

// MarshalJSON encodes the line items as a JSON array.
func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Items())
}

// UnmarshalJSON restores line items through Restore.
func (o *Order) UnmarshalJSON(data []byte) error {
	var raw []LineItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Restore(raw)
	return nil
}

// Restore replaces the line items. Invalid lines are dropped; an empty
// result becomes the single blank line. It reports how many were dropped.
func (o *Order) Restore(raw []LineItem) int {
	items := make([]LineItem, 0, len(raw))
	for _, item := range raw {
		if item.Validate() == nil {
			items = append(items, item)
		}
	}
	dropped := len(raw) - len(items)
	if len(items) == 0 {
		items = []LineItem{DefaultLineItem()}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = items
	return dropped
}
