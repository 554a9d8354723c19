package draft

import "sync"

// Payment is the payment form. Values are kept as typed by the operator and
// coerced only when the payment is dispatched.
type Payment struct {
	mu       sync.RWMutex
	OrderID  string `json:"order_id"`
	Amount   string `json:"amount"`
	Method   string `json:"method"`
	Currency string `json:"currency"`
}

// NewPayment returns a payment draft with the form defaults.
func NewPayment() *Payment {
	return &Payment{Method: "credit_card", Currency: "USD"}
}

// SeedOrder links the draft to an order, typically one just created.
func (p *Payment) SeedOrder(orderID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.OrderID = orderID
}

// Fields returns the draft as raw form values keyed by API field name.
func (p *Payment) Fields() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return map[string]string{
		"order_id": p.OrderID,
		"amount":   p.Amount,
		"method":   p.Method,
		"currency": p.Currency,
	}
}

// Set updates one field by API name. Unknown names are ignored.
func (p *Payment) Set(field, value string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch field {
	case "order_id":
		p.OrderID = value
	case "amount":
		p.Amount = value
	case "method":
		p.Method = value
	case "currency":
		p.Currency = value
	default:
		return false
	}
	return true
}
