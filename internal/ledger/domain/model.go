package domain

import (
	directorydomain "github.com/smallbiznis/jielong/internal/directory/domain"
)

// Status is the order lifecycle. Normal movement is forward-only:
// PENDING_PAYMENT -> PAID -> SHIPPED.
type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusShipped        Status = "SHIPPED"
)

// Rank orders the lifecycle; unknown statuses rank -1.
func (s Status) Rank() int {
	switch s {
	case StatusPendingPayment:
		return 0
	case StatusPaid:
		return 1
	case StatusShipped:
		return 2
	default:
		return -1
	}
}

func (s Status) Valid() bool { return s.Rank() >= 0 }

// OrderItem is one resolved line. PriceAtTime is the unit price frozen at
// reconciliation and is never recomputed from the catalog.
type OrderItem struct {
	ID          string  `json:"id"`
	ProductName string  `json:"productName"`
	SpecName    string  `json:"specName,omitempty"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"priceAtTime"`
}

// Order holds a value snapshot of the matched customer, not a live
// reference: later directory edits or deletes must not rewrite history.
type Order struct {
	ID              string                    `json:"id"`
	WechatNickname  string                    `json:"wechatNickname"`
	Items           []OrderItem               `json:"items"`
	TotalAmount     float64                   `json:"totalAmount"`
	Status          Status                    `json:"status"`
	Timestamp       int64                     `json:"timestamp"`
	MatchedCustomer *directorydomain.Customer `json:"matchedCustomer,omitempty"`
	Note            string                    `json:"note,omitempty"`
}

// Total sums quantity * priceAtTime over items.
func Total(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.PriceAtTime
	}
	return total
}

// Normalize repairs orders decoded from an external blob: nil item slices
// become empty, unknown statuses reset to PENDING_PAYMENT, customer
// snapshots are deep-copied, and totals are recomputed so a tampered
// totalAmount can never diverge from the item sum.
func Normalize(orders []Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Items == nil {
			o.Items = []OrderItem{}
		}
		if !o.Status.Valid() {
			o.Status = StatusPendingPayment
		}
		if o.MatchedCustomer != nil {
			snapshot := *o.MatchedCustomer
			o.MatchedCustomer = &snapshot
		}
		o.TotalAmount = Total(o.Items)
		out = append(out, o)
	}
	return out
}

// Clone returns a deep copy of the order.
func Clone(o Order) Order {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	if o.MatchedCustomer != nil {
		snapshot := *o.MatchedCustomer
		o.MatchedCustomer = &snapshot
	}
	return o
}
