package enums

import "fmt"

// OrderStatus tracks an order through the fulfillment pipeline.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "draft"
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusDispatched OrderStatus = "dispatched"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusComplete   OrderStatus = "complete"
	OrderStatusCanceled   OrderStatus = "canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusCreated,
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusDispatched,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusComplete,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the fulfillment pipeline.
// Terminal is a convention for workboard filtering, not an enforced guard;
// staff may still move an order out of a terminal status manually.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusComplete || o == OrderStatusCanceled
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
