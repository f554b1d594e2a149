package enums

import "fmt"

// OrderStatus tracks the lifecycle of a print order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPrinting  OrderStatus = "printing"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPrinting,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// nextOrderStatuses holds the only legal forward edges. Completed and
// cancelled are terminal.
var nextOrderStatuses = map[OrderStatus][]OrderStatus{
	OrderStatusPending:  {OrderStatusPrinting, OrderStatusCancelled},
	OrderStatusPrinting: {OrderStatusCompleted},
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

// IsTerminal reports whether no further transition may leave this status.
func (o OrderStatus) IsTerminal() bool {
	return len(nextOrderStatuses[o]) == 0 && o.IsValid()
}

// CanTransitionTo reports whether the status may legally move to next.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range nextOrderStatuses[o] {
		if candidate == next {
			return true
		}
	}
	return false
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
