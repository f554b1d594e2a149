package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusPrinting},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusPrinting, OrderStatusCompleted},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderStatusCompleted, OrderStatusPending},
		{OrderStatusCompleted, OrderStatusPrinting},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusPrinting, OrderStatusPending},
		{OrderStatusPrinting, OrderStatusCancelled},
		{OrderStatusPending, OrderStatusCompleted},
		{OrderStatusPending, OrderStatusPending},
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !OrderStatusCompleted.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatal("completed and cancelled must be terminal")
	}
	if OrderStatusPending.IsTerminal() || OrderStatusPrinting.IsTerminal() {
		t.Fatal("pending and printing must not be terminal")
	}
	if OrderStatus("shipped").IsTerminal() {
		t.Fatal("unknown status must not report terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	status, err := ParseOrderStatus("printing")
	if err != nil {
		t.Fatalf("parse printing: %v", err)
	}
	if status != OrderStatusPrinting {
		t.Fatalf("unexpected status %s", status)
	}
}

func TestParseProfileRole(t *testing.T) {
	if _, err := ParseProfileRole("admin"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	role, err := ParseProfileRole("merchant")
	if err != nil {
		t.Fatalf("parse merchant: %v", err)
	}
	if role != ProfileRoleMerchant {
		t.Fatalf("unexpected role %s", role)
	}
}
