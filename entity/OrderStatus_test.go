package entity

import "testing"

func TestNextOrderStatusWalksForward(t *testing.T) {
	want := []string{OrderProcessing, OrderShipped, OrderCompleted, OrderReceived, OrderDelivered}
	cur := OrderPending
	for _, w := range want {
		next, ok := NextOrderStatus(cur)
		if !ok || next != w {
			t.Fatalf("next(%s) = %q,%v; want %q", cur, next, ok, w)
		}
		cur = next
	}
	if _, ok := NextOrderStatus(OrderDelivered); ok {
		t.Fatal("delivered must be terminal")
	}
	if _, ok := NextOrderStatus(OrderCancelled); ok {
		t.Fatal("cancelled must be terminal")
	}
	if _, ok := NextOrderStatus("Lost"); ok {
		t.Fatal("unknown status must not advance")
	}
}

func TestPaymentStatusFor(t *testing.T) {
	cases := map[string]string{
		TransactionSuccess: PaymentPaid,
		TransactionFailed:  PaymentFailed,
		TransactionPending: PaymentPending,
	}
	for in, want := range cases {
		if got := PaymentStatusFor(in); got != want {
			t.Errorf("PaymentStatusFor(%s) = %s; want %s", in, got, want)
		}
	}
}
