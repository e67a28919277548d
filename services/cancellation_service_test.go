package services

import (
	"context"
	"errors"
	"testing"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
)

func TestCancelPendingOrder(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder()

	rec, err := f.cancel.Cancel(context.Background(), f.customer.ID, order.ID, "ordered by mistake")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != entity.CancellationStatusCanceled || rec.Reason != "ordered by mistake" {
		t.Fatalf("record = %+v", rec)
	}

	stored, err := f.orderRepo.FindByID(f.db, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.OrderStatus != entity.OrderCancelled || stored.PaymentStatus != entity.PaymentFailed {
		t.Fatalf("order = %s/%s", stored.OrderStatus, stored.PaymentStatus)
	}
	txn, err := f.payments.FindByID(f.db, order.PaymentTransactionID)
	if err != nil {
		t.Fatal(err)
	}
	if txn.TransactionStatus != entity.TransactionFailed {
		t.Fatalf("transaction = %s", txn.TransactionStatus)
	}
	timeout, err := f.timeouts.FindByOrder(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if timeout.ProcessedAt == nil {
		t.Fatal("timeout row should be closed")
	}

	// Customer and store owner.
	if f.mail.count() != 2 {
		t.Fatalf("emails = %d", f.mail.count())
	}
	to := map[string]bool{}
	for _, m := range f.mail.sent {
		to[m.To] = true
	}
	if !to[f.customer.Email] || !to[f.seller.Email] {
		t.Fatalf("recipients = %v", to)
	}

	if _, err := f.cancel.Cancel(context.Background(), f.customer.ID, order.ID, "again"); !errors.Is(err, ErrConflict) {
		t.Fatalf("second cancel: %v", err)
	}

	list, err := f.cancel.ListCancelled()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Order.ID != order.ID || list[0].User.ID != f.customer.ID {
		t.Fatalf("list = %+v", list)
	}
}

func TestCancelOnlyFromPending(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder()
	if _, err := f.orders.AdvanceStatus(context.Background(), order.ID, Actor{UserID: f.seller.ID, Role: entity.RoleSeller}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.cancel.Cancel(context.Background(), f.customer.ID, order.ID, "late"); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v", err)
	}
	if f.mail.count() != 0 {
		t.Fatal("no email for a refused cancellation")
	}
}

func TestCancelOwnership(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder()

	if _, err := f.cancel.Cancel(context.Background(), f.seller.ID, order.ID, "not mine"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("seller cancel: %v", err)
	}
	if _, err := f.cancel.Cancel(context.Background(), f.admin.ID, order.ID, "fraud"); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestCancelSurvivesMailFailure(t *testing.T) {
	f := newFixture(t)
	f.mail.err = errors.New("smtp down")
	order := f.placeOrder()
	if _, err := f.cancel.Cancel(context.Background(), f.customer.ID, order.ID, "changed my mind"); err != nil {
		t.Fatal(err)
	}
}
