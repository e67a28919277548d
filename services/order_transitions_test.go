package services

import (
	"context"
	"errors"
	"testing"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
)

func TestAdvanceToDelivered(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder()
	ctx := context.Background()
	seller := Actor{UserID: f.seller.ID, Role: entity.RoleSeller}
	shipper := Actor{UserID: f.shipper.ID, Role: entity.RoleShipper}
	admin := Actor{UserID: f.admin.ID, Role: entity.RoleAdmin}

	o, err := f.orders.AdvanceStatus(ctx, order.ID, seller)
	if err != nil {
		t.Fatal(err)
	}
	if o.OrderStatus != entity.OrderProcessing {
		t.Fatalf("status = %s", o.OrderStatus)
	}

	o, err = f.orders.AdvanceStatus(ctx, order.ID, shipper)
	if err != nil {
		t.Fatal(err)
	}
	if o.OrderStatus != entity.OrderShipped || o.ShipperID == nil || *o.ShipperID != f.shipper.ID {
		t.Fatalf("after shipper: status = %s shipper = %v", o.OrderStatus, o.ShipperID)
	}

	other := f.user("dung", entity.RoleShipper, true)
	if _, err := f.orders.AdvanceStatus(ctx, order.ID, Actor{UserID: other.ID, Role: entity.RoleShipper}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other shipper: %v", err)
	}

	for _, want := range []string{entity.OrderCompleted, entity.OrderReceived, entity.OrderDelivered} {
		o, err = f.orders.AdvanceStatus(ctx, order.ID, admin)
		if err != nil {
			t.Fatal(err)
		}
		if o.OrderStatus != want {
			t.Fatalf("status = %s, want %s", o.OrderStatus, want)
		}
	}

	if o.PaymentStatus != entity.PaymentPaid {
		t.Fatalf("payment status = %s", o.PaymentStatus)
	}
	txn, err := f.payments.FindByID(f.db, o.PaymentTransactionID)
	if err != nil {
		t.Fatal(err)
	}
	if txn.TransactionStatus != entity.TransactionSuccess {
		t.Fatalf("transaction status = %s", txn.TransactionStatus)
	}
	if got := f.loyalty(f.customer.ID); got != DeliveryLoyaltyBonus {
		t.Fatalf("loyalty = %d", got)
	}
	if _, err := f.chats.FindRoomByOrder(order.ID); err == nil {
		t.Fatal("chat room should be closed on delivery")
	}

	want := []string{
		entity.OrderPending, entity.OrderProcessing, entity.OrderShipped,
		entity.OrderCompleted, entity.OrderReceived, entity.OrderDelivered,
	}
	got := f.notifier.statuses()
	if len(got) != len(want) {
		t.Fatalf("notifications = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v", got)
		}
	}

	if _, err := f.orders.AdvanceStatus(ctx, order.ID, admin); !errors.Is(err, ErrConflict) {
		t.Fatalf("advance delivered: %v", err)
	}
}

func TestAdvancePermissions(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder()
	ctx := context.Background()
	rival := f.user("giang", entity.RoleSeller, true)

	if _, err := f.orders.AdvanceStatus(ctx, order.ID, Actor{UserID: rival.ID, Role: entity.RoleSeller}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign seller: %v", err)
	}
	if _, err := f.orders.AdvanceStatus(ctx, order.ID, Actor{UserID: f.customer.ID, Role: entity.RoleCustomer}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("customer: %v", err)
	}
	if _, err := f.orders.AdvanceStatus(ctx, 9999, Actor{UserID: f.admin.ID, Role: entity.RoleAdmin}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown order: %v", err)
	}
}

func TestAdvanceCancelledOrder(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder()
	if _, err := f.cancel.Cancel(context.Background(), f.customer.ID, order.ID, "changed my mind"); err != nil {
		t.Fatal(err)
	}
	_, err := f.orders.AdvanceStatus(context.Background(), order.ID, Actor{UserID: f.admin.ID, Role: entity.RoleAdmin})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v", err)
	}
}

func TestShipperQueues(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder()
	ctx := context.Background()
	if _, err := f.orders.AdvanceStatus(ctx, order.ID, Actor{UserID: f.seller.ID, Role: entity.RoleSeller}); err != nil {
		t.Fatal(err)
	}

	ready, err := f.orders.ListReadyToShip(f.shipper.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ready) != 1 || ready[0].ID != order.ID {
		t.Fatalf("ready = %+v", ready)
	}

	if _, err := f.orders.AdvanceStatus(ctx, order.ID, Actor{UserID: f.shipper.ID, Role: entity.RoleShipper}); err != nil {
		t.Fatal(err)
	}
	mine, err := f.orders.ListForShipper(f.shipper.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 {
		t.Fatalf("shipper orders = %+v", mine)
	}
}
