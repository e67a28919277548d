package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/payos"
)

// Gateway statuses carried on the return redirect.
const (
	GatewayStatusPaid      = "PAID"
	GatewayStatusCancelled = "CANCELLED"
)

const paymentCancelledReason = "Payment was cancelled"

// CheckoutService handles the browser redirects that end a gateway checkout.
// The redirects are unauthenticated, so every decision is confirmed with the
// gateway and only online transactions are touched.
type CheckoutService struct {
	DB            *gorm.DB
	Payments      *PaymentService
	Orders        *OrderService
	Cancellations *CancellationService
}

type PaymentReturn struct {
	OrderCode int64         `json:"orderCode"`
	Order     *entity.Order `json:"order,omitempty"`
	Cancelled bool          `json:"cancelled"`
}

func (s *CheckoutService) onlineTransaction(orderCode int64) (*entity.PaymentTransaction, error) {
	txn, err := s.Payments.PaymentRepo.FindByOrderCode(s.DB, orderCode)
	if err != nil {
		return nil, dbErr(err, "payment transaction")
	}
	if txn.PaymentMethod != entity.PaymentMethodPayOS {
		return nil, invalid("payment %d is not an online payment", orderCode)
	}
	return txn, nil
}

// gatewayLink asks the gateway for the current state of the transaction's link.
func (s *CheckoutService) gatewayLink(ctx context.Context, txn *entity.PaymentTransaction) (*payos.PaymentLink, error) {
	if s.Payments.Gateway == nil {
		return nil, upstream("payment gateway", errors.New("not configured"))
	}
	id := txn.PaymentLinkID
	if id == "" {
		id = strconv.FormatInt(txn.OrderCode, 10)
	}
	link, err := s.Payments.Gateway.GetPaymentLink(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "payment link lookup failed", "orderCode", txn.OrderCode, "err", err)
		return nil, upstream("payment gateway", err)
	}
	if link.OrderCode != 0 && link.OrderCode != txn.OrderCode {
		return nil, upstream("payment gateway", errors.New("link belongs to another order code"))
	}
	return link, nil
}

// HandlePaymentReturn creates the order once the gateway confirms the link is
// paid in full. A status other than PAID takes the cancel path. Repeated
// redirects for the same code return the existing order.
func (s *CheckoutService) HandlePaymentReturn(ctx context.Context, orderCode int64, status string) (*PaymentReturn, error) {
	if !strings.EqualFold(status, GatewayStatusPaid) {
		return s.HandlePaymentCancel(ctx, orderCode)
	}

	txn, err := s.onlineTransaction(orderCode)
	if err != nil {
		return nil, err
	}
	if existing, err := s.Orders.Repo.FindByPaymentTransaction(s.DB, txn.ID); err == nil {
		return &PaymentReturn{OrderCode: orderCode, Order: existing}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	link, err := s.gatewayLink(ctx, txn)
	if err != nil {
		return nil, err
	}
	if !link.Paid() {
		return nil, conflict("payment %d is %s at the gateway", orderCode, strings.ToLower(link.Status))
	}
	if link.Amount != txn.TransactionAmount {
		return nil, conflict("payment %d was made for %d, expected %d", orderCode, link.Amount, txn.TransactionAmount)
	}

	var order *entity.Order
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Payments.PaymentRepo.UpdateStatus(tx, txn.ID, entity.TransactionSuccess); err != nil {
			return err
		}
		order, err = s.Orders.createFromCart(tx, txn.UserID, txn.CartID, txn.UseLoyaltyPoints)
		return err
	})
	if err != nil {
		return nil, dbErr(err, "order")
	}
	s.Orders.notify(ctx, order)
	return &PaymentReturn{OrderCode: orderCode, Order: order}, nil
}

// HandlePaymentCancel drops an online transaction whose link the gateway
// reports cancelled or expired. When an order already exists for it and is
// still Pending, the order is cancelled instead.
func (s *CheckoutService) HandlePaymentCancel(ctx context.Context, orderCode int64) (*PaymentReturn, error) {
	txn, err := s.onlineTransaction(orderCode)
	if err != nil {
		return nil, err
	}
	link, err := s.gatewayLink(ctx, txn)
	if err != nil {
		return nil, err
	}
	if !link.Closed() {
		return nil, conflict("payment %d is still %s at the gateway", orderCode, strings.ToLower(link.Status))
	}

	order, err := s.Orders.Repo.FindByPaymentTransaction(s.DB, txn.ID)
	switch {
	case err == nil:
		if order.OrderStatus == entity.OrderPending {
			if _, err := s.Cancellations.Cancel(ctx, order.UserID, order.ID, paymentCancelledReason); err != nil {
				return nil, err
			}
			order.OrderStatus = entity.OrderCancelled
		}
		return &PaymentReturn{OrderCode: orderCode, Order: order, Cancelled: order.OrderStatus == entity.OrderCancelled}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if err := s.Payments.DeleteByOrderCode(nil, orderCode); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "payment cancelled", "orderCode", orderCode, "linkStatus", link.Status)
	return &PaymentReturn{OrderCode: orderCode, Cancelled: true}, nil
}
