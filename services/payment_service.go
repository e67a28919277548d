package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/payos"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

type PaymentService struct {
	DB          *gorm.DB
	CartRepo    *repository.CartRepository
	PaymentRepo *repository.PaymentRepository
	UserRepo    *repository.UserRepository
	StoreRepo   *repository.StoreRepository
	OrderRepo   *repository.OrderRepository

	Gateway PaymentGateway
	Codes   *OrderCodeGenerator

	ReturnURL string
	CancelURL string
}

type CreatePaymentIn struct {
	CartID           uint   `json:"cartId" binding:"required"`
	PaymentMethod    string `json:"paymentMethod" binding:"required,oneof=PayOS Cash"`
	UseLoyaltyPoints bool   `json:"useLoyaltyPoints"`
}

// LoyaltyDiscount is the part of total covered by the user's points.
func LoyaltyDiscount(total, balance int64, use bool) int64 {
	if !use || balance <= 0 || total <= 0 {
		return 0
	}
	return min(balance, total)
}

// TransactionAmount is what the customer still pays. Amounts are whole currency units.
func TransactionAmount(total, discount int64) int64 {
	return max(0, total-discount)
}

func (s *PaymentService) loadCart(userID, cartID uint) (*entity.Cart, error) {
	cart, err := s.CartRepo.FindByID(s.DB, cartID)
	if err != nil {
		return nil, dbErr(err, "cart")
	}
	if cart.UserID != userID {
		return nil, notFound("cart")
	}
	if len(cart.Items) == 0 {
		return nil, invalid("cart is empty")
	}
	return cart, nil
}

// price fills method, amounts, status and snapshot of txn from the cart.
func (s *PaymentService) price(txn *entity.PaymentTransaction, cart *entity.Cart, user *entity.User, in *CreatePaymentIn) error {
	discount := LoyaltyDiscount(cart.TotalPrice, user.LoyaltyPoints, in.UseLoyaltyPoints)
	amount := TransactionAmount(cart.TotalPrice, discount)
	if in.PaymentMethod == entity.PaymentMethodPayOS && amount == 0 {
		return invalid("nothing left to pay online, choose Cash")
	}

	txn.CartID = cart.ID
	txn.UserID = cart.UserID
	txn.StoreID = cart.StoreID
	txn.PaymentMethod = in.PaymentMethod
	txn.UseLoyaltyPoints = in.UseLoyaltyPoints
	txn.LoyaltyDiscount = discount
	txn.TransactionAmount = amount
	txn.TransactionStatus = entity.TransactionPending
	txn.CheckoutURL = ""
	txn.PaymentLinkID = ""
	txn.CartSnapshot = datatypes.NewJSONType(entity.NewCartSnapshot(cart))
	return nil
}

// attachLink asks the gateway for a checkout link. Failures are not retried.
func (s *PaymentService) attachLink(ctx context.Context, txn *entity.PaymentTransaction, cart *entity.Cart, user *entity.User) error {
	if s.Gateway == nil {
		return upstream("payment gateway", errors.New("not configured"))
	}
	storeName := ""
	if store, err := s.StoreRepo.FindByID(cart.StoreID); err == nil {
		storeName = store.StoreName
	}

	items := make([]payos.Item, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, payos.Item{Name: it.Food.FoodName, Quantity: it.Quantity, Price: it.UnitTotal()})
	}
	req := payos.PaymentRequest{
		OrderCode:    txn.OrderCode,
		Amount:       txn.TransactionAmount,
		Description:  payos.TruncateDescription(fmt.Sprintf("NOM %s", storeName)),
		BuyerName:    user.FullName,
		BuyerEmail:   user.Email,
		BuyerPhone:   user.PhoneNumber,
		BuyerAddress: cart.DeliveryAddress,
		Items:        items,
		ReturnURL:    s.ReturnURL,
		CancelURL:    s.CancelURL,
	}
	link, err := s.Gateway.CreatePaymentLink(ctx, req)
	if err != nil {
		if errors.Is(err, payos.ErrInvalidRequest) {
			return invalid("%v", err)
		}
		logger.ErrorContext(ctx, "payment link failed", "orderCode", txn.OrderCode, "err", err)
		return upstream("payment gateway", err)
	}
	txn.CheckoutURL = link.CheckoutURL
	txn.PaymentLinkID = link.PaymentLinkID
	return nil
}

// CreateOrUpdate creates the cart's payment transaction, or reprices the
// existing one when the cart is already linked.
func (s *PaymentService) CreateOrUpdate(ctx context.Context, userID uint, in *CreatePaymentIn) (*entity.PaymentTransaction, error) {
	cart, err := s.loadCart(userID, in.CartID)
	if err != nil {
		return nil, err
	}
	if cart.PaymentTransactionID != nil {
		return s.update(ctx, cart, in)
	}
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, dbErr(err, "user")
	}

	txn := &entity.PaymentTransaction{}
	if err := s.price(txn, cart, user, in); err != nil {
		return nil, err
	}
	if txn.OrderCode, err = s.Codes.Next(); err != nil {
		return nil, err
	}
	if in.PaymentMethod == entity.PaymentMethodPayOS {
		if err := s.attachLink(ctx, txn, cart, user); err != nil {
			return nil, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.PaymentRepo.Create(tx, txn); err != nil {
			return err
		}
		return s.CartRepo.LinkTransaction(tx, cart, txn.ID)
	})
	if err != nil {
		return nil, dbErr(err, "payment transaction")
	}
	return txn, nil
}

// Update reprices the cart's transaction in place. The order code never changes.
func (s *PaymentService) Update(ctx context.Context, userID uint, in *CreatePaymentIn) (*entity.PaymentTransaction, error) {
	cart, err := s.loadCart(userID, in.CartID)
	if err != nil {
		return nil, err
	}
	if cart.PaymentTransactionID == nil {
		return nil, notFound("payment transaction")
	}
	return s.update(ctx, cart, in)
}

func (s *PaymentService) update(ctx context.Context, cart *entity.Cart, in *CreatePaymentIn) (*entity.PaymentTransaction, error) {
	txn, err := s.PaymentRepo.FindByID(s.DB, *cart.PaymentTransactionID)
	if err != nil {
		return nil, dbErr(err, "payment transaction")
	}
	if txn.TransactionStatus == entity.TransactionSuccess {
		return nil, conflict("payment transaction %d is already paid", txn.OrderCode)
	}
	user, err := s.UserRepo.FindByID(cart.UserID)
	if err != nil {
		return nil, dbErr(err, "user")
	}
	from := txn.TransactionStatus
	if err := s.price(txn, cart, user, in); err != nil {
		return nil, err
	}
	if in.PaymentMethod == entity.PaymentMethodPayOS {
		if err := s.attachLink(ctx, txn, cart, user); err != nil {
			return nil, err
		}
	}
	// A webhook may settle the old link while the gateway call is in flight.
	ok, err := s.PaymentRepo.UpdateGuarded(s.DB, txn, from)
	if err != nil {
		return nil, dbErr(err, "payment transaction")
	}
	if !ok {
		return nil, conflict("payment transaction %d changed while it was being updated", txn.OrderCode)
	}
	return txn, nil
}

// DeleteByOrderCode removes an unpaid transaction and unlinks it from its cart.
// A nil actor is the system (payment-cancel redirect).
func (s *PaymentService) DeleteByOrderCode(actor *Actor, orderCode int64) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		txn, err := s.PaymentRepo.FindByOrderCode(tx, orderCode)
		if err != nil {
			return err
		}
		if actor != nil && actor.Role != entity.RoleAdmin && txn.UserID != actor.UserID {
			return notFound("payment transaction")
		}
		if txn.TransactionStatus == entity.TransactionSuccess {
			return conflict("paid transactions cannot be deleted")
		}
		if _, err := s.OrderRepo.FindByPaymentTransaction(tx, txn.ID); err == nil {
			return conflict("transaction already has an order")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.CartRepo.UnlinkTransaction(tx, txn.ID); err != nil {
			return err
		}
		return s.PaymentRepo.Delete(tx, txn.ID)
	})
	return dbErr(err, "payment transaction")
}

func (s *PaymentService) GetByOrderCode(actor Actor, orderCode int64) (*entity.PaymentTransaction, error) {
	txn, err := s.PaymentRepo.FindByOrderCode(s.DB, orderCode)
	if err != nil {
		return nil, dbErr(err, "payment transaction")
	}
	if actor.Role != entity.RoleAdmin && txn.UserID != actor.UserID {
		return nil, notFound("payment transaction")
	}
	return txn, nil
}

func (s *PaymentService) ListForUser(userID uint) ([]entity.PaymentTransaction, error) {
	return s.PaymentRepo.ListByUser(userID)
}

// HandleWebhook records the gateway's verdict on a transaction and mirrors it
// to the order's payment status.
func (s *PaymentService) HandleWebhook(ctx context.Context, wh *payos.Webhook) (*entity.PaymentTransaction, error) {
	if s.Gateway == nil {
		return nil, upstream("payment gateway", errors.New("not configured"))
	}
	if err := s.Gateway.VerifyWebhook(wh); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	data, err := wh.Payload()
	if err != nil {
		return nil, invalid("%v", err)
	}

	status := entity.TransactionFailed
	if data.Paid() && (wh.Code == "" || wh.Code == "00") {
		status = entity.TransactionSuccess
	}

	var txn *entity.PaymentTransaction
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		txn, err = s.PaymentRepo.FindByOrderCode(tx, data.OrderCode)
		if err != nil {
			return err
		}
		if txn.TransactionStatus == entity.TransactionSuccess {
			return nil
		}
		if err := s.PaymentRepo.UpdateStatus(tx, txn.ID, status); err != nil {
			return err
		}
		txn.TransactionStatus = status

		order, err := s.OrderRepo.FindByPaymentTransaction(tx, txn.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.OrderRepo.UpdatePaymentStatus(tx, order.ID, entity.PaymentStatusFor(status))
	})
	if err != nil {
		return nil, dbErr(err, "payment transaction")
	}
	logger.InfoContext(ctx, "payment webhook processed", "orderCode", data.OrderCode, "status", txn.TransactionStatus)
	return txn, nil
}
