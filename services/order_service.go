package services

import (
	"context"
	"errors"
	"slices"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

// DeliveryLoyaltyBonus is credited to the customer when an order is delivered.
const DeliveryLoyaltyBonus int64 = 100

type OrderService struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	CartRepo    *repository.CartRepository
	PaymentRepo *repository.PaymentRepository
	UserRepo    *repository.UserRepository
	StoreRepo   *repository.StoreRepository
	ChatRepo    *repository.ChatRepository
	TimeoutRepo *repository.OrderTimeoutRepository
	Notifier    StatusNotifier
	CancelAfter time.Duration
	Now         func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ----- DTOs from Controller -----

type CreateOrderIn struct {
	CartID           uint `json:"cartId" binding:"required"`
	UseLoyaltyPoints bool `json:"useLoyaltyPoints"`
}

// ----- Create -----

// CreateFromCart turns a checked-out cart into a Pending order.
func (s *OrderService) CreateFromCart(ctx context.Context, userID, cartID uint, useLoyaltyPoints bool) (*entity.Order, error) {
	var order *entity.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.createFromCart(tx, userID, cartID, useLoyaltyPoints)
		return err
	})
	if err != nil {
		return nil, dbErr(err, "order")
	}
	s.notify(ctx, order)
	return order, nil
}

func (s *OrderService) createFromCart(tx *gorm.DB, userID, cartID uint, useLoyaltyPoints bool) (*entity.Order, error) {
	cart, err := s.CartRepo.FindByID(tx, cartID)
	if err != nil {
		return nil, dbErr(err, "cart")
	}
	if cart.UserID != userID {
		return nil, notFound("cart")
	}
	if len(cart.Items) == 0 {
		return nil, invalid("cart is empty")
	}
	if cart.PaymentTransactionID == nil {
		return nil, invalid("cart has no payment transaction")
	}
	if cart.DeliveryAddress == "" {
		return nil, invalid("delivery address is required")
	}

	txn, err := s.PaymentRepo.FindByID(tx, *cart.PaymentTransactionID)
	if err != nil {
		return nil, dbErr(err, "payment transaction")
	}
	if txn.UseLoyaltyPoints != useLoyaltyPoints {
		return nil, invalid("useLoyaltyPoints does not match the payment transaction")
	}
	if txn.TransactionStatus == entity.TransactionFailed {
		return nil, conflict("payment transaction %d failed", txn.OrderCode)
	}
	if txn.TransactionAmount != TransactionAmount(cart.TotalPrice, txn.LoyaltyDiscount) {
		return nil, conflict("cart changed after the payment transaction was created, update the transaction")
	}

	if txn.LoyaltyDiscount > 0 {
		ok, err := s.UserRepo.DebitLoyalty(tx, userID, txn.LoyaltyDiscount)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, conflict("not enough loyalty points")
		}
	}

	order := &entity.Order{
		UserID:               userID,
		StoreID:              cart.StoreID,
		PaymentTransactionID: txn.ID,
		CartSnapshot:         datatypes.NewJSONType(entity.NewCartSnapshot(cart)),
		TotalAmount:          txn.TransactionAmount,
		OrderStatus:          entity.OrderPending,
		PaymentStatus:        entity.PaymentStatusFor(txn.TransactionStatus),
		PaymentMethod:        txn.PaymentMethod,
		UseLoyaltyPoints:     txn.UseLoyaltyPoints,
		LoyaltyPointsUsed:    txn.LoyaltyDiscount,
		DeliveryAddress:      cart.DeliveryAddress,
		ReceiverName:         cart.ReceiverName,
		ReceiverPhone:        cart.ReceiverPhone,
		Description:          cart.Description,
	}
	if err := s.Repo.Create(tx, order); err != nil {
		return nil, err
	}
	if _, err := s.ChatRepo.CreateRoom(tx, order.ID); err != nil {
		return nil, err
	}
	timeout := &entity.OrderTimeout{OrderID: order.ID, DueAt: s.now().Add(s.CancelAfter)}
	if err := s.TimeoutRepo.Create(tx, timeout); err != nil {
		return nil, err
	}
	if err := s.CartRepo.Delete(tx, cart); err != nil {
		return nil, err
	}
	return order, nil
}

// notify is best effort and runs after commit.
func (s *OrderService) notify(ctx context.Context, o *entity.Order) {
	if s.Notifier == nil || o == nil {
		return
	}
	ev := OrderStatusEvent{
		OrderID:       o.ID,
		UserID:        o.UserID,
		StoreID:       o.StoreID,
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
	}
	if err := s.Notifier.NotifyOrderStatus(ctx, ev); err != nil {
		logger.WarnContext(ctx, "order status notification failed", "orderId", o.ID, "status", o.OrderStatus, "err", err)
	}
}

// ----- List & Detail -----

type PartySummary struct {
	ID          uint   `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type StoreSummary struct {
	ID           uint   `json:"id"`
	StoreName    string `json:"storeName"`
	StoreAddress string `json:"storeAddress"`
}

type OrderDetail struct {
	entity.Order
	Customer PartySummary  `json:"customer"`
	Store    StoreSummary  `json:"store"`
	Shipper  *PartySummary `json:"shipper,omitempty"`
}

type OrderList struct {
	Orders       []entity.Order `json:"orders"`
	Count        int            `json:"count"`
	TotalRevenue int64          `json:"totalRevenue"`
}

func party(u *entity.User) PartySummary {
	return PartySummary{ID: u.ID, FullName: u.FullName, Email: u.Email, PhoneNumber: u.PhoneNumber}
}

func (s *OrderService) GetDetails(orderID uint) (*OrderDetail, error) {
	o, err := s.Repo.FindDetail(orderID)
	if err != nil {
		return nil, dbErr(err, "order")
	}
	d := &OrderDetail{
		Order:    *o,
		Customer: party(&o.User),
		Store:    StoreSummary{ID: o.Store.ID, StoreName: o.Store.StoreName, StoreAddress: o.Store.StoreAddress},
	}
	if o.Shipper != nil && o.Shipper.ID != 0 {
		p := party(o.Shipper)
		d.Shipper = &p
	}
	return d, nil
}

// GetDetailsFor is GetDetails restricted to the customer, the store owner, the
// assigned shipper and admins.
func (s *OrderService) GetDetailsFor(actor Actor, orderID uint) (*OrderDetail, error) {
	d, err := s.GetDetails(orderID)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.Role == entity.RoleAdmin:
	case d.UserID == actor.UserID:
	case d.ShipperID != nil && *d.ShipperID == actor.UserID:
	case actor.Role == entity.RoleShipper && d.ShipperID == nil && slices.Contains(readyToShip, d.OrderStatus):
	case actor.Role == entity.RoleSeller && d.Order.Store.UserID == actor.UserID:
	default:
		return nil, notFound("order")
	}
	return d, nil
}

func summarize(orders []entity.Order) *OrderList {
	out := &OrderList{Orders: orders, Count: len(orders)}
	for _, o := range orders {
		out.TotalRevenue += o.TotalAmount
	}
	if out.Orders == nil {
		out.Orders = []entity.Order{}
	}
	return out
}

func statusFilter(status string) ([]string, error) {
	if status == "" {
		return nil, nil
	}
	if !entity.IsValidOrderStatus(status) {
		return nil, invalid("unknown order status %q", status)
	}
	return []string{status}, nil
}

func (s *OrderService) requireStore(actor Actor, storeID uint) error {
	if actor.Role == entity.RoleAdmin {
		return nil
	}
	owned, err := s.StoreRepo.IsOwnedBy(storeID, actor.UserID)
	if err != nil {
		return err
	}
	if !owned {
		return forbidden("store %d is not yours", storeID)
	}
	return nil
}

// ListByStore lists a store's orders. Sellers only see their own stores.
func (s *OrderService) ListByStore(actor Actor, storeID uint, status string) (*OrderList, error) {
	if err := s.requireStore(actor, storeID); err != nil {
		return nil, err
	}
	statuses, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.List(repository.OrderFilter{StoreID: storeID, Statuses: statuses})
	if err != nil {
		return nil, err
	}
	return summarize(orders), nil
}

func (s *OrderService) ListAll(status string) (*OrderList, error) {
	statuses, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.List(repository.OrderFilter{Statuses: statuses})
	if err != nil {
		return nil, err
	}
	return summarize(orders), nil
}

// ListDelivered lists a store's delivered orders.
func (s *OrderService) ListDelivered(actor Actor, storeID uint) (*OrderList, error) {
	if err := s.requireStore(actor, storeID); err != nil {
		return nil, err
	}
	orders, err := s.Repo.List(repository.OrderFilter{StoreID: storeID, Statuses: []string{entity.OrderDelivered}})
	if err != nil {
		return nil, err
	}
	return summarize(orders), nil
}

func (s *OrderService) ListForUser(userID uint) ([]entity.Order, error) {
	return s.Repo.List(repository.OrderFilter{UserID: userID})
}

// ListForShipper lists orders the shipper is assigned to.
func (s *OrderService) ListForShipper(shipperID uint) ([]entity.Order, error) {
	return s.Repo.List(repository.OrderFilter{ShipperID: shipperID})
}

// ListReadyToShip lists orders a shipper can pick up or is already carrying.
// readyToShip are the statuses an unassigned order is offered to shippers in.
var readyToShip = []string{entity.OrderProcessing, entity.OrderShipped}

func (s *OrderService) ListReadyToShip(shipperID uint) ([]entity.Order, error) {
	return s.Repo.List(repository.OrderFilter{
		ShipperID:  shipperID,
		Unassigned: true,
		Statuses:   readyToShip,
	})
}

// ----- helpers -----

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}
