package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

type CancellationService struct {
	DB          *gorm.DB
	Repo        *repository.CancellationRepository
	OrderRepo   *repository.OrderRepository
	UserRepo    *repository.UserRepository
	StoreRepo   *repository.StoreRepository
	PaymentRepo *repository.PaymentRepository
	TimeoutRepo *repository.OrderTimeoutRepository
	Mailer      Mailer
	Now         func() time.Time
}

type CancelOrderIn struct {
	OrderID uint   `json:"orderId" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

func (s *CancellationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Cancel cancels a Pending order on behalf of userID. Only the customer who
// placed the order and admins may cancel it.
func (s *CancellationService) Cancel(ctx context.Context, userID, orderID uint, reason string) (*entity.OrderCancellation, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, dbErr(err, "user")
	}
	now := s.now()

	var (
		rec   *entity.OrderCancellation
		order *entity.Order
	)
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order, err = s.OrderRepo.FindByID(tx, orderID)
		if err != nil {
			return err
		}
		if user.Role != entity.RoleAdmin && order.UserID != user.ID {
			return notFound("order")
		}
		if order.OrderStatus == entity.OrderCancelled {
			return conflict("order %d is already cancelled", order.ID)
		}
		if order.OrderStatus != entity.OrderPending {
			return conflict("order %d is %s, only pending orders can be cancelled", order.ID, order.OrderStatus)
		}

		rec = &entity.OrderCancellation{
			UserID:           user.ID,
			OrderID:          order.ID,
			Reason:           reason,
			Status:           entity.CancellationStatusCanceled,
			CancellationDate: now,
		}
		if err := s.Repo.Create(tx, rec); err != nil {
			return err
		}
		changed, err := s.OrderRepo.UpdateGuarded(tx, order.ID, entity.OrderPending, order.Version, map[string]any{
			"order_status":   entity.OrderCancelled,
			"payment_status": entity.PaymentFailed,
		})
		if err != nil {
			return err
		}
		if !changed {
			return conflict("order %d was updated concurrently", order.ID)
		}
		if err := s.PaymentRepo.UpdateStatus(tx, order.PaymentTransactionID, entity.TransactionFailed); err != nil {
			return err
		}
		return s.TimeoutRepo.MarkProcessed(tx, order.ID, now)
	})
	if err != nil {
		return nil, dbErr(err, "order cancellation")
	}

	order.OrderStatus = entity.OrderCancelled
	order.PaymentStatus = entity.PaymentFailed
	s.sendCancellationEmails(ctx, order, reason)
	return rec, nil
}

type cancellationMail struct {
	Name      string
	OrderID   uint
	StoreName string
	Reason    string
	Total     int64
}

// sendCancellationEmails tells the customer and the store owner. Failures are logged only.
func (s *CancellationService) sendCancellationEmails(ctx context.Context, order *entity.Order, reason string) {
	if s.Mailer == nil {
		return
	}
	store, err := s.StoreRepo.FindByID(order.StoreID)
	if err != nil {
		logger.WarnContext(ctx, "cancellation email: store lookup failed", "orderId", order.ID, "err", err)
		return
	}

	send := func(userID uint, tmpl string) {
		u, err := s.UserRepo.FindByID(userID)
		if err != nil {
			logger.WarnContext(ctx, "cancellation email: user lookup failed", "userId", userID, "err", err)
			return
		}
		body, err := renderEmail(tmpl, cancellationMail{
			Name:      u.FullName,
			OrderID:   order.ID,
			StoreName: store.StoreName,
			Reason:    reason,
			Total:     order.TotalAmount,
		})
		if err != nil {
			logger.ErrorContext(ctx, "cancellation email: render failed", "template", tmpl, "err", err)
			return
		}
		if err := s.Mailer.Send(ctx, u.Email, "Order cancelled", body); err != nil {
			logger.WarnContext(ctx, "cancellation email failed", "to", u.Email, "orderId", order.ID, "err", err)
		}
	}
	send(order.UserID, "order_cancelled_customer")
	send(store.UserID, "order_cancelled_store")
}

type CancellationSummary struct {
	ID               uint      `json:"id"`
	Reason           string    `json:"reason"`
	Status           string    `json:"status"`
	CancellationDate time.Time `json:"cancellationDate"`
	User             struct {
		ID       uint   `json:"id"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	} `json:"user"`
	Order struct {
		ID          uint   `json:"id"`
		StoreID     uint   `json:"storeId"`
		TotalAmount int64  `json:"totalAmount"`
		OrderStatus string `json:"orderStatus"`
	} `json:"order"`
}

func (s *CancellationService) ListCancelled() ([]CancellationSummary, error) {
	rows, err := s.Repo.ListWithRelations()
	if err != nil {
		return nil, err
	}
	out := make([]CancellationSummary, 0, len(rows))
	for _, r := range rows {
		var c CancellationSummary
		c.ID = r.ID
		c.Reason = r.Reason
		c.Status = r.Status
		c.CancellationDate = r.CancellationDate
		c.User.ID = r.User.ID
		c.User.FullName = r.User.FullName
		c.User.Email = r.User.Email
		c.Order.ID = r.Order.ID
		c.Order.StoreID = r.Order.StoreID
		c.Order.TotalAmount = r.Order.TotalAmount
		c.Order.OrderStatus = r.Order.OrderStatus
		out = append(out, c)
	}
	return out, nil
}
