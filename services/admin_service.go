package services

import (
	"context"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

type AdminService struct {
	Users  *repository.UserRepository
	Orders *repository.OrderRepository
	Mailer Mailer
}

func NewAdminService(users *repository.UserRepository, orders *repository.OrderRepository, mailer Mailer) *AdminService {
	return &AdminService{Users: users, Orders: orders, Mailer: mailer}
}

type RejectIn struct {
	Reason string `json:"reason"`
}

// Analytics summarises the marketplace for the admin dashboard.
type Analytics struct {
	UsersByRole    map[string]int64          `json:"usersByRole"`
	OrdersByStatus map[string]int64          `json:"ordersByStatus"`
	TotalRevenue   int64                     `json:"totalRevenue"`
	Stores         []repository.StoreRevenue `json:"stores"`
}

func (s *AdminService) ListUsers(role string) ([]entity.User, error) {
	return s.Users.List(role)
}

func (s *AdminService) pendingAccount(userID uint) (*entity.User, error) {
	u, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, dbErr(err, "user")
	}
	if !entity.NeedsApproval(u.Role) {
		return nil, invalid("%s accounts do not need approval", u.Role)
	}
	return u, nil
}

// Approve activates a seller or shipper account and tells its owner.
func (s *AdminService) Approve(ctx context.Context, userID uint) (*entity.User, error) {
	u, err := s.pendingAccount(userID)
	if err != nil {
		return nil, err
	}
	if u.IsApproved {
		return u, nil
	}
	if err := s.Users.Update(u.ID, map[string]any{"is_approved": true}); err != nil {
		return nil, err
	}
	u.IsApproved = true
	s.mail(ctx, u, "approved", "Your account was approved", "")
	return u, nil
}

// Reject withdraws approval and tells the owner why.
func (s *AdminService) Reject(ctx context.Context, userID uint, reason string) (*entity.User, error) {
	u, err := s.pendingAccount(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Update(u.ID, map[string]any{"is_approved": false}); err != nil {
		return nil, err
	}
	u.IsApproved = false
	s.mail(ctx, u, "rejected", "Your account was not approved", reason)
	return u, nil
}

func (s *AdminService) mail(ctx context.Context, u *entity.User, tmpl, subject, reason string) {
	if s.Mailer == nil {
		return
	}
	body, err := renderEmail(tmpl, map[string]string{"Name": u.FullName, "Role": u.Role, "Reason": reason})
	if err == nil {
		err = s.Mailer.Send(ctx, u.Email, subject, body)
	}
	if err != nil {
		logger.WarnContext(ctx, "account email failed", "user_id", u.ID, "template", tmpl, "err", err)
	}
}

// Analytics counts revenue over delivered orders only.
func (s *AdminService) Analytics() (*Analytics, error) {
	roles, err := s.Users.CountByRole()
	if err != nil {
		return nil, err
	}
	statuses, err := s.Orders.CountByStatus()
	if err != nil {
		return nil, err
	}
	stores, err := s.Orders.RevenueByStore([]string{entity.OrderDelivered})
	if err != nil {
		return nil, err
	}
	out := &Analytics{UsersByRole: roles, OrdersByStatus: statuses, Stores: stores}
	for _, st := range stores {
		out.TotalRevenue += st.Revenue
	}
	return out, nil
}
