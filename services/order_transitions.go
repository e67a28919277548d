package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
)

// AdvanceStatus moves the order one step forward in its lifecycle. A shipper
// advancing the order becomes its shipper. Delivery settles the payment,
// credits loyalty points and closes the chat room.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID uint, actor Actor) (*entity.Order, error) {
	var updated *entity.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.FindByID(tx, orderID)
		if err != nil {
			return err
		}
		if o.OrderStatus == entity.OrderCancelled {
			return conflict("order %d is cancelled", o.ID)
		}
		next, ok := entity.NextOrderStatus(o.OrderStatus)
		if !ok {
			return conflict("order %d is already %s", o.ID, o.OrderStatus)
		}
		if err := s.authorizeAdvance(o, actor); err != nil {
			return err
		}

		updates := map[string]any{"order_status": next}
		if actor.Role == entity.RoleShipper {
			updates["shipper_id"] = actor.UserID
		}
		if next == entity.OrderDelivered {
			updates["payment_status"] = entity.PaymentPaid
		}
		changed, err := s.Repo.UpdateGuarded(tx, o.ID, o.OrderStatus, o.Version, updates)
		if err != nil {
			return err
		}
		if !changed {
			return conflict("order %d was updated concurrently", o.ID)
		}

		if next == entity.OrderDelivered {
			if err := s.PaymentRepo.UpdateStatus(tx, o.PaymentTransactionID, entity.TransactionSuccess); err != nil {
				return err
			}
			if err := s.UserRepo.AddLoyalty(tx, o.UserID, DeliveryLoyaltyBonus); err != nil {
				return err
			}
			if err := s.ChatRepo.DeleteRoomByOrder(tx, o.ID); err != nil {
				return err
			}
		}

		updated, err = s.Repo.FindByID(tx, o.ID)
		return err
	})
	if err != nil {
		return nil, dbErr(err, "order")
	}
	s.notify(ctx, updated)
	return updated, nil
}

// authorizeAdvance lets admins and shippers advance any order and sellers
// advance orders of their own stores.
func (s *OrderService) authorizeAdvance(o *entity.Order, actor Actor) error {
	switch actor.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleShipper:
		if o.ShipperID != nil && *o.ShipperID != actor.UserID {
			return forbidden("order %d is assigned to another shipper", o.ID)
		}
		return nil
	case entity.RoleSeller:
		owned, err := s.StoreRepo.IsOwnedBy(o.StoreID, actor.UserID)
		if err != nil {
			return err
		}
		if !owned {
			return forbidden("order %d belongs to another store", o.ID)
		}
		return nil
	default:
		return forbidden("role %s cannot advance orders", actor.Role)
	}
}
