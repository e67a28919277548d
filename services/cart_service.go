package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

type CartService struct {
	DB          *gorm.DB
	CartRepo    *repository.CartRepository
	FoodRepo    *repository.FoodRepository
	PaymentRepo *repository.PaymentRepository
}

func NewCartService(db *gorm.DB, cr *repository.CartRepository, fr *repository.FoodRepository, pr *repository.PaymentRepository) *CartService {
	return &CartService{DB: db, CartRepo: cr, FoodRepo: fr, PaymentRepo: pr}
}

// ----- DTOs from Controller -----

type ComboIn struct {
	FoodID   uint `json:"foodId" binding:"required"`
	Quantity int  `json:"quantity"`
}

type AddToCartIn struct {
	FoodID   uint      `json:"foodId" binding:"required"`
	Quantity int       `json:"quantity"`
	Combos   []ComboIn `json:"combos" binding:"dive"`
}

type UpdateCartItemIn struct {
	FoodID   uint      `json:"foodId" binding:"required"`
	Quantity int       `json:"quantity"`
	Combos   []ComboIn `json:"combos" binding:"dive"`
}

// RemoveCartItemIn removes every line of FoodID when Combos is omitted.
type RemoveCartItemIn struct {
	FoodID uint       `json:"foodId" binding:"required"`
	Combos *[]ComboIn `json:"combos"`
}

type DeliveryInfoIn struct {
	DeliveryAddress *string `json:"deliveryAddress"`
	ReceiverName    *string `json:"receiverName"`
	ReceiverPhone   *string `json:"receiverPhone"`
	Description     *string `json:"description"`
}

// ----- Helpers -----

// resolveCombos prices combo selections from the catalog.
func (s *CartService) resolveCombos(storeID uint, in []ComboIn) (ComboSet, map[uint]entity.Food, error) {
	if len(in) == 0 {
		return ComboSet{}, nil, nil
	}
	ids := make([]uint, 0, len(in))
	for _, c := range in {
		if c.Quantity <= 0 {
			return nil, nil, invalid("combo quantity must be greater than 0")
		}
		ids = append(ids, c.FoodID)
	}
	foods, err := s.FoodRepo.FindByIDs(ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]entity.Food, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
	}

	items := make([]Combo, 0, len(in))
	for _, c := range in {
		f, ok := byID[c.FoodID]
		if !ok {
			return nil, nil, invalid("combo food %d does not exist", c.FoodID)
		}
		if f.StoreID != storeID {
			return nil, nil, invalid("combo food %d belongs to another store", c.FoodID)
		}
		items = append(items, Combo{FoodID: f.ID, Quantity: c.Quantity, Price: f.UnitPrice()})
	}
	return NewComboSet(items), byID, nil
}

func shapeOf(in []ComboIn) string {
	items := make([]Combo, 0, len(in))
	for _, c := range in {
		items = append(items, Combo{FoodID: c.FoodID, Quantity: c.Quantity})
	}
	return ComboSet(items).ShapeKey()
}

// findLine returns the index of the first line of foodID whose combos have the given shape.
func findLine(cart *entity.Cart, foodID uint, combos []ComboIn) int {
	shape := shapeOf(combos)
	for i := range cart.Items {
		it := &cart.Items[i]
		if it.FoodID == foodID && comboSetOf(it.Combos).ShapeKey() == shape {
			return i
		}
	}
	return -1
}

func (s *CartService) loadOwned(tx *gorm.DB, userID, cartID uint) (*entity.Cart, error) {
	cart, err := s.CartRepo.FindByID(tx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return cart, nil
}

// deleteCart removes the cart together with a payment transaction that was never settled.
func (s *CartService) deleteCart(tx *gorm.DB, cart *entity.Cart) error {
	if cart.PaymentTransactionID != nil {
		txn, err := s.PaymentRepo.FindByID(tx, *cart.PaymentTransactionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && txn.TransactionStatus == entity.TransactionPending {
			if err := s.PaymentRepo.Delete(tx, txn.ID); err != nil {
				return err
			}
		}
	}
	return s.CartRepo.Delete(tx, cart)
}

// ----- Mutations -----

// AddItem puts a food into the user's cart for the food's store, creating the
// cart when needed. A line with the same food, quantity and combos absorbs the
// added quantity; anything else becomes a new line.
func (s *CartService) AddItem(userID uint, in *AddToCartIn) (*entity.Cart, error) {
	if in.Quantity <= 0 {
		return nil, invalid("quantity must be greater than 0")
	}
	food, err := s.FoodRepo.FindByID(in.FoodID)
	if err != nil {
		return nil, dbErr(err, "food")
	}
	if !food.IsAvailable {
		return nil, invalid("food %q is not available", food.FoodName)
	}
	combos, comboFoods, err := s.resolveCombos(food.StoreID, in.Combos)
	if err != nil {
		return nil, err
	}
	key := combos.Key()

	var out *entity.Cart
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := s.CartRepo.FindByUserAndStore(tx, userID, food.StoreID)
		isNew := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !isNew {
			return err
		}
		if isNew {
			cart = &entity.Cart{UserID: userID, StoreID: food.StoreID}
		}

		merged := false
		for i := range cart.Items {
			it := &cart.Items[i]
			if it.FoodID == food.ID && it.Quantity == in.Quantity && it.ComboKey == key {
				it.Quantity += in.Quantity
				merged = true
				break
			}
		}
		if !merged {
			cart.Items = append(cart.Items, entity.CartItem{
				FoodID:   food.ID,
				Food:     *food,
				StoreID:  food.StoreID,
				Quantity: in.Quantity,
				Price:    food.UnitPrice(),
				ComboKey: key,
				Combos:   combos.toCartCombos(comboFoods),
			})
		}
		cart.Recalculate()

		if isNew {
			err = s.CartRepo.Create(tx, cart)
		} else {
			err = s.CartRepo.SaveWithItems(tx, cart)
		}
		if err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, dbErr(err, "cart")
	}
	return out, nil
}

// UpdateItemQuantity sets the quantity of the line matching food and combos.
func (s *CartService) UpdateItemQuantity(userID, cartID uint, in *UpdateCartItemIn) (*entity.Cart, error) {
	if in.Quantity <= 0 {
		return nil, invalid("quantity must be greater than 0")
	}
	var out *entity.Cart
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := s.loadOwned(tx, userID, cartID)
		if err != nil {
			return err
		}
		idx := findLine(cart, in.FoodID, in.Combos)
		if idx < 0 {
			return notFound("cart item")
		}
		cart.Items[idx].Quantity = in.Quantity
		cart.Recalculate()
		if err := s.CartRepo.SaveWithItems(tx, cart); err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, dbErr(err, "cart")
	}
	return out, nil
}

// RemoveItem drops matching lines. The returned cart is nil when the cart became
// empty and was deleted.
func (s *CartService) RemoveItem(userID, cartID uint, in *RemoveCartItemIn) (*entity.Cart, error) {
	var out *entity.Cart
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := s.loadOwned(tx, userID, cartID)
		if err != nil {
			return err
		}

		var shape string
		if in.Combos != nil {
			shape = shapeOf(*in.Combos)
		}
		kept := make([]entity.CartItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			match := it.FoodID == in.FoodID && (in.Combos == nil || comboSetOf(it.Combos).ShapeKey() == shape)
			if !match {
				kept = append(kept, it)
			}
		}
		if len(kept) == len(cart.Items) {
			return notFound("cart item")
		}
		if len(kept) == 0 {
			return s.deleteCart(tx, cart)
		}

		cart.Items = kept
		cart.Recalculate()
		if err := s.CartRepo.SaveWithItems(tx, cart); err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, dbErr(err, "cart")
	}
	return out, nil
}

// UpdateDeliveryInfo writes delivery fields. With requireAll (checkout) the
// address, receiver name and phone must all be present; otherwise only the
// given fields change and description may be cleared.
func (s *CartService) UpdateDeliveryInfo(userID, storeID uint, in *DeliveryInfoIn, requireAll bool) (*entity.Cart, error) {
	if requireAll {
		required := []struct {
			name string
			v    *string
		}{
			{"deliveryAddress", in.DeliveryAddress},
			{"receiverName", in.ReceiverName},
			{"receiverPhone", in.ReceiverPhone},
		}
		for _, f := range required {
			if f.v == nil || strings.TrimSpace(*f.v) == "" {
				return nil, invalid("%s is required", f.name)
			}
		}
	}

	var out *entity.Cart
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := s.CartRepo.FindByUserAndStore(tx, userID, storeID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return invalid("cart is empty")
		}
		if in.DeliveryAddress != nil {
			cart.DeliveryAddress = strings.TrimSpace(*in.DeliveryAddress)
		}
		if in.ReceiverName != nil {
			cart.ReceiverName = strings.TrimSpace(*in.ReceiverName)
		}
		if in.ReceiverPhone != nil {
			cart.ReceiverPhone = strings.TrimSpace(*in.ReceiverPhone)
		}
		if in.Description != nil {
			cart.Description = *in.Description
		}
		if err := s.CartRepo.SaveDetails(tx, cart); err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, dbErr(err, "cart")
	}
	return out, nil
}

func (s *CartService) Delete(userID, cartID uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := s.loadOwned(tx, userID, cartID)
		if err != nil {
			return err
		}
		return s.deleteCart(tx, cart)
	})
	return dbErr(err, "cart")
}

// ----- Reads -----

func (s *CartService) Get(userID, storeID uint) (*entity.Cart, error) {
	cart, err := s.CartRepo.FindByUserAndStore(s.DB, userID, storeID)
	if err != nil {
		return nil, dbErr(err, "cart")
	}
	return cart, nil
}

func (s *CartService) GetByID(userID, cartID uint) (*entity.Cart, error) {
	cart, err := s.loadOwned(s.DB, userID, cartID)
	if err != nil {
		return nil, dbErr(err, "cart")
	}
	return cart, nil
}

func (s *CartService) ListForUser(userID uint) ([]entity.Cart, error) {
	return s.CartRepo.ListByUser(userID)
}
