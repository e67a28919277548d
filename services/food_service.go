package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

type FoodService struct {
	DB     *gorm.DB
	Repo   *repository.FoodRepository
	Stores *repository.StoreRepository
}

func NewFoodService(db *gorm.DB, repo *repository.FoodRepository, stores *repository.StoreRepository) *FoodService {
	return &FoodService{DB: db, Repo: repo, Stores: stores}
}

type FoodIn struct {
	StoreID         uint   `json:"storeId" binding:"required"`
	FoodGroupID     *uint  `json:"foodGroupId"`
	FoodName        string `json:"foodName" binding:"required"`
	Description     string `json:"description"`
	ImageURL        string `json:"imageUrl"`
	Price           int64  `json:"price" binding:"required,gt=0"`
	DiscountedPrice int64  `json:"discountedPrice" binding:"gte=0"`
	IsDiscounted    bool   `json:"isDiscounted"`
	IsAvailable     *bool  `json:"isAvailable"`
}

type FoodUpdateIn struct {
	FoodGroupID     *uint   `json:"foodGroupId"`
	FoodName        *string `json:"foodName"`
	Description     *string `json:"description"`
	ImageURL        *string `json:"imageUrl"`
	Price           *int64  `json:"price"`
	DiscountedPrice *int64  `json:"discountedPrice"`
	IsDiscounted    *bool   `json:"isDiscounted"`
}

type AvailabilityIn struct {
	IsAvailable bool `json:"isAvailable"`
}

type SellingTimeIn struct {
	Weekday  int    `json:"weekday" binding:"min=0,max=6"`
	FromTime string `json:"fromTime" binding:"required"`
	ToTime   string `json:"toTime" binding:"required"`
}

type SellingTimesIn struct {
	SellingTimes []SellingTimeIn `json:"sellingTimes" binding:"dive"`
}

func (s *FoodService) requireOwner(actor Actor, storeID uint) error {
	if actor.Role == entity.RoleAdmin {
		return nil
	}
	ok, err := s.Stores.IsOwnedBy(storeID, actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden("store %d belongs to another seller", storeID)
	}
	return nil
}

// ownedFood loads the food and checks that actor manages its store.
func (s *FoodService) ownedFood(actor Actor, foodID uint) (*entity.Food, error) {
	food, err := s.Repo.FindByID(foodID)
	if err != nil {
		return nil, dbErr(err, "food")
	}
	if err := s.requireOwner(actor, food.StoreID); err != nil {
		return nil, err
	}
	return food, nil
}

func (s *FoodService) checkGroup(groupID *uint, storeID uint) error {
	if groupID == nil {
		return nil
	}
	g, err := s.Repo.FindGroup(*groupID)
	if err != nil {
		return dbErr(err, "food group")
	}
	if g.StoreID != storeID {
		return invalid("food group %d belongs to another store", g.ID)
	}
	return nil
}

func (s *FoodService) Create(actor Actor, in *FoodIn) (*entity.Food, error) {
	if err := s.requireOwner(actor, in.StoreID); err != nil {
		return nil, err
	}
	if err := s.checkGroup(in.FoodGroupID, in.StoreID); err != nil {
		return nil, err
	}
	if in.IsDiscounted && (in.DiscountedPrice <= 0 || in.DiscountedPrice >= in.Price) {
		return nil, invalid("discountedPrice must be between 0 and price")
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	food := &entity.Food{
		StoreID:         in.StoreID,
		FoodGroupID:     in.FoodGroupID,
		FoodName:        strings.TrimSpace(in.FoodName),
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		Price:           in.Price,
		DiscountedPrice: in.DiscountedPrice,
		IsDiscounted:    in.IsDiscounted,
		IsAvailable:     available,
	}
	if err := s.Repo.Create(food); err != nil {
		return nil, err
	}
	return food, nil
}

func (s *FoodService) Get(foodID uint) (*entity.Food, error) {
	food, err := s.Repo.FindByID(foodID)
	if err != nil {
		return nil, dbErr(err, "food")
	}
	return food, nil
}

func (s *FoodService) ListByStore(storeID uint) ([]entity.Food, error) {
	return s.Repo.ListByStore(storeID)
}

func (s *FoodService) Update(actor Actor, foodID uint, in *FoodUpdateIn) (*entity.Food, error) {
	food, err := s.ownedFood(actor, foodID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.FoodGroupID != nil {
		if err := s.checkGroup(in.FoodGroupID, food.StoreID); err != nil {
			return nil, err
		}
		updates["food_group_id"] = *in.FoodGroupID
	}
	if in.FoodName != nil {
		name := strings.TrimSpace(*in.FoodName)
		if name == "" {
			return nil, invalid("foodName cannot be empty")
		}
		updates["food_name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	price := food.Price
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, invalid("price must be positive")
		}
		price = *in.Price
		updates["price"] = price
	}
	discounted, discount := food.IsDiscounted, food.DiscountedPrice
	if in.DiscountedPrice != nil {
		discount = *in.DiscountedPrice
		updates["discounted_price"] = discount
	}
	if in.IsDiscounted != nil {
		discounted = *in.IsDiscounted
		updates["is_discounted"] = discounted
	}
	if discounted && (discount <= 0 || discount >= price) {
		return nil, invalid("discountedPrice must be between 0 and price")
	}
	if len(updates) > 0 {
		if err := s.Repo.Update(food.ID, updates); err != nil {
			return nil, err
		}
	}
	return s.Get(food.ID)
}

// SetAvailability toggles whether the food can be added to carts.
func (s *FoodService) SetAvailability(actor Actor, foodID uint, available bool) (*entity.Food, error) {
	food, err := s.ownedFood(actor, foodID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Update(food.ID, map[string]any{"is_available": available}); err != nil {
		return nil, err
	}
	food.IsAvailable = available
	return food, nil
}

func (s *FoodService) SetSellingTimes(actor Actor, foodID uint, in *SellingTimesIn) (*entity.Food, error) {
	food, err := s.ownedFood(actor, foodID)
	if err != nil {
		return nil, err
	}
	rows := make([]entity.FoodSellingTime, 0, len(in.SellingTimes))
	for _, st := range in.SellingTimes {
		if st.Weekday < 0 || st.Weekday > 6 {
			return nil, invalid("weekday must be between 0 and 6")
		}
		if _, err := entity.ParseClock(st.FromTime); err != nil {
			return nil, invalid("fromTime %q: %v", st.FromTime, err)
		}
		if _, err := entity.ParseClock(st.ToTime); err != nil {
			return nil, invalid("toTime %q: %v", st.ToTime, err)
		}
		rows = append(rows, entity.FoodSellingTime{Weekday: st.Weekday, FromTime: st.FromTime, ToTime: st.ToTime})
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.ReplaceSellingTimes(tx, food.ID, rows)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(food.ID)
}

func (s *FoodService) Delete(actor Actor, foodID uint) error {
	food, err := s.ownedFood(actor, foodID)
	if err != nil {
		return err
	}
	return s.Repo.Delete(food.ID)
}
