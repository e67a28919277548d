package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

type StoreService struct {
	DB    *gorm.DB
	Repo  *repository.StoreRepository
	Users *repository.UserRepository
	Now   func() time.Time
	// Location is the zone schedules are written in. Nil keeps the clock's zone.
	Location *time.Location
}

func NewStoreService(db *gorm.DB, repo *repository.StoreRepository, users *repository.UserRepository) *StoreService {
	return &StoreService{DB: db, Repo: repo, Users: users, Now: time.Now}
}

type StoreIn struct {
	StoreName    string `json:"storeName" binding:"required"`
	StoreAddress string `json:"storeAddress" binding:"required"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl"`
	BankName     string `json:"bankName"`
	BankAccount  string `json:"bankAccount"`
}

type StoreUpdateIn struct {
	StoreName    *string `json:"storeName"`
	StoreAddress *string `json:"storeAddress"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
	BankName     *string `json:"bankName"`
	BankAccount  *string `json:"bankAccount"`
}

type ScheduleIn struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	IsClosed  bool   `json:"isClosed"`
}

type UpdateScheduleIn struct {
	Schedules []ScheduleIn `json:"schedules" binding:"required,dive"`
}

func (s *StoreService) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}

func (s *StoreService) Create(ownerID uint, in *StoreIn) (*entity.Store, error) {
	owner, err := s.Users.FindByID(ownerID)
	if err != nil {
		return nil, dbErr(err, "user")
	}
	if owner.Role != entity.RoleSeller {
		return nil, forbidden("only sellers can open a store")
	}
	if !owner.IsApproved {
		return nil, forbidden("seller account is waiting for approval")
	}
	name := strings.TrimSpace(in.StoreName)
	if name == "" {
		return nil, invalid("storeName is required")
	}
	store := &entity.Store{
		UserID:       owner.ID,
		StoreName:    name,
		StoreAddress: strings.TrimSpace(in.StoreAddress),
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		BankName:     in.BankName,
		BankAccount:  in.BankAccount,
	}
	if err := s.Repo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

// owned loads the store and checks that actor may manage it.
func (s *StoreService) owned(actor Actor, storeID uint) (*entity.Store, error) {
	store, err := s.Repo.FindByID(storeID)
	if err != nil {
		return nil, dbErr(err, "store")
	}
	if actor.Role != entity.RoleAdmin && store.UserID != actor.UserID {
		return nil, forbidden("store %d belongs to another seller", storeID)
	}
	return store, nil
}

func (s *StoreService) Update(actor Actor, storeID uint, in *StoreUpdateIn) (*entity.Store, error) {
	if _, err := s.owned(actor, storeID); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.StoreName != nil {
		name := strings.TrimSpace(*in.StoreName)
		if name == "" {
			return nil, invalid("storeName cannot be empty")
		}
		updates["store_name"] = name
	}
	if in.StoreAddress != nil {
		updates["store_address"] = strings.TrimSpace(*in.StoreAddress)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.BankName != nil {
		updates["bank_name"] = *in.BankName
	}
	if in.BankAccount != nil {
		updates["bank_account"] = *in.BankAccount
	}
	if len(updates) > 0 {
		if err := s.Repo.Update(storeID, updates); err != nil {
			return nil, err
		}
	}
	return s.Get(storeID)
}

// UpdateSchedule replaces the weekly schedule and recomputes IsOpen.
func (s *StoreService) UpdateSchedule(actor Actor, storeID uint, in *UpdateScheduleIn) (*entity.Store, error) {
	store, err := s.owned(actor, storeID)
	if err != nil {
		return nil, err
	}
	rows := make([]entity.StoreSchedule, 0, len(in.Schedules))
	for _, sc := range in.Schedules {
		if sc.Weekday < 0 || sc.Weekday > 6 {
			return nil, invalid("weekday must be between 0 and 6")
		}
		if !sc.IsClosed {
			if _, err := entity.ParseClock(sc.OpenTime); err != nil {
				return nil, invalid("openTime %q: %v", sc.OpenTime, err)
			}
			if _, err := entity.ParseClock(sc.CloseTime); err != nil {
				return nil, invalid("closeTime %q: %v", sc.CloseTime, err)
			}
		}
		rows = append(rows, entity.StoreSchedule{
			StoreID:   store.ID,
			Weekday:   sc.Weekday,
			OpenTime:  sc.OpenTime,
			CloseTime: sc.CloseTime,
			IsClosed:  sc.IsClosed,
		})
	}

	store.Schedules = rows
	open := store.OpenAt(s.now())
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.ReplaceSchedules(tx, store.ID, rows); err != nil {
			return err
		}
		return tx.Model(&entity.Store{}).Where("id = ?", store.ID).UpdateColumn("is_open", open).Error
	})
	if err != nil {
		return nil, err
	}
	store.IsOpen = open
	return store, nil
}

// refresh recomputes IsOpen from the schedules and persists a change.
func (s *StoreService) refresh(store *entity.Store, now time.Time) {
	open := store.OpenAt(now)
	if open != store.IsOpen {
		store.IsOpen = open
		if err := s.Repo.SetOpen(store.ID, open); err != nil {
			logger.Warn("store open flag not saved", "storeId", store.ID, "isOpen", open, "err", err)
		}
	}
}

func (s *StoreService) Get(storeID uint) (*entity.Store, error) {
	store, err := s.Repo.FindByID(storeID)
	if err != nil {
		return nil, dbErr(err, "store")
	}
	s.refresh(store, s.now())
	return store, nil
}

func (s *StoreService) List() ([]entity.Store, error) {
	stores, err := s.Repo.FindAll()
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range stores {
		s.refresh(&stores[i], now)
	}
	return stores, nil
}

func (s *StoreService) ListByOwner(ownerID uint) ([]entity.Store, error) {
	stores, err := s.Repo.FindByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range stores {
		s.refresh(&stores[i], now)
	}
	return stores, nil
}
