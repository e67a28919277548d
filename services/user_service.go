package services

import (
	"strings"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/pushnoti"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

type UpdatePersonalIn struct {
	FullName       *string `json:"fullName"`
	PhoneNumber    *string `json:"phoneNumber"`
	ProfilePicture *string `json:"profilePicture"`
}

type PushTokenIn struct {
	ExpoPushToken string `json:"expoPushToken" binding:"required"`
}

type OnlineIn struct {
	IsOnline bool `json:"isOnline"`
}

func (s *UserService) GetProfile(userID uint) (*entity.User, error) {
	u, err := s.Repo.FindByID(userID)
	if err != nil {
		return nil, dbErr(err, "user")
	}
	return u, nil
}

func (s *UserService) UpdatePersonal(userID uint, in *UpdatePersonalIn) (*entity.User, error) {
	updates := map[string]any{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, invalid("fullName cannot be empty")
		}
		updates["full_name"] = name
	}
	if in.PhoneNumber != nil {
		phone := strings.TrimSpace(*in.PhoneNumber)
		if phone == "" {
			return nil, invalid("phoneNumber cannot be empty")
		}
		updates["phone_number"] = phone
	}
	if in.ProfilePicture != nil {
		updates["profile_picture"] = *in.ProfilePicture
	}
	if len(updates) > 0 {
		if err := s.Repo.Update(userID, updates); err != nil {
			return nil, dbErr(err, "phone number")
		}
	}
	return s.GetProfile(userID)
}

func (s *UserService) SetPushToken(userID uint, token string) error {
	token = strings.TrimSpace(token)
	if !pushnoti.IsExpoPushToken(token) {
		return invalid("not an Expo push token")
	}
	return s.Repo.Update(userID, map[string]any{"expo_push_token": token})
}

// SetOnline toggles whether a shipper is taking orders.
func (s *UserService) SetOnline(userID uint, online bool) error {
	return s.Repo.Update(userID, map[string]any{"is_online": online})
}
