package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	mailer    Mailer
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(repo *repository.UserRepository, mailer Mailer, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		mailer:    mailer,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

type RegisterIn struct {
	UserName    string `json:"userName" binding:"required"`
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"omitempty,oneof=customer seller shipper"`
}

type LoginIn struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type VerifyEmailIn struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func verificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Register creates an account. Sellers and shippers wait for admin approval.
func (s *AuthService) Register(ctx context.Context, in *RegisterIn) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	userName := strings.TrimSpace(in.UserName)
	phone := strings.TrimSpace(in.PhoneNumber)
	role := in.Role
	if role == "" {
		role = entity.RoleCustomer
	}

	unique := []struct {
		column, value, label string
	}{
		{"email", email, "email"},
		{"user_name", userName, "user name"},
		{"phone_number", phone, "phone number"},
	}
	for _, u := range unique {
		count, err := s.userRepo.CountBy(u.column, u.value)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, conflict("%s already registered", u.label)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, err := verificationCode()
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		UserName:         userName,
		FullName:         strings.TrimSpace(in.FullName),
		Email:            email,
		PhoneNumber:      phone,
		Password:         string(hashed),
		Role:             role,
		IsApproved:       !entity.NeedsApproval(role),
		VerificationCode: code,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, dbErr(err, "user")
	}

	s.sendVerification(ctx, user)
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *entity.User) {
	if s.mailer == nil {
		return
	}
	body, err := renderEmail("verification", map[string]string{"Name": user.FullName, "Code": user.VerificationCode})
	if err == nil {
		err = s.mailer.Send(ctx, user.Email, "Verify your email", body)
	}
	if err != nil {
		logger.WarnContext(ctx, "verification email failed", "email", user.Email, "err", err)
	}
}

// ResendVerification issues a fresh code to an unverified account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return dbErr(err, "user")
	}
	if user.IsVerified {
		return conflict("email already verified")
	}
	code, err := verificationCode()
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(user.ID, map[string]any{"verification_code": code}); err != nil {
		return err
	}
	user.VerificationCode = code
	s.sendVerification(ctx, user)
	return nil
}

func (s *AuthService) VerifyEmail(in *VerifyEmailIn) (*entity.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, dbErr(err, "user")
	}
	if user.IsVerified {
		return user, nil
	}
	if user.VerificationCode == "" || user.VerificationCode != strings.TrimSpace(in.Code) {
		return nil, invalid("verification code is incorrect")
	}
	if err := s.userRepo.Update(user.ID, map[string]any{"is_verified": true, "verification_code": ""}); err != nil {
		return nil, err
	}
	user.IsVerified = true
	user.VerificationCode = ""
	return user, nil
}

// Login accepts an email or user name and returns a signed token.
func (s *AuthService) Login(in *LoginIn) (string, *entity.User, error) {
	ident := strings.TrimSpace(in.Identifier)
	user, err := s.userRepo.FindByIdentifier(strings.ToLower(ident))
	if isNotFound(err) {
		user, err = s.userRepo.FindByIdentifier(ident)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}
