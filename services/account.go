package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/yeremiapane/restaurant-biller/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer inputs.
	maxPasswordBytes = 72
)

type AccountService struct {
	db   *gorm.DB
	cost int
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db, cost: bcrypt.DefaultCost}
}

// WithCost is for tests, where the default bcrypt cost is needlessly slow.
func (s *AccountService) WithCost(cost int) *AccountService {
	s.cost = cost
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, invalid("Enter a valid email address.")
	}
	if len(password) < minPasswordLength {
		return nil, invalid(fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return nil, invalid(fmt.Sprintf("Password must be at most %d bytes.", maxPasswordBytes))
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Email: email, PasswordHash: string(hashed)}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

type OnboardingInput struct {
	Name    string `form:"name" json:"name" binding:"required"`
	Address string `form:"address" json:"address"`
	Contact string `form:"contact" json:"contact"`
}

// Onboard creates the one restaurant owned by userID.
func (s *AccountService) Onboard(ctx context.Context, userID string, in OnboardingInput) (*models.Restaurant, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Contact = strings.TrimSpace(in.Contact)
	if in.Name == "" {
		return nil, invalid("Restaurant name is required.")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("owner_id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing restaurant: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyOnboarded
	}

	r := &models.Restaurant{
		OwnerID: userID,
		Name:    in.Name,
		Address: in.Address,
		Contact: in.Contact,
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyOnboarded
		}
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return r, nil
}
