package storage

import (
	"context"
	"dcms/backend/internal/models"

	"gorm.io/gorm"
)

// CreateUser inserts the user together with its profile.
func (s *Service) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(u).Error)
}

// SaveUser upserts the user and writes the profile back as well.
func (s *Service) SaveUser(ctx context.Context, u *models.User) error {
	return translate(s.DB.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(u).Error)
}

func (s *Service) findUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Preload("Profile").Where(query, arg).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

// GetUserByPhone resolves a user through the phone number on its profile.
func (s *Service) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var p models.UserProfile
	if err := s.DB.WithContext(ctx).Where("phone = ?", phone).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return s.GetUserByID(ctx, p.UserID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, hash string) error {
	res := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	return translate(s.DB.WithContext(ctx).Save(p).Error)
}
