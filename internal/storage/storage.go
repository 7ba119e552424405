package storage

import (
	"context"
	"dcms/backend/internal/models"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// ComplaintStore is the durable complaint store plus the status event bus.
type ComplaintStore interface {
	CreateComplaint(ctx context.Context, c *models.Complaint) error
	ListComplaints(ctx context.Context, f models.ComplaintFilter) ([]models.Complaint, error)
	FindComplaint(ctx context.Context, f models.ComplaintFilter, id uint) (*models.Complaint, error)
	// UpdateComplaint runs apply on the row locked inside a transaction. The row is
	// written back only when apply reports a change.
	UpdateComplaint(ctx context.Context, f models.ComplaintFilter, id uint, apply func(*models.Complaint) (bool, error)) (*models.Complaint, error)
	CountComplaintsByStatus(ctx context.Context, f models.ComplaintFilter) (map[models.Status]int64, error)

	PublishStatusEvent(ctx context.Context, ev models.StatusEvent) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, hash string) error
	SaveProfile(ctx context.Context, p *models.UserProfile) error
}

type Storage interface {
	ComplaintStore
	UserStore
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Log   *zap.Logger
}

// NewStorageService Constructor. rdb may be nil for tools that only touch the database.
func NewStorageService(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		DB:    db,
		Redis: rdb,
		Log:   log,
	}
}

// translate maps gorm errors onto the storage sentinels.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}
