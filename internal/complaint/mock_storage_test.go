package complaint_test

import (
	"context"
	"dcms/backend/internal/models"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock

	// Saved records every row UpdateComplaint wrote back.
	Saved []models.Complaint
}

func (m *MockStorage) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStorage) ListComplaints(ctx context.Context, f models.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) FindComplaint(ctx context.Context, f models.ComplaintFilter, id uint) (*models.Complaint, error) {
	args := m.Called(ctx, f, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

// UpdateComplaint runs apply on a copy of the configured row, the way the
// real store runs it on the locked row.
func (m *MockStorage) UpdateComplaint(ctx context.Context, f models.ComplaintFilter, id uint, apply func(*models.Complaint) (bool, error)) (*models.Complaint, error) {
	args := m.Called(ctx, f, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	c := *args.Get(0).(*models.Complaint)
	changed, err := apply(&c)
	if err != nil {
		return nil, err
	}
	if changed {
		c.UpdatedAt = c.UpdatedAt.Add(time.Minute)
		m.Saved = append(m.Saved, c)
	}
	return &c, nil
}

func (m *MockStorage) CountComplaintsByStatus(ctx context.Context, f models.ComplaintFilter) (map[models.Status]int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Status]int64), args.Error(1)
}

func (m *MockStorage) PublishStatusEvent(ctx context.Context, ev models.StatusEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
