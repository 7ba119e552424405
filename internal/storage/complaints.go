package storage

import (
	"context"
	"dcms/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// scoped applies a visibility filter to a complaint query.
func scoped(db *gorm.DB, f models.ComplaintFilter) *gorm.DB {
	q := db.Model(&models.Complaint{})
	if f.OwnerID != "" {
		q = q.Where("user_id = ?", f.OwnerID)
	}
	if f.Province != "" {
		q = q.Where("province = ?", f.Province)
	}
	if f.District != "" {
		q = q.Where("district = ?", f.District)
	}
	if f.Office != "" {
		q = q.Where("office = ?", f.Office)
	}
	return q
}

func (s *Service) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	if c.Status == "" {
		c.Status = models.StatusPending
	}
	return s.DB.WithContext(ctx).Create(c).Error
}

// ListComplaints returns the complaints matching f, newest first.
func (s *Service) ListComplaints(ctx context.Context, f models.ComplaintFilter) ([]models.Complaint, error) {
	var out []models.Complaint
	err := scoped(s.DB.WithContext(ctx), f).
		Order("created_at desc").
		Order("id desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindComplaint looks up id inside f, so a complaint outside the filter is ErrNotFound.
func (s *Service) FindComplaint(ctx context.Context, f models.ComplaintFilter, id uint) (*models.Complaint, error) {
	var c models.Complaint
	if err := scoped(s.DB.WithContext(ctx), f).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Service) UpdateComplaint(ctx context.Context, f models.ComplaintFilter, id uint, apply func(*models.Complaint) (bool, error)) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := scoped(tx, f).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&c).Error
		if err != nil {
			return translate(err)
		}

		changed, err := apply(&c)
		if err != nil || !changed {
			return err
		}
		return tx.Save(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountComplaintsByStatus groups the complaints matching f by status.
func (s *Service) CountComplaintsByStatus(ctx context.Context, f models.ComplaintFilter) (map[models.Status]int64, error) {
	var rows []struct {
		Status models.Status
		Count  int64
	}
	err := scoped(s.DB.WithContext(ctx), f).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
