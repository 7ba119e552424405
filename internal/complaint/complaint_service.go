// Package complaint provides the core logic for handling citizen complaints:
// who may see them, who may change them, and how their status may move.
package complaint

import (
	"context"
	"dcms/backend/internal/location"
	"dcms/backend/internal/models"
	"dcms/backend/internal/storage"
	"dcms/backend/internal/validation"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Payload keys accepted on update.
const (
	FieldStatus  = "status"
	FieldRemarks = "remarks"
)

// Changes is a decoded update payload keyed by field name. Values keep their
// JSON shape: strings, nil, numbers and so on.
type Changes map[string]any

type CreateInput struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required,max=100"`
	Province    string `json:"province"`
	District    string `json:"district"`
	Office      string `json:"office"`
}

// StatusListener is told about every committed status change in this process.
// StatusChanged must not block.
type StatusListener interface {
	StatusChanged(ev models.StatusEvent)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage   storage.ComplaintStore
	Locations *location.Table
	Machine   *StateMachine
	Listeners []StatusListener
	Log       *zap.Logger
	Now       func() time.Time
}

// NewService creates a new complaint service.
func NewService(s storage.ComplaintStore, locs *location.Table, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Storage:   s,
		Locations: locs,
		Machine:   NewStateMachine(),
		Log:       log,
		Now:       time.Now,
	}
}

// Create stores a new Pending complaint owned by the caller.
func (s *Service) Create(ctx context.Context, caller Caller, in CreateInput) (*models.Complaint, error) {
	if !caller.Authenticated() {
		return nil, ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if fe := validation.Check(in); fe != nil {
		return nil, &ValidationError{Field: fe.Field, Reason: fe.Reason}
	}
	if err := s.Locations.CheckCreate(in.Province, in.District, in.Office); err != nil {
		return nil, err
	}

	c := &models.Complaint{
		UserID:      caller.UserID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Province:    in.Province,
		District:    in.District,
		Office:      in.Office,
		Status:      models.StatusPending,
	}
	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		return nil, err
	}
	s.Log.Info("complaint created",
		zap.Uint("complaint_id", c.ID),
		zap.String("user_id", c.UserID),
		zap.String("office", c.Office))
	return c, nil
}

// List returns every complaint visible to caller, newest first.
func (s *Service) List(ctx context.Context, caller Caller) ([]models.Complaint, error) {
	f, err := VisibleComplaints(caller)
	if err != nil {
		return nil, err
	}
	return s.Storage.ListComplaints(ctx, f)
}

// Get returns one complaint. Complaints the caller cannot see are ErrNotFound.
func (s *Service) Get(ctx context.Context, caller Caller, id uint) (*models.Complaint, error) {
	f, err := VisibleComplaints(caller)
	if err != nil {
		return nil, err
	}
	c, err := s.Storage.FindComplaint(ctx, f, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

// Update applies an admin change of status and/or remarks. With partial=false
// the payload replaces the writable set, so omitted remarks are cleared.
func (s *Service) Update(ctx context.Context, caller Caller, id uint, changes Changes, partial bool) (*models.Complaint, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if extra := disallowedFields(changes); len(extra) > 0 {
		return nil, &FieldError{Fields: extra}
	}

	status, hasStatus, err := statusValue(changes)
	if err != nil {
		return nil, err
	}
	remarks, hasRemarks, err := remarksValue(changes)
	if err != nil {
		return nil, err
	}
	writeRemarks := hasRemarks || !partial

	f, err := VisibleComplaints(caller)
	if err != nil {
		return nil, err
	}

	var from models.Status
	updated, err := s.Storage.UpdateComplaint(ctx, f, id, func(c *models.Complaint) (bool, error) {
		from = c.Status
		changed := false
		if hasStatus {
			if err := s.Machine.AttemptStatusChange(c.Status, status, caller.IsAdmin()); err != nil {
				return false, err
			}
			if status != c.Status {
				c.Status = status
				changed = true
			}
		}
		if writeRemarks && !sameRemarks(c.Remarks, remarks) {
			c.Remarks = remarks
			changed = true
		}
		return changed, nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if updated.Status != from {
		s.publish(ctx, caller, from, updated)
	}
	return updated, nil
}

// Summary counts the complaints visible to caller per status. Every status is present.
func (s *Service) Summary(ctx context.Context, caller Caller) (map[models.Status]int64, error) {
	f, err := VisibleComplaints(caller)
	if err != nil {
		return nil, err
	}
	counts, err := s.Storage.CountComplaintsByStatus(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make(map[models.Status]int64, len(models.Statuses))
	for _, st := range models.Statuses {
		out[st] = counts[st]
	}
	return out, nil
}

// AllowedTransitions lists the statuses an admin could move c to next.
func (s *Service) AllowedTransitions(c *models.Complaint) []models.Status {
	return s.Machine.AllowedTransitions(c.Status)
}

func (s *Service) publish(ctx context.Context, caller Caller, from models.Status, c *models.Complaint) {
	ev := models.StatusEvent{
		ComplaintID: c.ID,
		OwnerID:     c.UserID,
		Title:       c.Title,
		Province:    c.Province,
		District:    c.District,
		Office:      c.Office,
		From:        from,
		To:          c.Status,
		ChangedBy:   caller.UserID,
		At:          s.Now(),
	}
	if c.Remarks != nil {
		ev.Remarks = *c.Remarks
	}
	// The change is already committed, so a failed publish is only logged.
	if err := s.Storage.PublishStatusEvent(ctx, ev); err != nil {
		s.Log.Warn("failed to publish status event", zap.Uint("complaint_id", c.ID), zap.Error(err))
	}
	for _, l := range s.Listeners {
		l.StatusChanged(ev)
	}
	s.Log.Info("complaint status changed",
		zap.Uint("complaint_id", c.ID),
		zap.String("from", string(from)),
		zap.String("to", string(c.Status)),
		zap.String("by", caller.UserID))
}

// disallowedFields lists every key outside status and remarks, location keys included.
func disallowedFields(changes Changes) []string {
	var extra []string
	for k := range changes {
		if k != FieldStatus && k != FieldRemarks {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

func statusValue(changes Changes) (models.Status, bool, error) {
	v, ok := changes[FieldStatus]
	if !ok {
		return "", false, nil
	}
	str, isStr := v.(string)
	if !isStr {
		return "", true, &ValidationError{Field: FieldStatus, Reason: "must be a string"}
	}
	st := models.Status(str)
	if !st.Valid() {
		return "", true, &ValidationError{Field: FieldStatus, Reason: "\"" + str + "\" is not a valid choice"}
	}
	return st, true, nil
}

func remarksValue(changes Changes) (*string, bool, error) {
	v, ok := changes[FieldRemarks]
	if !ok || v == nil {
		return nil, ok, nil
	}
	str, isStr := v.(string)
	if !isStr {
		return nil, true, &ValidationError{Field: FieldRemarks, Reason: "must be a string or null"}
	}
	return &str, true, nil
}

func sameRemarks(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
