package models

import "time"

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusRejected   Status = "Rejected"
	StatusResolved   Status = "Resolved"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusRejected, StatusResolved}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusRejected, StatusResolved:
		return true
	}
	return false
}

// Complaint is a citizen complaint routed to a province/district/office.
type Complaint struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// UserID is the owning user. Owners may read the complaint but never change its status.
	UserID      string    `gorm:"type:uuid;not null;index" json:"user"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"size:100;not null" json:"category"`
	Province    string    `gorm:"size:100;index:idx_complaint_location" json:"province"`
	District    string    `gorm:"size:100;index:idx_complaint_location" json:"district"`
	Office      string    `gorm:"size:100;index:idx_complaint_location" json:"office"`
	Remarks     *string   `gorm:"type:text" json:"remarks"`
	Status      Status    `gorm:"size:20;not null;default:Pending;index" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
