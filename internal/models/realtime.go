package models

import "time"

// StatusEvent is published after a status change has been committed.
// It is fanned out to websocket clients and to the owner's notification channels.
type StatusEvent struct {
	ComplaintID uint      `json:"complaint_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Province    string    `json:"province"`
	District    string    `json:"district"`
	Office      string    `json:"office"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
	Remarks     string    `json:"remarks,omitempty"`
	ChangedBy   string    `json:"changed_by"`
	At          time.Time `json:"at"`
}

// Complaint returns the subset of complaint fields needed for visibility checks.
func (e StatusEvent) Complaint() *Complaint {
	return &Complaint{
		ID:       e.ComplaintID,
		UserID:   e.OwnerID,
		Title:    e.Title,
		Province: e.Province,
		District: e.District,
		Office:   e.Office,
		Status:   e.To,
	}
}
