package models

// ComplaintFilter is an equality predicate over complaints. Empty fields impose
// no constraint. Results are always ordered by creation time, newest first.
type ComplaintFilter struct {
	OwnerID  string
	Province string
	District string
	Office   string
}

// Matches evaluates the filter against a single complaint in memory.
func (f ComplaintFilter) Matches(c *Complaint) bool {
	if c == nil {
		return false
	}
	if f.OwnerID != "" && c.UserID != f.OwnerID {
		return false
	}
	if f.Province != "" && c.Province != f.Province {
		return false
	}
	if f.District != "" && c.District != f.District {
		return false
	}
	if f.Office != "" && c.Office != f.Office {
		return false
	}
	return true
}
