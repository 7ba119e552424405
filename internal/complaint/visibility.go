package complaint

import "dcms/backend/internal/models"

// VisibleComplaints returns the predicate that narrows the complaint set for
// caller. End users see what they own. Admins see everything within their
// jurisdiction, where each empty jurisdiction field matches any value.
func VisibleComplaints(c Caller) (models.ComplaintFilter, error) {
	switch c.Kind {
	case EndUser:
		return models.ComplaintFilter{OwnerID: c.UserID}, nil
	case Admin:
		return models.ComplaintFilter{
			Province: c.Jurisdiction.Province,
			District: c.Jurisdiction.District,
			Office:   c.Jurisdiction.Office,
		}, nil
	default:
		return models.ComplaintFilter{}, ErrForbidden
	}
}

// CanSee evaluates the same predicate against a single complaint in memory.
func CanSee(c Caller, cp *models.Complaint) bool {
	f, err := VisibleComplaints(c)
	if err != nil {
		return false
	}
	return f.Matches(cp)
}
