package complaint

import "dcms/backend/internal/models"

// Kind says which of the three caller variants a request resolved to.
type Kind int

const (
	Anonymous Kind = iota
	EndUser
	Admin
)

func (k Kind) String() string {
	switch k {
	case EndUser:
		return "user"
	case Admin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Jurisdiction is the location an admin is restricted to. Empty fields are unrestricted.
type Jurisdiction struct {
	Province string `json:"province"`
	District string `json:"district"`
	Office   string `json:"office"`
}

// Caller is resolved once per request. Jurisdiction is only meaningful for Admin.
type Caller struct {
	Kind         Kind
	UserID       string
	Jurisdiction Jurisdiction
}

// Resolve maps a user to its caller variant. A nil user is Anonymous, a user
// without a profile is treated as role "user".
func Resolve(u *models.User) Caller {
	if u == nil {
		return Caller{Kind: Anonymous}
	}

	role := models.RoleUser
	if u.Profile != nil && u.Profile.Role != "" {
		role = u.Profile.Role
	}
	if !u.IsStaff && role != models.RoleAdmin {
		return Caller{Kind: EndUser, UserID: u.ID}
	}

	c := Caller{Kind: Admin, UserID: u.ID}
	if p := u.Profile; p != nil {
		c.Jurisdiction = Jurisdiction{
			Province: p.AssignedProvince,
			District: p.AssignedDistrict,
			Office:   p.AssignedOffice,
		}
	}
	return c
}

func (c Caller) IsAdmin() bool { return c.Kind == Admin }

func (c Caller) Authenticated() bool { return c.Kind != Anonymous }
