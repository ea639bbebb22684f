package models

import "fmt"

// Role is the single role a user holds.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r belongs to the staff set {volunteer, admin}.
func (r Role) IsStaff() bool {
	return r == RoleVolunteer || r == RoleAdmin
}

// ParseRole converts s into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// UserStatus gates what an account may do.
type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserBlocked UserStatus = "blocked"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserBlocked
}

func ParseUserStatus(s string) (UserStatus, error) {
	st := UserStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown user status %q", s)
	}
	return st, nil
}

// RequestStatus is the lifecycle state of a donation request.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "inprogress"
	RequestDone       RequestStatus = "done"
	RequestCanceled   RequestStatus = "canceled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestInProgress, RequestDone, RequestCanceled:
		return true
	}
	return false
}

// NeedsDonor reports whether a request in this state must already have a
// donor attached.
func (s RequestStatus) NeedsDonor() bool {
	return s == RequestInProgress || s == RequestDone
}

// ParseRequestStatus accepts the hyphenated "in-progress" spelling used by
// older clients and normalizes it.
func ParseRequestStatus(s string) (RequestStatus, error) {
	if s == "in-progress" {
		return RequestInProgress, nil
	}
	st := RequestStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown donation request status %q", s)
	}
	return st, nil
}

// BlogStatus controls whether a post is publicly featured.
type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

func (s BlogStatus) Valid() bool {
	return s == BlogDraft || s == BlogPublished
}

func ParseBlogStatus(s string) (BlogStatus, error) {
	st := BlogStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown blog status %q", s)
	}
	return st, nil
}

// BloodGroups lists the accepted ABO/Rh groups.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func ValidBloodGroup(g string) bool {
	for _, bg := range BloodGroups {
		if bg == g {
			return true
		}
	}
	return false
}
