package store

import (
	"fmt"

	"github.com/phillip/blood-donation-go/models"
)

// The checks below run inside every implementation before a write so that
// an unknown enum value never becomes a stored document.

func CheckUser(u *models.User) error {
	if !u.Role.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalidValue, u.Role)
	}
	if !u.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, u.Status)
	}
	return nil
}

func CheckRole(r models.Role) error {
	if !r.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalidValue, r)
	}
	return nil
}

func CheckUserStatus(s models.UserStatus) error {
	if !s.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, s)
	}
	return nil
}

func CheckRequestStatus(s models.RequestStatus) error {
	if !s.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, s)
	}
	return nil
}

func CheckBlogStatus(s models.BlogStatus) error {
	if !s.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, s)
	}
	return nil
}

// CheckRequestFields validates the status entry of a partial update, if any.
func CheckRequestFields(fields map[string]any) error {
	v, ok := fields["status"]
	if !ok {
		return nil
	}
	switch st := v.(type) {
	case models.RequestStatus:
		return CheckRequestStatus(st)
	case string:
		return CheckRequestStatus(models.RequestStatus(st))
	default:
		return fmt.Errorf("%w: status of type %T", ErrInvalidValue, v)
	}
}
