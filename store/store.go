// Package store declares the persistence contracts used by the HTTP layer.
// Implementations live in mongostore (production) and memstore (tests and
// local development).
package store

import (
	"context"
	"errors"

	"github.com/phillip/blood-donation-go/models"
)

var (
	ErrNotFound     = errors.New("store: document not found")
	ErrDuplicateKey = errors.New("store: duplicate key")
	ErrInvalidID    = errors.New("store: invalid document id")
	ErrInvalidValue = errors.New("store: invalid enum value")
	// ErrConflict means a conditional write found the document in another state.
	ErrConflict = errors.New("store: document state changed")
)

// Users is the users collection.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SearchDonors(ctx context.Context, f models.DonorFilter) ([]models.User, error)
	// Insert fails with ErrDuplicateKey when the email is taken.
	Insert(ctx context.Context, u *models.User) (string, error)
	UpdateProfile(ctx context.Context, email string, fields map[string]any) error
	SetRole(ctx context.Context, id string, role models.Role) error
	SetStatus(ctx context.Context, id string, status models.UserStatus) error
	Count(ctx context.Context) (int64, error)
}

// DonationRequests is the donationRequests collection.
type DonationRequests interface {
	Insert(ctx context.Context, r *models.DonationRequest) (string, error)
	FindByID(ctx context.Context, id string) (*models.DonationRequest, error)
	// ListByRequester returns newest first; limit <= 0 means no limit.
	ListByRequester(ctx context.Context, email string, limit int64) ([]models.DonationRequest, error)
	List(ctx context.Context, f models.RequestFilter) ([]models.DonationRequest, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	// UpdateIfStatus applies fields only while the document is in status from.
	UpdateIfStatus(ctx context.Context, id string, from models.RequestStatus, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.RequestStatus) (int64, error)
}

// Blogs is the blogs collection.
type Blogs interface {
	Insert(ctx context.Context, b *models.Blog) (string, error)
	FindByID(ctx context.Context, id string) (*models.Blog, error)
	// List returns newest first; an empty status matches all.
	List(ctx context.Context, status models.BlogStatus, limit int64) ([]models.Blog, error)
	SetStatus(ctx context.Context, id string, status models.BlogStatus) error
	Delete(ctx context.Context, id string) error
}

// Payments is the payments collection.
type Payments interface {
	Insert(ctx context.Context, p *models.Payment) (string, error)
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
	List(ctx context.Context) ([]models.Payment, error)
	// TotalFunding sums price over all payments, absent prices counting zero.
	TotalFunding(ctx context.Context) (float64, error)
}

// Store bundles the collections a server needs.
type Store struct {
	Users            Users
	DonationRequests DonationRequests
	Blogs            Blogs
	Payments         Payments
}
