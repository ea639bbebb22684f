package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/store"
)

// ---------------- USERS ----------------

type users struct{ m *Memory }

func (s users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.m.lock("users.FindByEmail")
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s users) List(_ context.Context) ([]models.User, error) {
	s.m.lock("users.List")
	defer s.m.mu.Unlock()
	return append([]models.User{}, s.m.users...), nil
}

func (s users) SearchDonors(_ context.Context, f models.DonorFilter) ([]models.User, error) {
	s.m.lock("users.SearchDonors")
	defer s.m.mu.Unlock()
	out := []models.User{}
	for _, u := range s.m.users {
		if u.Role != models.RoleDonor || u.Status != models.UserActive {
			continue
		}
		if f.BloodGroup != "" && u.BloodGroup != f.BloodGroup {
			continue
		}
		if f.District != "" && u.District != f.District {
			continue
		}
		if f.Upazila != "" && u.Upazila != f.Upazila {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s users) Insert(_ context.Context, u *models.User) (string, error) {
	s.m.lock("users.Insert")
	defer s.m.mu.Unlock()
	if err := store.CheckUser(u); err != nil {
		return "", err
	}
	for _, existing := range s.m.users {
		if existing.Email == u.Email {
			return "", store.ErrDuplicateKey
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.m.users = append(s.m.users, *u)
	return u.ID.Hex(), nil
}

func (s users) UpdateProfile(_ context.Context, email string, fields map[string]any) error {
	s.m.lock("users.UpdateProfile")
	defer s.m.mu.Unlock()
	for i := range s.m.users {
		if s.m.users[i].Email == email {
			return applySet(&s.m.users[i], fields)
		}
	}
	return store.ErrNotFound
}

func (s users) SetRole(_ context.Context, id string, role models.Role) error {
	s.m.lock("users.SetRole")
	defer s.m.mu.Unlock()
	if err := store.CheckRole(role); err != nil {
		return err
	}
	u, err := s.byID(id)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func (s users) SetStatus(_ context.Context, id string, status models.UserStatus) error {
	s.m.lock("users.SetStatus")
	defer s.m.mu.Unlock()
	if err := store.CheckUserStatus(status); err != nil {
		return err
	}
	u, err := s.byID(id)
	if err != nil {
		return err
	}
	u.Status = status
	return nil
}

func (s users) Count(_ context.Context) (int64, error) {
	s.m.lock("users.Count")
	defer s.m.mu.Unlock()
	return int64(len(s.m.users)), nil
}

func (s users) byID(id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	for i := range s.m.users {
		if s.m.users[i].ID == oid {
			return &s.m.users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// ---------------- DONATION REQUESTS ----------------

type requests struct{ m *Memory }

func (s requests) Insert(_ context.Context, r *models.DonationRequest) (string, error) {
	s.m.lock("requests.Insert")
	defer s.m.mu.Unlock()
	if err := store.CheckRequestStatus(r.Status); err != nil {
		return "", err
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.m.requests = append(s.m.requests, *r)
	return r.ID.Hex(), nil
}

func (s requests) FindByID(_ context.Context, id string) (*models.DonationRequest, error) {
	s.m.lock("requests.FindByID")
	defer s.m.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return nil, err
	}
	cp := s.m.requests[i]
	return &cp, nil
}

func (s requests) ListByRequester(_ context.Context, email string, limit int64) ([]models.DonationRequest, error) {
	s.m.lock("requests.ListByRequester")
	defer s.m.mu.Unlock()
	var mine []models.DonationRequest
	for _, r := range s.m.requests {
		if r.RequesterEmail == email {
			mine = append(mine, r)
		}
	}
	return reversed(mine, limit), nil
}

func (s requests) List(_ context.Context, f models.RequestFilter) ([]models.DonationRequest, error) {
	s.m.lock("requests.List")
	defer s.m.mu.Unlock()
	var out []models.DonationRequest
	for _, r := range s.m.requests {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return reversed(out, 0), nil
}

func (s requests) Update(_ context.Context, id string, fields map[string]any) error {
	s.m.lock("requests.Update")
	defer s.m.mu.Unlock()
	if err := store.CheckRequestFields(fields); err != nil {
		return err
	}
	i, err := s.index(id)
	if err != nil {
		return err
	}
	return applySet(&s.m.requests[i], fields)
}

func (s requests) UpdateIfStatus(_ context.Context, id string, from models.RequestStatus, fields map[string]any) error {
	s.m.lock("requests.UpdateIfStatus")
	defer s.m.mu.Unlock()
	if err := store.CheckRequestFields(fields); err != nil {
		return err
	}
	i, err := s.index(id)
	if err != nil {
		return err
	}
	if s.m.requests[i].Status != from {
		return store.ErrConflict
	}
	return applySet(&s.m.requests[i], fields)
}

func (s requests) Delete(_ context.Context, id string) error {
	s.m.lock("requests.Delete")
	defer s.m.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.m.requests = append(s.m.requests[:i], s.m.requests[i+1:]...)
	return nil
}

func (s requests) Count(_ context.Context) (int64, error) {
	s.m.lock("requests.Count")
	defer s.m.mu.Unlock()
	return int64(len(s.m.requests)), nil
}

func (s requests) CountByStatus(_ context.Context, status models.RequestStatus) (int64, error) {
	s.m.lock("requests.CountByStatus")
	defer s.m.mu.Unlock()
	var n int64
	for _, r := range s.m.requests {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

func (s requests) index(id string) (int, error) {
	oid, err := parseID(id)
	if err != nil {
		return -1, err
	}
	for i := range s.m.requests {
		if s.m.requests[i].ID == oid {
			return i, nil
		}
	}
	return -1, store.ErrNotFound
}

// ---------------- BLOGS ----------------

type blogs struct{ m *Memory }

func (s blogs) Insert(_ context.Context, b *models.Blog) (string, error) {
	s.m.lock("blogs.Insert")
	defer s.m.mu.Unlock()
	if err := store.CheckBlogStatus(b.Status); err != nil {
		return "", err
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	s.m.blogs = append(s.m.blogs, *b)
	return b.ID.Hex(), nil
}

func (s blogs) FindByID(_ context.Context, id string) (*models.Blog, error) {
	s.m.lock("blogs.FindByID")
	defer s.m.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return nil, err
	}
	cp := s.m.blogs[i]
	return &cp, nil
}

func (s blogs) List(_ context.Context, status models.BlogStatus, limit int64) ([]models.Blog, error) {
	s.m.lock("blogs.List")
	defer s.m.mu.Unlock()
	var out []models.Blog
	for _, b := range s.m.blogs {
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	return reversed(out, limit), nil
}

func (s blogs) SetStatus(_ context.Context, id string, status models.BlogStatus) error {
	s.m.lock("blogs.SetStatus")
	defer s.m.mu.Unlock()
	if err := store.CheckBlogStatus(status); err != nil {
		return err
	}
	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.m.blogs[i].Status = status
	return nil
}

func (s blogs) Delete(_ context.Context, id string) error {
	s.m.lock("blogs.Delete")
	defer s.m.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.m.blogs = append(s.m.blogs[:i], s.m.blogs[i+1:]...)
	return nil
}

func (s blogs) index(id string) (int, error) {
	oid, err := parseID(id)
	if err != nil {
		return -1, err
	}
	for i := range s.m.blogs {
		if s.m.blogs[i].ID == oid {
			return i, nil
		}
	}
	return -1, store.ErrNotFound
}

// ---------------- PAYMENTS ----------------

type payments struct{ m *Memory }

func (s payments) Insert(_ context.Context, p *models.Payment) (string, error) {
	s.m.lock("payments.Insert")
	defer s.m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.m.payments = append(s.m.payments, *p)
	return p.ID.Hex(), nil
}

func (s payments) ListByEmail(_ context.Context, email string) ([]models.Payment, error) {
	s.m.lock("payments.ListByEmail")
	defer s.m.mu.Unlock()
	var out []models.Payment
	for _, p := range s.m.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return reversed(out, 0), nil
}

func (s payments) List(_ context.Context) ([]models.Payment, error) {
	s.m.lock("payments.List")
	defer s.m.mu.Unlock()
	return reversed(s.m.payments, 0), nil
}

func (s payments) TotalFunding(_ context.Context) (float64, error) {
	s.m.lock("payments.TotalFunding")
	defer s.m.mu.Unlock()
	var total float64
	for _, p := range s.m.payments {
		total += p.Amount()
	}
	return total, nil
}
