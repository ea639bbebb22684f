package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/store"
)

type userRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, r.col, r.timeout, bson.M{}, nil)
}

// SearchDonors hides blocked accounts from the public directory.
func (r *userRepo) SearchDonors(ctx context.Context, f models.DonorFilter) ([]models.User, error) {
	filter := bson.M{"role": models.RoleDonor, "status": models.UserActive}
	if f.BloodGroup != "" {
		filter["bloodGroup"] = f.BloodGroup
	}
	if f.District != "" {
		filter["district"] = f.District
	}
	if f.Upazila != "" {
		filter["upazila"] = f.Upazila
	}
	return findAll[models.User](ctx, r.col, r.timeout, filter, nil)
}

func (r *userRepo) Insert(ctx context.Context, u *models.User) (string, error) {
	if err := store.CheckUser(u); err != nil {
		return "", err
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, u); err != nil {
		return "", translate(err)
	}
	return u.ID.Hex(), nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, email string, fields map[string]any) error {
	return updateOne(ctx, r.col, r.timeout, bson.M{"email": email}, fields)
}

func (r *userRepo) SetRole(ctx context.Context, id string, role models.Role) error {
	if err := store.CheckRole(role); err != nil {
		return err
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return updateOne(ctx, r.col, r.timeout, bson.M{"_id": oid}, map[string]any{"role": role})
}

func (r *userRepo) SetStatus(ctx context.Context, id string, status models.UserStatus) error {
	if err := store.CheckUserStatus(status); err != nil {
		return err
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return updateOne(ctx, r.col, r.timeout, bson.M{"_id": oid}, map[string]any{"status": status})
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.col.EstimatedDocumentCount(ctx)
}

// findAll decodes every match into a non-nil slice.
func findAll[T any](ctx context.Context, col *mongo.Collection, timeout time.Duration, filter any, opts *options.FindOptions) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = col.Find(ctx, filter, opts)
	} else {
		cursor, err = col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// updateOne applies $set and reports ErrNotFound when nothing matched.
func updateOne(ctx context.Context, col *mongo.Collection, timeout time.Duration, filter any, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := col.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
