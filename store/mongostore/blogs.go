package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/store"
)

type blogRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (r *blogRepo) Insert(ctx context.Context, b *models.Blog) (string, error) {
	if err := store.CheckBlogStatus(b.Status); err != nil {
		return "", err
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return "", translate(err)
	}
	return b.ID.Hex(), nil
}

func (r *blogRepo) FindByID(ctx context.Context, id string) (*models.Blog, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var b models.Blog
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&b); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *blogRepo) List(ctx context.Context, status models.BlogStatus, limit int64) ([]models.Blog, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return findAll[models.Blog](ctx, r.col, r.timeout, filter, newestFirst(limit))
}

func (r *blogRepo) SetStatus(ctx context.Context, id string, status models.BlogStatus) error {
	if err := store.CheckBlogStatus(status); err != nil {
		return err
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return updateOne(ctx, r.col, r.timeout, bson.M{"_id": oid}, map[string]any{"status": status})
}

func (r *blogRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
