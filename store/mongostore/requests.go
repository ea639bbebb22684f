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

type requestRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (r *requestRepo) Insert(ctx context.Context, req *models.DonationRequest) (string, error) {
	if err := store.CheckRequestStatus(req.Status); err != nil {
		return "", err
	}
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, req); err != nil {
		return "", translate(err)
	}
	return req.ID.Hex(), nil
}

func (r *requestRepo) FindByID(ctx context.Context, id string) (*models.DonationRequest, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var req models.DonationRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&req); err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *requestRepo) ListByRequester(ctx context.Context, email string, limit int64) ([]models.DonationRequest, error) {
	return findAll[models.DonationRequest](ctx, r.col, r.timeout, bson.M{"requesterEmail": email}, newestFirst(limit))
}

func (r *requestRepo) List(ctx context.Context, f models.RequestFilter) ([]models.DonationRequest, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return findAll[models.DonationRequest](ctx, r.col, r.timeout, filter, newestFirst(0))
}

func (r *requestRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := store.CheckRequestFields(fields); err != nil {
		return err
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return updateOne(ctx, r.col, r.timeout, bson.M{"_id": oid}, fields)
}

func (r *requestRepo) UpdateIfStatus(ctx context.Context, id string, from models.RequestStatus, fields map[string]any) error {
	if err := store.CheckRequestFields(fields); err != nil {
		return err
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	err = updateOne(ctx, r.col, r.timeout, bson.M{"_id": oid, "status": from}, fields)
	if err != store.ErrNotFound {
		return err
	}

	// Nothing matched: tell a missing document apart from a state change.
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	n, cerr := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if cerr != nil {
		return cerr
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

func (r *requestRepo) Delete(ctx context.Context, id string) error {
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

func (r *requestRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.col.EstimatedDocumentCount(ctx)
}

func (r *requestRepo) CountByStatus(ctx context.Context, status models.RequestStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"status": status})
}
