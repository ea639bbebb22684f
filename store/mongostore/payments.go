package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phillip/blood-donation-go/models"
)

type paymentRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

func (r *paymentRepo) Insert(ctx context.Context, p *models.Payment) (string, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return "", translate(err)
	}
	return p.ID.Hex(), nil
}

func (r *paymentRepo) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	return findAll[models.Payment](ctx, r.col, r.timeout, bson.M{"email": email}, newestFirst(0))
}

func (r *paymentRepo) List(ctx context.Context) ([]models.Payment, error) {
	return findAll[models.Payment](ctx, r.col, r.timeout, bson.M{}, newestFirst(0))
}

func (r *paymentRepo) TotalFunding(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$price", 0}},
			}}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
