package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email         string             `bson:"email" json:"email"`
	Name          string             `bson:"name,omitempty" json:"name,omitempty"`
	Price         *float64           `bson:"price,omitempty" json:"price,omitempty"`
	TransactionID string             `bson:"transactionId" json:"transactionId"` // processor reference
	Date          time.Time          `bson:"date" json:"date"`
}

// Amount returns the price, counting an absent one as zero.
func (p Payment) Amount() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}
