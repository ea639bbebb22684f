package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/blood-donation-go/apperrors"
	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/payments"
)

// ---------------- PAYMENT INTENT ----------------

// CreatePaymentIntent asks the processor for an intent and hands the
// client secret back to the browser, which completes the charge.
func CreatePaymentIntent(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		if env.Payments == nil {
			apperrors.Respond(c, apperrors.Unavailable("payments are not configured"), "")
			return
		}

		var input struct {
			Price float64 `json:"price" binding:"required,gt=0"`
		}
		if !bindJSON(c, &input) {
			return
		}

		amount := payments.ToCents(input.Price)
		if amount <= 0 {
			apperrors.Respond(c, apperrors.BadRequest("price is too small"), "")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		intent, err := env.Payments.CreateIntent(ctx, amount)
		if errors.Is(err, payments.ErrRejected) {
			apperrors.Respond(c, apperrors.BadRequest("payment processor rejected the request"), "")
			return
		}
		if err != nil {
			apperrors.Respond(c, err, "payment")
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
	}
}

// ---------------- RECORD ----------------

// RecordPayment stores a payment the processor has already confirmed;
// transactionId is its reference. The payer is always the caller.
func RecordPayment(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := caller(c)
		if !ok {
			return
		}

		var input struct {
			Name          string   `json:"name"`
			Price         *float64 `json:"price" binding:"required,gt=0"`
			TransactionID string   `json:"transactionId" binding:"required"`
		}
		if !bindJSON(c, &input) {
			return
		}

		name := input.Name
		if name == "" {
			name = id.Name
		}

		payment := &models.Payment{
			Email:         id.Email,
			Name:          name,
			Price:         input.Price,
			TransactionID: input.TransactionID,
			Date:          time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		insertedID, err := env.Store.Payments.Insert(ctx, payment)
		if err != nil {
			apperrors.Respond(c, err, "payment")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "payment recorded", "insertedId": insertedID})
	}
}

// ---------------- READ ----------------
func ListPaymentsByEmail(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		list, err := env.Store.Payments.ListByEmail(ctx, normalizeEmail(c.Param("email")))
		if err != nil {
			apperrors.Respond(c, err, "payment")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func ListAllPayments(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		list, err := env.Store.Payments.List(ctx)
		if err != nil {
			apperrors.Respond(c, err, "payment")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
