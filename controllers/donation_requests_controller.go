package controllers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phillip/blood-donation-go/apperrors"
	"github.com/phillip/blood-donation-go/logger"
	"github.com/phillip/blood-donation-go/middleware"
	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/store"
)

const recentRequestsLimit = 3

// ---------------- CREATE ----------------

// CreateDonationRequest stores a pending request attributed to the caller.
// It runs behind RequireActive, so the user record is already resolved.
func CreateDonationRequest(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := caller(c)
		if !ok {
			return
		}

		var input models.DonationRequestInput
		if !bindJSON(c, &input) {
			return
		}

		requesterName := input.RequesterName
		if requesterName == "" {
			if u, err := middleware.CurrentUser(c, env.Store.Users); err == nil {
				requesterName = u.Name
			}
		}

		req := &models.DonationRequest{
			RequesterName:     requesterName,
			RequesterEmail:    id.Email,
			RecipientName:     input.RecipientName,
			RecipientDistrict: input.RecipientDistrict,
			RecipientUpazila:  input.RecipientUpazila,
			HospitalName:      input.HospitalName,
			FullAddress:       input.FullAddress,
			BloodGroup:        input.BloodGroup,
			DonationDate:      input.DonationDate,
			DonationTime:      input.DonationTime,
			RequestMessage:    input.RequestMessage,
			Status:            models.RequestPending,
			CreatedAt:         time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		insertedID, err := env.Store.DonationRequests.Insert(ctx, req)
		if err != nil {
			apperrors.Respond(c, err, "donation request")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "donation request created", "insertedId": insertedID})
	}
}

// ---------------- READ ----------------
func ListMyDonationRequests(env *Env) gin.HandlerFunc {
	return listByRequester(env, 0)
}

func RecentDonationRequests(env *Env) gin.HandlerFunc {
	return listByRequester(env, recentRequestsLimit)
}

func listByRequester(env *Env, limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		requests, err := env.Store.DonationRequests.ListByRequester(ctx, normalizeEmail(c.Param("email")), limit)
		if err != nil {
			apperrors.Respond(c, err, "donation request")
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

func GetDonationRequest(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		req, err := env.Store.DonationRequests.FindByID(ctx, c.Param("id"))
		if err != nil {
			apperrors.Respond(c, err, "donation request")
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// ListAllDonationRequests is the staff view, optionally narrowed by ?status=.
func ListAllDonationRequests(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.RequestFilter
		if s := c.Query("status"); s != "" {
			status, err := models.ParseRequestStatus(s)
			if err != nil {
				apperrors.Respond(c, apperrors.BadRequest(err.Error()), "")
				return
			}
			filter.Status = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		requests, err := env.Store.DonationRequests.List(ctx, filter)
		if err != nil {
			apperrors.Respond(c, err, "donation request")
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

// ---------------- UPDATE ----------------
func UpdateDonationRequest(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		reqID := c.Param("id")
		req, ok := loadOwned(ctx, c, env, reqID)
		if !ok {
			return
		}

		var input models.DonationRequestUpdate
		if !bindJSON(c, &input) {
			return
		}
		fields, err := input.Fields()
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(err.Error()), "")
			return
		}
		if len(fields) == 0 {
			apperrors.Respond(c, apperrors.BadRequest("no valid fields to update"), "")
			return
		}
		// --- in-progress and done follow a donation ---
		if st, ok := fields["status"].(models.RequestStatus); ok && st.NeedsDonor() && req.DonorEmail == "" {
			apperrors.Respond(c, apperrors.BadRequest("donation request has no donor yet"), "")
			return
		}

		if err := env.Store.DonationRequests.Update(ctx, reqID, fields); err != nil {
			apperrors.Respond(c, err, "donation request")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "donation request updated"})
	}
}

// ---------------- DELETE ----------------
func DeleteDonationRequest(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		reqID := c.Param("id")
		if _, ok := loadOwned(ctx, c, env, reqID); !ok {
			return
		}

		if err := env.Store.DonationRequests.Delete(ctx, reqID); err != nil {
			apperrors.Respond(c, err, "donation request")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "donation request deleted"})
	}
}

// loadOwned fetches the request and checks that the caller is its
// requester or staff. It writes the error response itself.
func loadOwned(ctx context.Context, c *gin.Context, env *Env, id string) (*models.DonationRequest, bool) {
	req, err := env.Store.DonationRequests.FindByID(ctx, id)
	if err != nil {
		apperrors.Respond(c, err, "donation request")
		return nil, false
	}

	allowed, err := middleware.IsOwnerOrStaff(c, env.Store.Users, req.RequesterEmail)
	if err != nil {
		apperrors.Respond(c, err, "user")
		return nil, false
	}
	if !allowed {
		apperrors.Respond(c, apperrors.Forbidden(""), "")
		return nil, false
	}
	return req, true
}

// ---------------- DONATE ----------------

// DonateToRequest lets an active user take on a pending request. The
// status check and the write happen in one conditional update, so two
// donors racing for the same request cannot both win.
func DonateToRequest(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := caller(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		reqID := c.Param("id")
		req, err := env.Store.DonationRequests.FindByID(ctx, reqID)
		if err != nil {
			apperrors.Respond(c, err, "donation request")
			return
		}
		if normalizeEmail(req.RequesterEmail) == id.Email {
			apperrors.Respond(c, apperrors.BadRequest("cannot donate to your own request"), "")
			return
		}

		donorName := id.Name
		if u, err := middleware.CurrentUser(c, env.Store.Users); err == nil && u.Name != "" {
			donorName = u.Name
		}

		err = env.Store.DonationRequests.UpdateIfStatus(ctx, reqID, models.RequestPending, map[string]any{
			"status":     models.RequestInProgress,
			"donorName":  donorName,
			"donorEmail": id.Email,
		})
		if errors.Is(err, store.ErrConflict) {
			apperrors.Respond(c, apperrors.Conflict("donation request is no longer pending"), "")
			return
		}
		if err != nil {
			apperrors.Respond(c, err, "donation request")
			return
		}

		notifyRequester(ctx, env, req, donorName, id.Email)

		c.JSON(http.StatusOK, gin.H{"message": "donation confirmed", "status": models.RequestInProgress})
	}
}

// notifyRequester emails the requester. Failures are logged; the
// donation itself already succeeded.
func notifyRequester(ctx context.Context, env *Env, req *models.DonationRequest, donorName, donorEmail string) {
	if env.Mailer == nil {
		return
	}
	subject := "A donor has responded to your blood request"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p><strong>%s</strong> (%s) will donate %s blood for %s at %s on %s %s.</p>",
		html.EscapeString(req.RequesterName),
		html.EscapeString(donorName),
		html.EscapeString(donorEmail),
		html.EscapeString(req.BloodGroup),
		html.EscapeString(req.RecipientName),
		html.EscapeString(req.HospitalName),
		html.EscapeString(req.DonationDate),
		html.EscapeString(req.DonationTime),
	)
	if err := env.Mailer.Send(ctx, req.RequesterEmail, req.RequesterName, subject, body); err != nil {
		logger.FromContext(ctx).Warn("donation notification failed",
			zap.String("request_id", req.ID.Hex()),
			zap.Error(err),
		)
	}
}
