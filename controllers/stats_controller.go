package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phillip/blood-donation-go/apperrors"
	"github.com/phillip/blood-donation-go/middleware"
	"github.com/phillip/blood-donation-go/models"
)

// PublicStats serves the counts shown on the landing page.
func PublicStats(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		stats, err := countStats(ctx, env)
		if err != nil {
			apperrors.Respond(c, err, "stats")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// AdminStats adds totalFunding for admins. Volunteers get the same
// payload with the field absent, not zeroed. The role comes from the
// staff guard in front of this handler.
func AdminStats(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		stats, err := countStats(ctx, env)
		if err != nil {
			apperrors.Respond(c, err, "stats")
			return
		}

		if role, ok := middleware.ResolvedRole(c); ok && role == models.RoleAdmin {
			total, err := env.Store.Payments.TotalFunding(ctx)
			if err != nil {
				apperrors.Respond(c, err, "stats")
				return
			}
			stats.TotalFunding = &total
		}

		c.JSON(http.StatusOK, stats)
	}
}

func countStats(ctx context.Context, env *Env) (*models.Stats, error) {
	users, err := env.Store.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := env.Store.DonationRequests.Count(ctx)
	if err != nil {
		return nil, err
	}
	done, err := env.Store.DonationRequests.CountByStatus(ctx, models.RequestDone)
	if err != nil {
		return nil, err
	}
	return &models.Stats{Users: users, Requests: requests, DoneDonations: done}, nil
}
