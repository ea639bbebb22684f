package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/blood-donation-go/apperrors"
	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/store"
)

const requestTimeout = 10 * time.Second

// ---------------- REGISTER ----------------
func RegisterUser(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name       string `json:"name" binding:"required"`
			Email      string `json:"email" binding:"required,email"`
			Avatar     string `json:"avatar"`
			BloodGroup string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
			District   string `json:"district"`
			Upazila    string `json:"upazila"`
		}
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		email := normalizeEmail(input.Email)

		// --- Reject duplicates up front; the unique index catches races ---
		_, err := env.Store.Users.FindByEmail(ctx, email)
		if err == nil {
			userExists(c)
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			apperrors.Respond(c, err, "user")
			return
		}

		// role and status are never taken from the client
		user := &models.User{
			Name:       input.Name,
			Email:      email,
			Avatar:     input.Avatar,
			BloodGroup: input.BloodGroup,
			District:   input.District,
			Upazila:    input.Upazila,
			Role:       models.RoleDonor,
			Status:     models.UserActive,
			CreatedAt:  time.Now().UTC(),
		}

		id, err := env.Store.Users.Insert(ctx, user)
		if errors.Is(err, store.ErrDuplicateKey) {
			userExists(c)
			return
		}
		if err != nil {
			apperrors.Respond(c, err, "user")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "user registered", "insertedId": id})
	}
}

func userExists(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "User already exists", "insertedId": nil})
}

// ---------------- ROLE LOOKUP ----------------

// GetUserRole answers with the stored role, or donor for an email that
// has no account yet.
func GetUserRole(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		user, err := env.Store.Users.FindByEmail(ctx, normalizeEmail(c.Param("email")))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"role": models.RoleDonor})
			return
		}
		if err != nil {
			apperrors.Respond(c, err, "user")
			return
		}

		role := user.Role
		if role == "" {
			role = models.RoleDonor
		}
		c.JSON(http.StatusOK, gin.H{"role": role})
	}
}

// ---------------- READ ----------------
func ListUsers(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		users, err := env.Store.Users.List(ctx)
		if err != nil {
			apperrors.Respond(c, err, "user")
			return
		}

		// --- Optional ?status=active|blocked filter ---
		if s := c.Query("status"); s != "" {
			status, err := models.ParseUserStatus(s)
			if err != nil {
				apperrors.Respond(c, apperrors.BadRequest(err.Error()), "")
				return
			}
			filtered := make([]models.User, 0, len(users))
			for _, u := range users {
				if u.Status == status {
					filtered = append(filtered, u)
				}
			}
			users = filtered
		}

		c.JSON(http.StatusOK, users)
	}
}

func GetUser(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		user, err := env.Store.Users.FindByEmail(ctx, normalizeEmail(c.Param("email")))
		if err != nil {
			apperrors.Respond(c, err, "user")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// ---------------- UPDATE ----------------

// UpdateProfile applies a partial profile edit. Only the ProfileUpdate
// fields are read from the body, so role, status and email stay put.
func UpdateProfile(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ProfileUpdate
		if !bindJSON(c, &input) {
			return
		}

		fields := input.Fields()
		if len(fields) == 0 {
			apperrors.Respond(c, apperrors.BadRequest("no valid fields to update"), "")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := env.Store.Users.UpdateProfile(ctx, normalizeEmail(c.Param("email")), fields); err != nil {
			apperrors.Respond(c, err, "user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}

func SetUserRole(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Role string `json:"role" binding:"required,role"`
		}
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := env.Store.Users.SetRole(ctx, c.Param("id"), models.Role(input.Role)); err != nil {
			apperrors.Respond(c, err, "user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "role updated", "role": input.Role})
	}
}

func SetUserStatus(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Status string `json:"status" binding:"required,userstatus"`
		}
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := env.Store.Users.SetStatus(ctx, c.Param("id"), models.UserStatus(input.Status)); err != nil {
			apperrors.Respond(c, err, "user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "status updated", "status": input.Status})
	}
}

// ---------------- DONOR SEARCH ----------------

// SearchDonors lists active donors matching the optional bloodGroup,
// district and upazila query parameters.
func SearchDonors(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.DonorFilter{
			BloodGroup: bloodGroupParam(c.Query("bloodGroup")),
			District:   c.Query("district"),
			Upazila:    c.Query("upazila"),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		donors, err := env.Store.Users.SearchDonors(ctx, filter)
		if err != nil {
			apperrors.Respond(c, err, "donor")
			return
		}
		c.JSON(http.StatusOK, donors)
	}
}

// bloodGroupParam undoes form decoding of an unescaped "+": "A+" sent
// raw in a query string arrives as "A ".
func bloodGroupParam(s string) string {
	if n := len(s); n > 0 && s[n-1] == ' ' {
		return s[:n-1] + "+"
	}
	return s
}
