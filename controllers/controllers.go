package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/phillip/blood-donation-go/apperrors"
	"github.com/phillip/blood-donation-go/auth"
	"github.com/phillip/blood-donation-go/middleware"
	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/payments"
	"github.com/phillip/blood-donation-go/store"
	"github.com/phillip/blood-donation-go/utils"
)

// Env carries the collaborators every handler is built from. Payments
// and Images are nil when the deployment has not configured them.
type Env struct {
	Store    store.Store
	Payments payments.Processor
	Images   utils.ImageStore
	Mailer   utils.Mailer
}

var registerOnce sync.Once

// RegisterValidators adds the domain binding rules to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
			return models.ValidBloodGroup(fl.Field().String())
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return models.Role(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("userstatus", func(fl validator.FieldLevel) bool {
			return models.UserStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("blogstatus", func(fl validator.FieldLevel) bool {
			return models.BlogStatus(fl.Field().String()).Valid()
		})
	})
}

// bindJSON decodes the body into obj, answering 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()), "")
		return false
	}
	return true
}

// caller returns the verified identity; routes using it sit behind
// middleware.Authenticate, so a miss is a wiring bug answered with 401.
func caller(c *gin.Context) (*auth.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized(), "")
	}
	return id, ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// writeCached serves body with an ETag and honours If-None-Match.
func writeCached(c *gin.Context, body any) {
	render, err := json.Marshal(body)
	if err != nil {
		apperrors.Respond(c, err, "")
		return
	}
	etag := utils.GenerateETag(render)
	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", render)
}

// Health answers the root path.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "Blood Donation Server is running")
	}
}

// LegacyJWT keeps the old token-exchange endpoint answering; clients now
// send identity-provider tokens directly.
func LegacyJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Using Firebase Token directly"})
	}
}
