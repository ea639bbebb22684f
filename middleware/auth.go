package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phillip/blood-donation-go/apperrors"
	"github.com/phillip/blood-donation-go/auth"
	"github.com/phillip/blood-donation-go/logger"
	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/store"
)

const (
	identityKey = "identity"
	userKey     = "current_user"
	roleKey     = "role"
)

// resolution is the cached outcome of looking up the caller's user record.
// A miss is cached too, so no guard repeats the round-trip.
type resolution struct {
	user *models.User
	err  error
}

// Authenticate requires "Authorization: Bearer <token>" and a token the
// verifier accepts. The verified identity is stored on the context.
func Authenticate(v auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(), "")
			return
		}

		id, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("token rejected", zap.Error(err))
			apperrors.Respond(c, apperrors.Unauthorized(), "")
			return
		}

		c.Set(identityKey, id)
		log := logger.FromContext(c.Request.Context()).With(zap.String("email", id.Email))
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), log))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// IdentityFrom returns the identity attached by Authenticate.
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*auth.Identity)
	return id, ok && id != nil
}

// CurrentUser loads the caller's user record once per request; later
// calls return the cached result. It returns store.ErrNotFound for an
// authenticated caller who never registered.
func CurrentUser(c *gin.Context, users store.Users) (*models.User, error) {
	if v, ok := c.Get(userKey); ok {
		r := v.(resolution)
		return r.user, r.err
	}

	id, ok := IdentityFrom(c)
	if !ok {
		return nil, apperrors.Unauthorized()
	}

	u, err := users.FindByEmail(c.Request.Context(), id.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		// transient failures are not cached
		return nil, err
	}
	c.Set(userKey, resolution{user: u, err: err})
	return u, err
}

// ResolvedRole returns the role set by a role guard.
func ResolvedRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(roleKey)
	if !ok {
		return "", false
	}
	r, ok := v.(models.Role)
	return r, ok
}

// RequireStaff admits volunteers and admins.
func RequireStaff(users store.Users) gin.HandlerFunc {
	return requireRole(users, models.RoleVolunteer, models.RoleAdmin)
}

// RequireAdmin admits admins only.
func RequireAdmin(users store.Users) gin.HandlerFunc {
	return requireRole(users, models.RoleAdmin)
}

func requireRole(users store.Users, allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := CurrentUser(c, users)
		if err != nil {
			denyOrFail(c, err)
			return
		}
		if !roleIn(u.Role, allowed) {
			apperrors.Respond(c, apperrors.Forbidden(""), "")
			return
		}
		c.Set(roleKey, u.Role)
		c.Next()
	}
}

// RequireSelf admits the caller whose email equals the path parameter
// param, and, when roles are given, any caller holding one of them.
func RequireSelf(users store.Users, param string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(), "")
			return
		}
		if strings.EqualFold(id.Email, c.Param(param)) {
			c.Next()
			return
		}
		if len(roles) == 0 {
			apperrors.Respond(c, apperrors.Forbidden(""), "")
			return
		}

		u, err := CurrentUser(c, users)
		if err != nil {
			denyOrFail(c, err)
			return
		}
		if !roleIn(u.Role, roles) {
			apperrors.Respond(c, apperrors.Forbidden(""), "")
			return
		}
		c.Set(roleKey, u.Role)
		c.Next()
	}
}

// RequireActive rejects blocked accounts. It guards the write operations
// a blocked user must not perform, not every route.
func RequireActive(users store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := CurrentUser(c, users)
		if errors.Is(err, store.ErrNotFound) {
			apperrors.Respond(c, apperrors.Forbidden("register an account first"), "")
			return
		}
		if err != nil {
			apperrors.Respond(c, err, "user")
			return
		}
		if u.Status == models.UserBlocked {
			apperrors.Respond(c, apperrors.Forbidden("blocked users cannot create requests"), "")
			return
		}
		c.Next()
	}
}

// IsOwnerOrStaff reports whether the caller may modify a resource
// attributed to ownerEmail.
func IsOwnerOrStaff(c *gin.Context, users store.Users, ownerEmail string) (bool, error) {
	id, ok := IdentityFrom(c)
	if !ok {
		return false, nil
	}
	if strings.EqualFold(id.Email, ownerEmail) {
		return true, nil
	}
	u, err := CurrentUser(c, users)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.Role.IsStaff(), nil
}

// denyOrFail turns a missing user into 403 and anything else into 500.
func denyOrFail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		apperrors.Respond(c, apperrors.Forbidden(""), "")
		return
	}
	apperrors.Respond(c, err, "user")
}

func roleIn(r models.Role, allowed []models.Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
