package middleware

import (
	"errors"

	"campusevents/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrNoUserInContext = errors.New("no authenticated user in context")

// CurrentUserID returns the authenticated user's ID set by JWTAuth
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, ErrNoUserInContext
	}
	id, ok := raw.(string)
	if !ok {
		return uuid.Nil, ErrNoUserInContext
	}
	return uuid.Parse(id)
}

// CurrentUserRole returns the authenticated user's role, or empty
func CurrentUserRole(c *gin.Context) users.Role {
	raw, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	role, ok := raw.(string)
	if !ok {
		return ""
	}
	return users.Role(role)
}

// IsAdmin reports whether the authenticated user holds a privileged role
func IsAdmin(c *gin.Context) bool {
	return CurrentUserRole(c).IsPrivileged()
}
