package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ryan-gomezzz/Hush-gentle/common/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	UserContextKey  = "userID"
	EmailContextKey = "userEmail"
	RoleContextKey  = "userRole"

	AccessTokenCookie = "access_token"
	RoleAdmin         = "admin"
)

var ErrNoUser = errors.New("user ID not found in context")

// Authenticate resolves the caller from a bearer token, the access_token cookie or, when
// trustGatewayHeaders is set, the X-User-* headers added by the API gateway. It never
// rejects a request; RequireUser and AdminOnly do.
func Authenticate(tokens *auth.TokenManager, trustGatewayHeaders bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if trustGatewayHeaders {
			if id, err := uuid.Parse(c.GetHeader("X-User-ID")); err == nil {
				setIdentity(c, id, c.GetHeader("X-User-Email"), c.GetHeader("X-User-Role"))
				c.Next()
				return
			}
		}

		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(AccessTokenCookie)
		}
		if token != "" {
			if claims, err := tokens.Parse(token, auth.TokenTypeAccess); err == nil {
				if id, err := uuid.Parse(claims.Subject); err == nil {
					setIdentity(c, id, claims.Email, claims.Role)
				}
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func setIdentity(c *gin.Context, id uuid.UUID, email, role string) {
	c.Set(UserContextKey, id)
	c.Set(EmailContextKey, email)
	c.Set(RoleContextKey, role)
}

// RequireUser rejects anonymous callers. Browser navigations are redirected to
// redirectTo when it is set; API callers get 401.
func RequireUser(redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := GetUserID(c); err == nil {
			c.Next()
			return
		}
		if redirectTo != "" && !WantsJSON(c) {
			c.Redirect(http.StatusSeeOther, redirectTo)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

// AdminOnly admits callers with the admin role or whose email is adminEmail.
func AdminOnly(adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := GetUserID(c); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !IsAdmin(c, adminEmail) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

func IsAdmin(c *gin.Context, adminEmail string) bool {
	if c.GetString(RoleContextKey) == RoleAdmin {
		return true
	}
	email := strings.TrimSpace(c.GetString(EmailContextKey))
	return adminEmail != "" && email != "" && strings.EqualFold(email, strings.TrimSpace(adminEmail))
}

func GetUserID(c *gin.Context) (uuid.UUID, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(uuid.UUID); ok && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, ErrNoUser
}

func GetEmail(c *gin.Context) string {
	return c.GetString(EmailContextKey)
}

// WantsJSON reports whether the caller is an API client rather than a form post.
func WantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), gin.MIMEJSON) ||
		strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}
