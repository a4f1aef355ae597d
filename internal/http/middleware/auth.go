package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

type contextKey string

const (
	SessionCookieName = "ops_session"
	// AdminKeyHeader lets scripts and opsctl call the API without a browser
	// session.
	AdminKeyHeader = "X-Admin-Key"

	userContextKey contextKey = "user"
)

// adminUser stands in for the caller when the admin key is used.
var adminUser = model.User{Name: "admin", Email: "admin@localhost"}

// RequireAuth accepts either a valid session cookie or the admin API key.
// An empty adminKey disables key access.
func RequireAuth(authService service.AuthService, adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(AdminKeyHeader); key != "" {
			if adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) != 1 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
				return
			}
			user := adminUser
			setUser(c, &user)
			c.Next()
			return
		}

		sessionID, err := SessionIDFromCookie(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		user, err := authService.ValidateSession(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserNotFound) {
				ClearSessionCookie(c, false)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			return
		}

		setUser(c, user)
		c.Next()
	}
}

func setUser(c *gin.Context, user *model.User) {
	ctx := context.WithValue(c.Request.Context(), userContextKey, user)
	if user.ID != 0 {
		ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &user.ID})
	}
	c.Request = c.Request.WithContext(ctx)
}

func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// DisplayName is how the caller is recorded on decisions and transcripts.
func DisplayName(ctx context.Context) string {
	user := GetUser(ctx)
	if user == nil {
		return "web"
	}
	if name := strings.TrimSpace(user.Name); name != "" {
		return name
	}
	return user.Email
}

func SessionIDFromCookie(c *gin.Context) (int64, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(cookie, 10, 64)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
