package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/pkg/helpers"
	"github.com/oksasatya/lingo-social/pkg/response"
)

// Gin context keys set by Auth.
const (
	CtxUserID = "userID"
	CtxUser   = "user"
)

// sessionToken reads the session cookie, falling back to a Bearer header.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.SessionCookieName); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Auth resolves the session token to a user and stores it in the Gin context
// under CtxUserID and CtxUser. Requests without a valid session stop with 401.
func Auth(sessions *application.SessionService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := sessions.AuthenticateRequest(c.Request.Context(), sessionToken(c))
		if err != nil {
			var ae *apperror.AuthError
			if errors.As(err, &ae) {
				response.Abort(c, http.StatusUnauthorized, "unauthorized - "+ae.Message, nil)
				return
			}
			helpers.LogError(logger, "session lookup failed", err, logrus.Fields{"request_id": c.GetString(CtxRequestID)})
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		c.Set(CtxUserID, u.ID)
		c.Set(CtxUser, u)
		c.Next()
	}
}

// CurrentUser returns the user attached by Auth, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
