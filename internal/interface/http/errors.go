package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/internal/interface/middleware"
	"github.com/oksasatya/lingo-social/pkg/response"
	"github.com/oksasatya/lingo-social/pkg/validation"
)

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		ve *apperror.ValidationError
		ce *apperror.ConflictError
		ae *apperror.AuthError
		ne *apperror.NotFoundError
		de *apperror.DependencyError
	)
	switch {
	case errors.As(err, &ve):
		var details any
		if len(ve.Fields) > 0 {
			details = gin.H{"missingFields": ve.Fields}
		}
		response.Error[any](c, http.StatusBadRequest, ve.Message, details)
	case errors.As(err, &ce):
		response.Error[any](c, http.StatusBadRequest, ce.Message, nil)
	case errors.As(err, &ae):
		status := http.StatusUnauthorized
		if ae.Forbidden {
			status = http.StatusForbidden
		}
		response.Error[any](c, status, ae.Message, nil)
	case errors.As(err, &ne):
		response.Error[any](c, http.StatusNotFound, ne.Message, nil)
	case errors.As(err, &de):
		logger.WithError(err).WithField("service", de.Service).Warn("dependency failed")
		response.Error[any](c, http.StatusBadGateway, de.Service+" unavailable", nil)
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// bindJSON decodes the body into dst; an empty body leaves dst zero so the
// service reports the missing fields.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

func currentUser(c *gin.Context) *entity.User {
	return middleware.CurrentUser(c)
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}
