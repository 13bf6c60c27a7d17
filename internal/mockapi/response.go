package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/common"
)

type envelope struct {
	Success   bool           `json:"success"`
	Data      any            `json:"data,omitempty"`
	Error     *errorEnvelope `json:"error,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

type errorEnvelope struct {
	Error     string         `json:"error"`
	Code      apierror.Code  `json:"code"`
	Timestamp int64          `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

func (h *handlers) ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data, Timestamp: h.svc.now().UnixMilli()})
}

// fail writes err as a failure envelope with the status its kind maps to.
func (h *handlers) fail(c *gin.Context, err error) {
	status, code, message, details := classify(err)
	if status == http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}

	ts := h.svc.now().UnixMilli()
	c.AbortWithStatusJSON(status, envelope{
		Success: false,
		Error: &errorEnvelope{
			Error:     message,
			Code:      code,
			Timestamp: ts,
			Details:   details,
		},
		Timestamp: ts,
	})
}

var sentinels = []struct {
	err     error
	status  int
	code    apierror.Code
	message string
}{
	{common.ErrUnauthorized, http.StatusUnauthorized, apierror.CodeAuthentication, "Authentication required"},
	{common.ErrInvalidToken, http.StatusUnauthorized, apierror.CodeAuthentication, "Invalid or expired token"},
	{common.ErrTokenExpired, http.StatusUnauthorized, apierror.CodeAuthentication, "Token expired"},
	{common.ErrRefreshTokenExpired, http.StatusUnauthorized, apierror.CodeAuthentication, "Refresh token expired"},
	{common.ErrForbidden, http.StatusForbidden, apierror.CodeAuthorization, "Insufficient permissions"},
	{common.ErrNotFound, http.StatusNotFound, apierror.CodeNotFound, "Resource not found"},
	{common.ErrAlreadyExists, http.StatusConflict, apierror.CodeDuplicate, "Resource already exists"},
	{common.ErrInvalidState, http.StatusBadRequest, apierror.CodeValidation, "Invalid request"},
}

func classify(err error) (int, apierror.Code, string, map[string]any) {
	var verr *apierror.ValidationError
	if errors.As(err, &verr) {
		details := map[string]any{"field": verr.Field}
		if verr.Value != nil {
			details["value"] = verr.Value
		}
		return http.StatusBadRequest, apierror.CodeValidation, verr.Message, details
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.status, s.code, describe(err, s.err, s.message), nil
		}
	}

	return http.StatusInternalServerError, apierror.CodeInternal, "Internal server error", nil
}

// describe turns "context: sentinel" into a sentence, falling back to the
// generic message when there is no context.
func describe(err, sentinel error, fallback string) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == sentinel.Error() || msg == "" {
		return fallback
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
