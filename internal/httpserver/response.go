package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"shopfront/internal/domain"
	authsvc "shopfront/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Message string `json:"message"`
}

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Message: msg})
}

// statusFor maps service errors to HTTP statuses. Only the messages of
// client errors are shown to callers.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCartEmpty):
		return http.StatusBadRequest, domain.ErrCartEmpty.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, clientMessage(err, domain.ErrInvalidInput)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "already exists"
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return http.StatusUnauthorized, authsvc.ErrInvalidCredentials.Error()
	case errors.Is(err, authsvc.ErrInvalidToken):
		return http.StatusUnauthorized, authsvc.ErrInvalidToken.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// clientMessage strips the sentinel prefix from "invalid input: detail".
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok && detail != "" {
		return detail
	}
	return msg
}

func (h *handlers) fail(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Printf("http: %s %s failed op=%s error=%v", c.Request.Method, c.Request.URL.Path, op, err)
	}
	c.JSON(status, errorResponse{Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Message: msg})
}

// money renders a decimal as a bare JSON number.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
