package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	app "pcb-inspector/internal/application"
	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

const (
	codeModelUnavailable     = "model_unavailable"
	codeInvalidImage         = "invalid_image"
	codeUnauthorized         = "unauthorized"
	codeInvalidCredentials   = "invalid_credentials"
	codeUserExists           = "user_exists"
	codeInvalidRequest       = "invalid_request"
	codeTransitionNotAllowed = "transition_not_allowed"
	codeInternal             = "internal"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// writeError сопоставляет ошибку приложения с HTTP статусом и кодом
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrModelUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, codeModelUnavailable, "The detection model is not available")
	case errors.Is(err, app.ErrMalformedImage):
		abortWithError(c, http.StatusBadRequest, codeInvalidImage, err.Error())
	case errors.Is(err, app.ErrNotAuthenticated):
		abortWithError(c, http.StatusUnauthorized, codeUnauthorized, "Log in to use the detector")
	case errors.Is(err, app.ErrInvalidCredentials):
		abortWithError(c, http.StatusUnauthorized, codeInvalidCredentials, "Invalid username or password")
	case errors.Is(err, app.ErrEmptyCredentials):
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "Username and password cannot be empty")
	case errors.Is(err, port.ErrUserExists):
		abortWithError(c, http.StatusConflict, codeUserExists, "Username already exists")
	case errors.Is(err, entity.ErrTransitionNotAllowed):
		abortWithError(c, http.StatusConflict, codeTransitionNotAllowed, err.Error())
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, codeInternal, "Unexpected server error")
	}
}
