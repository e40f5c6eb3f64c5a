package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/localfinds/internal/dto"
	"github.com/octobees/localfinds/internal/service"
)

// ClaimsHandler accepts claim-your-listing submissions.
type ClaimsHandler struct {
	service *service.ClaimsService
}

// NewClaimsHandler creates a new handler instance.
func NewClaimsHandler(service *service.ClaimsService) *ClaimsHandler {
	return &ClaimsHandler{service: service}
}

// Create handles POST /claims requests.
func (h *ClaimsHandler) Create(c echo.Context) error {
	var req dto.ClaimListingRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request payload")
	}

	claim, err := h.service.Submit(c.Request().Context(), req)
	if err != nil {
		var validationErr service.ClaimValidationError
		if errors.As(err, &validationErr) {
			return Error(c, http.StatusBadRequest, validationErr.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to submit claim")
	}

	return Success(c, http.StatusCreated, "claim submitted", claim)
}
