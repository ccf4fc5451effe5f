package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentcal/internal/app/dto"
	"rentcal/internal/domain/availability"
	"rentcal/internal/domain/booking"
	"rentcal/internal/domain/inventory"
	"rentcal/internal/domain/rules"
	"rentcal/internal/infra/validation"
)

type errorResponse struct {
	Error        string            `json:"error"`
	Code         string            `json:"code"`
	Fields       map[string]string `json:"fields,omitempty"`
	Restrictions []dto.Restriction `json:"restrictions,omitempty"`
	Conflicts    []string          `json:"conflicts,omitempty"`
}

var badRequest = []error{
	validation.ErrInvalid,
	availability.ErrInvalidRange,
	availability.ErrInvalidRequest,
	inventory.ErrInvalidUnits,
	booking.ErrInvalidGuests,
	booking.ErrGuestNameNeeded,
	booking.ErrInvalidStatus,
	booking.ErrCheckInInPast,
	rules.ErrInvalidType,
	rules.ErrInvalidWindow,
	rules.ErrInvalidValue,
}

// classify maps an application error to an HTTP status and a stable code.
func classify(err error) (int, string) {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest, "invalid_request"
		}
	}
	switch {
	case errors.Is(err, availability.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, availability.ErrUnavailable):
		return http.StatusConflict, "unavailable"
	case errors.Is(err, availability.ErrCapacityExceeded):
		return http.StatusConflict, "capacity_exceeded"
	case errors.Is(err, booking.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, availability.ErrBusy):
		return http.StatusServiceUnavailable, "busy"
	case errors.Is(err, availability.ErrStore):
		return http.StatusBadGateway, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	resp := errorResponse{Error: err.Error(), Code: code}
	if status == http.StatusInternalServerError {
		resp.Error = "internal error"
		_ = c.Error(err)
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	var unavailable *availability.UnavailableError
	if errors.As(err, &unavailable) {
		resp.Restrictions = dto.MapRestrictions(unavailable.Restrictions)
		for _, id := range unavailable.Conflicts {
			resp.Conflicts = append(resp.Conflicts, string(id))
		}
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequestError(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg, Code: "invalid_request"})
}
