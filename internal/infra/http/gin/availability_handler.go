package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentcal/internal/app/dto"
	availabilityapp "rentcal/internal/app/handlers/availability"
	"rentcal/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

// Check answers GET /properties/:id/availability.
func (h AvailabilityHandler) Check(c *gin.Context) {
	checkIn, err := parseDate("check_in", c.Query("check_in"))
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	checkOut, err := parseDate("check_out", c.Query("check_out"))
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	guests, err := parseOptionalInt("guests", c.Query("guests"), 0)
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	units, err := parseOptionalInt("units", c.Query("units"), 0)
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	query := availabilityapp.CheckAvailabilityQuery{
		PropertyID: c.Param("id"),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		Units:      units,
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.Availability](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Calendar answers GET /properties/:id/calendar?year=&month=.
func (h AvailabilityHandler) Calendar(c *gin.Context) {
	year, err := strconvRequired(c, "year")
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	month, err := strconvRequired(c, "month")
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	query := availabilityapp.GetCalendarQuery{PropertyID: c.Param("id"), Year: year, Month: month}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func strconvRequired(c *gin.Context, field string) (int, error) {
	raw := c.Query(field)
	if raw == "" {
		return 0, errRequired(field)
	}
	return parseOptionalInt(field, raw, 0)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
