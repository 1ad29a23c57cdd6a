package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"flightchat/middleware"
	"flightchat/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetAirportCodes(c *gin.Context) {
	departure := strings.TrimSpace(c.Query("departure"))
	destination := strings.TrimSpace(c.Query("destination"))

	h.log.DebugContext(c.Request.Context(), "Airport codes requested",
		slog.String("departure", departure),
		slog.String("destination", destination),
	)

	if departure == "" || destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both departure and destination cities are required"})
		return
	}

	pair, err := h.flights.ResolveAirports(c.Request.Context(), departure, destination)
	if err != nil {
		// Empty results and provider failures look the same to the caller.
		h.log.WarnContext(c.Request.Context(), "Unable to resolve airports",
			slog.String("req_id", middleware.GetRequestID(c)),
			slog.Bool("not_found", errors.Is(err, services.ErrAirportNotFound)),
			slog.Any("error", err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find airport codes"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *Handler) GetFlight(c *gin.Context) {
	q := services.FlightQuery{
		OriginCode:          c.Query("origin"),
		DestinationCode:     c.Query("destination"),
		OriginEntityID:      c.Query("originEntityId"),
		DestinationEntityID: c.Query("destinationEntityId"),
		Date:                c.Query("date"),
		Currency:            c.DefaultQuery("currency", services.DefaultCurrency),
		Market:              c.DefaultQuery("market", services.DefaultMarket),
		CountryCode:         c.DefaultQuery("countryCode", services.DefaultCountryCode),
	}
	if err := q.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing flight details"})
		return
	}

	result, err := h.flights.SearchFlights(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, services.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing flight details"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}
