package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-advisor/internal/domain/weather"
)

// Handler wires the HTTP transport to the weather service.
type Handler struct {
	weatherSvc weather.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(weatherSvc weather.Service, logger *slog.Logger) *Handler {
	return &Handler{
		weatherSvc: weatherSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// WeatherInfo interprets a free-text query and answers with weather data plus advice.
func (h *Handler) WeatherInfo(c *gin.Context) {
	var req weather.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "request body must be JSON with a string query", err))
		return
	}

	// A started pipeline runs to completion even if the caller goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	resp, err := h.weatherSvc.Lookup(ctx, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ForecastDays returns forecast entries grouped by calendar day.
func (h *Handler) ForecastDays(c *gin.Context) {
	lat, errLat := parseCoordinate(c.Query("lat"))
	lon, errLon := parseCoordinate(c.Query("lon"))
	if errLat != nil || errLon != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "lat and lon must be numeric", nil))
		return
	}

	resp, err := h.weatherSvc.ForecastDays(context.WithoutCancel(c.Request.Context()), lat, lon)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func parseCoordinate(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}
