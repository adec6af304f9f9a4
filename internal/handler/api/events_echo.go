package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	models "MarketSentinel/internal/domain/models"
	icache "MarketSentinel/internal/service/cache"
	"MarketSentinel/internal/service/ratelimit"
	"MarketSentinel/internal/usecase"
	xhttp "MarketSentinel/pkg/http"
	xlogger "MarketSentinel/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EventsEchoHandler serves the dashboard feed endpoints.
type EventsEchoHandler struct {
	logger *xlogger.Logger
	feed   *usecase.EventFeed
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
}

func NewEventsEchoHandler(logger *xlogger.Logger, feed *usecase.EventFeed) *EventsEchoHandler {
	return &EventsEchoHandler{logger: logger, feed: feed, rl: ratelimit.New()}
}

// SetCache enables response caching for the feed queries.
func (h *EventsEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *EventsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/events", h.Recent)
	g.GET("/critical", h.Critical)
	g.GET("/counts", h.Counts)
	g.GET("/logs", h.Logs)
	e.GET("/healthz", h.Health)
}

func (h *EventsEchoHandler) Recent(c echo.Context) error {
	req := &models.RecentEventsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":events", 10, 5) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
	}

	key := fmt.Sprintf("events:%d:%d:%s:%s", req.Hours, req.Limit, req.Category, req.MinLevel)
	if b, ok := h.cached(key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.feed.Recent(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("events query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(key, res, 15*time.Second)
	return xhttp.SuccessResponse(c, res)
}

func (h *EventsEchoHandler) Critical(c echo.Context) error {
	req := &models.CriticalEventsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":critical", 10, 5) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
	}

	key := fmt.Sprintf("critical:%d:%d", req.Hours, req.Limit)
	if b, ok := h.cached(key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.feed.Critical(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("critical query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(key, res, 15*time.Second)
	return xhttp.SuccessResponse(c, res)
}

func (h *EventsEchoHandler) Counts(c echo.Context) error {
	req := &models.EventCountsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("counts:%d", req.Hours)
	if b, ok := h.cached(key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.feed.Counts(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("counts query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(key, res, 30*time.Second)
	return xhttp.SuccessResponse(c, res)
}

// Logs exposes the aggregated error-log buffer for the dashboard.
func (h *EventsEchoHandler) Logs(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.logger.CollectedLogs())
}

func (h *EventsEchoHandler) Health(c echo.Context) error {
	if err := h.feed.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *EventsEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("feed cache get error", xlogger.Error(err))
		return nil, false
	}
	return b, ok
}

// store caches the full response envelope so cache hits and misses return
// identical bodies.
func (h *EventsEchoHandler) store(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    v,
	})
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.logger.Warn("feed cache set error", xlogger.Error(err))
	}
}
