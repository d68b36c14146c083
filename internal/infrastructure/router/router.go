package router

import (
	"flightwatch-service/internal/interface/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Sessions *handler.SessionHandler
	Flights  *handler.FlightHandler
}

// RegisterRoutes mounts public and authenticated routes on e
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, gatherer prometheus.Gatherer) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := e.Group("/v1")
	v1.Use(handler.JWTAuth(jwtSecret))

	v1.GET("/flights/status", h.Flights.FlightStatus)
	v1.GET("/subscriptions", h.Flights.ListSubscriptions)
	v1.POST("/subscriptions", h.Flights.Subscribe)
	v1.GET("/tx-logs", h.Flights.TransactionLogs)

	sessions := v1.Group("/sessions")
	sessions.POST("", h.Sessions.Create)
	sessions.GET("/:id", h.Sessions.Get)
	sessions.DELETE("/:id", h.Sessions.Delete)
	sessions.PUT("/:id/tab", h.Sessions.SwitchTab)
	sessions.PUT("/:id/filters", h.Sessions.SetFilters)
	sessions.DELETE("/:id/filters", h.Sessions.ClearFilters)
	sessions.POST("/:id/search", h.Sessions.Search)
	sessions.PUT("/:id/page", h.Sessions.SetPage)
	sessions.POST("/:id/selection/toggle", h.Sessions.ToggleSelection)
	sessions.POST("/:id/selection/all", h.Sessions.SelectAll)
	sessions.POST("/:id/unsubscribe/dialog", h.Sessions.OpenDialog)
	sessions.DELETE("/:id/unsubscribe/dialog", h.Sessions.CancelDialog)
	sessions.POST("/:id/unsubscribe", h.Sessions.Unsubscribe)
	sessions.POST("/:id/subscribe", h.Sessions.Subscribe)
}
