package handler

import (
	"net/http"
	"strconv"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/usecase"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/timeutil"

	"github.com/labstack/echo/v4"
)

// FlightHandler serves flight status views and one-off subscription calls
type FlightHandler struct {
	queries       *usecase.FlightQueryService
	subscriptions *usecase.SubscriptionService
	views         *usecase.FlightViewBuilder
	defaultFormat timeutil.Format
	logger        logger.Logger
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(
	queries *usecase.FlightQueryService,
	subscriptions *usecase.SubscriptionService,
	views *usecase.FlightViewBuilder,
	defaultFormat timeutil.Format,
	logger logger.Logger,
) *FlightHandler {
	return &FlightHandler{
		queries:       queries,
		subscriptions: subscriptions,
		views:         views,
		defaultFormat: defaultFormat,
		logger:        logger,
	}
}

type subscribeRequest struct {
	FlightNumber     string `json:"flightNumber"`
	DepartureDate    string `json:"departureDate"`
	CarrierCode      string `json:"carrierCode"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`
}

// FlightStatus handles GET /v1/flights/status
func (h *FlightHandler) FlightStatus(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("unauthorized", "unauthorized"))
	}
	date, err := usecase.ParseCriteriaDate(c.QueryParam("date"))
	if err != nil {
		return writeError(c, err, "")
	}
	criteria := usecase.FilterCriteria{
		CarrierCode:      c.QueryParam("carrierCode"),
		FlightNumber:     c.QueryParam("flightNumber"),
		DepartureAirport: c.QueryParam("departureAirport"),
		ArrivalAirport:   c.QueryParam("arrivalAirport"),
		Date:             date,
	}.Normalized()
	if err := usecase.ValidateCriteria(criteria, usecase.TabView); err != nil {
		return writeError(c, err, "")
	}

	records, err := h.queries.FetchFlights(c.Request().Context(), userID, usecase.TabView, criteria)
	if err != nil {
		return writeError(c, err, usecase.FallbackSearchError)
	}
	records = usecase.ApplyFilters(records, criteria)

	return c.JSON(http.StatusOK, echo.Map{
		"flights": h.views.BuildAll(c.Request().Context(), records, viewOptions(c, h.defaultFormat)),
		"count":   len(records),
	})
}

// ListSubscriptions handles GET /v1/subscriptions
func (h *FlightHandler) ListSubscriptions(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("unauthorized", "unauthorized"))
	}
	records, err := h.queries.ListSubscriptions(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err, usecase.FallbackSubscriptions)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"flights": h.views.BuildAll(c.Request().Context(), records, viewOptions(c, h.defaultFormat)),
		"count":   len(records),
	})
}

// Subscribe handles POST /v1/subscriptions
func (h *FlightHandler) Subscribe(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("unauthorized", "unauthorized"))
	}
	var body subscribeRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("validation_error", "invalid request body"))
	}

	flight := entity.FlightRecord{
		CarrierCode:            body.CarrierCode,
		FlightNumber:           body.FlightNumber,
		ScheduledDepartureDate: body.DepartureDate,
		DepartureAirport:       body.DepartureAirport,
		ArrivalAirport:         body.ArrivalAirport,
	}
	record, err := h.subscriptions.SubscribeFlight(c.Request().Context(), userID, flight)
	if err != nil {
		status, code := statusFor(err)
		return c.JSON(status, echo.Map{
			"error":   code,
			"success": false,
			"message": entity.UserMessage(err, usecase.FallbackSubscribeError),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Successfully subscribed to flight " + record.Flight.CarrierCode + record.Flight.FlightNumber,
		"subscription": record,
	})
}

// TransactionLogs handles GET /v1/tx-logs
func (h *FlightHandler) TransactionLogs(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("unauthorized", "unauthorized"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	logs, err := h.subscriptions.ListTransactionLogs(c.Request().Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to list transaction logs", "userID", userID, "error", err)
		return writeError(c, err, "Failed to load transactions")
	}
	return c.JSON(http.StatusOK, echo.Map{"logs": logs})
}
