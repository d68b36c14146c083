package handler

import (
	"fmt"
	"net/http"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/usecase"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/timeutil"

	"github.com/labstack/echo/v4"
)

// SessionHandler drives view sessions: filters, search, pagination,
// selection and bulk unsubscribe
type SessionHandler struct {
	sessions      *usecase.SessionStore
	views         *usecase.FlightViewBuilder
	defaultFormat timeutil.Format
	logger        logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *usecase.SessionStore, views *usecase.FlightViewBuilder, defaultFormat timeutil.Format, logger logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:      sessions,
		views:         views,
		defaultFormat: defaultFormat,
		logger:        logger,
	}
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	usecase.ControllerState
	PageItems []usecase.FlightView `json:"pageItems"`
}

type outcomeResponse struct {
	usecase.Outcome
	Session sessionResponse `json:"session"`
}

type criteriaRequest struct {
	CarrierCode      string `json:"carrierCode"`
	FlightNumber     string `json:"flightNumber"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`
	Date             string `json:"date"`
}

func (r criteriaRequest) toCriteria() (usecase.FilterCriteria, error) {
	date, err := usecase.ParseCriteriaDate(r.Date)
	if err != nil {
		return usecase.FilterCriteria{}, err
	}
	return usecase.FilterCriteria{
		CarrierCode:      r.CarrierCode,
		FlightNumber:     r.FlightNumber,
		DepartureAirport: r.DepartureAirport,
		ArrivalAirport:   r.ArrivalAirport,
		Date:             date,
	}, nil
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(c echo.Context) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("unauthorized", "unauthorized"))
	}
	var body struct {
		Tab string `json:"tab"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("validation_error", "invalid request body"))
	}

	session := h.sessions.Create(userID, usecase.ParseTab(body.Tab))
	return c.JSON(http.StatusCreated, h.render(c, session))
}

// Get handles GET /v1/sessions/:id
func (h *SessionHandler) Get(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.render(c, session))
}

// Delete handles DELETE /v1/sessions/:id
func (h *SessionHandler) Delete(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	h.sessions.Delete(session.ID)
	return c.NoContent(http.StatusNoContent)
}

// SwitchTab handles PUT /v1/sessions/:id/tab
func (h *SessionHandler) SwitchTab(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	var body struct {
		Tab string `json:"tab"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("validation_error", "invalid request body"))
	}
	session.Controller.SwitchTab(usecase.ParseTab(body.Tab))
	return c.JSON(http.StatusOK, h.render(c, session))
}

// SetFilters handles PUT /v1/sessions/:id/filters
func (h *SessionHandler) SetFilters(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	var body criteriaRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("validation_error", "invalid request body"))
	}
	criteria, err := body.toCriteria()
	if err != nil {
		return writeError(c, err, "")
	}
	session.Controller.SetCriteria(criteria)
	return c.JSON(http.StatusOK, h.render(c, session))
}

// ClearFilters handles DELETE /v1/sessions/:id/filters
func (h *SessionHandler) ClearFilters(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	session.Controller.ClearCriteria()
	return c.JSON(http.StatusOK, h.render(c, session))
}

// Search handles POST /v1/sessions/:id/search
func (h *SessionHandler) Search(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	if err := session.Controller.Search(c.Request().Context()); err != nil {
		fallback := usecase.FallbackSearchError
		if session.Controller.Snapshot().Tab == usecase.TabUnsubscribe {
			fallback = usecase.FallbackSubscriptions
		}
		return writeError(c, err, fallback)
	}
	return c.JSON(http.StatusOK, h.render(c, session))
}

// SetPage handles PUT /v1/sessions/:id/page
func (h *SessionHandler) SetPage(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	var body struct {
		Page     int `json:"page"`
		PageSize int `json:"pageSize"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("validation_error", "invalid request body"))
	}
	if body.PageSize > 0 && body.PageSize != session.Controller.Snapshot().PageSize {
		session.Controller.SetPageSize(body.PageSize)
	}
	if body.Page > 0 {
		session.Controller.SetPage(body.Page)
	}
	return c.JSON(http.StatusOK, h.render(c, session))
}

// ToggleSelection handles POST /v1/sessions/:id/selection/toggle
func (h *SessionHandler) ToggleSelection(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&body); err != nil || body.ID == "" {
		return c.JSON(http.StatusBadRequest, errorBody("validation_error", "id is required"))
	}
	if err := session.Controller.ToggleSelection(body.ID); err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.render(c, session))
}

// SelectAll handles POST /v1/sessions/:id/selection/all
func (h *SessionHandler) SelectAll(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	var body struct {
		Checked bool `json:"checked"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("validation_error", "invalid request body"))
	}
	session.Controller.SelectAll(body.Checked)
	return c.JSON(http.StatusOK, h.render(c, session))
}

// OpenDialog handles POST /v1/sessions/:id/unsubscribe/dialog
func (h *SessionHandler) OpenDialog(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	if err := session.Controller.OpenUnsubscribeDialog(); err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.render(c, session))
}

// CancelDialog handles DELETE /v1/sessions/:id/unsubscribe/dialog
func (h *SessionHandler) CancelDialog(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	if err := session.Controller.CancelUnsubscribeDialog(); err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.render(c, session))
}

// Unsubscribe handles POST /v1/sessions/:id/unsubscribe
func (h *SessionHandler) Unsubscribe(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	outcome, err := session.Controller.ConfirmBulkUnsubscribe(c.Request().Context())
	return h.renderOutcome(c, session, outcome, err)
}

// Subscribe handles POST /v1/sessions/:id/subscribe
func (h *SessionHandler) Subscribe(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err, "")
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&body); err != nil || body.ID == "" {
		return c.JSON(http.StatusBadRequest, errorBody("validation_error", "id is required"))
	}
	outcome, err := session.Controller.Subscribe(c.Request().Context(), body.ID)
	return h.renderOutcome(c, session, outcome, err)
}

func (h *SessionHandler) renderOutcome(c echo.Context, session *usecase.Session, outcome usecase.Outcome, err error) error {
	status := http.StatusOK
	if err != nil {
		status, _ = statusFor(err)
		if !usecase.IsLocalError(err) {
			h.logger.Warn("Session action failed", "sessionID", session.ID, "error", err)
		}
	}
	return c.JSON(status, outcomeResponse{Outcome: outcome, Session: h.render(c, session)})
}

func (h *SessionHandler) session(c echo.Context) (*usecase.Session, error) {
	userID, ok := getUserID(c)
	if !ok {
		return nil, fmt.Errorf("missing user: %w", entity.ErrForbidden)
	}
	session, err := h.sessions.Get(c.Param("id"), userID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (h *SessionHandler) render(c echo.Context, session *usecase.Session) sessionResponse {
	state := session.Controller.Snapshot()
	views := h.views.BuildAll(c.Request().Context(), state.PageItems, viewOptions(c, h.defaultFormat))
	return sessionResponse{
		SessionID:       session.ID,
		ControllerState: state,
		PageItems:       views,
	}
}

// viewOptions reads the format and tz query parameters
func viewOptions(c echo.Context, defaultFormat timeutil.Format) usecase.ViewOptions {
	format := defaultFormat
	if raw := c.QueryParam("format"); raw != "" {
		format = timeutil.ParseFormat(raw)
	}
	return usecase.ViewOptions{
		Format:   format,
		Timezone: c.QueryParam("tz"),
	}
}
