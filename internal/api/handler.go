// Package api exposes the health book over HTTP: read-only listings of the
// current state and a single endpoint that runs command lines.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/logic"
	"github.com/healthbook/healthbook/internal/logic/command"
	"github.com/healthbook/healthbook/pkg/pagination"
)

// Handler serves the health book. The logic and model underneath are not safe
// for concurrent use, so every request holds mu.
type Handler struct {
	mu    sync.Mutex
	logic *logic.Logic
	stats func() interface{}
}

type Option func(*Handler)

// WithStats adds the value returned by fn to the health response under
// "database".
func WithStats(fn func() interface{}) Option {
	return func(h *Handler) { h.stats = fn }
}

func NewHandler(l *logic.Logic, opts ...Option) *Handler {
	h := &Handler{logic: l}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// locked runs fn holding mu, releasing it even when fn panics.
func (h *Handler) locked(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn()
}

// pageParams reads limit and offset, defaulting the limit to the page size
// in the user preferences.
func (h *Handler) pageParams(c echo.Context) pagination.Params {
	var size int
	h.locked(func() { size = h.logic.Model().UserPrefs().PageSize })
	return pagination.FromContextWithDefault(c, size)
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api/v1")
	api.GET("/persons", h.ListPersons)
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/:id", h.GetAppointment)
	api.GET("/history", h.ListHistory)
	api.POST("/commands", h.ExecuteCommand)
}

// CommandRequest is the body of POST /api/v1/commands.
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandResponse reports a successful command.
type CommandResponse struct {
	Feedback string `json:"feedback"`
	Help     string `json:"help,omitempty"`
	Exit     bool   `json:"exit,omitempty"`
}

func (h *Handler) Health(c echo.Context) error {
	var persons, appointments int
	h.locked(func() {
		persons = len(h.logic.Model().Persons())
		appointments = len(h.logic.Model().Appointments())
	})

	resp := map[string]interface{}{
		"status":       "ok",
		"persons":      persons,
		"appointments": appointments,
	}
	if h.stats != nil {
		resp["database"] = h.stats()
	}
	return c.JSON(http.StatusOK, resp)
}

// ListPersons lists every person in the book, optionally narrowed with
// ?role=patient|doctor.
func (h *Handler) ListPersons(c echo.Context) error {
	var role record.Role
	if raw := c.QueryParam("role"); raw != "" {
		r, err := record.ParseRole(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "role must be patient or doctor")
		}
		role = r
	}

	var all []record.Person
	h.locked(func() { all = h.logic.Model().Persons() })

	persons := make([]record.Person, 0, len(all))
	for _, p := range all {
		if role == 0 || p.Role == role {
			persons = append(persons, p)
		}
	}
	return c.JSON(http.StatusOK, pagination.Page(persons, h.pageParams(c)))
}

// ListAppointments lists appointments, optionally narrowed with
// ?status=upcoming|completed and ?person=<name>.
func (h *Handler) ListAppointments(c echo.Context) error {
	var status record.Status
	if raw := c.QueryParam("status"); raw != "" {
		s, err := record.ParseStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "status must be upcoming or completed")
		}
		status = s
	}
	person := strings.TrimSpace(c.QueryParam("person"))

	var all []record.Appointment
	h.locked(func() { all = h.logic.Model().Appointments() })

	appts := make([]record.Appointment, 0, len(all))
	for _, a := range all {
		if status != 0 && a.Status != status {
			continue
		}
		if person != "" && a.Patient != person && a.Doctor != person {
			continue
		}
		appts = append(appts, a)
	}
	return c.JSON(http.StatusOK, pagination.Page(appts, h.pageParams(c)))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var (
		appt record.Appointment
		ok   bool
	)
	h.locked(func() { appt, ok = h.logic.Model().HealthBook().FindAppointment(id) })

	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, command.MessageAppointmentDoesNotExist)
	}
	return c.JSON(http.StatusOK, appt)
}

// ListHistory returns the entered command lines, most recent first.
func (h *Handler) ListHistory(c echo.Context) error {
	var lines []string
	h.locked(func() { lines = h.logic.History() })

	recent := make([]string, len(lines))
	for i, line := range lines {
		recent[len(lines)-1-i] = line
	}
	return c.JSON(http.StatusOK, pagination.Page(recent, h.pageParams(c)))
}

// ExecuteCommand runs one command line. User errors answer 422 with the
// message the shell would print.
func (h *Handler) ExecuteCommand(c echo.Context) error {
	var req CommandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Command) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "command is required")
	}

	var (
		res command.Result
		err error
	)
	h.locked(func() { res, err = h.logic.Execute(req.Command) })

	if err != nil {
		if logic.IsUserError(err) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "command failed")
	}

	resp := CommandResponse{Feedback: res.Feedback, Exit: res.Exit}
	if res.ShowHelp {
		resp.Help = command.HelpText
	}
	return c.JSON(http.StatusOK, resp)
}
