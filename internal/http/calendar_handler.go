package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/availability"
)

type calendarService interface {
	WeekView(ctx context.Context, params application.WeekParams) (application.WeekView, error)
	MonthView(ctx context.Context, params application.MonthParams) (application.MonthView, error)
	Availability(booked, capacity int) (availability.Result, error)
}

type CalendarHandler struct {
	service   calendarService
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type dayDTO struct {
	Date     string           `json:"date"`
	Weekday  string           `json:"weekday"`
	Sessions []sessionViewDTO `json:"sessions"`
}

type weekResponse struct {
	StudioSlug string     `json:"studio_slug"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	Stale      bool       `json:"stale"`
	FetchedAt  *time.Time `json:"fetched_at,omitempty"`
	Days       []dayDTO   `json:"days"`
}

type monthCellDTO struct {
	Date           string           `json:"date"`
	IsCurrentMonth bool             `json:"is_current_month"`
	IsToday        bool             `json:"is_today"`
	Sessions       []sessionViewDTO `json:"sessions"`
}

type monthResponse struct {
	StudioSlug string         `json:"studio_slug"`
	Month      string         `json:"month"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Stale      bool           `json:"stale"`
	FetchedAt  *time.Time     `json:"fetched_at,omitempty"`
	Cells      []monthCellDTO `json:"cells"`
}

func fetchedAt(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (h *CalendarHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	view, err := h.service.WeekView(r.Context(), application.WeekParams{
		StudioSlug: r.PathValue("slug"),
		Date:       strings.TrimSpace(r.URL.Query().Get("date")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := weekResponse{
		StudioSlug: view.StudioSlug,
		From:       view.From,
		To:         view.To,
		Stale:      view.Stale,
		FetchedAt:  fetchedAt(view.FetchedAt),
		Days:       make([]dayDTO, 0, len(view.Days)),
	}
	for _, day := range view.Days {
		resp.Days = append(resp.Days, dayDTO{
			Date:     day.Date,
			Weekday:  strings.ToLower(day.Weekday.String()),
			Sessions: toSessionViews(day.Sessions),
		})
	}

	if view.Stale {
		handlerLogger(r.Context(), h.logger, "CalendarHandler", "Week").InfoContext(r.Context(), "serving stale week view", "studio", view.StudioSlug, "fetched_at", view.FetchedAt)
	}
	h.responder.writeTagged(r.Context(), w, r, resp)
}

func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	view, err := h.service.MonthView(r.Context(), application.MonthParams{
		StudioSlug: r.PathValue("slug"),
		Date:       strings.TrimSpace(r.URL.Query().Get("date")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := monthResponse{
		StudioSlug: view.StudioSlug,
		Month:      view.Month,
		From:       view.From,
		To:         view.To,
		Stale:      view.Stale,
		FetchedAt:  fetchedAt(view.FetchedAt),
		Cells:      make([]monthCellDTO, 0, len(view.Cells)),
	}
	for _, cell := range view.Cells {
		resp.Cells = append(resp.Cells, monthCellDTO{
			Date:           cell.Date,
			IsCurrentMonth: cell.IsCurrentMonth,
			IsToday:        cell.IsToday,
			Sessions:       toSessionViews(cell.Sessions),
		})
	}

	if view.Stale {
		handlerLogger(r.Context(), h.logger, "CalendarHandler", "Month").InfoContext(r.Context(), "serving stale month view", "studio", view.StudioSlug, "fetched_at", view.FetchedAt)
	}
	h.responder.writeTagged(r.Context(), w, r, resp)
}

func (h *CalendarHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	booked, bookedErr := strconv.Atoi(strings.TrimSpace(query.Get("booked")))
	capacity, capacityErr := strconv.Atoi(strings.TrimSpace(query.Get("capacity")))
	if bookedErr != nil || capacityErr != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidQuery)
		return
	}

	result, err := h.service.Availability(booked, capacity)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAvailabilityDTO(result))
}
