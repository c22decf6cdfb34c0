package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/recurrence"
	"github.com/example/studio-scheduler/internal/studio"
)

const maxPreviewBody = 1 << 20

type previewService interface {
	PreviewRecurrence(ctx context.Context, params application.PreviewParams) (application.Preview, error)
}

type PreviewHandler struct {
	service   previewService
	responder responder
	logger    *slog.Logger
}

func NewPreviewHandler(service previewService, logger *slog.Logger) *PreviewHandler {
	return &PreviewHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

type ruleDTO struct {
	Type       string `json:"type"`
	DaysOfWeek []int  `json:"days_of_week"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date"`
}

type templateDTO struct {
	ClassName      string `json:"class_name"`
	InstructorName string `json:"instructor_name"`
	Level          string `json:"level"`
	Style          string `json:"style"`
	StartClock     string `json:"start_clock"`
	EndClock       string `json:"end_clock"`
	MaxCapacity    int    `json:"max_capacity"`
	DropInPrice    int64  `json:"drop_in_price"`
}

type previewRequest struct {
	Rule       ruleDTO      `json:"rule"`
	Template   *templateDTO `json:"template,omitempty"`
	StudioSlug string       `json:"studio_slug,omitempty"`
}

func (req previewRequest) toParams() application.PreviewParams {
	params := application.PreviewParams{
		Rule: recurrence.Rule{
			Type:       recurrence.Type(req.Rule.Type),
			DaysOfWeek: req.Rule.DaysOfWeek,
			StartDate:  req.Rule.StartDate,
			EndDate:    req.Rule.EndDate,
		},
		StudioSlug: req.StudioSlug,
	}
	if req.Template != nil {
		params.Template = &studio.SessionTemplate{
			ClassName:      req.Template.ClassName,
			InstructorName: req.Template.InstructorName,
			Level:          req.Template.Level,
			Style:          req.Template.Style,
			StartClock:     req.Template.StartClock,
			EndClock:       req.Template.EndClock,
			MaxCapacity:    req.Template.MaxCapacity,
			DropInPrice:    req.Template.DropInPrice,
		}
	}
	return params
}

type warningDTO struct {
	Code                 string `json:"code"`
	Message              string `json:"message"`
	Date                 string `json:"date,omitempty"`
	SessionID            string `json:"session_id,omitempty"`
	ConflictingSessionID string `json:"conflicting_session_id,omitempty"`
}

type previewResponse struct {
	Dates    []string     `json:"dates"`
	Sessions []sessionDTO `json:"sessions"`
	Warnings []warningDTO `json:"warnings"`
}

func toPreviewResponse(preview application.Preview) previewResponse {
	resp := previewResponse{
		Dates:    preview.Dates,
		Sessions: toSessionDTOs(preview.Sessions),
		Warnings: make([]warningDTO, 0, len(preview.Warnings)),
	}
	if resp.Dates == nil {
		resp.Dates = []string{}
	}
	for _, w := range preview.Warnings {
		resp.Warnings = append(resp.Warnings, warningDTO{
			Code:                 w.Code,
			Message:              w.Message,
			Date:                 w.Date,
			SessionID:            w.SessionID,
			ConflictingSessionID: w.ConflictingSessionID,
		})
	}
	return resp
}

func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req previewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreviewBody)).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	preview, err := h.service.PreviewRecurrence(r.Context(), req.toParams())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "PreviewHandler", "Preview").DebugContext(r.Context(), "preview rendered", "dates", len(preview.Dates), "warnings", len(preview.Warnings))
	h.responder.writeTagged(r.Context(), w, r, toPreviewResponse(preview))
}
