package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/studio-scheduler/internal/dates"
	"github.com/example/studio-scheduler/internal/recurrence"
	"github.com/example/studio-scheduler/internal/scheduler"
	"github.com/example/studio-scheduler/internal/studio"
)

// PreviewRecurrence expands the rule into dates and, with a template, into
// preview sessions. With a studio slug the sessions are checked against the
// studio's existing classes for instructor double-bookings.
func (s *CalendarService) PreviewRecurrence(ctx context.Context, params PreviewParams) (Preview, error) {
	if s == nil {
		return Preview{}, fmt.Errorf("CalendarService is nil")
	}
	logger := s.opLogger(ctx, "PreviewRecurrence", "rule_type", string(params.Rule.Type))

	rule := params.Rule
	if rule.StartDate == "" {
		rule.StartDate = dates.FormatLocalDate(s.now().In(s.location))
	}

	vErr := &ValidationError{}
	if rule.EndDate == "" {
		vErr.add("rule.end_date", "end date is required")
	}
	if params.StudioSlug != "" {
		if !studio.ValidSlug(params.StudioSlug) {
			vErr.add("studio_slug", "studio slug must be lowercase letters, digits and hyphens")
		}
		if params.Template == nil {
			vErr.add("template", "template is required to check a studio for conflicts")
		}
	}
	if params.Template != nil {
		var tmplErr *studio.ValidationError
		if err := params.Template.Validate(); errors.As(err, &tmplErr) {
			vErr.merge("template.", tmplErr.FieldErrors)
		}
	}
	if vErr.HasErrors() {
		logger.WarnContext(ctx, "preview validation failed", "error_kind", ErrorKind(vErr), "fields", vErr.FieldErrors)
		return Preview{}, vErr
	}

	days, err := s.engine.Dates(rule)
	if err != nil {
		var ruleErr *recurrence.RuleError
		if errors.As(err, &ruleErr) {
			vErr.add("rule."+ruleErr.Field, ruleErr.Reason)
			logger.WarnContext(ctx, "preview validation failed", "error_kind", ErrorKind(vErr), "fields", vErr.FieldErrors)
			return Preview{}, vErr
		}
		return Preview{}, err
	}

	preview := Preview{
		Dates:    make([]string, 0, len(days)),
		Sessions: []studio.ClassSession{},
		Warnings: []PreviewWarning{},
	}
	for _, day := range days {
		preview.Dates = append(preview.Dates, dates.FormatLocalDate(day))
	}
	if len(preview.Dates) > s.warnThreshold {
		preview.Warnings = append(preview.Warnings, PreviewWarning{
			Code:    WarningLargeRange,
			Message: fmt.Sprintf("rule produces %d dates, more than the %d usually scheduled at once", len(preview.Dates), s.warnThreshold),
		})
	}

	if params.Template != nil {
		sessions, err := s.engine.Occurrences(rule, *params.Template)
		if err != nil {
			return Preview{}, err
		}
		preview.Sessions = sessions
	}

	if params.StudioSlug != "" && len(preview.Sessions) > 0 {
		warnings, err := s.conflictWarnings(ctx, params.StudioSlug, preview)
		if err != nil {
			logger.ErrorContext(ctx, "failed to check conflicts", "error_kind", ErrorKind(err), "error", err)
			return Preview{}, err
		}
		preview.Warnings = append(preview.Warnings, warnings...)
	}

	logger.InfoContext(ctx, "recurrence previewed", "dates", len(preview.Dates), "sessions", len(preview.Sessions), "warnings", len(preview.Warnings))
	return preview, nil
}

func (s *CalendarService) conflictWarnings(ctx context.Context, slug string, preview Preview) ([]PreviewWarning, error) {
	logger := s.opLogger(ctx, "PreviewRecurrence", "studio", slug)
	from, to := preview.Dates[0], preview.Dates[len(preview.Dates)-1]

	loaded, err := s.loadSessions(ctx, logger, slug, from, to)
	if errors.Is(err, ErrUpstreamUnavailable) {
		return []PreviewWarning{{
			Code:    WarningConflictsUnchecked,
			Message: "existing sessions could not be loaded, instructor conflicts were not checked",
		}}, nil
	}
	if err != nil {
		return nil, err
	}

	conflicts, err := scheduler.DetectConflicts(toSlots(loaded.sessions), toSlots(preview.Sessions))
	if err != nil {
		return nil, err
	}
	warnings := make([]PreviewWarning, 0, len(conflicts))
	for _, conflict := range conflicts {
		start := conflict.CandidateStart.In(s.location)
		warnings = append(warnings, PreviewWarning{
			Code:                 WarningInstructorConflict,
			Message:              fmt.Sprintf("%s already teaches at %s", conflict.Instructor, start.Format("2006-01-02 15:04")),
			Date:                 dates.FormatLocalDate(start),
			SessionID:            conflict.CandidateID,
			ConflictingSessionID: conflict.WithSessionID,
		})
	}
	if loaded.stale {
		warnings = append(warnings, PreviewWarning{
			Code:    WarningConflictsStale,
			Message: "conflicts were checked against a stored snapshot and may be out of date",
		})
	}
	return warnings, nil
}

func toSlots(sessions []studio.ClassSession) []scheduler.Slot {
	slots := make([]scheduler.Slot, 0, len(sessions))
	for _, session := range sessions {
		slots = append(slots, scheduler.Slot{
			ID:         session.ID,
			Instructor: session.InstructorName,
			Start:      session.StartTime,
			End:        session.EndTime,
		})
	}
	return slots
}
