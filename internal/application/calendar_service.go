package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/calendar"
	"github.com/example/studio-scheduler/internal/dates"
	"github.com/example/studio-scheduler/internal/recurrence"
	"github.com/example/studio-scheduler/internal/studio"
)

const calendarServiceName = "CalendarService"

// SessionSource reads the authoritative sessions of a studio. Implementations
// return ErrNotFound for unknown studios.
type SessionSource interface {
	ListSessions(ctx context.Context, slug, from, to string) ([]studio.ClassSession, error)
}

// SnapshotStore keeps the last successful backend answer per range.
// ListRange returns ErrNotFound when the range was never stored.
type SnapshotStore interface {
	ReplaceRange(ctx context.Context, set SnapshotSet) error
	ListRange(ctx context.Context, slug, from, to string) (SnapshotSet, error)
}

// CalendarServiceConfig tunes the service.
type CalendarServiceConfig struct {
	Location             *time.Location
	PreviewWarnThreshold int
	CacheTTL             time.Duration
	CacheSize            int
}

// CalendarService builds recurrence previews and calendar views for studios.
type CalendarService struct {
	source        SessionSource
	snapshots     SnapshotStore
	engine        *recurrence.Engine
	cache         *sessionCache
	location      *time.Location
	warnThreshold int
	now           func() time.Time
	logger        *slog.Logger
}

// NewCalendarService wires dependencies for calendar operations. snapshots may be nil.
func NewCalendarService(source SessionSource, snapshots SnapshotStore, idGenerator func() string, now func() time.Time, cfg CalendarServiceConfig, logger *slog.Logger) *CalendarService {
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	threshold := cfg.PreviewWarnThreshold
	if threshold <= 0 {
		threshold = 100
	}
	return &CalendarService{
		source:        source,
		snapshots:     snapshots,
		engine:        recurrence.NewEngine(loc, idGenerator),
		cache:         newSessionCache(cfg.CacheTTL, cfg.CacheSize),
		location:      loc,
		warnThreshold: threshold,
		now:           now,
		logger:        logger,
	}
}

// Availability classifies a session's booking state.
func (s *CalendarService) Availability(booked, capacity int) (availability.Result, error) {
	vErr := &ValidationError{}
	if booked < 0 {
		vErr.add("booked", "booked count cannot be negative")
	}
	if capacity <= 0 {
		vErr.add("capacity", "capacity must be greater than zero")
	}
	if vErr.HasErrors() {
		return availability.Result{}, vErr
	}
	return availability.Classify(booked, capacity), nil
}

// WeekView returns the sessions of the week containing params.Date.
func (s *CalendarService) WeekView(ctx context.Context, params WeekParams) (WeekView, error) {
	if s == nil {
		return WeekView{}, fmt.Errorf("CalendarService is nil")
	}
	logger := s.opLogger(ctx, "WeekView", "studio", params.StudioSlug)

	reference, err := s.referenceDay(params.StudioSlug, params.Date)
	if err != nil {
		logger.WarnContext(ctx, "week view validation failed", "error_kind", ErrorKind(err), "error", err)
		return WeekView{}, err
	}

	days := calendar.WeekDates(reference)
	from, to := calendar.Range(days[0], calendar.DaysPerWeek)
	loaded, err := s.loadSessions(ctx, logger, params.StudioSlug, from, to)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load week sessions", "error_kind", ErrorKind(err), "error", err)
		return WeekView{}, err
	}

	buckets := calendar.PartitionWeek(loaded.sessions, reference)
	view := WeekView{
		StudioSlug: params.StudioSlug,
		From:       from,
		To:         to,
		Stale:      loaded.stale,
		FetchedAt:  loaded.fetchedAt,
	}
	for i, day := range days {
		view.Days[i] = DayView{
			Date:     dates.FormatLocalDate(day),
			Weekday:  day.Weekday(),
			Sessions: withAvailability(buckets[i]),
		}
	}

	logger.DebugContext(ctx, "week view built", "from", from, "to", to, "sessions", len(loaded.sessions), "stale", loaded.stale)
	return view, nil
}

// MonthView returns the six week grid of the month containing params.Date.
func (s *CalendarService) MonthView(ctx context.Context, params MonthParams) (MonthView, error) {
	if s == nil {
		return MonthView{}, fmt.Errorf("CalendarService is nil")
	}
	logger := s.opLogger(ctx, "MonthView", "studio", params.StudioSlug)

	reference, err := s.referenceDay(params.StudioSlug, params.Date)
	if err != nil {
		logger.WarnContext(ctx, "month view validation failed", "error_kind", ErrorKind(err), "error", err)
		return MonthView{}, err
	}

	from, to := calendar.Range(calendar.GridStart(reference), calendar.MonthCells)
	loaded, err := s.loadSessions(ctx, logger, params.StudioSlug, from, to)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load month sessions", "error_kind", ErrorKind(err), "error", err)
		return MonthView{}, err
	}

	cells := calendar.PartitionMonthAt(loaded.sessions, reference, s.now().In(s.location))
	view := MonthView{
		StudioSlug: params.StudioSlug,
		Month:      reference.Format("2006-01"),
		From:       from,
		To:         to,
		Cells:      make([]MonthCellView, 0, len(cells)),
		Stale:      loaded.stale,
		FetchedAt:  loaded.fetchedAt,
	}
	for _, cell := range cells {
		view.Cells = append(view.Cells, MonthCellView{
			Date:           cell.Key,
			IsCurrentMonth: cell.IsCurrentMonth,
			IsToday:        cell.IsToday,
			Sessions:       withAvailability(cell.Sessions),
		})
	}

	logger.DebugContext(ctx, "month view built", "from", from, "to", to, "sessions", len(loaded.sessions), "stale", loaded.stale)
	return view, nil
}

// referenceDay validates the slug and resolves date (default today) to a
// local midnight in the studio location.
func (s *CalendarService) referenceDay(slug, date string) (time.Time, error) {
	vErr := &ValidationError{}
	if !studio.ValidSlug(slug) {
		vErr.add("studio_slug", "studio slug must be lowercase letters, digits and hyphens")
	}

	var reference time.Time
	if strings.TrimSpace(date) == "" {
		reference = dates.StartOfDay(s.now().In(s.location))
	} else {
		parsed, err := dates.ParseLocalDate(date, s.location)
		if err != nil {
			vErr.add("date", "date must be YYYY-MM-DD")
		}
		reference = parsed
	}

	if vErr.HasErrors() {
		return time.Time{}, vErr
	}
	return reference, nil
}

type loadedSessions struct {
	sessions  []studio.ClassSession
	stale     bool
	fetchedAt time.Time
}

// loadSessions reads from the cache, then the backend, then the snapshot.
func (s *CalendarService) loadSessions(ctx context.Context, logger *slog.Logger, slug, from, to string) (loadedSessions, error) {
	key := sessionCacheKey(slug, from, to)
	if sessions, fetchedAt, ok := s.cache.Get(key); ok {
		return loadedSessions{sessions: sessions, fetchedAt: fetchedAt}, nil
	}

	sessions, err := s.source.ListSessions(ctx, slug, from, to)
	if err == nil {
		fetchedAt := s.now()
		s.cache.Store(key, sessions, fetchedAt)
		s.storeSnapshot(ctx, logger, SnapshotSet{StudioSlug: slug, From: from, To: to, FetchedAt: fetchedAt, Sessions: sessions})
		return loadedSessions{sessions: sessions, fetchedAt: fetchedAt}, nil
	}
	if errors.Is(err, ErrNotFound) {
		return loadedSessions{}, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return loadedSessions{}, ctxErr
	}

	logger.WarnContext(ctx, "backend unavailable, falling back to snapshot", "from", from, "to", to, "error", err)
	if s.snapshots == nil {
		return loadedSessions{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	snapshot, snapErr := s.snapshots.ListRange(ctx, slug, from, to)
	if snapErr != nil {
		if !errors.Is(snapErr, ErrNotFound) {
			logger.ErrorContext(ctx, "failed to read snapshot", "error", snapErr)
		}
		return loadedSessions{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return loadedSessions{sessions: snapshot.Sessions, stale: true, fetchedAt: snapshot.FetchedAt}, nil
}

func (s *CalendarService) storeSnapshot(ctx context.Context, logger *slog.Logger, set SnapshotSet) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.ReplaceRange(ctx, set); err != nil {
		logger.WarnContext(ctx, "failed to store snapshot", "from", set.From, "to", set.To, "error", err)
	}
}

func withAvailability(sessions []studio.ClassSession) []SessionView {
	out := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, SessionView{
			Session:      session,
			Availability: availability.Classify(session.BookedCount, session.MaxCapacity),
		})
	}
	return out
}
