package testfixtures

import (
	"io"
	"log/slog"
	"time"

	"github.com/example/studio-scheduler/internal/application"
)

// ServiceFactory builds services with deterministic clocks and identifiers.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption customises a ServiceFactory.
type ServiceFactoryOption func(*ServiceFactory)

// WithClock injects a custom clock.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(f *ServiceFactory) {
		if clock != nil {
			f.Clock = clock
		}
	}
}

// WithIDGenerator injects a custom identifier generator.
func WithIDGenerator(gen *IDGenerator) ServiceFactoryOption {
	return func(f *ServiceFactory) {
		if gen != nil {
			f.IDGenerator = gen
		}
	}
}

// NewServiceFactory sets up a factory starting at ReferenceTime.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(ReferenceTime()),
		IDGenerator: NewIDGenerator("preview"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	return factory
}

// CalendarServiceDeps overrides the collaborators of a calendar service.
// Nil fields receive in-memory fakes.
type CalendarServiceDeps struct {
	Source    application.SessionSource
	Snapshots application.SnapshotStore
	Config    application.CalendarServiceConfig
	Logger    *slog.Logger
}

// NewCalendarService constructs a calendar service in StudioLocation.
func (f *ServiceFactory) NewCalendarService(deps CalendarServiceDeps) *application.CalendarService {
	if deps.Source == nil {
		deps.Source = NewSessionSource()
	}
	if deps.Snapshots == nil {
		deps.Snapshots = NewSnapshotStore()
	}
	if deps.Config.Location == nil {
		deps.Config.Location = StudioLocation()
	}
	if deps.Config.CacheTTL == 0 {
		deps.Config.CacheTTL = time.Minute
	}
	if deps.Logger == nil {
		deps.Logger = DiscardLogger()
	}
	return application.NewCalendarService(deps.Source, deps.Snapshots, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), deps.Config, deps.Logger)
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
