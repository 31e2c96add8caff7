package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/visit-scheduler/internal/application"
	"github.com/example/visit-scheduler/internal/persistence/memory"
)

// ServiceFactory assists tests with constructing application services
// using deterministic identifiers, clocks and an in-memory store.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Store       *memory.Store
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Store:       memory.NewStore(),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Store == nil {
		factory.Store = memory.NewStore()
	}
	factory.Store.SetNow(factory.Clock.NowFunc())
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithStore overrides the backing in-memory store.
func WithStore(store *memory.Store) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Store = store
	}
}

// WithLogger sets the logger injected into constructed services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// BookingService constructs a booking service bound to the factory store.
func (f *ServiceFactory) BookingService() *application.BookingService {
	return application.NewBookingServiceWithLogger(
		f.Store, f.Store, f.Store, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}

// CatalogService constructs a catalog service bound to the factory store.
func (f *ServiceFactory) CatalogService() *application.CatalogService {
	return application.NewCatalogServiceWithLogger(
		f.Store, f.Store, f.Store, 0, f.Clock.NowFunc(), f.Logger)
}
