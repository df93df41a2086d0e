package testfixtures

import (
	"log/slog"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/application"
	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
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

// JobServiceDeps captures dependencies for constructing a job service.
type JobServiceDeps struct {
	Jobs        persistence.JobRepository
	Completions persistence.CompletionRepository
	Users       persistence.UserRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewJobService builds a job service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewJobService(deps JobServiceDeps) *application.JobService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewJobServiceWithLogger(
		deps.Jobs,
		deps.Completions,
		deps.Users,
		idGen,
		now,
		deps.Logger,
	)
}

// UserServiceDeps captures dependencies for constructing a user service.
type UserServiceDeps struct {
	Users        persistence.UserRepository
	HashPassword application.PasswordHasher
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewUserService builds a user service using the supplied dependencies.
func (f *ServiceFactory) NewUserService(deps UserServiceDeps) *application.UserService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewUserServiceWithLogger(
		deps.Users,
		deps.HashPassword,
		idGen,
		now,
		deps.Logger,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Users          persistence.UserRepository
	Sessions       persistence.SessionRepository
	PasswordVerify application.PasswordVerifier
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	token := deps.TokenGenerator
	if token == nil {
		token = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	ttl := deps.SessionTTL
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return application.NewAuthServiceWithLogger(
		deps.Users,
		deps.Sessions,
		deps.PasswordVerify,
		token,
		now,
		ttl,
		deps.Logger,
	)
}

// ShoppingServiceDeps captures dependencies for constructing a shopping
// service.
type ShoppingServiceDeps struct {
	Shopping    persistence.ShoppingRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewShoppingService builds a shopping service using the supplied
// dependencies.
func (f *ServiceFactory) NewShoppingService(deps ShoppingServiceDeps) *application.ShoppingService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewShoppingServiceWithLogger(
		deps.Shopping,
		idGen,
		now,
		deps.Logger,
	)
}
