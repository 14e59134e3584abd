package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-diary/internal/application"
	"github.com/oksasatya/go-ddd-diary/internal/container"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/cache"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/metrics"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/oauth"
	pginfra "github.com/oksasatya/go-ddd-diary/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/quotes"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/storage"
	handlers "github.com/oksasatya/go-ddd-diary/internal/interface/http"
	"github.com/oksasatya/go-ddd-diary/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-diary/internal/router/modules"
)

// OAuthStateTTL bounds how long a Google consent round trip may take.
const OAuthStateTTL = 10 * time.Minute

// Stores groups the credential store and the resource stores.
type Stores struct {
	Users        repository.UserRepository
	Diary        repository.DiaryRepository
	Personal     repository.PersonalRepository
	Professional repository.ProfessionalRepository
	Schedule     repository.ScheduleRepository
	Reminders    repository.ReminderRepository
}

// BuildStores returns Postgres stores when a pool is registered, in-memory ones otherwise.
func BuildStores() Stores {
	if pool := container.GetPGPool(); pool != nil {
		return Stores{
			Users:        pginfra.NewUserRepository(pool),
			Diary:        pginfra.NewDiaryRepository(pool),
			Personal:     pginfra.NewPersonalRepository(pool),
			Professional: pginfra.NewProfessionalRepository(pool),
			Schedule:     pginfra.NewScheduleRepository(pool),
			Reminders:    pginfra.NewReminderRepository(pool),
		}
	}
	return Stores{
		Users:        memory.NewUserStore(),
		Diary:        memory.NewDiaryStore(),
		Personal:     memory.NewPersonalStore(),
		Professional: memory.NewProfessionalStore(),
		Schedule:     memory.NewScheduleStore(),
		Reminders:    memory.NewReminderStore(),
	}
}

// Services are the application services behind the HTTP modules. main also
// uses Reminders for the scheduled job.
type Services struct {
	Auth         *application.AuthService
	OAuth        *application.OAuthFlow
	Diary        *application.DiaryService
	Personal     *application.EntryService[*entity.PersonalEntry]
	Professional *application.EntryService[*entity.ProfessionalEntry]
	Schedule     *application.EntryService[*entity.ScheduleItem]
	Reminders    *application.ReminderService
	Quotes       *application.QuoteService
}

// BuildServices wires services from the container singletons. Optional
// backends that are not registered fall back to in-process versions or are
// left out.
func BuildServices(st Stores) *Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	collector := container.GetMetrics()

	auth := application.NewAuthService(st.Users, container.GetTokens(), logger)

	var states application.StateStore = cache.NewMemoryStates(OAuthStateTTL)
	var quoteStore application.QuoteStore = cache.NewMemoryQuotes()
	if rdb != nil {
		states = cache.NewRedisStates(rdb, OAuthStateTTL)
		quoteStore = cache.NewRedisQuotes(rdb)
	}
	flow := &application.OAuthFlow{
		Provider: oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}),
		States:      states,
		Auth:        auth,
		ClientURL:   cfg.ClientURL,
		SuccessPath: cfg.OAuthSuccessPath,
		Logger:      logger,
	}

	var index application.DiarySearcher
	if es := container.GetES(); es != nil {
		index = search.NewDiaryIndex(es, cfg.ESDiaryIndex, logger)
	}
	diary := application.NewDiaryService(st.Diary, index, logger)
	if collector != nil {
		diary.Failures = collector
	}

	personal := application.NewEntryService[*entity.PersonalEntry]("personal", st.Personal, logger)
	professional := application.NewEntryService[*entity.ProfessionalEntry]("professional", st.Professional, logger)
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		images := storage.NewGCSImages(gcs, cfg.GCSBucket)
		personal.Images, professional.Images = images, images
	}

	reminders := application.NewReminderService(st.Users, st.Diary, st.Reminders, logger)
	reminders.MailEnabled = cfg.MailSendEnabled
	if pub := container.GetRabbitPub(); pub != nil {
		reminders.Jobs = pub
	}
	if collector != nil {
		reminders.Metrics = collector
	}

	return &Services{
		Auth:         auth,
		OAuth:        flow,
		Diary:        diary,
		Personal:     personal,
		Professional: professional,
		Schedule:     application.NewEntryService[*entity.ScheduleItem]("schedule", st.Schedule, logger),
		Reminders:    reminders,
		Quotes:       application.NewQuoteService(quotes.NewClient(cfg.QuotesAPIURL), quoteStore, logger),
	}
}

// EnsureSearchIndex creates the diary index when search is enabled.
func EnsureSearchIndex(ctx context.Context) error {
	es := container.GetES()
	if es == nil {
		return nil
	}
	return search.NewDiaryIndex(es, container.GetConfig().ESDiaryIndex, container.GetLogger()).EnsureIndex(ctx)
}

func gate() gin.HandlerFunc {
	if c := container.GetMetrics(); c != nil {
		return middleware.Authenticate(container.GetTokens(), c)
	}
	return middleware.Authenticate(container.GetTokens(), nil)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, svc *Services) {
	auth := gate()
	logger := container.GetLogger()

	r.Add(modules.NewPublicModule(handlers.NewQuoteHandler(svc.Quotes)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, svc.OAuth, logger), auth))
	r.Add(modules.NewDiaryModule(handlers.NewDiaryHandler(svc.Diary), auth))
	r.Add(modules.NewEntryModule("/personal",
		handlers.NewEntryHandler(svc.Personal, func() *entity.PersonalEntry { return &entity.PersonalEntry{} }), auth))
	r.Add(modules.NewEntryModule("/professional-diary",
		handlers.NewEntryHandler(svc.Professional, func() *entity.ProfessionalEntry { return &entity.ProfessionalEntry{} }), auth))
	r.Add(modules.NewScheduleModule(handlers.NewScheduleHandler(svc.Schedule), auth))
	r.Add(modules.NewReminderModule(handlers.NewReminderHandler(svc.Reminders), auth))

	if cfg := container.GetConfig(); cfg.MetricsEnabled {
		if reg := container.GetMetricsRegistry(); reg != nil {
			r.Add(modules.NewMetricsModule(metrics.Handler(reg)))
		}
	}
}
