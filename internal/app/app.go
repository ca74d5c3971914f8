package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/gym-fee-tracker/config"
	"github.com/Dhoini/gym-fee-tracker/internal/api/rest"
	"github.com/Dhoini/gym-fee-tracker/internal/api/rest/handlers"
	"github.com/Dhoini/gym-fee-tracker/internal/kafka"
	"github.com/Dhoini/gym-fee-tracker/internal/kafka/producer"
	"github.com/Dhoini/gym-fee-tracker/internal/metrics"
	"github.com/Dhoini/gym-fee-tracker/internal/reminder"
	"github.com/Dhoini/gym-fee-tracker/internal/repository"
	"github.com/Dhoini/gym-fee-tracker/internal/repository/mongodb"
	"github.com/Dhoini/gym-fee-tracker/internal/repository/postgres"
	"github.com/Dhoini/gym-fee-tracker/internal/service"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// App представляет собой контейнер для всех компонентов приложения
type App struct {
	Config          *config.Config
	Logger          *logger.Logger
	Registry        *prometheus.Registry
	Store           repository.MemberRepository
	MemberService   service.MemberService
	ReminderService service.ReminderService
	Router          *gin.Engine

	roster  metrics.RosterMetrics
	closers []func() error
}

// New собирает приложение по конфигурации и открывает все соединения.
// При ошибке уже открытые соединения закрываются.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		cache, err := repository.NewRedisMemberCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, log)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, cache.Close)
		store = repository.NewCachedMemberRepository(store, cache, log)
	}
	a.Store = store

	dispatcher, err := a.openDispatcher(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	memberMetrics := metrics.NewMemberMetrics(a.Registry, log)
	a.MemberService = service.NewMemberService(store, memberMetrics, log)
	a.ReminderService = service.NewReminderService(store, dispatcher, memberMetrics, log, nil)

	if cfg.Metrics.RosterInterval > 0 {
		a.roster = metrics.NewRosterMetrics(a.Registry, store, log)
		a.roster.StartRecording(cfg.Metrics.RosterInterval)
	}

	a.Router = rest.SetupRouter(log, a.Registry, cfg, rest.Handlers{
		Members:   handlers.NewMemberHandler(a.MemberService, log),
		Reminders: handlers.NewReminderHandler(a.ReminderService, log),
	})

	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.MemberRepository, error) {
	cfg, log := a.Config, a.Logger

	switch cfg.Storage.Driver {
	case config.StorageMongo:
		client, err := mongodb.NewConnection(ctx, cfg.Storage.MongoURI, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		a.closers = append(a.closers, func() error {
			return client.Disconnect(context.Background())
		})
		coll := client.Database(cfg.Storage.MongoDatabase).Collection(cfg.Storage.MongoCollection)
		return mongodb.NewMongoMemberRepository(coll, log), nil

	case config.StoragePostgres:
		pool, err := postgres.NewConnection(ctx, cfg.Storage.PostgresDSN, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return nil, err
		}
		return postgres.NewPostgresMemberRepository(pool, log), nil

	case config.StorageMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewInMemoryMemberRepository(log), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func (a *App) openDispatcher(ctx context.Context) (reminder.Dispatcher, error) {
	cfg, log := a.Config, a.Logger

	if cfg.Reminder.Driver != config.ReminderKafka {
		return reminder.NewLogDispatcher(log), nil
	}

	kafkaConfig := kafka.NewConfig(cfg.Reminder.KafkaBrokers, cfg.Reminder.KafkaTopic)
	if cfg.Reminder.EnsureTopics {
		if err := kafka.EnsureTopics(ctx, kafkaConfig.Brokers, kafka.ReminderTopics(kafkaConfig.Topic), log); err != nil {
			return nil, fmt.Errorf("failed to ensure kafka topics: %w", err)
		}
	}

	syncProducer, err := producer.NewSyncProducer(kafkaConfig)
	if err != nil {
		return nil, err
	}

	reminderProducer := producer.NewReminderProducer(syncProducer, kafkaConfig.Topic, log)
	a.closers = append(a.closers, reminderProducer.Close)
	return reminderProducer, nil
}

// Close останавливает фоновые задачи и закрывает соединения в обратном порядке
func (a *App) Close() error {
	if a.roster != nil {
		a.roster.Stop()
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
