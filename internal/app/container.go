package app

import (
	"context"
	"log"
	"time"

	"devjobs/internal/config"
	"devjobs/internal/database"
	dbpostgres "devjobs/internal/database/postgres"
	"devjobs/internal/infrastructure/cache"
	"devjobs/internal/notifier"
	"devjobs/internal/repository"
	ucadmin "devjobs/internal/usecase/admin"
	ucapps "devjobs/internal/usecase/applications"
	ucauth "devjobs/internal/usecase/auth"
	ucjobs "devjobs/internal/usecase/jobs"

	"devjobs/internal/pkg/jwt"
)

// Container wires configuration, infrastructure, and usecases.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB       database.DB
	Cache    *cache.Redis
	Notifier notifier.Notifier
	JWT      jwt.Service

	Users        repository.UserRepository
	Jobs         repository.JobRepository
	Applications repository.ApplicationRepository

	AuthUC         *ucauth.Service
	JobsUC         *ucjobs.Service
	ApplicationsUC *ucapps.Service
	AdminUC        *ucadmin.Service
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.New(cfg.Redis, logger)

	var notif notifier.Notifier = notifier.NewLogNotifier(logger)
	if cfg.Mail.Enabled {
		sesNotif, err := notifier.NewSESNotifier(ctx, cfg.Mail.AWSRegion, cfg.Mail.FromAddress)
		if err != nil {
			logger.Printf("app: SES unavailable, falling back to log notifier: %v", err)
		} else {
			notif = sesNotif
		}
	}

	tokens := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	users := repository.NewPostgresUserRepository(db)
	jobs := repository.NewPostgresJobRepository(db)
	applications := repository.NewPostgresApplicationRepository(db)

	return &Container{
		Config: cfg,
		Logger: logger,

		DB:       db,
		Cache:    redisCache,
		Notifier: notif,
		JWT:      tokens,

		Users:        users,
		Jobs:         jobs,
		Applications: applications,

		AuthUC:         ucauth.NewService(users, tokens, notif, logger),
		JobsUC:         ucjobs.NewService(jobs, users, applications, logger),
		ApplicationsUC: ucapps.NewService(applications, jobs, users, notif, logger),
		AdminUC:        ucadmin.NewService(users, jobs, applications, notif, logger),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Printf("app: closing redis: %v", err)
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
