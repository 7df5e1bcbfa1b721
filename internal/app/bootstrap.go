package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"devjobs/internal/config"
	"devjobs/internal/database/migration"
	"devjobs/internal/delivery/http/handler"
	"devjobs/internal/delivery/http/middleware"
	"devjobs/internal/delivery/http/routes"
	"devjobs/internal/domain/user"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, runs migrations, seeds the admin
// account, and wires the HTTP surface. The returned cleanup closes
// infrastructure connections.
func Bootstrap(cfg config.Config, c *Container) (*App, func() error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runner := migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: c.Logger}
	if err := runner.Run(ctx, c.DB.SQLDB()); err != nil {
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	if err := seedAdmin(ctx, cfg.Admin, c); err != nil {
		return nil, nil, fmt.Errorf("admin seed: %w", err)
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	accessLog := middleware.NewAccessLogMiddleware(c.Logger)
	errMw := middleware.NewErrorMiddleware(c.Logger)
	f.Use(accessLog.Middleware())
	f.Use(errMw.Middleware())

	auth := middleware.NewAuthMiddleware(c.JWT)

	registry := routes.NewRegistry(
		handler.NewAuthHandler(c.AuthUC, auth),
		handler.NewJobsHandler(c.JobsUC, c.ApplicationsUC, auth),
		handler.NewApplicationsHandler(c.ApplicationsUC, auth),
		handler.NewAdminHandler(c.AdminUC, auth),
		handler.NewHealthHandler(c.DB, c.Cache),
	)
	registry.Register(f)

	return &App{Fiber: f, Container: c}, c.Close, nil
}

// seedAdmin creates the configured admin account once. An existing
// account with the same email is left untouched.
func seedAdmin(ctx context.Context, cfg config.AdminConfig, c *Container) error {
	email := user.NormalizeEmail(cfg.Email)
	if email == "" || cfg.Password == "" {
		return nil
	}

	if _, err := c.Users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = c.Users.Create(ctx, user.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Admin",
		LastName:     "User",
		Role:         user.RoleAdmin,
	})
	if err != nil {
		return err
	}
	c.Logger.Printf("app: seeded admin account %s", email)
	return nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
