package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"testing"

	"devjobs/internal/config"
	"devjobs/internal/database"
	"devjobs/internal/infrastructure/cache"

	"github.com/gofiber/fiber/v3"
)

type fakeDB struct {
	pingErr error
}

func (d *fakeDB) Ping(context.Context) error { return d.pingErr }
func (d *fakeDB) Close() error               { return nil }

func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("not implemented")
}

func (d *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDB) QueryRow(context.Context, string, ...any) database.Row { return nil }

func (d *fakeDB) Begin(context.Context) (database.Tx, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDB) SQLDB() *sql.DB { return nil }

func healthApp(db *fakeDB) *fiber.App {
	app := fiber.New()
	c := cache.New(config.RedisConfig{}, log.New(io.Discard, "", 0))
	NewHealthHandler(db, c).RegisterRoutes(app.Group("/api/health"))
	return app
}

func TestHealth_OK(t *testing.T) {
	app := healthApp(&fakeDB{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status  int            `json:"status"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data["status"] != "healthy" || body.Data["database"] != "connected" {
		t.Fatalf("body = %+v", body.Data)
	}
	if body.Data["redis"] != cache.StatusNotConfigured {
		t.Fatalf("redis = %v, want %q", body.Data["redis"], cache.StatusNotConfigured)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	app := healthApp(&fakeDB{pingErr: errors.New("connection refused")})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	var body struct {
		Status  int            `json:"status"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != fiber.StatusInternalServerError || body.Message == "ok" {
		t.Fatalf("envelope = %d %q, want an error envelope", body.Status, body.Message)
	}
	if body.Data["status"] != "unhealthy" || body.Data["database"] != "disconnected" {
		t.Fatalf("body = %+v", body.Data)
	}
}
