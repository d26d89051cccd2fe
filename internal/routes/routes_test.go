package routes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/digital_wallet/internal/audit"
	"github.com/congo-pay/digital_wallet/internal/config"
	"github.com/congo-pay/digital_wallet/internal/ledger"
	"github.com/congo-pay/digital_wallet/internal/logging"
)

func TestSetupRequiresRedisOutsideDev(t *testing.T) {
	app := fiber.New()
	err := Setup(app, Deps{
		Cfg:    config.Config{AppEnv: "production"},
		Logger: logging.Discard(),
		Ledger: ledger.New(audit.Nop()),
	})
	if err == nil {
		t.Fatal("expected error without redis in production")
	}
}

func TestSetupServesLedgerAndHealth(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	sink := audit.NewMemorySink()
	app := fiber.New()
	err = Setup(app, Deps{
		Cfg:    config.Config{AppEnv: "production", IdempotencyTTL: time.Minute},
		Cache:  cache,
		Logger: logging.Discard(),
		Ledger: ledger.New(sink),
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/wallets/user1/deposits", strings.NewReader(`{"amount":"25.50"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "k1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected %d got %d", fiber.StatusCreated, resp.StatusCode)
	}
	if len(sink.Named(ledger.EventDepositSuccessful)) != 1 {
		t.Fatal("expected deposit to reach the audit sink")
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	var decoded struct {
		Status map[string]any `json:"status"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK || decoded.Status["redis"] != "ok" {
		t.Fatalf("unexpected health response %d %s", resp.StatusCode, body)
	}
}
