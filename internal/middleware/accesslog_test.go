package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/digital_wallet/internal/logging"
)

func TestAccessLogAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestID())
	app.Use(AccessLog(logging.NewWithWriter(&buf, "info")))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "nope") })

	req := httptest.NewRequest(fiber.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.Header.Get(RequestIDHeader) != "req-1" {
		t.Fatalf("expected request id to be echoed, got %q", resp.Header.Get(RequestIDHeader))
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 access records, got %d: %s", len(lines), buf.String())
	}

	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first["request_id"] != "req-1" || first["level"] != "INFO" {
		t.Fatalf("unexpected first record: %v", first)
	}
	if second["level"] != "WARN" || second["status"] != float64(fiber.StatusNotFound) {
		t.Fatalf("unexpected second record: %v", second)
	}
}
