package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	apimodels "labstock-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestErrNotify(t *testing.T) {
	received := make(chan errNotifyPayload, 2)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload errNotifyPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			received <- payload
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	app := fiber.New()
	app.Use(ErrNotify(hook.URL))
	app.Get("/equipment/:id", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("internal server error, please try again later"))
	})
	app.Get("/labs", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("lab not found"))
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/labs", nil))
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodGet, "/equipment/42", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-1")
	_, err = app.Test(req)
	require.NoError(t, err)

	select {
	case payload := <-received:
		require.Equal(t, "labstock", payload.Service)
		require.Equal(t, fiber.StatusInternalServerError, payload.Code)
		require.Equal(t, "/equipment/:id", payload.Path)
		require.Equal(t, "req-1", payload.RequestID)
		require.Equal(t, "internal server error, please try again later", payload.Error)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not called")
	}
	select {
	case payload := <-received:
		t.Fatalf("unexpected notification for status %d", payload.Code)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestErrNotifyPayloadSurvivesNextRequest(t *testing.T) {
	const pairs = 20
	received := make(chan errNotifyPayload, pairs)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload errNotifyPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			received <- payload
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	app := fiber.New()
	app.Use(ErrNotify(hook.URL))
	app.Delete("/equipment/:id", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("db down"))
	})
	app.Get("/labs/:id", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
	})

	for n := 0; n < pairs; n++ {
		req := httptest.NewRequest(fiber.MethodDelete, "/equipment/"+strconv.Itoa(n), nil)
		req.Header.Set(fiber.HeaderXRequestID, "del-"+strconv.Itoa(n))
		_, err := app.Test(req)
		require.NoError(t, err)

		req = httptest.NewRequest(fiber.MethodGet, "/labs/zzzzzzzzzzzzzzzz", nil)
		req.Header.Set(fiber.HeaderXRequestID, "zzzzzzzzzzzzzzzz")
		_, err = app.Test(req)
		require.NoError(t, err)
	}

	ids := make(map[string]bool, pairs)
	for n := 0; n < pairs; n++ {
		select {
		case payload := <-received:
			require.Equal(t, fiber.MethodDelete, payload.Method)
			require.Equal(t, "/equipment/:id", payload.Path)
			require.Equal(t, "db down", payload.Error)
			ids[payload.RequestID] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("webhook got %d of %d notifications", n, pairs)
		}
	}
	for n := 0; n < pairs; n++ {
		require.True(t, ids["del-"+strconv.Itoa(n)], "notification for del-%d is missing", n)
	}
}

func TestResponseMessage(t *testing.T) {
	require.Equal(t, "db down", responseMessage([]byte(`{"status":"fail","message":"db down"}`)))
	require.Equal(t, "plain text", responseMessage([]byte("plain text")))
}
