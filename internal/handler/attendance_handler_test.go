package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/presensi-go-api/internal/config"
	"github.com/noah-isme/presensi-go-api/internal/dto"
	"github.com/noah-isme/presensi-go-api/internal/geo"
	"github.com/noah-isme/presensi-go-api/internal/handler"
	"github.com/noah-isme/presensi-go-api/internal/models"
	"github.com/noah-isme/presensi-go-api/internal/router"
	"github.com/noah-isme/presensi-go-api/internal/service"
	"github.com/noah-isme/presensi-go-api/internal/store"
)

type stubDrafting struct {
	text string
	err  error
}

func (s *stubDrafting) DraftReport(_ context.Context, _ string) (dto.AIDraftResponse, error) {
	if s.err != nil {
		return dto.AIDraftResponse{}, s.err
	}
	return dto.AIDraftResponse{Description: s.text, Model: "stub"}, nil
}

func setupAttendanceApp(t *testing.T, drafting service.DraftService) *fiber.App {
	t.Helper()

	records := store.NewMemoryStore()
	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())

	history := service.NewHistoryService(records, nil, time.Minute, logger)
	builder := service.NewBuilderService(records, geo.NewAdapter(), drafting, nil, history, nil, logger)

	app := fiber.New()
	attendanceHandler := handler.NewAttendanceHandler(builder, history, validate, logger)

	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		AttendanceHandler: attendanceHandler,
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", "u1")
			return c.Next()
		},
	})

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	recorder.Code = resp.StatusCode
	require.NoError(t, resp.Body.Close())
	return recorder
}

func decodeBody[T any](t *testing.T, app *fiber.App, method, path string, payload interface{}) (int, T) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	var data T
	if len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, &data))
	}
	return resp.StatusCode, data
}

func TestCheckInFlow(t *testing.T) {
	app := setupAttendanceApp(t, &stubDrafting{})

	status, draft := decodeBody[dto.DraftResponse](t, app, "POST", "/api/v1/attendance/drafts", nil)
	require.Equal(t, fiber.StatusCreated, status)
	require.Equal(t, service.DraftStateSelecting, draft.State)

	status, draft = decodeBody[dto.DraftResponse](t, app, "PATCH", "/api/v1/attendance/drafts/type", dto.SelectTypeRequest{Type: models.TypeCheckIn})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, service.DraftStateComposing, draft.State)

	status, record := decodeBody[models.AttendanceRecord](t, app, "POST", "/api/v1/attendance/drafts/submit", nil)
	require.Equal(t, fiber.StatusCreated, status)
	require.Equal(t, models.TypeCheckIn, record.Type)
	require.Empty(t, record.Description)
	require.False(t, record.AIGenerated)

	status, feed := decodeBody[dto.RecordListResponse](t, app, "GET", "/api/v1/attendance/records", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, 1, feed.Total)
	require.Equal(t, record.ID, feed.Records[0].ID)

	status, summary := decodeBody[dto.SummaryResponse](t, app, "GET", "/api/v1/attendance/summary", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.EqualValues(t, 1, summary.Total)
	require.True(t, summary.CheckedInToday)
}

func TestDailyReportFlowWithAIDraft(t *testing.T) {
	app := setupAttendanceApp(t, &stubDrafting{text: "Pada hari ini dilaksanakan rapat desa."})

	status, _ := decodeBody[dto.DraftResponse](t, app, "POST", "/api/v1/attendance/drafts", nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = decodeBody[dto.DraftResponse](t, app, "PATCH", "/api/v1/attendance/drafts/type", dto.SelectTypeRequest{Type: models.TypeDailyReport})
	require.Equal(t, fiber.StatusOK, status)

	// Submitting before a description exists is blocked.
	resp := doJSON(t, app, "POST", "/api/v1/attendance/drafts/submit", nil)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.Code)

	status, draft := decodeBody[dto.DraftResponse](t, app, "POST", "/api/v1/attendance/drafts/ai-draft", dto.AIDraftRequest{Notes: "rapat desa"})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "Pada hari ini dilaksanakan rapat desa.", draft.Description)
	require.True(t, draft.AIGenerated)

	status, record := decodeBody[models.AttendanceRecord](t, app, "POST", "/api/v1/attendance/drafts/submit", nil)
	require.Equal(t, fiber.StatusCreated, status)
	require.Equal(t, "Pada hari ini dilaksanakan rapat desa.", record.Description)
	require.True(t, record.AIGenerated)
}

func TestDraftEndpointsWithoutDraft(t *testing.T) {
	app := setupAttendanceApp(t, &stubDrafting{})

	resp := doJSON(t, app, "GET", "/api/v1/attendance/drafts", nil)
	require.Equal(t, fiber.StatusNotFound, resp.Code)

	resp = doJSON(t, app, "POST", "/api/v1/attendance/drafts/submit", nil)
	require.Equal(t, fiber.StatusNotFound, resp.Code)

	resp = doJSON(t, app, "DELETE", "/api/v1/attendance/drafts", nil)
	require.Equal(t, fiber.StatusNotFound, resp.Code)
}

func TestAttachLocationValidation(t *testing.T) {
	app := setupAttendanceApp(t, &stubDrafting{})

	status, _ := decodeBody[dto.DraftResponse](t, app, "POST", "/api/v1/attendance/drafts", nil)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = decodeBody[dto.DraftResponse](t, app, "PATCH", "/api/v1/attendance/drafts/type", dto.SelectTypeRequest{Type: models.TypeCheckIn})
	require.Equal(t, fiber.StatusOK, status)

	lat, lng := 123.0, 50.0
	resp := doJSON(t, app, "PATCH", "/api/v1/attendance/drafts/location", dto.AttachLocationRequest{Lat: &lat, Lng: &lng})
	require.Equal(t, fiber.StatusBadRequest, resp.Code)

	lat, lng = -7.98, 112.63
	status, draft := decodeBody[dto.DraftResponse](t, app, "PATCH", "/api/v1/attendance/drafts/location", dto.AttachLocationRequest{Lat: &lat, Lng: &lng})
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, draft.Location)
}
