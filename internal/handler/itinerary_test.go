package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/handler"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/notify"
	"github.com/dharmasatrya/tripplanner/internal/store"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

type mockPlanner struct {
	plan func(ctx context.Context, req models.TripRequest) (*models.Itinerary, error)
}

func (m *mockPlanner) Plan(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
	return m.plan(ctx, req)
}

type mockDestinations struct {
	list func(ctx context.Context) ([]models.Destination, error)
}

func (m *mockDestinations) List(ctx context.Context) ([]models.Destination, error) {
	return m.list(ctx)
}

type recordingPublisher struct {
	events []notify.ItineraryPlanned
	err    error
	block  bool
}

func (p *recordingPublisher) Publish(ctx context.Context, e notify.ItineraryPlanned) error {
	p.events = append(p.events, e)
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type failingStore struct{}

func (failingStore) Save(ctx context.Context, it *models.Itinerary) error {
	return errors.New("disk full")
}

func (failingStore) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	return nil, errors.New("connection reset")
}

var (
	_ handler.Planner           = (*mockPlanner)(nil)
	_ handler.DestinationLister = (*mockDestinations)(nil)
	_ notify.Publisher          = (*recordingPublisher)(nil)
	_ store.Store               = failingStore{}
)

// ---- helpers ---------------------------------------------------------------

const validBody = `{
	"destination": "Dubai",
	"budget": {"amount": "5000.00", "currency": "USD"},
	"start_date": "2025-05-09",
	"end_date": "2025-05-14",
	"travelers": 2,
	"travel_style": "luxury",
	"interests": ["food", "shopping", "culture"],
	"contact_email": "traveler@example.com"
}`

func itineraryFixture(status models.PlanStatus) *models.Itinerary {
	it := &models.Itinerary{
		ID:          "ITN0A1B2C3D",
		Status:      status,
		Destination: models.Destination{City: "Dubai", Country: "United Arab Emirates", Airport: "DXB"},
		StartDate:   models.NewDate(2025, time.May, 9),
		EndDate:     models.NewDate(2025, time.May, 14),
		Travelers:   2,
		Style:       models.StyleLuxury,
		Budget:      currency.FromMajor(5000, "USD"),
		TotalCost:   currency.FromMajor(2136, "USD"),
	}
	if status == models.StatusDegraded {
		it.Omissions = []models.Omission{{
			Category: models.CategoryAccommodation,
			Reason:   "timeout",
			Message:  "Accommodation unavailable for selected dates",
		}}
	}
	return it
}

type server struct {
	echo      *echo.Echo
	store     store.Store
	publisher *recordingPublisher
}

func newServer(p handler.Planner, s store.Store, opts ...handler.Option) *server {
	srv := &server{echo: echo.New(), store: s, publisher: &recordingPublisher{}}
	dest := &mockDestinations{list: func(ctx context.Context) ([]models.Destination, error) {
		return []models.Destination{{City: "Dubai", Airport: "DXB"}, {City: "Paris", Airport: "CDG"}}, nil
	}}
	h := handler.NewItineraryHandler(p, dest, s, srv.publisher, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	h.Register(srv.echo.Group("/api/v1"))
	srv.echo.GET("/health", handler.HealthHandler)
	return srv
}

func (s *server) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func plannerReturning(it *models.Itinerary, err error) *mockPlanner {
	return &mockPlanner{plan: func(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
		return it, err
	}}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ---- POST /api/v1/itineraries ---------------------------------------------

func TestPlan_Success(t *testing.T) {
	var got models.TripRequest
	p := &mockPlanner{plan: func(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
		got = req
		return itineraryFixture(models.StatusComplete), nil
	}}
	srv := newServer(p, store.NewMemoryStore())

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusComplete, resp.Status)
	assert.Equal(t, "ITN0A1B2C3D", resp.Itinerary.ID)
	assert.True(t, resp.Metadata.Stored)
	assert.Empty(t, resp.Metadata.OmittedCategories)

	assert.Equal(t, "Dubai", got.Destination)
	assert.Equal(t, models.StyleLuxury, got.Style)
	assert.Equal(t, []string{"culture", "food", "shopping"}, got.Interests)
	assert.Equal(t, "5000.00", got.Budget.String())

	require.Len(t, srv.publisher.events, 1)
	assert.Equal(t, "traveler@example.com", srv.publisher.events[0].ContactEmail)
	assert.Equal(t, "ITN0A1B2C3D", srv.publisher.events[0].ItineraryID)

	stored, err := srv.store.Get(context.Background(), "ITN0A1B2C3D")
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, stored.Status)
}

func TestPlan_DegradedIsStillOK(t *testing.T) {
	srv := newServer(plannerReturning(itineraryFixture(models.StatusDegraded), nil), store.NewMemoryStore())

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusDegraded, resp.Status)
	assert.Equal(t, []models.Category{models.CategoryAccommodation}, resp.Metadata.OmittedCategories)
}

func TestPlan_NoContactEmailSkipsHandOff(t *testing.T) {
	srv := newServer(plannerReturning(itineraryFixture(models.StatusComplete), nil), store.NewMemoryStore())
	body := strings.Replace(validBody, `"traveler@example.com"`, `""`, 1)

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, srv.publisher.events)
}

func TestPlan_HandOffFailureDoesNotFailRequest(t *testing.T) {
	srv := newServer(plannerReturning(itineraryFixture(models.StatusComplete), nil), store.NewMemoryStore())
	srv.publisher.err = errors.New("broker down")

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlan_SlowHandOffIsCutShort(t *testing.T) {
	srv := newServer(plannerReturning(itineraryFixture(models.StatusComplete), nil), store.NewMemoryStore(),
		handler.WithPublishTimeout(20*time.Millisecond))
	srv.publisher.block = true

	started := time.Now()
	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Less(t, time.Since(started), time.Second)
	assert.Len(t, srv.publisher.events, 1)
}

func TestPlan_DuplicateIDIsNotStoredTwice(t *testing.T) {
	s := store.NewMemoryStore()
	first := itineraryFixture(models.StatusComplete)
	first.Notes = "first traveler"
	require.NoError(t, s.Save(context.Background(), first))

	second := itineraryFixture(models.StatusComplete)
	second.Notes = "second traveler"
	srv := newServer(plannerReturning(second, nil), s)

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Metadata.Stored)

	got, err := s.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first traveler", got.Notes)
}

func TestPlan_NilStoreFallsBackToMemory(t *testing.T) {
	srv := newServer(plannerReturning(itineraryFixture(models.StatusComplete), nil), nil)

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/itineraries/ITN0A1B2C3D", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/itineraries/ITNMISSING", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlan_StorageFailureReportsNotStored(t *testing.T) {
	srv := newServer(plannerReturning(itineraryFixture(models.StatusComplete), nil), failingStore{})

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Metadata.Stored)
}

func TestPlan_MalformedBody(t *testing.T) {
	called := false
	p := &mockPlanner{plan: func(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
		called = true
		return nil, nil
	}}
	srv := newServer(p, store.NewMemoryStore())

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", `{"destination": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Error)
	assert.False(t, called)
}

func TestPlan_BadDateIsRejectedBeforePlanning(t *testing.T) {
	called := false
	p := &mockPlanner{plan: func(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
		called = true
		return nil, nil
	}}
	srv := newServer(p, store.NewMemoryStore())
	body := strings.Replace(validBody, "2025-05-14", "14/05/2025", 1)

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_date_range", decodeError(t, rec).Kind)
	assert.False(t, called)
}

func TestPlan_RejectionKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"budget", &models.InvalidBudgetError{Reason: "budget must be positive"}, "invalid_budget"},
		{"dates", &models.InvalidDateRangeError{Reason: "end date is before start date"}, "invalid_date_range"},
		{"destination", &models.UnknownDestinationError{Destination: "Atlantis"}, "unknown_destination"},
		{"travelers", models.ErrInvalidTravelers, "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(plannerReturning(nil, tt.err), store.NewMemoryStore())

			rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", validBody)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "invalid_request", body.Error)
			assert.Equal(t, tt.kind, body.Kind)
			assert.Equal(t, tt.err.Error(), body.Message)
			assert.Equal(t, http.StatusUnprocessableEntity, body.Code)
		})
	}
}

func TestPlan_InternalError(t *testing.T) {
	err := &models.ReferenceGenerationError{Category: models.CategoryActivities, Identity: "x", Attempts: 8}
	srv := newServer(plannerReturning(nil, err), store.NewMemoryStore())

	rec := srv.do(t, http.MethodPost, "/api/v1/itineraries", validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "planning_error", decodeError(t, rec).Error)
}

// ---- GET /api/v1/itineraries/:id ------------------------------------------

func TestGet_Found(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Save(context.Background(), itineraryFixture(models.StatusDegraded)))
	srv := newServer(plannerReturning(nil, nil), s)

	rec := srv.do(t, http.MethodGet, "/api/v1/itineraries/ITN0A1B2C3D", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusDegraded, resp.Status)
	assert.True(t, resp.Metadata.Stored)
	assert.Equal(t, []models.Category{models.CategoryAccommodation}, resp.Metadata.OmittedCategories)
}

func TestGet_NotFound(t *testing.T) {
	srv := newServer(plannerReturning(nil, nil), store.NewMemoryStore())

	rec := srv.do(t, http.MethodGet, "/api/v1/itineraries/ITNMISSING", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error)
}

func TestGet_StorageError(t *testing.T) {
	srv := newServer(plannerReturning(nil, nil), failingStore{})

	rec := srv.do(t, http.MethodGet, "/api/v1/itineraries/ITN0A1B2C3D", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---- GET /api/v1/destinations and /health ---------------------------------

func TestDestinations(t *testing.T) {
	srv := newServer(plannerReturning(nil, nil), store.NewMemoryStore())

	rec := srv.do(t, http.MethodGet, "/api/v1/destinations", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.DestinationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Destinations, 2)
	assert.Equal(t, "Dubai", resp.Destinations[0].City)
}

func TestHealth(t *testing.T) {
	srv := newServer(plannerReturning(nil, nil), store.NewMemoryStore())

	rec := srv.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// ---- request logging ------------------------------------------------------

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger(logger))
	e.GET("/health", handler.HealthHandler)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/health", line["uri"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.NotEmpty(t, line["request_id"])
}
