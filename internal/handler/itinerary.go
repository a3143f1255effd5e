package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/notify"
	"github.com/dharmasatrya/tripplanner/internal/store"
)

type Planner interface {
	Plan(ctx context.Context, req models.TripRequest) (*models.Itinerary, error)
}

type DestinationLister interface {
	List(ctx context.Context) ([]models.Destination, error)
}

// DefaultPublishTimeout bounds the confirmation hand-off inside a request.
const DefaultPublishTimeout = 2 * time.Second

type ItineraryHandler struct {
	planner        Planner
	destinations   DestinationLister
	store          store.Store
	publisher      notify.Publisher
	logger         *slog.Logger
	now            func() time.Time
	publishTimeout time.Duration
}

type Option func(*ItineraryHandler)

func WithPublishTimeout(d time.Duration) Option {
	return func(h *ItineraryHandler) {
		h.publishTimeout = d
	}
}

// NewItineraryHandler falls back to an in-memory store and a no-op publisher
// when s or pub is nil.
func NewItineraryHandler(p Planner, d DestinationLister, s store.Store, pub notify.Publisher, logger *slog.Logger, opts ...Option) *ItineraryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if s == nil {
		s = store.NewMemoryStore()
	}
	if pub == nil {
		pub = notify.NewNoOpPublisher()
	}
	h := &ItineraryHandler{
		planner:        p,
		destinations:   d,
		store:          s,
		publisher:      pub,
		logger:         logger,
		now:            time.Now,
		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the itinerary routes on g.
func (h *ItineraryHandler) Register(g *echo.Group) {
	g.POST("/itineraries", h.Plan)
	g.GET("/itineraries/:id", h.Get)
	g.GET("/destinations", h.Destinations)
}

func (h *ItineraryHandler) Plan(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var body models.PlanRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Kind:    "malformed_body",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	req, err := body.ToTripRequest()
	if err != nil {
		return rejectRequest(c, err)
	}

	it, err := h.planner.Plan(ctx, req)
	if errors.Is(err, models.ErrInvalidRequest) {
		return rejectRequest(c, err)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "planning failed", "destination", req.Destination, "error", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "planning_error",
			Message: "Failed to plan itinerary: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	stored := h.save(ctx, it)
	h.publish(ctx, it, req.ContactEmail)

	return c.JSON(http.StatusOK, models.PlanResponse{
		Status:    it.Status,
		Itinerary: it,
		Metadata: models.PlanMetadata{
			PlanningTimeMs:    time.Since(startTime).Milliseconds(),
			OmittedCategories: it.OmittedCategories(),
			Stored:            stored,
		},
	})
}

func (h *ItineraryHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	it, err := h.store.Get(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "itinerary " + id + " not found",
			Code:    http.StatusNotFound,
		})
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "itinerary lookup failed", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to load itinerary",
			Code:    http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, models.PlanResponse{
		Status:    it.Status,
		Itinerary: it,
		Metadata: models.PlanMetadata{
			OmittedCategories: it.OmittedCategories(),
			Stored:            true,
		},
	})
}

func (h *ItineraryHandler) Destinations(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.destinations.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "catalog_error",
			Message: "Failed to list destinations: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, models.DestinationsResponse{Destinations: list})
}

// save persists the itinerary. A storage failure does not fail the request;
// the response reports stored=false instead.
func (h *ItineraryHandler) save(ctx context.Context, it *models.Itinerary) bool {
	if err := h.store.Save(ctx, it); err != nil {
		h.logger.WarnContext(ctx, "itinerary not stored", "id", it.ID, "error", err)
		return false
	}
	return true
}

func (h *ItineraryHandler) publish(ctx context.Context, it *models.Itinerary, contactEmail string) {
	if contactEmail == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, h.publishTimeout)
	defer cancel()

	event := notify.NewItineraryPlanned(it, contactEmail, h.now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "confirmation hand-off failed", "id", it.ID, "error", err)
	}
}

func rejectRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:   "invalid_request",
		Kind:    errorKind(err),
		Message: err.Error(),
		Code:    http.StatusUnprocessableEntity,
	})
}

func errorKind(err error) string {
	var (
		budgetErr *models.InvalidBudgetError
		datesErr  *models.InvalidDateRangeError
		destErr   *models.UnknownDestinationError
	)
	switch {
	case errors.As(err, &budgetErr):
		return "invalid_budget"
	case errors.As(err, &datesErr):
		return "invalid_date_range"
	case errors.As(err, &destErr):
		return "unknown_destination"
	default:
		return "validation"
	}
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
