// Package orchestrator turns a trip request into an itinerary. Catalog
// queries run concurrently; a failing catalog degrades the result instead of
// aborting it.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/tripplanner/internal/budget"
	"github.com/dharmasatrya/tripplanner/internal/catalog"
	"github.com/dharmasatrya/tripplanner/internal/dayplan"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
	"github.com/dharmasatrya/tripplanner/internal/reference"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

type State string

const (
	StateAllocating  State = "allocating"
	StateQuerying    State = "querying_catalogs"
	StateAssembling  State = "assembling"
	StateReferencing State = "referencing"
	StateAggregating State = "aggregating"
	StateComplete    State = "complete"
	StateDegraded    State = "degraded"
)

type Config struct {
	CatalogTimeout    time.Duration
	MaxRetries        int
	RetryDelays       []time.Duration
	RateLimiter       *ratelimit.CatalogLimiter
	DefaultOrigin     string
	ReferenceAttempts int
}

func DefaultConfig() Config {
	return Config{
		CatalogTimeout: 2 * time.Second,
		MaxRetries:     2,
		RetryDelays: []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
		},
		DefaultOrigin:     "New York",
		ReferenceAttempts: reference.DefaultMaxAttempts,
	}
}

// SaltFunc supplies the per-request salt behind the itinerary id and booking
// codes. Fixing it makes planning reproducible.
type SaltFunc func() string

type Orchestrator struct {
	adapters  catalog.Adapters
	allocator *budget.Allocator
	config    Config
	logger    *slog.Logger
	metrics   *Metrics
	salt      SaltFunc
	hash      reference.HashFunc
}

type Option func(*Orchestrator)

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithSalt(f SaltFunc) Option {
	return func(o *Orchestrator) {
		o.salt = f
	}
}

func WithReferenceHash(h reference.HashFunc) Option {
	return func(o *Orchestrator) {
		o.hash = h
	}
}

func New(adapters catalog.Adapters, allocator *budget.Allocator, config Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		adapters:  adapters,
		allocator: allocator,
		config:    config,
		logger:    slog.Default(),
		salt:      uuid.NewString,
		hash:      reference.SHA256,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Plan produces an itinerary or an error. Errors matching
// models.ErrInvalidRequest are raised before any catalog is queried. Catalog
// failures never surface as errors; they show up as omissions on a degraded
// itinerary.
func (o *Orchestrator) Plan(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
	started := time.Now()

	it, err := o.plan(ctx, req.Normalized())

	outcome := "error"
	switch {
	case err == nil && it.Degraded():
		outcome = string(models.StatusDegraded)
	case err == nil:
		outcome = string(models.StatusComplete)
	case errors.Is(err, models.ErrInvalidRequest):
		outcome = "rejected"
	}
	o.metrics.observePlan(outcome, time.Since(started))

	return it, err
}

type run struct {
	o      *Orchestrator
	logger *slog.Logger
}

func (r *run) enter(s State) {
	r.o.metrics.observeTransition(s)
	r.logger.Debug("planner state changed", "state", s)
}

func (o *Orchestrator) plan(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
	salt := o.salt()
	id := reference.ItineraryID(salt)
	r := &run{o: o, logger: o.logger.With("itinerary_id", id)}

	r.enter(StateAllocating)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ceilings, err := o.allocator.Allocate(req.Budget, req.Style, req.DurationDays())
	if err != nil {
		return nil, err
	}

	dest, err := o.adapters.Destinations.Resolve(ctx, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}
	originName := req.Origin
	if originName == "" {
		originName = o.config.DefaultOrigin
	}
	origin, err := o.adapters.Destinations.Resolve(ctx, originName)
	if err != nil {
		return nil, fmt.Errorf("resolve origin: %w", err)
	}

	r.enter(StateQuerying)
	results := o.queryCatalogs(ctx, r, req, origin, dest, ceilings)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("planning cancelled: %w", err)
	}

	var omissions []models.Omission
	for _, category := range models.CanonicalOrder {
		failure, failed := results.failures[category]
		if !failed {
			continue
		}
		reason := "unavailable"
		if failure.Timeout() {
			reason = "timeout"
		}
		omissions = append(omissions, models.Omission{
			Category: category,
			Reason:   reason,
			Message:  omissionMessage(category),
		})
	}
	if len(omissions) > 0 {
		r.enter(StateDegraded)
	}

	outbound := first(results.outbound)
	inbound := first(results.inbound)
	lodging := first(results.lodging)

	r.enter(StateAssembling)
	plan := dayplan.Assemble(dayplan.Input{
		City:       dest.City,
		Dates:      req.Dates(),
		Interests:  req.Interests,
		Activities: results.activities,
		Dining:     results.dining,
		Ceiling:    ceilings.ActivitiesAndDining,
	})

	r.enter(StateReferencing)
	refs, err := o.issueReferences(salt, outbound, inbound, lodging, plan.Days)
	if err != nil {
		return nil, fmt.Errorf("issue references: %w", err)
	}

	r.enter(StateAggregating)
	code := req.Budget.Currency()
	parts := []currency.Money{plan.ActivitiesCost}
	if outbound != nil {
		parts = append(parts, outbound.Price)
	}
	if inbound != nil {
		parts = append(parts, inbound.Price)
	}
	if lodging != nil {
		parts = append(parts, lodging.TotalPrice)
	}
	total, err := currency.Sum(code, parts...)
	if err != nil {
		return nil, fmt.Errorf("aggregate total cost: %w", err)
	}
	if !total.LessOrEqual(req.Budget) {
		return nil, fmt.Errorf("total cost %s exceeds budget %s", total, req.Budget)
	}

	it := &models.Itinerary{
		ID:                  id,
		Status:              models.StatusComplete,
		Destination:         dest,
		Origin:              origin,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		DurationDays:        req.DurationDays(),
		Travelers:           req.Travelers,
		Style:               req.Style,
		Interests:           req.Interests,
		Budget:              req.Budget,
		TotalCost:           total,
		EstimatedDiningCost: plan.DiningCost,
		OutboundFlight:      outbound,
		ReturnFlight:        inbound,
		Accommodation:       lodging,
		Days:                plan.Days,
		References:          refs,
		Omissions:           omissions,
		Notes:               buildNotes(req, dest, omissions, results.empty(req.Nights())),
	}

	if len(omissions) > 0 {
		it.Status = models.StatusDegraded
	} else {
		r.enter(StateComplete)
	}

	r.logger.Info("itinerary planned",
		"status", it.Status,
		"destination", dest.City,
		"days", it.DurationDays,
		"total_cost", total.String(),
		"omitted", len(omissions),
	)
	return it, nil
}

type catalogResults struct {
	outbound   []models.FlightOption
	inbound    []models.FlightOption
	lodging    []models.AccommodationOption
	activities []models.Activity
	dining     []models.DiningRecommendation
	failures   map[models.Category]*models.CatalogUnavailableError
}

// empty lists sections that answered with no inventory.
func (res *catalogResults) empty(nights int) []models.Category {
	var out []models.Category
	check := func(category models.Category, n int) {
		if _, failed := res.failures[category]; !failed && n == 0 {
			out = append(out, category)
		}
	}
	check(models.CategoryOutboundFlight, len(res.outbound))
	check(models.CategoryReturnFlight, len(res.inbound))
	if nights > 0 {
		check(models.CategoryAccommodation, len(res.lodging))
	}
	check(models.CategoryActivities, len(res.activities))
	check(models.CategoryDining, len(res.dining))
	return out
}

type queryOutcome struct {
	category models.Category
	apply    func(*catalogResults)
	err      *models.CatalogUnavailableError
}

func (o *Orchestrator) queryCatalogs(ctx context.Context, r *run, req models.TripRequest, origin, dest models.Destination, ceilings budget.Ceilings) *catalogResults {
	perFlight := ceilings.PerFlight()

	tasks := []func() queryOutcome{
		func() queryOutcome {
			return runQuery(ctx, o, r.logger, o.adapters.Flights, catalog.Constraints{
				Category:    models.CategoryOutboundFlight,
				Origin:      origin,
				Destination: dest,
				Start:       req.StartDate,
				PartySize:   req.Travelers,
				Ceiling:     perFlight,
			}, func(res *catalogResults, items []models.FlightOption) { res.outbound = items })
		},
		func() queryOutcome {
			return runQuery(ctx, o, r.logger, o.adapters.Flights, catalog.Constraints{
				Category:    models.CategoryReturnFlight,
				Origin:      dest,
				Destination: origin,
				Start:       req.EndDate,
				PartySize:   req.Travelers,
				Ceiling:     perFlight,
			}, func(res *catalogResults, items []models.FlightOption) { res.inbound = items })
		},
		func() queryOutcome {
			return runQuery(ctx, o, r.logger, o.adapters.Activities, catalog.Constraints{
				Category:    models.CategoryActivities,
				Destination: dest,
				Start:       req.StartDate,
				End:         req.EndDate,
				PartySize:   req.Travelers,
				Ceiling:     ceilings.ActivitiesAndDining,
				Interests:   req.Interests,
			}, func(res *catalogResults, items []models.Activity) { res.activities = items })
		},
		func() queryOutcome {
			return runQuery(ctx, o, r.logger, o.adapters.Dining, catalog.Constraints{
				Category:    models.CategoryDining,
				Destination: dest,
				Start:       req.StartDate,
				End:         req.EndDate,
				PartySize:   req.Travelers,
				Ceiling:     ceilings.ActivitiesAndDining,
				Interests:   req.Interests,
			}, func(res *catalogResults, items []models.DiningRecommendation) { res.dining = items })
		},
	}

	// A same-day trip needs no lodging.
	if req.Nights() > 0 {
		tasks = append(tasks, func() queryOutcome {
			return runQuery(ctx, o, r.logger, o.adapters.Lodging, catalog.Constraints{
				Category:    models.CategoryAccommodation,
				Destination: dest,
				Start:       req.StartDate,
				End:         req.EndDate,
				PartySize:   req.Travelers,
				Rooms:       req.Rooms(),
				Ceiling:     ceilings.Accommodation,
			}, func(res *catalogResults, items []models.AccommodationOption) { res.lodging = items })
		})
	}

	resultCh := make(chan queryOutcome, len(tasks))
	var wg sync.WaitGroup

	for _, task := range tasks {
		wg.Add(1)
		go func(query func() queryOutcome) {
			defer wg.Done()
			resultCh <- query()
		}(task)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Outcomes arrive in completion order; callers read them by category.
	res := &catalogResults{failures: make(map[models.Category]*models.CatalogUnavailableError)}
	for out := range resultCh {
		if out.err != nil {
			r.logger.Warn("catalog unavailable, omitting section", "category", out.category, "error", out.err)
			res.failures[out.category] = out.err
			continue
		}
		out.apply(res)
	}
	return res
}

func runQuery[T any](ctx context.Context, o *Orchestrator, logger *slog.Logger, adapter catalog.Adapter[T], c catalog.Constraints, set func(*catalogResults, []T)) queryOutcome {
	started := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, o.config.CatalogTimeout)
	defer cancel()

	items, err := search(callCtx, o.config, logger, adapter, c)
	if err != nil {
		unavailable := asUnavailable(c.Category, err)
		result := "unavailable"
		if unavailable.Timeout() {
			result = "timeout"
		}
		o.metrics.observeCatalog(c.Category, result, time.Since(started))
		return queryOutcome{category: c.Category, err: unavailable}
	}

	o.metrics.observeCatalog(c.Category, "ok", time.Since(started))
	return queryOutcome{
		category: c.Category,
		apply:    func(res *catalogResults) { set(res, items) },
	}
}

func asUnavailable(category models.Category, err error) *models.CatalogUnavailableError {
	var unavailable *models.CatalogUnavailableError
	if errors.As(err, &unavailable) {
		return unavailable
	}
	return models.NewCatalogUnavailableError(category, err)
}

func first[T any](items []T) *T {
	if len(items) == 0 {
		return nil
	}
	chosen := items[0]
	return &chosen
}

func (o *Orchestrator) issueReferences(salt string, outbound, inbound *models.FlightOption, lodging *models.AccommodationOption, days []models.DayPlan) ([]models.BookingReference, error) {
	gen := reference.New(salt,
		reference.WithHash(o.hash),
		reference.WithMaxAttempts(o.config.ReferenceAttempts),
	)
	refs := make([]models.BookingReference, 0)

	add := func(category models.Category, identity, itemID, name string, date models.Date, amount currency.Money) error {
		code, err := gen.Generate(category, identity)
		if err != nil {
			return err
		}
		d := date
		refs = append(refs, models.BookingReference{
			Category: category,
			ItemID:   itemID,
			ItemName: name,
			Date:     &d,
			Code:     code,
			Status:   models.ReferenceConfirmed,
			Amount:   amount,
		})
		return nil
	}

	if outbound != nil {
		name := outbound.Carrier + " " + outbound.FlightNumber
		if err := add(models.CategoryOutboundFlight, outbound.ID, outbound.ID, name, models.DateOf(outbound.DepartureTime), outbound.Price); err != nil {
			return nil, err
		}
	}
	if inbound != nil {
		name := inbound.Carrier + " " + inbound.FlightNumber
		if err := add(models.CategoryReturnFlight, inbound.ID, inbound.ID, name, models.DateOf(inbound.DepartureTime), inbound.Price); err != nil {
			return nil, err
		}
	}
	if lodging != nil {
		if err := add(models.CategoryAccommodation, lodging.ID, lodging.ID, lodging.Name, lodging.CheckIn, lodging.TotalPrice); err != nil {
			return nil, err
		}
	}
	for _, day := range days {
		for _, act := range day.Activities {
			identity := act.ID + "@" + day.Date.String()
			if err := add(models.CategoryActivities, identity, act.ID, act.Name, day.Date, act.TotalPrice); err != nil {
				return nil, err
			}
		}
	}

	return refs, nil
}
