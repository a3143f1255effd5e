package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/tripplanner/internal/budget"
	"github.com/dharmasatrya/tripplanner/internal/catalog"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/orchestrator"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

type planOptions struct {
	destination string
	origin      string
	budget      string
	currency    string
	start       string
	end         string
	travelers   int
	style       string
	interests   []string
	email       string
	salt        string
	timeout     time.Duration
	json        bool
}

func newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan an itinerary and print a summary",
		Example: `  tripplan plan --destination Dubai --budget 5000 \
    --start 2025-05-09 --end 2025-05-14 --travelers 2 \
    --style luxury --interests food,shopping,culture`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.destination, "destination", "", "Destination city, airport code or alias")
	f.StringVar(&opts.origin, "origin", "", "Origin city (defaults to New York)")
	f.StringVar(&opts.budget, "budget", "", "Total budget, e.g. 5000 or 2499.50")
	f.StringVar(&opts.currency, "currency", "USD", "Budget currency")
	f.StringVar(&opts.start, "start", "", "First day of the trip (YYYY-MM-DD)")
	f.StringVar(&opts.end, "end", "", "Last day of the trip (YYYY-MM-DD)")
	f.IntVar(&opts.travelers, "travelers", 1, "Number of travelers")
	f.StringVar(&opts.style, "style", string(models.StyleStandard), "Travel style: budget, standard or luxury")
	f.StringSliceVar(&opts.interests, "interests", nil, "Comma-separated interest tags")
	f.StringVar(&opts.email, "email", "", "Contact email recorded on the request")
	f.StringVar(&opts.salt, "salt", "", "Fixed salt for reproducible ids and booking codes")
	f.DurationVar(&opts.timeout, "timeout", 2*time.Second, "Per-catalog query timeout")
	f.BoolVar(&opts.json, "json", false, "Print the itinerary as JSON")

	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("budget")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runPlan(cmd *cobra.Command, opts *planOptions) error {
	total, err := currency.Parse(opts.budget, strings.ToUpper(opts.currency))
	if err != nil {
		return fmt.Errorf("--budget: %w", err)
	}

	req, err := models.PlanRequest{
		Destination:  opts.destination,
		Origin:       opts.origin,
		Budget:       total,
		StartDate:    opts.start,
		EndDate:      opts.end,
		Travelers:    opts.travelers,
		TravelStyle:  opts.style,
		Interests:    opts.interests,
		ContactEmail: opts.email,
	}.ToTripRequest()
	if err != nil {
		return err
	}

	snapshot, err := catalog.LoadEmbedded()
	if err != nil {
		return err
	}
	allocator, err := budget.NewAllocator(budget.DefaultPolicy(), snapshot.Currency())
	if err != nil {
		return err
	}

	config := orchestrator.DefaultConfig()
	config.CatalogTimeout = opts.timeout

	planOpts := []orchestrator.Option{orchestrator.WithLogger(commandLogger(cmd))}
	if opts.salt != "" {
		salt := opts.salt
		planOpts = append(planOpts, orchestrator.WithSalt(func() string { return salt }))
	}

	planner := orchestrator.New(catalog.NewSnapshotAdapters(snapshot, nil), allocator, config, planOpts...)
	it, err := planner.Plan(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(it)
	}
	printSummary(out, it)
	return nil
}

func printSummary(w io.Writer, it *models.Itinerary) {
	fmt.Fprintf(w, "Itinerary %s (%s)\n", it.ID, it.Status)
	fmt.Fprintf(w, "%s, %s: %s to %s, %d days, %d travelers, %s\n",
		it.Destination.City, it.Destination.Country, it.StartDate, it.EndDate,
		it.DurationDays, it.Travelers, it.Style)
	fmt.Fprintln(w)

	if f := it.OutboundFlight; f != nil {
		fmt.Fprintf(w, "Outbound  %s %s %s->%s %s  %s\n", f.CarrierCode, f.FlightNumber, f.Origin, f.Destination,
			f.DepartureTime.Format("Jan 2 15:04"), currency.Format(f.Price))
	}
	if f := it.ReturnFlight; f != nil {
		fmt.Fprintf(w, "Return    %s %s %s->%s %s  %s\n", f.CarrierCode, f.FlightNumber, f.Origin, f.Destination,
			f.DepartureTime.Format("Jan 2 15:04"), currency.Format(f.Price))
	}
	if a := it.Accommodation; a != nil {
		fmt.Fprintf(w, "Stay      %s, %d nights x %d rooms  %s\n", a.Name, a.Nights, a.Rooms, currency.Format(a.TotalPrice))
	}
	fmt.Fprintln(w)

	for _, day := range it.Days {
		fmt.Fprintf(w, "Day %d  %s  %s\n", day.DayNumber, day.Date, day.Notes)
		for _, a := range day.Activities {
			fmt.Fprintf(w, "  - %s (%s)\n", a.Name, currency.Format(a.TotalPrice))
		}
		for _, d := range day.Dining {
			fmt.Fprintf(w, "  * %s, est. %s\n", d.Name, currency.Format(d.EstimatedCost))
		}
	}
	fmt.Fprintln(w)

	if len(it.References) > 0 {
		fmt.Fprintln(w, "Booking references:")
		for _, ref := range it.References {
			fmt.Fprintf(w, "  %s  %-16s %s\n", ref.Code, ref.Category, ref.ItemName)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total %s of %s budget (dining est. %s)\n",
		currency.Format(it.TotalCost), currency.Format(it.Budget), currency.Format(it.EstimatedDiningCost))
	fmt.Fprintln(w, it.Notes)
}
