package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/jessevdk/go-flags"
	"github.com/samber/lo"

	"github.com/cx-tal-miterani/flight-booking-client/internal/schedule"
	"github.com/cx-tal-miterani/flight-booking-client/internal/service"
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

type command struct {
	name  string
	short string
	long  string
	cmd   flags.Commander
}

func newCommands(current func() *app) []command {
	return []command{
		{"search", "Search flights", "Search flights on a route, optionally narrowed to a departure/arrival window.", &searchCommand{app: current}},
		{"flight", "Show one flight", "Look up a flight by id.", &flightCommand{app: current}},
		{"book", "Book a flight", "Create a booking for the signed-in user.", &bookCommand{app: current}},
		{"bookings", "List bookings", "List the signed-in user's bookings.", &bookingsCommand{app: current}},
		{"loyalty", "Show loyalty status", "Show the signed-in user's loyalty tier and progress.", &loyaltyCommand{app: current}},
		{"add-points", "Add loyalty points", "Credit loyalty points to the signed-in user.", &addPointsCommand{app: current}},
		{"serve", "Run the local UI bridge", "Serve the stores over HTTP with a websocket snapshot stream.", &serveCommand{app: current}},
	}
}

func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type searchCommand struct {
	From           string `long:"from" description:"departure airport code" required:"true"`
	To             string `long:"to" description:"arrival airport code" required:"true"`
	Date           string `long:"date" description:"departure date (YYYY-MM-DD)"`
	DepartureAfter string `long:"departure-after" description:"earliest departure (RFC 3339)"`
	ArrivalBefore  string `long:"arrival-before" description:"latest arrival (RFC 3339)"`
	JSON           bool   `long:"json" description:"print JSON"`

	app func() *app
}

func (c *searchCommand) Execute([]string) error {
	a := c.app()
	bounds, err := schedule.ParseBounds(c.DepartureAfter, c.ArrivalBefore)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if _, err := a.catalog.Search(ctx, service.SearchQuery{From: c.From, To: c.To, Date: c.Date}); err != nil {
		return err
	}
	flights := a.catalog.Filtered(bounds)

	if c.JSON {
		return a.printJSON(flights)
	}
	return a.printFlights(flights)
}

type flightCommand struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"true"`
	} `positional-args:"yes"`

	app func() *app
}

func (c *flightCommand) Execute([]string) error {
	a := c.app()
	ctx, cancel := commandContext()
	defer cancel()

	flight, err := a.catalog.ByID(ctx, c.Args.ID)
	if err != nil {
		return err
	}
	return a.printJSON(flight)
}

type bookCommand struct {
	FlightID     string   `long:"flight" description:"flight id" required:"true"`
	Passengers   []string `long:"passenger" description:"passenger name, repeat for each traveller" required:"true"`
	Email        string   `long:"email" description:"contact email" required:"true"`
	Phone        string   `long:"phone" description:"contact phone"`
	Name         string   `long:"name" description:"contact name"`
	PaymentToken string   `long:"payment-token" description:"payment provider token"`

	app func() *app
}

func (c *bookCommand) Execute([]string) error {
	a := c.app()
	ctx, cancel := commandContext()
	defer cancel()

	flight, err := a.catalog.ByID(ctx, c.FlightID)
	if err != nil {
		return err
	}

	booking, err := a.bookings.Create(ctx, service.CreateBookingInput{
		Flight: flight,
		Passengers: lo.Map(c.Passengers, func(name string, _ int) models.Passenger {
			return models.Passenger{Name: strings.TrimSpace(name)}
		}),
		ContactInfo:  models.ContactInfo{Email: c.Email, Phone: c.Phone, Name: c.Name},
		PaymentToken: c.PaymentToken,
	})
	if err != nil {
		return err
	}
	return a.printJSON(booking)
}

type bookingsCommand struct {
	Token string `long:"page-token" description:"continue from a pagination token"`
	All   bool   `long:"all" description:"follow pagination to the last page"`
	JSON  bool   `long:"json" description:"print JSON"`

	app func() *app
}

func (c *bookingsCommand) Execute([]string) error {
	a := c.app()
	ctx, cancel := commandContext()
	defer cancel()

	token := c.Token
	seen := map[string]bool{token: true}
	for {
		if _, err := a.bookings.FetchAll(ctx, token); err != nil {
			return err
		}
		token = a.bookings.NextToken()
		// A token the backend already handed out would page forever.
		if !c.All || token == "" || seen[token] {
			break
		}
		seen[token] = true
	}

	held := a.bookings.Snapshot().Value
	if c.JSON {
		return a.printJSON(held)
	}
	if err := a.printBookings(held.Items); err != nil {
		return err
	}
	if held.NextToken != "" {
		fmt.Fprintf(a.out, "\nMore bookings: --page-token %s\n", held.NextToken)
	}
	return nil
}

type loyaltyCommand struct {
	JSON bool `long:"json" description:"print JSON"`

	app func() *app
}

func (c *loyaltyCommand) Execute([]string) error {
	a := c.app()
	ctx, cancel := commandContext()
	defer cancel()

	loyalty, err := a.loyalty.Fetch(ctx, "")
	if err != nil {
		return err
	}
	if c.JSON {
		return a.printJSON(loyalty)
	}
	return a.printLoyalty(loyalty)
}

type addPointsCommand struct {
	Args struct {
		Points int `positional-arg-name:"points" required:"true"`
	} `positional-args:"yes"`

	app func() *app
}

func (c *addPointsCommand) Execute([]string) error {
	a := c.app()
	ctx, cancel := commandContext()
	defer cancel()

	loyalty, err := a.loyalty.AddPoints(ctx, c.Args.Points)
	if err != nil {
		return err
	}
	return a.printLoyalty(loyalty)
}

func (a *app) printFlights(flights []models.Flight) error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROUTE\tDATE\tDEPARTS\tARRIVES\tDURATION\tPRICE")
	for _, f := range flights {
		fmt.Fprintf(w, "%s\t%s-%s\t%s\t%s\t%s\t%s\t%.2f %s\n",
			f.ID, f.DepartureAirportCode, f.ArrivalAirportCode, f.DepartureDateLabel(),
			f.DepartureTimeLabel(), f.ArrivalTimeLabel(), f.DurationLabel(),
			f.TicketPrice, f.TicketCurrency)
	}
	return w.Flush()
}

func (a *app) printBookings(bookings []models.Booking) error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tFLIGHT\tROUTE\tDATE\tPASSENGERS\tTOTAL")
	for _, b := range bookings {
		f := b.OutboundFlight
		names := lo.Map(b.Passengers, func(p models.Passenger, _ int) string { return p.DisplayName() })
		fmt.Fprintf(w, "%s\t%s\t%s\t%s-%s\t%s\t%s\t%.2f %s\n",
			b.ID, b.Status, f.ID, f.DepartureAirportCode, f.ArrivalAirportCode,
			f.DepartureDateLabel(), strings.Join(names, ", "), b.TotalPrice, f.TicketCurrency)
	}
	return w.Flush()
}

func (a *app) printLoyalty(l models.Loyalty) error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Level:\t%s\n", l.FormattedLevel())
	fmt.Fprintf(w, "Points:\t%d\n", l.Points)
	if l.IsMaxTier() {
		fmt.Fprintln(w, "Remaining:\ttop tier reached")
	} else {
		fmt.Fprintf(w, "Remaining:\t%d\n", l.RemainingPoints)
	}
	fmt.Fprintf(w, "Progress:\t%d%%\n", l.Percentage)
	return w.Flush()
}
