package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/flight-booking-client/internal/api"
	"github.com/cx-tal-miterani/flight-booking-client/internal/config"
	"github.com/cx-tal-miterani/flight-booking-client/internal/identity"
	"github.com/cx-tal-miterani/flight-booking-client/internal/logging"
	"github.com/cx-tal-miterani/flight-booking-client/internal/metrics"
	"github.com/cx-tal-miterani/flight-booking-client/internal/service"
)

// app wires the stores to the REST client for one process
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	registry *prometheus.Registry
	session  *identity.Session
	catalog  *service.CatalogStore
	bookings *service.BookingStore
	loyalty  *service.LoyaltyStore
	out      io.Writer
}

func newApp(cfg *config.Config, log *logrus.Logger, out io.Writer) (*app, error) {
	session := identity.NewSession()
	if cfg.AccessToken != "" {
		if err := session.SignIn(cfg.AccessToken); err != nil {
			return nil, err
		}
	}
	if cfg.UserID != "" {
		session.SetUserID(cfg.UserID)
	}

	client, err := api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.APITimeout),
		api.WithRequestEditor(api.BearerToken(session.Token)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	routeMatch, err := service.ParseRouteMatch(cfg.RouteMatch)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []service.Option{
		service.WithObserver(logging.NewObserver(log)),
		service.WithObserver(metrics.NewObserver(registry)),
		service.WithIdentity(session),
		service.WithRouteMatch(routeMatch),
	}
	if cfg.StrictOrdering {
		opts = append(opts, service.WithRequestSequencing())
	}

	return &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		session:  session,
		catalog:  service.NewCatalogStore(client, opts...),
		bookings: service.NewBookingStore(client, opts...),
		loyalty:  service.NewLoyaltyStore(client, opts...),
		out:      out,
	}, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
