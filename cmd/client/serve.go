package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cx-tal-miterani/flight-booking-client/internal/handlers"
	"github.com/cx-tal-miterani/flight-booking-client/internal/router"
	"github.com/cx-tal-miterani/flight-booking-client/internal/service"
	"github.com/cx-tal-miterani/flight-booking-client/internal/websocket"
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

const shutdownTimeout = 30 * time.Second

type serveCommand struct {
	Port string `long:"port" description:"bridge listen port (BRIDGE_PORT)"`

	app func() *app
}

func (c *serveCommand) Execute([]string) error {
	a := c.app()
	port := a.cfg.BridgePort
	if c.Port != "" {
		port = c.Port
	}

	ctx, cancel := commandContext()
	defer cancel()

	return a.serve(ctx, ":"+port, nil)
}

// serve runs the bridge until ctx is done. ready, when set, receives the
// bound address once the listener is open.
func (a *app) serve(ctx context.Context, addr string, ready chan<- string) error {
	hub := websocket.NewHub(a.log.WithField("component", "websocket"))
	unsubscribe := a.publishSnapshots(hub)
	defer unsubscribe()

	h := handlers.NewHandler(a.catalog, a.bookings, a.loyalty, a.session, a.log.WithField("component", "bridge"))

	srv := &http.Server{
		Handler:      router.SetupRouter(h, hub.ServeWS, a.registry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if ready != nil {
		ready <- ln.Addr().String()
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		a.log.WithField("addr", ln.Addr().String()).Info("Bridge server starting")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("Shutting down bridge server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// publishSnapshots pushes every store change to the hub and returns a
// func that stops it.
func (a *app) publishSnapshots(hub *websocket.Hub) func() {
	hub.Publish(websocket.TopicCatalog, a.catalog.Loading(), a.catalog.Snapshot().Value)
	hub.Publish(websocket.TopicBookings, a.bookings.Loading(), a.bookings.Snapshot().Value)
	hub.Publish(websocket.TopicLoyalty, a.loyalty.Loading(), a.loyalty.Snapshot().Value)

	cancels := []func(){
		a.catalog.Subscribe(func(s service.Snapshot[service.Catalog]) {
			hub.Publish(websocket.TopicCatalog, s.Loading, s.Value)
		}),
		a.bookings.Subscribe(func(s service.Snapshot[service.Bookings]) {
			hub.Publish(websocket.TopicBookings, s.Loading, s.Value)
		}),
		a.loyalty.Subscribe(func(s service.Snapshot[models.Loyalty]) {
			hub.Publish(websocket.TopicLoyalty, s.Loading, s.Value)
		}),
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
