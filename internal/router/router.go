package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cx-tal-miterani/flight-booking-client/internal/handlers"
)

// SetupRouter creates and configures the bridge HTTP router.
// ws serves the snapshot stream; gatherer backs /metrics.
func SetupRouter(h *handlers.Handler, ws http.HandlerFunc, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(api chi.Router) {
		// Flights
		api.Get("/flights", h.SearchFlights)
		api.Get("/flights/{id}", h.GetFlight)
		api.Get("/catalog", h.GetCatalog)

		// Bookings
		api.Get("/bookings", h.ListBookings)
		api.Post("/bookings", h.CreateBooking)

		// Loyalty
		api.Get("/loyalty", h.GetLoyalty)
		api.Post("/loyalty/points", h.AddLoyaltyPoints)

		// Session
		api.Post("/session", h.SignIn)
		api.Delete("/session", h.SignOut)
	})

	// WebSocket for snapshot updates
	r.Get("/ws", ws)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/health", healthCheck)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
