package stubapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter creates the stub backend router
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)

	r.HandleFunc("/search", h.Search).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/booking", h.CreateBooking).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/loyalty", h.GetLoyalty).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/loyalty", h.AddLoyaltyPoints).Methods(http.MethodPost)

	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

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
