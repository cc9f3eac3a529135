package api

import (
	"net/http"

	"express-ledger-service/internal/api/handlers"
	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/metrics"
	"express-ledger-service/internal/ports"
	"express-ledger-service/internal/services"
)

// Deps are the collaborators the HTTP layer needs. Metrics and Pinger may be nil.
type Deps struct {
	Express *services.ExpressService
	Ledger  *services.LedgerService
	Pinger  handlers.Pinger
	Clock   ports.Clock
	Log     logging.Logger
	Metrics *metrics.Metrics
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logging.NewNop()
	}
	if d.Clock == nil {
		d.Clock = ports.SystemClock
	}
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{DB: d.Pinger}
	parse := &handlers.ManifestHandler{Log: d.Log, Metrics: d.Metrics}
	express := &handlers.ExpressHandler{Service: d.Express, Clock: d.Clock, Log: d.Log}
	ledger := &handlers.LedgerHandler{Service: d.Ledger, Clock: d.Clock, Log: d.Log}

	mux.HandleFunc("GET /health", health.Check)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	mux.HandleFunc("POST /manifest/parse", parse.Parse)

	mux.HandleFunc("POST /express/{date}/import", express.Import)
	mux.HandleFunc("POST /express/{date}/entries", express.QuickAdd)
	mux.HandleFunc("GET /express/{date}", express.ListDay)
	mux.HandleFunc("GET /express/{date}/stats", express.Statistics)
	mux.HandleFunc("GET /express/{date}/export", express.Export)
	mux.HandleFunc("DELETE /express/{date}", express.ClearDay)
	mux.HandleFunc("PATCH /express/entries/{id}", express.Update)
	mux.HandleFunc("DELETE /express/entries/{id}", express.Delete)

	mux.HandleFunc("POST /ledger", ledger.Add)
	mux.HandleFunc("GET /ledger", ledger.List)
	mux.HandleFunc("GET /ledger/stats", ledger.Statistics)
	mux.HandleFunc("GET /ledger/{id}", ledger.Get)
	mux.HandleFunc("PATCH /ledger/{id}", ledger.Update)
	mux.HandleFunc("DELETE /ledger/{id}", ledger.Delete)

	return loggingMiddleware(d.Log, d.Metrics, recoverMiddleware(d.Log, mux))
}
