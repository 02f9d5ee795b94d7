package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdelgadoc/funnelboard-go/internal/dashboard"
	"github.com/jdelgadoc/funnelboard-go/internal/ingest"
	"github.com/jdelgadoc/funnelboard-go/internal/models"
	"github.com/jdelgadoc/funnelboard-go/internal/store"
	"github.com/jdelgadoc/funnelboard-go/internal/utils"
)

func NewRouter(log *slog.Logger, svc *dashboard.Service, syncer *ingest.Sync, st *store.MemoryStore, origins []string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)
	if len(origins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/sync/run", func(w http.ResponseWriter, r *http.Request) {
		account := r.URL.Query().Get("account")
		if account == "" {
			http.Error(w, "account required", 400)
			return
		}
		if err := syncer.Run(r.Context(), account); err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		w.WriteHeader(202)
		w.Write([]byte("sync complete"))
	})

	mux.Get("/accounts/{account}/summary", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Summary(chi.URLParam(r, "account"), r.URL.Query()))
	})

	mux.Get("/accounts/{account}/attribution", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Attribution(chi.URLParam(r, "account"), r.URL.Query()))
	})

	mux.Get("/accounts/{account}/forecast", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Forecast(chi.URLParam(r, "account"), r.URL.Query()))
	})

	// Funnel write-back: manual edits, including the override flags. The
	// engine itself never writes; this lands in the store only.
	mux.Put("/accounts/{account}/funnel", func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		var fr models.FunnelRecord
		if err := json.NewDecoder(r.Body).Decode(&fr); err != nil {
			http.Error(w, "bad payload", 400)
			return
		}
		if fr.Month < 1 || fr.Month > 12 || fr.Year <= 0 {
			http.Error(w, "year and month (1-12) required", 400)
			return
		}
		fr.AccountID = account
		st.UpsertFunnel(account, fr)
		writeJSON(w, fr)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
