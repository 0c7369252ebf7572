package agent

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ircpair/ircpair/pkg/relay"
)

// StatusProvider hands out the relay counters the status agent serves.
type StatusProvider interface {
	Snapshot() relay.StatsSnapshot
}

// StatusAgent serves the relay's runtime counters as JSON over HTTP.
type StatusAgent struct {
	provider StatusProvider
	router   *mux.Router
	server   *http.Server
}

// NewStatusAgent creates a StatusAgent bound to the given address, e.g.,
// "127.0.0.1:8642".
func NewStatusAgent(listenAddress string, provider StatusProvider) (sa *StatusAgent) {
	sa = &StatusAgent{
		provider: provider,
		router:   mux.NewRouter(),
	}

	sa.router.HandleFunc("/status", sa.handleStatus).Methods(http.MethodGet)
	sa.server = &http.Server{
		Addr:    listenAddress,
		Handler: sa.router,
	}

	return sa
}

// Start spawns the HTTP server.
func (sa *StatusAgent) Start() {
	log.WithField("address", sa.server.Addr).Info("Status agent started")

	go func() {
		if err := sa.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Status agent failed")
		}
	}()
}

// handleStatus processes /status GET requests.
func (sa *StatusAgent) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(sa.provider.Snapshot()); err != nil {
		log.WithError(err).Warn("Failed to write status response")
	}
}

// Close shuts the HTTP server down.
func (sa *StatusAgent) Close() error {
	return sa.server.Close()
}
