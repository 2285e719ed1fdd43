package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/executor"
)

// startStatusServer serves /health and a live /status view over the
// in-flight run. It returns immediately; the server runs in a goroutine.
func (a *App) startStatusServer(ctx context.Context, port int, exec *executor.Executor) *http.Server {
	logger := ctxlog.FromContext(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Health endpoint hit.", "remote_addr", r.RemoteAddr)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			RunID string `json:"run_id"`
			executor.Snapshot
		}{RunID: exec.RunID(), Snapshot: exec.Snapshot()})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/status", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
	return srv
}

// stopStatusServer shuts the status server down gracefully.
func (a *App) stopStatusServer(ctx context.Context, srv *http.Server) {
	logger := ctxlog.FromContext(ctx)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Status server shutdown failed", "error", err)
		return
	}
	logger.Debug("Status server shut down gracefully.")
}
