package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/payverify-cli/internal/merge"
	"github.com/sells-group/payverify-cli/internal/model"
	"github.com/sells-group/payverify-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for reconciliation requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newServeRouter(ctx, env),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newServeRouter builds the HTTP routes over an initialized pipeline
// environment. Reconciliation from document paths runs asynchronously with
// progress visible via /runs; pre-extracted field sets are merged inline.
func newServeRouter(ctx context.Context, env *pipelineEnv) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/reconcile", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			PaystubPath   string            `json:"paystub_path"`
			EVPath        string            `json:"ev_path"`
			PaystubFields model.RawFieldSet `json:"paystub_fields"`
			EVFields      model.RawFieldSet `json:"ev_fields"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		// Pre-extracted field sets are merged synchronously, no run record.
		if body.PaystubFields != nil || body.EVFields != nil {
			writeJSON(w, http.StatusOK, merge.BuildUnified(body.PaystubFields, body.EVFields))
			return
		}

		if body.PaystubPath == "" && body.EVPath == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "paystub_path or ev_path is required"})
			return
		}

		docs := model.DocumentPair{
			PaystubPath: body.PaystubPath,
			EVPath:      body.EVPath,
		}

		// Reconcile asynchronously; progress is visible via /runs.
		go func() {
			result, err := env.Pipeline.Run(ctx, docs)
			if err != nil {
				zap.L().Error("reconciliation failed",
					zap.String("paystub", docs.PaystubPath),
					zap.String("ev", docs.EVPath),
					zap.Error(err),
				)
				return
			}
			zap.L().Info("reconciliation complete",
				zap.String("paystub", docs.PaystubPath),
				zap.Int("fields_found", result.FieldsFound),
			)
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	})

	r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
		filter := store.RunFilter{
			Status: model.RunStatus(req.URL.Query().Get("status")),
			Limit:  50,
		}
		runs, err := env.Store.ListRuns(req.Context(), filter)
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		writeJSON(w, http.StatusOK, runs)
	})

	r.Get("/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := env.Store.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	return r
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
