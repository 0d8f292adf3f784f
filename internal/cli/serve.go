package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shelfwise/planogram/pkg/action"
	"github.com/shelfwise/planogram/pkg/authority"
	apperrors "github.com/shelfwise/planogram/pkg/errors"
	"github.com/shelfwise/planogram/pkg/metadata"
	"github.com/shelfwise/planogram/pkg/placement"
	"github.com/shelfwise/planogram/pkg/planogram"
	"github.com/shelfwise/planogram/pkg/processor"
	"github.com/shelfwise/planogram/pkg/snapshot"
	"github.com/shelfwise/planogram/pkg/store"
)

// newServeCmd creates the serve command, which exposes the layout
// engine over HTTP.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planogram HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)

	appCfg, err := loadConfig(configFlag)
	if err != nil {
		return err
	}
	st, err := buildStore(ctx, appCfg)
	if err != nil {
		return err
	}
	defer st.Close()

	provider, c, err := buildProvider(ctx, appCfg)
	if err != nil {
		return err
	}
	defer c.Close()

	api := &apiServer{
		store:     st,
		provider:  provider,
		checker:   authority.NewChecker(),
		projector: snapshot.NewProjector(processor.New(placement.NewRegistry(), logger), authority.NewChecker()),
		logger:    logger,
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Shut down cleanly when the command context is cancelled (SIGINT).
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// apiServer holds the shared backends behind the HTTP handlers.
type apiServer struct {
	store     store.Store
	provider  metadata.Provider
	checker   *authority.Checker
	projector *snapshot.Projector
	logger    *charmlog.Logger
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api/planograms", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleSave)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/process", s.handleProcess)
			r.Post("/validate-intent", s.handleValidateIntent)
			r.Post("/suggest", s.handleSuggest)
		})
	})
	return r
}

// logRequests logs one line per request with status and duration.
func (s *apiServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *apiServer) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListAll(r.Context())
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "list planograms"))
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *apiServer) handleSave(w http.ResponseWriter, r *http.Request) {
	var cfg planogram.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode planogram"))
		return
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if errs := planogram.ValidateShape(cfg); len(errs) > 0 {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, errors.Join(errs...), "invalid planogram"))
		return
	}
	cfg.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(r.Context(), cfg); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "save planogram"))
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": cfg.ID})
}

func (s *apiServer) handleGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.load(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *apiServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeStorage, err, "delete planogram"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProcess projects the stored configuration into a full snapshot:
// z-sorted render instances plus the validation result.
func (s *apiServer) handleProcess(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.load(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	meta, err := metadata.Resolve(r.Context(), s.provider, cfg)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "resolve metadata"))
		return
	}
	snap, err := s.projector.Project(cfg, meta, snapshot.SessionInfo{})
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "project planogram"))
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// handleValidateIntent checks a proposed action against the stored
// configuration without applying it.
func (s *apiServer) handleValidateIntent(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.load(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var a action.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidAction, err, "decode action"))
		return
	}
	meta, err := metadata.Resolve(r.Context(), s.provider, cfg)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "resolve metadata"))
		return
	}
	s.writeJSON(w, http.StatusOK, s.checker.ValidateIntent(cfg, meta, a))
}

func (s *apiServer) handleSuggest(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.load(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req authority.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if err := apperrors.ValidateSKU(req.SKU); err != nil {
		s.writeError(w, err)
		return
	}
	meta, err := metadata.Resolve(r.Context(), s.provider, cfg)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "resolve metadata"))
		return
	}
	suggestion, err := s.checker.SuggestPlacement(cfg, meta, req)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "suggest placement"))
		return
	}
	s.writeJSON(w, http.StatusOK, suggestion)
}

// load fetches the planogram named by the path id.
func (s *apiServer) load(r *http.Request) (planogram.Config, error) {
	id := chi.URLParam(r, "id")
	cfg, err := s.store.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return planogram.Config{}, apperrors.New(apperrors.ErrCodeNotFound, "planogram %s not found", id)
	}
	if err != nil {
		return planogram.Config{}, apperrors.Wrap(apperrors.ErrCodeStorage, err, "load planogram %s", id)
	}
	return cfg, nil
}

// errorBody is the JSON error envelope of the API.
type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func (s *apiServer) writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: err.Error()})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}
