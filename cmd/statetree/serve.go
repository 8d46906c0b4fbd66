package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/statetree/internal/config"
	"github.com/vango-dev/statetree/pkg/middleware"
	"github.com/vango-dev/statetree/pkg/template"
	"github.com/vango-dev/statetree/pkg/template/loader"
	"github.com/vango-dev/statetree/pkg/template/parser"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve templates over HTTP",
		Long: `Serve template definitions and renderings over HTTP.

Routes:
  GET /templates                 names of the loaded templates
  GET /templates/{name}          definition tree
  GET /templates/{name}/render   HTML, query parameters become model values
  GET /metrics                   Prometheus metrics

Examples:
  statetree serve
  statetree serve --addr=127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Serve.Addr
			}
			return a.serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from "+config.ConfigFileName+")")

	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(a.newLoader(reg), reg, a.cfg.Metrics.Namespace, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	a.logger.Info("serving templates", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter wires the template routes and the metrics endpoint.
func newRouter(l *loader.Loader, reg *prometheus.Registry, namespace string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.Recoverer,
		middleware.Tracing(),
		middleware.Metrics(middleware.WithRegistry(reg), middleware.WithNamespace(namespace)),
		middleware.Logger(logger),
	)

	h := &templateHandler{loader: l, logger: logger}
	r.Get("/templates", h.list)
	r.Get("/templates/{name}", h.definition)
	r.Get("/templates/{name}/render", h.render)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r
}

type templateHandler struct {
	loader *loader.Loader
	logger *slog.Logger
}

func (h *templateHandler) list(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, name := range h.loader.Names() {
		fmt.Fprintln(w, name)
	}
}

func (h *templateHandler) definition(w http.ResponseWriter, r *http.Request) {
	def, err := h.loader.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := template.Fprint(w, def); err != nil {
		h.logger.ErrorContext(r.Context(), "write definition", "error", err)
	}
}

func (h *templateHandler) render(w http.ResponseWriter, r *http.Request) {
	values := make(map[string]any)
	for key, v := range r.URL.Query() {
		values[key] = modelValue(v[0])
	}

	out, err := renderTemplate(r.Context(), h.loader, chi.URLParam(r, "name"), renderOptions{values: values})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, out); err != nil {
		h.logger.ErrorContext(r.Context(), "write rendering", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, parser.ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, parser.ErrResolverIO):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
