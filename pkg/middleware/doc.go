// Package middleware provides net/http middleware for the template server.
//
// The package includes:
//   - OpenTelemetry tracing with one server span per request
//   - Prometheus request metrics labelled by route pattern
//   - Structured request logging with log/slog
//
// Each constructor returns a func(http.Handler) http.Handler, so it can be
// installed on a chi router directly:
//
//	r := chi.NewRouter()
//	r.Use(
//	    middleware.Tracing(),
//	    middleware.Metrics(middleware.WithRegistry(reg)),
//	    middleware.Logger(logger),
//	)
//
// Route labels come from the chi route pattern, such as
// "/templates/{name}", so metrics stay low-cardinality whatever names
// clients ask for. Requests that match no route are labelled "unmatched".
package middleware
