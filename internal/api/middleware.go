package api

import (
	"context"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

func (app *App) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			var err error
			if id, err = gonanoid.New(); err != nil {
				app.log.WithError(err).Warn("failed to generate request id")
			}
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (app *App) requestLog(r *http.Request) *logrus.Entry {
	id, _ := r.Context().Value(requestIDKey{}).(string)

	return app.log.WithFields(logrus.Fields{
		"request_id": id,
		"method":     r.Method,
		"path":       r.URL.Path,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (app *App) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		app.requestLog(r).WithFields(logrus.Fields{
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func (app *App) handlePanic(w http.ResponseWriter, r *http.Request, v any) {
	app.requestLog(r).WithField("panic", v).Error("handler panicked")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// withCORS answers for the origins listed in allowed_origins; "*" allows any.
// With nothing configured no CORS headers are sent.
func (app *App) withCORS(next http.Handler) http.Handler {
	if len(app.config.AllowedOrigins) == 0 {
		return next
	}

	return cors.New(cors.Options{
		AllowedOrigins: app.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         86400,
	}).Handler(next)
}
