package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/timada-org/todos/internal/core"
	"github.com/timada-org/todos/internal/store"
)

type Options struct {
	Config *core.Config
	Store  *store.Store
	Logger *logrus.Logger

	// Publisher receives todo change events. Nil disables publishing.
	Publisher Publisher
}

type App struct {
	config      *core.Config
	store       *store.Store
	log         *logrus.Logger
	credentials *core.Credentials
	tokens      *core.TokenIssuer
	publisher   Publisher
}

func New(options Options) (*App, error) {
	if err := options.Config.Validate(); err != nil {
		return nil, err
	}

	hasher, err := core.NewPasswordHasher(options.Config.BcryptCost)
	if err != nil {
		return nil, err
	}

	tokens, err := core.NewTokenIssuer(options.Config.Token.SecretKey, options.Config.TokenTTL())
	if err != nil {
		return nil, err
	}

	log := options.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	app := &App{
		config:      options.Config,
		store:       options.Store,
		log:         log,
		credentials: core.NewCredentials(options.Store.Users, hasher),
		tokens:      tokens,
		publisher:   options.Publisher,
	}

	return app, nil
}

// Tokens exposes the issuer so callers can mint tokens out of band.
func (app *App) Tokens() *core.TokenIssuer {
	return app.tokens
}

func (app *App) Handler() http.Handler {
	router := httprouter.New()
	router.POST("/register", app.register())
	router.POST("/token", app.token())
	router.GET("/todos/", app.authenticated(app.listTodos()))
	router.POST("/todos/", app.authenticated(app.createTodo()))
	router.PUT("/todos/:id", app.authenticated(app.updateTodo()))
	router.DELETE("/todos/:id", app.authenticated(app.deleteTodo()))
	router.GET("/healthz", app.health())
	router.PanicHandler = app.handlePanic

	return app.withRequestID(app.withAccessLog(app.withCORS(router)))
}

// Listen serves until ctx is cancelled, then drains in-flight requests.
func (app *App) Listen(ctx context.Context) error {
	server := &http.Server{
		Addr:              app.config.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)

	go func() {
		app.log.Infof("Listening on %s", app.config.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) health() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := app.store.Ping(ctx); err != nil {
			app.log.WithError(err).Warn("health check failed")
			writeError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
