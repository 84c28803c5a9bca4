package api

import (
	"context"
	"net/http"
	"time"

	"github.com/timada-org/todos/pkg/client"
	"github.com/timada-org/todos/pkg/topic"
)

const publishTimeout = 5 * time.Second

// Publisher is satisfied by *client.Client.
type Publisher interface {
	Send(ctx context.Context, event *client.Event) error
}

// publish reports a todo change. Failures are logged and never reach the
// caller: the change is already committed.
func (app *App) publish(r *http.Request, userID, todoID, name string, data any) {
	if app.publisher == nil {
		return
	}

	t, err := topic.Todo(todoID)
	if err != nil {
		app.requestLog(r).WithError(err).Warn("invalid event topic")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), publishTimeout)
	defer cancel()

	err = app.publisher.Send(ctx, &client.Event{
		UserID: userID,
		Topic:  t,
		Name:   name,
		Data:   data,
	})
	if err != nil {
		app.requestLog(r).WithError(err).WithField("event", name).Warn("failed to publish event")
	}
}
