package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/timada-org/todos/internal/core"
	"github.com/timada-org/todos/pkg/client"
)

const detailTodoNotFound = "Todo not found"

// TodoInput is shared by create and update. Text must be present but may be
// empty.
type TodoInput struct {
	Text *string `json:"text"`
}

func decodeTodoInput(r *http.Request) (string, bool) {
	decoder := json.NewDecoder(r.Body)
	var input TodoInput
	if err := decoder.Decode(&input); err != nil || input.Text == nil {
		return "", false
	}

	return *input.Text, true
}

func (app *App) listTodos() userHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, user *core.User) {
		todos, err := app.store.Todos.List(r.Context(), user.ID)
		if err != nil {
			app.internalError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, todos)
	}
}

func (app *App) createTodo() userHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, user *core.User) {
		text, ok := decodeTodoInput(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		todo, err := app.store.Todos.Create(r.Context(), user.ID, text)
		if err != nil {
			app.internalError(w, r, err)
			return
		}

		app.publish(r, user.ID, todo.ID, client.EventCreated, todo)

		writeJSON(w, http.StatusOK, todo)
	}
}

func (app *App) updateTodo() userHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, user *core.User) {
		text, ok := decodeTodoInput(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		todo, err := app.store.Todos.Update(r.Context(), user.ID, p.ByName("id"), text)
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, detailTodoNotFound)
			return
		}

		if err != nil {
			app.internalError(w, r, err)
			return
		}

		app.publish(r, user.ID, todo.ID, client.EventUpdated, todo)

		writeJSON(w, http.StatusOK, todo)
	}
}

func (app *App) deleteTodo() userHandle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params, user *core.User) {
		id := p.ByName("id")

		err := app.store.Todos.Delete(r.Context(), user.ID, id)
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, detailTodoNotFound)
			return
		}

		if err != nil {
			app.internalError(w, r, err)
			return
		}

		app.publish(r, user.ID, id, client.EventDeleted, map[string]any{
			"id": id,
		})

		writeJSON(w, http.StatusOK, messageResponse{"Todo deleted successfully"})
	}
}
