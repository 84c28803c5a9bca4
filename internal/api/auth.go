package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/timada-org/todos/internal/core"
)

const detailInvalidToken = "Could not validate credentials"

// userHandle is an httprouter.Handle that runs with the caller resolved.
type userHandle func(w http.ResponseWriter, r *http.Request, p httprouter.Params, user *core.User)

func bearerToken(r *http.Request) (string, error) {
	data := strings.Fields(r.Header.Get("Authorization"))
	if len(data) != 2 || !strings.EqualFold(data[0], "Bearer") {
		return "", errors.New("invalid authorization http header")
	}

	return data[1], nil
}

// authenticated verifies the bearer token and loads its subject. Any
// failure, including a subject whose account is gone, is a 401.
func (app *App) authenticated(next userHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		token, err := bearerToken(r)
		if err != nil {
			writeUnauthorized(w, "Not authenticated")
			return
		}

		username, err := app.tokens.Verify(token)
		if err != nil {
			app.requestLog(r).WithError(err).Debug("token rejected")
			writeUnauthorized(w, detailInvalidToken)
			return
		}

		user, err := app.credentials.Resolve(r.Context(), username)
		if errors.Is(err, core.ErrAuth) {
			writeUnauthorized(w, detailInvalidToken)
			return
		}

		if err != nil {
			app.internalError(w, r, err)
			return
		}

		next(w, r, p, user)
	}
}
