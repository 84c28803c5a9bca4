package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/mitchellh/mapstructure"

	"github.com/timada-org/todos/internal/core"
)

const maxFormMemory = 1 << 20

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenInput is the OAuth2 password grant form.
type TokenInput struct {
	GrantType string `mapstructure:"grant_type"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Scope     string `mapstructure:"scope"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (app *App) register() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		decoder := json.NewDecoder(r.Body)
		var input RegisterInput
		if err := decoder.Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		user, err := app.credentials.Register(r.Context(), input.Username, input.Password)

		switch {
		case errors.Is(err, core.ErrConflict):
			writeError(w, http.StatusBadRequest, "Username already registered")
			return
		case errors.Is(err, core.ErrInvalid):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			app.internalError(w, r, err)
			return
		}

		app.requestLog(r).WithField("user_id", user.ID).Info("user registered")

		writeJSON(w, http.StatusOK, messageResponse{"User registered successfully"})
	}
}

func parseTokenForm(r *http.Request) (*TokenInput, error) {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}

	if err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}

	var input TokenInput
	if err := mapstructure.Decode(fields, &input); err != nil {
		return nil, err
	}

	if input.GrantType != "" && input.GrantType != "password" {
		return nil, errors.New("unsupported grant_type")
	}

	if input.Username == "" || input.Password == "" {
		return nil, errors.New("username and password are required")
	}

	return &input, nil
}

func (app *App) token() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		input, err := parseTokenForm(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		user, err := app.credentials.Authenticate(r.Context(), input.Username, input.Password)
		if errors.Is(err, core.ErrAuth) {
			writeUnauthorized(w, "Incorrect username or password")
			return
		}

		if err != nil {
			app.internalError(w, r, err)
			return
		}

		token, err := app.tokens.Issue(user.Username)
		if err != nil {
			app.internalError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, TokenResponse{
			AccessToken: token,
			TokenType:   core.TokenType,
		})
	}
}
