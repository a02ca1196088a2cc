package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenAuth admits viewers presenting a shared token, either as ?token= or as
// an "Authorization: Bearer <token>" header. An empty token admits everyone.
type TokenAuth struct {
	Token string
}

func (a TokenAuth) Authorize(r *http.Request) error {
	if a.Token == "" {
		return nil
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			return ErrUnauthorized
		}
		token = bearer
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.Token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}
