package middleware

import (
	"crypto/subtle"
	"net/http"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// BasicAuth guards the wrapped handler with HTTP basic auth against a
// username and a bcrypt password hash. With either left empty the
// middleware lets every request through.
func BasicAuth(username, passwordHash string) func(http.Handler) http.Handler {
	if username == "" || passwordHash == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
				bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) != nil {
				log.Debugf("basic auth rejected for %s %s", r.Method, r.URL.Path)
				w.Header().Set("WWW-Authenticate", `Basic realm="posts admin", charset="UTF-8"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
