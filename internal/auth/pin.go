// Package auth implements the optional merchant PIN guard on mutating API
// routes.
package auth

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// PinHeader carries the merchant PIN on guarded requests.
const PinHeader = "X-Merchant-Pin"

// HashPIN derives a bcrypt hash for storage in configuration.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPIN reports whether pin matches the stored hash.
func VerifyPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// RequirePIN rejects requests whose PIN header does not match hash. An
// empty hash disables the guard.
func RequirePIN(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hash != "" && !VerifyPIN(hash, r.Header.Get(PinHeader)) {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
