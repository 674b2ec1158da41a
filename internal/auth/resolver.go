package auth

import (
	"errors"
	"strings"

	"tenanthub/internal/model"
)

var (
	// ErrMissingOrMalformed signals an absent Authorization header or one that
	// is not of the form "Bearer <token>".
	ErrMissingOrMalformed = errors.New("authorization header missing or malformed")
	// ErrInvalidToken signals a well-formed bearer token unknown to the directory.
	ErrInvalidToken = errors.New("invalid token")
)

const bearerPrefix = "Bearer "

// Resolver resolves raw Authorization header values against a Directory.
// It is a pure function of the directory and its input; resolution never
// falls back to an anonymous identity.
type Resolver struct {
	dir *Directory
}

// NewResolver constructs a Resolver over the given directory.
func NewResolver(dir *Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve maps an Authorization header value to the user owning the token.
func (r *Resolver) Resolve(headerValue string) (model.User, error) {
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return model.User{}, ErrMissingOrMalformed
	}
	token := headerValue[len(bearerPrefix):]
	if token == "" {
		return model.User{}, ErrMissingOrMalformed
	}
	u, ok := r.dir.FindByToken(token)
	if !ok {
		return model.User{}, ErrInvalidToken
	}
	return u, nil
}
