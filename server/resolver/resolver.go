package resolver

import (
	"context"
	"strings"

	"github.com/Luismorlan/hackernews/store"
	Logger "github.com/Luismorlan/hackernews/utils/log"
	"github.com/pkg/errors"
)

const (
	Info = "This is the API of a Hackernews Clone"

	errNotLoggedInToPost = "Cannot post without logging in."
	errNotLoggedInToVote = "Cannot vote without logging in."
	errNoSuchUser        = "No such user found"
	errInvalidPassword   = "Invalid password"
	errInternal          = "internal server error"
)

// Resolver is the root resolver of both Query and Mutation. It serves as
// dependency injection for your app, add any dependencies you require here.
type Resolver struct {
	Store     store.Store
	AppSecret []byte
}

// publicError converts a store error into the message shown to clients.
// Errors caused by the request keep their message, anything else is logged
// and hidden.
func publicError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrInvalidArgument):
		return errors.New(strings.TrimSuffix(err.Error(), ": "+store.ErrInvalidArgument.Error()))
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrAlreadyExists):
		return errors.New(err.Error())
	}
	Logger.Log.WithError(err).Error("resolver failed")
	return errors.New(errInternal)
}
