// Package store is the data-access layer behind the GraphQL resolvers. It has
// two implementations with the same semantics: GormStore, backed by a
// relational database, and MemoryStore, backed by in-process slices.
package store

import (
	"context"

	"github.com/Luismorlan/hackernews/model"
	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Store reads and writes links, users and votes.
type Store interface {
	// Feed returns the page of links selected by args together with the
	// number of links matching args.Filter, ignoring skip and take.
	Feed(ctx context.Context, args model.FeedArgs) ([]*model.Link, int64, error)
	Link(ctx context.Context, id int) (*model.Link, error)
	CreateLink(ctx context.Context, description string, url string, postedByID *int) (*model.Link, error)
	UpdateLink(ctx context.Context, id int, description string, url string) (*model.Link, error)
	// DeleteLink removes the link and the votes cast on it, and returns the
	// link as it was before deletion.
	DeleteLink(ctx context.Context, id int) (*model.Link, error)
	Voters(ctx context.Context, linkID int) ([]*model.User, error)

	CreateUser(ctx context.Context, name string, email string, passwordHash string) (*model.User, error)
	User(ctx context.Context, id int) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	LinksByUser(ctx context.Context, userID int) ([]*model.Link, error)

	CreateVote(ctx context.Context, linkID int, userID int) (*model.Vote, error)
}

func validateFeedArgs(args model.FeedArgs) error {
	if args.Skip != nil && *args.Skip < 0 {
		return errors.Wrapf(ErrInvalidArgument, "skip must not be negative, got %d", *args.Skip)
	}
	if args.Take != nil && *args.Take < 0 {
		return errors.Wrapf(ErrInvalidArgument, "take must not be negative, got %d", *args.Take)
	}
	for _, o := range args.OrderBy {
		for _, s := range []*model.Sort{o.Description, o.Url, o.CreatedAt} {
			if s != nil && !s.IsValid() {
				return errors.Wrapf(ErrInvalidArgument, "unknown sort direction %q", *s)
			}
		}
	}
	return nil
}

// orderTerm is one column of an ORDER BY clause.
type orderTerm struct {
	column string
	desc   bool
}

// orderTerms flattens the orderBy inputs into columns, keeping list order and
// within one input the field order description, url, created_at.
func orderTerms(orderBy []model.LinkOrderByInput) []orderTerm {
	terms := []orderTerm{}
	for _, o := range orderBy {
		if o.Description != nil {
			terms = append(terms, orderTerm{column: "description", desc: *o.Description == model.SortDesc})
		}
		if o.Url != nil {
			terms = append(terms, orderTerm{column: "url", desc: *o.Url == model.SortDesc})
		}
		if o.CreatedAt != nil {
			terms = append(terms, orderTerm{column: "created_at", desc: *o.CreatedAt == model.SortDesc})
		}
	}
	return terms
}
