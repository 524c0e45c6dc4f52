package resolver

import (
	"context"

	"github.com/Luismorlan/hackernews/model"
	"github.com/Luismorlan/hackernews/store"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
)

type linkResolver struct {
	root *Resolver
	link *model.Link
}

func (r *Resolver) newLinkResolver(link *model.Link) *linkResolver {
	return &linkResolver{root: r, link: link}
}

func (r *Resolver) newLinkResolvers(links []*model.Link) []*linkResolver {
	res := make([]*linkResolver, 0, len(links))
	for _, l := range links {
		res = append(res, r.newLinkResolver(l))
	}
	return res
}

func (r *linkResolver) ID() int32 {
	return int32(r.link.Id)
}

func (r *linkResolver) Description() string {
	return r.link.Description
}

func (r *linkResolver) URL() string {
	return r.link.Url
}

func (r *linkResolver) CreatedAt() DateTime {
	return DateTime{r.link.CreatedAt}
}

// PostedBy is nil for anonymous links and for links whose poster no longer
// exists.
func (r *linkResolver) PostedBy(ctx context.Context) (*userResolver, error) {
	if r.link.PostedByID == nil {
		return nil, nil
	}
	user, err := r.root.Store.User(ctx, *r.link.PostedByID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, publicError(ctx, err)
	}
	return r.root.newUserResolver(user), nil
}

func (r *linkResolver) Voters(ctx context.Context) ([]*userResolver, error) {
	users, err := r.root.Store.Voters(ctx, r.link.Id)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	return r.root.newUserResolvers(users), nil
}

type feedResolver struct {
	root *Resolver
	feed *model.Feed
}

func (r *feedResolver) Links() []*linkResolver {
	return r.root.newLinkResolvers(r.feed.Links)
}

func (r *feedResolver) Count() int32 {
	return int32(r.feed.Count)
}

func (r *feedResolver) ID() *graphql.ID {
	id := graphql.ID(r.feed.Id)
	return &id
}
