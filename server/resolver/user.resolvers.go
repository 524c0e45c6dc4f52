package resolver

import (
	"context"

	"github.com/Luismorlan/hackernews/model"
)

type userResolver struct {
	root *Resolver
	user *model.User
}

func (r *Resolver) newUserResolver(user *model.User) *userResolver {
	return &userResolver{root: r, user: user}
}

func (r *Resolver) newUserResolvers(users []*model.User) []*userResolver {
	res := make([]*userResolver, 0, len(users))
	for _, u := range users {
		res = append(res, r.newUserResolver(u))
	}
	return res
}

func (r *userResolver) ID() int32 {
	return int32(r.user.Id)
}

func (r *userResolver) Name() string {
	return r.user.Name
}

func (r *userResolver) Email() string {
	return r.user.Email
}

func (r *userResolver) Links(ctx context.Context) ([]*linkResolver, error) {
	links, err := r.root.Store.LinksByUser(ctx, r.user.Id)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	return r.root.newLinkResolvers(links), nil
}

type voteResolver struct {
	root *Resolver
	vote *model.Vote
}

func (r *voteResolver) Link(ctx context.Context) (*linkResolver, error) {
	link, err := r.root.Store.Link(ctx, r.vote.LinkID)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	return r.root.newLinkResolver(link), nil
}

func (r *voteResolver) User(ctx context.Context) (*userResolver, error) {
	user, err := r.root.Store.User(ctx, r.vote.UserID)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	return r.root.newUserResolver(user), nil
}

type authPayloadResolver struct {
	root  *Resolver
	token string
	user  *model.User
}

func (r *authPayloadResolver) Token() *string {
	return &r.token
}

func (r *authPayloadResolver) User() *userResolver {
	return r.root.newUserResolver(r.user)
}
