package resolver

import (
	"context"

	"github.com/Luismorlan/hackernews/model"
	"github.com/Luismorlan/hackernews/server/auth"
	"github.com/Luismorlan/hackernews/store"
	Logger "github.com/Luismorlan/hackernews/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type feedArgs struct {
	Filter  *string
	Skip    *int32
	Take    *int32
	OrderBy *[]model.LinkOrderByInput
}

func (a feedArgs) toModel() model.FeedArgs {
	args := model.FeedArgs{Filter: a.Filter}
	if a.Skip != nil {
		skip := int(*a.Skip)
		args.Skip = &skip
	}
	if a.Take != nil {
		take := int(*a.Take)
		args.Take = &take
	}
	if a.OrderBy != nil {
		args.OrderBy = *a.OrderBy
	}
	return args
}

func (r *Resolver) Info() string {
	return Info
}

func (r *Resolver) Feed(ctx context.Context, args feedArgs) (*feedResolver, error) {
	query := args.toModel()
	links, count, err := r.Store.Feed(ctx, query)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	return &feedResolver{
		root: r,
		feed: &model.Feed{
			Links: links,
			Count: int(count),
			Id:    query.Key(),
		},
	}, nil
}

func (r *Resolver) Link(ctx context.Context, args struct{ ID int32 }) (*linkResolver, error) {
	link, err := r.Store.Link(ctx, int(args.ID))
	if err != nil {
		return nil, publicError(ctx, err)
	}
	return r.newLinkResolver(link), nil
}

func (r *Resolver) Post(ctx context.Context, args struct {
	Description string
	URL         string
}) (*linkResolver, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New(errNotLoggedInToPost)
	}

	input := linkInput{Description: args.Description, URL: args.URL}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	link, err := r.Store.CreateLink(ctx, input.Description, input.URL, &userID)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	Logger.Log.WithFields(logrus.Fields{"link_id": link.Id, "user_id": userID}).Info("link posted")
	return r.newLinkResolver(link), nil
}

func (r *Resolver) UpdateLink(ctx context.Context, args struct {
	ID          int32
	Description string
	URL         string
}) (*linkResolver, error) {
	input := linkInput{Description: args.Description, URL: args.URL}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	link, err := r.Store.UpdateLink(ctx, int(args.ID), input.Description, input.URL)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	Logger.Log.WithField("link_id", link.Id).Info("link updated")
	return r.newLinkResolver(link), nil
}

func (r *Resolver) DeleteLink(ctx context.Context, args struct{ ID int32 }) (*linkResolver, error) {
	link, err := r.Store.DeleteLink(ctx, int(args.ID))
	if err != nil {
		return nil, publicError(ctx, err)
	}
	Logger.Log.WithField("link_id", link.Id).Info("link deleted")
	return r.newLinkResolver(link), nil
}

func (r *Resolver) Signup(ctx context.Context, args struct {
	Email    string
	Password string
	Name     string
}) (*authPayloadResolver, error) {
	input := signupInput{Name: args.Name, Email: args.Email, Password: args.Password}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	user, err := r.Store.CreateUser(ctx, input.Name, input.Email, hash)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	token, err := auth.IssueToken(r.AppSecret, user.Id)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	Logger.Log.WithField("user_id", user.Id).Info("user signed up")
	return &authPayloadResolver{root: r, token: token, user: user}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*authPayloadResolver, error) {
	user, err := r.Store.UserByEmail(ctx, args.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New(errNoSuchUser)
	}
	if err != nil {
		return nil, publicError(ctx, err)
	}
	if !auth.CheckPassword(user.Password, args.Password) {
		return nil, errors.New(errInvalidPassword)
	}
	token, err := auth.IssueToken(r.AppSecret, user.Id)
	if err != nil {
		return nil, publicError(ctx, err)
	}
	return &authPayloadResolver{root: r, token: token, user: user}, nil
}

func (r *Resolver) Vote(ctx context.Context, args struct{ LinkID int32 }) (*voteResolver, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New(errNotLoggedInToVote)
	}

	vote, err := r.Store.CreateVote(ctx, int(args.LinkID), userID)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, errors.Errorf("Already voted for link: %d", args.LinkID)
	}
	if err != nil {
		return nil, publicError(ctx, err)
	}
	Logger.Log.WithFields(logrus.Fields{"link_id": vote.LinkID, "user_id": userID}).Info("link voted")
	return &voteResolver{root: r, vote: vote}, nil
}
