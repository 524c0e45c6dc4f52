package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Luismorlan/hackernews/model"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// MemoryStore is a Store over in-process slices. Ids are assigned
// sequentially starting at 1 and never reused. It is safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	links      []*model.Link
	users      []*model.User
	votes      []model.Vote
	nextLinkID int
	nextUserID int
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextLinkID: 1,
		nextUserID: 1,
		now:        time.Now,
	}
}

// copyLink returns a detached copy of a stored link, so that callers can't
// mutate the store's state.
func copyLink(src *model.Link) *model.Link {
	var dst model.Link
	// Both sides are the same plain struct, copier only fails on nil input.
	_ = copier.Copy(&dst, src)
	dst.PostedBy = nil
	dst.Voters = nil
	if src.PostedByID != nil {
		id := *src.PostedByID
		dst.PostedByID = &id
	}
	return &dst
}

func copyUser(src *model.User) *model.User {
	var dst model.User
	_ = copier.Copy(&dst, src)
	dst.Links = nil
	dst.Votes = nil
	return &dst
}

func matchesFilter(link *model.Link, filter *string) bool {
	if filter == nil || *filter == "" {
		return true
	}
	return strings.Contains(link.Description, *filter) || strings.Contains(link.Url, *filter)
}

// compareLinks returns -1, 0 or 1 comparing a and b on one column, ascending.
func compareLinks(a, b *model.Link, column string) int {
	switch column {
	case "description":
		return strings.Compare(a.Description, b.Description)
	case "url":
		return strings.Compare(a.Url, b.Url)
	case "created_at":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
	}
	return 0
}

func (s *MemoryStore) Feed(ctx context.Context, args model.FeedArgs) ([]*model.Link, int64, error) {
	if err := validateFeedArgs(args); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*model.Link{}
	for _, l := range s.links {
		if matchesFilter(l, args.Filter) {
			matched = append(matched, l)
		}
	}
	count := int64(len(matched))

	// s.links is kept in id order, a stable sort keeps id as the last key.
	terms := orderTerms(args.OrderBy)
	sort.SliceStable(matched, func(i, j int) bool {
		for _, term := range terms {
			c := compareLinks(matched[i], matched[j], term.column)
			if c == 0 {
				continue
			}
			if term.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	start := 0
	if args.Skip != nil {
		start = *args.Skip
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if args.Take != nil && start+*args.Take < end {
		end = start + *args.Take
	}

	links := make([]*model.Link, 0, end-start)
	for _, l := range matched[start:end] {
		links = append(links, copyLink(l))
	}
	return links, count, nil
}

// indexOfLink returns the position of link id in s.links, or -1. Callers must
// hold s.mu.
func (s *MemoryStore) indexOfLink(id int) int {
	for i, l := range s.links {
		if l.Id == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) findUser(id int) *model.User {
	for _, u := range s.users {
		if u.Id == id {
			return u
		}
	}
	return nil
}

func (s *MemoryStore) Link(ctx context.Context, id int) (*model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOfLink(id)
	if i < 0 {
		return nil, errors.Wrapf(ErrNotFound, "link %d", id)
	}
	return copyLink(s.links[i]), nil
}

func (s *MemoryStore) CreateLink(ctx context.Context, description string, url string, postedByID *int) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if postedByID != nil && s.findUser(*postedByID) == nil {
		return nil, errors.Wrap(errors.Wrapf(ErrNotFound, "user %d", *postedByID), "create link")
	}
	link := &model.Link{
		Id:          s.nextLinkID,
		CreatedAt:   s.now(),
		Description: description,
		Url:         url,
	}
	if postedByID != nil {
		id := *postedByID
		link.PostedByID = &id
	}
	s.nextLinkID++
	s.links = append(s.links, link)
	return copyLink(link), nil
}

func (s *MemoryStore) UpdateLink(ctx context.Context, id int, description string, url string) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLink(id)
	if i < 0 {
		return nil, errors.Wrapf(ErrNotFound, "link %d", id)
	}
	s.links[i].Description = description
	s.links[i].Url = url
	return copyLink(s.links[i]), nil
}

func (s *MemoryStore) DeleteLink(ctx context.Context, id int) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLink(id)
	if i < 0 {
		return nil, errors.Wrapf(ErrNotFound, "link %d", id)
	}
	deleted := s.links[i]
	s.links = append(s.links[:i], s.links[i+1:]...)

	votes := s.votes[:0]
	for _, v := range s.votes {
		if v.LinkID != id {
			votes = append(votes, v)
		}
	}
	s.votes = votes
	return copyLink(deleted), nil
}

func (s *MemoryStore) Voters(ctx context.Context, linkID int) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []*model.User{}
	for _, v := range s.votes {
		if v.LinkID != linkID {
			continue
		}
		if u := s.findUser(v.UserID); u != nil {
			users = append(users, copyUser(u))
		}
	}
	return users, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, name string, email string, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, errors.Wrapf(ErrAlreadyExists, "user with email %s", email)
		}
	}
	user := &model.User{
		Id:        s.nextUserID,
		CreatedAt: s.now(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
	}
	s.nextUserID++
	s.users = append(s.users, user)
	return copyUser(user), nil
}

func (s *MemoryStore) User(ctx context.Context, id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.findUser(id)
	if u == nil {
		return nil, errors.Wrapf(ErrNotFound, "user %d", id)
	}
	return copyUser(u), nil
}

func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "user with email %s", email)
}

func (s *MemoryStore) LinksByUser(ctx context.Context, userID int) ([]*model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := []*model.Link{}
	for _, l := range s.links {
		if l.PostedByID != nil && *l.PostedByID == userID {
			links = append(links, copyLink(l))
		}
	}
	return links, nil
}

func (s *MemoryStore) CreateVote(ctx context.Context, linkID int, userID int) (*model.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfLink(linkID) < 0 {
		return nil, errors.Wrapf(ErrNotFound, "link %d", linkID)
	}
	if s.findUser(userID) == nil {
		return nil, errors.Wrapf(ErrNotFound, "user %d", userID)
	}
	for _, v := range s.votes {
		if v.LinkID == linkID && v.UserID == userID {
			return nil, errors.Wrapf(ErrAlreadyExists, "vote of user %d on link %d", userID, linkID)
		}
	}
	vote := model.Vote{LinkID: linkID, UserID: userID, CreatedAt: s.now()}
	s.votes = append(s.votes, vote)
	return &vote, nil
}
