package store

import (
	"context"
	"strings"

	"github.com/Luismorlan/hackernews/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormStore is a Store over a relational database. The database must have
// been migrated with utils.DatabaseSetupAndMigration.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// filterScope restricts links to those whose description or url contains
// filter. Case sensitivity follows the database's LIKE semantics.
func filterScope(filter *string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter == nil || *filter == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(*filter) + "%"
		return db.Where(`description LIKE ? ESCAPE '\' OR url LIKE ? ESCAPE '\'`, pattern, pattern)
	}
}

func (s *GormStore) Feed(ctx context.Context, args model.FeedArgs) ([]*model.Link, int64, error) {
	if err := validateFeedArgs(args); err != nil {
		return nil, 0, err
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&model.Link{}).Scopes(filterScope(args.Filter)).Count(&count).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count links")
	}

	links := []*model.Link{}
	// gorm treats a zero limit as no limit at all.
	if args.Take != nil && *args.Take == 0 {
		return links, count, nil
	}

	query := s.DB.WithContext(ctx).Model(&model.Link{}).Scopes(filterScope(args.Filter))
	for _, term := range orderTerms(args.OrderBy) {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: term.column}, Desc: term.desc})
	}
	// Stable pagination across equal sort keys.
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	if args.Skip != nil {
		query = query.Offset(*args.Skip)
	}
	if args.Take != nil {
		query = query.Limit(*args.Take)
	}
	if err := query.Find(&links).Error; err != nil {
		return nil, 0, errors.Wrap(err, "find links")
	}
	return links, count, nil
}

func (s *GormStore) Link(ctx context.Context, id int) (*model.Link, error) {
	return findLink(s.DB.WithContext(ctx), id)
}

func findLink(db *gorm.DB, id int) (*model.Link, error) {
	var link model.Link
	if err := db.First(&link, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "link %d", id)
		}
		return nil, errors.Wrapf(err, "find link %d", id)
	}
	return &link, nil
}

func (s *GormStore) CreateLink(ctx context.Context, description string, url string, postedByID *int) (*model.Link, error) {
	link := model.Link{
		Description: description,
		Url:         url,
		PostedByID:  postedByID,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if postedByID != nil {
			if _, err := findUser(tx, *postedByID); err != nil {
				return err
			}
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "create link")
	}
	return &link, nil
}

func (s *GormStore) UpdateLink(ctx context.Context, id int, description string, url string) (*model.Link, error) {
	var link *model.Link
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if link, err = findLink(tx, id); err != nil {
			return err
		}
		if err := tx.Model(link).Updates(map[string]interface{}{
			"description": description,
			"url":         url,
		}).Error; err != nil {
			return err
		}
		link.Description = description
		link.Url = url
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (s *GormStore) DeleteLink(ctx context.Context, id int) (*model.Link, error) {
	var link *model.Link
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if link, err = findLink(tx, id); err != nil {
			return err
		}
		if err := tx.Where("link_id = ?", id).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Link{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (s *GormStore) Voters(ctx context.Context, linkID int) ([]*model.User, error) {
	users := []*model.User{}
	err := s.DB.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN votes ON votes.user_id = users.id").
		Where("votes.link_id = ?", linkID).
		Order("votes.created_at, users.id").
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find voters of link %d", linkID)
	}
	return users, nil
}

func (s *GormStore) CreateUser(ctx context.Context, name string, email string, passwordHash string) (*model.User, error) {
	user := model.User{
		Name:     name,
		Email:    email,
		Password: passwordHash,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errors.Wrapf(ErrAlreadyExists, "user with email %s", email)
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) User(ctx context.Context, id int) (*model.User, error) {
	return findUser(s.DB.WithContext(ctx), id)
}

func findUser(db *gorm.DB, id int) (*model.User, error) {
	var user model.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "user %d", id)
		}
		return nil, errors.Wrapf(err, "find user %d", id)
	}
	return &user, nil
}

func (s *GormStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "user with email %s", email)
		}
		return nil, errors.Wrap(err, "find user by email")
	}
	return &user, nil
}

func (s *GormStore) LinksByUser(ctx context.Context, userID int) ([]*model.Link, error) {
	links := []*model.Link{}
	if err := s.DB.WithContext(ctx).Where("posted_by_id = ?", userID).Order("id").Find(&links).Error; err != nil {
		return nil, errors.Wrapf(err, "find links of user %d", userID)
	}
	return links, nil
}

func (s *GormStore) CreateVote(ctx context.Context, linkID int, userID int) (*model.Vote, error) {
	vote := model.Vote{LinkID: linkID, UserID: userID}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findLink(tx, linkID); err != nil {
			return err
		}
		if _, err := findUser(tx, userID); err != nil {
			return err
		}
		res := tx.Where("link_id = ? AND user_id = ?", linkID, userID).Limit(1).Find(&model.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return errors.Wrapf(ErrAlreadyExists, "vote of user %d on link %d", userID, linkID)
		}
		return tx.Create(&vote).Error
	})
	if err != nil {
		return nil, err
	}
	return &vote, nil
}
