package article

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/blich-studio/cms/internal/model"
)

var (
	ErrNotFound      = errors.New("article not found")
	ErrDuplicateSlug = errors.New("article slug already exists")
)

// Store persists articles. Implementations return ErrNotFound and
// ErrDuplicateSlug so the service can classify failures without knowing
// the driver.
type Store interface {
	Create(ctx context.Context, a *model.Article) (bson.ObjectID, error)
	List(ctx context.Context, p model.Pagination, f model.ArticleFilter) ([]*model.Article, int64, error)
	Get(ctx context.Context, id bson.ObjectID) (*model.Article, error)
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	Update(ctx context.Context, id bson.ObjectID, u model.ArticleUpdate, updatedAt int64) (*model.Article, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	Ping(ctx context.Context) error
}

// MemStore keeps articles in process memory. It backs the tests and
// CMS_STORE=memory for running without MongoDB.
type MemStore struct {
	mu       sync.RWMutex
	articles []*model.Article
}

func NewMemStore(seed ...*model.Article) *MemStore {
	s := &MemStore{}
	for _, a := range seed {
		c := *a
		if c.ID.IsZero() {
			c.ID = bson.NewObjectID()
		}
		s.articles = append(s.articles, &c)
	}

	return s
}

func (s *MemStore) Create(_ context.Context, article *model.Article) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.articles {
		if a.Slug == article.Slug {
			return bson.ObjectID{}, ErrDuplicateSlug
		}
	}

	c := *article
	c.ID = bson.NewObjectID()
	c.Tags = append([]string{}, article.Tags...)
	s.articles = append(s.articles, &c)

	return c.ID, nil
}

func (s *MemStore) List(_ context.Context, p model.Pagination, f model.ArticleFilter) ([]*model.Article, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*model.Article
	for _, a := range s.articles {
		if matches(a, f) {
			c := *a
			matched = append(matched, &c)
		}
	}

	sortArticles(matched, p.Sort, p.Order)

	total := int64(len(matched))
	start := p.Skip()
	if start >= len(matched) {
		return []*model.Article{}, total, nil
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (s *MemStore) Get(_ context.Context, id bson.ObjectID) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}

	return nil, ErrNotFound
}

func (s *MemStore) GetBySlug(_ context.Context, slug string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.Slug == slug {
			c := *a
			return &c, nil
		}
	}

	return nil, ErrNotFound
}

func (s *MemStore) Update(_ context.Context, id bson.ObjectID, u model.ArticleUpdate, updatedAt int64) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Slug != nil {
		for _, a := range s.articles {
			if a.ID != id && a.Slug == *u.Slug {
				return nil, ErrDuplicateSlug
			}
		}
	}

	for i, a := range s.articles {
		if a.ID == id {
			c := *a
			u.Apply(&c)
			c.UpdatedAt = updatedAt
			s.articles[i] = &c

			out := c
			return &out, nil
		}
	}

	return nil, ErrNotFound
}

func (s *MemStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.articles {
		if a.ID == id {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			return nil
		}
	}

	return ErrNotFound
}

func (s *MemStore) Ping(context.Context) error {
	return nil
}

func matches(a *model.Article, f model.ArticleFilter) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.AuthorID != "" && a.AuthorID != f.AuthorID {
		return false
	}
	if len(f.Tags) > 0 && !anyTag(a.Tags, f.Tags) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(a.Title), q) &&
			!strings.Contains(strings.ToLower(a.Content), q) &&
			!strings.Contains(strings.ToLower(a.Perex), q) {
			return false
		}
	}

	return true
}

func anyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func sortArticles(list []*model.Article, field string, order model.SortOrder) {
	less := func(a, b *model.Article) bool {
		switch field {
		case "updatedAt":
			return a.UpdatedAt < b.UpdatedAt
		case "title":
			return a.Title < b.Title
		case "slug":
			return a.Slug < b.Slug
		case "status":
			return a.Status < b.Status
		default:
			return a.CreatedAt < b.CreatedAt
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		if order == model.SortAsc {
			return less(list[i], list[j])
		}
		return less(list[j], list[i])
	})
}
