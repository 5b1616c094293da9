package article

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/blich-studio/cms/internal/model"
)

const collectionName = "articles"

// MongoStore keeps articles in the "articles" collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type MongoOptions struct {
	URL         string
	Database    string
	MaxPoolSize uint64
	MinPoolSize uint64
}

// OpenMongo connects, verifies the connection and ensures indexes.
func OpenMongo(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(opts.URL).
		SetMaxPoolSize(opts.MaxPoolSize).
		SetMinPoolSize(opts.MinPoolSize))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(collectionName),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "authorId", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create article indexes: %w", err)
	}

	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Create(ctx context.Context, a *model.Article) (bson.ObjectID, error) {
	doc := *a
	doc.ID = bson.NewObjectID()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.ObjectID{}, ErrDuplicateSlug
		}
		return bson.ObjectID{}, fmt.Errorf("insert article: %w", err)
	}

	return doc.ID, nil
}

func (s *MongoStore) List(ctx context.Context, p model.Pagination, f model.ArticleFilter) ([]*model.Article, int64, error) {
	filter := buildFilter(f)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	dir := -1
	if p.Order == model.SortAsc {
		dir = 1
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: p.Sort, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(p.Skip())).
		SetLimit(int64(p.Limit))

	cur, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("find articles: %w", err)
	}

	articles := []*model.Article{}
	if err := cur.All(ctx, &articles); err != nil {
		return nil, 0, fmt.Errorf("decode articles: %w", err)
	}

	return articles, total, nil
}

// buildFilter translates f into a query document. Search terms are matched
// literally, case-insensitively, against title, content and perex.
func buildFilter(f model.ArticleFilter) bson.D {
	filter := bson.D{}

	if f.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: f.Status})
	}
	if f.AuthorID != "" {
		filter = append(filter, bson.E{Key: "authorId", Value: f.AuthorID})
	}
	if len(f.Tags) > 0 {
		filter = append(filter, bson.E{Key: "tags", Value: bson.D{{Key: "$in", Value: f.Tags}}})
	}
	if f.Search != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "content", Value: re}},
			bson.D{{Key: "perex", Value: re}},
		}})
	}

	return filter
}

func (s *MongoStore) Get(ctx context.Context, id bson.ObjectID) (*model.Article, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStore) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	return s.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D) (*model.Article, error) {
	var a model.Article
	if err := s.coll.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}

	return &a, nil
}

func (s *MongoStore) Update(ctx context.Context, id bson.ObjectID, u model.ArticleUpdate, updatedAt int64) (*model.Article, error) {
	set := updateDoc(u)
	set = append(set, bson.E{Key: "updatedAt", Value: updatedAt})

	var a model.Article
	err := s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update article: %w", err)
	}

	return &a, nil
}

func updateDoc(u model.ArticleUpdate) bson.D {
	set := bson.D{}
	if u.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *u.Title})
	}
	if u.Slug != nil {
		set = append(set, bson.E{Key: "slug", Value: *u.Slug})
	}
	if u.Perex != nil {
		set = append(set, bson.E{Key: "perex", Value: *u.Perex})
	}
	if u.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *u.Content})
	}
	if u.AuthorID != nil {
		set = append(set, bson.E{Key: "authorId", Value: *u.AuthorID})
	}
	if u.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *u.Status})
	}
	if u.Tags != nil {
		set = append(set, bson.E{Key: "tags", Value: append([]string{}, (*u.Tags)...)})
	}

	return set
}

func (s *MongoStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
