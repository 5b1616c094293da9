package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/graphql-go/graphql"

	"github.com/blich-studio/cms/client"
	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/logger"
)

// ArticleSource is the part of cms-api the GraphQL schema reads from.
type ArticleSource interface {
	ListArticles(ctx context.Context, query url.Values) (*client.ArticleList, error)
	GetArticle(ctx context.Context, id string) (*client.Article, error)
	Ping(ctx context.Context) error
}

// NewSchema builds the read-only article schema:
//
//	type Query {
//	  articles(page: Int, limit: Int, status: String, search: String, tags: [String!]): [Article!]!
//	  article(id: ID!): Article!
//	}
func NewSchema(src ArticleSource) (graphql.Schema, error) {
	articleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Article",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"slug":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"perex":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"content":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"status":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"authorId":  &graphql.Field{Type: graphql.String},
			"tags":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"articles": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(articleType))),
				Args: graphql.FieldConfigArgument{
					"page":   &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
					"status": &graphql.ArgumentConfig{Type: graphql.String},
					"search": &graphql.ArgumentConfig{Type: graphql.String},
					"tags":   &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					list, err := src.ListArticles(p.Context, articleQuery(p.Args))
					if err != nil {
						return nil, resolveError(p.Context, err)
					}

					out := make([]map[string]any, 0, len(list.Data))
					for i := range list.Data {
						out = append(out, articleNode(&list.Data[i]))
					}
					return out, nil
				},
			},
			"article": &graphql.Field{
				Type: graphql.NewNonNull(articleType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					a, err := src.GetArticle(p.Context, id)
					if err != nil {
						return nil, resolveError(p.Context, err)
					}
					return articleNode(a), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

func articleQuery(args map[string]any) url.Values {
	q := url.Values{}
	for _, name := range []string{"page", "limit"} {
		if v, ok := args[name].(int); ok {
			q.Set(name, strconv.Itoa(v))
		}
	}
	for _, name := range []string{"status", "search"} {
		if v, ok := args[name].(string); ok && v != "" {
			q.Set(name, v)
		}
	}
	if tags, ok := args["tags"].([]any); ok && len(tags) > 0 {
		s := make([]string, 0, len(tags))
		for _, t := range tags {
			if tag, ok := t.(string); ok {
				s = append(s, tag)
			}
		}
		q.Set("tags", strings.Join(s, ","))
	}
	return q
}

// articleNode maps the cms-api document onto the GraphQL shape, renaming
// _id to id.
func articleNode(a *client.Article) map[string]any {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":        a.ID,
		"title":     a.Title,
		"slug":      a.Slug,
		"perex":     a.Perex,
		"content":   a.Content,
		"status":    a.Status,
		"authorId":  a.AuthorID,
		"tags":      tags,
		"createdAt": a.CreatedAt,
		"updatedAt": a.UpdatedAt,
	}
}

// resolveError turns an upstream failure into the message shown in the
// GraphQL errors array.
func resolveError(ctx context.Context, err error) error {
	logger.FromContext(ctx).Warnw("graphql upstream", "error", err)

	var se *client.StatusError
	if errors.As(err, &se) {
		if msg := se.Message(); msg != "" {
			return errors.New(msg)
		}
		return errors.New(http.StatusText(se.StatusCode))
	}
	return errors.New("Failed to reach cms-api")
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// GraphQLHandler executes queries sent as a JSON POST body or as GET
// parameters. Resolver failures are reported in the result with status 200.
func GraphQLHandler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest

		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			req.Query = q.Get("query")
			req.OperationName = q.Get("operationName")
			if v := q.Get("variables"); v != "" {
				if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
					errresponse.Respond(w, r, apperr.ValidationField("variables", "Variables must be a JSON object"))
					return
				}
			}
		default:
			if err := render.DecodeJSON(r.Body, &req); err != nil {
				errresponse.Respond(w, r, apperr.Validation("Invalid GraphQL request body"))
				return
			}
		}

		if strings.TrimSpace(req.Query) == "" {
			errresponse.Respond(w, r, apperr.ValidationField("query", "Query is required"))
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})

		render.JSON(w, r, result)
	}
}
