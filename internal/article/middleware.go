package article

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/model"
)

type ctxKey int8

const (
	ctxKeyArticle ctxKey = iota
	ctxKeyArticleID
)

// ArticleIDCtx checks the {articleID} URL parameter and stores it on the
// request context. Malformed ids stop here with a 400.
func (a *API) ArticleIDCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "articleID")
		if _, err := ParseID(id); err != nil {
			errresponse.Respond(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticleID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ArticleCtx middleware is used to load an Article object from
// the URL parameters passed through as the request. In case
// the Article could not be found, we stop here and return a 404.
func (a *API) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			article *model.Article
			err     error
		)

		if articleID := chi.URLParam(r, "articleID"); articleID != "" {
			article, err = a.svc.Get(r.Context(), articleID)
		} else {
			article, err = a.svc.GetBySlug(r.Context(), chi.URLParam(r, "articleSlug"))
		}
		if err != nil {
			errresponse.Respond(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticle, article)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func articleFromContext(ctx context.Context) *model.Article {
	a, _ := ctx.Value(ctxKeyArticle).(*model.Article)
	return a
}

func articleIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyArticleID).(string)
	return id
}
