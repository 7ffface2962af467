// Package repository is the typed access layer over the restaurant backend.
// Reads go through the query cache; successful writes fire the matching
// invalidation hook before returning.
package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/store"
)

// Requester is satisfied by *backend.Client.
type Requester interface {
	Do(c context.Context, method string, path string, query url.Values, body interface{}, out interface{}) error
}

type Repository struct {
	client Requester
	cache  store.Store
}

func New(client Requester, cache store.Store) *Repository {
	return &Repository{client: client, cache: cache}
}

// get fetches path through the cache under key.
func get[T any](c context.Context, r *Repository, key store.Key, path string, query url.Values) (T, error) {
	return store.Fetch(c, r.cache, key, func(c context.Context) (T, error) {
		var out T
		err := r.client.Do(c, "GET", path, query, nil, &out)
		return out, err
	})
}

// afterWrite runs an invalidation hook. A failing hook is logged but does not
// fail the write that already succeeded on the backend.
func afterWrite(c context.Context, span trace.Span, hook func() error) {
	if err := hook(); err != nil {
		err = fmt.Errorf("failed invalidating cache with error=%w", err)
		otel.RecordError(err, span)
		zerolog.Ctx(c).Warn().Str(log.KeyTag, "repository afterWrite").Err(err).Msg(err.Error())
	}
}
