// Package store caches backend reads keyed by logical resource name. Values
// are populated on fetch and dropped by the named invalidation hooks that
// run after each successful mutation.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
)

type Store interface {
	// Get decodes the cached value of key into dst and reports whether it
	// was present.
	Get(c context.Context, key Key, dst interface{}) (bool, error)
	Set(c context.Context, key Key, value interface{}) error
	// Invalidate drops every entry covered by one of keys.
	Invalidate(c context.Context, keys ...Key) error
}

// Fetch returns the cached value of key or calls fetch and caches its result.
// Cache failures are logged and never fail the read.
func Fetch[T any](c context.Context, s Store, key Key, fetch func(context.Context) (T, error)) (T, error) {
	c, span := otel.Tracer.Start(c, "store Fetch")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "store Fetch").
		Str(log.KeyCacheKey, key.String()).
		Logger()

	var cached T
	found, err := s.Get(c, key, &cached)
	if err != nil {
		err = fmt.Errorf("failed reading cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	if found {
		logger.Trace().Msg("found value in cache")
		return cached, nil
	}

	logger.Trace().Msg("cache miss fetching value")
	value, err := fetch(c)
	if err != nil {
		return value, err
	}

	if err = s.Set(c, key, value); err != nil {
		err = fmt.Errorf("failed writing cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return value, nil
}

func encode(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}

func decode(data []byte, dst interface{}) error {
	return json.Unmarshal(data, dst)
}
