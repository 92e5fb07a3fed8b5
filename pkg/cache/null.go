package cache

import (
	"context"
	"time"
)

// NewNullCache returns a Cache that keeps nothing: every Get misses and
// every Set succeeds without storing. It backs --no-cache and servers
// started without Redis.
func NewNullCache() Cache { return nullCache{} }

type nullCache struct{}

func (nullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error                     { return nil }
func (nullCache) Close() error                                             { return nil }
