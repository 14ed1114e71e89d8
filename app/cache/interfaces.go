package cache

import "context"

// Cache stores rendered read responses. Invalidate drops every stored entry
// at once; it is called after any write to the article table.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Invalidate(ctx context.Context) error
	Close() error
}
