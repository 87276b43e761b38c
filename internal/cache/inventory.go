package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pawcircle/internal/crud"
)

const (
	RecordKeyPrefix   = "record:%s:%s"
	ListKeyPrefix     = "list:%s:v%d:%s"
	ListVersionPrefix = "list:%s:version"
)

const (
	RecordTTL = 30 * time.Minute
	ListTTL   = 2 * time.Minute
)

func RecordKey(collection, id string) string {
	return fmt.Sprintf(RecordKeyPrefix, collection, id)
}

func listVersionKey(collection string) string {
	return fmt.Sprintf(ListVersionPrefix, collection)
}

// ListKey builds the key for one page of a collection. The key embeds the
// collection's list version, so InvalidateLists retires every cached page at once.
func (c *Cache) ListKey(ctx context.Context, collection string, q crud.Query) string {
	var version int64
	if c.Enabled() {
		version, _ = c.rdb.Get(ctx, listVersionKey(collection)).Int64()
	}
	return fmt.Sprintf(ListKeyPrefix, collection, version, queryFingerprint(q))
}

// InvalidateLists bumps the list version of a collection.
func (c *Cache) InvalidateLists(ctx context.Context, collection string) {
	if !c.Enabled() {
		return
	}
	c.rdb.Incr(ctx, listVersionKey(collection))
}

// queryFingerprint escapes filter fields and values so that separators inside a
// value cannot make two queries share a key.
func queryFingerprint(q crud.Query) string {
	var b strings.Builder
	fmt.Fprintf(&b, "l%d:s%d", q.Limit, q.Skip)
	for _, k := range crud.SortedKeys(q.Filter) {
		fmt.Fprintf(&b, ":%s=%s", url.QueryEscape(k), url.QueryEscape(q.Filter[k]))
	}
	return b.String()
}
