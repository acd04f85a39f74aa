package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key for one (source, query) pair. The query
// is normalized (lowercased, whitespace collapsed) so trivially different
// spellings of the same search share an entry. The key is hex only, safe
// to use as a filename.
func CacheKey(source, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	hash := sha256.Sum256([]byte("veridict:v1:" + source + "\x00" + normalized))
	return hex.EncodeToString(hash[:])
}
