// Package tokencache keeps recent scan results in memory. A scan depends only
// on the rule set and the input, so a cached Result never goes stale while
// the rule set is unchanged.
package tokencache

import (
	lru "github.com/hashicorp/golang-lru"
	"go.scalc.org/scalc/go/skerr"
	"go.scalc.org/scalc/scalc/go/format"
)

// Cache is safe for concurrent use.
type Cache struct {
	cache *lru.Cache
}

type key struct {
	ruleSet string
	input   string
}

// New returns a new in-memory cache holding up to size results.
func New(size int) (*Cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, skerr.Wrapf(err, "failed to create token cache of size: %d", size)
	}
	return &Cache{
		cache: c,
	}, nil
}

// Get returns the cached result of scanning input with ruleSet.
func (c *Cache) Get(ruleSet, input string) (format.Result, bool) {
	v, ok := c.cache.Get(key{ruleSet: ruleSet, input: input})
	if !ok {
		return format.Result{}, false
	}
	return v.(format.Result), true
}

// Add stores the result of scanning input with ruleSet.
func (c *Cache) Add(ruleSet, input string, r format.Result) {
	c.cache.Add(key{ruleSet: ruleSet, input: input}, r)
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.cache.Len()
}
