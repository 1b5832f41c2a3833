package services

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/thand-io/components/internal/models"
)

// ConceptCache keeps recently seen concepts by id so lookups for tokens
// the user picked from autocomplete skip the backend.
type ConceptCache struct {
	cache *lru.Cache[string, models.Concept]
}

func NewConceptCache(maxItems int) (*ConceptCache, error) {
	c, err := lru.New[string, models.Concept](maxItems)
	if err != nil {
		return nil, err
	}
	return &ConceptCache{cache: c}, nil
}

func (c *ConceptCache) Get(id string) (models.Concept, bool) {
	return c.cache.Get(id)
}

// Put ignores concepts without an id.
func (c *ConceptCache) Put(concepts ...models.Concept) {
	for _, concept := range concepts {
		if len(concept.ID) > 0 {
			c.cache.Add(concept.ID, concept)
		}
	}
}

func (c *ConceptCache) Len() int {
	return c.cache.Len()
}
