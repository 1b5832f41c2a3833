package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/models"
)

const (
	DefaultConceptLimit   = 15
	MinConceptQueryLength = 2

	conceptsPath = "/concepts"
)

type SearchOptions struct {
	AccessToken string
	Limit       int
	Skip        int
	Types       []string
}

// ConceptsService searches the ontology for autocomplete and entity lookup.
type ConceptsService struct {
	client         api.Client
	defaultLimit   int
	minQueryLength int
	cache          *ConceptCache
}

func NewConceptsService(client api.Client) *ConceptsService {
	return &ConceptsService{
		client:         client,
		defaultLimit:   DefaultConceptLimit,
		minQueryLength: MinConceptQueryLength,
	}
}

// WithLimits overrides the default page size and the minimum query length.
// Non-positive values keep the current setting.
func (s *ConceptsService) WithLimits(defaultLimit int, minQueryLength int) *ConceptsService {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if minQueryLength > 0 {
		s.minQueryLength = minQueryLength
	}
	return s
}

// WithCache remembers concepts from searches and lookups. A nil cache
// disables caching.
func (s *ConceptsService) WithCache(cache *ConceptCache) *ConceptsService {
	s.cache = cache
	return s
}

// Search returns the concepts matching query as []models.Concept. Queries
// shorter than the minimum length succeed with no results and no request.
func (s *ConceptsService) Search(ctx context.Context, query string, opts SearchOptions) api.Result {

	query = strings.TrimSpace(query)
	if len([]rune(query)) < s.minQueryLength {
		return api.Success{Data: []models.Concept{}}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("skip", strconv.Itoa(max(opts.Skip, 0)))
	for _, conceptType := range common.FilterEmpty(opts.Types...) {
		params.Add("type", conceptType)
	}

	result := s.client.Get(ctx, conceptsPath, api.RequestOptions{
		Query:       params,
		AccessToken: opts.AccessToken,
	})

	success, ok := result.(api.Success)
	if !ok {
		return result
	}

	concepts, err := decodeConcepts(success.Data)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"query": query,
		}).Warnln("Failed to read concepts response")
		return shapeFailure(success.StatusCode, err)
	}

	if s.cache != nil {
		s.cache.Put(concepts...)
	}

	return api.Success{Data: concepts, StatusCode: success.StatusCode}
}

// GetByIDs looks up several concepts at once and returns them as a
// map[string]models.Concept keyed by id.
func (s *ConceptsService) GetByIDs(ctx context.Context, ids []string, accessToken string) api.Result {

	if len(ids) == 0 {
		return api.Success{Data: map[string]models.Concept{}}
	}

	byID := make(map[string]models.Concept, len(ids))

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.cache != nil {
			if concept, ok := s.cache.Get(id); ok {
				byID[id] = concept
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return api.Success{Data: byID}
	}

	params := url.Values{}
	for _, id := range missing {
		params.Add("concept_id", id)
	}

	result := s.client.Get(ctx, conceptsPath, api.RequestOptions{
		Query:       params,
		AccessToken: accessToken,
	})

	success, ok := result.(api.Success)
	if !ok {
		return result
	}

	concepts, err := decodeConcepts(success.Data)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"ids": len(missing),
		}).Warnln("Failed to read concepts response")
		return shapeFailure(success.StatusCode, err)
	}

	if s.cache != nil {
		s.cache.Put(concepts...)
	}

	for _, concept := range concepts {
		if len(concept.ID) > 0 {
			byID[concept.ID] = concept
		}
	}

	return api.Success{Data: byID, StatusCode: success.StatusCode}
}

func decodeConcepts(data any) ([]models.Concept, error) {

	items, err := dataItems(data)
	if err != nil {
		return nil, err
	}

	concepts, err := decodeItems[models.Concept](items)
	if err != nil {
		return nil, err
	}

	for i := range concepts {
		if concepts[i].Synonyms == nil {
			concepts[i].Synonyms = []string{}
		}
	}

	return concepts, nil
}
