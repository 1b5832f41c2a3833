package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/models"
)

const (
	DefaultDocumentLimit = 50
	DefaultSort          = SortRelevance

	documentsPath = "/documents"
)

// Document sources understood by the backend.
const (
	SourcePublications   = "publications"
	SourceClinicalTrials = "clinical-trials"
	SourcePreprints      = "preprints"
	SourceGrants         = "grants"
	SourceDrugLabels     = "drug-labels"
	SourcePatents        = "patents"
	SourceWebArticles    = "web-articles"
)

const (
	SortRelevance     = "relevance"
	SortPublishedAsc  = "published:asc"
	SortPublishedDesc = "published:desc"
)

func DefaultSources() []string {
	return []string{SourcePublications, SourceClinicalTrials, SourcePreprints}
}

type DocumentSearchOptions struct {
	AccessToken string
	Limit       int
	Skip        int
	Sources     []string
	Sort        string
	// FromDate and ToDate are YYYY-MM-DD.
	FromDate string
	ToDate   string
}

// DocumentsService searches publications, trials, preprints and the other
// document sources.
type DocumentsService struct {
	client       api.Client
	defaultLimit int
}

func NewDocumentsService(client api.Client) *DocumentsService {
	return &DocumentsService{
		client:       client,
		defaultLimit: DefaultDocumentLimit,
	}
}

func (s *DocumentsService) WithLimit(defaultLimit int) *DocumentsService {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	return s
}

// Search returns the matching documents as []models.StudyResult.
func (s *DocumentsService) Search(ctx context.Context, query string, opts DocumentSearchOptions) api.Result {

	query = strings.TrimSpace(query)
	if len(query) == 0 {
		return api.NewFailure(api.ErrorKindHttpError, http.StatusBadRequest, "Search query cannot be empty")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	sort := opts.Sort
	if len(sort) == 0 {
		sort = DefaultSort
	}

	sources := common.FilterEmpty(opts.Sources...)
	if len(sources) == 0 {
		sources = DefaultSources()
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("skip", strconv.Itoa(max(opts.Skip, 0)))
	params.Set("sort", sort)
	for _, source := range sources {
		params.Add("source", source)
	}
	if len(opts.FromDate) > 0 {
		params.Set("from_date", opts.FromDate)
	}
	if len(opts.ToDate) > 0 {
		params.Set("to_date", opts.ToDate)
	}

	result := s.client.Get(ctx, documentsPath, api.RequestOptions{
		Query:       params,
		AccessToken: opts.AccessToken,
	})

	success, ok := result.(api.Success)
	if !ok {
		return result
	}

	studies, err := decodeStudies(success.Data)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"query": query,
		}).Warnln("Failed to read documents response")
		return shapeFailure(success.StatusCode, err)
	}

	logrus.WithFields(logrus.Fields{
		"query":   query,
		"results": len(studies),
	}).Debugln("Document search completed")

	return api.Success{Data: studies, StatusCode: success.StatusCode}
}

func decodeStudies(data any) ([]models.StudyResult, error) {

	items, err := dataItems(data)
	if err != nil {
		return nil, err
	}

	studies := make([]models.StudyResult, 0, len(items))
	for i, item := range items {
		doc, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("document %d is %T, expected an object", i, item)
		}
		studies = append(studies, transformDocument(doc))
	}

	return studies, nil
}

func transformDocument(doc map[string]any) models.StudyResult {

	pmid, doi := otherIDs(doc["other_ids"])

	source := stringValue(doc["document_type"])
	if len(source) == 0 {
		source = "unknown"
	}

	study := models.StudyResult{
		DocumentID:      stringValue(doc["document_id"]),
		Title:           stringValue(doc["title"]),
		Authors:         authorNames(doc["authors"]),
		PublicationDate: stringValue(doc["published"]),
		Journal:         stringValue(doc["journal"]),
		PMID:            pmid,
		DOI:             doi,
		Abstract:        stringValue(doc["snippet"]),
		Source:          source,
	}

	if score, ok := doc["relevance_score"].(float64); ok {
		study.RelevanceScore = &score
	}

	return study
}

// authorNames joins an author list. Entries may be plain strings or objects
// with a name or given_name.
func authorNames(raw any) string {

	authors, ok := raw.([]any)
	if !ok {
		return stringValue(raw)
	}

	names := make([]string, 0, len(authors))
	for _, author := range authors {
		entry, ok := author.(map[string]any)
		if !ok {
			names = append(names, stringValue(author))
			continue
		}
		name := stringValue(entry["name"])
		if len(name) == 0 {
			name = stringValue(entry["given_name"])
		}
		if len(name) == 0 {
			name = fmt.Sprint(entry)
		}
		names = append(names, name)
	}

	return strings.Join(names, ", ")
}

// otherIDs picks the pmid and doi out of entries shaped like
// {"type": "pmid", "value": "123"} or {"namespace": "doi", "id": "..."}.
func otherIDs(raw any) (pmid string, doi string) {

	entries, ok := raw.([]any)
	if !ok {
		return "", ""
	}

	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}

		idType := stringValue(entry["type"])
		if len(idType) == 0 {
			idType = stringValue(entry["namespace"])
		}

		value := stringValue(entry["value"])
		if len(value) == 0 {
			value = stringValue(entry["id"])
		}

		switch idType {
		case "pmid":
			pmid = value
		case "doi":
			doi = value
		}
	}

	return pmid, doi
}

// StudyToArticle converts a study into an article with a stable id, preferring
// pmid, then document id, then doi, then the position in the result list.
func StudyToArticle(study models.StudyResult, index int) models.ArticleResult {

	var id string
	switch {
	case len(study.PMID) > 0:
		id = "pmid:" + study.PMID
	case len(study.DocumentID) > 0:
		id = "doc:" + study.DocumentID
	case len(study.DOI) > 0:
		id = "doi:" + study.DOI
	default:
		id = fmt.Sprintf("doc:fallback_%d", index)
	}

	return models.ArticleResult{
		ID:              id,
		Title:           study.Title,
		Authors:         study.Authors,
		PublicationDate: study.PublicationDate,
		Journal:         study.Journal,
		PMID:            study.PMID,
		DOI:             study.DOI,
		Abstract:        study.Abstract,
		Source:          study.Source,
		RelevanceScore:  study.RelevanceScore,
		Date:            study.PublicationDate,
		Tags:            []string{},
	}
}

func StudiesToArticles(studies []models.StudyResult) []models.ArticleResult {
	articles := make([]models.ArticleResult, 0, len(studies))
	for i, study := range studies {
		articles = append(articles, StudyToArticle(study, i))
	}
	return articles
}
