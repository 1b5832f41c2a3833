package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/models"
)

const documentsBody = `{"data":[
	{
		"document_id":"d-1",
		"title":"BRCA1 and breast cancer",
		"authors":[{"name":"Jane Doe"},{"given_name":"John"},"R. Roe"],
		"published":"2024-02-01",
		"journal":"Nature",
		"other_ids":[{"type":"pmid","value":"12345678"},{"namespace":"doi","id":"10.1000/xyz"}],
		"snippet":"An abstract.",
		"document_type":"publications",
		"relevance_score":0.92
	},
	{
		"title":"Trial of something",
		"authors":"Some Consortium",
		"other_ids":[{"type":"pmid","value":12345679}]
	}
]}`

func TestDocumentsService_EmptyQuery(t *testing.T) {
	b := newBackend(t, http.StatusOK, documentsBody)
	service := NewDocumentsService(b.client(t))

	for _, query := range []string{"", "   "} {
		failure, ok := service.Search(context.Background(), query, DocumentSearchOptions{}).(api.Failure)
		require.True(t, ok)
		assert.Equal(t, api.ErrorKindHttpError, failure.Error.Kind)
		assert.Equal(t, http.StatusBadRequest, failure.Error.StatusCode)
		assert.Equal(t, "Search query cannot be empty", failure.Error.Message)
	}

	assert.Equal(t, int32(0), b.hits.Load())
}

func TestDocumentsService_Params(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		b := newBackend(t, http.StatusOK, `{"data":[]}`)
		NewDocumentsService(b.client(t)).Search(context.Background(), " BRCA1 ", DocumentSearchOptions{})

		query := b.lastQuery()
		assert.Equal(t, "BRCA1", query.Get("q"))
		assert.Equal(t, "50", query.Get("limit"))
		assert.Equal(t, "0", query.Get("skip"))
		assert.Equal(t, "relevance", query.Get("sort"))
		assert.Equal(t, []string{"publications", "clinical-trials", "preprints"}, query["source"])
		assert.False(t, query.Has("from_date"))
		assert.False(t, query.Has("to_date"))
	})

	t.Run("options", func(t *testing.T) {
		b := newBackend(t, http.StatusOK, `{"data":[]}`)
		NewDocumentsService(b.client(t)).WithLimit(20).Search(context.Background(), "BRCA1", DocumentSearchOptions{
			Skip:     40,
			Sources:  []string{SourcePatents},
			Sort:     SortPublishedDesc,
			FromDate: "2020-01-01",
			ToDate:   "2024-12-31",
		})

		query := b.lastQuery()
		assert.Equal(t, "20", query.Get("limit"))
		assert.Equal(t, "40", query.Get("skip"))
		assert.Equal(t, "published:desc", query.Get("sort"))
		assert.Equal(t, []string{"patents"}, query["source"])
		assert.Equal(t, "2020-01-01", query.Get("from_date"))
		assert.Equal(t, "2024-12-31", query.Get("to_date"))
	})
}

func TestDocumentsService_Transform(t *testing.T) {
	b := newBackend(t, http.StatusOK, documentsBody)
	result := NewDocumentsService(b.client(t)).Search(context.Background(), "BRCA1", DocumentSearchOptions{})

	success, ok := result.(api.Success)
	require.True(t, ok)

	studies, ok := success.Data.([]models.StudyResult)
	require.True(t, ok)
	require.Len(t, studies, 2)

	first := studies[0]
	assert.Equal(t, "d-1", first.DocumentID)
	assert.Equal(t, "BRCA1 and breast cancer", first.Title)
	assert.Equal(t, "Jane Doe, John, R. Roe", first.Authors)
	assert.Equal(t, "2024-02-01", first.PublicationDate)
	assert.Equal(t, "Nature", first.Journal)
	assert.Equal(t, "12345678", first.PMID)
	assert.Equal(t, "10.1000/xyz", first.DOI)
	assert.Equal(t, "An abstract.", first.Abstract)
	assert.Equal(t, "publications", first.Source)
	require.NotNil(t, first.RelevanceScore)
	assert.InDelta(t, 0.92, *first.RelevanceScore, 1e-9)

	second := studies[1]
	assert.Equal(t, "Some Consortium", second.Authors)
	assert.Equal(t, "12345679", second.PMID)
	assert.Equal(t, "unknown", second.Source)
	assert.Nil(t, second.RelevanceScore)
}

func TestDocumentsService_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		b := newBackend(t, http.StatusBadGateway, `{"error":{"message":"index offline"}}`)
		failure, ok := NewDocumentsService(b.client(t)).Search(context.Background(), "BRCA1", DocumentSearchOptions{}).(api.Failure)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, failure.Error.StatusCode)
		assert.Equal(t, "index offline", failure.Error.Message)
	})

	t.Run("non object document", func(t *testing.T) {
		b := newBackend(t, http.StatusOK, `{"data":[1]}`)
		failure, ok := NewDocumentsService(b.client(t)).Search(context.Background(), "BRCA1", DocumentSearchOptions{}).(api.Failure)
		require.True(t, ok)
		assert.Equal(t, api.ErrorKindDecodeError, failure.Error.Kind)
	})
}

func TestStudyToArticle(t *testing.T) {
	score := 0.5

	tests := []struct {
		name     string
		study    models.StudyResult
		expected string
	}{
		{"pmid first", models.StudyResult{PMID: "1", DocumentID: "d", DOI: "x"}, "pmid:1"},
		{"document id second", models.StudyResult{DocumentID: "d", DOI: "x"}, "doc:d"},
		{"doi third", models.StudyResult{DOI: "10.1/x"}, "doi:10.1/x"},
		{"fallback uses index", models.StudyResult{}, "doc:fallback_7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.study.Title = "Title"
			tt.study.PublicationDate = "2024-01-01"
			tt.study.RelevanceScore = &score

			article := StudyToArticle(tt.study, 7)
			assert.Equal(t, tt.expected, article.ID)
			assert.Equal(t, "Title", article.Title)
			assert.Equal(t, "2024-01-01", article.Date)
			assert.Equal(t, &score, article.RelevanceScore)
			assert.Equal(t, []string{}, article.Tags)
		})
	}
}

func TestStudiesToArticles(t *testing.T) {
	articles := StudiesToArticles([]models.StudyResult{{}, {PMID: "9"}, {}})
	require.Len(t, articles, 3)
	assert.Equal(t, "doc:fallback_0", articles[0].ID)
	assert.Equal(t, "pmid:9", articles[1].ID)
	assert.Equal(t, "doc:fallback_2", articles[2].ID)
}
