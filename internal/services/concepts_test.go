package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/api/rest"
	v2 "github.com/thand-io/components/internal/api/v2"
	"github.com/thand-io/components/internal/models"
)

// backend records the last query it saw and answers with a fixed body.
type backend struct {
	server *httptest.Server
	hits   atomic.Int32
	query  atomic.Value
	status int
	body   string
}

func newBackend(t *testing.T, status int, body string) *backend {
	t.Helper()
	b := &backend{status: status, body: body}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		b.query.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(b.status)
		w.Write([]byte(b.body))
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) lastQuery() url.Values {
	q, _ := b.query.Load().(url.Values)
	return q
}

func (b *backend) client(t *testing.T) api.Client {
	t.Helper()
	client, err := rest.NewClient(api.Config{BaseURL: b.server.URL})
	require.NoError(t, err)
	return client
}

const conceptsBody = `{"data":[
	{"id":"HGNC:1100","name":"BRCA1","type":"gene","synonyms":["RNF53"]},
	{"id":"MONDO:0007254","name":"breast cancer","type":"disease"}
]}`

func TestConceptsService_ShortQuery(t *testing.T) {
	b := newBackend(t, http.StatusOK, conceptsBody)
	service := NewConceptsService(b.client(t))

	for _, query := range []string{"", " ", "B", " B "} {
		result := service.Search(context.Background(), query, SearchOptions{})
		success, ok := result.(api.Success)
		require.True(t, ok)
		assert.Equal(t, []models.Concept{}, success.Data)
	}

	assert.Equal(t, int32(0), b.hits.Load(), "short queries never reach the backend")
}

func TestConceptsService_Search(t *testing.T) {
	b := newBackend(t, http.StatusOK, conceptsBody)
	service := NewConceptsService(b.client(t))

	result := service.Search(context.Background(), " BRCA ", SearchOptions{
		Skip:  10,
		Types: []string{"gene", "disease"},
	})

	success, ok := result.(api.Success)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, success.StatusCode)

	query := b.lastQuery()
	assert.Equal(t, "BRCA", query.Get("q"))
	assert.Equal(t, "15", query.Get("limit"))
	assert.Equal(t, "10", query.Get("skip"))
	assert.Equal(t, []string{"gene", "disease"}, query["type"])

	concepts, ok := success.Data.([]models.Concept)
	require.True(t, ok)
	require.Len(t, concepts, 2)
	assert.Equal(t, models.Concept{ID: "HGNC:1100", Name: "BRCA1", Type: "gene", Synonyms: []string{"RNF53"}}, concepts[0])
	assert.Equal(t, []string{}, concepts[1].Synonyms)
}

func TestConceptsService_WithLimits(t *testing.T) {
	b := newBackend(t, http.StatusOK, `{"data":[]}`)
	service := NewConceptsService(b.client(t)).WithLimits(25, 4)

	result := service.Search(context.Background(), "abc", SearchOptions{})
	assert.IsType(t, api.Success{}, result)
	assert.Equal(t, int32(0), b.hits.Load())

	service.Search(context.Background(), "abcd", SearchOptions{})
	assert.Equal(t, "25", b.lastQuery().Get("limit"))

	service.Search(context.Background(), "abcd", SearchOptions{Limit: 3})
	assert.Equal(t, "3", b.lastQuery().Get("limit"))
}

func TestConceptsService_Failures(t *testing.T) {
	t.Run("http failure is passed through", func(t *testing.T) {
		b := newBackend(t, http.StatusUnauthorized, `{"message":"token expired"}`)
		result := NewConceptsService(b.client(t)).Search(context.Background(), "BRCA1", SearchOptions{AccessToken: "t"})

		failure, ok := result.(api.Failure)
		require.True(t, ok)
		assert.Equal(t, api.ErrorKindHttpError, failure.Error.Kind)
		assert.Equal(t, http.StatusUnauthorized, failure.Error.StatusCode)
		assert.Equal(t, "token expired", failure.Error.Message)
	})

	t.Run("unexpected shape is a decode error", func(t *testing.T) {
		b := newBackend(t, http.StatusOK, `{"data":"nope"}`)
		result := NewConceptsService(b.client(t)).Search(context.Background(), "BRCA1", SearchOptions{})

		failure, ok := result.(api.Failure)
		require.True(t, ok)
		assert.Equal(t, api.ErrorKindDecodeError, failure.Error.Kind)
		assert.Contains(t, failure.Error.Details, "status 200")
	})

	t.Run("missing data is empty", func(t *testing.T) {
		b := newBackend(t, http.StatusOK, `{}`)
		result := NewConceptsService(b.client(t)).Search(context.Background(), "BRCA1", SearchOptions{})

		success, ok := result.(api.Success)
		require.True(t, ok)
		assert.Equal(t, []models.Concept{}, success.Data)
	})
}

func TestConceptsService_V2Client(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/concepts", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"HGNC:1100","name":"BRCA1"}],"meta":{"total":1}}`))
	}))
	defer server.Close()

	client, err := v2.NewClient(api.Config{BaseURL: server.URL})
	require.NoError(t, err)

	result := NewConceptsService(client).Search(context.Background(), "BRCA1", SearchOptions{})
	success, ok := result.(api.Success)
	require.True(t, ok)
	assert.Equal(t, []models.Concept{{ID: "HGNC:1100", Name: "BRCA1", Synonyms: []string{}}}, success.Data)
}

func TestConceptsService_GetByIDs(t *testing.T) {
	t.Run("no ids", func(t *testing.T) {
		b := newBackend(t, http.StatusOK, conceptsBody)
		result := NewConceptsService(b.client(t)).GetByIDs(context.Background(), nil, "")

		success, ok := result.(api.Success)
		require.True(t, ok)
		assert.Equal(t, map[string]models.Concept{}, success.Data)
		assert.Equal(t, int32(0), b.hits.Load())
	})

	t.Run("keyed by id", func(t *testing.T) {
		b := newBackend(t, http.StatusOK, `{"data":[
			{"id":"HGNC:1100","name":"BRCA1"},
			{"name":"no id"}
		]}`)
		result := NewConceptsService(b.client(t)).GetByIDs(context.Background(), []string{"HGNC:1100", "HGNC:404"}, "token")

		assert.Equal(t, []string{"HGNC:1100", "HGNC:404"}, b.lastQuery()["concept_id"])

		success, ok := result.(api.Success)
		require.True(t, ok)
		byID, ok := success.Data.(map[string]models.Concept)
		require.True(t, ok)
		assert.Len(t, byID, 1)
		assert.Equal(t, "BRCA1", byID["HGNC:1100"].Name)
	})
}

func TestConceptsService_Cache(t *testing.T) {
	b := newBackend(t, http.StatusOK, conceptsBody)

	cache, err := NewConceptCache(8)
	require.NoError(t, err)

	service := NewConceptsService(b.client(t)).WithCache(cache)

	result := service.Search(context.Background(), "brca", SearchOptions{})
	_, ok := result.(api.Success)
	require.True(t, ok)
	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, int32(1), b.hits.Load())

	result = service.GetByIDs(context.Background(), []string{"HGNC:1100", "MONDO:0007254"}, "")
	success, ok := result.(api.Success)
	require.True(t, ok)
	byID := success.Data.(map[string]models.Concept)
	assert.Len(t, byID, 2)
	assert.Equal(t, []string{"RNF53"}, byID["HGNC:1100"].Synonyms)
	assert.Equal(t, int32(1), b.hits.Load(), "cached ids never reach the backend")

	service.GetByIDs(context.Background(), []string{"HGNC:1100", "HGNC:9999"}, "")
	assert.Equal(t, int32(2), b.hits.Load())
	assert.Equal(t, []string{"HGNC:9999"}, b.lastQuery()["concept_id"], "only missing ids are requested")
}

func TestConceptCache(t *testing.T) {
	_, err := NewConceptCache(0)
	assert.Error(t, err)

	cache, err := NewConceptCache(1)
	require.NoError(t, err)

	cache.Put(models.Concept{Name: "no id"})
	assert.Equal(t, 0, cache.Len())

	cache.Put(models.Concept{ID: "a"}, models.Concept{ID: "b"})
	assert.Equal(t, 1, cache.Len())

	_, ok := cache.Get("a")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = cache.Get("b")
	assert.True(t, ok)
}
