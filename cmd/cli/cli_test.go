package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/config"
	"github.com/thand-io/components/internal/models"
)

func TestParsePairs(t *testing.T) {
	values, err := parsePairs([]string{"q=BRCA1", "type=gene", "type = disease", "empty="}, "=")
	require.NoError(t, err)
	assert.Equal(t, url.Values{
		"q":     {"BRCA1"},
		"type":  {"gene", "disease"},
		"empty": {""},
	}, values)

	for _, bad := range []string{"novalue", "=x"} {
		_, err := parsePairs([]string{bad}, "=")
		assert.Error(t, err, bad)
	}
}

func TestPrintResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		err := printResult(&out, api.Success{Data: map[string]any{"ok": true}, StatusCode: 200})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Success (status 200)")
		assert.Contains(t, out.String(), `"ok": true`)
	})

	t.Run("failure", func(t *testing.T) {
		var out bytes.Buffer
		failure := api.NewFailure(api.ErrorKindHttpError, 404, "not found")
		failure.Error.Details = "GET /missing"

		err := printResult(&out, failure)
		assert.ErrorIs(t, err, errRequestFailed)
		assert.Contains(t, out.String(), "Failure: http_error (status 404)")
		assert.Contains(t, out.String(), "not found")
		assert.Contains(t, out.String(), "GET /missing")
	})

	t.Run("failure without status", func(t *testing.T) {
		var out bytes.Buffer
		err := printResult(&out, api.NewFailure(api.ErrorKindTimeout, 0, "Request timed out"))
		assert.ErrorIs(t, err, errRequestFailed)
		assert.Contains(t, out.String(), "Failure: timeout\n")
	})
}

func TestLoadFilter(t *testing.T) {
	cfg = config.DefaultConfig()
	t.Cleanup(func() { cfg = nil })

	dir := t.TempDir()

	path := filepath.Join(dir, "filter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tokens:
  - {id: "HGNC:1100", name: BRCA1, type: gene}
  - {id: "MONDO:0007254", name: breast cancer, type: disease}
  - {id: "free_text:tumor", name: tumor, type: free_text}
operators: [false]
`), 0o600))

	state, err := loadFilter(path)
	require.NoError(t, err)
	require.Len(t, state.Tokens, 3)
	assert.Equal(t, []bool{false, true}, state.Operators, "missing operators default to AND")

	var out bytes.Buffer
	printFilter(&out, state)
	assert.Contains(t, out.String(), "BRCA1")
	assert.Contains(t, out.String(), "OR")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"tokens":[{"id":"x","name":"","type":"gene"}]}`), 0o600))

	_, err = loadFilter(invalid)
	assert.ErrorContains(t, err, "invalid filter")

	_, err = loadFilter(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestPrintArticles(t *testing.T) {
	var out bytes.Buffer
	printArticles(&out, "BRCA1", []models.ArticleResult{{
		ID:              "pmid:1",
		Title:           "A paper",
		Authors:         "Jane Doe",
		PublicationDate: "2024-01-01",
		Source:          "publications",
	}})
	assert.Contains(t, out.String(), "1 documents for BRCA1")
	assert.Contains(t, out.String(), "Jane Doe | 2024-01-01")

	out.Reset()
	printArticles(&out, "nothing", nil)
	assert.Contains(t, out.String(), "No documents found")
}

func TestWriteArticlesCSV(t *testing.T) {
	articles := []models.ArticleResult{{ID: "pmid:1", Title: "A paper", Source: "publications"}}

	var out bytes.Buffer
	require.NoError(t, writeArticlesCSV(&out, "-", articles))
	assert.Contains(t, out.String(), "pmid:1,A paper")

	path := filepath.Join(t.TempDir(), "export.csv")
	out.Reset()
	require.NoError(t, writeArticlesCSV(&out, path, articles))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ID,Title,Authors")
	assert.Contains(t, out.String(), "Wrote 1 articles")
}

func TestRequestCommand(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
			return
		}
		w.Write([]byte(`{"data":[{"id":"HGNC:1100","name":"BRCA1","type":"gene"}]}`))
	}))
	defer backend.Close()

	t.Setenv("COMPONENTS_API_BASE_URL", "")
	t.Setenv("API_BASE_URL", "")

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append(args, "--api-url", backend.URL))
		err := rootCmd.Execute()
		return out.String(), err
	}

	output, err := run("request", "get", "/concepts", "--param", "q=BRCA1", "--token", "abc")
	require.NoError(t, err, output)
	assert.Contains(t, output, "Success (status 200)")
	assert.Contains(t, output, "HGNC:1100")
	assert.Equal(t, "BRCA1", gotQuery.Get("q"))
	assert.Equal(t, "Bearer abc", gotAuth)

	output, err = run("request", "GET", "/missing", "--token", "")
	assert.ErrorIs(t, err, errRequestFailed)
	assert.Contains(t, output, "Failure: http_error (status 404)")

	_, err = run("request", "TRACE", "/concepts")
	assert.ErrorContains(t, err, "unsupported method")

	output, err = run("concepts", "brca")
	require.NoError(t, err, output)
	assert.Contains(t, output, "1 concepts")
	assert.Equal(t, "brca", gotQuery.Get("q"))
}
