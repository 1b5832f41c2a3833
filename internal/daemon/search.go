package daemon

import (
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/models"
	sessionManager "github.com/thand-io/components/internal/sessions"
	"github.com/thand-io/components/internal/services"
)

const exportFilename = "export.csv"

// accessToken returns the bearer token of the caller, forwarded as is to
// the backend.
func accessToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}

// writeResultFailure answers any non Success result.
func (s *Server) writeResultFailure(c *gin.Context, result api.Result) {
	api.Match(result,
		func(api.Success) struct{} {
			s.writeError(c, http.StatusInternalServerError, "Unexpected result")
			return struct{}{}
		},
		func(f api.Failure) struct{} {
			s.writeFailure(c, f)
			return struct{}{}
		},
	)
}

// getConcepts searches the ontology
//
//	@Summary	Concept autocomplete
//	@Tags		search
//	@Produce	json
//	@Param		q		query		string	true	"Query"
//	@Param		limit	query		int		false	"Page size"
//	@Param		skip	query		int		false	"Offset"
//	@Param		type	query		[]string	false	"Concept types"
//	@Success	200		{array}		models.Concept
//	@Failure	502		{object}	models.ErrorResponse
//	@Router		/api/v1/concepts [get]
func (s *Server) getConcepts(c *gin.Context) {

	atomic.AddInt64(&s.SearchRequests, 1)

	result := s.Concepts.Search(c.Request.Context(), c.Query("q"), services.SearchOptions{
		AccessToken: accessToken(c),
		Limit:       queryInt(c, "limit"),
		Skip:        queryInt(c, "skip"),
		Types:       common.SplitList(c.QueryArray("type")...),
	})

	success, ok := result.(api.Success)
	if !ok {
		s.writeResultFailure(c, result)
		return
	}

	c.JSON(http.StatusOK, success.Data)
}

// searchDocuments runs the document search for the request. Without a q
// parameter the query is built from the session tokens.
func (s *Server) searchDocuments(c *gin.Context) (*models.ArticleSearchResults, bool) {

	atomic.AddInt64(&s.SearchRequests, 1)

	query := strings.TrimSpace(c.Query("q"))
	state := sessionManager.EmptyState()
	if len(query) == 0 {
		state = s.Tokens.State(sessions.Default(c))
		query = services.BuildConceptQuery(state.Tokens, state.Operators)
	}

	sort := c.DefaultQuery("sort", services.DefaultSort)

	result := s.Documents.Search(c.Request.Context(), query, services.DocumentSearchOptions{
		AccessToken: accessToken(c),
		Limit:       queryInt(c, "limit"),
		Skip:        queryInt(c, "skip"),
		Sources:     common.SplitList(c.QueryArray("source")...),
		Sort:        sort,
		FromDate:    c.Query("from_date"),
		ToDate:      c.Query("to_date"),
	})

	success, ok := result.(api.Success)
	if !ok {
		s.writeResultFailure(c, result)
		return nil, false
	}

	studies, _ := success.Data.([]models.StudyResult)
	articles := services.StudiesToArticles(studies)

	return &models.ArticleSearchResults{
		Query: models.SearchQuery{
			Tokens:       state.Tokens,
			Operators:    state.Operators,
			SearchString: query,
		},
		Articles:        articles,
		TotalResults:    len(articles),
		SearchTimestamp: time.Now().UTC().Format(time.RFC3339),
		SortBy:          sort,
	}, true
}

// getDocuments searches the document sources
//
//	@Summary	Document search
//	@Tags		search
//	@Produce	json
//	@Param		q			query		string		false	"Query, defaults to the session tokens"
//	@Param		limit		query		int			false	"Page size"
//	@Param		skip		query		int			false	"Offset"
//	@Param		source		query		[]string	false	"Document sources"
//	@Param		sort		query		string		false	"relevance, published:asc or published:desc"
//	@Param		from_date	query		string		false	"YYYY-MM-DD"
//	@Param		to_date		query		string		false	"YYYY-MM-DD"
//	@Success	200			{object}	models.ArticleSearchResults
//	@Failure	400			{object}	models.ErrorResponse
//	@Router		/api/v1/documents [get]
func (s *Server) getDocuments(c *gin.Context) {

	results, ok := s.searchDocuments(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, results)
}

// getDocumentsExport runs the same search as getDocuments and answers with
// a CSV attachment
//
//	@Summary	Export a document search as CSV
//	@Tags		search
//	@Produce	text/csv
//	@Success	200	{string}	string	"CSV"
//	@Router		/api/v1/documents/export.csv [get]
func (s *Server) getDocumentsExport(c *gin.Context) {

	results, ok := s.searchDocuments(c)
	if !ok {
		return
	}

	csv, err := services.ArticlesCSV(results.Articles)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, "Failed to generate CSV", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+exportFilename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
