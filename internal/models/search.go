package models

// Concept is an ontology entry returned by the concepts endpoint.
type Concept struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Synonyms    []string `json:"synonyms"`
}

// Token converts the concept into a session token.
func (c Concept) Token() SessionToken {
	tokenType := c.Type
	if len(tokenType) == 0 {
		tokenType = TokenTypeFreeText
	}
	return SessionToken{
		ID:          c.ID,
		Name:        c.Name,
		Type:        tokenType,
		Description: c.Description,
	}
}

// StudyResult is a document as returned by the documents endpoint, flattened
// for display.
type StudyResult struct {
	DocumentID      string   `json:"document_id,omitempty"`
	Title           string   `json:"title"`
	Authors         string   `json:"authors,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
	Journal         string   `json:"journal,omitempty"`
	PMID            string   `json:"pmid,omitempty"`
	DOI             string   `json:"doi,omitempty"`
	Abstract        string   `json:"abstract,omitempty"`
	Source          string   `json:"source"`
	RelevanceScore  *float64 `json:"relevance_score,omitempty"`
}

// ArticleResult is a StudyResult with a stable display id.
type ArticleResult struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Authors         string   `json:"authors,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
	Journal         string   `json:"journal,omitempty"`
	PMID            string   `json:"pmid,omitempty"`
	DOI             string   `json:"doi,omitempty"`
	Abstract        string   `json:"abstract,omitempty"`
	Source          string   `json:"source"`
	RelevanceScore  *float64 `json:"relevance_score,omitempty"`
	Date            string   `json:"date,omitempty"`
	Tags            []string `json:"tags"`
}

// SearchQuery describes what produced a set of articles.
type SearchQuery struct {
	Tokens       []SessionToken `json:"tokens"`
	Operators    []bool         `json:"operators"`
	SearchString string         `json:"search_string"`
}

// ArticleSearchResults is the response of the documents search route.
type ArticleSearchResults struct {
	Query           SearchQuery     `json:"query"`
	Articles        []ArticleResult `json:"articles"`
	TotalResults    int             `json:"total_results"`
	SearchTimestamp string          `json:"search_timestamp"`
	SortBy          string          `json:"sort_by"`
}
