package services

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/thand-io/components/internal/models"
)

// GenerateCSV renders a header row followed by rows. Lines end in CRLF and
// nil cells are empty.
func GenerateCSV(headers []string, rows [][]any) (string, error) {

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, 0, len(headers))
	for i, row := range rows {
		record = record[:0]
		for _, cell := range row {
			record = append(record, cellValue(cell))
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.String(), nil
}

func cellValue(cell any) string {
	switch v := cell.(type) {
	case *float64:
		if v == nil {
			return ""
		}
		return stringValue(*v)
	case fmt.Stringer:
		return v.String()
	default:
		return stringValue(v)
	}
}

var articleCSVHeaders = []string{
	"ID", "Title", "Authors", "Journal", "Publication Date", "PMID", "DOI", "Source", "Relevance Score",
}

// ArticlesCSV exports search results with one row per article.
func ArticlesCSV(articles []models.ArticleResult) (string, error) {
	rows := make([][]any, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []any{
			a.ID,
			a.Title,
			a.Authors,
			a.Journal,
			a.PublicationDate,
			a.PMID,
			a.DOI,
			a.Source,
			a.RelevanceScore,
		})
	}
	return GenerateCSV(articleCSVHeaders, rows)
}
