package services

import (
	"strings"

	"github.com/thand-io/components/internal/models"
)

// BuildConceptQuery turns session tokens into a backend query string.
// Ontology concepts are matched with concept_id(<id>), anything else as a
// quoted phrase. operators[i] joins tokens i and i+1; a missing operator
// means AND.
//
//	concept_id(HGNC:1100) OR "breast cancer"
func BuildConceptQuery(tokens []models.SessionToken, operators []bool) string {

	if len(tokens) == 0 {
		return ""
	}

	var query strings.Builder
	query.WriteString(formatConcept(tokens[0]))

	for i, token := range tokens[1:] {
		and := true
		if i < len(operators) {
			and = operators[i]
		}
		query.WriteString(" ")
		query.WriteString(models.OperatorLabel(and))
		query.WriteString(" ")
		query.WriteString(formatConcept(token))
	}

	return query.String()
}

// phraseEscaper keeps a phrase inside its quotes.
var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func formatConcept(token models.SessionToken) string {
	if token.IsConcept() {
		return "concept_id(" + token.ID + ")"
	}
	return `"` + phraseEscaper.Replace(token.Name) + `"`
}
