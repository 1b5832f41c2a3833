package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thand-io/components/internal/models"
)

func TestBuildConceptQuery(t *testing.T) {
	brca := models.SessionToken{ID: "HGNC:1100", Name: "BRCA1", Type: models.TokenTypeGene}
	cancer := models.SessionToken{ID: "MONDO:0007254", Name: "breast cancer", Type: models.TokenTypeDisease}
	text := models.SessionToken{ID: "free_text:tamoxifen", Name: "tamoxifen", Type: models.TokenTypeDrug}
	typed := models.SessionToken{ID: "CHEBI:41774", Name: "tamoxifen", Type: models.TokenTypeFreeText}
	plain := models.SessionToken{ID: "123", Name: "olaparib", Type: models.TokenTypeDrug}
	quoted := models.SessionToken{ID: "free_text:quoted", Name: `the "BRCA" gene`, Type: models.TokenTypeFreeText}
	slashed := models.SessionToken{ID: "free_text:slashed", Name: `a\b`, Type: models.TokenTypeFreeText}

	tests := []struct {
		name      string
		tokens    []models.SessionToken
		operators []bool
		expected  string
	}{
		{"empty", nil, nil, ""},
		{"single concept", []models.SessionToken{brca}, nil, "concept_id(HGNC:1100)"},
		{"free text prefix", []models.SessionToken{text}, nil, `"tamoxifen"`},
		{"free text type", []models.SessionToken{typed}, nil, `"tamoxifen"`},
		{"id without namespace", []models.SessionToken{plain}, nil, `"olaparib"`},
		{"quotes escaped", []models.SessionToken{quoted}, nil, `"the \"BRCA\" gene"`},
		{"backslash escaped", []models.SessionToken{slashed}, nil, `"a\\b"`},
		{"and", []models.SessionToken{brca, cancer}, []bool{true}, "concept_id(HGNC:1100) AND concept_id(MONDO:0007254)"},
		{"or", []models.SessionToken{brca, text}, []bool{false}, `concept_id(HGNC:1100) OR "tamoxifen"`},
		{"missing operators default to and", []models.SessionToken{brca, cancer, plain}, []bool{false}, `concept_id(HGNC:1100) OR concept_id(MONDO:0007254) AND "olaparib"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildConceptQuery(tt.tokens, tt.operators))
		})
	}
}
