package models

import (
	"fmt"
	"strings"

	"github.com/thand-io/components/internal/common"
)

// Token types used by the search UI.
const (
	TokenTypeFreeText = "free_text"
	TokenTypeDisease  = "disease"
	TokenTypeDrug     = "drug"
	TokenTypeGene     = "gene"
)

// SessionToken is a search filter criterion stored in the user's session.
// It is unrelated to authentication tokens.
type SessionToken struct {
	ID          string `json:"id" validate:"notblank"`
	Name        string `json:"name" validate:"notblank"`
	Type        string `json:"type" validate:"notblank"`
	Description string `json:"description,omitempty"`
}

// NewSessionToken creates a validated token.
func NewSessionToken(id string, name string, tokenType string) (SessionToken, error) {
	token := SessionToken{
		ID:   id,
		Name: name,
		Type: tokenType,
	}
	if err := token.Validate(); err != nil {
		return SessionToken{}, err
	}
	return token, nil
}

// Validate checks that id, name and type are present.
func (t SessionToken) Validate() error {
	if err := common.ValidateStruct(t); err != nil {
		return fmt.Errorf("invalid session token: %w", err)
	}
	return nil
}

// IsConcept reports whether the token refers to an ontology concept rather
// than free text. Concept ids are namespaced, e.g. "HGNC:1100".
func (t SessionToken) IsConcept() bool {
	return strings.Contains(t.ID, ":") &&
		!strings.HasPrefix(t.ID, TokenTypeFreeText+":") &&
		t.Type != TokenTypeFreeText
}

// OperatorLabel renders an operator flag. true joins with AND, false with OR.
func OperatorLabel(and bool) string {
	if and {
		return "AND"
	}
	return "OR"
}
