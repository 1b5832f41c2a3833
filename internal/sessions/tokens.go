package sessions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/models"
)

const DefaultSessionKey = "search_tokens"

var ErrOperatorIndex = errors.New("operator index out of range")

// OperatorIndexError reports a toggle outside the operator list.
type OperatorIndexError struct {
	Index int
	Count int
}

func (e *OperatorIndexError) Error() string {
	return fmt.Sprintf("operator index %d out of range [0, %d)", e.Index, e.Count)
}

func (e *OperatorIndexError) Unwrap() error {
	return ErrOperatorIndex
}

// TokenStore reads and writes the search tokens kept in a session. It holds
// no state of its own, so one store can serve every request.
type TokenStore struct {
	key string
}

func NewTokenStore(key string) TokenStore {
	key = strings.TrimSpace(key)
	if len(key) == 0 {
		key = DefaultSessionKey
	}
	return TokenStore{key: key}
}

func (s TokenStore) Key() string {
	if len(s.key) == 0 {
		return DefaultSessionKey
	}
	return s.key
}

// State returns the decoded tokens and operators. A missing or unreadable
// entry yields an empty state.
func (s TokenStore) State(session Session) State {
	if session == nil {
		return EmptyState()
	}
	return decodeState(session.Get(s.Key()))
}

func (s TokenStore) Tokens(session Session) []models.SessionToken {
	return s.State(session).Tokens
}

func (s TokenStore) Operators(session Session) []bool {
	return s.State(session).Operators
}

// Add appends a token, or replaces the token with the same id in place.
// Appending after an existing token joins it with AND.
func (s TokenStore) Add(session Session, token models.SessionToken) ([]models.SessionToken, error) {

	if err := token.Validate(); err != nil {
		return s.Tokens(session), err
	}

	state := s.State(session)

	if i := state.Index(token.ID); i >= 0 {
		state.Tokens[i] = token
	} else {
		if len(state.Tokens) > 0 {
			state.Operators = append(state.Operators, true)
		}
		state.Tokens = append(state.Tokens, token)
	}

	s.write(session, state)

	return state.Tokens, nil
}

// Remove deletes the token with the given id. The operator before it goes
// when it was the last token, otherwise the operator after it. Unknown ids
// leave the session untouched.
func (s TokenStore) Remove(session Session, tokenID string) []models.SessionToken {

	state := s.State(session)

	i := state.Index(tokenID)
	if i < 0 {
		return state.Tokens
	}

	state = state.removeAt(i)
	s.write(session, state)

	return state.Tokens
}

// ToggleOperator flips the operator at index between AND and OR.
func (s TokenStore) ToggleOperator(session Session, index int) ([]bool, error) {

	state := s.State(session)

	if index < 0 || index >= len(state.Operators) {
		return state.Operators, &OperatorIndexError{
			Index: index,
			Count: len(state.Operators),
		}
	}

	state.Operators[index] = !state.Operators[index]
	s.write(session, state)

	return state.Operators, nil
}

// Clear removes every token.
func (s TokenStore) Clear(session Session) []models.SessionToken {
	state := EmptyState()
	s.write(session, state)
	return state.Tokens
}

// Replace stores a complete state, for example a saved filter. Every token
// must be valid. Duplicate ids keep their first occurrence and the operator
// list is fitted to the token count.
func (s TokenStore) Replace(session Session, state State) (State, error) {

	for i, token := range state.Tokens {
		if err := token.Validate(); err != nil {
			return s.State(session), fmt.Errorf("token %d: %w", i, err)
		}
	}

	state = state.sanitized()
	s.write(session, state)

	return state, nil
}

func (s TokenStore) write(session Session, state State) {

	if session == nil {
		logrus.WithFields(logrus.Fields{
			"key": s.Key(),
		}).Warnln("No session available, search tokens not stored")
		return
	}

	encoded, err := encodeState(state)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"key": s.Key(),
		}).Errorln("Failed to encode search tokens")
		return
	}

	session.Set(s.Key(), encoded)

	logrus.WithFields(logrus.Fields{
		"key":       s.Key(),
		"tokens":    len(state.Tokens),
		"operators": len(state.Operators),
	}).Debugln("Stored search tokens")
}
