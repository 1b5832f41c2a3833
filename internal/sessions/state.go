package sessions

import (
	"bytes"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// State is the token list of one session together with the operators that
// join consecutive tokens. Operators[i] sits between Tokens[i] and
// Tokens[i+1]; true means AND, false means OR.
//
// len(Operators) == max(len(Tokens)-1, 0) holds for every State returned by
// this package.
type State struct {
	Tokens    []models.SessionToken `json:"tokens"`
	Operators []bool                `json:"operators"`
}

// EmptyState returns a state with non-nil empty slices so it encodes as
// {"tokens":[],"operators":[]}.
func EmptyState() State {
	return State{
		Tokens:    []models.SessionToken{},
		Operators: []bool{},
	}
}

// ExpectedOperators is the operator count a list of n tokens needs.
func ExpectedOperators(n int) int {
	return max(n-1, 0)
}

// Consistent reports whether the operator count matches the token count.
func (s State) Consistent() bool {
	return len(s.Operators) == ExpectedOperators(len(s.Tokens))
}

// Index returns the position of the token with the given id, or -1.
func (s State) Index(tokenID string) int {
	for i, token := range s.Tokens {
		if token.ID == tokenID {
			return i
		}
	}
	return -1
}

// clone copies both slices so callers never share backing arrays with the
// decoded session value.
func (s State) clone() State {
	out := EmptyState()
	out.Tokens = append(out.Tokens, s.Tokens...)
	out.Operators = append(out.Operators, s.Operators...)
	return out
}

// repaired pads or truncates the operators to match the tokens. Missing
// operators default to AND.
func (s State) repaired() State {
	out := s.clone()
	want := ExpectedOperators(len(out.Tokens))
	if len(out.Operators) > want {
		out.Operators = out.Operators[:want]
	}
	for len(out.Operators) < want {
		out.Operators = append(out.Operators, true)
	}
	return out
}

// removeAt drops the token at i together with one operator: the one before
// it when i is the last token, otherwise the one after it.
func (s State) removeAt(i int) State {
	n := len(s.Tokens)
	out := EmptyState()

	for j, token := range s.Tokens {
		if j != i {
			out.Tokens = append(out.Tokens, token)
		}
	}

	if n <= 1 {
		return out
	}

	drop := i
	if i == n-1 {
		drop = i - 1
	}

	for j, op := range s.Operators {
		if j != drop {
			out.Operators = append(out.Operators, op)
		}
	}

	return out.repaired()
}

// sanitized removes invalid and duplicate tokens (first id wins), keeping
// the operator list aligned, then repairs the operator count.
func (s State) sanitized() State {
	out := s.repaired()
	seen := make(map[string]struct{}, len(out.Tokens))

	for i := 0; i < len(out.Tokens); {
		token := out.Tokens[i]
		_, duplicate := seen[token.ID]
		if duplicate || token.Validate() != nil {
			out = out.removeAt(i)
			continue
		}
		seen[token.ID] = struct{}{}
		i++
	}

	return out
}

// legacyToken is the format written by earlier releases: a bare JSON array
// of tokens, each carrying the operator joining it to the previous token.
type legacyToken struct {
	models.SessionToken
	Operator string `json:"operator"`
}

// decodeState parses a raw session value. Anything unreadable is an empty
// state.
func decodeState(raw any) State {

	var data []byte

	switch v := raw.(type) {
	case nil:
		return EmptyState()
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case State:
		return v.sanitized()
	default:
		logrus.WithFields(logrus.Fields{
			"type": fmt.Sprintf("%T", raw),
		}).Warnln("Ignoring session tokens with unexpected type")
		return EmptyState()
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return EmptyState()
	}

	if data[0] == '[' {
		return decodeLegacyState(data)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		logrus.WithError(err).Warnln("Ignoring malformed session tokens")
		return EmptyState()
	}

	return state.sanitized()
}

func decodeLegacyState(data []byte) State {

	var legacy []legacyToken
	if err := json.Unmarshal(data, &legacy); err != nil {
		logrus.WithError(err).Warnln("Ignoring malformed legacy session tokens")
		return EmptyState()
	}

	state := EmptyState()
	for i, token := range legacy {
		state.Tokens = append(state.Tokens, token.SessionToken)
		if i > 0 {
			state.Operators = append(state.Operators, legacyOperator(token))
		}
	}

	return state.sanitized()
}

// legacyOperator maps the older per-token operator onto AND/OR. Anything
// else, such as NOT, cannot be expressed and reads as AND.
func legacyOperator(token legacyToken) bool {
	switch strings.ToUpper(strings.TrimSpace(token.Operator)) {
	case "", "AND":
		return true
	case "OR":
		return false
	default:
		logrus.WithFields(logrus.Fields{
			"token":    token.ID,
			"operator": token.Operator,
		}).Warnln("Unsupported legacy operator, reading it as AND")
		return true
	}
}

func encodeState(state State) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
