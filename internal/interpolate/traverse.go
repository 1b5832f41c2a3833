package interpolate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/sirupsen/logrus"
)

var ErrNoResult = errors.New("no result from jq evaluation")

// Expression is a compiled jq program. It is safe for concurrent use.
type Expression struct {
	source string
	code   *gojq.Code
}

// Compile parses and compiles a jq expression. An optional ${ } wrapper is
// stripped so config values can use either form.
func Compile(expression string) (*Expression, error) {

	source := sanitizeExpression(expression)

	if len(source) == 0 {
		return nil, fmt.Errorf("jq expression is empty")
	}

	query, err := gojq.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq expression: %s, error: %w", source, err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %s, error: %w", source, err)
	}

	return &Expression{
		source: source,
		code:   code,
	}, nil
}

// MustCompile is Compile for expressions known at build time.
func MustCompile(expression string) *Expression {
	expr, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return expr
}

func (e *Expression) String() string {
	return e.source
}

// First returns the first value the expression emits for input.
func (e *Expression) First(input any) (any, error) {

	iter := e.code.Run(input)
	result, ok := iter.Next()
	if !ok {
		return nil, ErrNoResult
	}

	// If there's an error from the jq engine, report it
	if errVal, isErr := result.(error); isErr {
		return nil, fmt.Errorf("jq evaluation error: %w", errVal)
	}

	return result, nil
}

// FirstString returns the first emitted value when it is a non-empty string.
func (e *Expression) FirstString(input any) (string, bool) {

	result, err := e.First(input)

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"expression": e.source,
		}).WithError(err).Debugln("jq expression produced no value")
		return "", false
	}

	str, ok := result.(string)
	if !ok {
		return "", false
	}

	str = strings.TrimSpace(str)
	return str, len(str) > 0
}

// sanitizeExpression removes surrounding whitespace and an optional ${ }
// wrapper.
func sanitizeExpression(expression string) string {
	expression = strings.TrimSpace(expression)
	if strings.HasPrefix(expression, "${") && strings.HasSuffix(expression, "}") {
		expression = strings.TrimSpace(expression[2 : len(expression)-1])
	}
	return expression
}
