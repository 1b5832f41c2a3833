// Package services wraps the backend search endpoints on top of an injected
// api.Client. Every operation returns an api.Result; transport and HTTP
// failures are passed through untouched.
package services

import (
	"fmt"
	"strconv"

	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
)

// dataItems returns the list of records in a response. REST responses keep
// them under "data"; v2 clients have already unwrapped the envelope.
func dataItems(data any) ([]any, error) {
	switch v := data.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	case map[string]any:
		inner, found := v["data"]
		if !found || inner == nil {
			return []any{}, nil
		}
		items, ok := inner.([]any)
		if !ok {
			return nil, fmt.Errorf("data is %T, expected a list", inner)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("response is %T, expected an object or list", data)
	}
}

// decodeItems re-encodes generic records into typed values.
func decodeItems[T any](items []any) ([]T, error) {
	var out []T
	if err := common.ConvertInterfaceToInterface(items, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func shapeFailure(status int, err error) api.Failure {
	failure := api.NewFailure(api.ErrorKindDecodeError, 0, "Unexpected response format")
	failure.Error.Details = fmt.Sprintf("status %d: %v", status, err)
	return failure
}

// stringValue renders loosely typed JSON scalars.
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}
