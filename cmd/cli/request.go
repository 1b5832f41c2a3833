package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errRequestFailed = errors.New("request failed")

var supportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// requestCmd sends one request through the configured client and prints
// the result.
var requestCmd = &cobra.Command{
	Use:   "request <METHOD> <path>",
	Short: "Send a request to the backend API",
	Long: `Send one request through the configured API client and print the
result. Remote failures are printed with their kind and status.

  components request GET /concepts --param q=BRCA1 --param limit=5
  components request POST /documents/search --data '{"q":"tumor"}'`,
	Args: cobra.ExactArgs(2),
	RunE: runRequest,
}

func runRequest(cmd *cobra.Command, args []string) error {

	method := strings.ToUpper(args[0])
	if !isSupportedMethod(method) {
		return fmt.Errorf("unsupported method %q, expected one of %s",
			args[0], strings.Join(supportedMethods, ", "))
	}

	opts, err := requestOptions(cmd)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	result := client.Do(ctx, method, args[1], opts)

	return printResult(cmd.OutOrStdout(), result)
}

func isSupportedMethod(method string) bool {
	for _, supported := range supportedMethods {
		if method == supported {
			return true
		}
	}
	return false
}

func requestOptions(cmd *cobra.Command) (api.RequestOptions, error) {

	var opts api.RequestOptions

	params, _ := cmd.Flags().GetStringArray("param")
	query, err := parsePairs(params, "=")
	if err != nil {
		return opts, fmt.Errorf("invalid --param: %w", err)
	}
	opts.Query = query

	headers, _ := cmd.Flags().GetStringArray("header")
	headerValues, err := parsePairs(headers, ":")
	if err != nil {
		return opts, fmt.Errorf("invalid --header: %w", err)
	}
	if len(headerValues) > 0 {
		opts.Headers = make(map[string]string, len(headerValues))
		for key := range headerValues {
			opts.Headers[key] = headerValues.Get(key)
		}
	}

	if data, _ := cmd.Flags().GetString("data"); len(data) > 0 {
		var body any
		if err := json.Unmarshal([]byte(data), &body); err != nil {
			return opts, fmt.Errorf("invalid --data, expected JSON: %w", err)
		}
		opts.Body = body
	}

	opts.AccessToken, _ = cmd.Flags().GetString("token")

	return opts, nil
}

// parsePairs splits "key<sep>value" entries. Keys may repeat.
func parsePairs(pairs []string, sep string) (url.Values, error) {
	values := url.Values{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, sep)
		key = strings.TrimSpace(key)
		if !found || len(key) == 0 {
			return nil, fmt.Errorf("%q is not key%svalue", pair, sep)
		}
		values.Add(key, strings.TrimSpace(value))
	}
	return values, nil
}

// printResult writes a Success as indented JSON and a Failure with its kind
// and status. A Failure also returns errRequestFailed for the exit code.
func printResult(w io.Writer, result api.Result) error {
	return api.Match(result,
		func(success api.Success) error {
			fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Success (status %d)", success.StatusCode)))
			body, err := json.MarshalIndent(success.Data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render response: %w", err)
			}
			fmt.Fprintln(w, string(body))
			return nil
		},
		func(failure api.Failure) error {
			apiErr := failure.Error
			title := fmt.Sprintf("Failure: %s", apiErr.Kind)
			if apiErr.HasStatus() {
				title = fmt.Sprintf("%s (status %d)", title, apiErr.StatusCode)
			}
			fmt.Fprintln(w, errorStyle.Render(title))
			fmt.Fprintln(w, apiErr.Message)
			if len(apiErr.Details) > 0 {
				fmt.Fprintln(w, mutedStyle.Render(apiErr.Details))
			}
			return errRequestFailed
		},
	)
}

func init() {
	requestCmd.Flags().StringArrayP("param", "p", nil, "Query parameter key=value, repeatable")
	requestCmd.Flags().StringArrayP("header", "H", nil, "Header 'Name: value', repeatable")
	requestCmd.Flags().StringP("data", "d", "", "JSON request body")
	requestCmd.Flags().String("token", "", "Bearer access token")

	rootCmd.AddCommand(requestCmd)
}
