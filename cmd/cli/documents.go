package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/models"
	"github.com/thand-io/components/internal/services"
	"github.com/thand-io/components/internal/sessions"
)

var documentsCmd = &cobra.Command{
	Use:   "documents [query]",
	Short: "Search documents",
	Long: `Search publications, trials and the other document sources.

The query is either given as arguments or built from a saved filter file
holding search tokens, in YAML or JSON:

  tokens:
    - {id: "HGNC:1100", name: BRCA1, type: gene}
    - {id: "MONDO:0007254", name: breast cancer, type: disease}
  operators: [false]

  components documents --filter brca.yaml --csv results.csv`,
	RunE: runDocuments,
}

// loadFilter reads a token filter file and fits it through the token store
// so the same validation and operator rules apply as for a session.
func loadFilter(path string) (sessions.State, error) {

	filter, err := common.ReadFileToInterface[sessions.State](path)
	if err != nil {
		return sessions.State{}, err
	}

	state, err := cfg.NewTokenStore().Replace(sessions.MapSession{}, *filter)
	if err != nil {
		return sessions.State{}, fmt.Errorf("invalid filter %s: %w", path, err)
	}

	return state, nil
}

func runDocuments(cmd *cobra.Command, args []string) error {

	filterPath, _ := cmd.Flags().GetString("filter")
	query := strings.TrimSpace(strings.Join(args, " "))

	if len(query) == 0 && len(filterPath) > 0 {
		state, err := loadFilter(filterPath)
		if err != nil {
			return err
		}
		printFilter(cmd.OutOrStdout(), state)
		query = services.BuildConceptQuery(state.Tokens, state.Operators)
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	skip, _ := cmd.Flags().GetInt("skip")
	sources, _ := cmd.Flags().GetStringSlice("source")
	sort, _ := cmd.Flags().GetString("sort")
	fromDate, _ := cmd.Flags().GetString("from")
	toDate, _ := cmd.Flags().GetString("to")
	token, _ := cmd.Flags().GetString("token")
	csvPath, _ := cmd.Flags().GetString("csv")

	service := services.NewDocumentsService(client).WithLimit(cfg.Search.DocumentLimit)

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	result := service.Search(ctx, query, services.DocumentSearchOptions{
		AccessToken: token,
		Limit:       limit,
		Skip:        skip,
		Sources:     common.SplitList(sources...),
		Sort:        sort,
		FromDate:    fromDate,
		ToDate:      toDate,
	})

	success, ok := result.(api.Success)
	if !ok {
		return printResult(cmd.OutOrStdout(), result)
	}

	studies, _ := success.Data.([]models.StudyResult)
	articles := services.StudiesToArticles(studies)

	if len(csvPath) > 0 {
		return writeArticlesCSV(cmd.OutOrStdout(), csvPath, articles)
	}

	printArticles(cmd.OutOrStdout(), query, articles)
	return nil
}

// writeArticlesCSV writes to path, or to out when path is "-".
func writeArticlesCSV(out io.Writer, path string, articles []models.ArticleResult) error {

	csv, err := services.ArticlesCSV(articles)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}

	if path == "-" {
		_, err := io.WriteString(out, csv)
		return err
	}

	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"path":     path,
		"articles": len(articles),
	}).Debugln("Exported search results")

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Wrote %d articles to %s", len(articles), path)))
	return nil
}

func printFilter(w io.Writer, state sessions.State) {
	parts := make([]string, 0, len(state.Tokens)*2)
	for i, token := range state.Tokens {
		if i > 0 {
			parts = append(parts, operatorStyle.Render(models.OperatorLabel(state.Operators[i-1])))
		}
		parts = append(parts, tokenStyle.Render(token.Name))
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

func printArticles(w io.Writer, query string, articles []models.ArticleResult) {

	if len(articles) == 0 {
		fmt.Fprintln(w, warningStyle.Render("No documents found for "+query))
		return
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d documents for %s", len(articles), query)))

	for _, article := range articles {
		fmt.Fprintln(w, headerStyle.Render(article.Title))

		details := common.FilterEmpty(article.Authors, article.Journal, article.PublicationDate)
		if len(details) > 0 {
			fmt.Fprintf(w, "  %s\n", strings.Join(details, " | "))
		}
		fmt.Fprintf(w, "  %s %s\n", infoStyle.Render(article.ID), mutedStyle.Render(article.Source))
	}
}

func init() {
	documentsCmd.Flags().String("filter", "", "YAML or JSON file with search tokens")
	documentsCmd.Flags().Int("limit", 0, "Maximum results (default search.document_limit)")
	documentsCmd.Flags().Int("skip", 0, "Results to skip")
	documentsCmd.Flags().StringSlice("source", nil, "Document sources (default publications,clinical-trials,preprints)")
	documentsCmd.Flags().String("sort", services.DefaultSort, "relevance, published:asc or published:desc")
	documentsCmd.Flags().String("from", "", "Earliest publication date, YYYY-MM-DD")
	documentsCmd.Flags().String("to", "", "Latest publication date, YYYY-MM-DD")
	documentsCmd.Flags().String("token", "", "Bearer access token")
	documentsCmd.Flags().String("csv", "", "Write results as CSV to a file, - for stdout")

	rootCmd.AddCommand(documentsCmd)
}
