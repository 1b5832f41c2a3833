package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/models"
	"github.com/thand-io/components/internal/services"
)

var conceptsCmd = &cobra.Command{
	Use:   "concepts <query>",
	Short: "Search ontology concepts",
	Long: `Search the ontology the way the autocomplete does.

  components concepts brca --type gene --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConcepts,
}

func runConcepts(cmd *cobra.Command, args []string) error {

	client, err := newClient()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	skip, _ := cmd.Flags().GetInt("skip")
	types, _ := cmd.Flags().GetStringSlice("type")
	token, _ := cmd.Flags().GetString("token")
	asJSON, _ := cmd.Flags().GetBool("json")

	service := services.NewConceptsService(client).
		WithLimits(cfg.Search.ConceptLimit, cfg.Search.MinQueryLength)

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	result := service.Search(ctx, strings.Join(args, " "), services.SearchOptions{
		AccessToken: token,
		Limit:       limit,
		Skip:        skip,
		Types:       common.SplitList(types...),
	})

	if asJSON {
		return printResult(cmd.OutOrStdout(), result)
	}

	success, ok := result.(api.Success)
	if !ok {
		return printResult(cmd.OutOrStdout(), result)
	}

	concepts, _ := success.Data.([]models.Concept)
	printConcepts(cmd.OutOrStdout(), concepts)

	return nil
}

func printConcepts(w io.Writer, concepts []models.Concept) {

	if len(concepts) == 0 {
		fmt.Fprintln(w, warningStyle.Render("No concepts found"))
		return
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d concepts", len(concepts))))

	for _, concept := range concepts {
		fmt.Fprintf(w, "%s %s %s\n",
			headerStyle.Render(concept.Name),
			infoStyle.Render(concept.ID),
			mutedStyle.Render(concept.Type))

		if len(concept.Synonyms) > 0 {
			fmt.Fprintf(w, "  %s\n", mutedStyle.Render("aka "+strings.Join(concept.Synonyms, ", ")))
		}
	}
}

func init() {
	conceptsCmd.Flags().Int("limit", 0, "Maximum results (default search.concept_limit)")
	conceptsCmd.Flags().Int("skip", 0, "Results to skip")
	conceptsCmd.Flags().StringSlice("type", nil, "Concept types, e.g. gene,disease")
	conceptsCmd.Flags().String("token", "", "Bearer access token")
	conceptsCmd.Flags().Bool("json", false, "Print the raw result")

	rootCmd.AddCommand(conceptsCmd)
}
