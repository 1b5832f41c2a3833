package cli

import (
	"fmt"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/daemon"
	"github.com/thand-io/components/internal/host"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the web service",
	Long: `Start the components web service in the foreground. It serves the
session token routes and forwards searches to the configured backend API.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		client, err := newClient()
		if err != nil {
			return fmt.Errorf("failed to create backend client: %w", err)
		}

		// Under a service manager the program lifecycle is driven by it
		if !service.Interactive() {
			s, err := host.CreateService(cfg, client, "")
			if err != nil {
				return err
			}
			return s.Run()
		}

		sigChan, cleanup := common.NewInterruptChannel()
		defer cleanup()

		server := daemon.NewServer(cfg, client)

		fmt.Println(infoStyle.Render(fmt.Sprintf(
			"Starting web service on %s (backend %s, api %s)",
			cfg.Server.Address(), client.BaseURL(), cfg.API.GetVersion())))

		if err := server.Start(); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Web service started"))

		sig := <-sigChan
		fmt.Printf("\nReceived signal %v, shutting down gracefully...\n", sig)
		server.Stop()
		fmt.Println("Server stopped")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
