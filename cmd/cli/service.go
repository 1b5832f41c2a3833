package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
	"github.com/thand-io/components/internal/host"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Service management commands",
	Long:  `Manage the components web service as a system service`,
}

// newService builds the OS service with the config file given to this
// invocation, made absolute so the service manager can find it.
func newService(cmd *cobra.Command) (service.Service, error) {

	configFile, _ := cmd.Flags().GetString("config")
	if len(configFile) > 0 {
		abs, err := filepath.Abs(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		configFile = abs
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}

	s, err := host.CreateService(cfg, client, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s, nil
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the web service as a system service",
	Long:  `Install the components web service so it starts automatically on boot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newService(cmd)
		if err != nil {
			return err
		}

		if err := s.Install(); err != nil {
			printInstallInstructions()
			return fmt.Errorf("failed to install service: %w", err)
		}

		fmt.Println(successStyle.Render("Components service installed successfully"))
		fmt.Println(mutedStyle.Render("   Use 'components service start' to start the service"))
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the system service",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newService(cmd)
		if err != nil {
			return err
		}

		if err := s.Start(); err != nil {
			return fmt.Errorf("failed to start service: %w", err)
		}

		fmt.Println(successStyle.Render("Components service started successfully"))
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the system service",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newService(cmd)
		if err != nil {
			return err
		}

		if err := s.Stop(); err != nil {
			return fmt.Errorf("failed to stop service: %w", err)
		}

		fmt.Println(successStyle.Render("Components service stopped successfully"))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the system service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newService(cmd)
		if err != nil {
			return err
		}

		status, err := s.Status()
		if err != nil {
			return fmt.Errorf("failed to get service status: %w", err)
		}

		style := warningStyle
		if status == service.StatusRunning {
			style = successStyle
		}

		fmt.Printf("Components service status: %s\n", style.Render(host.StatusText(status)))
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Uninstall the system service",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newService(cmd)
		if err != nil {
			return err
		}

		// Already stopped is fine
		if err := s.Stop(); err != nil {
			fmt.Println(mutedStyle.Render("Service was not running"))
		}

		if err := s.Uninstall(); err != nil {
			return fmt.Errorf("failed to uninstall service: %w", err)
		}

		fmt.Println(successStyle.Render("Components service uninstalled successfully"))
		return nil
	},
}

func printInstallInstructions() {
	exePath, _ := os.Executable()
	fmt.Println("\nService installation failed. You may need to run with elevated privileges:")
	fmt.Println("\nLinux and macOS:")
	fmt.Printf("   sudo %s service install\n", exePath)
	fmt.Println("\nWindows:")
	fmt.Printf("   Run as Administrator: %s service install\n", exePath)
}

func init() {
	serviceCmd.AddCommand(installCmd)
	serviceCmd.AddCommand(startCmd)
	serviceCmd.AddCommand(stopCmd)
	serviceCmd.AddCommand(statusCmd)
	serviceCmd.AddCommand(removeCmd)

	rootCmd.AddCommand(serviceCmd)
}
