// Package host runs the web service under the operating system's service
// manager (systemd, launchd or the Windows SCM).
package host

import (
	"fmt"
	"os"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/config"
	"github.com/thand-io/components/internal/daemon"
)

const (
	ServiceName = "components"
	// serverCommand is the CLI subcommand the service manager executes.
	serverCommand = "server"
)

// Program adapts daemon.Server to service.Interface.
type Program struct {
	config *config.Config
	client api.Client
	server *daemon.Server
}

func NewProgram(cfg *config.Config, client api.Client) *Program {
	return &Program{
		config: cfg,
		client: client,
	}
}

// Start must not block, the service manager waits on it.
func (p *Program) Start(s service.Service) error {
	logrus.Infoln("Components service starting")

	p.server = daemon.NewServer(p.config, p.client)

	if err := p.server.Start(); err != nil {
		p.server.Stop()
		p.server = nil
		return err
	}

	logrus.WithField("address", p.config.Server.Address()).
		Infoln("Components service is running")
	return nil
}

func (p *Program) Stop(s service.Service) error {
	logrus.Infoln("Components service stopping")

	if p.server != nil {
		p.server.Stop()
		p.server = nil
	}
	return nil
}

// Running reports whether Start succeeded and Stop has not been called.
func (p *Program) Running() bool {
	return p.server != nil
}

// CreateService wraps the program for install, control and run.
func CreateService(cfg *config.Config, client api.Client, configFile string) (service.Service, error) {

	svcConfig, err := ServiceConfig(configFile)
	if err != nil {
		return nil, err
	}

	return service.New(NewProgram(cfg, client), svcConfig)
}

// ServiceConfig points the service at this executable's server command.
// A config file, when given, is passed through so the service reads the
// same settings as the installing shell.
func ServiceConfig(configFile string) (*service.Config, error) {

	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable: %w", err)
	}

	arguments := []string{serverCommand}
	if len(configFile) > 0 {
		arguments = append(arguments, "--config", configFile)
	}

	return &service.Config{
		Name:        ServiceName,
		DisplayName: "Components Search Service",
		Description: "Components - session search tokens and concept and document search",
		Executable:  exePath,
		Arguments:   arguments,
	}, nil
}

// StatusText renders a service status for the terminal.
func StatusText(status service.Status) string {
	switch status {
	case service.StatusRunning:
		return "Running"
	case service.StatusStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
