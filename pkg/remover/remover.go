package remover

import (
	"context"
	"os"

	"github.com/search-tools/opensearch-installer/pkg/errors"
	"github.com/search-tools/opensearch-installer/pkg/installer"
	"github.com/search-tools/opensearch-installer/pkg/logging"
	"github.com/search-tools/opensearch-installer/pkg/pkgmanager"
	"github.com/search-tools/opensearch-installer/pkg/sysservice"
)

// Collaborators are the external capabilities the remover drives. Any
// nil field is replaced by the production implementation.
type Collaborators struct {
	Packages pkgmanager.Manager
	Services sysservice.Controller
}

// Remover reverses an installation: stop, disable, uninstall, delete
// configuration. Dashboards go first, then the server. Each step's
// failure aborts the remaining steps (fail-fast, not best-effort).
type Remover struct {
	config   *installer.Config
	packages pkgmanager.Manager
	services sysservice.Controller
	logger   logging.Logger

	// KeepConfig leaves the configuration directories in place.
	KeepConfig bool
}

// NewRemover creates a remover with production collaborators.
func NewRemover(config *installer.Config, logger logging.Logger) *Remover {
	return NewRemoverWith(config, Collaborators{}, logger)
}

// NewRemoverWith creates a remover with the given collaborators,
// substituting production implementations for nil fields.
func NewRemoverWith(config *installer.Config, c Collaborators, logger logging.Logger) *Remover {
	if c.Packages == nil {
		c.Packages = pkgmanager.NewYumManager(nil, config.InstallRetry, logger)
	}
	if c.Services == nil {
		c.Services = sysservice.NewSystemdController(nil, logger)
	}
	return &Remover{
		config:   config,
		packages: c.Packages,
		services: c.Services,
		logger:   logger,
	}
}

// Run removes the managed components.
func (r *Remover) Run(ctx context.Context) error {
	if r.config.Dashboard.Enabled {
		dashboard := r.config.Dashboard
		if err := r.removeComponent(ctx, dashboard.ServiceName, dashboard.PackageName, dashboard.ConfigDir); err != nil {
			return err
		}
	}

	server := r.config.Server
	if err := r.removeComponent(ctx, server.ServiceName, server.PackageName, server.ConfigDir); err != nil {
		return err
	}

	r.logger.Infof("Removal completed")
	return nil
}

// removeComponent runs the four ordered steps for one component:
// stop (no-op when not running), disable, uninstall, delete config.
func (r *Remover) removeComponent(ctx context.Context, service, pkg, configDir string) error {
	r.logger.Infof("Removing component, service: %s", service)

	if err := r.services.Stop(ctx, service); err != nil {
		return err
	}
	if err := r.services.Disable(ctx, service); err != nil {
		return err
	}
	if err := r.packages.Remove(ctx, pkg); err != nil {
		return err
	}

	if r.KeepConfig {
		r.logger.Infof("Keeping configuration directory, dir: %s", configDir)
		return nil
	}
	return r.deleteConfigDir(configDir)
}

// deleteConfigDir removes the configuration directory recursively; a
// missing directory is a no-op.
func (r *Remover) deleteConfigDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		r.logger.Infof("Configuration directory does not exist, dir: %s", dir)
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.NewConfigIOError("failed to delete configuration directory", err).WithContext("dir", dir)
	}
	r.logger.Infof("Deleted configuration directory, dir: %s", dir)
	return nil
}
