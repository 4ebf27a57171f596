package installer

import (
	"context"
	"runtime"
	"time"

	"github.com/search-tools/opensearch-installer/pkg/configfile"
	"github.com/search-tools/opensearch-installer/pkg/download"
	"github.com/search-tools/opensearch-installer/pkg/errors"
	"github.com/search-tools/opensearch-installer/pkg/logging"
	"github.com/search-tools/opensearch-installer/pkg/pkgmanager"
	"github.com/search-tools/opensearch-installer/pkg/readiness"
	"github.com/search-tools/opensearch-installer/pkg/sysservice"
)

// Collaborators are the external capabilities the installer drives.
// Any nil field is replaced by the production implementation.
type Collaborators struct {
	Fetcher  *download.Fetcher
	Packages pkgmanager.Manager
	Services sysservice.Controller
}

// Installer performs the download → install → configure → start →
// verify sequence for the server and, optionally, the dashboards. One
// Installer serves one run; it keeps no state between operations
// beyond its configuration.
type Installer struct {
	config   *Config
	fetcher  *download.Fetcher
	packages pkgmanager.Manager
	services sysservice.Controller
	logger   logging.Logger

	// goos overrides runtime.GOOS in tests.
	goos string
}

// NewInstaller creates an installer with production collaborators.
func NewInstaller(config *Config, logger logging.Logger) (*Installer, error) {
	return NewInstallerWith(config, Collaborators{}, logger)
}

// NewInstallerWith creates an installer with the given collaborators,
// substituting production implementations for nil fields.
func NewInstallerWith(config *Config, c Collaborators, logger logging.Logger) (*Installer, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	if c.Fetcher == nil {
		c.Fetcher = download.NewFetcher(nil, logger)
	}
	if c.Packages == nil {
		c.Packages = pkgmanager.NewYumManager(nil, config.InstallRetry, logger)
	}
	if c.Services == nil {
		c.Services = sysservice.NewSystemdController(nil, logger)
	}
	return &Installer{
		config:   config,
		fetcher:  c.Fetcher,
		packages: c.Packages,
		services: c.Services,
		logger:   logger,
		goos:     runtime.GOOS,
	}, nil
}

// Run executes the full installation. Install, configuration and
// service failures abort immediately; the final API and plugin probes
// are soft and only logged.
func (i *Installer) Run(ctx context.Context) error {
	if i.goos != "linux" {
		i.logger.Warnf("Service management is only supported on Linux; downloading packages only")
		i.logger.Infof("After downloading, extract the package and follow the OpenSearch documentation for %s", i.goos)
		return i.DownloadOnly(ctx)
	}
	if i.config.AdminPassword == "" {
		return errors.NewValidationError("admin password cannot be empty", nil)
	}

	artifact, err := i.fetcher.Fetch(ctx, i.config.ServerArtifactURL(), i.config.DownloadDir)
	if err != nil {
		return err
	}

	if err := i.packages.InstallDependency(ctx, i.config.JavaPackage); err != nil {
		return err
	}

	env := []string{"OPENSEARCH_INITIAL_ADMIN_PASSWORD=" + i.config.AdminPassword}
	if err := i.packages.LocalInstall(ctx, artifact, env); err != nil {
		return err
	}

	if err := i.ConfigureServer(); err != nil {
		return err
	}

	if err := i.startAndAwait(ctx, i.config.Server.ServiceName, i.config.Poll.ServiceTimeout); err != nil {
		return err
	}

	if err := readiness.WaitUntilReady(ctx, i.apiReadyCheck(), i.config.Poll.Interval, i.config.Poll.APITimeout, i.logger); err != nil {
		return err
	}

	// Soft verification: report, never abort.
	if i.VerifyAPI(ctx) {
		i.logger.Infof("API check passed, node is up and responding")
	} else {
		i.logger.Warnf("API check failed")
	}
	if i.VerifyPlugins(ctx) {
		i.logger.Infof("Plugins check passed")
	} else {
		i.logger.Warnf("Plugins check failed")
	}

	if i.config.Dashboard.Enabled {
		if err := i.installDashboard(ctx); err != nil {
			return err
		}
	}

	i.logger.Infof("Installation completed, version: %s", i.config.Version)
	return nil
}

// DownloadOnly fetches the server and dashboards artifacts without
// installing anything. Both packages are fetched regardless of whether
// the dashboards component is enabled for installation.
func (i *Installer) DownloadOnly(ctx context.Context) error {
	if _, err := i.fetcher.Fetch(ctx, i.config.ServerArtifactURL(), i.config.DownloadDir); err != nil {
		return err
	}
	_, err := i.fetcher.Fetch(ctx, i.config.DashboardArtifactURL(), i.config.DownloadDir)
	return err
}

// ConfigureServer patches the server configuration and JVM flags files
// and re-verifies each immediately after writing.
func (i *Installer) ConfigureServer() error {
	settings := i.config.ServerSettings()
	if err := configfile.ApplySettings(i.config.ServerConfigPath(), settings, i.logger); err != nil {
		return err
	}
	result, err := configfile.VerifySettings(i.config.ServerConfigPath(), settings)
	if err != nil {
		return err
	}
	if !result.AllMatch() {
		return errors.NewValidationError("server configuration verification failed", nil).
			WithContext("summary", result.Summary())
	}

	flags := i.config.HeapFlags()
	if err := configfile.ApplyFlags(i.config.JVMOptionsPath(), flags, i.logger); err != nil {
		return err
	}
	flagResult, err := configfile.VerifyFlags(i.config.JVMOptionsPath(), flags)
	if err != nil {
		return err
	}
	if !flagResult.AllMatch() {
		return errors.NewValidationError("JVM flags verification failed", nil).
			WithContext("summary", flagResult.Summary())
	}

	return nil
}

// installDashboard downloads, installs, configures and starts the
// dashboards component.
func (i *Installer) installDashboard(ctx context.Context) error {
	i.logger.Infof("Installing dashboards, version: %s", i.config.Dashboard.Version)

	artifact, err := i.fetcher.Fetch(ctx, i.config.DashboardArtifactURL(), i.config.DownloadDir)
	if err != nil {
		return err
	}

	if err := i.packages.LocalInstall(ctx, artifact, nil); err != nil {
		return err
	}

	settings := i.config.DashboardSettings()
	if err := configfile.ApplySettings(i.config.DashboardConfigPath(), settings, i.logger); err != nil {
		return err
	}
	result, err := configfile.VerifySettings(i.config.DashboardConfigPath(), settings)
	if err != nil {
		return err
	}
	if !result.AllMatch() {
		return errors.NewValidationError("dashboards configuration verification failed", nil).
			WithContext("summary", result.Summary())
	}

	return i.startAndAwait(ctx, i.config.Dashboard.ServiceName, i.config.Poll.ServiceTimeout)
}

// startAndAwait enables and starts a service, then polls until the
// service manager reports it active.
func (i *Installer) startAndAwait(ctx context.Context, service string, timeout time.Duration) error {
	if err := i.services.Enable(ctx, service); err != nil {
		return err
	}
	if err := i.services.Start(ctx, service); err != nil {
		return err
	}
	check := readiness.ServiceActive{Name: service, Controller: i.services}
	return readiness.WaitUntilReady(ctx, check, i.config.Poll.Interval, timeout, i.logger)
}
