package pkgmanager

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/search-tools/opensearch-installer/pkg/errors"
	"github.com/search-tools/opensearch-installer/pkg/logging"
	"github.com/search-tools/opensearch-installer/pkg/subproc"
)

// Manager installs and removes OS packages. The installer treats the
// package manager as an external collaborator behind this interface.
type Manager interface {
	InstallDependency(ctx context.Context, pkg string) error
	LocalInstall(ctx context.Context, artifactPath string, env []string) error
	Remove(ctx context.Context, pkg string) error
}

// RetryConfig bounds the retry loop around local package installation.
type RetryConfig struct {
	MaxAttempts uint          `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

// ValidateRetryConfig validates retry configuration values.
func ValidateRetryConfig(config RetryConfig) error {
	if config.MaxAttempts == 0 {
		return errors.NewValidationError("max_attempts must be at least 1", nil)
	}
	if config.Delay < 0 {
		return errors.NewValidationError("delay cannot be negative", nil)
	}
	return nil
}

type yumManager struct {
	run    subproc.Runner
	retry  RetryConfig
	logger logging.Logger
}

// NewYumManager creates a Manager backed by yum.
func NewYumManager(run subproc.Runner, retry RetryConfig, logger logging.Logger) Manager {
	if run == nil {
		run = subproc.Run
	}
	if retry.MaxAttempts == 0 {
		retry.MaxAttempts = 1
	}
	return &yumManager{
		run:    run,
		retry:  retry,
		logger: logger,
	}
}

func (m *yumManager) InstallDependency(ctx context.Context, pkg string) error {
	m.logger.Infof("Installing dependency, package: %s", pkg)
	output, err := m.run(ctx, nil, "yum", "install", pkg, "-y")
	if err != nil {
		return errors.NewDependencyInstallError("failed to install dependency", err).
			WithContext("package", pkg).WithContext("output", output)
	}
	return nil
}

// LocalInstall installs a downloaded package artifact, retrying with a
// fixed delay up to the configured attempt count. Extra env entries are
// passed to the package manager process (the server package reads its
// initial admin password from the environment during install).
func (m *yumManager) LocalInstall(ctx context.Context, artifactPath string, env []string) error {
	attempt := 0
	operation := func() (struct{}, error) {
		attempt++
		m.logger.Infof("Installing package, artifact: %s, attempt: %d/%d", artifactPath, attempt, m.retry.MaxAttempts)
		output, err := m.run(ctx, env, "yum", "localinstall", artifactPath, "-y", "--nogpgcheck")
		if err != nil {
			m.logger.Warnf("Package install attempt failed, artifact: %s, error: %v", artifactPath, err)
			return struct{}{}, errors.NewPackageInstallError("package installation failed", err).
				WithContext("artifact", artifactPath).WithContext("output", output)
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(m.retry.Delay)),
		backoff.WithMaxTries(m.retry.MaxAttempts),
	)
	return err
}

func (m *yumManager) Remove(ctx context.Context, pkg string) error {
	m.logger.Infof("Removing package, package: %s", pkg)
	output, err := m.run(ctx, nil, "yum", "remove", pkg, "-y")
	if err != nil {
		return errors.NewPackageInstallError("failed to remove package", err).
			WithContext("package", pkg).WithContext("output", output)
	}
	return nil
}
