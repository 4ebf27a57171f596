package sysservice

import (
	"context"
	"strings"

	"github.com/search-tools/opensearch-installer/pkg/errors"
	"github.com/search-tools/opensearch-installer/pkg/logging"
	"github.com/search-tools/opensearch-installer/pkg/subproc"
)

// Controller manages a named OS service. The installer treats the
// service manager as an external collaborator behind this interface.
type Controller interface {
	Enable(ctx context.Context, name string) error
	Disable(ctx context.Context, name string) error
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	IsActive(ctx context.Context, name string) (bool, error)
}

type systemdController struct {
	run    subproc.Runner
	logger logging.Logger
}

// NewSystemdController creates a Controller backed by systemctl.
func NewSystemdController(run subproc.Runner, logger logging.Logger) Controller {
	if run == nil {
		run = subproc.Run
	}
	return &systemdController{
		run:    run,
		logger: logger,
	}
}

func (c *systemdController) Enable(ctx context.Context, name string) error {
	return c.systemctl(ctx, "enable", name)
}

func (c *systemdController) Disable(ctx context.Context, name string) error {
	return c.systemctl(ctx, "disable", name)
}

func (c *systemdController) Start(ctx context.Context, name string) error {
	return c.systemctl(ctx, "start", name)
}

// Stop is a no-op when the unit is not running.
func (c *systemdController) Stop(ctx context.Context, name string) error {
	active, err := c.IsActive(ctx, name)
	if err != nil {
		return err
	}
	if !active {
		c.logger.Infof("Service not running, nothing to stop, service: %s", name)
		return nil
	}
	return c.systemctl(ctx, "stop", name)
}

func (c *systemdController) IsActive(ctx context.Context, name string) (bool, error) {
	output, err := c.run(ctx, nil, "systemctl", "is-active", name)
	state := strings.TrimSpace(output)
	if state == "active" {
		return true, nil
	}
	// systemctl is-active exits non-zero for any inactive state; a
	// recognizable state string is still a valid answer.
	switch state {
	case "inactive", "failed", "activating", "deactivating", "unknown":
		return false, nil
	}
	if err != nil {
		return false, errors.NewServiceControlError("failed to query service state", err).
			WithContext("service", name).WithContext("output", output)
	}
	return false, nil
}

func (c *systemdController) systemctl(ctx context.Context, verb, name string) error {
	c.logger.Debugf("Running systemctl %s %s", verb, name)
	output, err := c.run(ctx, nil, "systemctl", verb, name)
	if err != nil {
		return errors.NewServiceControlError("systemctl "+verb+" failed", err).
			WithContext("service", name).WithContext("output", output)
	}
	c.logger.Infof("systemctl %s succeeded, service: %s", verb, name)
	return nil
}
