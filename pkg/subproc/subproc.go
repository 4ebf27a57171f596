package subproc

import (
	"context"
	"os"
	"os/exec"
)

// Runner executes an external command and returns its combined output.
// Components hold a Runner instead of calling os/exec directly so tests
// can substitute a fake.
type Runner func(ctx context.Context, env []string, name string, args ...string) (string, error)

// Run is the production Runner. Extra env entries are appended to the
// inherited environment.
func Run(ctx context.Context, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	output, err := cmd.CombinedOutput()
	return string(output), err
}
