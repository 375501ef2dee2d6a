package compose

import (
	"context"
	"fmt"

	"github.com/propgen/opsctl/pkg/docker"
)

// Compose drives the `docker compose` plugin for one compose file. All
// commands are pinned to that file so the workflow never depends on the
// caller's working directory.
type Compose struct {
	runner          docker.Runner
	composeFilePath string
}

func New(runner docker.Runner, composeFilePath string) *Compose {
	return &Compose{runner: runner, composeFilePath: composeFilePath}
}

// Installed reports whether the compose plugin responds to `docker compose version`.
func Installed(ctx context.Context, runner docker.Runner) bool {
	_, err := runner.Output(ctx, "compose", "version")
	return err == nil
}

func (c *Compose) Build(ctx context.Context, services ...string) error {
	if err := c.runner.Run(ctx, c.args("build", services...)...); err != nil {
		return fmt.Errorf("compose build failed: %w", err)
	}
	return nil
}

func (c *Compose) UpDetached(ctx context.Context, services ...string) error {
	args := append(c.args("up"), "--detach")
	args = append(args, services...)
	if err := c.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("compose up failed: %w", err)
	}
	return nil
}

func (c *Compose) Stop(ctx context.Context, services ...string) error {
	if err := c.runner.Run(ctx, c.args("stop", services...)...); err != nil {
		return fmt.Errorf("compose stop failed: %w", err)
	}
	return nil
}

func (c *Compose) Restart(ctx context.Context, services ...string) error {
	if err := c.runner.Run(ctx, c.args("restart", services...)...); err != nil {
		return fmt.Errorf("compose restart failed: %w", err)
	}
	return nil
}

// Logs streams service logs to the terminal. With follow set it blocks until
// the context is canceled or the user interrupts.
func (c *Compose) Logs(ctx context.Context, follow bool, services ...string) error {
	args := c.args("logs")
	if follow {
		args = append(args, "--follow")
	}
	args = append(args, services...)
	return c.runner.Run(ctx, args...)
}

// TailLogs returns the last n log lines instead of streaming them.
func (c *Compose) TailLogs(ctx context.Context, n int, services ...string) (string, error) {
	args := append(c.args("logs"), "--no-color", "--tail", fmt.Sprint(n))
	args = append(args, services...)
	return c.runner.Output(ctx, args...)
}

// Down stops and removes containers and networks of the project.
func (c *Compose) Down(ctx context.Context) error {
	if err := c.runner.Run(ctx, c.args("down", "--remove-orphans")...); err != nil {
		return fmt.Errorf("compose down failed: %w", err)
	}
	return nil
}

func (c *Compose) PS(ctx context.Context) (string, error) {
	return c.runner.Output(ctx, c.args("ps")...)
}

func (c *Compose) args(verb string, rest ...string) []string {
	args := []string{"compose", "-f", c.composeFilePath, verb}
	return append(args, rest...)
}
