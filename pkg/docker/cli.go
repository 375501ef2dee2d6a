package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/propgen/opsctl/pkg/term"
)

// Runner abstracts the docker CLI invocations so tests can record them
// instead of spawning processes.
type Runner interface {
	Run(ctx context.Context, args ...string) error
	RunWithStdin(ctx context.Context, stdin string, args ...string) error
	Output(ctx context.Context, args ...string) (string, error)
}

type execRunner struct{}

func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, args ...string) error {
	term.Debug("docker", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (execRunner) RunWithStdin(ctx context.Context, stdin string, args ...string) error {
	term.Debug("docker", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (execRunner) Output(ctx context.Context, args ...string) (string, error) {
	term.Debug("docker", strings.Join(args, " "))
	out, err := exec.CommandContext(ctx, "docker", args...).CombinedOutput()
	return string(out), err
}

// CLI wraps the image operations that stay delegated to the docker binary:
// builds go through BuildKit, pushes through the CLI's credential handling.
type CLI struct {
	runner Runner
}

func NewCLI(runner Runner) *CLI {
	return &CLI{runner: runner}
}

func (c *CLI) Build(ctx context.Context, contextDir, tag string) error {
	if err := c.runner.Run(ctx, "build", "-t", tag, contextDir); err != nil {
		return fmt.Errorf("docker build failed: %w", err)
	}
	return nil
}

func (c *CLI) Tag(ctx context.Context, source, target string) error {
	if err := c.runner.Run(ctx, "tag", source, target); err != nil {
		return fmt.Errorf("docker tag failed: %w", err)
	}
	return nil
}

func (c *CLI) Push(ctx context.Context, ref string) error {
	if err := c.runner.Run(ctx, "push", ref); err != nil {
		return fmt.Errorf("docker push failed: %w", err)
	}
	return nil
}

// Login authenticates against a registry, passing the password on stdin so
// it never shows up in the process list.
func (c *CLI) Login(ctx context.Context, server, username, password string) error {
	if err := c.runner.RunWithStdin(ctx, password, "login", "--username", username, "--password-stdin", server); err != nil {
		return fmt.Errorf("docker login to %s failed: %w", server, err)
	}
	return nil
}
