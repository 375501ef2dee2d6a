package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/joho/godotenv"
	"github.com/propgen/opsctl/pkg"
	"github.com/propgen/opsctl/pkg/spinner"
	"github.com/propgen/opsctl/pkg/surveyor"
	"github.com/propgen/opsctl/pkg/term"
)

// ComposeRunner is the slice of the compose client the workflow needs.
type ComposeRunner interface {
	Build(ctx context.Context, services ...string) error
	UpDetached(ctx context.Context, services ...string) error
	Stop(ctx context.Context, services ...string) error
	Restart(ctx context.Context, services ...string) error
	Logs(ctx context.Context, follow bool, services ...string) error
	TailLogs(ctx context.Context, n int, services ...string) (string, error)
	Down(ctx context.Context) error
	PS(ctx context.Context) (string, error)
}

// Engine is the slice of the Docker API client the workflow needs.
type Engine interface {
	CheckDaemon(ctx context.Context) error
	ServiceContainerState(ctx context.Context, project, service string) (string, error)
	RemoveImage(ctx context.Context, name string) error
	Prune(ctx context.Context) error
}

type Action int

const (
	ActionUp Action = iota + 1
	ActionStop
	ActionLogs
	ActionRestart
	ActionCleanup
)

var actionLabels = []string{
	"Build and start the app",
	"Stop the app",
	"Follow the app logs",
	"Restart the app",
	"Stop and clean up containers, images, and networks",
}

// ParseAction accepts the menu number (1-5) or the action name.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "1", "up", "start":
		return ActionUp, nil
	case "2", "stop":
		return ActionStop, nil
	case "3", "logs":
		return ActionLogs, nil
	case "4", "restart":
		return ActionRestart, nil
	case "5", "cleanup", "clean":
		return ActionCleanup, nil
	}
	return 0, fmt.Errorf("invalid choice %q: expected 1-5 or one of up, stop, logs, restart, cleanup", s)
}

const (
	maxStatusChecks = 10
	statusInterval  = 2 * time.Second
	logTailLines    = 40
)

// Workflow drives the local compose lifecycle of the app service.
type Workflow struct {
	Compose ComposeRunner
	Engine  Engine

	ProjectName  string
	ServiceName  string
	ImageName    string
	PublishedURL string
	EnvFilePath  string
	DatabasePath string

	// probes, replaceable in tests
	DockerInstalled  func() bool
	ComposeInstalled func(context.Context) bool
	Surveyor         surveyor.Surveyor

	// polling knobs, zero means the defaults above
	MaxStatusChecks int
	StatusInterval  time.Duration
}

// CheckPrerequisites verifies the docker CLI, the compose plugin, and the
// daemon, in that order. Nothing else may run until this passes.
func (w *Workflow) CheckPrerequisites(ctx context.Context) error {
	if !w.DockerInstalled() {
		return errors.New("docker is not installed; install it from https://docs.docker.com/get-docker/")
	}
	if !w.ComposeInstalled(ctx) {
		return errors.New("docker compose is not available; install the compose plugin")
	}
	if err := w.Engine.CheckDaemon(ctx); err != nil {
		return fmt.Errorf("cannot reach the docker daemon, is Docker running? %w", err)
	}
	return nil
}

var placeholderEnv = map[string]string{
	"OPENAI_API_KEY": "your-openai-api-key",
	"OPENAI_ORG_ID":  "your-openai-org-id",
	"FLASK_SECRET":   "change-me",
	"FLASK_APP":      "app.py",
	"FLASK_ENV":      "development",
}

// EnsureEnvFile writes a placeholder env file when none exists. An existing
// file is never touched.
func (w *Workflow) EnsureEnvFile() error {
	if pkg.FileExists(w.EnvFilePath) {
		term.Debug("Using existing env file", w.EnvFilePath)
		return nil
	}
	if err := godotenv.Write(placeholderEnv, w.EnvFilePath); err != nil {
		return fmt.Errorf("failed to create %s: %w", w.EnvFilePath, err)
	}
	term.Warn("Created", w.EnvFilePath, "with placeholder values; edit it and fill in your real keys")
	return nil
}

// EnsureDatabaseFile creates an empty database file for the bind mount so
// Docker does not create a directory in its place.
func (w *Workflow) EnsureDatabaseFile() error {
	if pkg.FileExists(w.DatabasePath) {
		return nil
	}
	f, err := os.Create(w.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", w.DatabasePath, err)
	}
	term.Info("Created empty database file", w.DatabasePath)
	return f.Close()
}

// Menu prompts for one of the five actions.
func (w *Workflow) Menu() (Action, error) {
	asker := w.Surveyor
	if asker == nil {
		asker = surveyor.NewDefaultSurveyor()
	}
	var label string
	err := asker.AskOne(&survey.Select{
		Message: "What would you like to do?",
		Options: actionLabels,
	}, &label)
	if err != nil {
		return 0, err
	}
	for i, l := range actionLabels {
		if l == label {
			return Action(i + 1), nil
		}
	}
	return 0, fmt.Errorf("invalid choice %q", label)
}

// Run dispatches the chosen action.
func (w *Workflow) Run(ctx context.Context, action Action) error {
	switch action {
	case ActionUp:
		return w.Up(ctx)
	case ActionStop:
		return w.StopService(ctx)
	case ActionLogs:
		return w.FollowLogs(ctx)
	case ActionRestart:
		return w.RestartService(ctx)
	case ActionCleanup:
		return w.Cleanup(ctx)
	}
	return fmt.Errorf("invalid choice %d", action)
}

// Up builds the image, starts the service detached, and waits for the
// container to report running. On failure it prints the captured log tail.
func (w *Workflow) Up(ctx context.Context) error {
	term.Info("Building the", w.ServiceName, "image")
	if err := w.Compose.Build(ctx, w.ServiceName); err != nil {
		return err
	}
	term.Info("Starting", w.ServiceName)
	if err := w.Compose.UpDetached(ctx, w.ServiceName); err != nil {
		return err
	}

	state, err := w.waitForRunning(ctx)
	if err != nil {
		return err
	}
	if state != "running" {
		if state == "" {
			state = "gone"
		}
		if tail, terr := w.Compose.TailLogs(ctx, logTailLines, w.ServiceName); terr == nil && tail != "" {
			term.Error(tail)
		}
		return fmt.Errorf("service %q is %s, not running; see the logs above", w.ServiceName, state)
	}

	term.Success("App is running at", w.PublishedURL)
	if ps, err := w.Compose.PS(ctx); err == nil {
		term.Print(ps)
	}
	return nil
}

func (w *Workflow) waitForRunning(ctx context.Context) (string, error) {
	checks := w.MaxStatusChecks
	if checks <= 0 {
		checks = maxStatusChecks
	}
	interval := w.StatusInterval
	if interval <= 0 {
		interval = statusInterval
	}

	spin := spinner.New()
	var state string
	for i := 0; i < checks; i++ {
		if i > 0 {
			if term.IsTerminal() && !term.DoDebug() {
				term.Print(spin.Next())
			}
			if err := pkg.SleepWithContext(ctx, interval); err != nil {
				return state, err
			}
		}
		var err error
		state, err = w.Engine.ServiceContainerState(ctx, w.ProjectName, w.ServiceName)
		if err != nil {
			return state, err
		}
		if state == "running" {
			return state, nil
		}
		term.Debug("Container state:", state)
	}
	return state, nil
}

func (w *Workflow) StopService(ctx context.Context) error {
	term.Info("Stopping", w.ServiceName)
	return w.Compose.Stop(ctx, w.ServiceName)
}

func (w *Workflow) FollowLogs(ctx context.Context) error {
	term.Info("Following logs; press Ctrl+C to stop")
	return w.Compose.Logs(ctx, true, w.ServiceName)
}

func (w *Workflow) RestartService(ctx context.Context) error {
	term.Info("Restarting", w.ServiceName)
	return w.Compose.Restart(ctx, w.ServiceName)
}

// Cleanup tears the project down and reclaims resources. Image removal and
// pruning are best effort.
func (w *Workflow) Cleanup(ctx context.Context) error {
	term.Info("Stopping and removing containers")
	if err := w.Compose.Down(ctx); err != nil {
		return err
	}
	if err := w.Engine.RemoveImage(ctx, w.ImageName); err != nil {
		term.Warn("Could not remove image", w.ImageName+":", err)
	}
	term.Info("Pruning unused containers, images, and networks")
	if err := w.Engine.Prune(ctx); err != nil {
		term.Warn("Prune failed:", err)
	}
	term.Success("Cleanup done")
	return nil
}
