package command

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/propgen/opsctl/pkg/compose"
	"github.com/propgen/opsctl/pkg/docker"
	"github.com/propgen/opsctl/pkg/local"
	"github.com/spf13/cobra"
)

const appServiceName = "app"

var localCmd = &cobra.Command{
	Use:     "local [action]",
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"run"},
	Short:   "Build and run the app locally with Docker Compose",
	Long: `Build and run the app locally with Docker Compose.

Without an argument an interactive menu is shown. The action can also be
given directly: 1-5 or one of up, stop, logs, restart, cleanup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		project, err := compose.Loader{ComposeFilePath: composeFilePath}.LoadProject(ctx)
		if err != nil {
			return err
		}
		service, err := project.GetService(appServiceName)
		if err != nil {
			return fmt.Errorf("compose project %q has no %q service: %w", project.Name, appServiceName, err)
		}

		engine, err := docker.New()
		if err != nil {
			return err
		}
		defer engine.Close()

		port, ok := compose.PublishedPort(service)
		if !ok {
			port = "5000"
		}
		runner := docker.NewRunner()
		workflow := &local.Workflow{
			Compose:          compose.New(runner, project.ComposeFiles[0]),
			Engine:           engine,
			ProjectName:      project.Name,
			ServiceName:      service.Name,
			ImageName:        compose.ImageName(project, service),
			PublishedURL:     "http://localhost:" + port,
			EnvFilePath:      filepath.Join(project.WorkingDir, ".env"),
			DatabasePath:     filepath.Join(project.WorkingDir, "companies.db"),
			DockerInstalled:  docker.Installed,
			ComposeInstalled: func(ctx2 context.Context) bool { return compose.Installed(ctx2, runner) },
		}

		if err := workflow.CheckPrerequisites(ctx); err != nil {
			return err
		}
		if err := workflow.EnsureEnvFile(); err != nil {
			return err
		}
		if err := workflow.EnsureDatabaseFile(); err != nil {
			return err
		}

		var action local.Action
		if len(args) > 0 {
			action, err = local.ParseAction(args[0])
		} else if nonInteractive {
			err = errors.New("an action argument is required in non-interactive mode")
		} else {
			action, err = workflow.Menu()
		}
		if err != nil {
			return err
		}

		return workflow.Run(ctx, action)
	},
}
