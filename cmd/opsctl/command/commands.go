package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/propgen/opsctl/pkg"
	cloudaws "github.com/propgen/opsctl/pkg/clouds/aws"
	"github.com/propgen/opsctl/pkg/term"
	"github.com/spf13/cobra"
)

// GLOBALS
var (
	colorMode       = ColorAuto
	composeFilePath string
	doDebug         = false
	hasTty          = term.IsTerminal() && !pkg.GetenvBool("CI")
	nonInteractive  = !hasTty
)

var RootCmd = &cobra.Command{
	SilenceUsage:  true,
	SilenceErrors: true,
	Use:           "opsctl",
	Args:          cobra.NoArgs,
	Short:         "opsctl runs the propgen app locally with Docker Compose and deploys it to AWS ECS on Fargate.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		term.SetDebug(doDebug)

		// Do this first, since any errors will be printed to the console
		switch colorMode {
		case ColorNever:
			term.ForceColor(false)
		case ColorAlways:
			term.ForceColor(true)
		}

		if cwd, _ := cmd.Flags().GetString("cwd"); cwd != "" {
			// Change directory before running the command
			if err := os.Chdir(cwd); err != nil {
				return err
			}
		}
		return nil
	},
}

func SetupCommands(version string) {
	RootCmd.Version = version
	RootCmd.PersistentFlags().Var(&colorMode, "color", fmt.Sprintf(`colorize output; one of %v`, allColorModes))
	RootCmd.PersistentFlags().BoolVar(&doDebug, "debug", pkg.GetenvBool("OPSCTL_DEBUG"), "debug logging for troubleshooting the CLI")
	RootCmd.PersistentFlags().BoolVarP(&nonInteractive, "non-interactive", "T", !hasTty, "disable interactive prompts / no TTY")
	RootCmd.PersistentFlags().StringP("cwd", "C", "", "change directory before running the command")
	_ = RootCmd.MarkPersistentFlagDirname("cwd")
	RootCmd.PersistentFlags().StringVarP(&composeFilePath, "file", "f", "", "compose file path")
	_ = RootCmd.MarkPersistentFlagFilename("file", "yml", "yaml")

	RootCmd.AddCommand(localCmd)

	deployCmd.Flags().String("region", "", "AWS region to deploy to")
	deployCmd.Flags().String("cluster", "", "ECS cluster name")
	deployCmd.Flags().String("service", "", "ECS service name")
	deployCmd.Flags().String("repository", "", "ECR repository name")
	deployCmd.Flags().String("tag", "", "image tag to build and push")
	deployCmd.Flags().String("template", "", "task-definition template path")
	_ = deployCmd.MarkFlagFilename("template", "json")
	RootCmd.AddCommand(deployCmd)
}

func Execute(ctx context.Context) error {
	if term.StdoutCanColor() {
		restore := term.EnableANSI()
		defer restore()
	}

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		if !(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			term.Error("Error:", err)
		}

		var credsErr cloudaws.ErrMissingAwsCreds
		if errors.As(err, &credsErr) {
			printHint("Configure your credentials with `aws configure` or set AWS_PROFILE, then try again.")
		}

		if ec, ok := err.(ExitCode); ok {
			return ec
		}
		return ExitCode(1)
	}
	return nil
}

func printHint(hint string) {
	term.Println("")
	term.Println(hint)
}
