package command

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/propgen/opsctl/pkg/deploy"
	"github.com/propgen/opsctl/pkg/surveyor"
	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Args:  cobra.NoArgs,
	Short: "Build, push, and deploy the app to AWS ECS on Fargate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg := deploy.DefaultConfig()
		if v, _ := cmd.Flags().GetString("region"); v != "" {
			cfg.Region = v
		}
		if v, _ := cmd.Flags().GetString("cluster"); v != "" {
			cfg.Cluster = v
		}
		if v, _ := cmd.Flags().GetString("service"); v != "" {
			cfg.Service = v
		}
		if v, _ := cmd.Flags().GetString("repository"); v != "" {
			cfg.Repository = v
		}
		if v, _ := cmd.Flags().GetString("tag"); v != "" {
			cfg.ImageTag = v
		}
		if v, _ := cmd.Flags().GetString("template"); v != "" {
			cfg.TemplatePath = v
		}

		if !nonInteractive {
			var confirm bool
			err := surveyor.NewDefaultSurveyor().AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Deploy %q to ECS cluster %q in %s?", cfg.Service, cfg.Cluster, cfg.Region),
				Default: true,
			}, &confirm)
			if err != nil {
				return err
			}
			if !confirm {
				return errors.New("deploy canceled")
			}
		}

		pipeline, err := deploy.NewPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		return pipeline.Run(ctx)
	},
}
