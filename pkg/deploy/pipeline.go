package deploy

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	ecssdk "github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	cloudaws "github.com/propgen/opsctl/pkg/clouds/aws"
	"github.com/propgen/opsctl/pkg/clouds/aws/ecr"
	"github.com/propgen/opsctl/pkg/clouds/aws/ecs"
	"github.com/propgen/opsctl/pkg/docker"
	"github.com/propgen/opsctl/pkg/term"
)

// The pipeline's collaborators are narrow interfaces so each step can be
// exercised against fakes.

type Identity interface {
	AccountInfo(ctx context.Context) (cloudaws.AccountInfo, error)
}

type Registry interface {
	EnsureRepository(ctx context.Context, name string) (uri string, created bool, err error)
	GetAuthConfig(ctx context.Context) (ecr.AuthConfig, error)
}

type Images interface {
	Build(ctx context.Context, contextDir, tag string) error
	Tag(ctx context.Context, source, target string) error
	Push(ctx context.Context, ref string) error
	Login(ctx context.Context, server, username, password string) error
}

type Orchestrator interface {
	EnsureCluster(ctx context.Context, name string) (arn string, created bool, err error)
	RegisterTaskDefinition(ctx context.Context, td *ecs.TaskDefinition) (string, error)
	EnsureService(ctx context.Context, cluster, service, taskDefARN string, network ecs.ServiceNetwork) (created bool, err error)
}

type LogGroups interface {
	EnsureLogGroup(ctx context.Context, name string) (created bool, err error)
}

type stsIdentity struct {
	api    cloudaws.StsAPI
	region cloudaws.Region
}

func (s stsIdentity) AccountInfo(ctx context.Context) (cloudaws.AccountInfo, error) {
	return cloudaws.GetAccountInfo(ctx, s.api, s.region)
}

type logGroupClient struct {
	api ecs.LogsAPI
}

func (l logGroupClient) EnsureLogGroup(ctx context.Context, name string) (bool, error) {
	return ecs.EnsureLogGroup(ctx, l.api, name)
}

// Pipeline runs the ordered deploy steps against AWS. No retries, no
// rollback: the first failing step aborts the run.
type Pipeline struct {
	Config       Config
	Identity     Identity
	Registry     Registry
	Images       Images
	Orchestrator Orchestrator
	LogGroups    LogGroups
}

// NewPipeline wires the pipeline to the real AWS and docker clients.
func NewPipeline(ctx context.Context, cfg Config) (*Pipeline, error) {
	driver := cloudaws.Aws{Region: cloudaws.Region(cfg.Region)}
	awsCfg, err := driver.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg.Region = string(driver.Region)
	return &Pipeline{
		Config:       cfg,
		Identity:     stsIdentity{api: sts.NewFromConfig(awsCfg), region: driver.Region},
		Registry:     ecr.NewClient(awsCfg),
		Images:       docker.NewCLI(docker.NewRunner()),
		Orchestrator: ecs.NewClient(ecssdk.NewFromConfig(awsCfg)),
		LogGroups:    logGroupClient{api: cloudwatchlogs.NewFromConfig(awsCfg)},
	}, nil
}

// Run executes the deploy sequence: credentials, image repository, image
// build and push, cluster, log group, task definition, and finally the
// service itself.
func (p *Pipeline) Run(ctx context.Context) error {
	cfg := p.Config

	term.Info("Checking AWS credentials")
	account, err := p.Identity.AccountInfo(ctx)
	if err != nil {
		return err
	}
	term.Info("Deploying to account", account.AccountID, "in region", cfg.Region)

	term.Info("Ensuring ECR repository", cfg.Repository)
	repoURI, created, err := p.Registry.EnsureRepository(ctx, cfg.Repository)
	if err != nil {
		return err
	}
	if created {
		term.Info("Created ECR repository", repoURI)
	}

	term.Info("Logging in to", registryHost(repoURI))
	auth, err := p.Registry.GetAuthConfig(ctx)
	if err != nil {
		return err
	}
	if err := p.Images.Login(ctx, auth.ServerAddress, auth.Username, auth.Password); err != nil {
		return err
	}

	localTag := cfg.Repository + ":" + cfg.ImageTag
	remoteTag := repoURI + ":" + cfg.ImageTag
	term.Info("Building image", localTag)
	if err := p.Images.Build(ctx, cfg.BuildContext, localTag); err != nil {
		return err
	}
	if err := p.Images.Tag(ctx, localTag, remoteTag); err != nil {
		return err
	}
	term.Info("Pushing", remoteTag)
	if err := p.Images.Push(ctx, remoteTag); err != nil {
		return err
	}

	term.Info("Ensuring ECS cluster", cfg.Cluster)
	if _, created, err = p.Orchestrator.EnsureCluster(ctx, cfg.Cluster); err != nil {
		return err
	} else if created {
		term.Info("Created cluster", cfg.Cluster)
	}

	term.Info("Ensuring log group", cfg.LogGroup)
	if created, err = p.LogGroups.EnsureLogGroup(ctx, cfg.LogGroup); err != nil {
		return err
	} else if created {
		term.Info("Created log group", cfg.LogGroup)
	}

	renderedPath := RenderedPath(cfg.TemplatePath)
	term.Info("Rendering task definition", renderedPath)
	err = RenderTemplate(cfg.TemplatePath, renderedPath, map[string]string{
		"ACCOUNT_ID":         account.AccountID,
		"REGION":             cfg.Region,
		"ECR_REPOSITORY_URI": repoURI,
	})
	if err != nil {
		return err
	}
	// the rendered copy only exists for the registration call
	defer os.Remove(renderedPath)

	data, err := os.ReadFile(renderedPath)
	if err != nil {
		return err
	}
	taskDef, err := ecs.ParseTaskDefinition(data)
	if err != nil {
		return fmt.Errorf("invalid task definition %s: %w", renderedPath, err)
	}
	if cfg.Family != "" {
		taskDef.Family = cfg.Family
	}

	term.Info("Registering task definition", taskDef.Family)
	taskDefARN, err := p.Orchestrator.RegisterTaskDefinition(ctx, taskDef)
	if err != nil {
		return err
	}

	term.Info("Ensuring service", cfg.Service)
	created, err = p.Orchestrator.EnsureService(ctx, cfg.Cluster, cfg.Service, taskDefARN, cfg.Network)
	if err != nil {
		return err
	}
	if created {
		term.Success("Created service", cfg.Service, "on cluster", cfg.Cluster)
	} else {
		term.Success("Updated service", cfg.Service, "to", taskDefARN)
	}
	return nil
}

func registryHost(repoURI string) string {
	for i, r := range repoURI {
		if r == '/' {
			return repoURI[:i]
		}
	}
	return repoURI
}
