package deploy

import (
	"github.com/propgen/opsctl/pkg"
	"github.com/propgen/opsctl/pkg/clouds/aws/ecs"
)

// Config carries the deployment constants. Every value has a sensible default
// and can be overridden through the environment so CI does not need flags.
type Config struct {
	Region       string
	Repository   string
	Cluster      string
	Service      string
	Family       string
	LogGroup     string
	TemplatePath string
	BuildContext string
	ImageTag     string
	Network      ecs.ServiceNetwork
}

func DefaultConfig() Config {
	return Config{
		Region:       pkg.Getenv("OPSCTL_REGION", "us-east-1"),
		Repository:   pkg.Getenv("OPSCTL_ECR_REPOSITORY", "propgen-app"),
		Cluster:      pkg.Getenv("OPSCTL_CLUSTER", "propgen-cluster"),
		Service:      pkg.Getenv("OPSCTL_SERVICE", "propgen-service"),
		Family:       pkg.Getenv("OPSCTL_TASK_FAMILY", "propgen-task"),
		LogGroup:     pkg.Getenv("OPSCTL_LOG_GROUP", "/ecs/propgen"),
		TemplatePath: pkg.Getenv("OPSCTL_TASKDEF_TEMPLATE", "templates/ecs-task-definition.json"),
		BuildContext: pkg.Getenv("OPSCTL_BUILD_CONTEXT", "."),
		ImageTag:     pkg.Getenv("OPSCTL_IMAGE_TAG", "latest"),
		Network: ecs.ServiceNetwork{
			// placeholders: edit these (or set the env vars) to match your VPC
			SubnetIDs:        []string{pkg.Getenv("OPSCTL_SUBNET_ID", "subnet-REPLACE_ME")},
			SecurityGroupIDs: []string{pkg.Getenv("OPSCTL_SECURITY_GROUP_ID", "sg-REPLACE_ME")},
			ContainerName:    "propgen-app",
			ContainerPort:    5000,
		},
	}
}
