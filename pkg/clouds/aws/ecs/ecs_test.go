package ecs

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/smithy-go/ptr"
)

type fakeECSAPI struct {
	clusterStatus string // "" means no cluster in the describe response
	serviceStatus string // "" means no service in the describe response
	describeErr   error

	createClusterCalls int
	createServiceCalls int
	updateServiceCalls int
	registerCalls      int

	lastRegisterInput *ecs.RegisterTaskDefinitionInput
	lastCreateService *ecs.CreateServiceInput
	lastUpdateService *ecs.UpdateServiceInput
}

func (f *fakeECSAPI) DescribeClusters(ctx context.Context, params *ecs.DescribeClustersInput, optFns ...func(*ecs.Options)) (*ecs.DescribeClustersOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	out := &ecs.DescribeClustersOutput{}
	if f.clusterStatus != "" {
		out.Clusters = []types.Cluster{
			{
				ClusterArn:  ptr.String("arn:aws:ecs:us-east-1:123456789012:cluster/" + params.Clusters[0]),
				ClusterName: ptr.String(params.Clusters[0]),
				Status:      ptr.String(f.clusterStatus),
			},
		}
	}
	return out, nil
}

func (f *fakeECSAPI) CreateCluster(ctx context.Context, params *ecs.CreateClusterInput, optFns ...func(*ecs.Options)) (*ecs.CreateClusterOutput, error) {
	f.createClusterCalls++
	return &ecs.CreateClusterOutput{
		Cluster: &types.Cluster{
			ClusterArn: ptr.String("arn:aws:ecs:us-east-1:123456789012:cluster/" + *params.ClusterName),
		},
	}, nil
}

func (f *fakeECSAPI) RegisterTaskDefinition(ctx context.Context, params *ecs.RegisterTaskDefinitionInput, optFns ...func(*ecs.Options)) (*ecs.RegisterTaskDefinitionOutput, error) {
	f.registerCalls++
	f.lastRegisterInput = params
	return &ecs.RegisterTaskDefinitionOutput{
		TaskDefinition: &types.TaskDefinition{
			TaskDefinitionArn: ptr.String("arn:aws:ecs:us-east-1:123456789012:task-definition/" + *params.Family + ":7"),
		},
	}, nil
}

func (f *fakeECSAPI) DescribeServices(ctx context.Context, params *ecs.DescribeServicesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	out := &ecs.DescribeServicesOutput{}
	if f.serviceStatus != "" {
		out.Services = []types.Service{
			{
				ServiceName: ptr.String(params.Services[0]),
				Status:      ptr.String(f.serviceStatus),
			},
		}
	}
	return out, nil
}

func (f *fakeECSAPI) CreateService(ctx context.Context, params *ecs.CreateServiceInput, optFns ...func(*ecs.Options)) (*ecs.CreateServiceOutput, error) {
	f.createServiceCalls++
	f.lastCreateService = params
	return &ecs.CreateServiceOutput{}, nil
}

func (f *fakeECSAPI) UpdateService(ctx context.Context, params *ecs.UpdateServiceInput, optFns ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error) {
	f.updateServiceCalls++
	f.lastUpdateService = params
	return &ecs.UpdateServiceOutput{}, nil
}

func TestEnsureClusterExists(t *testing.T) {
	api := &fakeECSAPI{clusterStatus: "ACTIVE"}
	client := NewClient(api)

	arn, created, err := client.EnsureCluster(context.Background(), "propgen-cluster")
	if err != nil {
		t.Fatalf("EnsureCluster() error = %v", err)
	}
	if created {
		t.Error("EnsureCluster() created = true for an active cluster")
	}
	if api.createClusterCalls != 0 {
		t.Errorf("CreateCluster called %d times, want 0", api.createClusterCalls)
	}
	if arn != "arn:aws:ecs:us-east-1:123456789012:cluster/propgen-cluster" {
		t.Errorf("EnsureCluster() arn = %q", arn)
	}
}

func TestEnsureClusterCreates(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{"missing", ""},
		{"inactive", "INACTIVE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeECSAPI{clusterStatus: tt.status}
			client := NewClient(api)

			_, created, err := client.EnsureCluster(context.Background(), "propgen-cluster")
			if err != nil {
				t.Fatalf("EnsureCluster() error = %v", err)
			}
			if !created {
				t.Error("EnsureCluster() created = false, want true")
			}
			if api.createClusterCalls != 1 {
				t.Errorf("CreateCluster called %d times, want 1", api.createClusterCalls)
			}
		})
	}
}

func TestEnsureServiceUpdatesActive(t *testing.T) {
	api := &fakeECSAPI{serviceStatus: "ACTIVE"}
	client := NewClient(api)

	created, err := client.EnsureService(context.Background(), "propgen-cluster", "propgen-service", "arn:td:1", ServiceNetwork{})
	if err != nil {
		t.Fatalf("EnsureService() error = %v", err)
	}
	if created {
		t.Error("EnsureService() created = true for an active service")
	}
	if api.updateServiceCalls != 1 || api.createServiceCalls != 0 {
		t.Errorf("update/create calls = %d/%d, want 1/0", api.updateServiceCalls, api.createServiceCalls)
	}
	if *api.lastUpdateService.TaskDefinition != "arn:td:1" {
		t.Errorf("UpdateService task definition = %q", *api.lastUpdateService.TaskDefinition)
	}
}

func TestEnsureServiceCreatesMissing(t *testing.T) {
	api := &fakeECSAPI{}
	client := NewClient(api)

	network := ServiceNetwork{
		SubnetIDs:        []string{"subnet-PLACEHOLDER"},
		SecurityGroupIDs: []string{"sg-PLACEHOLDER"},
		TargetGroupARN:   "arn:aws:elasticloadbalancing:us-east-1:123456789012:targetgroup/propgen/abc",
		ContainerName:    "propgen",
		ContainerPort:    5000,
	}
	created, err := client.EnsureService(context.Background(), "propgen-cluster", "propgen-service", "arn:td:1", network)
	if err != nil {
		t.Fatalf("EnsureService() error = %v", err)
	}
	if !created {
		t.Error("EnsureService() created = false, want true")
	}
	if api.createServiceCalls != 1 || api.updateServiceCalls != 0 {
		t.Errorf("create/update calls = %d/%d, want 1/0", api.createServiceCalls, api.updateServiceCalls)
	}
	in := api.lastCreateService
	if *in.DesiredCount != 1 {
		t.Errorf("CreateService desired count = %d, want 1", *in.DesiredCount)
	}
	if in.LaunchType != types.LaunchTypeFargate {
		t.Errorf("CreateService launch type = %v, want FARGATE", in.LaunchType)
	}
	if len(in.LoadBalancers) != 1 || *in.LoadBalancers[0].ContainerPort != 5000 {
		t.Errorf("CreateService load balancer wiring = %+v", in.LoadBalancers)
	}
}

func TestEnsureServiceCreatesOnDescribeFailure(t *testing.T) {
	// The existence check failing is the expected "not found" branch.
	api := &fakeECSAPI{describeErr: errors.New("ServiceNotFoundException")}
	client := NewClient(api)

	created, err := client.EnsureService(context.Background(), "propgen-cluster", "propgen-service", "arn:td:1", ServiceNetwork{})
	if err != nil {
		t.Fatalf("EnsureService() error = %v", err)
	}
	if !created || api.createServiceCalls != 1 {
		t.Errorf("expected create branch, got created=%v createCalls=%d", created, api.createServiceCalls)
	}
}

func TestRegisterTaskDefinition(t *testing.T) {
	api := &fakeECSAPI{}
	client := NewClient(api)

	td := &TaskDefinition{
		Family:                  "propgen-task",
		NetworkMode:             "awsvpc",
		RequiresCompatibilities: []string{"FARGATE"},
		Cpu:                     "256",
		Memory:                  "512",
		ExecutionRoleArn:        "arn:aws:iam::123456789012:role/ecsTaskExecutionRole",
		ContainerDefinitions: []ContainerDefinition{
			{
				Name:      "propgen",
				Image:     "123456789012.dkr.ecr.us-east-1.amazonaws.com/propgen:latest",
				Essential: ptr.Bool(true),
				PortMappings: []PortMapping{
					{ContainerPort: 5000, Protocol: "tcp"},
				},
				Environment: []KeyValuePair{
					{Name: "FLASK_ENV", Value: "production"},
				},
				LogConfiguration: &LogConfiguration{
					LogDriver: "awslogs",
					Options:   map[string]string{"awslogs-group": "/ecs/propgen"},
				},
			},
		},
	}

	arn, err := client.RegisterTaskDefinition(context.Background(), td)
	if err != nil {
		t.Fatalf("RegisterTaskDefinition() error = %v", err)
	}
	if arn != "arn:aws:ecs:us-east-1:123456789012:task-definition/propgen-task:7" {
		t.Errorf("RegisterTaskDefinition() arn = %q", arn)
	}

	in := api.lastRegisterInput
	if in.NetworkMode != types.NetworkModeAwsvpc {
		t.Errorf("network mode = %v, want awsvpc", in.NetworkMode)
	}
	if len(in.RequiresCompatibilities) != 1 || in.RequiresCompatibilities[0] != types.CompatibilityFargate {
		t.Errorf("compatibilities = %v, want [FARGATE]", in.RequiresCompatibilities)
	}
	cd := in.ContainerDefinitions[0]
	if *cd.PortMappings[0].ContainerPort != 5000 {
		t.Errorf("container port = %d, want 5000", *cd.PortMappings[0].ContainerPort)
	}
	if cd.LogConfiguration.LogDriver != types.LogDriverAwslogs {
		t.Errorf("log driver = %v, want awslogs", cd.LogConfiguration.LogDriver)
	}
	if len(in.Tags) != 1 || *in.Tags[0].Key != "DeploymentID" {
		t.Errorf("tags = %v, want a DeploymentID tag", in.Tags)
	}
}

func TestParseTaskDefinition(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"valid", `{"family":"propgen-task","containerDefinitions":[{"name":"propgen","image":"img"}]}`, false},
		{"no family", `{"containerDefinitions":[{"name":"propgen","image":"img"}]}`, true},
		{"no containers", `{"family":"propgen-task"}`, true},
		{"garbage", `{not json`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaskDefinition([]byte(tt.json))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTaskDefinition() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
