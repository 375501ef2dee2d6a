package ecs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/smithy-go/ptr"
)

const desiredCount = 1

// ServiceNetwork carries the awsvpc wiring for a newly created service.
// The IDs ship as placeholders and must be edited for the target account.
type ServiceNetwork struct {
	SubnetIDs        []string
	SecurityGroupIDs []string
	TargetGroupARN   string
	ContainerName    string
	ContainerPort    int32
}

// EnsureService points the named service at taskDefARN, creating the service
// if the cluster does not have an active one. ECS reports a missing service
// either as a ServiceNotFoundException or as a non-ACTIVE entry in the
// describe response, so both drive the create branch.
func (c *Client) EnsureService(ctx context.Context, cluster, service, taskDefARN string, network ServiceNetwork) (created bool, err error) {
	resp, err := c.api.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  ptr.String(cluster),
		Services: []string{service},
	})
	if err == nil {
		for _, svc := range resp.Services {
			if *svc.Status == "ACTIVE" {
				_, err := c.api.UpdateService(ctx, &ecs.UpdateServiceInput{
					Cluster:            ptr.String(cluster),
					Service:            ptr.String(service),
					TaskDefinition:     ptr.String(taskDefARN),
					ForceNewDeployment: true,
				})
				return false, err
			}
		}
	}

	input := &ecs.CreateServiceInput{
		Cluster:        ptr.String(cluster),
		ServiceName:    ptr.String(service),
		TaskDefinition: ptr.String(taskDefARN),
		DesiredCount:   ptr.Int32(desiredCount),
		LaunchType:     types.LaunchTypeFargate,
		NetworkConfiguration: &types.NetworkConfiguration{
			AwsvpcConfiguration: &types.AwsVpcConfiguration{
				AssignPublicIp: types.AssignPublicIpEnabled, // only works with public subnets
				Subnets:        network.SubnetIDs,
				SecurityGroups: network.SecurityGroupIDs,
			},
		},
	}
	if network.TargetGroupARN != "" {
		input.LoadBalancers = []types.LoadBalancer{
			{
				TargetGroupArn: ptr.String(network.TargetGroupARN),
				ContainerName:  ptr.String(network.ContainerName),
				ContainerPort:  ptr.Int32(network.ContainerPort),
			},
		}
	}
	_, err = c.api.CreateService(ctx, input)
	return true, err
}
