package ecs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/smithy-go/ptr"
)

// EnsureCluster returns the ARN of the named cluster, creating it with the
// Fargate capacity providers if it does not exist. A cluster that was deleted
// (status INACTIVE) counts as missing.
func (c *Client) EnsureCluster(ctx context.Context, name string) (arn string, created bool, err error) {
	resp, err := c.api.DescribeClusters(ctx, &ecs.DescribeClustersInput{
		Clusters: []string{name},
	})
	if err != nil {
		return "", false, err
	}
	for _, cluster := range resp.Clusters {
		if *cluster.Status == "ACTIVE" {
			return *cluster.ClusterArn, false, nil
		}
	}

	out, err := c.api.CreateCluster(ctx, &ecs.CreateClusterInput{
		ClusterName:       ptr.String(name),
		CapacityProviders: []string{"FARGATE", "FARGATE_SPOT"},
		DefaultCapacityProviderStrategy: []types.CapacityProviderStrategyItem{
			{
				CapacityProvider: ptr.String("FARGATE"),
				Weight:           1,
			},
		},
	})
	if err != nil {
		return "", false, err
	}
	return *out.Cluster.ClusterArn, true, nil
}
