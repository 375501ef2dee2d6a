package ecs

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/smithy-go/ptr"
)

type LogsAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
}

// EnsureLogGroup creates the log group if it does not exist. A concurrent
// create (ResourceAlreadyExistsException) is not an error.
func EnsureLogGroup(ctx context.Context, api LogsAPI, name string) (created bool, err error) {
	resp, err := api.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: ptr.String(name),
	})
	if err != nil {
		return false, err
	}
	for _, group := range resp.LogGroups {
		if *group.LogGroupName == name {
			return false, nil
		}
	}

	if _, err := api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: ptr.String(name),
	}); err != nil {
		var alreadyExists *types.ResourceAlreadyExistsException
		if errors.As(err, &alreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
