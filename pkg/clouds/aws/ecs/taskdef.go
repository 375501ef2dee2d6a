package ecs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/smithy-go/ptr"
	"github.com/google/uuid"
)

// TaskDefinition mirrors the camelCase JSON of a rendered task-definition
// template, the same shape "aws ecs register-task-definition
// --cli-input-json" accepts.
type TaskDefinition struct {
	Family                  string                `json:"family"`
	NetworkMode             string                `json:"networkMode"`
	RequiresCompatibilities []string              `json:"requiresCompatibilities"`
	Cpu                     string                `json:"cpu"`
	Memory                  string                `json:"memory"`
	ExecutionRoleArn        string                `json:"executionRoleArn,omitempty"`
	TaskRoleArn             string                `json:"taskRoleArn,omitempty"`
	ContainerDefinitions    []ContainerDefinition `json:"containerDefinitions"`
}

type ContainerDefinition struct {
	Name             string            `json:"name"`
	Image            string            `json:"image"`
	Essential        *bool             `json:"essential,omitempty"`
	PortMappings     []PortMapping     `json:"portMappings,omitempty"`
	Environment      []KeyValuePair    `json:"environment,omitempty"`
	LogConfiguration *LogConfiguration `json:"logConfiguration,omitempty"`
}

type PortMapping struct {
	ContainerPort int32  `json:"containerPort"`
	HostPort      int32  `json:"hostPort,omitempty"`
	Protocol      string `json:"protocol,omitempty"`
}

type KeyValuePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type LogConfiguration struct {
	LogDriver string            `json:"logDriver"`
	Options   map[string]string `json:"options,omitempty"`
}

func ParseTaskDefinition(data []byte) (*TaskDefinition, error) {
	var td TaskDefinition
	if err := json.Unmarshal(data, &td); err != nil {
		return nil, fmt.Errorf("invalid task definition: %w", err)
	}
	if td.Family == "" {
		return nil, fmt.Errorf("task definition is missing a family")
	}
	if len(td.ContainerDefinitions) == 0 {
		return nil, fmt.Errorf("task definition %q has no container definitions", td.Family)
	}
	return &td, nil
}

// RegisterTaskDefinition registers a new revision and returns its ARN. Each
// registration is tagged with a fresh deployment ID so revisions can be
// correlated with a deploy run.
func (c *Client) RegisterTaskDefinition(ctx context.Context, td *TaskDefinition) (string, error) {
	input := &ecs.RegisterTaskDefinitionInput{
		Family:      ptr.String(td.Family),
		NetworkMode: types.NetworkMode(td.NetworkMode),
		Cpu:         ptr.String(td.Cpu),
		Memory:      ptr.String(td.Memory),
		Tags: []types.Tag{
			{
				Key:   ptr.String("DeploymentID"),
				Value: ptr.String(uuid.NewString()),
			},
		},
	}
	if td.ExecutionRoleArn != "" {
		input.ExecutionRoleArn = ptr.String(td.ExecutionRoleArn)
	}
	if td.TaskRoleArn != "" {
		input.TaskRoleArn = ptr.String(td.TaskRoleArn)
	}
	for _, compat := range td.RequiresCompatibilities {
		input.RequiresCompatibilities = append(input.RequiresCompatibilities, types.Compatibility(compat))
	}
	for _, cd := range td.ContainerDefinitions {
		input.ContainerDefinitions = append(input.ContainerDefinitions, containerDefinitionToSdk(cd))
	}

	out, err := c.api.RegisterTaskDefinition(ctx, input)
	if err != nil {
		return "", err
	}
	return *out.TaskDefinition.TaskDefinitionArn, nil
}

func containerDefinitionToSdk(cd ContainerDefinition) types.ContainerDefinition {
	sdk := types.ContainerDefinition{
		Name:      ptr.String(cd.Name),
		Image:     ptr.String(cd.Image),
		Essential: cd.Essential,
	}
	for _, pm := range cd.PortMappings {
		mapping := types.PortMapping{
			ContainerPort: ptr.Int32(pm.ContainerPort),
			Protocol:      types.TransportProtocol(pm.Protocol),
		}
		if pm.HostPort != 0 {
			mapping.HostPort = ptr.Int32(pm.HostPort)
		}
		sdk.PortMappings = append(sdk.PortMappings, mapping)
	}
	for _, env := range cd.Environment {
		sdk.Environment = append(sdk.Environment, types.KeyValuePair{
			Name:  ptr.String(env.Name),
			Value: ptr.String(env.Value),
		})
	}
	if cd.LogConfiguration != nil {
		sdk.LogConfiguration = &types.LogConfiguration{
			LogDriver: types.LogDriver(cd.LogConfiguration.LogDriver),
			Options:   cd.LogConfiguration.Options,
		}
	}
	return sdk
}
