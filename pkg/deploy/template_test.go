package deploy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateFixture = `{
  "family": "propgen-task",
  "networkMode": "awsvpc",
  "requiresCompatibilities": ["FARGATE"],
  "cpu": "256",
  "memory": "512",
  "executionRoleArn": "arn:aws:iam::{ACCOUNT_ID}:role/ecsTaskExecutionRole",
  "containerDefinitions": [
    {
      "name": "propgen-app",
      "image": "{ECR_REPOSITORY_URI}:latest",
      "essential": true,
      "portMappings": [{"containerPort": 5000, "protocol": "tcp"}],
      "logConfiguration": {
        "logDriver": "awslogs",
        "options": {
          "awslogs-group": "/ecs/propgen",
          "awslogs-region": "{REGION}",
          "awslogs-stream-prefix": "app"
        }
      }
    }
  ]
}
`

func writeTemplateFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ecs-task-definition.json")
	require.NoError(t, os.WriteFile(path, []byte(templateFixture), 0644))
	return path
}

func TestRenderTemplateSubstitutesAllTokens(t *testing.T) {
	src := writeTemplateFixture(t)
	dst := RenderedPath(src)

	err := RenderTemplate(src, dst, map[string]string{
		"ACCOUNT_ID":         "123456789012",
		"REGION":             "us-east-1",
		"ECR_REPOSITORY_URI": "123456789012.dkr.ecr.us-east-1.amazonaws.com/propgen-app",
	})
	require.NoError(t, err)

	rendered, err := os.ReadFile(dst)
	require.NoError(t, err)
	for _, token := range []string{"{ACCOUNT_ID}", "{REGION}", "{ECR_REPOSITORY_URI}"} {
		assert.NotContains(t, string(rendered), token)
	}
	assert.Contains(t, string(rendered), "arn:aws:iam::123456789012:role/ecsTaskExecutionRole")
}

func TestRenderTemplateRejectsLeftoverTokens(t *testing.T) {
	src := writeTemplateFixture(t)
	dst := RenderedPath(src)

	err := RenderTemplate(src, dst, map[string]string{"ACCOUNT_ID": "123456789012"})
	require.ErrorContains(t, err, "placeholder")

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr), "no rendered file should be written when substitution is incomplete")
}

func TestRenderTemplateMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := RenderTemplate(filepath.Join(dir, "nope.json"), filepath.Join(dir, "out.json"), nil)
	assert.Error(t, err)
}

func TestRenderedPath(t *testing.T) {
	got := RenderedPath(filepath.Join("templates", "ecs-task-definition.json"))
	assert.Equal(t, filepath.Join("templates", "ecs-task-definition.rendered.json"), got)
}
