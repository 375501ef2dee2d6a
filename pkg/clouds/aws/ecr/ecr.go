package ecr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/smithy-go/ptr"
)

type API interface {
	DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error)
	CreateRepository(ctx context.Context, params *ecr.CreateRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error)
	GetAuthorizationToken(ctx context.Context, params *ecr.GetAuthorizationTokenInput, optFns ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error)
}

type Client struct {
	api API
}

func NewClient(cfg aws.Config) *Client {
	return &Client{api: ecr.NewFromConfig(cfg)}
}

func NewClientWithAPI(api API) *Client {
	return &Client{api: api}
}

// EnsureRepository returns the URI of the named repository, creating it if the
// describe call reports it missing. Any other describe error is fatal.
func (c *Client) EnsureRepository(ctx context.Context, name string) (uri string, created bool, err error) {
	resp, err := c.api.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RepositoryNames: []string{name},
	})
	if err == nil {
		if len(resp.Repositories) == 0 {
			return "", false, fmt.Errorf("repository %q not in describe response", name)
		}
		return *resp.Repositories[0].RepositoryUri, false, nil
	}

	var notFound *types.RepositoryNotFoundException
	if !errors.As(err, &notFound) {
		return "", false, err
	}

	out, err := c.api.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		RepositoryName: ptr.String(name),
		ImageScanningConfiguration: &types.ImageScanningConfiguration{
			ScanOnPush: true,
		},
	})
	if err != nil {
		return "", false, err
	}
	return *out.Repository.RepositoryUri, true, nil
}

type AuthConfig struct {
	Username      string
	Password      string
	ServerAddress string
}

// GetAuthConfig fetches a registry auth token and decodes it into the
// username/password pair expected by "docker login".
func (c *Client) GetAuthConfig(ctx context.Context) (AuthConfig, error) {
	out, err := c.api.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return AuthConfig{}, err
	}
	if len(out.AuthorizationData) == 0 || out.AuthorizationData[0].AuthorizationToken == nil {
		return AuthConfig{}, errors.New("no authorization data received from ECR")
	}
	data := out.AuthorizationData[0]

	decoded, err := base64.StdEncoding.DecodeString(*data.AuthorizationToken)
	if err != nil {
		return AuthConfig{}, fmt.Errorf("invalid authorization token: %w", err)
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return AuthConfig{}, errors.New("malformed authorization token")
	}

	server := ""
	if data.ProxyEndpoint != nil {
		server = strings.TrimPrefix(*data.ProxyEndpoint, "https://")
	}
	return AuthConfig{
		Username:      username,
		Password:      password,
		ServerAddress: server,
	}, nil
}
