package aws

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

type Region string

type Aws struct {
	Region Region
}

func (a *Aws) LoadConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(string(a.Region)))
	if err != nil {
		return cfg, err
	}
	if cfg.Region == "" {
		return cfg, errors.New("missing AWS region: set AWS_REGION or edit your AWS profile at ~/.aws/config")
	}
	a.Region = Region(cfg.Region)
	return cfg, nil
}

// GetAccountID extracts the account ID from an ARN.
func GetAccountID(arn string) string {
	parts := strings.Split(arn, ":")
	return parts[4] // panics if the ARN is malformed
}
