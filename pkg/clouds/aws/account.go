package aws

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

type StsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type ErrMissingAwsCreds struct {
	err error
}

func (e ErrMissingAwsCreds) Error() string {
	return "could not authenticate to AWS; check your AWS credentials and try again"
}

func (e ErrMissingAwsCreds) Unwrap() error {
	return e.err
}

type AccountInfo struct {
	AccountID string
	ARN       string
	Region    Region
}

// GetAccountInfo validates the caller's credentials and resolves the account ID.
// A failed STS call is reported as ErrMissingAwsCreds.
func GetAccountInfo(ctx context.Context, api StsAPI, region Region) (AccountInfo, error) {
	identity, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return AccountInfo{}, AnnotateAwsError(err)
	}
	return AccountInfo{
		AccountID: *identity.Account,
		ARN:       *identity.Arn,
		Region:    region,
	}, nil
}

func AnnotateAwsError(err error) error {
	if err == nil {
		return nil
	}
	if cerr := new(smithy.OperationError); errors.As(err, &cerr) {
		// Auth can fail for many reasons: ec2imds not available, timeout, no profile, etc. so only check for top-level STS error
		if cerr.ServiceID == "STS" {
			return ErrMissingAwsCreds{cerr}
		}
		return cerr.Err
	}
	return err
}
