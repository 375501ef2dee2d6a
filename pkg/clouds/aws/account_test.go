package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/aws/smithy-go/ptr"
)

type fakeStsAPI struct {
	err error
}

func (f fakeStsAPI) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{
		Account: ptr.String("123456789012"),
		Arn:     ptr.String("arn:aws:iam::123456789012:user/tester"),
	}, nil
}

func TestGetAccountInfo(t *testing.T) {
	info, err := GetAccountInfo(context.Background(), fakeStsAPI{}, "us-east-1")
	if err != nil {
		t.Fatalf("GetAccountInfo() error = %v", err)
	}
	if info.AccountID != "123456789012" {
		t.Errorf("AccountID = %q, want %q", info.AccountID, "123456789012")
	}
	if info.Region != "us-east-1" {
		t.Errorf("Region = %q, want %q", info.Region, "us-east-1")
	}
}

func TestGetAccountInfoBadCreds(t *testing.T) {
	stsErr := &smithy.OperationError{
		ServiceID:     "STS",
		OperationName: "GetCallerIdentity",
		Err:           errors.New("expired credentials"),
	}
	_, err := GetAccountInfo(context.Background(), fakeStsAPI{err: stsErr}, "us-east-1")
	var missingCreds ErrMissingAwsCreds
	if !errors.As(err, &missingCreds) {
		t.Errorf("GetAccountInfo() error = %v, want ErrMissingAwsCreds", err)
	}
}

func TestGetAccountID(t *testing.T) {
	arn := "arn:aws:ecs:us-west-2:123456789012:task/cluster-name/12345678123412341234123456789012"
	if got := GetAccountID(arn); got != "123456789012" {
		t.Errorf("GetAccountID(%q) = %q, want %q", arn, got, "123456789012")
	}
}
