package stsbroker

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

type fakeSTS struct {
	lastIn *sts.AssumeRoleInput
	err    error
}

func (f *fakeSTS) AssumeRole(_ context.Context, in *sts.AssumeRoleInput, _ ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	f.lastIn = in
	if f.err != nil {
		return nil, f.err
	}
	exp := time.Now().Add(time.Hour)
	return &sts.AssumeRoleOutput{
		Credentials: &types.Credentials{
			AccessKeyId:     aws.String("ASIA-TEST"),
			SecretAccessKey: aws.String("secret"),
			SessionToken:    aws.String("session"),
			Expiration:      &exp,
		},
	}, nil
}

func TestIssueLease(t *testing.T) {
	fake := &fakeSTS{}
	b := New(fake, Config{Bucket: "photosnap-photos", Region: "us-east-1"}, log.New(io.Discard, "", 0))

	roleArn := "arn:aws:iam::123456789012:role/PhotoSnapUserS3Access-alice"
	lease, scope, err := b.IssueLease(context.Background(), "alice", roleArn)
	require.NoError(t, err)

	assert.Equal(t, roleArn, aws.ToString(fake.lastIn.RoleArn))
	assert.Equal(t, "alice-session", aws.ToString(fake.lastIn.RoleSessionName))
	assert.Equal(t, int32(3600), aws.ToInt32(fake.lastIn.DurationSeconds))

	assert.Equal(t, "ASIA-TEST", lease.AccessKeyID)
	assert.Equal(t, "session", lease.SessionToken)
	assert.False(t, lease.Expiration.IsZero())

	assert.Equal(t, "photosnap-photos", scope.Bucket)
	assert.Equal(t, "alice/", scope.Folder)
	assert.Equal(t, "us-east-1", scope.Region)
}

func TestIssueLeaseUpstreamError(t *testing.T) {
	fake := &fakeSTS{err: errors.New("AccessDenied")}
	b := New(fake, Config{}, log.New(io.Discard, "", 0))

	_, _, err := b.IssueLease(context.Background(), "alice", "arn:...")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
