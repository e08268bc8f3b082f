// Package stsbroker меняет scope пользователя на временные креды.
package stsbroker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

// Срок аренды фиксированный: ровно час, без продления —
// по истечении клиент логинится заново.
const leaseDuration = 3600 * time.Second

type API interface {
	AssumeRole(ctx context.Context, in *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

type Config struct {
	Bucket string
	Region string
}

type Broker struct {
	logger *log.Logger
	client API
	cfg    Config
}

func New(client API, cfg Config, logger *log.Logger) *Broker {
	return &Broker{logger: logger, client: client, cfg: cfg}
}

func (b *Broker) IssueLease(ctx context.Context, username, roleArn string) (domain.CredentialLease, domain.ScopeDescriptor, error) {
	out, err := b.client.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleArn),
		RoleSessionName: aws.String(username + "-session"),
		DurationSeconds: aws.Int32(int32(leaseDuration.Seconds())),
	})
	if err != nil {
		b.logger.Printf("assume role for %q: %v", username, err)
		return domain.CredentialLease{}, domain.ScopeDescriptor{},
			fmt.Errorf("%w: assume role: %v", domain.ErrUpstream, err)
	}

	creds := out.Credentials
	lease := domain.CredentialLease{
		AccessKeyID:     aws.ToString(creds.AccessKeyId),
		SecretAccessKey: aws.ToString(creds.SecretAccessKey),
		SessionToken:    aws.ToString(creds.SessionToken),
	}
	if creds.Expiration != nil {
		lease.Expiration = *creds.Expiration
	}

	scope := domain.ScopeDescriptor{
		Bucket: b.cfg.Bucket,
		Folder: username + "/",
		Region: b.cfg.Region,
	}
	return lease, scope, nil
}
