// Package iamscope выпускает пер-пользовательские authorization scope'ы:
// IAM-роль, которую может принять только бэкенд, с правами строго
// на поддерево "{username}/" общего бакета.
package iamscope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/sethvargo/go-retry"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

const (
	rolePrefix = "PhotoSnapUserS3Access-"
	policyName = "UserS3Access"

	maxAttempts   = 3
	backoffBase   = 200 * time.Millisecond
	provisionWait = 15 * time.Second
)

type API interface {
	CreateRole(ctx context.Context, in *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	PutRolePolicy(ctx context.Context, in *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error)
	DeleteRolePolicy(ctx context.Context, in *iam.DeleteRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error)
	DeleteRole(ctx context.Context, in *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error)
}

type Config struct {
	AccountID       string
	BackendRoleName string // роль бэкенда — единственный доверенный principal
	Bucket          string
}

type Issuer struct {
	logger *log.Logger
	client API
	cfg    Config
}

func New(client API, cfg Config, logger *log.Logger) *Issuer {
	return &Issuer{logger: logger, client: client, cfg: cfg}
}

func RoleName(username string) string { return rolePrefix + username }

func (i *Issuer) roleArn(username string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", i.cfg.AccountID, RoleName(username))
}

// Документы политик собираем структурами, а не строковыми шаблонами.
type policyDoc struct {
	Version   string       `json:"Version"`
	Statement []policyStmt `json:"Statement"`
}

type policyStmt struct {
	Effect    string         `json:"Effect"`
	Principal map[string]any `json:"Principal,omitempty"`
	Action    any            `json:"Action"`
	Resource  any            `json:"Resource,omitempty"`
	Condition map[string]any `json:"Condition,omitempty"`
}

func (i *Issuer) trustPolicy() string {
	doc := policyDoc{
		Version: "2012-10-17",
		Statement: []policyStmt{{
			Effect: "Allow",
			Principal: map[string]any{
				"AWS": fmt.Sprintf("arn:aws:iam::%s:role/%s", i.cfg.AccountID, i.cfg.BackendRoleName),
			},
			Action: "sts:AssumeRole",
		}},
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

func (i *Issuer) scopePolicy(username string) string {
	doc := policyDoc{
		Version: "2012-10-17",
		Statement: []policyStmt{
			{
				Effect:   "Allow",
				Action:   "s3:ListBucket",
				Resource: fmt.Sprintf("arn:aws:s3:::%s", i.cfg.Bucket),
				Condition: map[string]any{
					// без голого username листинг корня папки не работает
					"StringLike": map[string]any{
						"s3:prefix": []string{username + "/*", username},
					},
				},
			},
			{
				Effect:   "Allow",
				Action:   []string{"s3:GetObject", "s3:PutObject", "s3:DeleteObject"},
				Resource: fmt.Sprintf("arn:aws:s3:::%s/%s/*", i.cfg.Bucket, username),
			},
		},
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

// ProvisionScope создаёт роль и вешает политику. IAM-троттлинг — штатная
// ситуация, поэтому оба вызова ходят с ограниченным fibonacci-бэкоффом.
func (i *Issuer) ProvisionScope(ctx context.Context, username string) (string, error) {
	name := RoleName(username)

	ctx, cancel := context.WithTimeout(ctx, provisionWait)
	defer cancel()

	err := i.withBackoff(ctx, func(ctx context.Context) error {
		_, err := i.client.CreateRole(ctx, &iam.CreateRoleInput{
			RoleName:                 aws.String(name),
			AssumeRolePolicyDocument: aws.String(i.trustPolicy()),
		})
		return err
	})
	if err != nil {
		var exists *types.EntityAlreadyExistsException
		if errors.As(err, &exists) {
			// роль осталась от полупровалившегося signup — считаем конфликтом
			return "", domain.ErrConflict
		}
		i.logger.Printf("create role %q: %v", name, err)
		return "", fmt.Errorf("%w: create role: %v", domain.ErrUpstream, err)
	}

	err = i.withBackoff(ctx, func(ctx context.Context) error {
		_, err := i.client.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
			RoleName:       aws.String(name),
			PolicyName:     aws.String(policyName),
			PolicyDocument: aws.String(i.scopePolicy(username)),
		})
		return err
	})
	if err != nil {
		i.logger.Printf("put role policy %q: %v", name, err)
		// роль без политики бесполезна и мешает повторному signup — убираем
		if rerr := i.RevokeScope(context.WithoutCancel(ctx), username); rerr != nil {
			i.logger.Printf("rollback role %q: %v", name, rerr)
		}
		return "", fmt.Errorf("%w: put role policy: %v", domain.ErrUpstream, err)
	}

	i.logger.Printf("scope provisioned role=%s", name)
	return i.roleArn(username), nil
}

// RevokeScope — компенсация: политика, затем роль. Отсутствие
// сущностей не считается ошибкой.
func (i *Issuer) RevokeScope(ctx context.Context, username string) error {
	name := RoleName(username)

	_, err := i.client.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
		RoleName:   aws.String(name),
		PolicyName: aws.String(policyName),
	})
	if err != nil && !isNoSuchEntity(err) {
		return fmt.Errorf("delete role policy: %w", err)
	}

	_, err = i.client.DeleteRole(ctx, &iam.DeleteRoleInput{
		RoleName: aws.String(name),
	})
	if err != nil && !isNoSuchEntity(err) {
		return fmt.Errorf("delete role: %w", err)
	}

	i.logger.Printf("scope revoked role=%s", name)
	return nil
}

func (i *Issuer) withBackoff(ctx context.Context, fn func(context.Context) error) error {
	b := retry.WithMaxRetries(maxAttempts, retry.NewFibonacci(backoffBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		// "already exists" повторять бессмысленно, остальное — да
		var exists *types.EntityAlreadyExistsException
		if errors.As(err, &exists) {
			return err
		}
		return retry.RetryableError(err)
	})
}

func isNoSuchEntity(err error) bool {
	var nse *types.NoSuchEntityException
	return errors.As(err, &nse)
}
