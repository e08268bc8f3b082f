// Package awsx собирает aws.Config один раз на процесс; клиенты
// сервисов (S3, DynamoDB, IAM, STS) конструируются из него явно
// и передаются зависимостями — никаких глобальных хэндлов.
package awsx

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

type Options struct {
	Region    string
	AccessKey string // пусто = дефолтная цепочка провайдеров (IAM-роль инстанса и т.д.)
	SecretKey string
}

func Load(ctx context.Context, o Options) (aws.Config, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(o.Region),
	}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, loadOpts...)
}
