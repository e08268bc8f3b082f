package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ---- DynamoDB репозиторий (users + short links) ----

// API — срез клиента DynamoDB, который нам реально нужен.
// Сужение до интерфейса даёт подменяемость в тестах.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type Repo struct {
	logger     *log.Logger
	client     API
	usersTable string
	linksTable string
}

func NewRepo(logger *log.Logger, client API, usersTable, linksTable string) *Repo {
	return &Repo{
		logger:     logger,
		client:     client,
		usersTable: usersTable,
		linksTable: linksTable,
	}
}

// Клиент внешний, закрывать нечего.
func (r *Repo) Close() {}

func (r *Repo) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.usersTable),
	})
	if err != nil {
		r.logger.Printf("ping failed: %v", err)
		return fmt.Errorf("describe table: %w", err)
	}
	return nil
}

func strKey(name, val string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: val},
	}
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
