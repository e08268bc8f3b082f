package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

// Формат записи в таблице пользователей. Времена храним строками RFC3339,
// как их писала первая версия сервиса — записи обратно совместимы.
type userItem struct {
	Username     string `dynamodbav:"username"`
	PasswordHash string `dynamodbav:"passwordHash"`
	RoleArn      string `dynamodbav:"roleArn"`
	CreatedAt    string `dynamodbav:"createdAt"`
	ResetToken   string `dynamodbav:"resetToken,omitempty"`
	ResetExpiry  string `dynamodbav:"resetExpiry,omitempty"`
}

func toUserItem(u domain.User) userItem {
	it := userItem{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		RoleArn:      u.RoleArn,
		CreatedAt:    u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.HasPendingReset() {
		it.ResetToken = u.ResetToken
		it.ResetExpiry = u.ResetExpiry.UTC().Format(time.RFC3339)
	}
	return it
}

func (it userItem) toDomain() domain.User {
	u := domain.User{
		Username:     it.Username,
		PasswordHash: it.PasswordHash,
		RoleArn:      it.RoleArn,
		ResetToken:   it.ResetToken,
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, it.CreatedAt)
	if it.ResetExpiry != "" {
		u.ResetExpiry, _ = time.Parse(time.RFC3339, it.ResetExpiry)
	}
	return u
}

func (r *Repo) GetUser(ctx context.Context, username string) (domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.usersTable),
		Key:       strKey("username", username),
	})
	if err != nil {
		r.logger.Printf("GetUser %q: %v", username, err)
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if len(out.Item) == 0 {
		return domain.User{}, domain.ErrNotFound
	}

	var it userItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return domain.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return it.toDomain(), nil
}

// PutUserNX — условная вставка: attribute_not_exists гарантирует,
// что из двух конкурентных signup выиграет ровно один.
func (r *Repo) PutUserNX(ctx context.Context, u domain.User) error {
	item, err := attributevalue.MarshalMap(toUserItem(u))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.usersTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(username)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrConflict
		}
		r.logger.Printf("PutUserNX %q: %v", u.Username, err)
		return fmt.Errorf("put user: %w", err)
	}
	r.logger.Printf("PutUserNX ok username=%s", u.Username)
	return nil
}

// UpdatePasswordHash одним обновлением меняет хэш и снимает reset-токен:
// потреблённый токен не должен сработать второй раз.
func (r *Repo) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.usersTable),
		Key:                 strKey("username", username),
		UpdateExpression:    aws.String("SET passwordHash = :hash REMOVE resetToken, resetExpiry"),
		ConditionExpression: aws.String("attribute_exists(username)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":hash": &types.AttributeValueMemberS{Value: passwordHash},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrNotFound
		}
		r.logger.Printf("UpdatePasswordHash %q: %v", username, err)
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

func (r *Repo) SetResetToken(ctx context.Context, username, token string, expiry time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.usersTable),
		Key:                 strKey("username", username),
		UpdateExpression:    aws.String("SET resetToken = :token, resetExpiry = :expiry"),
		ConditionExpression: aws.String("attribute_exists(username)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token":  &types.AttributeValueMemberS{Value: token},
			":expiry": &types.AttributeValueMemberS{Value: expiry.UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrNotFound
		}
		r.logger.Printf("SetResetToken %q: %v", username, err)
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

func (r *Repo) ClearResetToken(ctx context.Context, username string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.usersTable),
		Key:                 strKey("username", username),
		UpdateExpression:    aws.String("REMOVE resetToken, resetExpiry"),
		ConditionExpression: aws.String("attribute_exists(username)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrNotFound
		}
		r.logger.Printf("ClearResetToken %q: %v", username, err)
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}
