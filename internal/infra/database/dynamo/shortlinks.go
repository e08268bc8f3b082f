package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
)

type linkItem struct {
	ShortID   string `dynamodbav:"shortId"`
	LongURL   string `dynamodbav:"longUrl"`
	CreatedAt string `dynamodbav:"createdAt"`
	TTL       int64  `dynamodbav:"ttl"` // unix-секунды, таблица с включённым TTL по этому полю
}

func (r *Repo) GetLink(ctx context.Context, shortID string) (domain.ShortLink, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.linksTable),
		Key:       strKey("shortId", shortID),
	})
	if err != nil {
		r.logger.Printf("GetLink %q: %v", shortID, err)
		return domain.ShortLink{}, fmt.Errorf("get link: %w", err)
	}
	if len(out.Item) == 0 {
		return domain.ShortLink{}, domain.ErrNotFound
	}

	var it linkItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return domain.ShortLink{}, fmt.Errorf("unmarshal link: %w", err)
	}

	link := domain.ShortLink{
		ShortID: it.ShortID,
		LongURL: it.LongURL,
		TTL:     it.TTL,
	}
	link.CreatedAt, _ = time.Parse(time.RFC3339, it.CreatedAt)
	return link, nil
}

func (r *Repo) PutLinkNX(ctx context.Context, link domain.ShortLink) error {
	item, err := attributevalue.MarshalMap(linkItem{
		ShortID:   link.ShortID,
		LongURL:   link.LongURL,
		CreatedAt: link.CreatedAt.UTC().Format(time.RFC3339),
		TTL:       link.TTL,
	})
	if err != nil {
		return fmt.Errorf("marshal link: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.linksTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(shortId)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrConflict
		}
		r.logger.Printf("PutLinkNX %q: %v", link.ShortID, err)
		return fmt.Errorf("put link: %w", err)
	}
	return nil
}

// PurgeExpired — no-op: у таблицы включён нативный TTL, DynamoDB выметает
// просроченные записи сама (best-effort, так и задумано).
func (r *Repo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
