package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/alquila-alerts/internal/domain"
)

const (
	statusScheduledIndex = "status-scheduled_date-index"
	ownerScheduledIndex  = "owner_id-scheduled_date-index"

	// claimLease is how long a claim blocks other dispatchers. A run that dies after
	// claiming leaves the record pending; it becomes claimable again once this passes.
	claimLease = 15 * time.Minute
)

// API is the subset of the DynamoDB client the repository uses.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// NotificationRepo stores notifications in one table and reserves each dedup key in a
// second table. Both items are written in one transaction guarded by
// attribute_not_exists, so two scheduler runs can never create the same alert instance.
type NotificationRepo struct {
	client    API
	tableName string
	keysTable string
}

func NewNotificationRepo(client API, tableName, keysTable string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName, keysTable: keysTable}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if n.DedupKey == "" {
		n.DedupKey = domain.DedupKey(n.ContractID, n.Type, n.ScheduledDate)
	}
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName: aws.String(r.keysTable),
				Item: map[string]types.AttributeValue{
					"dedup_key":       &types.AttributeValueMemberS{Value: n.DedupKey},
					"notification_id": &types.AttributeValueMemberS{Value: n.NotificationID},
				},
				ConditionExpression: aws.String("attribute_not_exists(dedup_key)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(notification_id)"),
			}},
		},
	})
	if err != nil {
		if isConditionFailure(err) {
			return nil, fmt.Errorf("notification %s already exists: %w", n.DedupKey, domain.ErrConflict)
		}
		return nil, err
	}
	out := *n
	return &out, nil
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("notification_id", notificationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	var n domain.Notification
	if err := attributevalue.UnmarshalMap(out.Item, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepo) FindByDedupKey(ctx context.Context, contractID string, t domain.NotificationType, scheduledDate time.Time) (*domain.Notification, error) {
	key := domain.DedupKey(contractID, t, scheduledDate)
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.keysTable),
		Key:            strKey("dedup_key", key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("dedup key %s: %w", key, domain.ErrNotFound)
	}
	var ref struct {
		NotificationID string `dynamodbav:"notification_id"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &ref); err != nil {
		return nil, err
	}
	return r.Get(ctx, ref.NotificationID)
}

// Claim stamps claimed_at on a pending record with a strongly consistent conditional
// write on the base table. A record that left pending, or holds a claim younger than
// claimLease, is rejected with domain.ErrConflict.
func (r *NotificationRepo) Claim(ctx context.Context, notificationID string, at time.Time) error {
	// Whole seconds keep the RFC 3339 strings lexically ordered.
	at = at.UTC().Truncate(time.Second)
	now, err := attributevalue.Marshal(at)
	if err != nil {
		return err
	}
	stale, err := attributevalue.Marshal(at.Add(-claimLease))
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("notification_id", notificationID),
		UpdateExpression: aws.String("SET claimed_at = :now"),
		ConditionExpression: aws.String("attribute_exists(notification_id) AND #s = :pending AND " +
			"(attribute_not_exists(claimed_at) OR claimed_at < :stale)"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now":     now,
			":stale":   stale,
			":pending": &types.AttributeValueMemberS{Value: string(domain.NotificationPending)},
		},
	})
	if isConditionFailure(err) {
		return fmt.Errorf("notification %s already claimed or not pending: %w", notificationID, domain.ErrConflict)
	}
	return err
}

// Update moves a pending notification to its dispatch outcome. Records that already
// left pending are rejected with domain.ErrConflict.
func (r *NotificationRepo) Update(ctx context.Context, notificationID string, u domain.NotificationUpdate) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"status":        string(u.Status),
		"sent_date":     u.SentDate.UTC(),
		"whatsapp_sent": u.WhatsAppSent,
		"updated_at":    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	ue.Names["#cur"] = "status"
	ue.Values[":pending"] = &types.AttributeValueMemberS{Value: string(domain.NotificationPending)}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("notification_id", notificationID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(notification_id) AND #cur = :pending"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailure(err) {
		return fmt.Errorf("notification %s is not pending: %w", notificationID, domain.ErrConflict)
	}
	return err
}

// ListPending pages through the status-scheduled_date GSI for pending records due on or before before.
func (r *NotificationRepo) ListPending(ctx context.Context, before time.Time) ([]domain.Notification, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(statusScheduledIndex),
		KeyConditionExpression: aws.String("#s = :pending AND scheduled_date <= :before"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(domain.NotificationPending)},
			":before":  &types.AttributeValueMemberS{Value: before.UTC().Format(time.RFC3339Nano)},
		},
	})
	var notifications []domain.Notification
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.Notification
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		notifications = append(notifications, batch...)
	}
	return notifications, nil
}

// ListByOwner returns the owner's alert history, newest scheduled date first.
func (r *NotificationRepo) ListByOwner(ctx context.Context, ownerID string, limit int32) ([]domain.Notification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(ownerScheduledIndex),
		KeyConditionExpression: aws.String("owner_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: ownerID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	var notifications []domain.Notification
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
