package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
)

// ActivityStorage is append-only; records are never updated or deleted here.
type ActivityStorage interface {
	Append(ctx context.Context, record *ActivityRecord) error
	GetAll(ctx context.Context) ([]*ActivityRecord, error)
	GetByJudge(ctx context.Context, judgeID string) ([]*ActivityRecord, error)
}

type DynamoActivityStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoActivityStorage) Append(ctx context.Context, record *ActivityRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		logging.Log.Errorf("ACTIVITY: failed to marshal record: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		logging.Log.Errorf("ACTIVITY: failed to append record: %v", err)
		return err
	}
	return nil
}

func (s *DynamoActivityStorage) GetAll(ctx context.Context) ([]*ActivityRecord, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("ACTIVITY: scan failed: %v", err)
		return nil, err
	}

	var records []*ActivityRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		logging.Log.Errorf("ACTIVITY: failed to unmarshal record list: %v", err)
		return nil, err
	}
	return records, nil
}

func (s *DynamoActivityStorage) GetByJudge(ctx context.Context, judgeID string) ([]*ActivityRecord, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.TableName,
		FilterExpression: aws.String("JudgeID = :judge"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":judge": &types.AttributeValueMemberS{Value: judgeID},
		},
	})
	if err != nil {
		logging.Log.Errorf("ACTIVITY: scan by judge %s failed: %v", judgeID, err)
		return nil, err
	}

	var records []*ActivityRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		logging.Log.Errorf("ACTIVITY: failed to unmarshal records for judge %s: %v", judgeID, err)
		return nil, err
	}
	return records, nil
}
