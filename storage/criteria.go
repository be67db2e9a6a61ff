package storage

import (
	"context"
	"errors"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
)

type CriterionStorage interface {
	GetAll(ctx context.Context) ([]*Criterion, error)
	GetByCategory(ctx context.Context, categoryID int) ([]*Criterion, error)
	Create(ctx context.Context, criterion *Criterion) error
	Delete(ctx context.Context, id int) error
}

type DynamoCriterionStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoCriterionStorage) GetAll(ctx context.Context) ([]*Criterion, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("CRITERION: scan failed: %v", err)
		return nil, err
	}

	var criteria []*Criterion
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &criteria); err != nil {
		logging.Log.Errorf("CRITERION: failed to unmarshal list: %v", err)
		return nil, err
	}
	return criteria, nil
}

func (s *DynamoCriterionStorage) GetByCategory(ctx context.Context, categoryID int) ([]*Criterion, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.TableName,
		FilterExpression: aws.String("CategoryID = :cat"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cat": &types.AttributeValueMemberN{Value: strconv.Itoa(categoryID)},
		},
	})
	if err != nil {
		logging.Log.Errorf("CRITERION: scan by category %d failed: %v", categoryID, err)
		return nil, err
	}

	var criteria []*Criterion
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &criteria); err != nil {
		logging.Log.Errorf("CRITERION: failed to unmarshal criteria for category %d: %v", categoryID, err)
		return nil, err
	}
	return criteria, nil
}

func (s *DynamoCriterionStorage) Create(ctx context.Context, criterion *Criterion) error {
	item, err := attributevalue.MarshalMap(criterion)
	if err != nil {
		logging.Log.Errorf("CRITERION: failed to marshal criterion: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("CRITERION: item with ID %d already exists", criterion.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("CRITERION: failed to create criterion: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCriterionStorage) Delete(ctx context.Context, id int) error {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		logging.Log.Errorf("CRITERION: failed to marshal delete key for ID %d: %v", id, err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("CRITERION: failed to delete criterion with ID %d: %v", id, err)
		return err
	}
	return nil
}
