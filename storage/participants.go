package storage

import (
	"context"
	"errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
)

type ParticipantStorage interface {
	Get(ctx context.Context, id int) (*Participant, error)
	GetAll(ctx context.Context) ([]*Participant, error)
	Create(ctx context.Context, participant *Participant) error
	Update(ctx context.Context, participant *Participant) error
	Delete(ctx context.Context, id int) error
}

type DynamoParticipantStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoParticipantStorage) Get(ctx context.Context, id int) (*Participant, error) {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to marshal key for ID %d: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrItemNotFound
	}

	var participant Participant
	if err := attributevalue.UnmarshalMap(out.Item, &participant); err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to unmarshal participant: %v", err)
		return nil, err
	}
	return &participant, nil
}

func (s *DynamoParticipantStorage) GetAll(ctx context.Context) ([]*Participant, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: scan failed: %v", err)
		return nil, err
	}

	var participants []*Participant
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &participants); err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to unmarshal participant list: %v", err)
		return nil, err
	}
	return participants, nil
}

func (s *DynamoParticipantStorage) Create(ctx context.Context, participant *Participant) error {
	item, err := attributevalue.MarshalMap(participant)
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to marshal participant: %v", err)
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
			logging.Log.Warnf("PARTICIPANT: item with ID %d already exists", participant.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("PARTICIPANT: failed to create participant: %v", err)
		return err
	}
	return nil
}

func (s *DynamoParticipantStorage) Update(ctx context.Context, participant *Participant) error {
	item, err := attributevalue.MarshalMap(participant)
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to marshal updated participant: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to update participant: %v", err)
		return err
	}
	return nil
}

func (s *DynamoParticipantStorage) Delete(ctx context.Context, id int) error {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to marshal delete key for ID %d: %v", id, err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to delete participant with ID %d: %v", id, err)
		return err
	}
	logging.Log.Infof("PARTICIPANT: deleted participant with ID %d", id)
	return nil
}
