package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
)

// ScoreStorage is the remote side of the score ledger. Upsert and BatchUpsert
// overwrite by (PK, SK), so repeating a write any number of times leaves the
// stored row equal to the last payload.
type ScoreStorage interface {
	GetByJudgeCategory(ctx context.Context, judgeID string, categoryID int) ([]*ScoreCell, error)
	GetByCategory(ctx context.Context, categoryID int) ([]*ScoreCell, error)
	GetAll(ctx context.Context) ([]*ScoreCell, error)
	Upsert(ctx context.Context, cell *ScoreCell) error
	BatchUpsert(ctx context.Context, cells []*ScoreCell) error
	ClearLocks(ctx context.Context, judgeID string, categoryID int) error
}

type DynamoScoreStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoScoreStorage) GetByJudgeCategory(ctx context.Context, judgeID string, categoryID int) ([]*ScoreCell, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :judge AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":judge":  &types.AttributeValueMemberS{Value: judgeID},
			":prefix": &types.AttributeValueMemberS{Value: "cat#" + strconv.Itoa(categoryID) + "#"},
		},
	}

	out, err := s.Client.Query(ctx, input)
	if err != nil {
		logging.Log.Errorf("SCORE: failed to query cells for judge %s category %d: %v", judgeID, categoryID, err)
		return nil, err
	}

	var cells []*ScoreCell
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &cells); err != nil {
		logging.Log.Errorf("SCORE: failed to unmarshal cells for judge %s: %v", judgeID, err)
		return nil, err
	}
	return cells, nil
}

func (s *DynamoScoreStorage) GetByCategory(ctx context.Context, categoryID int) ([]*ScoreCell, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.TableName,
		FilterExpression: aws.String("CategoryID = :cat"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cat": &types.AttributeValueMemberN{Value: strconv.Itoa(categoryID)},
		},
	})
	if err != nil {
		logging.Log.Errorf("SCORE: scan by category %d failed: %v", categoryID, err)
		return nil, err
	}

	var cells []*ScoreCell
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &cells); err != nil {
		logging.Log.Errorf("SCORE: failed to unmarshal category %d cells: %v", categoryID, err)
		return nil, err
	}
	return cells, nil
}

func (s *DynamoScoreStorage) GetAll(ctx context.Context) ([]*ScoreCell, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("SCORE: scan failed: %v", err)
		return nil, err
	}

	var cells []*ScoreCell
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &cells); err != nil {
		logging.Log.Errorf("SCORE: failed to unmarshal cell list: %v", err)
		return nil, err
	}
	return cells, nil
}

func (s *DynamoScoreStorage) Upsert(ctx context.Context, cell *ScoreCell) error {
	if cell.SortKey == "" {
		cell.SortKey = ScoreSortKey(cell.CategoryID, cell.CriterionID, cell.ParticipantID)
	}
	item, err := attributevalue.MarshalMap(cell)
	if err != nil {
		logging.Log.Errorf("SCORE: failed to marshal cell: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("SCORE: failed to upsert cell %s/%s: %v", cell.JudgeID, cell.SortKey, err)
		return err
	}
	return nil
}

func (s *DynamoScoreStorage) BatchUpsert(ctx context.Context, cells []*ScoreCell) error {
	var writeRequests []types.WriteRequest
	for _, cell := range cells {
		if cell.SortKey == "" {
			cell.SortKey = ScoreSortKey(cell.CategoryID, cell.CriterionID, cell.ParticipantID)
		}
		item, err := attributevalue.MarshalMap(cell)
		if err != nil {
			logging.Log.Errorf("SCORE: failed to marshal cell for batch: %v", err)
			return err
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	for i := 0; i < len(writeRequests); i += 25 {
		end := i + 25
		if end > len(writeRequests) {
			end = len(writeRequests)
		}
		_, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.TableName: writeRequests[i:end],
			},
		})
		if err != nil {
			logging.Log.Errorf("SCORE: batch upsert failed: %v", err)
			return err
		}
		logging.Log.Infof("SCORE: wrote batch of %d cells", end-i)
	}
	return nil
}

func (s *DynamoScoreStorage) ClearLocks(ctx context.Context, judgeID string, categoryID int) error {
	cells, err := s.GetByJudgeCategory(ctx, judgeID, categoryID)
	if err != nil {
		return err
	}

	for _, cell := range cells {
		input := &dynamodb.UpdateItemInput{
			TableName: aws.String(s.TableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: cell.JudgeID},
				"SK": &types.AttributeValueMemberS{Value: cell.SortKey},
			},
			UpdateExpression:          aws.String("SET LockedAt = :null, UpdatedAt = :now"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":null": &types.AttributeValueMemberNULL{Value: true},
				":now":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
			},
		}
		if _, err := s.Client.UpdateItem(ctx, input); err != nil {
			logging.Log.Errorf("SCORE: failed to clear lock on %s/%s: %v", cell.JudgeID, cell.SortKey, err)
			return err
		}
	}
	return nil
}
