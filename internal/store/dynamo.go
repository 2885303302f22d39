package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// userProjectsIndex is the GSI on the projects table: hash userId, range
// createdAt. Backs newest-first listing without a table scan.
const userProjectsIndex = "UserProjectsIndex"

// DynamoStore implements ProjectStore and UsageStore against DynamoDB.
type DynamoStore struct {
	client        *dynamodb.Client
	projectsTable string
	usersTable    string
}

// Compile-time interface checks.
var (
	_ ProjectStore = (*DynamoStore)(nil)
	_ UsageStore   = (*DynamoStore)(nil)
)

// NewDynamoStore creates a DynamoStore over the projects and users tables.
// The client should be initialized from the shared AWS config.
func NewDynamoStore(client *dynamodb.Client, projectsTable, usersTable string) *DynamoStore {
	return &DynamoStore{
		client:        client,
		projectsTable: projectsTable,
		usersTable:    usersTable,
	}
}

// --- Project operations ---

func (s *DynamoStore) PutProject(ctx context.Context, p *Project) error {
	applyDefaults(p)

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal project %s: %w", p.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.projectsTable,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem project %s: %w", p.ID, err)
	}

	log.Debug().
		Str("projectId", p.ID).
		Str("userId", p.UserID).
		Int("images", len(p.Images)).
		Msg("Project persisted to DynamoDB")
	return nil
}

func (s *DynamoStore) GetProject(ctx context.Context, projectID string) (*Project, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.projectsTable,
		Key: map[string]types.AttributeValue{
			"projectId": &types.AttributeValueMemberS{Value: projectID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem project %s: %w", projectID, err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var p Project
	if err := attributevalue.UnmarshalMap(result.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal project %s: %w", projectID, err)
	}
	return &p, nil
}

func (s *DynamoStore) GetUserProjects(ctx context.Context, userID string, limit int32) ([]*Project, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.projectsTable,
		IndexName:              aws.String(userProjectsIndex),
		KeyConditionExpression: aws.String("userId = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false), // newest first by createdAt
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("Query projects for user %s: %w", userID, err)
	}

	projects := make([]*Project, 0, len(result.Items))
	for _, item := range result.Items {
		var p Project
		if err := attributevalue.UnmarshalMap(item, &p); err != nil {
			log.Warn().Err(err).Str("userId", userID).Msg("Failed to unmarshal project, skipping")
			continue
		}
		projects = append(projects, &p)
	}
	return projects, nil
}

func (s *DynamoStore) IncrementViews(ctx context.Context, projectID string) error {
	return s.incrementCounter(ctx, projectID, "viewCount")
}

func (s *DynamoStore) IncrementShares(ctx context.Context, projectID string) error {
	return s.incrementCounter(ctx, projectID, "shareCount")
}

// incrementCounter bumps a project counter with an atomic ADD expression.
// The condition keeps a stray increment from materialising a ghost record.
func (s *DynamoStore) incrementCounter(ctx context.Context, projectID, attr string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.projectsTable,
		Key: map[string]types.AttributeValue{
			"projectId": &types.AttributeValueMemberS{Value: projectID},
		},
		UpdateExpression:    aws.String("ADD #c :one SET updatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(projectId)"),
		ExpressionAttributeNames: map[string]string{
			"#c": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberS{Value: nowISO()},
		},
	})
	if err != nil {
		return fmt.Errorf("increment %s for project %s: %w", attr, projectID, err)
	}

	log.Debug().Str("projectId", projectID).Str("counter", attr).Msg("Project counter incremented")
	return nil
}

// --- Usage operations ---

func (s *DynamoStore) GetUsage(ctx context.Context, userID string) (int64, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.usersTable,
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("GetItem usage for %s: %w", userID, err)
	}
	if result.Item == nil {
		return 0, nil
	}

	var record struct {
		UsageCount int64 `dynamodbav:"usageCount"`
	}
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return 0, fmt.Errorf("unmarshal usage for %s: %w", userID, err)
	}
	return record.UsageCount, nil
}

func (s *DynamoStore) RecordUsage(ctx context.Context, userID string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.usersTable,
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: aws.String("ADD usageCount :one SET lastUsedAt = :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberS{Value: nowISO()},
		},
	})
	if err != nil {
		return fmt.Errorf("record usage for %s: %w", userID, err)
	}

	log.Debug().Str("userId", userID).Msg("Usage recorded")
	return nil
}
