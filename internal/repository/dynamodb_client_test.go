package repository

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	getOut       *dynamodb.GetItemOutput
	getErr       error
	putErr       error
	scanPages    []*dynamodb.ScanOutput
	scanErr      error
	lastGetInput *dynamodb.GetItemInput
	lastPutInput *dynamodb.PutItemInput
	scanInputs   []dynamodb.ScanInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGetInput = in
	return f.getOut, f.getErr
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPutInput = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanInputs = append(f.scanInputs, *in)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	idx := len(f.scanInputs) - 1
	if idx >= len(f.scanPages) {
		return &dynamodb.ScanOutput{}, nil
	}
	return f.scanPages[idx], nil
}

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func mustNewDynamo(t *testing.T, db *fakeDynamo) *DynamoClient {
	t.Helper()
	c, err := NewDynamo(db, "test-table")
	require.NoError(t, err)
	c.now = func() time.Time { return fixedNow }
	return c
}

func valueItem(key, value string, expiresAt time.Time) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrKey:   &types.AttributeValueMemberS{Value: key},
		attrValue: &types.AttributeValueMemberS{Value: value},
		attrTTL:   &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt.Unix(), 10)},
	}
}

func keyItem(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{attrKey: &types.AttributeValueMemberS{Value: key}}
}

func TestDynamoPut_WritesValueAndTTL(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewDynamo(t, db)

	err := c.Put(context.Background(), "cv_abc", "resume text", 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, "test-table", *db.lastPutInput.TableName)
	item := db.lastPutInput.Item
	require.Equal(t, "cv_abc", item[attrKey].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "resume text", item[attrValue].(*types.AttributeValueMemberS).Value)
	require.Equal(t, strconv.FormatInt(fixedNow.Add(24*time.Hour).Unix(), 10), item[attrTTL].(*types.AttributeValueMemberN).Value)
}

func TestDynamoPut_Validation(t *testing.T) {
	c := mustNewDynamo(t, &fakeDynamo{})
	require.Error(t, c.Put(context.Background(), "", "v", time.Hour))
	require.Error(t, c.Put(context.Background(), "k", "v", 0))
}

func TestDynamoPut_Error(t *testing.T) {
	c := mustNewDynamo(t, &fakeDynamo{putErr: errors.New("ProvisionedThroughputExceededException")})
	err := c.Put(context.Background(), "cv_abc", "v", time.Hour)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Put")
}

func TestDynamoGet_HappyPath(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: valueItem("cv_abc", "resume text", fixedNow.Add(time.Hour))}}
	c := mustNewDynamo(t, db)

	v, err := c.Get(context.Background(), "cv_abc")
	require.NoError(t, err)
	require.Equal(t, "resume text", v)
	require.True(t, *db.lastGetInput.ConsistentRead)
}

func TestDynamoGet_Missing(t *testing.T) {
	c := mustNewDynamo(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{}})
	_, err := c.Get(context.Background(), "cv_abc")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoGet_ExpiredButNotYetDeleted(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: valueItem("cv_abc", "stale", fixedNow.Add(-time.Second))}}
	c := mustNewDynamo(t, db)
	_, err := c.Get(context.Background(), "cv_abc")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoGet_Error(t *testing.T) {
	c := mustNewDynamo(t, &fakeDynamo{getErr: errors.New("boom")})
	_, err := c.Get(context.Background(), "cv_abc")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), "Get")
}

func TestDynamoGet_MalformedTTL(t *testing.T) {
	item := valueItem("cv_abc", "v", fixedNow.Add(time.Hour))
	item[attrTTL] = &types.AttributeValueMemberS{Value: "soon"}
	c := mustNewDynamo(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}})
	_, err := c.Get(context.Background(), "cv_abc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode ttl")
}

func TestDynamoListKeysWithPrefix_Paginates(t *testing.T) {
	db := &fakeDynamo{scanPages: []*dynamodb.ScanOutput{
		{
			Items:            []map[string]types.AttributeValue{keyItem("cv_a")},
			LastEvaluatedKey: keyItem("cv_a"),
		},
		{
			Items: []map[string]types.AttributeValue{keyItem("cv_b")},
		},
	}}
	c := mustNewDynamo(t, db)

	keys, err := c.ListKeysWithPrefix(context.Background(), "cv_")
	require.NoError(t, err)
	require.Equal(t, []string{"cv_a", "cv_b"}, keys)
	require.Len(t, db.scanInputs, 2)
	require.Nil(t, db.scanInputs[0].ExclusiveStartKey)
	require.Equal(t, keyItem("cv_a"), db.scanInputs[1].ExclusiveStartKey)

	first := db.scanInputs[0]
	require.Equal(t, "begins_with(#pk, :prefix) AND #ttl > :now", *first.FilterExpression)
	require.Equal(t, "cv_", first.ExpressionAttributeValues[":prefix"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, strconv.FormatInt(fixedNow.Unix(), 10), first.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberN).Value)
}

func TestDynamoListKeysWithPrefix_Empty(t *testing.T) {
	c := mustNewDynamo(t, &fakeDynamo{})
	keys, err := c.ListKeysWithPrefix(context.Background(), "cv_")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestDynamoListKeysWithPrefix_ScanError(t *testing.T) {
	c := mustNewDynamo(t, &fakeDynamo{scanErr: errors.New("ResourceNotFoundException")})
	_, err := c.ListKeysWithPrefix(context.Background(), "cv_")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ListKeysWithPrefix")
}

func TestNewDynamo_NilAPI(t *testing.T) {
	_, err := NewDynamo(nil, "test-table")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")
}

func TestNewDynamo_EmptyTableName(t *testing.T) {
	_, err := NewDynamo(&fakeDynamo{}, " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be empty")
}
