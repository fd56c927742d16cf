/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/resourcekit/storagemodels"
)

// DefaultPageSize is the Query page size used by listings.
const DefaultPageSize int32 = 100

// list pages through the partition in SK order, skipping offset items and stopping
// after limit items.
func (s *Storage) list(ctx context.Context, opts *storagemodels.LoadOptions) (any, error) {
	offset, limit := 0, -1
	if opts != nil && opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts != nil && opts.Limit != nil {
		limit = *opts.Limit
	}

	keyCond := "PK = :pkVal"
	input := &sdk.QueryInput{
		TableName:              &s.table,
		KeyConditionExpression: &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pkVal": &types.AttributeValueMemberS{Value: s.pk},
		},
		Limit:            aws.Int32(DefaultPageSize),
		ScanIndexForward: aws.Bool(true),
	}

	results := []any{}
	skipped, pages := 0, 0
	paginator := sdk.NewQueryPaginator(s.api, input)
	for paginator.HasMorePages() {
		if limit >= 0 && len(results) >= limit {
			break
		}
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query error: %w", err)
		}
		pages++
		for _, item := range out.Items {
			if skipped < offset {
				skipped++
				continue
			}
			if limit >= 0 && len(results) >= limit {
				break
			}
			v, err := decodeValue(item, opts)
			if err != nil {
				return nil, err
			}
			results = append(results, v)
		}
	}
	s.log.Debug("listed", zap.String("pk", s.pk), zap.Int("items", len(results)), zap.Int("pages", pages))
	return results, nil
}
