/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/internal/logging"
	"github.com/suparena/resourcekit/storagemodels"
	"github.com/suparena/resourcekit/tags"
)

// Item attribute names.
const (
	AttrPK         = "PK"
	AttrSK         = "SK"
	AttrValue      = "Value"
	AttrEntityType = "EntityType"
)

// DefaultKeyTemplate builds the partition key of a resource.
const DefaultKeyTemplate = "{{prefix}}-{{version}}-{{resource}}"

// DefaultPrefix is the {{prefix}} of DefaultKeyTemplate.
const DefaultPrefix = "resourcekit"

// API is the part of the DynamoDB client used by Storage.
type API interface {
	GetItem(ctx context.Context, in *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, in *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, in *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(ctx context.Context, accessKey, secretKey, region string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// Storage is a datastore.Engine keeping every resource of one type in one partition:
// PK is the expanded key template, SK the id and Value the data.
// Requests run on their own goroutine and every failure goes to the callback.
type Storage struct {
	api        API
	table      string
	version    string
	resourceID string
	prefix     string
	template   string
	pk         string
	keys       datastore.KeyValidator
	newID      func() string
	log        *zap.Logger
}

var _ datastore.Engine = (*Storage)(nil)

// Option configures a Storage.
type Option func(*Storage)

// WithPrefix sets {{prefix}} of the key template.
func WithPrefix(prefix string) Option {
	return func(s *Storage) {
		s.prefix = prefix
	}
}

// WithKeyTemplate replaces DefaultKeyTemplate. The template may use {{prefix}},
// {{version}}, {{resource}} and {{table}}.
func WithKeyTemplate(tpl string) Option {
	return func(s *Storage) {
		s.template = tpl
	}
}

// WithIDGenerator replaces the random UUID ids assigned to new entries.
func WithIDGenerator(fn func() string) Option {
	return func(s *Storage) {
		s.newID = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Storage) {
		s.log = logging.OrNop(l)
	}
}

// New creates a Storage for a resource of a given version in table.
func New(api API, table, version, resourceID string, opts ...Option) (*Storage, error) {
	s := &Storage{
		api:        api,
		table:      table,
		version:    version,
		resourceID: resourceID,
		prefix:     DefaultPrefix,
		template:   DefaultKeyTemplate,
		keys:       datastore.EntryKeys,
		newID:      uuid.NewString,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	pk, err := tags.Expand(s.template, map[string]any{
		"prefix":   s.prefix,
		"version":  version,
		"resource": resourceID,
		"table":    table,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid key template: %w", err)
	}
	s.pk = pk
	return s, nil
}

// PartitionKey returns the PK shared by all items of the resource.
func (s *Storage) PartitionKey() string {
	return s.pk
}

func (s *Storage) IsAvailable() bool {
	return s.api != nil && s.table != ""
}

// Load reads one item per id, or lists the partition honouring offset and limit when
// id is nil. Missing items load as nil.
func (s *Storage) Load(ctx context.Context, cb storagemodels.LoadCallback, id any, opts *storagemodels.LoadOptions) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "ddb.Load", "callback required")
	}
	if id != nil && !s.keys.IsValidID(id) {
		cb(nil, errors.New(errors.KindInvalidKey, "ddb.Load", "id %v", id))
		return nil
	}
	go func() {
		if id == nil {
			cb(s.list(ctx, opts))
			return
		}
		ids, multi := datastore.IDs(id)
		results := make([]any, len(ids))
		for i, one := range ids {
			v, err := s.getOne(ctx, one, opts)
			if err != nil {
				cb(nil, err)
				return
			}
			results[i] = v
		}
		if multi {
			cb(results, nil)
		} else {
			cb(results[0], nil)
		}
	}()
	return nil
}

// Store puts data under every id. storagemodels.NewEntry stores under a new UUID which
// is passed to the callback.
func (s *Storage) Store(ctx context.Context, cb storagemodels.StoreCallback, id any, data any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "ddb.Store", "callback required")
	}
	if !s.keys.IsValidID(id) {
		cb(nil, errors.New(errors.KindInvalidKey, "ddb.Store", "id %v", id))
		return nil
	}
	if datastore.IsMissingData(data) {
		cb(nil, errors.New(errors.KindMissingData, "ddb.Store", "no data for id %v", id))
		return nil
	}
	value, err := attributevalue.Marshal(data)
	if err != nil {
		cb(nil, errors.Wrap(errors.KindInvalidData, "ddb.Store", err))
		return nil
	}
	go func() {
		stored := id
		if datastore.IsNewEntry(id) {
			stored = s.newID()
		}
		ids, _ := datastore.IDs(stored)
		for _, one := range ids {
			item := s.key(one)
			item[AttrValue] = value
			item[AttrEntityType] = &types.AttributeValueMemberS{Value: s.resourceID}
			if _, err := s.api.PutItem(ctx, &sdk.PutItemInput{
				TableName: &s.table,
				Item:      item,
			}); err != nil {
				cb(nil, fmt.Errorf("PutItem failed: %w", err))
				return
			}
			s.log.Debug("stored", zap.String("pk", s.pk), zap.String("sk", datastore.FormatID(one)))
		}
		cb(stored, nil)
	}()
	return nil
}

// Remove deletes the item of every id.
func (s *Storage) Remove(ctx context.Context, cb storagemodels.Callback, id any) error {
	if cb == nil {
		return errors.New(errors.KindInvalidCallback, "ddb.Remove", "callback required")
	}
	if !s.keys.IsValidID(id) {
		cb(errors.New(errors.KindInvalidKey, "ddb.Remove", "id %v", id))
		return nil
	}
	go func() {
		ids, _ := datastore.IDs(id)
		for _, one := range ids {
			if _, err := s.api.DeleteItem(ctx, &sdk.DeleteItemInput{
				TableName: &s.table,
				Key:       s.key(one),
			}); err != nil {
				cb(fmt.Errorf("failed to delete item in DynamoDB: %w", err))
				return
			}
		}
		cb(nil)
	}()
	return nil
}

func (s *Storage) key(id any) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: s.pk},
		AttrSK: &types.AttributeValueMemberS{Value: datastore.FormatID(id)},
	}
}

func (s *Storage) getOne(ctx context.Context, id any, opts *storagemodels.LoadOptions) (any, error) {
	out, err := s.api.GetItem(ctx, &sdk.GetItemInput{
		TableName: &s.table,
		Key:       s.key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return decodeValue(out.Item, opts)
}

func decodeValue(item map[string]types.AttributeValue, opts *storagemodels.LoadOptions) (any, error) {
	av, ok := item[AttrValue]
	if !ok {
		return nil, nil
	}
	var v any
	if err := attributevalue.Unmarshal(av, &v); err != nil {
		return nil, errors.Wrap(errors.KindInvalidData, "ddb.Load", fmt.Errorf("failed to unmarshal item: %w", err))
	}
	if !opts.HasFields() || v == nil {
		return v, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New(errors.KindLoadOptionsFields, "ddb.Load", "value of type %T has no fields", v)
	}
	selected := make(map[string]any, len(opts.Fields))
	for _, f := range opts.Fields {
		if fv, ok := obj[f]; ok {
			selected[f] = fv
		}
	}
	return selected, nil
}
