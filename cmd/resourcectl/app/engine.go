/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package app

import (
	"context"
	"fmt"

	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/datastore/ddb"
	"github.com/suparena/resourcekit/datastore/localcache"
	"github.com/suparena/resourcekit/datastore/relational"
	"github.com/suparena/resourcekit/datastore/rest"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/mapping"
	"github.com/suparena/resourcekit/model/testmodels"
)

const (
	BackendLocal    = "local"
	BackendREST     = "rest"
	BackendMySQL    = "mysql"
	BackendDynamoDB = "dynamodb"
)

// Engines returns the storage engine of resource and its cache, nil if caching is off.
// Engines are created on first use and registered by name.
func (o *Options) Engines(ctx context.Context, resource string) (datastore.Engine, datastore.Engine, error) {
	backend := o.cfg.Storage.Backend
	name := backend + ":" + resource

	storage, err := o.engines.GetEngine(name)
	if errors.IsNotFound(err) {
		if storage, err = o.newEngine(ctx, backend, resource); err == nil {
			err = o.engines.RegisterEngine(name, storage)
		}
	}
	if err != nil {
		return nil, nil, err
	}

	if o.noCache || !o.cfg.Cache.Enabled || backend == BackendLocal {
		return storage, nil, nil
	}
	cacheName := "cache:" + resource
	cache, err := o.engines.GetEngine(cacheName)
	if errors.IsNotFound(err) {
		var fb *localcache.FileBackend
		if fb, err = o.file(o.cfg.Cache.Path); err == nil {
			cache = localcache.NewCache(
				localcache.New(fb, o.cfg.Storage.Version, resource,
					localcache.WithPrefix(o.cfg.Storage.Prefix),
					localcache.WithLogger(o.log.Logger)),
				localcache.WithExpiry(o.cfg.Cache.Expiry))
			err = o.engines.RegisterEngine(cacheName, cache)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return storage, cache, nil
}

func (o *Options) newEngine(ctx context.Context, backend, resource string) (datastore.Engine, error) {
	version := o.cfg.Storage.Version
	switch backend {
	case BackendLocal:
		fb, err := o.file(o.cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		return localcache.New(fb, version, resource,
			localcache.WithPrefix(o.cfg.Storage.Prefix),
			localcache.WithLogger(o.log.Logger)), nil

	case BackendREST:
		if o.rest == nil {
			cfg := rest.DefaultConnectionConfig()
			cfg.Timeout = o.cfg.REST.Timeout
			cfg.RetryCount = o.cfg.REST.RetryCount
			cfg.RateLimit = o.cfg.REST.RateLimit
			o.rest = rest.NewManager(cfg, o.log.Logger)
		}
		return rest.New(o.cfg.REST.BaseURL, version, resource,
			rest.WithManager(o.rest),
			rest.WithLogger(o.log.Logger)), nil

	case BackendMySQL:
		attrs, err := attributesOf(resource)
		if err != nil {
			return nil, err
		}
		if o.db == nil {
			if o.cfg.SQL.DSN == "" {
				return nil, fmt.Errorf("mysql backend needs a DSN")
			}
			db, err := relational.Open(o.cfg.SQL.DSN, o.log.Logger)
			if err != nil {
				return nil, err
			}
			o.db = db
			o.closers = append(o.closers, db.Close)
		}
		return relational.New(o.db, attrs, relational.WithLogger(o.log.Logger)).Bind(resource), nil

	case BackendDynamoDB:
		dc := o.cfg.DynamoDB
		if dc.Table == "" {
			return nil, fmt.Errorf("dynamodb backend needs a table")
		}
		client, err := ddb.NewClient(ctx, dc.AccessKey, dc.SecretKey, dc.Region)
		if err != nil {
			return nil, err
		}
		s, err := ddb.New(client, dc.Table, version, resource,
			ddb.WithPrefix(o.cfg.Storage.Prefix),
			ddb.WithLogger(o.log.Logger))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

// file opens each key/value file once.
func (o *Options) file(path string) (*localcache.FileBackend, error) {
	if fb, ok := o.files[path]; ok {
		return fb, nil
	}
	fb, err := localcache.OpenFileBackend(path)
	if err != nil {
		return nil, err
	}
	if o.files == nil {
		o.files = map[string]*localcache.FileBackend{}
	}
	o.files[path] = fb
	return fb, nil
}

// attributesOf returns the columns of a relational resource.
func attributesOf(resource string) (*mapping.Set, error) {
	switch resource {
	case PeopleResource:
		return testmodels.PersonAttributes(), nil
	case EmployeesResource:
		return testmodels.EmployeeAttributes(), nil
	}
	return nil, fmt.Errorf("no attribute mapping for resource %q", resource)
}
