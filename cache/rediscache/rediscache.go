// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rediscache implements the cache StatusCache interface on top of
// redis so that hosts running several SDK clients can share the cached
// referral status.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/cache"
)

// opTimeout bounds every redis round trip.
const opTimeout = 2 * time.Second

var (
	_ cache.StatusCache = (*Cache)(nil)
)

// Cache is a StatusCache that keeps its single slot in a redis key. The key
// expires after cache.TTL. Redis failures are logged and read as an empty
// cache.
type Cache struct {
	client *redis.Client
	key    string
}

// Put caches the status.
//
// This function satisfies the cache StatusCache interface.
func (c *Cache) Put(s v1.ReferralStatus) {
	b, err := json.Marshal(s)
	if err != nil {
		log.Errorf("Encode referral status: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err = c.client.Set(ctx, c.key, b, cache.TTL).Err()
	if err != nil {
		log.Warnf("Put %v: %v", c.key, err)
		return
	}

	log.Tracef("Cached referral status under %v", c.key)
}

// Get returns the cached status.
//
// This function satisfies the cache StatusCache interface.
func (c *Cache) Get() (*v1.ReferralStatus, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	b, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		log.Warnf("Get %v: %v", c.key, err)
		return nil, false
	}

	var s v1.ReferralStatus
	err = json.Unmarshal(b, &s)
	if err != nil {
		log.Warnf("Decode %v: %v", c.key, err)
		return nil, false
	}
	return &s, true
}

// Clear discards the cached status.
//
// This function satisfies the cache StatusCache interface.
func (c *Cache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := c.client.Del(ctx, c.key).Err()
	if err != nil {
		log.Warnf("Clear %v: %v", c.key, err)
	}
}

// Close closes the redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Key returns the redis key that the status of the provided app user is
// cached under.
func Key(appID, userID string) string {
	return "viralloop:" + appID + ":" + userID + ":referralStatus"
}

// New connects to the redis server at addr and returns a Cache that stores
// the status under key.
func New(ctx context.Context, addr, key string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	// Verify connection
	err := client.Ping(ctx).Err()
	if err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connect to redis %v", addr)
	}

	log.Infof("Connected to redis %v", addr)

	return &Cache{
		client: client,
		key:    key,
	}, nil
}
