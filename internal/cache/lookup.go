// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// lookup.go provides a Valkey-backed content-hash lookup cache. A dedup
// check first asks the cache for hash->id before touching PostgreSQL; the
// database stays authoritative and every cache failure degrades to a miss.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// hashKeyPrefix namespaces lookup entries in Valkey.
	hashKeyPrefix = "content_hash:"

	// DefaultLookupTTL is how long a hash->id mapping stays cached.
	DefaultLookupTTL = 24 * time.Hour
)

// HashLookup caches content-hash to content-id mappings. A nil client
// disables the cache entirely; every method then reports a miss.
type HashLookup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHashLookup creates a hash lookup cache backed by the given client.
func NewHashLookup(client *redis.Client, ttl time.Duration) *HashLookup {
	if ttl == 0 {
		ttl = DefaultLookupTTL
	}
	return &HashLookup{client: client, ttl: ttl}
}

// Get returns the cached content ID for a hash, or false on miss.
func (l *HashLookup) Get(ctx context.Context, hash string) (uuid.UUID, bool) {
	if l == nil || l.client == nil {
		return uuid.Nil, false
	}
	val, err := l.client.Get(ctx, hashKeyPrefix+hash).Result()
	if err == redis.Nil {
		return uuid.Nil, false
	}
	if err != nil {
		slog.Warn("hash lookup cache get error", "error", err)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		slog.Warn("hash lookup cache held invalid id", "value", val)
		return uuid.Nil, false
	}
	return id, true
}

// Set records a hash->id mapping with the configured TTL.
func (l *HashLookup) Set(ctx context.Context, hash string, id uuid.UUID) {
	if l == nil || l.client == nil {
		return
	}
	if err := l.client.Set(ctx, hashKeyPrefix+hash, id.String(), l.ttl).Err(); err != nil {
		slog.Warn("hash lookup cache set error", "error", err)
	}
}

// Invalidate drops a hash mapping, used when the content item is deleted.
func (l *HashLookup) Invalidate(ctx context.Context, hash string) {
	if l == nil || l.client == nil {
		return
	}
	if err := l.client.Del(ctx, hashKeyPrefix+hash).Err(); err != nil {
		slog.Warn("hash lookup cache invalidate error", "error", err)
	}
}
