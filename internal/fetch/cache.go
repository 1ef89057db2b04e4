package fetch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.etcd.io/bbolt"
)

// PageCache holds extracted page text by URL. Implementations are safe for
// concurrent use.
type PageCache interface {
	Get(url string) (string, bool)
	Set(url, content string)
	Close() error
}

type noopCache struct{}

func (noopCache) Get(string) (string, bool) { return "", false }
func (noopCache) Set(string, string)        {}
func (noopCache) Close() error              { return nil }

// NoopCache disables caching.
func NoopCache() PageCache { return noopCache{} }

// MemoryCache is a size-bounded LRU whose entries expire after a TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *MemoryCache) Get(url string) (string, bool) { return c.lru.Get(url) }
func (c *MemoryCache) Set(url, content string)       { c.lru.Add(url, content) }
func (c *MemoryCache) Close() error                  { return nil }

var bucketPages = []byte("pages")

type storedPage struct {
	Content   string `json:"c"`
	FetchedAt int64  `json:"t"`
}

// BoltCache keeps pages on disk so they survive restarts. Expired entries are
// ignored on read and overwritten on the next fetch.
type BoltCache struct {
	db  *bbolt.DB
	ttl time.Duration
	now func() time.Time
}

func NewBoltCache(path string, ttl time.Duration) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open page cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPages)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create pages bucket: %w", err)
	}
	return &BoltCache{db: db, ttl: ttl, now: time.Now}, nil
}

func (c *BoltCache) Get(url string) (string, bool) {
	var page storedPage
	var found bool
	_ = c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketPages).Get([]byte(url))
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &page); err != nil {
			return nil // corrupted entries count as misses
		}
		found = true
		return nil
	})
	if !found {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(time.Unix(page.FetchedAt, 0)) > c.ttl {
		return "", false
	}
	return page.Content, true
}

func (c *BoltCache) Set(url, content string) {
	data, err := json.Marshal(storedPage{Content: content, FetchedAt: c.now().Unix()})
	if err != nil {
		return
	}
	_ = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPages).Put([]byte(url), data)
	})
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}
