package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func cacheKey(lang, text string) string {
	sum := sha256.Sum256([]byte(text))
	return lang + ":" + hex.EncodeToString(sum[:])
}

// MemoryCache is a process-local Cache
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

func (c *MemoryCache) Get(_ context.Context, lang, text string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[cacheKey(lang, text)]
	return v, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, lang, text, translated string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(lang, text)] = translated
	return nil
}

type translationDoc struct {
	Key        string    `bson:"_id"`
	Lang       string    `bson:"lang"`
	Source     string    `bson:"source"`
	Translated string    `bson:"translated"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// MongoCache persists translations in a MongoDB collection so they survive
// restarts and are shared between instances
type MongoCache struct {
	collection *mongo.Collection
}

// NewMongoCache creates a cache backed by the "translations" collection of db
func NewMongoCache(db *mongo.Database) *MongoCache {
	return &MongoCache{collection: db.Collection("translations")}
}

func (c *MongoCache) Get(ctx context.Context, lang, text string) (string, bool, error) {
	var doc translationDoc
	err := c.collection.FindOne(ctx, bson.M{"_id": cacheKey(lang, text)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Translated, true, nil
}

func (c *MongoCache) Set(ctx context.Context, lang, text, translated string) error {
	update := bson.M{"$set": bson.M{
		"lang":       lang,
		"source":     text,
		"translated": translated,
		"updated_at": time.Now(),
	}}
	_, err := c.collection.UpdateOne(ctx, bson.M{"_id": cacheKey(lang, text)}, update, options.Update().SetUpsert(true))
	return err
}
