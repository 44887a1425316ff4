package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Profile{},
		&domain.Connection{},
		&domain.Message{},
		&domain.Job{},
	))
	return db
}

func createMember(t *testing.T, db *gorm.DB, firstName string, role domain.Role) *domain.Profile {
	t.Helper()
	p := &domain.Profile{
		ID:                 uuid.NewString(),
		FirstName:          firstName,
		LastName:           "Tester",
		Email:              strings.ToLower(firstName) + "@example.com",
		Role:               role,
		PhoneVisibility:    domain.VisibilityAlumni,
		EmailVisibility:    domain.VisibilityAlumni,
		LocationVisibility: domain.VisibilityAlumni,
	}
	require.NoError(t, db.Create(&domain.User{ID: p.ID, Email: p.Email, Password: "x"}).Error)
	require.NoError(t, db.Create(p).Error)
	return p
}

// --- caller identity ---

type callerKey struct{}

func asUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerKey{}, userID)
}

type ctxIdentityProvider struct{}

func (ctxIdentityProvider) CurrentUser(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(callerKey{}).(string)
	if id == "" {
		return nil
	}
	return &domain.Identity{ID: id}
}

// --- notifier ---

type sentEvent struct {
	UserID string
	Type   string
	Data   interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(userID, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{UserID: userID, Type: eventType, Data: data})
}

func (n *recordingNotifier) ofType(eventType string) []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEvent
	for _, e := range n.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// --- in-memory cache ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

var _ cache.Service = (*memCache)(nil)

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *memCache) SetSession(ctx context.Context, id string, data interface{}, ttl time.Duration) error {
	return c.Set(ctx, cache.PrefixSession+id, data, ttl)
}

func (c *memCache) DeleteSession(_ context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[cache.PrefixSession+id]
	delete(c.data, cache.PrefixSession+id)
	return ok, nil
}

func (c *memCache) GetDirectory(ctx context.Context, query interface{}, dest interface{}) error {
	key, err := cache.DirectoryKey(query)
	if err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memCache) SetDirectory(ctx context.Context, query interface{}, data interface{}) error {
	key, err := cache.DirectoryKey(query)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, cache.TTLDirectory)
}

func (c *memCache) InvalidateDirectory(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, cache.PrefixDirectory) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) IsAvailable() bool          { return true }
func (c *memCache) Ping(context.Context) error { return nil }

func (c *memCache) keysWithPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}
