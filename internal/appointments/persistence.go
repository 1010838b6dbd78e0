package appointments

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Persistence is the durable-storage capability the store consumes: the
// whole appointment collection is loaded on start and written back
// after every mutation. There is no schema or partial querying.
type Persistence interface {
	Load(ctx context.Context) ([]Appointment, error)
	Save(ctx context.Context, appts []Appointment) error
}

// RedisPersistence keeps the serialized collection under a single
// key-value entry.
type RedisPersistence struct {
	client *redis.Client
	key    string
}

// RedisOptions configures the persistence connection.
type RedisOptions struct {
	Addr     string
	Password string
	TLS      bool
	Key      string
}

// NewRedisPersistence connects a redis-backed persistence.
func NewRedisPersistence(opts RedisOptions) *RedisPersistence {
	ro := &redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
	}
	if opts.TLS {
		ro.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	key := opts.Key
	if key == "" {
		key = "fisio:appointments"
	}
	return &RedisPersistence{client: redis.NewClient(ro), key: key}
}

// NewRedisPersistenceWithClient injects an existing client (tests use
// miniredis through this path).
func NewRedisPersistenceWithClient(client *redis.Client, key string) *RedisPersistence {
	if client == nil {
		panic("appointments: redis client required")
	}
	if key == "" {
		key = "fisio:appointments"
	}
	return &RedisPersistence{client: client, key: key}
}

// Load reads the full collection. A missing key is an empty collection.
func (p *RedisPersistence) Load(ctx context.Context) ([]Appointment, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	var appts []Appointment
	if err := json.Unmarshal(data, &appts); err != nil {
		return nil, &PersistenceError{Op: "decode", Err: err}
	}
	return appts, nil
}

// Save writes the full collection back.
func (p *RedisPersistence) Save(ctx context.Context, appts []Appointment) error {
	if appts == nil {
		appts = []Appointment{}
	}
	data, err := json.Marshal(appts)
	if err != nil {
		return &PersistenceError{Op: "encode", Err: err}
	}
	if err := p.client.Set(ctx, p.key, data, 0).Err(); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// MemoryPersistence keeps the collection in memory. It backs local
// development and tests that do not need redis.
type MemoryPersistence struct {
	mu    sync.Mutex
	appts []Appointment
}

// NewMemoryPersistence creates an empty in-memory persistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (p *MemoryPersistence) Load(ctx context.Context) ([]Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Appointment(nil), p.appts...), nil
}

func (p *MemoryPersistence) Save(ctx context.Context, appts []Appointment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.appts = append([]Appointment(nil), appts...)
	return nil
}
