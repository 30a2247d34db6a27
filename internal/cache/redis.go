// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Cache envuelve un cliente Redis opcional. Con Client nil todas las
// operaciones son no-op, lo que permite correr sin Redis en desarrollo.
type Cache struct {
	Client *redis.Client
	locker *redislock.Client
}

// Conectar abre el cliente y verifica con PING. addr vacío retorna un Cache deshabilitado.
func Conectar(ctx context.Context, addr string) (*Cache, error) {
	if addr == "" {
		return &Cache{}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		PoolSize: 20,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return New(rdb), nil
}

// New crea un Cache sobre un cliente existente.
func New(rdb *redis.Client) *Cache {
	if rdb == nil {
		return &Cache{}
	}
	return &Cache{Client: rdb, locker: redislock.New(rdb)}
}

func (c *Cache) Habilitado() bool {
	return c != nil && c.Client != nil
}

// GetObject carga en dest el JSON guardado en key. Retorna false si no existe.
func (c *Cache) GetObject(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Habilitado() {
		return false, nil
	}
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetObject guarda obj serializado en JSON con expiración.
func (c *Cache) SetObject(ctx context.Context, key string, obj any, exp time.Duration) error {
	if !c.Habilitado() {
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, b, exp).Err()
}

// DeletePrefix borra todas las claves que empiezan con prefix.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	if !c.Habilitado() {
		return nil
	}
	iter := c.Client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

// PrefijoDashboard agrupa las claves del resumen de rentabilidad.
const PrefijoDashboard = "dashboard:"

// ErrLockNoObtenido indica que otro proceso mantiene el lock tras los reintentos.
var ErrLockNoObtenido = errors.New("no se pudo obtener el lock")

const lockTTL = 15 * time.Second

// Bloquear obtiene un lock distribuido sobre clave. Sin Redis retorna un
// release vacío. El release nunca falla hacia el llamador.
func (c *Cache) Bloquear(ctx context.Context, clave string) (func(), error) {
	if !c.Habilitado() {
		return func() {}, nil
	}
	lock, err := c.locker.Obtain(ctx, "lock:"+clave, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 50),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockNoObtenido
	}
	if err != nil {
		return nil, err
	}
	return func() {
		_ = lock.Release(context.Background())
	}, nil
}
