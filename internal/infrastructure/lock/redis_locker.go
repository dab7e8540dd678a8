package lock

import (
	"context"
	"sync"
	"time"

	"pointledger/pkg/idgen"

	"github.com/go-redis/redis/v8"
)

// RedisUserLocker 多实例部署时的用户锁
// 先用进程内锁把本实例的 goroutine 串行化，再去抢 Redis 锁，
// 避免同一实例的多个等待者都在轮询 Redis
type RedisUserLocker struct {
	client *redis.Client
	local  *LocalLockManager

	mu   sync.Mutex
	held map[int64]*DistributedLock
}

func NewRedisUserLocker(client *redis.Client) *RedisUserLocker {
	return &RedisUserLocker{
		client: client,
		local:  NewLocalLockManager(),
		held:   make(map[int64]*DistributedLock),
	}
}

func (r *RedisUserLocker) Lock(ctx context.Context, userID int64) error {
	if err := r.local.Lock(ctx, userID); err != nil {
		return err
	}

	dl := NewUserPointLock(r.client, userID, idgen.GenerateLockToken())
	if err := dl.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		r.local.Unlock(ctx, userID)
		return err
	}

	r.mu.Lock()
	r.held[userID] = dl
	r.mu.Unlock()
	return nil
}

func (r *RedisUserLocker) Unlock(ctx context.Context, userID int64) {
	r.mu.Lock()
	dl := r.held[userID]
	delete(r.held, userID)
	r.mu.Unlock()

	if dl != nil {
		_ = dl.Unlock(ctx)
	}
	r.local.Unlock(ctx, userID)
}
