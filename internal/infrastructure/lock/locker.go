package lock

import "context"

// UserLocker 按用户维度的互斥锁
// 核心服务只依赖这个接口：单机部署用进程内锁，多实例部署换 Redis 锁
type UserLocker interface {
	// Lock 阻塞直到拿到 userID 对应的排他锁
	Lock(ctx context.Context, userID int64) error
	// Unlock 释放之前拿到的锁
	Unlock(ctx context.Context, userID int64)
}
