package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pointledger/internal/config"
	"pointledger/internal/handler"
	"pointledger/internal/infrastructure/cache"
	"pointledger/internal/infrastructure/database"
	"pointledger/internal/infrastructure/lock"
	"pointledger/internal/infrastructure/mq"
	"pointledger/internal/job"
	"pointledger/internal/repository"
	"pointledger/internal/repository/memtable"
	"pointledger/internal/service"
	"pointledger/pkg/idgen"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig("config/config.yaml")

	// 初始化 ID 生成器
	idgen.Init(1)

	// 初始化存储（默认内存模拟表，可切 MySQL）
	var (
		points    repository.UserPointStore
		histories repository.PointHistoryStore
		outbox    repository.OutboxStore
		txManager repository.TxManager
	)
	switch cfg.Store.Driver {
	case "mysql":
		db := database.InitMySQL(&cfg.MySQL)
		points = repository.NewPointRepository(db)
		histories = repository.NewHistoryRepository(db)
		outbox = repository.NewOutboxRepository(db)
		txManager = repository.NewGormTxManager(db)
	default:
		store := memtable.NewStore(cfg.Store.MemSelectDelay, cfg.Store.MemWriteDelay)
		points = store.Points()
		histories = store.Histories()
		outbox = store.Outbox()
		txManager = store
	}

	// 初始化用户锁（默认进程内，多实例部署切 Redis）
	var locker lock.UserLocker = lock.NewLocalLockManager()
	if cfg.Lock.Provider == "redis" {
		redisClient := cache.InitRedis(&cfg.Redis)
		locker = lock.NewRedisUserLocker(redisClient)
	}

	validator := service.NewPointValidator(cfg.Business.MinUsePoints)
	pointService := service.NewPointService(points, histories, outbox, txManager, locker, validator, service.PointServiceConfig{
		EnforceMinUse:          cfg.Business.EnforceMinUse,
		AllowUseWithoutAccount: cfg.Business.AllowUseWithoutAccount,
		EventTopic:             cfg.Kafka.Topic.PointEvent,
	})

	// 创建上下文（用于优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kafka 开启时启动发件箱投递任务
	if cfg.Kafka.Enabled {
		mq.InitKafka(&cfg.Kafka)
		defer mq.CloseKafka()

		outboxSender := job.NewOutboxSender(outbox, cfg.Business.MaxRetryCount)
		go outboxSender.Start(ctx)
	}

	// 设置路由
	router := handler.SetupRouter(pointService)

	// 启动 HTTP 服务
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Printf("服务启动，监听端口: %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 取消上下文，停止后台任务
	cancel()

	// 关闭 HTTP 服务（等待最多5秒）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("服务关闭异常: %v", err)
	}

	log.Println("服务已关闭")
}
