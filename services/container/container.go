package container

import (
	"context"
	"sync"
	"time"

	"github.com/avivhostel-jpg/Smart-Aviv/config"
	"github.com/avivhostel-jpg/Smart-Aviv/services"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService    services.InterfaceJWTService
	notifyService services.InterfaceNotifyService

	// 数据存储服务
	localStoreService  services.InterfaceLocalStoreService
	remoteStoreService services.InterfaceRemoteStoreService

	// 业务服务
	syncService    services.InterfaceSyncService
	sessionService services.InterfaceSessionService
	exportService  services.InterfaceExportService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接；连接不上则以本地模式运行
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			config.Warning("Redis连接测试失败: %v，将以本地模式运行", err)
			redisClient = nil
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.notifyService = services.NewNotifyService(c.config)
	if err := c.notifyService.Connect(); err != nil {
		config.Warning("MQTT服务连接失败: %v", err)
	}

	// 初始化存储服务
	c.localStoreService = services.NewLocalStoreService(c.db)
	if c.redis != nil {
		c.remoteStoreService = services.NewRemoteStoreService(c.redis)
	}

	// 初始化业务服务
	c.sessionService = services.NewSessionService(c.localStoreService)
	c.exportService = services.NewExportService()

	syncService := services.NewSyncService(c.localStoreService, c.remoteStoreService, c.notifyService)
	c.syncService = syncService

	// 启动同步协调器（启动协议在后台运行，不阻塞HTTP服务）
	go syncService.Start()
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "notify":
		return c.notifyService
	case "local_store":
		return c.localStoreService
	case "remote_store":
		return c.remoteStoreService
	case "sync":
		return c.syncService
	case "session":
		return c.sessionService
	case "export":
		return c.exportService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetSyncService 获取同步协调器
func (c *ServiceContainer) GetSyncService() services.InterfaceSyncService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.syncService
}

// GetSessionService 获取会话服务
func (c *ServiceContainer) GetSessionService() services.InterfaceSessionService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionService
}

// GetExportService 获取导出服务
func (c *ServiceContainer) GetExportService() services.InterfaceExportService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exportService
}

// GetJWTService 获取JWT服务
func (c *ServiceContainer) GetJWTService() services.InterfaceJWTService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jwtService
}

// Shutdown 关闭容器持有的外部连接
func (c *ServiceContainer) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.syncService.Stop()
	c.notifyService.Disconnect()
}
