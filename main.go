// @title           Smart Aviv Record Management API
// @version         1.0
// @description     Residential care record-management service: residents, intervention reports and performance exports with local/remote synchronization

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/avivhostel-jpg/Smart-Aviv/config"
	"github.com/avivhostel-jpg/Smart-Aviv/routes"
	"github.com/avivhostel-jpg/Smart-Aviv/services"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// 初始化日志配置
	if err := config.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		config.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		config.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 打开本地缓存数据库
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("无法打开本地缓存数据库: %v", err)
	}

	if err := db.AutoMigrate(&services.CacheEntry{}); err != nil {
		log.Fatalf("本地缓存迁移失败: %v", err)
	}

	// 创建Redis客户端；未启用远程存储时传nil，服务以本地模式运行
	var redisClient *redis.Client
	if cfg.RemoteEnable {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.GetRedisAddr(),
			DB:   cfg.RedisDB,
		})
	} else {
		config.Info("远程存储未启用，服务以本地模式运行")
	}

	// 初始化路由与服务容器
	r, serviceContainer := routes.SetupRouter(db, cfg, redisClient)
	defer serviceContainer.Shutdown()

	// 获取端口配置
	port := cfg.ServerPort
	if port == "" {
		port = "8080"
	}

	// 启动服务器
	config.Info("服务器启动在: http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		config.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// initDB 打开嵌入式SQLite数据库
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.LocalDBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
