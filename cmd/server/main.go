// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dialab-go/internal/config"
	"dialab-go/internal/handler"
	"dialab-go/internal/middleware"
	"dialab-go/internal/repository"
	"dialab-go/internal/service"
	"dialab-go/pkg/database"
	"dialab-go/pkg/kafka"
	"dialab-go/pkg/llm"
	"dialab-go/pkg/log"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 与审计事件流
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	kafka.InitProducer(cfg.Kafka)
	defer kafka.Close()

	// 4. 初始化 Repository
	userRepository := repository.NewUserRepository(database.DB)
	chatLogRepository := repository.NewChatLogRepository(database.DB)
	conversationRepository := repository.NewConversationRepository(database.RDB)

	// 5. 初始化 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	authService := service.NewAuthService(userRepository)
	chatService := service.NewChatService(llmClient, chatLogRepository)
	conversationService := service.NewConversationService(conversationRepository)
	adminService := service.NewAdminService(userRepository, chatLogRepository)

	// 6. 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(chatService)
	chatHandler := handler.NewChatHandler(chatService, conversationService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	adminHandler := handler.NewAdminHandler(adminService)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组 (公开访问)
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// 受保护路由：每个请求都重新验证 Basic 凭证，
		// 服务不签发会话令牌，会话生命周期由调用方负责。
		users := apiV1.Group("/users")
		users.Use(middleware.AuthMiddleware(authService))
		{
			users.GET("/me", userHandler.GetProfile)
			users.GET("/me/audit", userHandler.GetOwnAuditTrail)
		}

		// Chat 路由组，需要认证
		chat := apiV1.Group("/chat")
		chat.Use(middleware.AuthMiddleware(authService))
		{
			chat.POST("", chatHandler.Chat)
			chat.GET("/ws", chatHandler.HandleWS)
			chat.GET("/history", conversationHandler.GetHistory)
			chat.DELETE("/history", conversationHandler.ResetHistory)
		}

		// 管理员路由组，需要同时通过认证和管理员授权两个中间件
		admin := apiV1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(authService), middleware.AdminAuthMiddleware())
		{
			admin.GET("/users/list", adminHandler.ListUsers)
			admin.GET("/audit/:userId", adminHandler.GetUserAuditTrail)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
