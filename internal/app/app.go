package app

import (
	"context"
	"log"
	"time"

	"quickchat/internal/config"
	"quickchat/internal/handler"
	"quickchat/internal/repository"
	"quickchat/internal/service"
)

func Run(cfg *config.Config) {
	db, err := repository.NewDB(cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}

	// Кеш истории опционален: без Redis работаем напрямую с базой
	var chatCache repository.ChatCacheRepository
	if cfg.RedisAddr != "" {
		rdb, err := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("redis unavailable, message cache disabled: %v", err)
		} else {
			chatCache = repository.NewChatCacheRepository(rdb)
		}
	}

	var avatarService *service.AvatarService
	if cfg.S3BucketName != "" {
		avatarService, err = service.NewAvatarService(cfg)
		if err != nil {
			log.Printf("S3 unavailable, avatar uploads disabled: %v", err)
			avatarService = nil
		}
	}
	if avatarService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := avatarService.HealthCheck(ctx); err != nil {
			log.Printf("S3 unreachable, avatar uploads disabled: %v", err)
			avatarService = nil
		}
		cancel()
	}

	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService, avatarService)
	chatRepo := repository.NewChatRepository(db)
	chatService := service.NewChatService(chatRepo, chatCache)
	chatHandler := handler.NewChatHandler(chatService, userService)

	server := NewServer(userHandler, chatHandler)
	server.Run(cfg.ServerPort)
}
