package config

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the shared cache client at process start. Callers
// receive it explicitly instead of reaching for a package-level singleton, and
// the returned client may be nil: every consumer treats a nil client as
// "running without cache".
func NewRedisClient() *redis.Client {
	var opt *redis.Options

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		parsedOpt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Println("Failed to parse Redis URL:", err)
			log.Println("Running without cache")
			return nil
		}
		opt = parsedOpt
	} else {
		opt = &redis.Options{
			Addr:     AppConfig.RedisAddr,
			Password: AppConfig.RedisPassword,
			DB:       0,
		}
	}

	client := redis.NewClient(opt)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Println("Redis connection failed:", err)
		log.Println("Running without cache")
		return nil
	}

	log.Println("Redis connected")
	return client
}

func CloseRedis(client *redis.Client) {
	if client != nil {
		client.Close()
	}
}
