package config

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// ConnectRedis returns nil when REDIS_ADDR is empty or unreachable;
// callers treat a nil client as "cache disabled".
func ConnectRedis(e Env) *redis.Client {
	if e.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     e.RedisAddr,
		Password: e.RedisPassword,
		DB:       e.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warning: redis %s tidak bisa dihubungi, cache KPI dimatikan: %v", e.RedisAddr, err)
		_ = rdb.Close()
		return nil
	}
	log.Printf("Berhasil konek ke Redis %s", e.RedisAddr)
	return rdb
}
