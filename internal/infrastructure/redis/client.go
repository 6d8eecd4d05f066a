package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config はRedis接続設定
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr は接続アドレスを返す
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// NewClient はRedisクライアントを作成し、接続を確認する
func NewClient(cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis接続に失敗しました: %w", err)
	}
	return client, nil
}
