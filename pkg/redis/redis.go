package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"unitable/backend/config"
)

// Client Redis 客户端封装
// 当前用于课程目录枚举值（课程类型/授课教师）缓存；后续可扩展其他缓存场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 课程目录枚举缓存 ──

const facetPrefix = "catalog:facet:"

// GetFacet 读取缓存的枚举值列表；缓存未命中返回 (nil, false)
func (c *Client) GetFacet(ctx context.Context, name string) ([]string, bool) {
	raw, err := c.rdb.Get(ctx, facetPrefix+name).Result()
	if err != nil {
		if err != goredis.Nil {
			c.logger.Warn("读取枚举缓存失败", zap.String("facet", name), zap.Error(err))
		}
		return nil, false
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		c.logger.Warn("枚举缓存内容损坏", zap.String("facet", name), zap.Error(err))
		return nil, false
	}
	return values, true
}

// SetFacet 写入枚举值列表缓存
func (c *Client) SetFacet(ctx context.Context, name string, values []string, ttl time.Duration) {
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, facetPrefix+name, raw, ttl).Err(); err != nil {
		c.logger.Warn("写入枚举缓存失败", zap.String("facet", name), zap.Error(err))
	}
}

// InvalidateFacets 清除全部枚举缓存（管理员变更课程目录后调用）
func (c *Client) InvalidateFacets(ctx context.Context) {
	keys, err := c.rdb.Keys(ctx, facetPrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("清除枚举缓存失败", zap.Error(err))
	}
}

// ── 速率限制 ──

// CheckRateLimit 固定窗口计数；key 在窗口内超过 limit 次返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	// 窗口首次计数时设置过期
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
