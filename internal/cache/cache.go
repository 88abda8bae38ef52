package cache

import (
	"context"
	"errors"
	"time"
)

// 配送業者のアクセストークン置き場。
// プロセス全体で1エントリを共有する（ユーザー単位ではない）。
type TokenCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
