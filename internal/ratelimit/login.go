package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/fluxcrm/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyLoginAttempt = "auth:login:ip:%s"

// LoginLimiter throttles login attempts per client IP. A nil limiter allows
// everything, which is what runs when no redis address is configured.
type LoginLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
	rate   float64
	burst  int
}

type Params struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg config.Config
	Log *zap.Logger
}

func NewLoginLimiter(p Params) (*LoginLimiter, error) {
	limitCfg := p.Cfg.RateLimit
	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		p.Log.Info("login rate limiting disabled: no redis address")
		return nil, nil
	}
	if limitCfg.LoginRate <= 0 || limitCfg.LoginBurst <= 0 {
		return nil, errors.New("login rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	p.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return NewLoginLimiterWithClient(client, limitCfg.LoginRate, limitCfg.LoginBurst, p.Log), nil
}

func NewLoginLimiterWithClient(client *redis.Client, rate float64, burst int, log *zap.Logger) *LoginLimiter {
	if client == nil {
		return nil
	}
	return &LoginLimiter{
		bucket: NewTokenBucket(client),
		log:    log.Named("ratelimit.login"),
		rate:   rate,
		burst:  burst,
	}
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow reports whether another login attempt from ip may proceed and, when
// it may not, how long the caller should wait. Redis failures fail open.
func (l *LoginLimiter) Allow(ctx context.Context, ip string) (bool, time.Duration) {
	if !l.Enabled() {
		return true, 0
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = "unknown"
	}
	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyLoginAttempt, ip), l.rate, l.burst)
	if err != nil {
		l.log.Warn("login rate limit check failed", zap.String("ip", ip), zap.Error(err))
		return true, 0
	}
	return res.Allowed, res.RetryAfter
}
