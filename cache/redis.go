package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	if _, err := Client.Ping(Ctx).Result(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	log.Info().Msg("connected to redis")
}

// AllowOTPIssue rate-limits verification-code issuing per phone number:
// at most max codes per window. Fails open when redis is unavailable so
// a cache outage never blocks bookings.
func AllowOTPIssue(phone string, max int, window time.Duration) bool {
	if Client == nil {
		return true
	}

	key := "otp_issue:" + phone
	count, err := Client.Incr(Ctx, key).Result()
	if err != nil {
		log.Warn().Err(err).Msg("otp rate limit unavailable")
		return true
	}
	if count == 1 {
		Client.Expire(Ctx, key, window)
	}
	return count <= int64(max)
}
