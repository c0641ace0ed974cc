package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisConnOnce sync.Once
var redisConn *redis.Client

// NewRedis returns a client connected to a process-local miniredis instance.
// The pattern locker uses it the same way it would a real Redis.
func NewRedis() *redis.Client {
	if redisConn == nil {
		redisConnOnce.Do(func() {
			redisConn = openRedisConn()
		})
	}
	return redisConn
}

func openRedisConn() *redis.Client {
	miniRedis, err := miniredis.Run()
	if err != nil {
		panic(err)
	}

	return redis.NewClient(&redis.Options{
		Addr: miniRedis.Addr(),
	})
}

// ClearRedis drops every key, releasing any pattern locks left by a scenario.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.TODO()).Err()
}
