package workerpool

import (
	"fmt"

	"github.com/gomodule/redigo/redis"
)

// RedisQueue is an optional persistent work queue of contest ids,
// letting a fleet of rcvtab processes pull contests off a shared list
// rather than each needing the full job list in memory. It holds no
// tabulation state itself — each consumer still builds its own Job from
// the contest id it pops and runs it through a local Pool.
type RedisQueue struct {
	pool    *redis.Pool
	listKey string
}

// NewRedisQueue dials lazily via redigo's pool, the same connection
// pattern used for Redis-backed state elsewhere in the ecosystem this
// module draws from.
func NewRedisQueue(address, listKey string) *RedisQueue {
	return &RedisQueue{
		pool: &redis.Pool{
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", address)
			},
			MaxIdle: 8,
		},
		listKey: listKey,
	}
}

func (q *RedisQueue) Close() error {
	return q.pool.Close()
}

// Push enqueues a contest id for some worker to pick up.
func (q *RedisQueue) Push(contestID string) error {
	conn := q.pool.Get()
	defer conn.Close()
	_, err := conn.Do("RPUSH", q.listKey, contestID)
	if err != nil {
		return fmt.Errorf("workerpool: pushing contest %s: %w", contestID, err)
	}
	return nil
}

// Pop blocks (up to timeoutSeconds) for the next queued contest id, or
// returns ("", nil) on timeout with nothing queued.
func (q *RedisQueue) Pop(timeoutSeconds int) (string, error) {
	conn := q.pool.Get()
	defer conn.Close()

	reply, err := redis.Strings(conn.Do("BLPOP", q.listKey, timeoutSeconds))
	if err == redis.ErrNil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("workerpool: popping contest: %w", err)
	}
	// BLPOP replies [key, value]; we only pushed one key.
	return reply[1], nil
}
