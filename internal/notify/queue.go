// Package notify 出站邮件的异步投递：请求侧只负责入队（fire-and-forget），
// worker 进程消费并"发送"（mock，结构化日志代替真实邮件）。
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	KindRegistrationEmail = "registration_email"
	KindContactEmail      = "contact_email"
)

type Job struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

type RegistrationEmail struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type ContactEmail struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Enqueuer 入队即完成，调用方不等待执行结果
type Enqueuer interface {
	Enqueue(ctx context.Context, kind string, payload any) (jobID string, err error)
}

type RedisQueue struct {
	rdb   *redis.Client
	queue string
}

func NewRedisQueue(addr, pass string, db int, queue string) *RedisQueue {
	return &RedisQueue{
		rdb:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		queue: queue,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, kind string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	job := Job{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    body,
		EnqueuedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	if err := q.rdb.LPush(ctx, q.queue, raw).Err(); err != nil {
		return "", err
	}
	return job.ID, nil
}

// Pop 阻塞取任务；超时返回 (nil, nil)
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.queue).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	// BRPOP 返回 [key, value]
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}
