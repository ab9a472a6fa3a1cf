package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Mailer mock 发信：只写结构化日志
type Mailer struct {
	log *zap.Logger
}

func NewMailer(log *zap.Logger) *Mailer { return &Mailer{log: log} }

func (m *Mailer) Handle(ctx context.Context, job *Job) error {
	switch job.Kind {
	case KindRegistrationEmail:
		var p RegistrationEmail
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", job.Kind, err)
		}
		m.log.Info("sending registration email",
			zap.String("job_id", job.ID),
			zap.String("to", p.Email),
			zap.String("subject", "Welcome to Book Management System"),
			zap.String("body", "Dear "+p.Username+", thank you for registering!"),
		)
		return nil
	case KindContactEmail:
		var p ContactEmail
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", job.Kind, err)
		}
		m.log.Info("sending contact email",
			zap.String("job_id", job.ID),
			zap.String("from_name", p.Name),
			zap.String("from_email", p.Email),
			zap.String("message", p.Message),
		)
		return nil
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

type Worker struct {
	queue  *RedisQueue
	mailer *Mailer
	log    *zap.Logger
	n      int
}

func NewWorker(queue *RedisQueue, mailer *Mailer, log *zap.Logger, n int) *Worker {
	if n <= 0 {
		n = 1
	}
	return &Worker{queue: queue, mailer: mailer, log: log, n: n}
}

// Run 启动 n 个消费协程，ctx 取消后全部退出。
// 任务失败只记日志，不回传给产生请求的一侧。
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				job, err := w.queue.Pop(ctx, 5*time.Second)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					w.log.Error("queue pop failed", zap.Int("worker", id), zap.Error(err))
					time.Sleep(time.Second)
					continue
				}
				if job == nil {
					continue
				}
				if err := w.mailer.Handle(ctx, job); err != nil {
					w.log.Error("job failed",
						zap.Int("worker", id),
						zap.String("job_id", job.ID),
						zap.String("kind", job.Kind),
						zap.Error(err),
					)
				}
			}
		}(i)
	}
	wg.Wait()
}
