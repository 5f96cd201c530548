package queue

import "context"

// Publisher отправляет одно сообщение в топик. Публикация асинхронная,
// результат забирается через Result.
type Publisher interface {
	Publish(ctx context.Context, data []byte) Result
}

// Result ждет подтверждения публикации и возвращает id сообщения.
type Result interface {
	Get(ctx context.Context) (string, error)
}

// asyncResult для транспортов, у которых нет своего future
type asyncResult struct {
	done chan struct{}
	id   string
	err  error
}

func newAsyncResult() *asyncResult {
	return &asyncResult{done: make(chan struct{})}
}

func (r *asyncResult) set(id string, err error) {
	r.id, r.err = id, err
	close(r.done)
}

func (r *asyncResult) Get(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-r.done:
		return r.id, r.err
	}
}
