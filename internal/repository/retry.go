package repository

import (
	"context"
	"time"

	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/cenkalti/backoff/v4"
)

// ConnectMaxElapsed общее время на попытки подключения к хранилищу при старте
var ConnectMaxElapsed = 30 * time.Second

// ConnectWithRetry повторяет connect с экспоненциальной задержкой, пока хранилище не ответит.
func ConnectWithRetry(ctx context.Context, store string, log *logger.Logger, connect func(ctx context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = ConnectMaxElapsed
	bo.Reset()

	operation := func() error {
		return connect(ctx)
	}
	notify := func(err error, next time.Duration) {
		log.Warnw("Store not ready, retrying", "store", store, "error", err, "retryIn", next)
	}

	return backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify)
}
