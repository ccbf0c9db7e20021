package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/ruslano69/tdtp-datagrid/pkg/brokers"
	"github.com/ruslano69/tdtp-datagrid/pkg/retry"
)

// reconnectDelay — пауза перед повторным подключением после обрыва чтения
var reconnectDelay = time.Second

// StreamOptions настраивает StreamIngest
type StreamOptions struct {
	Retry retry.Config

	// OnAppend вызывается после добавления n записей
	OnAppend func(n int)
}

// StreamIngest читает JSON-сообщения подписчика и добавляет записи в ds,
// пока ctx не отменен. Подключение повторяется по Retry; после ошибки
// чтения подписчик закрывается и подключается заново.
// Некорректное сообщение подтверждается и отбрасывается с предупреждением.
func StreamIngest(ctx context.Context, ds *Dataset, sub brokers.Subscriber, opts StreamOptions) error {
	rcfg := opts.Retry
	rcfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.Warn().Err(err).Str("dataset", ds.Name).Int("attempt", attempt).Dur("delay", delay).Msg("broker connect failed, retrying")
	}
	retryer, err := retry.NewRetryer(rcfg)
	if err != nil {
		return fmt.Errorf("dataset %q: %w", ds.Name, err)
	}

	for {
		err := retryer.Do(ctx, func(ctx context.Context) error {
			return sub.Connect(ctx)
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("dataset %q: connect %s: %w", ds.Name, sub.Type(), err)
		}
		log.Info().Str("dataset", ds.Name).Str("broker", sub.Type()).Msg("stream connected")

		err = consume(ctx, ds, sub, opts.OnAppend)
		if cerr := sub.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("dataset", ds.Name).Str("broker", sub.Type()).Msg("broker close failed")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Str("dataset", ds.Name).Msg("stream interrupted, reconnecting")

		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// consume читает сообщения до ошибки брокера или отмены ctx
func consume(ctx context.Context, ds *Dataset, sub brokers.Subscriber, onAppend func(int)) error {
	for {
		body, err := sub.Receive(ctx)
		if errors.Is(err, brokers.ErrNoMessage) {
			continue
		}
		if err != nil {
			return err
		}

		records, err := decodeRecords(body)
		if err != nil {
			log.Warn().Err(err).Str("dataset", ds.Name).Int("bytes", len(body)).Msg("malformed message dropped")
		} else {
			ds.Append(records...)
			if onAppend != nil {
				onAppend(len(records))
			}
		}

		if err := sub.Ack(ctx); err != nil {
			return fmt.Errorf("ack: %w", err)
		}
	}
}
