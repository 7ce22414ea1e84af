package pubsub

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/surplusmkt/surplus/internal/model"
)

// A RedisBridge replicates snapshot notifications across server instances
// through a redis pub/sub channel. Only a change marker travels over redis;
// each instance reloads the snapshot from its own database connection.
type RedisBridge struct {
	broker     *Broker
	rdb        *redis.Client
	channel    string
	instanceID string
	load       func() ([]*model.Item, error)
	logger     logrus.FieldLogger
}

// NewRedisBridge returns a Publisher that fans out locally through broker and
// notifies the other instances listening on the given redis channel.
func NewRedisBridge(address, channel string, broker *Broker, load func() ([]*model.Item, error), logger logrus.FieldLogger) *RedisBridge {
	return &RedisBridge{
		broker:     broker,
		rdb:        redis.NewClient(&redis.Options{Addr: address}),
		channel:    channel,
		instanceID: uuid.Must(uuid.NewV4()).String(),
		load:       load,
		logger:     logger,
	}
}

// Publish implements Publisher.
func (b *RedisBridge) Publish(snapshot []*model.Item) {
	b.broker.Publish(snapshot)

	if err := b.rdb.Publish(context.Background(), b.channel, b.instanceID).Err(); err != nil {
		b.logger.WithError(err).Error("could not publish change marker to redis")
	}
}

// Run consumes change markers until ctx is cancelled. Markers emitted by this
// instance are skipped since Publish already fanned out locally.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub.Channel():
			if !ok {
				return errors.New("redis subscription closed")
			}
			if msg.Payload == b.instanceID {
				continue
			}

			snapshot, err := b.load()
			if err != nil {
				b.logger.WithError(err).Error("could not reload snapshot after remote change")
				continue
			}
			b.broker.Publish(snapshot)
		}
	}
}

// Close releases the redis connection.
func (b *RedisBridge) Close() error {
	return errors.Wrap(b.rdb.Close(), "could not close redis connection")
}
