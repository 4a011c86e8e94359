package pubsub

import "context"

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}

type Pack struct {
	Key []byte
	Msg []byte
}
