package pubsub

import (
	"context"
	"encoding/json"
)

type Pack struct {
	Key []byte
	Msg []byte
}

// NewPack json-encodes msg under key.
func NewPack(key string, msg any) (*Pack, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	return &Pack{Key: []byte(key), Msg: b}, nil
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher dropping every message, used when no broker
// is configured.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, *Pack) error {
	return nil
}
