package testutil

import (
	"context"
	"sync"

	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return errorx.New(errorx.NotImplemented, "Not implemented")
}

// RecordPublisher remembers every published pack.
type RecordPublisher struct {
	mu    sync.Mutex
	Packs []*pubsub.Pack
}

func (r *RecordPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Packs = append(r.Packs, pack)
	return nil
}

func (r *RecordPublisher) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.Packs))
	for _, p := range r.Packs {
		keys = append(keys, string(p.Key))
	}

	return keys
}
