package kafka

import (
	"context"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/questx-lab/tileset/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func Test_publisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		require.JSONEq(t, `{"id":"t1"}`, string(val))
		return nil
	})

	p := &publisher{clientID: "test", producer: producer}
	pack, err := pubsub.NewPack("t1", map[string]string{"id": "t1"})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), "tileset", pack))
	require.NoError(t, p.Stop(context.Background()))
}
