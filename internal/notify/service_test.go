package notify

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/averlon/wholesale-orders/internal/kafka"
	"github.com/averlon/wholesale-orders/internal/wholesale"
)

func TestHandleOrderCreated_IgnoresOtherEventTypes(t *testing.T) {
	svc := &Service{ServiceName: "test"} // Redis untouched for foreign events

	env := wholesale.Envelope{
		EventID:   "ev-1",
		EventType: "SomethingElse",
		Payload:   kafkax.MustMarshal(map[string]string{}),
	}
	err := svc.HandleOrderCreated(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)})
	assert.NoError(t, err)
}

func TestHandleOrderCreated_RejectsMalformedMessage(t *testing.T) {
	svc := &Service{ServiceName: "test"}

	err := svc.HandleOrderCreated(context.Background(), kafkago.Message{Value: []byte("{not json")})
	require.Error(t, err)
}
