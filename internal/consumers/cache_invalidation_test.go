package consumers_test

import (
	"context"
	"testing"

	"github.com/Behyna/pawn-services/internal/consumers"
	internalmocks "github.com/Behyna/pawn-services/internal/mocks"
	"github.com/Behyna/pawn-services/pkg/mocks"
	"github.com/Behyna/pawn-services/pkg/mq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestCacheInvalidationConsumer_HandleMessage(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		invalidate bool
	}{
		{name: "invalidates the transaction", body: `{"id":"e1","type":"status.changed","transaction_id":7}`, invalidate: true},
		{name: "malformed json is dropped", body: `{"transaction_id":`},
		{name: "missing transaction is dropped", body: `{"id":"e2","type":"status.changed"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cache := new(internalmocks.BalanceCache)
			if tc.invalidate {
				cache.On("Invalidate", int64(7)).Return()
			}

			consumer := consumers.NewCacheInvalidationConsumer(cache, new(mocks.Consumer), 10, zap.NewNop())
			handler, ok := consumer.(interface {
				HandleMessage(ctx context.Context, body []byte) error
			})
			if !assert.True(t, ok) {
				return
			}

			err := handler.HandleMessage(context.Background(), []byte(tc.body))

			assert.NoError(t, err)
			cache.AssertExpectations(t)
		})
	}
}

func TestCacheInvalidationConsumer_Consume(t *testing.T) {
	cache := new(internalmocks.BalanceCache)
	cache.On("Invalidate", int64(3)).Return()

	broker := new(mocks.Consumer)
	broker.On("Consume", mock.Anything, 10, "amq.gen-abc", mock.Anything).
		Run(func(args mock.Arguments) {
			handle := args.Get(3).(mq.Handle)
			_ = handle(context.Background(), []byte(`{"transaction_id":3}`))
		}).
		Return(nil)

	err := consumers.NewCacheInvalidationConsumer(cache, broker, 10, zap.NewNop()).
		Consume(context.Background(), "amq.gen-abc")

	assert.NoError(t, err)
	broker.AssertExpectations(t)
	cache.AssertExpectations(t)
}
