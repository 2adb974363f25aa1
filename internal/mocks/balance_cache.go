package mocks

import (
	"time"

	"github.com/Behyna/pawn-services/internal/service"
	"github.com/stretchr/testify/mock"
)

type BalanceCache struct {
	mock.Mock
}

func (m *BalanceCache) Get(transactionID int64, asOf time.Time) (*service.BalanceBreakdown, bool) {
	args := m.Called(transactionID, asOf)
	balance, _ := args.Get(0).(*service.BalanceBreakdown)
	return balance, args.Bool(1)
}

func (m *BalanceCache) Set(transactionID int64, asOf time.Time, balance *service.BalanceBreakdown) {
	m.Called(transactionID, asOf, balance)
}

func (m *BalanceCache) Invalidate(transactionID int64) {
	m.Called(transactionID)
}
