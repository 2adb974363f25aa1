package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Approver struct {
	mock.Mock
}

func (m *Approver) VerifyElevatedApproval(ctx context.Context, pin string) (string, error) {
	args := m.Called(ctx, pin)
	return args.String(0), args.Error(1)
}
