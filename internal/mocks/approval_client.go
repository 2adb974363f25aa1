package mocks

import (
	"context"

	"github.com/Behyna/pawn-services/pkg/approval"
	"github.com/stretchr/testify/mock"
)

type ApprovalClient struct {
	mock.Mock
}

func (m *ApprovalClient) Verify(ctx context.Context, request approval.VerifyRequest) (approval.VerifyResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(approval.VerifyResponse), args.Error(1)
}
