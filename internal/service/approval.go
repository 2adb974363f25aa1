package service

import (
	"context"
	"errors"

	"github.com/Behyna/pawn-services/internal/constants"
	"github.com/Behyna/pawn-services/pkg/approval"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Approver checks an elevated approval PIN and returns the approver's id.
type Approver interface {
	VerifyElevatedApproval(ctx context.Context, pin string) (string, error)
}

type RemoteApprover struct {
	client approval.Client
	logger *zap.Logger
}

func NewRemoteApprover(client approval.Client, logger *zap.Logger) Approver {
	return &RemoteApprover{client: client, logger: logger}
}

func (r *RemoteApprover) VerifyElevatedApproval(ctx context.Context, pin string) (string, error) {
	if pin == "" {
		return "", NewServiceError(constants.ErrCodeApprovalRequired, ErrApprovalMissing)
	}

	resp, err := r.client.Verify(ctx, approval.VerifyRequest{PIN: pin})
	if err == nil {
		return resp.ApproverID, nil
	}

	switch {
	case errors.Is(err, approval.ErrInvalidPIN), errors.Is(err, approval.ErrNotPermitted):
		r.logger.Warn("Elevated approval rejected", zap.Error(err))
		return "", NewServiceError(constants.ErrCodeApprovalRequired, ErrApprovalDenied)
	default:
		r.logger.Error("Approval service call failed", zap.Error(err))
		return "", NewServiceError(constants.ErrCodeApprovalUnavailable, ErrApprovalUnavailable)
	}
}

// PINApprover verifies PINs against locally configured bcrypt hashes, keyed by
// approver id.
type PINApprover struct {
	hashes map[string]string
	logger *zap.Logger
}

func NewPINApprover(hashes map[string]string, logger *zap.Logger) Approver {
	return &PINApprover{hashes: hashes, logger: logger}
}

func (p *PINApprover) VerifyElevatedApproval(_ context.Context, pin string) (string, error) {
	if pin == "" {
		return "", NewServiceError(constants.ErrCodeApprovalRequired, ErrApprovalMissing)
	}

	for approverID, hash := range p.hashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil {
			return approverID, nil
		}
	}

	p.logger.Warn("Elevated approval rejected", zap.Int("approvers", len(p.hashes)))
	return "", NewServiceError(constants.ErrCodeApprovalRequired, ErrApprovalDenied)
}
