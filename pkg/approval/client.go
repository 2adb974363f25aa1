package approval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Behyna/pawn-services/pkg/httpclient"
)

const (
	VerifyEndpoint = "/approvals/verify"
	ElevatedScope  = "ledger.elevated"
)

type Client interface {
	Verify(ctx context.Context, request VerifyRequest) (VerifyResponse, error)
}

type client struct {
	http   httpclient.HTTPClient
	config Config
}

func NewClient(cfg Config, http httpclient.HTTPClient) Client {
	return &client{config: cfg, http: http}
}

func (c *client) Verify(ctx context.Context, request VerifyRequest) (VerifyResponse, error) {
	if !c.config.Enable {
		return VerifyResponse{}, ErrDisabled
	}

	if request.Scope == "" {
		request.Scope = ElevatedScope
	}

	var (
		resp VerifyResponse
		err  error
	)

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		resp, err = c.verifyOnce(ctx, request)
		if err == nil || !Retryable(err) || ctx.Err() != nil {
			return resp, err
		}
	}

	return resp, err
}

func (c *client) verifyOnce(ctx context.Context, request VerifyRequest) (VerifyResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return VerifyResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if c.config.APIKey != "" {
		headers["X-Api-Key"] = c.config.APIKey
	}

	resp, err := c.http.Post(ctx, c.config.BaseURL+VerifyEndpoint, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return VerifyResponse{}, ErrTimeout
		}

		return VerifyResponse{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return VerifyResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return VerifyResponse{}, fmt.Errorf("decoding error: %w", err)
	}

	if response.ApproverID == "" {
		return VerifyResponse{}, ErrInvalidPIN
	}

	return response, nil
}
