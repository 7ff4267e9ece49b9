// Package solver is the HTTP client for the external planning job. The
// solver owns placement; this client only submits the request and reports
// the acknowledged run id.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/config"
	"github.com/planvine/tempo-backend/internal/domain"
)

// Client submits planning requests to the solver endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from the solver configuration.
func NewClient(cfg config.SolverConfig, logger *slog.Logger) *Client {
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "solver"),
	}
}

// planRequestJSON is the wire format of a planning invocation.
type planRequestJSON struct {
	OwnerID     string `json:"owner_id"`
	StartDate   string `json:"start_date,omitempty"`
	Days        int    `json:"days,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	IncludeBusy bool   `json:"include_busy"`
}

type planResponseJSON struct {
	SolverRunID string `json:"solver_run_id"`
}

// Plan submits a planning request. Requests are not retried: the caller
// records the attempt and a failed submission is re-requested explicitly.
func (c *Client) Plan(ctx context.Context, ownerID uuid.UUID, req domain.PlanRequest) (domain.PlanResponse, error) {
	payload, err := json.Marshal(planRequestJSON{
		OwnerID:     ownerID.String(),
		StartDate:   req.StartDate,
		Days:        req.Days,
		Timezone:    req.Timezone,
		IncludeBusy: req.IncludeBusy,
	})
	if err != nil {
		return domain.PlanResponse{}, fmt.Errorf("solver: encode request: %w", err)
	}

	c.log.DebugContext(ctx, "solver request",
		slog.String("owner_id", ownerID.String()),
		slog.String("start_date", req.StartDate),
		slog.Int("days", req.Days),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return domain.PlanResponse{}, fmt.Errorf("solver: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.ErrorContext(ctx, "solver request failed",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()),
		)
		return domain.PlanResponse{}, fmt.Errorf("solver: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return domain.PlanResponse{}, fmt.Errorf("solver: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.PlanResponse{}, fmt.Errorf("solver: read body: %w", err)
	}

	var wire planResponseJSON
	if err := json.Unmarshal(body, &wire); err != nil {
		return domain.PlanResponse{}, fmt.Errorf("solver: decode json: %w", err)
	}

	c.log.DebugContext(ctx, "solver response",
		slog.String("owner_id", ownerID.String()),
		slog.Int("status", resp.StatusCode),
		slog.String("solver_run_id", wire.SolverRunID),
	)

	return domain.PlanResponse{SolverRunID: wire.SolverRunID}, nil
}
