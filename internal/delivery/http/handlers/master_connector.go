package handlers

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/little-brother/internal/delivery/http/dto/api"
	"github.com/LavaJover/little-brother/internal/domain"
	eventsdto "github.com/LavaJover/little-brother/internal/usecase/dto/events"
	statusdto "github.com/LavaJover/little-brother/internal/usecase/dto/status"
)

const defaultClientTimeout = 10 * time.Second

// MasterConnector speaks the client side of the master API and checks the
// shared secret of batches arriving at the master.
type MasterConnector struct {
	baseURL     string
	accessToken string
	client      *http.Client
	logger      *slog.Logger
}

func NewMasterConnector(baseURL, accessToken string, logger *slog.Logger) *MasterConnector {
	return &MasterConnector{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		client:      &http.Client{Timeout: defaultClientTimeout},
		logger:      logger.With("component", "master_connector"),
	}
}

func (c *MasterConnector) EncodeEvent(hostname string, events []*domain.AdminEvent, stats *eventsdto.ClientStats) *eventsdto.EventBatch {
	return &eventsdto.EventBatch{
		Secret:      c.accessToken,
		Hostname:    hostname,
		Events:      events,
		ClientStats: stats,
	}
}

// ReceiveEvents decodes a batch and rejects it unless it carries the
// configured secret.
func (c *MasterConnector) ReceiveEvents(payload []byte) (*eventsdto.EventBatch, error) {
	var batch eventsdto.EventBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("decode event batch: %w", err)
	}

	if err := c.CheckBatch(&batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (c *MasterConnector) CheckBatch(batch *eventsdto.EventBatch) error {
	if subtle.ConstantTimeCompare([]byte(batch.Secret), []byte(c.accessToken)) != 1 {
		c.logger.Warn("received invalid access token", "hostname", batch.Hostname)
		return domain.ErrInvalidAccessToken
	}
	return nil
}

// SendEvents posts a batch to the master and returns the events the master
// queued for hostname.
func (c *MasterConnector) SendEvents(ctx context.Context, hostname string, events []*domain.AdminEvent, stats *eventsdto.ClientStats) ([]*domain.AdminEvent, error) {
	body, err := json.Marshal(c.EncodeEvent(hostname, events, stats))
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, api.RouteEvents, nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Error("cannot send events: invalid access token")
		return nil, domain.ErrInvalidAccessToken
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out api.EventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode events response: %w", err)
	}
	return out.Events, nil
}

// RequestStatus returns ErrUserNotFound when the master does not know
// username.
func (c *MasterConnector) RequestStatus(ctx context.Context, username string) (*statusdto.UserStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, api.RouteStatus, url.Values{api.ParamUsername: {username}}, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var status statusdto.UserStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}

// RequestTimeExtension returns the HTTP status of the master: 200 granted,
// 401 wrong access code, 404 unknown user, 416 period not offered.
func (c *MasterConnector) RequestTimeExtension(ctx context.Context, username, accessCode string, minutes int) (int, error) {
	params := url.Values{
		api.ParamUsername:        {username},
		api.ParamSecret:          {accessCode},
		api.ParamExtensionLength: {strconv.Itoa(minutes)},
	}

	resp, err := c.do(ctx, http.MethodPost, api.RouteRequestTimeExtension, params, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusUnauthorized, http.StatusNotFound, http.StatusRequestedRangeNotSatisfiable:
		return resp.StatusCode, nil
	}
	return resp.StatusCode, checkStatus(resp)
}

func (c *MasterConnector) do(ctx context.Context, method, route string, params url.Values, body []byte) (*http.Response, error) {
	target := c.baseURL + route
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, route, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var errorResponse api.ErrorResponse
	if err := json.Unmarshal(body, &errorResponse); err != nil || errorResponse.Error == "" {
		return fmt.Errorf("master returned %s", resp.Status)
	}
	return errors.New(errorResponse.Error)
}
