// Package wire issues the single remote call shape the table API supports: a
// POST of an action verb, a properties bag and a row payload. It normalizes
// the response into a row sequence and applies the rate-limit retry policy.
package wire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"
)

// Action is the remote operation verb.
type Action string

const (
	ActionFind   Action = "Find"
	ActionAdd    Action = "Add"
	ActionEdit   Action = "Edit"
	ActionDelete Action = "Delete"
)

// Row is one remote row as decoded from a response body. Cell values arrive
// as arbitrary JSON scalars; the conversion layer stringifies them.
type Row = map[string]any

// Doer is the injected HTTP capability. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrEmptyResponse reports a nominally successful call that returned no body.
// It is distinct from a transport failure so callers can tell "the server
// rejected us" apart from "the server said nothing".
var ErrEmptyResponse = errors.New("sheetkit: response carried no data")

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("sheetkit: remote returned status %d", e.Code)
	}
	return fmt.Sprintf("sheetkit: remote returned status %d: %s", e.Code, body)
}

// RateLimited reports whether the error is the retryable 429 class.
func (e *StatusError) RateLimited() bool { return e.Code == http.StatusTooManyRequests }

// Config carries connection-level settings for endpoint construction and the
// default properties merged into every call.
type Config struct {
	BaseURL      string
	AppID        string
	AccessKey    string
	Locale       string
	Timezone     string
	UserSettings map[string]string
}

// Dispatcher sends Action calls with bounded linear-backoff retry on
// rate-limit responses. It holds no per-call state; concurrent calls are
// independent.
type Dispatcher struct {
	doer       Doer
	log        hclog.Logger
	maxRetries uint64
	retryDelay time.Duration
}

// NewDispatcher wires the injected HTTP capability with the retry policy.
// A nil doer falls back to http.DefaultClient, a nil logger to a null logger.
func NewDispatcher(doer Doer, log hclog.Logger, maxRetries int, retryDelay time.Duration) *Dispatcher {
	if doer == nil {
		doer = http.DefaultClient
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Dispatcher{doer: doer, log: log, maxRetries: uint64(maxRetries), retryDelay: retryDelay}
}

type actionBody struct {
	Action     Action         `json:"Action"`
	Properties map[string]any `json:"Properties"`
	Rows       []Row          `json:"Rows"`
}

// Call issues one Action POST and returns the normalized row sequence.
//
// Classification: a 429 is retried with linear backoff while budget remains;
// every other failure (transport error, other HTTP status, undecodable or
// empty body) propagates immediately. An empty body on a successful response
// is ErrEmptyResponse.
func (d *Dispatcher) Call(ctx context.Context, cfg Config, table string, action Action, props map[string]any, rows []Row) ([]Row, error) {
	endpoint := fmt.Sprintf("%s/api/v2/apps/%s/tables/%s/Action?applicationAccessKey=%s",
		strings.TrimSuffix(cfg.BaseURL, "/"),
		url.PathEscape(cfg.AppID),
		url.PathEscape(table),
		url.QueryEscape(cfg.AccessKey))

	if rows == nil {
		rows = []Row{}
	}
	payload, err := json.Marshal(actionBody{
		Action:     action,
		Properties: mergeProperties(cfg, props),
		Rows:       rows,
	})
	if err != nil {
		return nil, fmt.Errorf("sheetkit: encode request: %w", err)
	}

	d.log.Debug("dispatching action", "table", table, "action", action, "rows", len(rows))

	attempt := func() ([]Row, error) {
		return d.once(ctx, endpoint, payload)
	}
	notify := func(err error, wait time.Duration) {
		d.log.Debug("rate limited, backing off", "table", table, "action", action, "wait", wait, "error", err)
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(&linearBackOff{delay: d.retryDelay}, d.maxRetries), ctx)
	return backoff.RetryNotifyWithData(attempt, bo, notify)
}

// once performs a single attempt. Only rate-limit responses come back as
// retryable errors; everything else is marked permanent.
func (d *Dispatcher) once(ctx context.Context, endpoint string, payload []byte) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.doer.Do(req)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, backoff.Permanent(&StatusError{Code: resp.StatusCode, Body: string(data)})
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, backoff.Permanent(ErrEmptyResponse)
	}
	rows, err := normalizeRows(data)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return rows, nil
}

func mergeProperties(cfg Config, props map[string]any) map[string]any {
	out := map[string]any{
		"Locale":   cfg.Locale,
		"Timezone": cfg.Timezone,
	}
	if len(cfg.UserSettings) > 0 {
		out["UserSettings"] = cfg.UserSettings
	}
	for k, v := range props {
		out[k] = v
	}
	return out
}

// normalizeRows accepts the three response shapes the remote emits: an
// envelope carrying a Rows array, a bare array, or a bare single object.
func normalizeRows(data []byte) ([]Row, error) {
	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("sheetkit: decode response: %w", err)
	}
	switch t := body.(type) {
	case map[string]any:
		if inner, ok := t["Rows"].([]any); ok {
			return rowsFromList(inner), nil
		}
		return []Row{t}, nil
	case []any:
		return rowsFromList(t), nil
	}
	return nil, fmt.Errorf("sheetkit: unexpected response shape %T", body)
}

func rowsFromList(list []any) []Row {
	rows := make([]Row, 0, len(list))
	for _, item := range list {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
