// Package restapi implements service.Service against the tasks REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"taskdemo/internal/config"
	"taskdemo/internal/logging"
	"taskdemo/internal/service"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

var errTimeout = errors.New("request timed out")

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	schemas    *schemas
}

// Options configures NewWithHTTPClient.
type Options struct {
	// Timeout bounds each call. Zero disables it.
	Timeout time.Duration
	Logger  *slog.Logger
}

// New creates a client from configuration, including bearer or client-credentials auth.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	return NewWithHTTPClient(cfg.APIBaseURL, authClient(ctx, cfg), Options{
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, opts Options) (*Client, error) {
	s, err := compileSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile response schemas: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    opts.Timeout,
		logger:     logging.OrDiscard(opts.Logger).With("component", "restapi"),
		schemas:    s,
	}, nil
}

// Health implements service.Service.
func (c *Client) Health(ctx context.Context) (service.Health, error) {
	var h service.Health
	err := c.do(ctx, call{op: "health check", method: http.MethodGet, path: "/api/health"}, &h)
	return h, err
}

// ListClients implements service.Service.
func (c *Client) ListClients(ctx context.Context) ([]service.Client, error) {
	var clients []service.Client
	err := c.do(ctx, call{
		op:     "list clients",
		method: http.MethodGet,
		path:   "/api/clients",
		schema: c.schemas.clients,
	}, &clients)
	if err != nil {
		return nil, err
	}
	return clients, nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, params service.ListTasksParams) (service.TaskPage, error) {
	q := url.Values{}
	q.Set("client_id", params.ClientID)
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Cursor != "" {
		q.Set("cursor", params.Cursor)
	}
	if s := params.Filter.Status(); s != "" {
		q.Set("status", string(s))
	}

	var page service.TaskPage
	err := c.do(ctx, call{
		op:     "list tasks",
		method: http.MethodGet,
		path:   "/api/tasks",
		query:  q,
		schema: c.schemas.page,
	}, &page)
	if err != nil {
		return service.TaskPage{}, err
	}
	return page, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, req service.CreateTaskRequest) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, call{
		op:     "create task",
		method: http.MethodPost,
		path:   "/api/tasks",
		body:   req,
		schema: c.schemas.task,
	}, &task)
	return task, err
}

// GetTask implements service.Service.
func (c *Client) GetTask(ctx context.Context, taskID string) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, call{
		op:     "get task",
		method: http.MethodGet,
		path:   "/api/tasks/" + url.PathEscape(taskID),
		schema: c.schemas.task,
	}, &task)
	return task, err
}

// UpdateTaskStatus implements service.Service.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID string, status service.Status) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, call{
		op:     "update task status",
		method: http.MethodPatch,
		path:   "/api/tasks/" + url.PathEscape(taskID) + "/status",
		body:   service.UpdateTaskStatusRequest{Status: status},
		schema: c.schemas.task,
	}, &task)
	return task, err
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, call{
		op:     "delete task",
		method: http.MethodDelete,
		path:   "/api/tasks/" + url.PathEscape(taskID),
	}, nil)
}

// OverdueCounts implements service.Service.
func (c *Client) OverdueCounts(ctx context.Context) ([]service.OverdueCount, error) {
	var counts []service.OverdueCount
	err := c.do(ctx, call{
		op:     "overdue count",
		method: http.MethodGet,
		path:   "/api/tasks/overdue-count",
		schema: c.schemas.overdue,
	}, &counts)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	schema *jsonschema.Schema
}

// do performs one request. Transport and decode failures become *service.RequestError,
// non-2xx responses become *service.APIError. out may be nil to ignore the body.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return &service.RequestError{Op: cl.op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return &service.RequestError{Op: cl.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With("op", cl.op, "method", cl.method, "url", target)
	log.Debug("sending request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = transportError(ctx, err)
		log.Debug("request failed", "error", err)
		return &service.RequestError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &service.RequestError{Op: cl.op, Err: fmt.Errorf("read response: %w", transportError(ctx, err))}
	}
	log.Debug("received response", "status", resp.StatusCode, "bytes", len(data), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &service.APIError{Op: cl.op, StatusCode: resp.StatusCode, Detail: parseDetail(data)}
	}
	if out == nil {
		return nil
	}

	if cl.schema != nil {
		if err := validate(cl.schema, data); err != nil {
			log.Warn("response violates contract", "error", err)
			return &service.RequestError{Op: cl.op, Err: err}
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &service.RequestError{Op: cl.op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// transportError replaces timeouts with a short message and keeps cancellation
// recognisable with errors.Is.
func transportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return errTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return ctx.Err()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
