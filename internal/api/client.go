// Package api is a thin client for the Jato backend. It only translates
// between the backend's HTTP/JSON contract and the model types; token
// storage and refresh are left to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kallinyester/jato/internal/logger"
	"github.com/kallinyester/jato/internal/model"
)

// Client talks to the backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Named("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend URL the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call
type request struct {
	op          string
	message     string
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	fail := func(status int, detail string, cause error) error {
		apiErr := &Error{Op: r.op, Message: r.message, StatusCode: status, Detail: detail, Err: cause}
		c.log.Warn("Backend call failed",
			logger.F("op", r.op),
			logger.F("method", r.method),
			logger.F("path", r.path),
			logger.F("error", apiErr.Describe()))
		return apiErr
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fail(0, "", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, "", fmt.Errorf("failed to connect: %w", err))
	}
	defer resp.Body.Close()

	c.log.Debug("Backend call",
		logger.F("op", r.op),
		logger.F("method", r.method),
		logger.F("path", r.path),
		logger.F("status", resp.StatusCode),
		logger.F("duration", time.Since(start).String()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		var eb errorBody
		detail := ""
		if json.Unmarshal(respBody, &eb) == nil {
			detail = eb.text()
		}
		if detail == "" {
			detail = strings.TrimSpace(string(respBody))
		}
		return fail(resp.StatusCode, detail, nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// Login exchanges email and password for a session token
func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var s model.Session
	err := c.do(ctx, request{
		op:          "login",
		message:     MsgLogin,
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &s)
	return s, err
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, name, email, password string) (model.Account, error) {
	var a model.Account
	body, err := jsonBody(map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return a, &Error{Op: "register", Message: MsgRegister, Err: err}
	}

	err = c.do(ctx, request{
		op:          "register",
		message:     MsgRegister,
		method:      http.MethodPost,
		path:        "/auth/register",
		body:        body,
		contentType: "application/json",
	}, &a)
	return a, err
}

// Me returns the account that owns token
func (c *Client) Me(ctx context.Context, token string) (model.Account, error) {
	var a model.Account
	err := c.do(ctx, request{
		op:      "me",
		message: MsgMe,
		method:  http.MethodGet,
		path:    "/auth/me",
		token:   token,
	}, &a)
	return a, err
}

// FetchProjects lists projects matching filter
func (c *Client) FetchProjects(ctx context.Context, token string, filter ProjectFilter) ([]model.Project, error) {
	path := "/projects/"
	if q := filter.Values().Encode(); q != "" {
		path += "?" + q
	}

	var wire []wireProject
	if err := c.do(ctx, request{
		op:      "fetch_projects",
		message: MsgFetchProjects,
		method:  http.MethodGet,
		path:    path,
		token:   token,
	}, &wire); err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, len(wire))
	for _, w := range wire {
		projects = append(projects, w.toModel())
	}
	return projects, nil
}

// CreateProject persists a new project and returns it with its server ID
func (c *Client) CreateProject(ctx context.Context, token string, d model.Draft) (model.Project, error) {
	body, err := jsonBody(createBody(d))
	if err != nil {
		return model.Project{}, &Error{Op: "create_project", Message: MsgCreateProject, Err: err}
	}

	var w wireProject
	if err := c.do(ctx, request{
		op:          "create_project",
		message:     MsgCreateProject,
		method:      http.MethodPost,
		path:        "/projects/",
		token:       token,
		body:        body,
		contentType: "application/json",
	}, &w); err != nil {
		return model.Project{}, err
	}
	return w.toModel(), nil
}

// UpdateProject sends the set fields of u and returns the updated project
func (c *Client) UpdateProject(ctx context.Context, token, id string, u model.ProjectUpdate) (model.Project, error) {
	body, err := jsonBody(updateBody(u))
	if err != nil {
		return model.Project{}, &Error{Op: "update_project", Message: MsgUpdateProject, Err: err}
	}

	var w wireProject
	if err := c.do(ctx, request{
		op:          "update_project",
		message:     MsgUpdateProject,
		method:      http.MethodPut,
		path:        "/projects/" + url.PathEscape(id),
		token:       token,
		body:        body,
		contentType: "application/json",
	}, &w); err != nil {
		return model.Project{}, err
	}
	return w.toModel(), nil
}

// DeleteProject removes a project. The backend acknowledges with the deleted record.
func (c *Client) DeleteProject(ctx context.Context, token, id string) (model.Project, error) {
	var w wireProject
	if err := c.do(ctx, request{
		op:      "delete_project",
		message: MsgDeleteProject,
		method:  http.MethodDelete,
		path:    "/projects/" + url.PathEscape(id),
		token:   token,
	}, &w); err != nil {
		return model.Project{}, err
	}
	return w.toModel(), nil
}

// FetchDashboardMetrics returns the backend's dashboard summary
func (c *Client) FetchDashboardMetrics(ctx context.Context, token string) (model.Metrics, error) {
	var m model.Metrics
	err := c.do(ctx, request{
		op:      "fetch_metrics",
		message: MsgFetchMetrics,
		method:  http.MethodGet,
		path:    "/dashboard/metrics",
		token:   token,
	}, &m)
	return m, err
}

// FetchDashboardAlerts returns upcoming and overdue deadline alerts
func (c *Client) FetchDashboardAlerts(ctx context.Context, token string) ([]model.Alert, error) {
	var alerts []model.Alert
	err := c.do(ctx, request{
		op:      "fetch_alerts",
		message: MsgFetchAlerts,
		method:  http.MethodGet,
		path:    "/dashboard/alerts",
		token:   token,
	}, &alerts)
	return alerts, err
}

// ProjectFilter narrows FetchProjects. Zero-valued fields are not sent.
type ProjectFilter struct {
	Stage      model.Stage
	Priority   model.Priority
	Client     string
	Name       string
	Technology string
	Skip       int
	Limit      int
}

// Values encodes the set fields as query parameters
func (f ProjectFilter) Values() url.Values {
	v := url.Values{}
	if f.Stage != "" && f.Stage != model.StageAll {
		v.Set("stage", encodeStage(f.Stage))
	}
	if f.Priority != "" {
		v.Set("priority", encodePriority(f.Priority))
	}
	if f.Client != "" {
		v.Set("client", f.Client)
	}
	if f.Name != "" {
		v.Set("name", f.Name)
	}
	if f.Technology != "" {
		v.Set("technology", f.Technology)
	}
	if f.Skip > 0 {
		v.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}
