package api

import (
	"context"

	"github.com/kallinyester/jato/internal/model"
)

// Authed binds a Client to one bearer token so it can back the project board
type Authed struct {
	client *Client
	token  string
}

// WithToken returns the client bound to token
func (c *Client) WithToken(token string) *Authed {
	return &Authed{client: c, token: token}
}

// ListPageSize is how many projects ListProjects requests per page. The
// backend caps an unpaged listing at this size.
const ListPageSize = 100

// ListProjects fetches every project in stage, or all of them for
// model.StageAll, one page at a time until a short page comes back
func (a *Authed) ListProjects(ctx context.Context, stage model.Stage) ([]model.Project, error) {
	var all []model.Project
	for skip := 0; ; skip += ListPageSize {
		page, err := a.client.FetchProjects(ctx, a.token, ProjectFilter{Stage: stage, Skip: skip, Limit: ListPageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < ListPageSize {
			return all, nil
		}
	}
}

// CreateProject persists a draft
func (a *Authed) CreateProject(ctx context.Context, d model.Draft) (model.Project, error) {
	return a.client.CreateProject(ctx, a.token, d)
}

// UpdateProject persists a partial update
func (a *Authed) UpdateProject(ctx context.Context, id string, u model.ProjectUpdate) (model.Project, error) {
	return a.client.UpdateProject(ctx, a.token, id, u)
}

// DeleteProject removes a project
func (a *Authed) DeleteProject(ctx context.Context, id string) error {
	_, err := a.client.DeleteProject(ctx, a.token, id)
	return err
}

// Metrics fetches the dashboard metrics
func (a *Authed) Metrics(ctx context.Context) (model.Metrics, error) {
	return a.client.FetchDashboardMetrics(ctx, a.token)
}

// Alerts fetches the dashboard alerts
func (a *Authed) Alerts(ctx context.Context) ([]model.Alert, error) {
	return a.client.FetchDashboardAlerts(ctx, a.token)
}
