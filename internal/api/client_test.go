package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/kallinyester/jato/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "secret-token"

// fakeBackend mimics the backend contract with an in-memory project table
type fakeBackend struct {
	mu       sync.Mutex
	nextID   int
	projects map[string]map[string]interface{}

	lastQuery string
	lastBody  map[string]interface{}
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{nextID: 1, projects: make(map[string]map[string]interface{})}

	e := echo.New()
	e.HideBanner = true

	e.POST("/auth/login", func(c echo.Context) error {
		if c.Request().Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "form expected"})
		}
		if c.FormValue("username") != "ana@agency.dev" || c.FormValue("password") != "pw" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Credenciais inválidas"})
		}
		return c.JSON(http.StatusOK, map[string]string{"access_token": testToken, "token_type": "bearer"})
	})

	e.POST("/auth/register", func(c echo.Context) error {
		var body map[string]string
		if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		}
		if body["email"] == "taken@agency.dev" {
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Email já cadastrado"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"id": 7, "name": body["name"], "email": body["email"], "role": "user", "is_active": true,
		})
	})

	e.GET("/auth/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"id": 7, "name": "Ana", "email": "ana@agency.dev", "role": "user", "is_active": true})
	}, fb.auth)
	e.GET("/projects/", fb.list, fb.auth)
	e.POST("/projects/", fb.create, fb.auth)
	e.PUT("/projects/:id", fb.update, fb.auth)
	e.DELETE("/projects/:id", fb.remove, fb.auth)
	e.GET("/dashboard/metrics", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"total": 3, "em_desenvolvimento": 1, "em_producao": 1,
			"progresso_medio": 55.5, "atrasados": 1, "finalizados_mes": 0,
		})
	}, fb.auth)
	e.GET("/dashboard/alerts", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []map[string]string{
			{"type": "warning", "message": "Projeto 'CRM' com prazo próximo"},
			{"type": "error", "message": "Projeto 'App' está atrasado!"},
		})
	}, fb.auth)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if strings.TrimPrefix(auth, "Bearer ") != testToken {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		}
		return next(c)
	}
}

func (fb *fakeBackend) readBody(c echo.Context) (map[string]interface{}, error) {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	fb.lastBody = body
	return body, nil
}

func (fb *fakeBackend) list(c echo.Context) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.lastQuery = c.Request().URL.RawQuery

	skip, limit := 0, 100
	if v := c.QueryParam("skip"); v != "" {
		skip, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	stage := c.QueryParam("stage")
	matched := []map[string]interface{}{}
	for i := 1; i < fb.nextID; i++ {
		p, ok := fb.projects[strconv.Itoa(i)]
		if !ok {
			continue
		}
		if stage != "" && p["stage"] != stage {
			continue
		}
		matched = append(matched, p)
	}
	if skip > len(matched) {
		skip = len(matched)
	}
	end := min(skip+limit, len(matched))
	return c.JSON(http.StatusOK, matched[skip:end])
}

func (fb *fakeBackend) create(c echo.Context) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	body, err := fb.readBody(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
	}
	id := fb.nextID
	fb.nextID++
	body["id"] = id
	fb.projects[strconv.Itoa(id)] = body
	return c.JSON(http.StatusOK, body)
}

func (fb *fakeBackend) update(c echo.Context) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	p, ok := fb.projects[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Projeto não encontrado"})
	}
	body, err := fb.readBody(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
	}
	for k, v := range body {
		p[k] = v
	}
	return c.JSON(http.StatusOK, p)
}

func (fb *fakeBackend) remove(c echo.Context) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	p, ok := fb.projects[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Projeto não encontrado"})
	}
	delete(fb.projects, c.Param("id"))
	return c.JSON(http.StatusOK, p)
}

// seed stores n projects with IDs 1..n
func (fb *fakeBackend) seed(n int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i := 0; i < n; i++ {
		id := fb.nextID
		fb.nextID++
		fb.projects[strconv.Itoa(id)] = map[string]interface{}{
			"id": id, "name": fmt.Sprintf("Project %d", id), "client": "Acme",
			"stage": "desenvolvimento", "priority": "media", "progress": 10,
		}
	}
}

func testDraft() model.Draft {
	return model.Draft{
		Name:        "Sistema CRM",
		Client:      "VendaMais Corp",
		Description: "Customer relationship management",
		Languages:   []string{"Vue.js", "Python"},
		Stage:       model.StagePlanning,
		Priority:    model.PriorityMedium,
		StartDate:   "2026-02-01",
		Deadline:    "2026-05-30",
	}
}

func TestLogin(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := NewClient(srv.URL)

	s, err := c.Login(context.Background(), "ana@agency.dev", "pw")
	require.NoError(t, err)
	assert.Equal(t, testToken, s.AccessToken)
	assert.Equal(t, "bearer", s.TokenType)
}

func TestLoginFailureHasFixedMessage(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := NewClient(srv.URL)

	_, err := c.Login(context.Background(), "ana@agency.dev", "wrong")
	require.Error(t, err)
	assert.Equal(t, MsgLogin, err.Error())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Credenciais inválidas", apiErr.Detail)
}

func TestRegister(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := NewClient(srv.URL)

	a, err := c.Register(context.Background(), "Ana", "ana@agency.dev", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, "Ana", a.Name)
	assert.True(t, a.IsActive)

	_, err = c.Register(context.Background(), "Bob", "taken@agency.dev", "pw")
	require.Error(t, err)
	assert.Equal(t, MsgRegister, err.Error())
}

func TestMe(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := NewClient(srv.URL)

	a, err := c.Me(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@agency.dev", a.Email)

	_, err = c.Me(context.Background(), "bad")
	assert.EqualError(t, err, MsgMe)
}

func TestProjectCRUD(t *testing.T) {
	fb, srv := newFakeBackend(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	created, err := c.CreateProject(ctx, testToken, testDraft())
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)
	assert.Equal(t, model.StagePlanning, created.Stage)
	assert.Equal(t, model.PriorityMedium, created.Priority)
	assert.Equal(t, []string{"Vue.js", "Python"}, created.Languages)
	assert.Equal(t, 0, created.Progress)
	assert.Equal(t, "planejamento", fb.lastBody["stage"])
	assert.Equal(t, "media", fb.lastBody["priority"])

	progress := 65
	updated, err := c.UpdateProject(ctx, testToken, created.ID, model.ProjectUpdate{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 65, updated.Progress)
	assert.Equal(t, "Sistema CRM", updated.Name)
	assert.Equal(t, map[string]interface{}{"progress": float64(65)}, fb.lastBody, "only set fields are sent")

	acked, err := c.DeleteProject(ctx, testToken, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, acked.ID)

	_, err = c.DeleteProject(ctx, testToken, created.ID)
	require.Error(t, err)
	assert.Equal(t, MsgDeleteProject, err.Error())

	_, err = c.UpdateProject(ctx, testToken, "404", model.ProjectUpdate{Progress: &progress})
	assert.EqualError(t, err, MsgUpdateProject)
}

func TestFetchProjectsOmitsUnsetFilters(t *testing.T) {
	fb, srv := newFakeBackend(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.CreateProject(ctx, testToken, testDraft())
	require.NoError(t, err)
	dev := testDraft()
	dev.Stage = model.StageDevelopment
	_, err = c.CreateProject(ctx, testToken, dev)
	require.NoError(t, err)

	all, err := c.FetchProjects(ctx, testToken, ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Empty(t, fb.lastQuery)

	onlyDev, err := c.FetchProjects(ctx, testToken, ProjectFilter{Stage: model.StageDevelopment, Limit: 10})
	require.NoError(t, err)
	require.Len(t, onlyDev, 1)
	assert.Equal(t, model.StageDevelopment, onlyDev[0].Stage)
	assert.Equal(t, "limit=10&stage=desenvolvimento", fb.lastQuery)

	_, err = c.FetchProjects(ctx, testToken, ProjectFilter{Stage: model.StageAll})
	require.NoError(t, err)
	assert.Empty(t, fb.lastQuery)
}

func TestFetchProjectsUnauthorized(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := NewClient(srv.URL)

	_, err := c.FetchProjects(context.Background(), "nope", ProjectFilter{})
	require.Error(t, err)
	assert.Equal(t, MsgFetchProjects, err.Error())
}

func TestDashboard(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	m, err := c.FetchDashboardMetrics(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Total)
	assert.Equal(t, 1, m.InDevelopment)
	assert.InDelta(t, 55.5, m.AverageProgress, 0.001)

	alerts, err := c.FetchDashboardAlerts(ctx, testToken)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, model.NotifyWarning, alerts[0].Type)
	assert.Equal(t, model.NotifyError, alerts[1].Type)

	_, err = c.FetchDashboardMetrics(ctx, "")
	assert.EqualError(t, err, MsgFetchMetrics)
	_, err = c.FetchDashboardAlerts(ctx, "")
	assert.EqualError(t, err, MsgFetchAlerts)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url)
	_, err := c.FetchProjects(context.Background(), testToken, ProjectFilter{})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, MsgFetchProjects, apiErr.Error())
	assert.NotNil(t, apiErr.Unwrap())
}

func TestDecodeLegacyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 42, "name": "App", "client": "FoodFast", "description": null,
			"stage": "testes", "progress": 84.6, "priority": "alta",
			"start_date": "2025-12-01", "deadline": "2026-02-15", "technologies": "React Native,Firebase"}]`))
	}))
	defer srv.Close()

	projects, err := NewClient(srv.URL).FetchProjects(context.Background(), testToken, ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, "42", p.ID)
	assert.Equal(t, model.StageTesting, p.Stage)
	assert.Equal(t, model.PriorityHigh, p.Priority)
	assert.Equal(t, 85, p.Progress)
	assert.Equal(t, []string{"React Native", "Firebase"}, p.Languages)
	assert.Empty(t, p.Description)
}

func TestAuthedBinding(t *testing.T) {
	_, srv := newFakeBackend(t)
	b := NewClient(srv.URL).WithToken(testToken)
	ctx := context.Background()

	p, err := b.CreateProject(ctx, testDraft())
	require.NoError(t, err)

	list, err := b.ListProjects(ctx, model.StageAll)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, b.DeleteProject(ctx, p.ID))
	list, err = b.ListProjects(ctx, model.StageAll)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFetchProjectsDefaultsToOnePage(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.seed(150)

	projects, err := NewClient(srv.URL).FetchProjects(context.Background(), testToken, ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, projects, 100)
}

func TestAuthedListProjectsReadsEveryPage(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.seed(2*ListPageSize + 30)
	b := NewClient(srv.URL).WithToken(testToken)

	projects, err := b.ListProjects(context.Background(), model.StageAll)
	require.NoError(t, err)
	require.Len(t, projects, 2*ListPageSize+30)
	assert.Equal(t, "1", projects[0].ID)
	assert.Equal(t, "230", projects[len(projects)-1].ID)
	assert.Equal(t, "limit=100&skip=200", fb.lastQuery)

	// An exact multiple needs one extra, empty page
	fb2, srv2 := newFakeBackend(t)
	fb2.seed(ListPageSize)
	projects, err = NewClient(srv2.URL).WithToken(testToken).ListProjects(context.Background(), model.StageAll)
	require.NoError(t, err)
	assert.Len(t, projects, ListPageSize)
	assert.Equal(t, "limit=100&skip=100", fb2.lastQuery)
}
