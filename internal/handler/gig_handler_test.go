package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/middleware"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

type gigServiceMock struct {
	created     dto.CreateGigRequest
	gig         *models.Gig
	detail      *dto.GigDetail
	list        []models.GigSummary
	filter      models.GigFilter
	section     string
	payload     json.RawMessage
	report      *dto.NormalizeReport
	err         error
	deletedID   string
	publishedID string
}

func (m *gigServiceMock) Create(ctx context.Context, req dto.CreateGigRequest) (*models.Gig, error) {
	m.created = req
	return m.gig, m.err
}

func (m *gigServiceMock) Detail(ctx context.Context, id string) (*dto.GigDetail, error) {
	return m.detail, m.err
}

func (m *gigServiceMock) List(ctx context.Context, filter models.GigFilter) ([]models.GigSummary, *models.Pagination, error) {
	m.filter = filter
	return m.list, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(m.list)}, m.err
}

func (m *gigServiceMock) UpdateSection(ctx context.Context, id, section string, payload json.RawMessage) (*models.Gig, error) {
	m.section = section
	m.payload = payload
	return m.gig, m.err
}

func (m *gigServiceMock) Delete(ctx context.Context, id string) error {
	m.deletedID = id
	return m.err
}

func (m *gigServiceMock) Publish(ctx context.Context, id string) (*models.Gig, error) {
	m.publishedID = id
	return m.gig, m.err
}

func (m *gigServiceMock) NormalizeDrafts(ctx context.Context) (*dto.NormalizeReport, error) {
	return m.report, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestGigHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &gigServiceMock{gig: &models.Gig{ID: "gig-1", Status: models.GigStatusDraft}}
	handler := NewGigHandler(svc)

	c, w := newGinContext(http.MethodPost, "/gigs", []byte(`{"basicInfo":{"title":"Inbound agents"}}`))
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Inbound agents", svc.created.BasicInfo.Title)
}

func TestGigHandlerCreateWithoutBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &gigServiceMock{gig: &models.Gig{ID: "gig-1"}}

	c, w := newGinContext(http.MethodPost, "/gigs", nil)
	NewGigHandler(svc).Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestGigHandlerCreateInvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, w := newGinContext(http.MethodPost, "/gigs", []byte(`{"basicInfo":`))
	NewGigHandler(&gigServiceMock{}).Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, w).Error.Code)
}

func TestGigHandlerListParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &gigServiceMock{list: []models.GigSummary{{ID: "gig-1"}}}

	c, w := newGinContext(http.MethodGet, "/gigs?status=draft&page=2&page_size=5&sort_by=title&sort_order=asc&search=sales", nil)
	NewGigHandler(svc).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.GigFilter{Status: "draft", Search: "sales", Page: 2, PageSize: 5, SortBy: "title", SortOrder: "asc"}, svc.filter)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
}

func TestGigHandlerGetSetsCatalogMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &gigServiceMock{detail: &dto.GigDetail{Gig: &models.Gig{ID: "gig-1"}, CatalogsLoaded: false}}

	c, w := newGinContext(http.MethodGet, "/gigs/gig-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "gig-1"}}
	middleware.WithResponseMeta()(c)
	NewGigHandler(svc).Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, false, env.Meta["catalogs_loaded"])
}

func TestGigHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &gigServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "gig not found")}

	c, w := newGinContext(http.MethodGet, "/gigs/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	NewGigHandler(svc).Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGigHandlerUpdateSectionPassesRawBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &gigServiceMock{gig: &models.Gig{ID: "gig-1"}}
	body := []byte(`{"currency":"EUR","base":"Fixed"}`)

	c, w := newGinContext(http.MethodPut, "/gigs/gig-1/sections/commission", body)
	c.Params = gin.Params{{Key: "id", Value: "gig-1"}, {Key: "section", Value: "commission"}}
	NewGigHandler(svc).UpdateSection(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "commission", svc.section)
	assert.JSONEq(t, string(body), string(svc.payload))
}

func TestGigHandlerUpdatePublishedGigConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &gigServiceMock{err: appErrors.ErrGigPublished}

	c, w := newGinContext(http.MethodPut, "/gigs/gig-1/sections/team", []byte(`{"size":3}`))
	c.Params = gin.Params{{Key: "id", Value: "gig-1"}, {Key: "section", Value: "team"}}
	NewGigHandler(svc).UpdateSection(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "GIG_PUBLISHED", decodeEnvelope(t, w).Error.Code)
}

func TestGigHandlerDeleteAndPublish(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &gigServiceMock{gig: &models.Gig{ID: "gig-1", Status: models.GigStatusPublished}}
	handler := NewGigHandler(svc)

	c, w := newGinContext(http.MethodPost, "/gigs/gig-1/publish", nil)
	c.Params = gin.Params{{Key: "id", Value: "gig-1"}}
	handler.Publish(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gig-1", svc.publishedID)

	c, w = newGinContext(http.MethodDelete, "/gigs/gig-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "gig-1"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "gig-1", svc.deletedID)
}

func TestGigHandlerNormalizeDraftsUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &gigServiceMock{err: appErrors.Clone(appErrors.ErrUnavailable, "catalogs not loaded")}

	c, w := newGinContext(http.MethodPost, "/gigs/normalize", nil)
	NewGigHandler(svc).NormalizeDrafts(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
