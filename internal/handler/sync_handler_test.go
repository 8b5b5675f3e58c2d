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

	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type fakeSyncSrv struct {
	uploadErr   error
	rows        []map[string]interface{}
	cached      bool
	downloadErr error
	removeErr   error
	lastTable   string
	lastRows    []map[string]interface{}
	lastOwner   *int64
	removedID   int64
}

func (f *fakeSyncSrv) Upload(_ context.Context, tabla string, rows []map[string]interface{}) error {
	f.lastTable = tabla
	f.lastRows = rows
	return f.uploadErr
}

func (f *fakeSyncSrv) Download(_ context.Context, tabla string, ownerID *int64) ([]map[string]interface{}, bool, error) {
	f.lastTable = tabla
	f.lastOwner = ownerID
	return f.rows, f.cached, f.downloadErr
}

func (f *fakeSyncSrv) Remove(_ context.Context, tabla string, id int64) error {
	f.lastTable = tabla
	f.removedID = id
	return f.removeErr
}

func TestSyncHandlerUploadSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSyncSrv{}
	handler := NewSyncHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/sync/cursos", []map[string]interface{}{{"id": 1, "nombre_curso": "Mate"}})
	c.Params = gin.Params{{Key: "tabla", Value: "cursos"}}

	handler.Upload(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cursos", srv.lastTable)
	assert.Len(t, srv.lastRows, 1)
	assert.Contains(t, rec.Body.String(), "Sincronización completada para cursos.")
}

func TestSyncHandlerUploadRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSyncHandler(&fakeSyncSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/sync/cursos", bytes.NewBufferString(`{"not":"an array"}`))
	c.Params = gin.Params{{Key: "tabla", Value: "cursos"}}

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncHandlerUploadPropagatesServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSyncHandler(&fakeSyncSrv{uploadErr: appErrors.ErrUnknownTable})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/sync/nope", []map[string]interface{}{{"id": 1}})
	c.Params = gin.Params{{Key: "tabla", Value: "nope"}}

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "UNKNOWN_TABLE", envelope.Error.Code)
	assert.Equal(t, "Tabla no permitida.", envelope.Error.Message)
}

func TestSyncHandlerDownloadAllRows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSyncSrv{rows: []map[string]interface{}{{"id": float64(1)}, {"id": float64(2)}}}
	handler := NewSyncHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/escuelas", nil)
	c.Params = gin.Params{{Key: "tabla", Value: "escuelas"}}

	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.lastOwner)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2), envelope.Meta["count"])
	assert.Equal(t, false, envelope.Meta["cached"])
}

func TestSyncHandlerDownloadScopedToOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSyncSrv{cached: true}
	handler := NewSyncHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/cursos/7", nil)
	c.Params = gin.Params{{Key: "tabla", Value: "cursos"}, {Key: "userId", Value: "7"}}

	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastOwner)
	assert.Equal(t, int64(7), *srv.lastOwner)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cached"])
	// A scoped table with no rows still yields an empty array, not null.
	assert.Equal(t, "[]", string(envelope.Data))
}

func TestSyncHandlerDownloadRejectsBadOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSyncHandler(&fakeSyncSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/cursos/abc", nil)
	c.Params = gin.Params{{Key: "tabla", Value: "cursos"}, {Key: "userId", Value: "abc"}}

	handler.Download(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSyncSrv{}
	handler := NewSyncHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/sync/cursos/9", nil)
	c.Params = gin.Params{{Key: "tabla", Value: "cursos"}, {Key: "id", Value: "9"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(9), srv.removedID)
}

func TestSyncHandlerDeleteRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSyncHandler(&fakeSyncSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/sync/cursos/abc", nil)
	c.Params = gin.Params{{Key: "tabla", Value: "cursos"}, {Key: "id", Value: "abc"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
