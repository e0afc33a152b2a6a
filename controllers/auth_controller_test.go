package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/avivhostel-jpg/Smart-Aviv/config"
	"github.com/avivhostel-jpg/Smart-Aviv/routes"
	"github.com/avivhostel-jpg/Smart-Aviv/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cache.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&services.CacheEntry{}))

	r, serviceContainer := routes.SetupRouter(db, config.GetConfig(), nil)
	t.Cleanup(serviceContainer.Shutdown)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}, token string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getWithToken(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := postJSON(r, "/api/auth/login", gin.H{
		"name": "שרה כהן",
		"role": "מנהל",
		"code": "0001",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestLoginRejectsWrongAccessCode(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(r, "/api/auth/login", gin.H{
		"name": "שרה כהן",
		"role": "מנהל",
		"code": "0002",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	r := setupTestRouter(t)

	w := postJSON(r, "/api/auth/login", gin.H{
		"name": "שרה כהן",
		"role": "אורח",
		"code": "0001",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthenticatedRoutesRequireToken(t *testing.T) {
	r := setupTestRouter(t)

	w := getWithToken(r, "/api/houses", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAndBrowseFlow(t *testing.T) {
	r := setupTestRouter(t)
	token := loginToken(t, r)

	// 住房单元列表
	w := getWithToken(r, "/api/houses", token)
	require.Equal(t, http.StatusOK, w.Code)

	var housesResp struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &housesResp))
	assert.Len(t, housesResp.Data, 4)

	// 种子住户可见
	w = getWithToken(r, "/api/residents", token)
	require.Equal(t, http.StatusOK, w.Code)

	// 同步状态在无Redis时为本地模式
	w = getWithToken(r, "/api/health/sync", "")
	require.Equal(t, http.StatusOK, w.Code)
	var statusResp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statusResp))
	assert.Equal(t, "local", statusResp.Data.Status)
}

func TestReportLifecycleOverHTTP(t *testing.T) {
	r := setupTestRouter(t)
	token := loginToken(t, r)

	// 创建报告
	w := postJSON(r, "/api/reports", gin.H{
		"houseName": "שיקמה",
		"essence":   "שיחת תמיכה",
		"staffName": "שרה כהן",
		"staffRole": "מנהל",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "פתוח", created.Data.Status)

	// 缺少总结的结案被拒绝
	w = postJSON(r, "/api/reports/"+created.Data.ID+"/close", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 结案
	w = postJSON(r, "/api/reports/"+created.Data.ID+"/close", gin.H{
		"closureSummary": "טופל בהצלחה",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var closed struct {
		Data struct {
			Status         string `json:"status"`
			ClosureSummary string `json:"closureSummary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &closed))
	assert.Equal(t, "הושלם", closed.Data.Status)
	assert.Equal(t, "טופל בהצלחה", closed.Data.ClosureSummary)
}

func TestExportEndpoint(t *testing.T) {
	r := setupTestRouter(t)
	token := loginToken(t, r)

	w := getWithToken(r, "/api/dashboard/export?format=csv", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	// BOM前缀
	body := w.Body.Bytes()
	require.Greater(t, len(body), 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, body[:3])

	w = getWithToken(r, "/api/dashboard/export?format=bogus", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
