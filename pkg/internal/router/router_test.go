package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/patchvault/pkg/configs"
	"github.com/yeisme/patchvault/pkg/internal/model"
	"github.com/yeisme/patchvault/pkg/internal/storage"
	dbc "github.com/yeisme/patchvault/pkg/internal/storage/db"
	"github.com/yeisme/patchvault/pkg/middleware"
)

// newTestEngine 构造挂好存储注入与全部路由的引擎，零值配置即公开访问.
func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatal(err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&model.GameVersion{},
		&model.GameFile{},
		&model.UpdatePackage{},
		&model.LauncherBuild{},
		&model.NewsMessage{},
		&model.Device{},
		&model.DownloadLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mgr := &storage.Manager{DB: &dbc.Client{DB: gdb}}

	e := gin.New()
	e.Use(middleware.StorageMiddleware(mgr))
	Register(e, &configs.AppConfig{})

	return e
}

func TestPublicStatsRoute(t *testing.T) {
	e := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/stats = %d, want 200", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode stats body: %v", err)
	}

	for _, key := range []string{"total", "success_rate", "downloads_by_type", "unique_ips"} {
		if _, ok := body[key]; !ok {
			t.Errorf("stats body missing %q: %v", key, body)
		}
	}
}

func TestDeviceCheckRoute(t *testing.T) {
	e := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/device_check",
		strings.NewReader(`{"hwid":"hw-route"}`))
	req.Header.Set("Content-Type", "application/json")
	e.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/device_check = %d, want 200", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode device check body: %v", err)
	}

	if body["status"] != "registered" {
		t.Errorf("status = %v, want registered", body["status"])
	}

	if banned, ok := body["is_banned"].(bool); !ok || banned {
		t.Errorf("is_banned = %v, want false", body["is_banned"])
	}

	if id, _ := body["device_id"].(string); id == "" {
		t.Errorf("device_id missing: %v", body)
	}

	if newly, ok := body["newly_registered"].(bool); !ok || !newly {
		t.Errorf("newly_registered = %v, want true", body["newly_registered"])
	}
}
