package products

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"snapshot-sync/core/reconcile"
	"snapshot-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *Store, *mocks.Client) {
	client := new(mocks.Client)
	svc, store, _ := setupService(t, client, reconcile.Config{Precision: -1})

	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, store, client
}

func postJSON(t *testing.T, app *fiber.App, url string, body any) (int, map[string]any) {
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHandleReconcile(t *testing.T) {
	app, store, _ := setupTestApp(t)
	seed(t, store, product(1, "Lamp", "10"), product(2, "Desk", "20"))

	status, body := postJSON(t, app, "/products/reconcile?dry_run=1", []Product{product(2, "Desk", "21")})
	require.Equal(t, fiber.StatusOK, status)

	assert.Equal(t, true, body["dry_run"])
	summary := body["result"].(map[string]any)["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["updates"])
	assert.Equal(t, float64(1), summary["deletes"])
	assert.Equal(t, "content-changed", summary["policy"])

	actions := body["plan"].(map[string]any)["actions"].([]any)
	assert.Equal(t, "delete", actions[0].(map[string]any)["type"])
}

func TestHandleReconcile_BadRequests(t *testing.T) {
	app, _, _ := setupTestApp(t)

	status, body := postJSON(t, app, "/products/reconcile", []Product{product(1, "a", "1"), product(1, "b", "1")})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "duplicate key")

	status, _ = postJSON(t, app, "/products/reconcile?policy=sometimes", []Product{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	req := httptest.NewRequest("POST", "/products/reconcile", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleReconcile_NoDatabase(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(ServiceConfig{})).RegisterRoutes(app)

	status, _ := postJSON(t, app, "/products/reconcile", []Product{})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestHandleDiff(t *testing.T) {
	app, _, _ := setupTestApp(t)

	status, body := postJSON(t, app, "/products/diff?policy=newer-wins", DiffRequest{
		Existing: []Product{product(1, "Lamp", "10")},
		Incoming: []Product{product(1, "Lamp v2", "10")},
	})
	require.Equal(t, fiber.StatusOK, status)
	// Neither side has a timestamp, so newer-wins keeps the existing product.
	assert.Empty(t, body["to_update"])
	assert.Equal(t, float64(1), body["summary"].(map[string]any)["unchanged"])
}

func TestHandleListReports(t *testing.T) {
	app, _, client := setupTestApp(t)

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "reports/run-1.json", Size: 512, LastModified: time.Now()}
	close(ch)
	client.On("ListObjects", mock.Anything, "snapshots", minio.ListObjectsOptions{Prefix: "reports/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	resp, err := app.Test(httptest.NewRequest("GET", "/products/reports", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(1), body["count"])
}

func TestFeature(t *testing.T) {
	feature := NewFeature(ServiceConfig{})

	assert.Equal(t, "products", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())
	assert.NoError(t, feature.Load(fiber.New()))
}
