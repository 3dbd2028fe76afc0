package comparison_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"location-manager/core/compare"
	"location-manager/core/planner"
	"location-manager/core/snapshot"
	"location-manager/feature/comparison"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	feeds map[string][]map[string]any
}

func (f *fakeFetcher) FetchRecords(ctx context.Context, url string) ([]map[string]any, error) {
	records, ok := f.feeds[url]
	if !ok {
		return nil, errors.New("no such feed: " + url)
	}
	return records, nil
}

func testConfig() snapshot.Config {
	return snapshot.Config{
		OlderLabel: "oct-2024",
		NewerLabel: "dec-2024",
		BaseURL:    "http://feeds.local",
		Regions:    "USW",
	}
}

func testFeeds() map[string][]map[string]any {
	zesty := func(address string) []map[string]any {
		return []map[string]any{{
			"Column1": map[string]any{"content": map[string]any{
				"gdos_id": "5",
				"address": address,
			}},
		}}
	}
	return map[string][]map[string]any{
		"http://feeds.local/oct-2024/gdos-USW.json": {{"id": float64(5), "address1": "1 Main St"}},
		"http://feeds.local/oct-2024/zesty.json":    zesty("1 Main St"),
		"http://feeds.local/oct-2024/scores.json":   {},
		"http://feeds.local/dec-2024/gdos-USW.json": {{"id": float64(5), "address1": "2 Main St"}},
		"http://feeds.local/dec-2024/zesty.json":    zesty("1 Main St"),
		"http://feeds.local/dec-2024/scores.json":   {},
	}
}

func newTestApp(t *testing.T, feeds map[string][]map[string]any) *fiber.App {
	t.Helper()
	store := snapshot.NewStore(&fakeFetcher{feeds: feeds}, zap.NewNop())
	feature, err := comparison.NewFeature(store, testConfig(), nil, zap.NewNop())
	require.NoError(t, err)

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func loadSnapshots(t *testing.T, app *fiber.App) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/snapshots/load", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandleLoadSnapshots(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app := newTestApp(t, testFeeds())

		req := httptest.NewRequest(fiber.MethodPost, "/snapshots/load", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Status    string                    `json:"status"`
			Snapshots []comparison.SnapshotInfo `json:"snapshots"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "loaded", body.Status)
		require.Len(t, body.Snapshots, 2)
		assert.Equal(t, "oct-2024", body.Snapshots[0].Label)
		assert.Equal(t, "dec-2024", body.Snapshots[1].Label)
		assert.Equal(t, 1, body.Snapshots[0].GDOSRegions)
		assert.Equal(t, 1, body.Snapshots[0].ZestyRecords)
	})

	t.Run("FeedUnavailable", func(t *testing.T) {
		feeds := testFeeds()
		delete(feeds, "http://feeds.local/dec-2024/zesty.json")
		app := newTestApp(t, feeds)

		req := httptest.NewRequest(fiber.MethodPost, "/snapshots/load", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	})
}

func TestHandleListSnapshots_Empty(t *testing.T) {
	app := newTestApp(t, testFeeds())

	req := httptest.NewRequest(fiber.MethodGet, "/snapshots", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var infos []comparison.SnapshotInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	assert.Empty(t, infos)
}

func TestHandleCompareEntity(t *testing.T) {
	t.Run("BeforeLoad", func(t *testing.T) {
		app := newTestApp(t, testFeeds())

		req := httptest.NewRequest(fiber.MethodGet, "/compare/5", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("AfterLoad", func(t *testing.T) {
		app := newTestApp(t, testFeeds())
		loadSnapshots(t, app)

		req := httptest.NewRequest(fiber.MethodGet, "/compare/5", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result compare.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "5", result.EntityID)
		assert.Equal(t, "USW", result.Region)
		assert.Equal(t, compare.ActionReview, result.Recommendation.Action)
		assert.Contains(t, result.Recommendation.Fields, "address")
	})
}

func TestHandleStats(t *testing.T) {
	app := newTestApp(t, testFeeds())
	loadSnapshots(t, app)

	// Prime the cache so the stats see one reviewed entity.
	req := httptest.NewRequest(fiber.MethodGet, "/compare/5", nil)
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	req = httptest.NewRequest(fiber.MethodGet, "/compare/stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats planner.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.CurrentEntities)
	assert.Equal(t, 1, stats.PriorEntities)
	assert.Equal(t, 1, stats.NeedingReview)
	assert.Equal(t, 1, stats.FieldChangeCounts["address"])
}

func TestHandleApplyUpdate(t *testing.T) {
	postUpdate := func(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
		t.Helper()
		req := httptest.NewRequest(fiber.MethodPost, "/updates", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		var decoded map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		return resp.StatusCode, decoded
	}

	t.Run("Success", func(t *testing.T) {
		app := newTestApp(t, testFeeds())
		loadSnapshots(t, app)

		req := httptest.NewRequest(fiber.MethodGet, "/compare/5", nil)
		_, err := app.Test(req, -1)
		require.NoError(t, err)

		status, body := postUpdate(t, app,
			`{"entity_id": "5", "fields": ["address"], "target_snapshot": "dec-2024"}`)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "5", body["entity_id"])
		assert.Equal(t, "dec-2024", body["target_snapshot"])

		// The update shows up in the history export.
		req = httptest.NewRequest(fiber.MethodGet, "/updates", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		var history []planner.UpdateRecord
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
		require.Len(t, history, 1)
		assert.Equal(t, []string{"address"}, history[0].Fields)
	})

	t.Run("NotCompared", func(t *testing.T) {
		app := newTestApp(t, testFeeds())
		loadSnapshots(t, app)

		status, _ := postUpdate(t, app,
			`{"entity_id": "5", "fields": ["address"], "target_snapshot": "dec-2024"}`)
		assert.Equal(t, fiber.StatusConflict, status)
	})

	t.Run("UnknownTarget", func(t *testing.T) {
		app := newTestApp(t, testFeeds())
		loadSnapshots(t, app)

		req := httptest.NewRequest(fiber.MethodGet, "/compare/5", nil)
		_, err := app.Test(req, -1)
		require.NoError(t, err)

		status, _ := postUpdate(t, app,
			`{"entity_id": "5", "fields": ["address"], "target_snapshot": "jan-2025"}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("MissingFields", func(t *testing.T) {
		app := newTestApp(t, testFeeds())

		status, _ := postUpdate(t, app, `{"entity_id": "", "fields": []}`)
		assert.Equal(t, fiber.StatusBadRequest, status)

		status, _ = postUpdate(t, app, `not json`)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestHandleHistory_Empty(t *testing.T) {
	app := newTestApp(t, testFeeds())

	req := httptest.NewRequest(fiber.MethodGet, "/updates", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var history []planner.UpdateRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	assert.Empty(t, history)
}
