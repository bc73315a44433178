package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thithuypham/folio/internal/catalog"
	"github.com/thithuypham/folio/internal/publication"
	"github.com/thithuypham/folio/internal/render"
	"github.com/thithuypham/folio/internal/storage"
)

func fixture(parts ...string) string {
	return filepath.Join(append([]string{"..", "..", "testdata"}, parts...)...)
}

func newTestServer(t *testing.T, search Searcher) *Server {
	t.Helper()
	coll, err := storage.LoadCollection(fixture("publications", "valid.jsonl"))
	require.NoError(t, err)
	projects, err := storage.ReadAllProjects(fixture("projects", "valid.jsonl"))
	require.NoError(t, err)

	return New(Options{
		Publications: coll,
		Projects:     projects,
		Page:         render.Options{Title: "Publications", HighlightAuthor: "Thuy Thi Pham"},
		Search:       search,
	}, zap.NewNop())
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPublicationsPage(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/publications?year=2025&type=journal")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Find("article.publication-card").Length())
	assert.Equal(t, 0, doc.Find(`a[href="#"]`).Length())

	year, _ := doc.Find(`select[name="year"] option[selected]`).Attr("value")
	assert.Equal(t, "2025", year)
}

func TestPublicationsPage_UnknownSelection(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/publications?year=1999&type=book")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, render.EmptyMessage, strings.TrimSpace(doc.Find("p.empty").Text()))
}

func TestRootRedirects(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/publications", rec.Header().Get("Location"))
}

func TestListPublicationsAPI(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/api/publications?year=2023")
	require.Equal(t, http.StatusOK, rec.Code)

	var view catalog.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	assert.Equal(t, catalog.Selection{Year: "2023", Type: catalog.All}, view.Selection)
	assert.Equal(t, 11, view.Total)
	assert.Equal(t, 4, view.Matched)
	require.Len(t, view.Groups, 1)
	assert.Equal(t, "2023", view.Groups[0].Year)
	assert.Equal(t, []string{"all", "2025", "2024", "2023", "2020"}, view.YearOptions)
}

func TestGetPublicationAPI(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/api/publications/pham2023model")
	require.Equal(t, http.StatusOK, rec.Code)

	var p publication.Publication
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "pham2023model", p.ID)
	assert.Equal(t, "SPIE", p.Organization)

	rec = get(t, srv, "/api/publications/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "publication not found")
}

func TestFacetsAndStats(t *testing.T) {
	srv := newTestServer(t, nil)

	var f facets
	rec := get(t, srv, "/api/facets")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	assert.Equal(t, []string{"2025", "2024", "2023", "2020"}, f.Years)
	assert.Equal(t, []string{"conference", "journal"}, f.Types)

	var sum catalog.Summary
	rec = get(t, srv, "/api/stats")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 11, sum.Total)
	assert.Equal(t, 4, sum.Count("journal"))
	assert.Equal(t, 7, sum.Count("conference"))
}

func TestEmptyCatalog(t *testing.T) {
	srv := New(Options{}, nil)

	rec := get(t, srv, "/api/facets")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"years":[],"types":[]}`, rec.Body.String())

	rec = get(t, srv, "/publications")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchAPI(t *testing.T) {
	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.RebuildFromJSONL(fixture("publications", "valid.jsonl"))
	require.NoError(t, err)

	srv := newTestServer(t, db)

	rec := get(t, srv, "/api/search?q=underwater&type=conference")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count        int                       `json:"count"`
		Publications []publication.Publication `json:"publications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(body.Publications), body.Count)
	assert.NotZero(t, body.Count)
	for _, p := range body.Publications {
		assert.Equal(t, "conference", p.Type)
	}

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/search").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/search?q=%20%20").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/search?author=%20&venue=%09").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/search?q=x&limit=0").Code)
}

type failingSearch struct{}

func (failingSearch) Query(storage.QueryFilters) ([]publication.Publication, error) {
	return nil, errors.New("index gone")
}

func TestSearchAPI_Unavailable(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, get(t, newTestServer(t, nil), "/api/search?q=x").Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, newTestServer(t, failingSearch{}), "/api/search?q=x").Code)
}

func TestProjects(t *testing.T) {
	srv := newTestServer(t, nil)

	var groups projectGroups
	rec := get(t, srv, "/api/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	assert.Len(t, groups.Active, 4)
	assert.Len(t, groups.Completed, 2)

	rec = get(t, srv, "/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 6, doc.Find("article.project-card").Length())
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","publications":11}`, rec.Body.String())
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
