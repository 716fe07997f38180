package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/codyseavey/tcg-catalog/internal/api/handlers"
	"github.com/codyseavey/tcg-catalog/internal/catalog"
	"github.com/codyseavey/tcg-catalog/internal/services"
)

const testCards = `Name,Set,Type,Market Price,Qty,Image Link
Pikachu,Base,Pokemon,$4,2,https://img/pika.png
Raichu,Fossil,pokemon,$9,1,loading...
Ditto,Fossil,Pokemon,$1,0,
Luffy,Romance Dawn,One Piece,$3,5,
`

const testSlabs = `Cert Number,Category,Subject,Card Grade,Price,Sell Price
111,Pokemon,Charizard,10,$900,$950
`

const testLog = `Date,Type,Card Value,Slab Value
01/02/2024,Pokemon,10,1
02/02/2024,Pokemon,12,2
01/02/2024,One Piece,5,0
`

type testServer struct {
	router   *gin.Engine
	store    *services.SnapshotStore
	cardPath string
}

func newTestServer(t *testing.T, adminPassword string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	cardPath := write("cards.csv", testCards)
	loader := services.NewDatasetLoader(
		services.FileSource{Path: cardPath},
		services.FileSource{Path: write("slabs.csv", testSlabs)},
		services.FileSource{Path: write("log.csv", testLog)},
	)

	store := services.NewSnapshotStore(loader, catalog.NewPartitioner(nil), nil)
	if err := store.Refresh(context.Background(), services.TriggerStartup); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	sessions, err := services.NewSessionStore(16, 9)
	if err != nil {
		t.Fatal(err)
	}
	certs := services.NewCertLookupService("http://127.0.0.1:0", "", 10, nil, time.Hour)

	router := SetupRouter(RouterOptions{AdminPassword: adminPassword}, store, sessions, services.NewCatalogService(store), certs)
	return &testServer{router: router, store: store, cardPath: cardPath}
}

func (s *testServer) do(t *testing.T, method, path, session string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if session != "" {
		req.Header.Set(handlers.SessionHeader, session)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

type pageBody struct {
	Items []struct {
		Name           string  `json:"name"`
		DisplayName    string  `json:"display_name"`
		Price          float64 `json:"price"`
		ImageAvailable bool    `json:"image_available"`
	} `json:"items"`
	TotalCount  int      `json:"total_count"`
	TotalPages  int      `json:"total_pages"`
	CurrentPage int      `json:"current_page"`
	Sets        []string `json:"sets"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	if w := s.do(t, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/metrics", "", nil); w.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", w.Code)
	}
}

func TestCategoriesAndItems(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(t, http.MethodGet, "/api/categories", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/categories = %d", w.Code)
	}
	session := w.Header().Get(handlers.SessionHeader)
	if session == "" {
		t.Fatal("no session id returned")
	}
	var cats struct {
		Categories []struct {
			Label string `json:"label"`
			Key   string `json:"key"`
			Count int    `json:"count"`
		} `json:"categories"`
	}
	decode(t, w, &cats)
	if len(cats.Categories) != 2 || cats.Categories[0].Label != "Pokemon" || cats.Categories[1].Key != "one piece" {
		t.Fatalf("categories = %+v", cats.Categories)
	}

	w = s.do(t, http.MethodGet, "/api/categories/pokemon/items?sort=price_desc", session, nil)
	var page pageBody
	decode(t, w, &page)
	if page.TotalCount != 2 || page.Items[0].Name != "Raichu" || page.Items[0].ImageAvailable {
		t.Errorf("pokemon page = %+v", page)
	}
	if len(page.Sets) != 2 {
		t.Errorf("sets = %v, want Base and Fossil", page.Sets)
	}

	// sort sticks to the session
	w = s.do(t, http.MethodGet, "/api/categories/pokemon/items?set=Base", session, nil)
	decode(t, w, &page)
	if page.TotalCount != 1 || page.Items[0].Name != "Pikachu" {
		t.Errorf("filtered page = %+v", page)
	}

	// another session starts from defaults
	w = s.do(t, http.MethodGet, "/api/categories/pokemon/items", "", nil)
	decode(t, w, &page)
	if page.TotalCount != 2 || page.Items[0].Name != "Pikachu" {
		t.Errorf("fresh session page = %+v", page)
	}

	if w := s.do(t, http.MethodGet, "/api/categories/digimon/items", session, nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown category = %d, want 404", w.Code)
	}
}

func TestItemsRejectsBadParams(t *testing.T) {
	s := newTestServer(t, "")
	for _, q := range []string{
		"min_price=1",
		"min_price=5&max_price=1",
		"min_price=a&max_price=2",
		"page_size=10",
		"page=0",
	} {
		if w := s.do(t, http.MethodGet, "/api/categories/pokemon/items?"+q, "", nil); w.Code != http.StatusBadRequest {
			t.Errorf("GET items?%s = %d, want 400", q, w.Code)
		}
	}
}

func TestPaging(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(t, http.MethodGet, "/api/categories/pokemon/items", "", nil)
	session := w.Header().Get(handlers.SessionHeader)

	var page pageBody
	w = s.do(t, http.MethodPost, "/api/categories/pokemon/page/next", session, nil)
	decode(t, w, &page)
	if page.CurrentPage != 1 {
		t.Errorf("next on a single page = %d, want 1", page.CurrentPage)
	}

	if w := s.do(t, http.MethodPost, "/api/categories/pokemon/page/last", session, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad action = %d, want 400", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/categories/pokemon/items?page=4", session, nil)
	decode(t, w, &page)
	if page.CurrentPage != 4 || len(page.Items) != 0 {
		t.Errorf("out of range page = %+v", page)
	}
	w = s.do(t, http.MethodPost, "/api/categories/pokemon/page/reset", session, nil)
	decode(t, w, &page)
	if page.CurrentPage != 1 || len(page.Items) != 2 {
		t.Errorf("reset page = %+v", page)
	}
}

func TestSlabsAndTracking(t *testing.T) {
	s := newTestServer(t, "")

	var page pageBody
	decode(t, s.do(t, http.MethodGet, "/api/slabs", "", nil), &page)
	if page.TotalCount != 1 || page.Items[0].DisplayName != "Charizard" || page.Items[0].Price != 900 {
		t.Errorf("slabs page = %+v", page)
	}

	var tracking struct {
		AvailableTypes []string `json:"available_types"`
		SelectedTypes  []string `json:"selected_types"`
		CardValues     map[string][]struct {
			Value float64 `json:"value"`
		} `json:"card_values"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/tracking?types=Pokemon", "", nil), &tracking)
	if len(tracking.AvailableTypes) != 2 || len(tracking.SelectedTypes) != 1 {
		t.Errorf("tracking = %+v", tracking)
	}
	if got := tracking.CardValues["Pokemon"]; len(got) != 2 || got[1].Value != 12 {
		t.Errorf("pokemon card values = %+v", got)
	}
}

func TestRefreshKeepsSnapshotOnFailure(t *testing.T) {
	s := newTestServer(t, "")
	before := s.store.Current()

	if err := os.Remove(s.cardPath); err != nil {
		t.Fatal(err)
	}
	w := s.do(t, http.MethodPost, "/api/refresh", "", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("POST /api/refresh = %d, want 502", w.Code)
	}
	var body struct {
		Success bool `json:"success"`
	}
	decode(t, w, &body)
	if body.Success {
		t.Error("refresh reported success")
	}
	if s.store.Current() != before {
		t.Error("failed refresh replaced the snapshot")
	}

	if err := os.WriteFile(s.cardPath, []byte(testCards), 0o644); err != nil {
		t.Fatal(err)
	}
	w = s.do(t, http.MethodPost, "/api/refresh", "", nil)
	decode(t, w, &body)
	if w.Code != http.StatusOK || !body.Success {
		t.Errorf("POST /api/refresh = %d %s", w.Code, w.Body.String())
	}
}

func TestAdminAuth(t *testing.T) {
	disabled := newTestServer(t, "")
	if w := disabled.do(t, http.MethodGet, "/api/admin/cards", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("admin without a password configured = %d, want 503", w.Code)
	}

	s := newTestServer(t, "hunter2")
	if w := s.do(t, http.MethodGet, "/api/admin/cards", "", map[string]string{handlers.AdminPasswordHeader: "guess"}); w.Code != http.StatusUnauthorized {
		t.Errorf("admin with a wrong password = %d, want 401", w.Code)
	}

	w := s.do(t, http.MethodGet, "/api/admin/cards", "", map[string]string{handlers.AdminPasswordHeader: "hunter2"})
	var body struct {
		Total int `json:"total"`
	}
	decode(t, w, &body)
	if w.Code != http.StatusOK || body.Total != 4 {
		t.Errorf("admin cards = %d, total %d; want 200 with 4", w.Code, body.Total)
	}

	// cert lookups are not configured in tests
	w = s.do(t, http.MethodGet, "/api/admin/certs/111", "", map[string]string{handlers.AdminPasswordHeader: "hunter2"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("cert lookup without a token = %d, want 503", w.Code)
	}
}

func TestAdminUploadRequiresCertColumn(t *testing.T) {
	s := newTestServer(t, "hunter2")

	f := excelize.NewFile()
	row := []interface{}{"owner", "grade"}
	if err := f.SetSheetRow("Sheet1", "A1", &row); err != nil {
		t.Fatal(err)
	}
	xlsx, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "certs.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(xlsx.Bytes())
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/certs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(handlers.AdminPasswordHeader, "hunter2")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("upload without cert_number = %d, want 400: %s", w.Code, w.Body.String())
	}
}
