package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/peterkuimelis/genesys/internal/catalog"
	"github.com/peterkuimelis/genesys/internal/log"
	"github.com/peterkuimelis/genesys/internal/session"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	entries := map[string]catalog.RawCard{}
	for i := 0; i < 20; i++ {
		entries[fmt.Sprintf("m%02d", i)] = catalog.RawCard{
			ID:    500 + i,
			Names: map[catalog.NameKey]string{catalog.NameEnglish: fmt.Sprintf("Spell %02d", i), catalog.NameJapan: fmt.Sprintf("魔法%02d", i)},
			Types: "[魔法|通常]",
			Point: 2,
		}
	}
	entries["x"] = catalog.RawCard{
		ID:    800,
		Names: map[catalog.NameKey]string{catalog.NameEnglish: "Synchro Knight"},
		Types: "[怪兽|同调]",
		Point: 20,
	}
	srv := NewServer(catalog.LoadEntries(entries), session.Options{
		NameKey:  catalog.NameEnglish,
		PointCap: 30,
		Logger:   log.NewMemoryLogger(),
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body string, out interface{}) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	var created map[string]string
	if code := doJSON(t, "POST", ts.URL+"/api/sessions", "", &created); code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", code)
	}
	if created["id"] == "" {
		t.Fatal("Expected a session id")
	}
	return created["id"]
}

func TestSearchAndGetCard(t *testing.T) {
	ts := testServer(t)

	var result struct {
		Cards      []CardInfo `json:"cards"`
		TotalCount int        `json:"total_count"`
	}
	if code := doJSON(t, "GET", ts.URL+"/api/cards?q=spell+0", "", &result); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if result.TotalCount != 10 || result.Cards[0].Name != "Spell 00" {
		t.Errorf("Unexpected search result %+v", result)
	}

	if code := doJSON(t, "GET", ts.URL+"/api/cards?name=jp_name&q="+url.QueryEscape("魔法"), "", &result); code != http.StatusOK || result.TotalCount != 20 {
		t.Errorf("Expected 20 Japanese-name hits, got %d (%d)", result.TotalCount, code)
	}
	if code := doJSON(t, "GET", ts.URL+"/api/cards?name=kr_name", "", nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown name variant, got %d", code)
	}

	var card CardInfo
	if code := doJSON(t, "GET", ts.URL+"/api/cards/800", "", &card); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if !card.ExtraDeck || card.Point != 20 || card.Names["en_name"] != "Synchro Knight" {
		t.Errorf("Unexpected card %+v", card)
	}
	if code := doJSON(t, "GET", ts.URL+"/api/cards/1", "", nil); code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", code)
	}
	if code := doJSON(t, "GET", ts.URL+"/api/cards/abc", "", nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", code)
	}
}

func TestSessionAddRemove(t *testing.T) {
	ts := testServer(t)
	id := createSession(t, ts)
	base := ts.URL + "/api/sessions/" + id

	var snap session.Snapshot
	if code := doJSON(t, "POST", base+"/cards", `{"game_id": 800}`, &snap); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if snap.ExtraCount != 1 || snap.Points.Total != 20 {
		t.Errorf("Unexpected snapshot %+v", snap)
	}

	var rejected map[string]string
	if code := doJSON(t, "POST", base+"/cards", `{"deck": "main", "game_id": 800}`, &rejected); code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", code)
	}
	if rejected["kind"] != "WrongDeckForExtraMonster" {
		t.Errorf("Unexpected rejection %v", rejected)
	}
	if code := doJSON(t, "POST", base+"/cards", `{"deck": "side", "game_id": 1}`, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown card, got %d", code)
	}
	if code := doJSON(t, "POST", base+"/cards", `{"deck": "hand", "game_id": 500}`, nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad deck, got %d", code)
	}
	if code := doJSON(t, "POST", base+"/cards", `not json`, nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad body, got %d", code)
	}

	for i := 0; i < 2; i++ {
		doJSON(t, "POST", base+"/cards", `{"deck": "side", "game_id": 800}`, &snap)
	}
	if snap.SideCount != 2 || !snap.Points.Over {
		t.Errorf("Expected 2 side cards over the point cap, got %+v", snap)
	}

	if code := doJSON(t, "DELETE", base+"/cards/side/800?amount=all", "", &snap); code != http.StatusOK || snap.SideCount != 0 {
		t.Errorf("Expected side emptied, got %d %+v", code, snap)
	}
	if code := doJSON(t, "DELETE", base+"/cards/side/800?amount=all", "", &snap); code != http.StatusOK {
		t.Errorf("Expected repeated remove to succeed, got %d", code)
	}
	if code := doJSON(t, "DELETE", base+"/cards/side/800?amount=0", "", nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for amount 0, got %d", code)
	}

	if code := doJSON(t, "POST", base+"/new", "", &snap); code != http.StatusOK || snap.ExtraCount != 0 {
		t.Errorf("Expected new deck, got %d %+v", code, snap)
	}
	if code := doJSON(t, "GET", ts.URL+"/api/sessions/nope", "", nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", code)
	}
}

func TestImportExport(t *testing.T) {
	ts := testServer(t)
	id := createSession(t, ts)
	base := ts.URL + "/api/sessions/" + id

	var snap session.Snapshot
	if code := doJSON(t, "PUT", base+"/ydk", "#main\n500\n500\n99999999\n#extra\n800\n", &snap); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if snap.MainCount != 2 || snap.ExtraCount != 1 {
		t.Errorf("Unexpected snapshot after import %+v", snap)
	}

	var refused struct {
		Violations []string `json:"violations"`
	}
	if code := doJSON(t, "GET", base+"/ydk", "", &refused); code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", code)
	}
	if len(refused.Violations) != 1 {
		t.Errorf("Expected only the main size violation, got %v", refused.Violations)
	}

	var lines []string
	lines = append(lines, "#main")
	for id := 500; id < 514; id++ {
		for i := 0; i < 3; i++ {
			lines = append(lines, fmt.Sprint(id))
		}
	}
	doJSON(t, "PUT", base+"/ydk", strings.Join(lines, "\n"), &snap)
	if snap.MainCount != 42 {
		t.Fatalf("Expected 42 main cards, got %d", snap.MainCount)
	}

	resp, err := http.Get(base + "/ydk")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(string(body), "#created by ") || strings.Count(string(body), "\n") != 46 {
		t.Errorf("Unexpected export:\n%s", body)
	}
}

func TestWebSocketPushesSnapshots(t *testing.T) {
	ts := testServer(t)
	id := createSession(t, ts)
	base := ts.URL + "/api/sessions/" + id

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(base, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseNow()

	var snap session.Snapshot
	if err := wsjson.Read(ctx, conn, &snap); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if snap.MainCount != 0 {
		t.Errorf("Expected empty initial snapshot, got %+v", snap)
	}

	doJSON(t, "POST", base+"/cards", `{"deck": "main", "game_id": 505}`, nil)

	for {
		if err := wsjson.Read(ctx, conn, &snap); err != nil {
			t.Fatalf("read pushed snapshot: %v", err)
		}
		if snap.MainCount == 1 {
			break
		}
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}
