// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package viewer_test

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/phylomovie/phylomovie/anim"
	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/movie"
	"github.com/phylomovie/phylomovie/msa"
	"github.com/phylomovie/phylomovie/render"
	"github.com/phylomovie/phylomovie/scene"
	"github.com/phylomovie/phylomovie/style"
	"github.com/phylomovie/phylomovie/taxa"
	"github.com/phylomovie/phylomovie/tree"
	"github.com/phylomovie/phylomovie/viewer"
)

type fixture struct {
	ctrl *anim.Controller
	srv  *httptest.Server
	dir  string
}

func newFixture(t testing.TB, sync *msa.Sync) *fixture {
	t.Helper()

	newicks := "((A:1,B:1):1,C:1);\n((A:1,B:2):1,C:1);\n((A:2,B:2):1,C:1);\n"
	trees, err := tree.ReadNewick(strings.NewReader(newicks))
	if err != nil {
		t.Fatalf("reading trees: %v", err)
	}
	m := &movie.Movie{
		Trees:        trees,
		SortedLeaves: []string{"A", "B", "C"},
		RFD:          []float64{0.5},
		FullTrees:    []int{0, 2},
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("movie: %v", err)
	}

	cache := layout.NewCache(trees, 600, 600, 40, layout.None)
	sc := scene.New(600, 600, nil)
	st := style.Default()
	set := render.NewSet(sc, taxa.NewPolicy(taxa.NewTaxa(m.SortedLeaves)), &st, nil)
	ctrl := anim.NewController(cache, set, &st, nil, nil)
	if err := ctrl.Render(); err != nil {
		t.Fatalf("initial render: %v", err)
	}

	dir := t.TempDir()
	s, err := viewer.New(ctrl, m, sync, dir, nil)
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	return &fixture{
		ctrl: ctrl,
		srv:  srv,
		dir:  dir,
	}
}

func getJSON(t testing.TB, url string, v any) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request %q: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("request %q: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("request %q: decoding: %v", url, err)
	}
}

func TestMovieInfo(t *testing.T) {
	f := newFixture(t, nil)

	var info struct {
		Trees   int    `json:"trees"`
		Anchors int    `json:"anchors"`
		Leaves  int    `json:"leaves"`
		State   string `json:"state"`
		Index   int    `json:"currentSequenceIndex"`
	}
	getJSON(t, f.srv.URL+"/api/movie", &info)

	if info.Trees != 3 {
		t.Errorf("trees: got %d, want 3", info.Trees)
	}
	if info.Anchors != 2 {
		t.Errorf("anchors: got %d, want 2", info.Anchors)
	}
	if info.Leaves != 3 {
		t.Errorf("leaves: got %d, want 3", info.Leaves)
	}
	if info.State != "idle" {
		t.Errorf("state: got %q, want %q", info.State, "idle")
	}
	if info.Index != 0 {
		t.Errorf("index: got %d, want 0", info.Index)
	}
}

func TestPlayerPage(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := http.Get(f.srv.URL + "/")
	if err != nil {
		t.Fatalf("page request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("page: status %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "PhyloMovie") {
		t.Errorf("page: not the player page")
	}
}

func TestFrame(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := http.Get(f.srv.URL + "/api/frame.svg")
	if err != nil {
		t.Fatalf("frame request: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("frame: not an SVG document")
	}

	resp, err = http.Get(f.srv.URL + "/api/frame.png")
	if err != nil {
		t.Fatalf("snapshot request: %v", err)
	}
	defer resp.Body.Close()
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("snapshot: decoding: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 600 {
		t.Errorf("snapshot: got %dx%d, want 600x600", b.Dx(), b.Dy())
	}
}

func TestNavigation(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := http.Post(f.srv.URL+"/api/nav", "application/json",
		strings.NewReader(`{"action":"goto","index":1}`))
	if err != nil {
		t.Fatalf("navigation request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("navigation: status %d", resp.StatusCode)
	}
	var st struct {
		Index int `json:"currentSequenceIndex"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("navigation: decoding: %v", err)
	}
	if st.Index != 1 {
		t.Errorf("index: got %d, want 1", st.Index)
	}

	resp, err = http.Post(f.srv.URL+"/api/nav", "application/json",
		strings.NewReader(`{"action":"goto","index":10}`))
	if err != nil {
		t.Fatalf("navigation request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out of range: status %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	resp, err = http.Post(f.srv.URL+"/api/nav", "application/json",
		strings.NewReader(`{"action":"dance"}`))
	if err != nil {
		t.Fatalf("navigation request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown action: status %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestChart(t *testing.T) {
	f := newFixture(t, nil)

	var data struct {
		Values    []float64 `json:"values"`
		Indicator int       `json:"indicator"`
	}
	getJSON(t, f.srv.URL+"/api/charts/rfd", &data)
	if len(data.Values) != 1 || data.Values[0] != 0.5 {
		t.Errorf("values: got %v, want [0.5]", data.Values)
	}
	if data.Indicator != 0 {
		t.Errorf("indicator: got %d, want 0", data.Indicator)
	}

	resp, err := http.Get(f.srv.URL + "/api/charts/unknown")
	if err != nil {
		t.Fatalf("chart request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown series: status %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestRegion(t *testing.T) {
	sync := msa.NewSync(msa.Window{Size: 4, Step: 4}, time.Hour, nil)
	f := newFixture(t, sync)

	var reg struct {
		Start int `json:"startColumn"`
		End   int `json:"endColumn"`
	}
	getJSON(t, f.srv.URL+"/api/msa/region", &reg)
	if reg.Start != 0 || reg.End != 4 {
		t.Errorf("region: got [%d, %d), want [0, 4)", reg.Start, reg.End)
	}
}

func TestRegionNoAlignment(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := http.Get(f.srv.URL + "/api/msa/region")
	if err != nil {
		t.Fatalf("region request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("no alignment: status %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := http.Post(f.srv.URL+"/api/export", "application/json", nil)
	if err != nil {
		t.Fatalf("export request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: status %d", resp.StatusCode)
	}
	var out struct {
		File string `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("export: decoding: %v", err)
	}
	fi, err := os.Stat(out.File)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if fi.Size() == 0 {
		t.Errorf("export: empty snapshot %q", out.File)
	}
}

func TestWebsocket(t *testing.T) {
	f := newFixture(t, nil)

	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	var ev struct {
		Type  string `json:"type"`
		State string `json:"state"`
		Index int    `json:"currentSequenceIndex"`
	}
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("websocket read: %v", err)
	}
	if ev.Type != "state" || ev.State != "idle" || ev.Index != 0 {
		t.Errorf("initial event: got %+v", ev)
	}

	other, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer other.Close()
	if err := other.ReadJSON(&ev); err != nil {
		t.Fatalf("websocket read: %v", err)
	}

	if err := conn.WriteJSON(map[string]any{"action": "goto", "index": 2}); err != nil {
		t.Fatalf("websocket write: %v", err)
	}
	// the issuer gets a single direct reply
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("websocket read: %v", err)
	}
	if ev.Type != "state" || ev.Index != 2 {
		t.Errorf("navigation event: got %+v", ev)
	}
	// the other client gets the broadcast
	if err := other.ReadJSON(&ev); err != nil {
		t.Fatalf("websocket read: %v", err)
	}
	if ev.Type != "state" || ev.Index != 2 {
		t.Errorf("broadcast event: got %+v", ev)
	}

	if err := conn.WriteJSON(map[string]any{"action": "dance"}); err != nil {
		t.Fatalf("websocket write: %v", err)
	}
	var fail struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	if err := conn.ReadJSON(&fail); err != nil {
		t.Fatalf("websocket read: %v", err)
	}
	if fail.Type != "error" || fail.Error == "" {
		t.Errorf("error event: got %+v", fail)
	}
}
