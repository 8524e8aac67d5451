package server

import (
	"bytes"
	"encoding/json"
	"math/bits"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/chronick/duopulse-sub001/parameter"
)

func newTestServer() *Server {
	return New(Config{Port: 8080})
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func maskBits(t *testing.T, hexMask string) int {
	t.Helper()
	v, err := strconv.ParseUint(hexMask, 16, 64)
	if err != nil {
		t.Fatalf("parse mask %q: %v", hexMask, err)
	}
	return bits.OnesCount64(v)
}

func basePatternRequest() PatternRequest {
	return PatternRequest{
		Energy:     0.55,
		Shape:      0.4,
		Balance:    0.5,
		Flavor:     0.2,
		Accent:     0.3,
		Genre:      "techno",
		FieldX:     0.3,
		FieldY:     0.3,
		Length:     16,
		Seed:       0xC0FFEE,
		AuxDensity: 1.0,
	}
}

func checkVoice(t *testing.T, name string, vp VoicePattern, length int) {
	t.Helper()

	if len(vp.Velocities) != length {
		t.Errorf("Expected %d %s velocities, got %d", length, name, len(vp.Velocities))
	}
	if len(vp.Steps) != maskBits(t, vp.Mask) {
		t.Errorf("Expected %s steps to match mask bits, got %d steps for mask %s",
			name, len(vp.Steps), vp.Mask)
	}
	for _, step := range vp.Steps {
		if step < 0 || step >= length {
			t.Errorf("Expected %s step in [0,%d), got %d", name, length, step)
			continue
		}
		if vp.Velocities[step] <= 0 {
			t.Errorf("Expected positive %s velocity at step %d, got %f",
				name, step, vp.Velocities[step])
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, http.MethodGet, "/health", nil)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"status":"ok"}` {
		t.Errorf("Expected ok status body, got %q", body)
	}
}

func TestPatternEndpoint(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, http.MethodPost, "/api/pattern", basePatternRequest())

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp PatternResponse
	decodeInto(t, rec, &resp)

	if resp.Length != 16 {
		t.Errorf("Expected length 16, got %d", resp.Length)
	}
	if resp.Genre != "techno" {
		t.Errorf("Expected genre techno, got %q", resp.Genre)
	}
	if resp.Seed != 0xC0FFEE {
		t.Errorf("Expected seed %08X, got %08X", 0xC0FFEE, resp.Seed)
	}

	checkVoice(t, "anchor", resp.Anchor, resp.Length)
	checkVoice(t, "shimmer", resp.Shimmer, resp.Length)
	checkVoice(t, "aux", resp.Aux, resp.Length)

	if len(resp.Anchor.Steps) == 0 {
		t.Error("Expected at least one anchor hit")
	}
}

func TestPatternDeterminism(t *testing.T) {
	s := newTestServer()
	req := basePatternRequest()

	first := doRequest(t, s, http.MethodPost, "/api/pattern", req)
	second := doRequest(t, s, http.MethodPost, "/api/pattern", req)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("Expected identical responses for identical requests")
	}
}

func TestPatternDefaultLength(t *testing.T) {
	s := newTestServer()
	req := basePatternRequest()
	req.Length = 0

	rec := doRequest(t, s, http.MethodPost, "/api/pattern", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp PatternResponse
	decodeInto(t, rec, &resp)

	if resp.Length != parameter.StepsPerBar {
		t.Errorf("Expected default length %d, got %d", parameter.StepsPerBar, resp.Length)
	}
}

func TestPatternFill(t *testing.T) {
	s := newTestServer()
	req := basePatternRequest()
	req.Fill = true
	req.FillProgress = 0.75

	rec := doRequest(t, s, http.MethodPost, "/api/pattern", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp PatternResponse
	decodeInto(t, rec, &resp)

	checkVoice(t, "anchor", resp.Anchor, resp.Length)
	if len(resp.Anchor.Steps) == 0 {
		t.Error("Expected at least one anchor hit in fill bar")
	}
}

func TestPatternValidation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name   string
		mutate func(*PatternRequest)
	}{
		{"unknown genre", func(r *PatternRequest) { r.Genre = "gabber" }},
		{"length too long", func(r *PatternRequest) { r.Length = parameter.MaxSteps + 1 }},
		{"negative length", func(r *PatternRequest) { r.Length = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := basePatternRequest()
			tt.mutate(&req)

			rec := doRequest(t, s, http.MethodPost, "/api/pattern", req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}

			var resp map[string]string
			decodeInto(t, rec, &resp)
			if resp["error"] == "" {
				t.Error("Expected error message in response")
			}
		})
	}
}

func TestPatternInvalidBody(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/pattern", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestPhraseEndpoint(t *testing.T) {
	s := newTestServer()
	req := PhraseRequest{
		PatternRequest: basePatternRequest(),
		Bars:           4,
		PhraseBars:     4,
		Tempo:          128,
		AuxMode:        "hat",
		Coupling:       "interlock",
	}
	req.Drift = 0.3

	rec := doRequest(t, s, http.MethodPost, "/api/phrase", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp PhraseResponse
	decodeInto(t, rec, &resp)

	if resp.Tempo != 128 {
		t.Errorf("Expected tempo 128, got %f", resp.Tempo)
	}
	if len(resp.Bars) != 4 {
		t.Fatalf("Expected 4 bars, got %d", len(resp.Bars))
	}

	for i, bar := range resp.Bars {
		if bar.Bar != i {
			t.Errorf("Expected bar index %d, got %d", i, bar.Bar)
		}
		if len(bar.Events) != 16 {
			t.Errorf("Expected 16 events in bar %d, got %d", i, len(bar.Events))
			continue
		}

		anchorHits := 0
		for j, ev := range bar.Events {
			if ev.Step != j {
				t.Errorf("Expected step %d at bar %d event %d, got %d", j, i, j, ev.Step)
			}
			if ev.Anchor != nil {
				anchorHits++
				if ev.Anchor.Velocity <= 0 {
					t.Errorf("Expected positive anchor velocity at bar %d step %d", i, j)
				}
			}
		}
		if anchorHits == 0 {
			t.Errorf("Expected at least one anchor hit in bar %d", i)
		}
	}

	if resp.Bars[0].Fill {
		t.Error("Expected no fill flag on first bar")
	}
	if !resp.Bars[3].Fill {
		t.Error("Expected fill flag on last bar of phrase")
	}
	if resp.Bars[0].Build {
		t.Error("Expected no build flag on first bar")
	}
	if !resp.Bars[3].Build {
		t.Error("Expected build flag on last bar of phrase")
	}
	if resp.Bars[0].Progress >= resp.Bars[3].Progress {
		t.Errorf("Expected progress to advance, got %f then %f",
			resp.Bars[0].Progress, resp.Bars[3].Progress)
	}
}

func TestPhraseValidation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name   string
		mutate func(*PhraseRequest)
	}{
		{"zero bars", func(r *PhraseRequest) { r.Bars = 0 }},
		{"too many bars", func(r *PhraseRequest) { r.Bars = maxPhraseBars + 1 }},
		{"unknown aux mode", func(r *PhraseRequest) { r.AuxMode = "bogus" }},
		{"unknown coupling", func(r *PhraseRequest) { r.Coupling = "bogus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := PhraseRequest{PatternRequest: basePatternRequest(), Bars: 4}
			tt.mutate(&req)

			rec := doRequest(t, s, http.MethodPost, "/api/phrase", req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestSweepEndpoint(t *testing.T) {
	s := newTestServer()
	req := SweepRequest{
		PatternRequest: basePatternRequest(),
		Param:          "energy",
		From:           0.1,
		To:             0.9,
		Steps:          5,
	}

	rec := doRequest(t, s, http.MethodPost, "/api/sweep", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SweepResponse
	decodeInto(t, rec, &resp)

	if resp.Param != "energy" {
		t.Errorf("Expected param energy, got %q", resp.Param)
	}
	if len(resp.Points) != 5 {
		t.Fatalf("Expected 5 points, got %d", len(resp.Points))
	}

	if diff := resp.Points[0].Value - 0.1; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("Expected first value 0.1, got %f", resp.Points[0].Value)
	}
	if diff := resp.Points[4].Value - 0.9; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("Expected last value 0.9, got %f", resp.Points[4].Value)
	}

	for i, pt := range resp.Points {
		if i > 0 && pt.Value <= resp.Points[i-1].Value {
			t.Errorf("Expected ascending values, got %f after %f",
				pt.Value, resp.Points[i-1].Value)
		}
		if pt.AnchorHits != maskBits(t, pt.AnchorMask) {
			t.Errorf("Expected anchor hits to match mask at point %d", i)
		}
		if pt.ShimmerHits != maskBits(t, pt.ShimmerMask) {
			t.Errorf("Expected shimmer hits to match mask at point %d", i)
		}
	}

	low := resp.Points[0].AnchorHits + resp.Points[0].ShimmerHits
	high := resp.Points[4].AnchorHits + resp.Points[4].ShimmerHits
	if high < low {
		t.Errorf("Expected hit count to grow with energy, got %d then %d", low, high)
	}
}

func TestSweepValidation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name   string
		mutate func(*SweepRequest)
	}{
		{"one step", func(r *SweepRequest) { r.Steps = 1 }},
		{"too many steps", func(r *SweepRequest) { r.Steps = maxSweepSteps + 1 }},
		{"unknown param", func(r *SweepRequest) { r.Param = "bogus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SweepRequest{
				PatternRequest: basePatternRequest(),
				Param:          "energy",
				From:           0,
				To:             1,
				Steps:          4,
			}
			tt.mutate(&req)

			rec := doRequest(t, s, http.MethodPost, "/api/sweep", req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestGenresEndpoint(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, http.MethodGet, "/api/genres", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp map[string][]ArchetypeResponse
	decodeInto(t, rec, &resp)

	if len(resp) != parameter.GenreCount {
		t.Fatalf("Expected %d genres, got %d", parameter.GenreCount, len(resp))
	}

	for _, name := range []string{"techno", "tribal", "idm"} {
		grid, ok := resp[name]
		if !ok {
			t.Errorf("Expected genre %q in response", name)
			continue
		}
		if len(grid) != parameter.ArchetypesPerGenre {
			t.Errorf("Expected %d archetypes for %s, got %d",
				parameter.ArchetypesPerGenre, name, len(grid))
			continue
		}
		for i, a := range grid {
			if a.Name == "" {
				t.Errorf("Expected name for %s archetype %d", name, i)
			}
			if a.FillMultiplier < 1 {
				t.Errorf("Expected fill multiplier >= 1 for %s/%s, got %f",
					name, a.Name, a.FillMultiplier)
			}
		}
	}

	if resp["techno"][0].Name != "Minimal" {
		t.Errorf("Expected first techno archetype Minimal, got %q", resp["techno"][0].Name)
	}
}

func TestGenreTraitsEndpoint(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, http.MethodGet, "/api/genres/techno/traits?x=0&y=0", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp TraitsResponse
	decodeInto(t, rec, &resp)

	if resp.Genre != "techno" {
		t.Errorf("Expected genre techno, got %q", resp.Genre)
	}
	if resp.Archetype != "Minimal" {
		t.Errorf("Expected archetype Minimal at origin, got %q", resp.Archetype)
	}
	if resp.SwingAmount < 0 || resp.SwingAmount >= 0.5 {
		t.Errorf("Expected swing in [0,0.5), got %f", resp.SwingAmount)
	}
	if resp.DefaultCouple <= 0 || resp.DefaultCouple >= 1 {
		t.Errorf("Expected couple in (0,1), got %f", resp.DefaultCouple)
	}
	if resp.FillMultiplier < 1 {
		t.Errorf("Expected fill multiplier >= 1, got %f", resp.FillMultiplier)
	}

	for _, mask := range []string{resp.AnchorAccentMask, resp.ShimmerAccentMask, resp.RatchetMask} {
		if len(mask) != 16 {
			t.Errorf("Expected 16 hex digit mask, got %q", mask)
			continue
		}
		maskBits(t, mask)
	}

	if len(resp.AnchorProfile) != parameter.MaxSteps {
		t.Errorf("Expected %d anchor profile entries, got %d",
			parameter.MaxSteps, len(resp.AnchorProfile))
	}
	if len(resp.ShimmerProfile) != parameter.MaxSteps {
		t.Errorf("Expected %d shimmer profile entries, got %d",
			parameter.MaxSteps, len(resp.ShimmerProfile))
	}
	if len(resp.AuxProfile) != parameter.MaxSteps {
		t.Errorf("Expected %d aux profile entries, got %d",
			parameter.MaxSteps, len(resp.AuxProfile))
	}
}

func TestGenreTraitsPositionChangesArchetype(t *testing.T) {
	s := newTestServer()

	origin := doRequest(t, s, http.MethodGet, "/api/genres/techno/traits?x=0&y=0", nil)
	corner := doRequest(t, s, http.MethodGet, "/api/genres/techno/traits?x=1&y=1", nil)

	var at, far TraitsResponse
	decodeInto(t, origin, &at)
	decodeInto(t, corner, &far)

	if at.Archetype == far.Archetype {
		t.Errorf("Expected different archetypes across the field, got %q twice", at.Archetype)
	}
	if far.Archetype != "Chaos" {
		t.Errorf("Expected archetype Chaos at far corner, got %q", far.Archetype)
	}
}

func TestGenreTraitsUnknownGenre(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, http.MethodGet, "/api/genres/gabber/traits", nil)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}

	var resp map[string]string
	decodeInto(t, rec, &resp)
	if resp["error"] == "" {
		t.Error("Expected error message in response")
	}
}
