package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chronick/duopulse-sub001/engine"
	"github.com/chronick/duopulse-sub001/genre"
	"github.com/chronick/duopulse-sub001/parameter"
)

const (
	maxPhraseBars = 256
	maxSweepSteps = 128
)

// PatternRequest carries the performance inputs for one bar.
type PatternRequest struct {
	Energy  float64 `json:"energy"`
	Shape   float64 `json:"shape"`
	Balance float64 `json:"balance"`
	Flavor  float64 `json:"flavor"`
	Drift   float64 `json:"drift"`
	Accent  float64 `json:"accent"`

	Genre  string  `json:"genre"`
	FieldX float64 `json:"field_x"`
	FieldY float64 `json:"field_y"`

	Length int    `json:"length"`
	Seed   uint32 `json:"seed"`

	AuxDensity float64 `json:"aux_density"`

	Fill         bool    `json:"fill"`
	FillProgress float64 `json:"fill_progress"`
}

// VoicePattern is one voice of a generated bar.
type VoicePattern struct {
	Mask       string    `json:"mask"`
	Steps      []int     `json:"steps"`
	Velocities []float64 `json:"velocities"`
}

// PatternResponse is one generated bar.
type PatternResponse struct {
	Length  int          `json:"length"`
	Seed    uint32       `json:"seed"`
	Genre   string       `json:"genre"`
	Anchor  VoicePattern `json:"anchor"`
	Shimmer VoicePattern `json:"shimmer"`
	Aux     VoicePattern `json:"aux"`
}

// PhraseRequest renders a run of bars through a sequencer.
type PhraseRequest struct {
	PatternRequest

	Bars       int     `json:"bars"`
	PhraseBars int     `json:"phrase_bars"`
	Tempo      float64 `json:"tempo"`
	AuxMode    string  `json:"aux_mode"`
	Coupling   string  `json:"coupling"`
}

// HitResponse is one voice trigger within a step.
type HitResponse struct {
	Velocity float64 `json:"velocity"`
	Offset   int     `json:"offset"`
}

// EventResponse is one rendered step.
type EventResponse struct {
	Step    int          `json:"step"`
	Anchor  *HitResponse `json:"anchor,omitempty"`
	Shimmer *HitResponse `json:"shimmer,omitempty"`
	Aux     *HitResponse `json:"aux,omitempty"`
	AuxGate bool         `json:"aux_gate,omitempty"`
	AuxCV   float64      `json:"aux_cv,omitempty"`
}

// BarResponse is one rendered bar of a phrase.
type BarResponse struct {
	Bar      int             `json:"bar"`
	Seed     uint32          `json:"seed"`
	Fill     bool            `json:"fill"`
	Build    bool            `json:"build"`
	Progress float64         `json:"progress"`
	Events   []EventResponse `json:"events"`
}

// PhraseResponse is the full phrase render.
type PhraseResponse struct {
	Tempo float64       `json:"tempo"`
	Bars  []BarResponse `json:"bars"`
}

// SweepRequest generates one bar per point along a parameter range.
type SweepRequest struct {
	PatternRequest

	Param string  `json:"param"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Steps int     `json:"steps"`
}

// SweepPoint summarizes the bar generated at one parameter value.
type SweepPoint struct {
	Value       float64 `json:"value"`
	AnchorHits  int     `json:"anchor_hits"`
	ShimmerHits int     `json:"shimmer_hits"`
	AuxHits     int     `json:"aux_hits"`
	AnchorMask  string  `json:"anchor_mask"`
	ShimmerMask string  `json:"shimmer_mask"`
	AuxMask     string  `json:"aux_mask"`
}

// SweepResponse is the full parameter sweep.
type SweepResponse struct {
	Param  string       `json:"param"`
	Points []SweepPoint `json:"points"`
}

// ArchetypeResponse is one cell of a genre grid.
type ArchetypeResponse struct {
	Name           string  `json:"name"`
	SwingAmount    float64 `json:"swing_amount"`
	SwingPattern   int     `json:"swing_pattern"`
	DefaultCouple  float64 `json:"default_couple"`
	FillMultiplier float64 `json:"fill_multiplier"`
}

// TraitsResponse is a genre field resolved at one position.
type TraitsResponse struct {
	Genre     string `json:"genre"`
	Archetype string `json:"archetype"`

	SwingAmount    float64 `json:"swing_amount"`
	SwingPattern   int     `json:"swing_pattern"`
	DefaultCouple  float64 `json:"default_couple"`
	FillMultiplier float64 `json:"fill_multiplier"`

	AnchorAccentMask  string `json:"anchor_accent_mask"`
	ShimmerAccentMask string `json:"shimmer_accent_mask"`
	RatchetMask       string `json:"ratchet_mask"`

	AnchorProfile  []float64 `json:"anchor_profile"`
	ShimmerProfile []float64 `json:"shimmer_profile"`
	AuxProfile     []float64 `json:"aux_profile"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handlePattern generates a single bar from the posted parameters.
func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	var req PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params, err := req.toParams()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result engine.PatternResult
	if req.Fill {
		result, err = engine.GenerateFillPattern(params, req.FillProgress)
	} else {
		result, err = engine.GeneratePattern(params)
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, patternResponse(params, &result))
}

// handlePhrase renders a run of bars through a fresh sequencer.
func (s *Server) handlePhrase(w http.ResponseWriter, r *http.Request) {
	var req PhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Bars < 1 || req.Bars > maxPhraseBars {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("bars must be 1-%d", maxPhraseBars))
		return
	}

	params, err := req.toParams()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	auxMode, err := engine.ParseAuxMode(req.AuxMode)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	coupling, err := engine.ParseCoupling(req.Coupling)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seq := engine.NewSequencer(params)
	seq.SetAuxMode(auxMode)
	seq.SetCoupling(coupling)
	seq.SetTraits(genre.Traits(params.Genre, params.FieldX, params.FieldY))
	if req.Tempo > 0 {
		seq.SetTempo(req.Tempo)
	}
	if req.PhraseBars > 0 {
		seq.SetPhraseBars(req.PhraseBars)
	}

	resp := PhraseResponse{Tempo: seq.Tempo(), Bars: make([]BarResponse, 0, req.Bars)}
	for i := 0; i < req.Bars; i++ {
		bar, err := seq.NextBar()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Bars = append(resp.Bars, barResponse(i, &bar))
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleSweep generates one bar per point across a parameter range.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Steps < 2 || req.Steps > maxSweepSteps {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("steps must be 2-%d", maxSweepSteps))
		return
	}

	params, err := req.toParams()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := SweepResponse{Param: req.Param, Points: make([]SweepPoint, 0, req.Steps)}
	for i := 0; i < req.Steps; i++ {
		value := req.From + (req.To-req.From)*float64(i)/float64(req.Steps-1)

		p := params
		if err := setSweepParam(&p, req.Param, value); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := engine.GeneratePattern(p)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		resp.Points = append(resp.Points, SweepPoint{
			Value:       value,
			AnchorHits:  result.AnchorMask.Count(),
			ShimmerHits: result.ShimmerMask.Count(),
			AuxHits:     result.AuxMask.Count(),
			AnchorMask:  maskHex(result.AnchorMask),
			ShimmerMask: maskHex(result.ShimmerMask),
			AuxMask:     maskHex(result.AuxMask),
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleGenres lists the three archetype grids.
func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	grids := make(map[string][]ArchetypeResponse, parameter.GenreCount)

	for g := engine.GenreTechno; g <= engine.GenreIDM; g++ {
		grid := genre.Grid(g)
		cells := make([]ArchetypeResponse, 0, len(grid))
		for _, a := range grid {
			cells = append(cells, ArchetypeResponse{
				Name:           a.Name,
				SwingAmount:    a.SwingAmount,
				SwingPattern:   a.SwingPattern,
				DefaultCouple:  a.DefaultCouple,
				FillMultiplier: a.FillMultiplier,
			})
		}
		grids[g.String()] = cells
	}

	s.writeJSON(w, http.StatusOK, grids)
}

// handleGenreTraits resolves a genre field at the queried position.
func (s *Server) handleGenreTraits(w http.ResponseWriter, r *http.Request) {
	g, err := engine.ParseGenre(chi.URLParam(r, "genre"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	x := queryFloat(r, "x")
	y := queryFloat(r, "y")

	traits := genre.Traits(g, x, y)
	anchor, shimmer, aux := genre.Profile(g, x, y)

	s.writeJSON(w, http.StatusOK, TraitsResponse{
		Genre:             g.String(),
		Archetype:         genre.ArchetypeAt(g, x, y).Name,
		SwingAmount:       traits.SwingAmount,
		SwingPattern:      traits.SwingPattern,
		DefaultCouple:     traits.DefaultCouple,
		FillMultiplier:    traits.FillDensityMultiplier,
		AnchorAccentMask:  maskHex(traits.AnchorAccentMask),
		ShimmerAccentMask: maskHex(traits.ShimmerAccentMask),
		RatchetMask:       maskHex(traits.RatchetEligibleMask),
		AnchorProfile:     anchor[:],
		ShimmerProfile:    shimmer[:],
		AuxProfile:        aux[:],
	})
}

func (req *PatternRequest) toParams() (engine.Params, error) {
	g, err := engine.ParseGenre(req.Genre)
	if err != nil {
		return engine.Params{}, err
	}

	length := req.Length
	if length == 0 {
		length = parameter.StepsPerBar
	}
	if length < 1 || length > parameter.MaxSteps {
		return engine.Params{}, fmt.Errorf("length must be 1-%d", parameter.MaxSteps)
	}

	return engine.Params{
		Energy:     req.Energy,
		Shape:      req.Shape,
		Balance:    req.Balance,
		Flavor:     req.Flavor,
		Drift:      req.Drift,
		Accent:     req.Accent,
		Genre:      g,
		FieldX:     req.FieldX,
		FieldY:     req.FieldY,
		Length:     length,
		Seed:       req.Seed,
		AuxDensity: req.AuxDensity,
	}, nil
}

func setSweepParam(p *engine.Params, name string, value float64) error {
	switch name {
	case "energy":
		p.Energy = value
	case "shape":
		p.Shape = value
	case "balance":
		p.Balance = value
	case "flavor":
		p.Flavor = value
	case "drift":
		p.Drift = value
	case "accent":
		p.Accent = value
	case "aux_density":
		p.AuxDensity = value
	case "field_x":
		p.FieldX = value
	case "field_y":
		p.FieldY = value
	default:
		return fmt.Errorf("unknown sweep param %q", name)
	}
	return nil
}

func queryFloat(r *http.Request, key string) float64 {
	var v float64
	fmt.Sscanf(r.URL.Query().Get(key), "%g", &v)
	return v
}

func maskHex(m engine.StepMask) string {
	return fmt.Sprintf("%016X", uint64(m))
}

func patternResponse(p engine.Params, result *engine.PatternResult) PatternResponse {
	return PatternResponse{
		Length:  result.Length,
		Seed:    p.Seed,
		Genre:   p.Genre.String(),
		Anchor:  voicePattern(result.AnchorMask, result.AnchorVelocity[:], result.Length),
		Shimmer: voicePattern(result.ShimmerMask, result.ShimmerVelocity[:], result.Length),
		Aux:     voicePattern(result.AuxMask, result.AuxVelocity[:], result.Length),
	}
}

func voicePattern(mask engine.StepMask, velocities []float64, length int) VoicePattern {
	vp := VoicePattern{
		Mask:       maskHex(mask),
		Steps:      mask.Steps(),
		Velocities: make([]float64, length),
	}
	copy(vp.Velocities, velocities[:length])
	return vp
}

func barResponse(index int, bar *engine.BarResult) BarResponse {
	resp := BarResponse{
		Bar:      index,
		Seed:     bar.Seed,
		Fill:     bar.Fill,
		Build:    bar.Position.IsBuild,
		Progress: bar.Position.Progress,
		Events:   make([]EventResponse, 0, len(bar.Events)),
	}

	for _, ev := range bar.Events {
		e := EventResponse{
			Step:    ev.Step,
			AuxGate: ev.AuxGate,
			AuxCV:   ev.AuxCV,
		}
		if ev.AnchorHit {
			e.Anchor = &HitResponse{Velocity: ev.AnchorVelocity, Offset: ev.AnchorOffset}
		}
		if ev.ShimmerHit {
			e.Shimmer = &HitResponse{Velocity: ev.ShimmerVelocity, Offset: ev.ShimmerOffset}
		}
		if ev.AuxHit {
			e.Aux = &HitResponse{Velocity: ev.AuxVelocity, Offset: ev.AuxOffset}
		}
		resp.Events = append(resp.Events, e)
	}

	return resp
}
