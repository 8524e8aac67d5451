package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/chronick/duopulse-sub001/audio"
	"github.com/chronick/duopulse-sub001/engine"
	"github.com/chronick/duopulse-sub001/genre"
	"github.com/chronick/duopulse-sub001/monitor"
	"github.com/chronick/duopulse-sub001/parameter"
	"github.com/chronick/duopulse-sub001/server"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "duopulse",
	Short: "Deterministic pattern engine for a two-voice drum machine",
	Long: `Duopulse turns a handful of performance controls into per-bar drum
patterns: hit masks, velocities, and micro-timing offsets for an anchor
voice, a shimmer voice, and an aux channel.

The same seed and controls always produce the same bar.`,
	Version: version,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate bars and print them",
	Long: `Generate one or more bars from the given controls and print them
as a step grid or as JSON.

Examples:
  duopulse generate --energy 0.6 --genre tribal
  duopulse generate --bars 4 --drift 0.3 --seed 0xBEEF
  duopulse generate --fill --fill-progress 0.8 --json`,
	RunE: runGenerate,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play patterns through the audio device",
	Long: `Render bars with the built-in drum voices and play them through
the default audio device. Without --bars it plays until interrupted.

Examples:
  duopulse play --bars 8 --tempo 128
  duopulse play --genre idm --energy 0.7 --drift 0.4`,
	RunE: runPlay,
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive terminal pattern monitor",
	Long: `Open a terminal UI that steps through bars, draws the step grid
live, and maps keys to the performance controls.

Keys: space plays, j/k select a control, h/l adjust it, g cycles the
genre, n steps one bar, r reseeds, m mutes audio, q quits.`,
	RunE: runMonitor,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Trace pattern changes across one control",
	Long: `Generate one bar per point along a control range and print how
the three voices respond.

Example:
  duopulse sweep --param energy --from 0.1 --to 0.9 --steps 9`,
	RunE: runSweep,
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List genres and their archetype grids",
	RunE:  runGenres,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP pattern service",
	Long: `Start the HTTP service that exposes pattern generation, phrase
rendering, sweeps, and the genre grids.

Example:
  duopulse serve --port 8080`,
	RunE: runServe,
}

var (
	// pattern control flags
	energy     float64
	shape      float64
	balance    float64
	flavor     float64
	drift      float64
	accent     float64
	genreName  string
	fieldX     float64
	fieldY     float64
	length     int
	seed       uint32
	auxDensity float64
	auxMode    string
	coupling   string
	tempo      float64
	phraseBars int

	// generate flags
	genBars      int
	fill         bool
	fillProgress float64
	asJSON       bool

	// play flags
	playBars int

	// monitor flags
	silent bool

	// sweep flags
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int

	// serve flags
	port int
)

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(serveCmd)

	for _, cmd := range []*cobra.Command{generateCmd, playCmd, monitorCmd, sweepCmd} {
		addPatternFlags(cmd)
	}

	generateCmd.Flags().IntVar(&genBars, "bars", 1, "Number of bars to generate")
	generateCmd.Flags().BoolVar(&fill, "fill", false, "Generate a single fill bar instead")
	generateCmd.Flags().Float64Var(&fillProgress, "fill-progress", 0.5, "Position inside the fill (0-1)")
	generateCmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of the step grid")

	playCmd.Flags().IntVar(&playBars, "bars", 0, "Bars to play (0 plays until interrupted)")

	monitorCmd.Flags().BoolVar(&silent, "silent", false, "Run without audio output")

	sweepCmd.Flags().StringVar(&sweepParam, "param", "energy", "Control to sweep (energy, shape, balance, flavor, drift, accent, aux_density, field_x, field_y)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "Range start")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1, "Range end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "Number of points")

	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
}

func addPatternFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&energy, "energy", 0.5, "Hit density control (0-1)")
	f.Float64Var(&shape, "shape", 0.4, "Grid character, four-square to syncopated (0-1)")
	f.Float64Var(&balance, "balance", 0.5, "Anchor/shimmer balance (0-1)")
	f.Float64Var(&flavor, "flavor", 0.2, "Velocity character (0-1)")
	f.Float64Var(&drift, "drift", 0, "Bar-to-bar variation amount (0-1)")
	f.Float64Var(&accent, "accent", 0.3, "Accent depth (0-1)")
	f.StringVar(&genreName, "genre", "techno", "Genre (techno, tribal, idm)")
	f.Float64Var(&fieldX, "field-x", 0.5, "Genre field X position (0-1)")
	f.Float64Var(&fieldY, "field-y", 0.5, "Genre field Y position (0-1)")
	f.IntVar(&length, "length", parameter.StepsPerBar, "Steps per bar (1-64)")
	f.Uint32Var(&seed, "seed", 1, "Pattern seed (0x prefix for hex)")
	f.Float64Var(&auxDensity, "aux-density", 1, "Aux budget multiplier")
	f.StringVar(&auxMode, "aux-mode", "hat", "Aux channel mode (hat, fill-gate, phrase-cv, event)")
	f.StringVar(&coupling, "coupling", "independent", "Shimmer coupling (independent, interlock, shadow)")
	f.Float64Var(&tempo, "tempo", 0, "Tempo in BPM (0 uses the default)")
	f.IntVar(&phraseBars, "phrase-bars", parameter.DefaultPhraseBars, "Bars per phrase")
}

func paramsFromFlags() (engine.Params, error) {
	g, err := engine.ParseGenre(genreName)
	if err != nil {
		return engine.Params{}, err
	}

	if length < 1 || length > parameter.MaxSteps {
		return engine.Params{}, fmt.Errorf("invalid length %d (must be 1-%d)", length, parameter.MaxSteps)
	}

	return engine.Params{
		Energy:     energy,
		Shape:      shape,
		Balance:    balance,
		Flavor:     flavor,
		Drift:      drift,
		Accent:     accent,
		Genre:      g,
		FieldX:     fieldX,
		FieldY:     fieldY,
		Length:     length,
		Seed:       seed,
		AuxDensity: auxDensity,
	}, nil
}

func sequencerFromFlags() (*engine.Sequencer, error) {
	params, err := paramsFromFlags()
	if err != nil {
		return nil, err
	}

	mode, err := engine.ParseAuxMode(auxMode)
	if err != nil {
		return nil, err
	}

	couple, err := engine.ParseCoupling(coupling)
	if err != nil {
		return nil, err
	}

	seq := engine.NewSequencer(params)
	seq.SetAuxMode(mode)
	seq.SetCoupling(couple)
	seq.SetTraits(genre.Traits(params.Genre, fieldX, fieldY))
	if tempo > 0 {
		seq.SetTempo(tempo)
	}
	if phraseBars > 0 {
		seq.SetPhraseBars(phraseBars)
	}
	return seq, nil
}

type hitJSON struct {
	Velocity float64 `json:"velocity"`
	Offset   int     `json:"offset"`
}

type eventJSON struct {
	Step    int      `json:"step"`
	Anchor  *hitJSON `json:"anchor,omitempty"`
	Shimmer *hitJSON `json:"shimmer,omitempty"`
	Aux     *hitJSON `json:"aux,omitempty"`
	AuxGate bool     `json:"aux_gate,omitempty"`
	AuxCV   float64  `json:"aux_cv,omitempty"`
}

type barJSON struct {
	Bar    int         `json:"bar"`
	Seed   uint32      `json:"seed"`
	Fill   bool        `json:"fill"`
	Events []eventJSON `json:"events"`
}

type voiceJSON struct {
	Mask       string    `json:"mask"`
	Steps      []int     `json:"steps"`
	Velocities []float64 `json:"velocities"`
}

type patternJSON struct {
	Length  int       `json:"length"`
	Seed    uint32    `json:"seed"`
	Anchor  voiceJSON `json:"anchor"`
	Shimmer voiceJSON `json:"shimmer"`
	Aux     voiceJSON `json:"aux"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if fill {
		return generateFill()
	}

	seq, err := sequencerFromFlags()
	if err != nil {
		return err
	}

	if genBars < 1 {
		return fmt.Errorf("bars must be at least 1")
	}

	bars := make([]barJSON, 0, genBars)
	for i := 0; i < genBars; i++ {
		bar, err := seq.NextBar()
		if err != nil {
			return err
		}
		if asJSON {
			bars = append(bars, barToJSON(i, &bar))
		} else {
			printBar(i, &bar)
		}
	}

	if asJSON {
		return emitJSON(bars)
	}
	return nil
}

func generateFill() error {
	params, err := paramsFromFlags()
	if err != nil {
		return err
	}

	result, err := engine.GenerateFillPattern(params, fillProgress)
	if err != nil {
		return err
	}

	if asJSON {
		return emitJSON(patternToJSON(params.Seed, &result))
	}

	fmt.Printf("fill  seed %08X  progress %.2f\n", params.Seed, fillProgress)
	printVoices(&result)
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg := audio.LoadConfig()
	if tempo > 0 {
		cfg.Tempo = tempo
		if err := audio.SaveConfig(cfg); err != nil {
			return fmt.Errorf("save audio config: %w", err)
		}
	}

	out := audio.NewAudioEngine(cfg)
	if err := out.Start(); err != nil {
		return fmt.Errorf("start audio: %w", err)
	}
	defer out.Stop()
	if !out.IsEnabled() {
		fmt.Println("Audio output unavailable, continuing silent")
	}

	seq, err := sequencerFromFlags()
	if err != nil {
		return err
	}
	seq.SetTempo(cfg.Tempo)

	fmt.Printf("Playing %s at %.1f BPM (seed %08X)\n", genreName, seq.Tempo(), seed)

	bars := playBars
	if bars <= 0 {
		bars = -1
		fmt.Println("Press Ctrl-C to stop")
	}

	player := audio.NewPlayer(seq, out)
	if err := player.RunBars(ctx, bars); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

func runMonitor(cmd *cobra.Command, args []string) error {
	seq, err := sequencerFromFlags()
	if err != nil {
		return err
	}

	var out *audio.AudioEngine
	if !silent {
		out = audio.NewAudioEngine(audio.LoadConfig())
		if err := out.Start(); err != nil {
			return fmt.Errorf("start audio: %w", err)
		}
		defer out.Stop()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}

	m, err := monitor.New(screen, seq, out)
	if err != nil {
		return fmt.Errorf("create monitor: %w", err)
	}
	return m.Run()
}

func runSweep(cmd *cobra.Command, args []string) error {
	if sweepSteps < 2 {
		return fmt.Errorf("steps must be at least 2")
	}

	params, err := paramsFromFlags()
	if err != nil {
		return err
	}

	fmt.Printf("%8s  anchor shimmer aux\n", sweepParam)
	for i := 0; i < sweepSteps; i++ {
		value := sweepFrom + (sweepTo-sweepFrom)*float64(i)/float64(sweepSteps-1)

		p := params
		if err := setParam(&p, sweepParam, value); err != nil {
			return err
		}

		result, err := engine.GeneratePattern(p)
		if err != nil {
			return err
		}

		fmt.Printf("%8.3f  %6d %7d %3d  %s\n",
			value,
			result.AnchorMask.Count(),
			result.ShimmerMask.Count(),
			result.AuxMask.Count(),
			voiceCells(result.AnchorMask, result.AnchorVelocity[:], result.Length))
	}
	return nil
}

func runGenres(cmd *cobra.Command, args []string) error {
	for g := engine.GenreTechno; g <= engine.GenreIDM; g++ {
		fmt.Println(g)
		for _, a := range genre.Grid(g) {
			fmt.Printf("  %-12s swing %.2f  pattern %d  couple %.2f  fill x%.1f\n",
				a.Name, a.SwingAmount, a.SwingPattern, a.DefaultCouple, a.FillMultiplier)
		}
		fmt.Println()
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	return server.New(server.Config{Port: port}).Run()
}

func setParam(p *engine.Params, name string, value float64) error {
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

// voiceCells renders one voice as a step grid, one rune per step with a
// space between beats. Accented hits print as X, plain hits as x.
func voiceCells(mask engine.StepMask, velocities []float64, length int) string {
	var b strings.Builder
	b.WriteByte('|')
	for i := 0; i < length; i++ {
		if i > 0 && i%parameter.StepsPerBeat == 0 {
			b.WriteByte(' ')
		}
		switch {
		case !mask.Has(i):
			b.WriteByte('-')
		case velocities[i] >= 0.75:
			b.WriteByte('X')
		default:
			b.WriteByte('x')
		}
	}
	b.WriteByte('|')
	return b.String()
}

func printVoices(result *engine.PatternResult) {
	fmt.Printf("  %-8s %s\n", "anchor", voiceCells(result.AnchorMask, result.AnchorVelocity[:], result.Length))
	fmt.Printf("  %-8s %s\n", "shimmer", voiceCells(result.ShimmerMask, result.ShimmerVelocity[:], result.Length))
	fmt.Printf("  %-8s %s\n", "aux", voiceCells(result.AuxMask, result.AuxVelocity[:], result.Length))
}

func printBar(index int, bar *engine.BarResult) {
	header := fmt.Sprintf("bar %d  seed %08X", index+1, bar.Seed)
	if bar.Fill {
		header += "  fill"
	} else if bar.Position.IsBuild {
		header += "  build"
	}
	fmt.Println(header)
	printVoices(&bar.Pattern)
	fmt.Println()
}

func barToJSON(index int, bar *engine.BarResult) barJSON {
	out := barJSON{
		Bar:    index + 1,
		Seed:   bar.Seed,
		Fill:   bar.Fill,
		Events: make([]eventJSON, 0, len(bar.Events)),
	}

	for _, ev := range bar.Events {
		e := eventJSON{
			Step:    ev.Step,
			AuxGate: ev.AuxGate,
			AuxCV:   ev.AuxCV,
		}
		if ev.AnchorHit {
			e.Anchor = &hitJSON{Velocity: ev.AnchorVelocity, Offset: ev.AnchorOffset}
		}
		if ev.ShimmerHit {
			e.Shimmer = &hitJSON{Velocity: ev.ShimmerVelocity, Offset: ev.ShimmerOffset}
		}
		if ev.AuxHit {
			e.Aux = &hitJSON{Velocity: ev.AuxVelocity, Offset: ev.AuxOffset}
		}
		out.Events = append(out.Events, e)
	}
	return out
}

func patternToJSON(patternSeed uint32, result *engine.PatternResult) patternJSON {
	return patternJSON{
		Length:  result.Length,
		Seed:    patternSeed,
		Anchor:  voiceJSONFrom(result.AnchorMask, result.AnchorVelocity[:], result.Length),
		Shimmer: voiceJSONFrom(result.ShimmerMask, result.ShimmerVelocity[:], result.Length),
		Aux:     voiceJSONFrom(result.AuxMask, result.AuxVelocity[:], result.Length),
	}
}

func voiceJSONFrom(mask engine.StepMask, velocities []float64, length int) voiceJSON {
	v := voiceJSON{
		Mask:       fmt.Sprintf("%016X", uint64(mask)),
		Steps:      mask.Steps(),
		Velocities: make([]float64, length),
	}
	copy(v.Velocities, velocities[:length])
	return v
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
