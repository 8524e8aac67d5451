package monitor

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/chronick/duopulse-sub001/audio"
	"github.com/chronick/duopulse-sub001/engine"
	"github.com/chronick/duopulse-sub001/genre"
	"github.com/chronick/duopulse-sub001/parameter"
)

// Parameter rows the cursor walks, top to bottom.
const (
	rowEnergy = iota
	rowShape
	rowBalance
	rowFlavor
	rowDrift
	rowFieldX
	rowFieldY
	rowTempo
	rowCount
)

var rowNames = [rowCount]string{
	"energy",
	"shape",
	"balance",
	"flavor",
	"drift",
	"field x",
	"field y",
	"tempo",
}

const (
	statusDisplayMs = 3000
	tempoStep       = 2.0
	paramStep       = 0.05
)

// Monitor is the interactive pattern surface: it renders the live bar
// as a three-voice grid, lets the cursor adjust performance inputs,
// and optionally auditions each bar through the audio engine.
type Monitor struct {
	screen tcell.Screen
	width  int
	height int

	seq *engine.Sequencer
	out *audio.AudioEngine

	bar      engine.BarResult
	step     int
	playing  bool
	lastStep time.Time

	g      engine.Genre
	fieldX float64
	fieldY float64

	cursor     int
	status     string
	statusTime time.Time
}

// New initializes the screen and pulls the first bar. The audio engine
// is optional; a nil out runs the monitor silent.
func New(screen tcell.Screen, seq *engine.Sequencer, out *audio.AudioEngine) (*Monitor, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}

	m := &Monitor{
		screen: screen,
		seq:    seq,
		out:    out,
		g:      seq.Params().Genre,
		fieldX: seq.Params().FieldX,
		fieldY: seq.Params().FieldY,
	}
	m.width, m.height = screen.Size()
	m.applyTraits()

	bar, err := seq.NextBar()
	if err != nil {
		screen.Fini()
		return nil, err
	}
	m.bar = bar

	return m, nil
}

// Run drives the input and playback loop until the user quits.
func (m *Monitor) Run() error {
	defer m.screen.Fini()

	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- m.screen.PollEvent()
		}
	}()

	m.draw()
	for {
		select {
		case ev := <-eventChan:
			if !m.handleInput(ev) {
				return nil
			}
			m.draw()

		case <-ticker.C:
			if m.playing && time.Since(m.lastStep) >= m.stepDuration() {
				if err := m.advance(); err != nil {
					return err
				}
				m.lastStep = time.Now()
			}
			m.draw()
		}
	}
}

func (m *Monitor) stepDuration() time.Duration {
	return time.Duration(float64(time.Minute) / (m.seq.Tempo() * parameter.StepsPerBeat))
}

// advance moves the playhead one step, pulling the next bar at the
// boundary and firing the audition voices.
func (m *Monitor) advance() error {
	m.step++
	if m.step >= len(m.bar.Events) {
		bar, err := m.seq.NextBar()
		if err != nil {
			return err
		}
		m.bar = bar
		m.step = 0
	}
	m.trigger(m.bar.Events[m.step])
	return nil
}

func (m *Monitor) trigger(ev engine.StepEvent) {
	if m.out == nil {
		return
	}
	if ev.AnchorHit {
		m.out.TriggerAnchor(ev.AnchorVelocity)
	}
	if ev.ShimmerHit {
		m.out.TriggerShimmer(ev.ShimmerVelocity)
	}
	if ev.AuxHit {
		m.out.TriggerAux(ev.AuxVelocity)
	}
}

func (m *Monitor) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			m.moveCursor(-1)
		case tcell.KeyDown:
			m.moveCursor(1)
		case tcell.KeyLeft:
			m.adjust(-1)
		case tcell.KeyRight:
			m.adjust(1)
		case tcell.KeyRune:
			return m.handleRune(ev.Rune())
		}

	case *tcell.EventResize:
		m.handleResize()
	}

	return true
}

func (m *Monitor) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		m.playing = !m.playing
		m.lastStep = time.Now()
	case 'k':
		m.moveCursor(-1)
	case 'j':
		m.moveCursor(1)
	case 'h':
		m.adjust(-1)
	case 'l':
		m.adjust(1)
	case 'n':
		m.stepBar()
	case 'r':
		m.seq.RequestReseed()
		m.setStatus("reseed queued for next phrase")
	case 'g':
		m.cycleGenre()
	case 'm':
		m.toggleMute()
	}
	return true
}

func (m *Monitor) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= rowCount {
		m.cursor = rowCount - 1
	}
}

// adjust nudges the selected row by direction*step and pushes the
// change into the sequencer.
func (m *Monitor) adjust(direction int) {
	if m.cursor == rowTempo {
		tempo := m.seq.Tempo() + float64(direction)*tempoStep
		if tempo < parameter.MinBPM {
			tempo = parameter.MinBPM
		}
		if tempo > parameter.MaxBPM {
			tempo = parameter.MaxBPM
		}
		m.seq.SetTempo(tempo)
		m.setStatus(fmt.Sprintf("tempo %.1f bpm", tempo))
		return
	}

	delta := float64(direction) * paramStep
	p := m.seq.Params()

	switch m.cursor {
	case rowEnergy:
		p.Energy = clamp01(p.Energy + delta)
	case rowShape:
		p.Shape = clamp01(p.Shape + delta)
	case rowBalance:
		p.Balance = clamp01(p.Balance + delta)
	case rowFlavor:
		p.Flavor = clamp01(p.Flavor + delta)
	case rowDrift:
		p.Drift = clamp01(p.Drift + delta)
	case rowFieldX:
		m.fieldX = clamp01(m.fieldX + delta)
		p.FieldX = m.fieldX
	case rowFieldY:
		m.fieldY = clamp01(m.fieldY + delta)
		p.FieldY = m.fieldY
	}

	m.seq.SetParams(p)
	if m.cursor == rowFieldX || m.cursor == rowFieldY {
		m.applyTraits()
	}
	m.setStatus(fmt.Sprintf("%s %.2f", rowNames[m.cursor], m.rowValue(m.cursor)))
}

func (m *Monitor) rowValue(row int) float64 {
	p := m.seq.Params()
	switch row {
	case rowEnergy:
		return p.Energy
	case rowShape:
		return p.Shape
	case rowBalance:
		return p.Balance
	case rowFlavor:
		return p.Flavor
	case rowDrift:
		return p.Drift
	case rowFieldX:
		return m.fieldX
	case rowFieldY:
		return m.fieldY
	case rowTempo:
		return m.seq.Tempo()
	}
	return 0
}

// stepBar pulls a whole bar immediately, playhead back to step zero.
func (m *Monitor) stepBar() {
	bar, err := m.seq.NextBar()
	if err != nil {
		m.setStatus(err.Error())
		return
	}
	m.bar = bar
	m.step = 0
}

func (m *Monitor) cycleGenre() {
	m.g = (m.g + 1) % parameter.GenreCount

	p := m.seq.Params()
	p.Genre = m.g
	m.seq.SetParams(p)
	m.applyTraits()

	m.setStatus(fmt.Sprintf("genre %s / %s", m.g, genre.ArchetypeAt(m.g, m.fieldX, m.fieldY).Name))
}

func (m *Monitor) toggleMute() {
	if m.out == nil {
		m.setStatus("no audio engine")
		return
	}
	if m.out.ToggleMute() {
		m.setStatus("audio on")
	} else {
		m.setStatus("audio muted")
	}
}

// applyTraits resolves the genre field at the current position and
// hands the result to the sequencer.
func (m *Monitor) applyTraits() {
	m.seq.SetTraits(genre.Traits(m.g, m.fieldX, m.fieldY))
}

func (m *Monitor) handleResize() {
	m.width, m.height = m.screen.Size()
}

func (m *Monitor) setStatus(s string) {
	m.status = s
	m.statusTime = time.Now()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
