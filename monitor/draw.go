package monitor

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/chronick/duopulse-sub001/genre"
	"github.com/chronick/duopulse-sub001/parameter"
)

const (
	headerRow    = 0
	paramsRow    = 2
	gridRulerRow = paramsRow + rowCount + 1
	gridRow      = gridRulerRow + 1
	footerOffset = 2
	meterWidth   = 20
	labelWidth   = 9
)

var voiceColors = [3]tcell.Color{
	tcell.ColorGreen,
	tcell.ColorBlue,
	tcell.ColorYellow,
}

func (m *Monitor) draw() {
	m.screen.Clear()

	m.drawHeader()
	m.drawParams()
	m.drawGrid()
	m.drawFooter()

	m.screen.Show()
}

func (m *Monitor) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		if x+i >= m.width {
			return
		}
		m.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (m *Monitor) drawHeader() {
	state := "paused"
	if m.playing {
		state = "playing"
	}

	header := fmt.Sprintf("duopulse  bar %d  seed %08X  %s/%s  %.1f bpm  %s",
		m.seq.Bar(), m.bar.Seed, m.g, genre.ArchetypeAt(m.g, m.fieldX, m.fieldY).Name,
		m.seq.Tempo(), state)
	m.drawText(1, headerRow, header, tcell.StyleDefault.Bold(true))

	if m.bar.Fill {
		m.drawText(1+len(header)+2, headerRow, "FILL",
			tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	}
}

func (m *Monitor) drawParams() {
	for row := 0; row < rowCount; row++ {
		y := paramsRow + row
		style := tcell.StyleDefault
		marker := "  "
		if row == m.cursor {
			style = style.Reverse(true)
			marker = "> "
		}

		value := m.rowValue(row)
		norm := value
		if row == rowTempo {
			norm = (value - parameter.MinBPM) / (parameter.MaxBPM - parameter.MinBPM)
		}

		filled := int(norm * meterWidth)
		if filled > meterWidth {
			filled = meterWidth
		}
		if filled < 0 {
			filled = 0
		}

		meter := make([]rune, meterWidth)
		for i := range meter {
			if i < filled {
				meter[i] = '='
			} else {
				meter[i] = '-'
			}
		}

		text := fmt.Sprintf("%s%-8s [%s] %6.2f", marker, rowNames[row], string(meter), value)
		m.drawText(1, y, text, style)
	}
}

// drawGrid renders the three voice rows, one cell per step, glyph and
// brightness following velocity, with the playhead column reversed.
func (m *Monitor) drawGrid() {
	length := len(m.bar.Events)
	if length == 0 {
		return
	}

	// Beat ruler
	for i := 0; i < length; i++ {
		r := ' '
		if i%16 == 0 {
			r = '|'
		} else if i%4 == 0 {
			r = '.'
		}
		m.screen.SetContent(labelWidth+i, gridRulerRow, r, nil,
			tcell.StyleDefault.Foreground(tcell.ColorGray))
	}

	labels := [3]string{"anchor", "shimmer", "aux"}
	for v := 0; v < 3; v++ {
		y := gridRow + v
		m.drawText(1, y, labels[v], tcell.StyleDefault.Foreground(voiceColors[v]))

		for i := 0; i < length; i++ {
			ev := m.bar.Events[i]

			var hit bool
			var vel float64
			switch v {
			case 0:
				hit, vel = ev.AnchorHit, ev.AnchorVelocity
			case 1:
				hit, vel = ev.ShimmerHit, ev.ShimmerVelocity
			case 2:
				hit, vel = ev.AuxHit, ev.AuxVelocity
			}

			r := '·'
			style := tcell.StyleDefault.Foreground(tcell.ColorGray)
			if hit {
				r = velocityGlyph(vel)
				style = tcell.StyleDefault.Foreground(voiceColors[v])
				if vel >= 0.9 {
					style = style.Bold(true)
				}
			}
			if i == m.step && m.playing {
				style = style.Reverse(true)
			}

			m.screen.SetContent(labelWidth+i, y, r, nil, style)
		}
	}
}

func velocityGlyph(vel float64) rune {
	switch {
	case vel >= 0.75:
		return '█'
	case vel >= 0.45:
		return '▒'
	default:
		return '░'
	}
}

func (m *Monitor) drawFooter() {
	y := gridRow + 3 + footerOffset
	help := "space play  j/k select  h/l adjust  n bar  g genre  r reseed  m mute  q quit"
	m.drawText(1, y, help, tcell.StyleDefault.Foreground(tcell.ColorGray))

	if m.status != "" && time.Since(m.statusTime).Milliseconds() < statusDisplayMs {
		m.drawText(1, y+1, m.status, tcell.StyleDefault.Foreground(tcell.ColorTeal))
	}
}
