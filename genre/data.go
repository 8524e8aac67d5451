package genre

import (
	"github.com/chronick/duopulse-sub001/engine"
	"github.com/chronick/duopulse-sub001/parameter"
)

type floatTable = [parameter.ArchetypesPerGenre]float64
type intTable = [parameter.ArchetypesPerGenre]int
type maskTable = [parameter.ArchetypesPerGenre]uint32

// Grid rows run bottom to top with fieldY: restrained, grooving, dense.
var archetypeNames = [parameter.ArchetypesPerGenre]string{
	"Minimal", "Steady", "Displaced",
	"Driving", "Groovy", "Broken",
	"Busy", "Polyrhythm", "Chaos",
}

const defaultShimmerAccent uint32 = 0x01000100

func buildGrid(swing floatTable, pattern intTable, couple, fill floatTable, accent, ratchet maskTable) [parameter.ArchetypesPerGenre]Archetype {
	var grid [parameter.ArchetypesPerGenre]Archetype
	for i := range grid {
		grid[i] = Archetype{
			Name:           archetypeNames[i],
			AnchorWeights:  anchorProfile(),
			ShimmerWeights: shimmerProfile(),
			AuxWeights:     auxProfile(),
			AnchorAccent:   extendMask(accent[i]),
			ShimmerAccent:  extendMask(defaultShimmerAccent),
			Ratchet:        extendMask(ratchet[i]),
			SwingAmount:    swing[i],
			SwingPattern:   pattern[i],
			DefaultCouple:  couple[i],
			FillMultiplier: fill[i],
		}
	}
	return grid
}

var technoGrid = buildGrid(
	floatTable{
		0, 0.1, 0.2,
		0, 0.3, 0.4,
		0, 0.2, 0.5,
	},
	intTable{
		0, 0, 1,
		0, 1, 2,
		1, 1, 2,
	},
	floatTable{
		0.20, 0.25, 0.30,
		0.35, 0.40, 0.45,
		0.50, 0.55, 0.60,
	},
	floatTable{
		1.2, 1.3, 1.4,
		1.3, 1.5, 1.6,
		1.5, 1.7, 2.0,
	},
	maskTable{
		0x01010101, 0x01010101, 0x01010101,
		0x01010101, 0x11111111, 0x55555555,
		0x11111111, 0x55555555, 0xFFFFFFFF,
	},
	maskTable{
		0x00000000, 0x01010101, 0x01010101,
		0x01010101, 0x11111111, 0x55555555,
		0x11111111, 0x55555555, 0xFFFFFFFF,
	},
)

var tribalGrid = buildGrid(
	floatTable{
		0.2, 0.3, 0.4,
		0.2, 0.4, 0.5,
		0.3, 0.4, 0.6,
	},
	intTable{
		1, 1, 2,
		1, 2, 2,
		1, 2, 2,
	},
	floatTable{
		0.30, 0.35, 0.40,
		0.45, 0.50, 0.55,
		0.60, 0.65, 0.70,
	},
	floatTable{
		1.3, 1.4, 1.5,
		1.5, 1.6, 1.7,
		1.8, 1.9, 2.0,
	},
	maskTable{
		0x01010101, 0x11111111, 0x11111111,
		0x11111111, 0x55555555, 0x55555555,
		0x55555555, 0xAAAAAAAA, 0xFFFFFFFF,
	},
	maskTable{
		0x01010101, 0x01010101, 0x11111111,
		0x11111111, 0x11111111, 0x55555555,
		0x55555555, 0x55555555, 0xFFFFFFFF,
	},
)

var idmGrid = buildGrid(
	floatTable{
		0.3, 0.4, 0.5,
		0.3, 0.5, 0.6,
		0.4, 0.5, 0.7,
	},
	intTable{
		2, 2, 2,
		2, 2, 2,
		2, 2, 2,
	},
	floatTable{
		0.40, 0.45, 0.50,
		0.55, 0.60, 0.65,
		0.70, 0.75, 0.80,
	},
	floatTable{
		1.4, 1.5, 1.6,
		1.6, 1.8, 1.9,
		2.0, 2.1, 2.2,
	},
	maskTable{
		0x11111111, 0x11111111, 0x55555555,
		0x55555555, 0x55555555, 0xAAAAAAAA,
		0xAAAAAAAA, 0xFFFFFFFF, 0xFFFFFFFF,
	},
	maskTable{
		0x01010101, 0x11111111, 0x11111111,
		0x55555555, 0x55555555, 0xAAAAAAAA,
		0xAAAAAAAA, 0xFFFFFFFF, 0xFFFFFFFF,
	},
)

// Grid returns a genre's archetype grid.
func Grid(g engine.Genre) *[parameter.ArchetypesPerGenre]Archetype {
	switch g {
	case engine.GenreTribal:
		return &tribalGrid
	case engine.GenreIDM:
		return &idmGrid
	}
	return &technoGrid
}
