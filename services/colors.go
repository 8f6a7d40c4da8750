package services

import "math/rand"

// Tailwind-style palette assigned to new categories, tags and series so the
// frontend renders them consistently without storing presentation config.
var palette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#f59e0b", // amber
	"#eab308", // yellow
	"#84cc16", // lime
	"#22c55e", // green
	"#10b981", // emerald
	"#14b8a6", // teal
	"#06b6d4", // cyan
	"#0ea5e9", // sky
	"#3b82f6", // blue
	"#6366f1", // indigo
	"#8b5cf6", // violet
	"#a855f7", // purple
	"#d946ef", // fuchsia
	"#ec4899", // pink
}

// ColorPicker hands out palette colors at random. The source is injectable so
// tests get deterministic assignments.
type ColorPicker struct {
	rng *rand.Rand
}

func NewColorPicker(rng *rand.Rand) *ColorPicker {
	return &ColorPicker{rng: rng}
}

func (p *ColorPicker) Pick() string {
	return palette[p.rng.Intn(len(palette))]
}
