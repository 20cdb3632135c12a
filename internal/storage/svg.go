package storage

import (
	"fmt"
	"strings"

	"breathe/internal/sim"
)

// WaveformSVG renders the eased breath level and crystallization of a run
// as two stacked polylines on a dark background.
func WaveformSVG(frames []sim.Frame, width, height int) string {
	if len(frames) < 2 {
		return ""
	}

	tMin := frames[0].Time
	tMax := frames[len(frames)-1].Time
	span := tMax - tMin
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writePath(&sb, frames, width, height, span, tMin, "#4fc3f7", func(f sim.Frame) float64 {
		return f.EasedProgress
	})
	writePath(&sb, frames, width, height, span, tMin, "#b39ddb", func(f sim.Frame) float64 {
		return f.Crystallization
	})

	sb.WriteString("</svg>")
	return sb.String()
}

func writePath(sb *strings.Builder, frames []sim.Frame, width, height int, span, tMin float64, stroke string, value func(sim.Frame) float64) {
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
	pad := float64(height) * 0.05
	usable := float64(height) - 2*pad
	for i, f := range frames {
		x := (f.Time - tMin) / span * float64(width)
		y := float64(height) - pad - value(f)*usable
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}
