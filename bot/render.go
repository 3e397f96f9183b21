package bot

import (
	"fmt"
	"strings"
)

// trackLength is the number of track cells in one rendered lane.
const trackLength = 20

// raceLane is one participant as the animation sees it: a display name, a
// glyph and the second their progress reaches 100%.
type raceLane struct {
	Name   string
	Glyph  string
	Finish int
}

func (l raceLane) progressAt(second int) float64 {
	if l.Finish <= 0 {
		return 1
	}
	p := float64(second) / float64(l.Finish)
	if p > 1 {
		p = 1
	}
	return p
}

// renderLane renders one fixed-width track row. The glyph starts at the right
// edge and travels left as progress grows.
func renderLane(name, glyph string, progress float64) string {
	pos := int(progress * trackLength)
	if pos < 0 {
		pos = 0
	}
	if pos > trackLength {
		pos = trackLength
	}
	bar := strings.Repeat("-", trackLength-pos) + glyph + strings.Repeat("-", pos)
	return fmt.Sprintf("|%s| %s", bar, name)
}

// renderFrame renders one animation frame for the given second.
func renderFrame(lanes []raceLane, second, duration int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏇 경마 진행중! (%d/%d초)\n", second, duration)
	sb.WriteString("```\n")
	for _, lane := range lanes {
		sb.WriteString(renderLane(lane.Name, lane.Glyph, lane.progressAt(second)))
		sb.WriteString("\n")
	}
	sb.WriteString("```")
	return sb.String()
}

// renderRanking renders the final ranking block, ordered by ascending finish
// second with lane order breaking ties.
func renderRanking(lanes []raceLane) string {
	ranked := make([]raceLane, len(lanes))
	copy(ranked, lanes)
	// Stable insertion keeps lane order for equal finish seconds.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Finish < ranked[j-1].Finish; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	var sb strings.Builder
	sb.WriteString("\n🏆 최종 순위\n")
	for i, lane := range ranked {
		fmt.Fprintf(&sb, "%d위  %s  %ds\n", i+1, lane.Name, lane.Finish)
	}
	return sb.String()
}
