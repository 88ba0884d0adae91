package ui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const halfBlock = "▀"

// paint turns img into terminal lines of half-block cells: the upper pixel
// is the foreground and the lower one the background. Runs of identical
// cells share one style.
func paint(img image.Image) []string {
	b := img.Bounds()
	rows := b.Dy() / 2
	lines := make([]string, 0, rows)

	for row := 0; row < rows; row++ {
		var line strings.Builder
		y := b.Min.Y + 2*row

		runStart := b.Min.X
		runTop, runBottom := hexOf(img.At(b.Min.X, y)), hexOf(img.At(b.Min.X, y+1))
		flush := func(end int) {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(runTop)).
				Background(lipgloss.Color(runBottom))
			line.WriteString(style.Render(strings.Repeat(halfBlock, end-runStart)))
		}

		for x := b.Min.X + 1; x < b.Max.X; x++ {
			top, bottom := hexOf(img.At(x, y)), hexOf(img.At(x, y+1))
			if top == runTop && bottom == runBottom {
				continue
			}
			flush(x)
			runStart, runTop, runBottom = x, top, bottom
		}
		flush(b.Max.X)
		lines = append(lines, line.String())
	}
	return lines
}

func hexOf(c color.Color) string {
	cc, _ := colorful.MakeColor(c)
	return cc.Hex()
}

// paintMono draws img without colour: any pixel differing from bg is ink.
func paintMono(img image.Image, bg color.Color) []string {
	b := img.Bounds()
	paper := hexOf(bg)
	ink := func(x, y int) bool { return hexOf(img.At(x, y)) != paper }

	lines := make([]string, 0, b.Dy()/2)
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		var line strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			top, bottom := ink(x, y), ink(x, y+1)
			switch {
			case top && bottom:
				line.WriteString("█")
			case top:
				line.WriteString(halfBlock)
			case bottom:
				line.WriteString("▄")
			default:
				line.WriteByte(' ')
			}
		}
		lines = append(lines, line.String())
	}
	return lines
}
