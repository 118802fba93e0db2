package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"segvolrender/pkg/render"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorWhite = lipgloss.Color("255")
	colorDim   = lipgloss.Color("240")

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
)

// printTransferFunction writes the color and opacity points side by side
func printTransferFunction(w io.Writer, title string, prop *render.VolumeProperty) {
	color := prop.RGBTransferFunction(0).Points()
	opacity := prop.ScalarOpacity(0).Points()

	fmt.Fprintln(w, styleTitle.Render(title))
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("%8s  %-20s  %s", "value", "rgb", "opacity")))
	for i, p := range color {
		o := 0.0
		if i < len(opacity) {
			o = opacity[i].Y
		}
		rgb := fmt.Sprintf("(%.3f, %.3f, %.3f)", p.RGB[0], p.RGB[1], p.RGB[2])
		fmt.Fprintln(w, styleValue.Render(fmt.Sprintf("%8.1f  %-20s  %.1f", p.X, rgb, o)))
	}
}

// describeEffects summarizes the cinematic state a representation ended up in
func describeEffects(v *render.View, rep *render.Representation) string {
	var parts []string
	if rep.Property.Shading(0).Shade {
		parts = append(parts, "shading")
	}
	if len(v.Renderer.Lights) > 0 && v.Renderer.Lights[0].Positional {
		parts = append(parts, "lighting")
	}
	if rep.Mapper.VolumetricScatteringBlending() > 0 {
		parts = append(parts, "scattering")
	}
	if on, _, _ := rep.Mapper.LocalAmbientOcclusion(); on {
		parts = append(parts, "lao")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}
