// Package gauge draws a static liquid-fill gauge: a ring around a disc
// filled with a wave up to the gauge value, and the value as text.
package gauge

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kustodian/sunburst/pkg/render"
)

// Config controls the gauge appearance. Fractions are relative to the
// gauge radius unless noted.
type Config struct {
	MinValue          float64
	MaxValue          float64
	CircleThickness   float64 // outer ring thickness
	CircleFillGap     float64 // gap between ring and fill
	CircleColour      string
	WaveHeight        float64 // relative to the fill circle radius
	WaveCount         float64 // full waves per fill circle width
	WaveHeightScaling bool    // flatten the wave near 0% and 100%
	WaveColour        string
	WaveOffset        float64 // in full waves
	TextVertPosition  float64 // 0 = bottom, 1 = top
	TextSize          float64 // 1 = half the radius
	DisplayPercent    bool
	TextColour        string // text outside the wave
	WaveTextColour    string // text inside the wave
}

// DefaultConfig returns the standard gauge configuration.
func DefaultConfig() Config {
	return Config{
		MinValue:          0,
		MaxValue:          100,
		CircleThickness:   0.2,
		CircleFillGap:     0.05,
		CircleColour:      "#1e824c",
		WaveHeight:        0.05,
		WaveCount:         1,
		WaveHeightScaling: true,
		WaveColour:        "#1e824c",
		WaveOffset:        0,
		TextVertPosition:  0.5,
		TextSize:          1,
		DisplayPercent:    true,
		TextColour:        "#fff",
		WaveTextColour:    "#ffff00",
	}
}

// wavePoints is the number of samples per wave.
const wavePoints = 40

// Write appends a gauge group occupying [0, size] x [0, size] to buf. id
// must be unique within the document; it names the wave clip path.
func Write(buf *bytes.Buffer, id string, size, value float64, cfg Config) {
	radius := size / 2
	fillPercent := FillFraction(value, cfg)

	waveScale := cfg.WaveHeight
	if cfg.WaveHeightScaling {
		waveScale = triangle(fillPercent*100, cfg.WaveHeight)
	}

	textPixels := cfg.TextSize * radius / 2
	thickness := cfg.CircleThickness * radius
	margin := thickness + cfg.CircleFillGap*radius
	fillRadius := radius - margin
	waveHeight := fillRadius * waveScale

	waveCount := math.Max(cfg.WaveCount, 1e-9)
	waveLength := fillRadius * 2 / waveCount
	clipCount := 1 + waveCount
	clipWidth := waveLength * clipCount

	waveX := (margin+fillRadius)*2 - clipWidth
	waveY := lerp((margin+fillRadius)*2+waveHeight, margin-waveHeight, fillPercent)
	textY := lerp(margin+fillRadius*2, (margin+textPixels)*0.7, cfg.TextVertPosition)
	text := FormatValue(value) + percentSign(cfg)
	clipID := "clipWave" + id

	fmt.Fprintf(buf, `<g class="gauge" id="%s">`+"\n", render.Escape(id))
	fmt.Fprintf(buf, `  <path d="%s" transform="translate(%s,%s)" style="fill: %s" fill-rule="evenodd"/>`+"\n",
		ring(radius-thickness, radius), render.Num(radius), render.Num(radius), render.Escape(cfg.CircleColour))
	fmt.Fprintf(buf, `  <text class="liquidFillGaugeText" text-anchor="middle" font-size="%spx" transform="translate(%s,%s)" style="fill: %s">%s</text>`+"\n",
		render.Num(textPixels), render.Num(radius), render.Num(textY), render.Escape(cfg.TextColour), text)
	fmt.Fprintf(buf, `  <defs><clipPath id="%s" transform="translate(%s,%s)"><path d="%s"/></clipPath></defs>`+"\n",
		render.Escape(clipID), render.Num(waveX), render.Num(waveY),
		wavePath(clipCount, clipWidth, waveHeight, fillRadius*2+waveHeight, cfg))
	fmt.Fprintf(buf, `  <g clip-path="url(#%s)">`+"\n", render.Escape(clipID))
	fmt.Fprintf(buf, `    <circle cx="%s" cy="%s" r="%s" style="fill: %s"/>`+"\n",
		render.Num(radius), render.Num(radius), render.Num(fillRadius), render.Escape(cfg.WaveColour))
	fmt.Fprintf(buf, `    <text class="liquidFillGaugeText" text-anchor="middle" font-size="%spx" transform="translate(%s,%s)" style="fill: %s">%s</text>`+"\n",
		render.Num(textPixels), render.Num(radius), render.Num(textY), render.Escape(cfg.WaveTextColour), text)
	buf.WriteString("  </g>\n</g>\n")
}

// Render returns a standalone SVG document holding one gauge.
func Render(id string, size, value float64, cfg Config) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		render.Num(size), render.Num(size), render.Num(size), render.Num(size))
	Write(&buf, id, size, value, cfg)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// FillFraction clamps value to the configured range and divides by the
// maximum.
func FillFraction(value float64, cfg Config) float64 {
	if cfg.MaxValue <= 0 {
		return 0
	}
	return math.Max(cfg.MinValue, math.Min(cfg.MaxValue, value)) / cfg.MaxValue
}

// FormatValue prints value with as few decimals as needed, up to two.
func FormatValue(value float64) string {
	final := math.Round(value*100) / 100
	if final == math.Round(final) {
		return strconv.FormatFloat(final, 'f', 0, 64)
	}
	if one := math.Round(final*10) / 10; one == final {
		return strconv.FormatFloat(final, 'f', 1, 64)
	}
	return strconv.FormatFloat(final, 'f', 2, 64)
}

func percentSign(cfg Config) string {
	if cfg.DisplayPercent {
		return "%"
	}
	return ""
}

// triangle rises linearly from 0 at p=0 to peak at p=50 and back to 0 at
// p=100.
func triangle(p, peak float64) float64 {
	if p <= 50 {
		return peak * p / 50
	}
	return peak * (100 - p) / 50
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// wavePath samples the clip area: a sine top edge over clipCount waves and
// a flat bottom at depth.
func wavePath(clipCount, clipWidth, waveHeight, depth float64, cfg Config) string {
	n := int(math.Round(wavePoints * clipCount))
	phase := (-2*math.Pi*cfg.WaveOffset + 2*math.Pi) * (1 - cfg.WaveCount)

	var b strings.Builder
	for i := 0; i <= n; i++ {
		x := float64(i) / float64(n) * clipWidth
		y := waveHeight * math.Sin(phase+float64(i)/wavePoints*2*math.Pi)
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%s,%s", cmd, render.Num(x), render.Num(y))
	}
	fmt.Fprintf(&b, "L%s,%sL0,%sZ", render.Num(clipWidth), render.Num(depth), render.Num(depth))
	return b.String()
}

// ring draws an annulus centred on the origin.
func ring(inner, outer float64) string {
	o, i := render.Num(outer), render.Num(inner)
	return fmt.Sprintf("M0,-%sA%s,%s,0,1,1,0,%sA%s,%s,0,1,1,0,-%sZM0,-%sA%s,%s,0,1,0,0,%sA%s,%s,0,1,0,0,-%sZ",
		o, o, o, o, o, o, o, i, i, i, i, i, i, i)
}
