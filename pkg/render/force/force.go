// Package force lays out the container overview: every container is a
// liquid-fill gauge sized by its capacity, positioned by a force simulation
// with attraction between containers, collision and centring.
//
// The simulation follows d3-force's integration scheme (alpha decay,
// velocity decay, forces applied in order) but is seeded, so the same input
// always yields the same picture.
package force

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/kustodian/sunburst/pkg/render"
	"github.com/kustodian/sunburst/pkg/render/gauge"
)

// Node is one container in the overview.
type Node struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Size    float64 `json:"size"`
	Percent float64 `json:"percentageFull"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	vx, vy float64
}

// Options tunes the simulation. Zero values mean the defaults.
type Options struct {
	Strength      float64 // many-body strength; positive attracts
	CollideFactor float64 // collision radius as a multiple of Size
	Ticks         int     // upper bound on iterations
	Seed          uint64
}

// DefaultOptions returns the standard simulation parameters.
func DefaultOptions() Options {
	return Options{
		Strength:      500,
		CollideFactor: 1.5,
		Ticks:         300,
		Seed:          1,
	}
}

const (
	alphaMin      = 0.001
	velocityDecay = 0.6
	distanceMin2  = 1.0
	initialRadius = 10.0
)

var (
	alphaDecay   = 1 - math.Pow(alphaMin, 1.0/300)
	initialAngle = math.Pi * (3 - math.Sqrt(5))
)

// Layout positions nodes within a width x height frame and returns them.
// The input slice is not modified. Positions are clamped so every gauge
// stays inside the frame.
func Layout(nodes []Node, width, height float64, opts Options) []Node {
	opts = withDefaults(opts)
	out := make([]Node, len(nodes))
	copy(out, nodes)
	if len(out) == 0 {
		return out
	}

	for i := range out {
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		out[i].X, out[i].Y = r*math.Cos(a), r*math.Sin(a)
		out[i].vx, out[i].vy = 0, 0
	}

	s := &sim{
		nodes:  out,
		opts:   opts,
		cx:     width / 2,
		cy:     height / 2,
		jitter: rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
	alpha := 1.0
	for tick := 0; tick < opts.Ticks && alpha >= alphaMin; tick++ {
		alpha += (0 - alpha) * alphaDecay
		s.step(alpha)
	}

	for i := range out {
		n := &out[i]
		n.X = clamp(n.X, n.Size, width-n.Size)
		n.Y = clamp(n.Y, n.Size, height-n.Size)
	}
	return out
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Strength == 0 {
		opts.Strength = def.Strength
	}
	if opts.CollideFactor == 0 {
		opts.CollideFactor = def.CollideFactor
	}
	if opts.Ticks == 0 {
		opts.Ticks = def.Ticks
	}
	return opts
}

type sim struct {
	nodes  []Node
	opts   Options
	cx, cy float64
	jitter *rand.Rand
}

func (s *sim) step(alpha float64) {
	s.manyBody(alpha)
	s.collide()
	s.centre()
	for i := range s.nodes {
		n := &s.nodes[i]
		n.vx *= velocityDecay
		n.vy *= velocityDecay
		n.X += n.vx
		n.Y += n.vy
	}
}

func (s *sim) jiggle() float64 { return (s.jitter.Float64() - 0.5) * 1e-6 }

func (s *sim) manyBody(alpha float64) {
	for i := range s.nodes {
		n := &s.nodes[i]
		for j := range s.nodes {
			if i == j {
				continue
			}
			o := &s.nodes[j]
			dx, dy := o.X-n.X, o.Y-n.Y
			if dx == 0 {
				dx = s.jiggle()
			}
			if dy == 0 {
				dy = s.jiggle()
			}
			l := dx*dx + dy*dy
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}
			w := s.opts.Strength * alpha / l
			n.vx += dx * w
			n.vy += dy * w
		}
	}
}

func (s *sim) collide() {
	for i := range s.nodes {
		n := &s.nodes[i]
		ri := n.Size * s.opts.CollideFactor
		for j := i + 1; j < len(s.nodes); j++ {
			o := &s.nodes[j]
			rj := o.Size * s.opts.CollideFactor
			r := ri + rj
			x := n.X + n.vx - o.X - o.vx
			y := n.Y + n.vy - o.Y - o.vy
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			l = (r - l) / l
			x, y = x*l, y*l
			share := rj * rj / (ri*ri + rj*rj)
			if ri == 0 && rj == 0 {
				share = 0.5
			}
			n.vx += x * share
			n.vy += y * share
			o.vx -= x * (1 - share)
			o.vy -= y * (1 - share)
		}
	}
}

func (s *sim) centre() {
	var sx, sy float64
	for _, n := range s.nodes {
		sx += n.X
		sy += n.Y
	}
	k := float64(len(s.nodes))
	sx, sy = sx/k-s.cx, sy/k-s.cy
	for i := range s.nodes {
		s.nodes[i].X -= sx
		s.nodes[i].Y -= sy
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// RenderSVG draws one gauge per laid-out node with its name beside it.
// Each gauge is 2*Size across and anchored at the node position.
func RenderSVG(nodes []Node, width, height float64, cfg gauge.Config) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" preserveAspectRatio="xMidYMid meet" width="%s" height="%s">`+"\n",
		render.Num(width), render.Num(height), render.Num(width), render.Num(height))
	buf.WriteString(`<g class="nodes">` + "\n")
	for _, n := range nodes {
		fmt.Fprintf(&buf, `<g class="container" data-id="%d" transform="translate(%s,%s)">`+"\n",
			n.ID, render.Num(n.X), render.Num(n.Y))
		gauge.Write(&buf, "dewar-"+strconv.FormatInt(n.ID, 10), n.Size*2, n.Percent, cfg)
		fmt.Fprintf(&buf, `<text font-size="20" dx="12" dy=".35em">%s</text>`+"\n", render.Escape(n.Name))
		buf.WriteString("</g>\n")
	}
	buf.WriteString("</g>\n</svg>\n")
	return buf.Bytes()
}
