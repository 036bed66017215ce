// Package policyview renders an engine.PolicyNode tree as an SVG of
// hexagonal nodes, one hexagon per visited state, connected by edges
// labeled with their outcome probability. It follows the same
// html/template-plus-FuncMap technique this codebase's other views use to
// turn a Go data structure into inline SVG, adapted from a 2D isometric
// cell projection to a top-down tree layout.
package policyview

import (
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/capreolina/scroll-strategist/internal/engine"
)

const (
	hexRadius  = 36.0
	levelGap   = 110.0
	siblingGap = 100.0
)

// laidOutNode is a PolicyNode annotated with its plotted center and the
// lines needed to reach its children, computed by Render's tree walk.
type laidOutNode struct {
	X, Y     float64
	Label    string
	Fill     string
	Children []laidOutEdge
}

type laidOutEdge struct {
	Label      string
	ToX        float64
	ToY        float64
	MidX, MidY float64
}

// Render writes an SVG document depicting tree to w. tree must come from
// engine.Extractor.Tree (or engine.EvaluateTree); a nil tree renders an
// empty canvas.
func Render(w io.Writer, tree *engine.PolicyNode) error {
	var nodes []*laidOutNode
	var minX, maxX, maxY float64

	var walk func(n *engine.PolicyNode, depth int, x float64) *laidOutNode
	nextX := 0.0
	walk = func(n *engine.PolicyNode, depth int, x float64) *laidOutNode {
		if n == nil {
			return nil
		}

		node := &laidOutNode{
			Y:     float64(depth) * levelGap,
			Label: nodeLabel(n),
			Fill:  nodeFill(n),
		}

		var childXs []float64
		if n.Success != nil {
			childXs = append(childXs, nextX)
			nextX += siblingGap
		}
		if n.Miss != nil {
			childXs = append(childXs, nextX)
			nextX += siblingGap
		}

		switch {
		case n.Success != nil && n.Miss != nil:
			node.X = (childXs[0] + childXs[1]) / 2
		case len(childXs) == 1:
			node.X = childXs[0]
		default:
			node.X = x
		}

		if n.Success != nil {
			child := walk(n.Success.Node, depth+1, childXs[0])
			label := fmt.Sprintf("succ %.0f%%", n.Success.Probability*100)
			node.Children = append(node.Children, edgeTo(label, node.X, node.Y, child))
		}
		if n.Miss != nil {
			idx := 0
			if n.Success != nil {
				idx = 1
			}
			child := walk(n.Miss.Node, depth+1, childXs[idx])
			label := fmt.Sprintf("miss %.0f%%", n.Miss.Probability*100)
			node.Children = append(node.Children, edgeTo(label, node.X, node.Y, child))
		}

		nodes = append(nodes, node)
		minX = math.Min(minX, node.X)
		maxX = math.Max(maxX, node.X)
		maxY = math.Max(maxY, node.Y)
		return node
	}
	walk(tree, 0, 0)

	width := maxX - minX + 4*hexRadius
	height := maxY + 3*hexRadius
	offsetX := -minX + 2*hexRadius

	t := template.Must(template.New("policytree").Funcs(template.FuncMap{
		"hexPoints": hexPoints,
	}).Parse(policyTreeTemplate))

	return t.Execute(w, struct {
		Width, Height, OffsetX float64
		Nodes                  []*laidOutNode
	}{Width: width, Height: height, OffsetX: offsetX, Nodes: nodes})
}

func edgeTo(label string, fromX, fromY float64, child *laidOutNode) laidOutEdge {
	if child == nil {
		return laidOutEdge{Label: label}
	}
	return laidOutEdge{
		Label: label,
		ToX:   child.X,
		ToY:   child.Y,
		MidX:  (fromX + child.X) / 2,
		MidY:  (fromY + child.Y) / 2,
	}
}

func nodeLabel(n *engine.PolicyNode) string {
	if !n.Record.HasChoice {
		return fmt.Sprintf("P=%.2f E=%.0f", n.Record.PGoal, n.Record.ECost)
	}
	return fmt.Sprintf("#%d P=%.2f E=%.0f", n.Record.Choice, n.Record.PGoal, n.Record.ECost)
}

func nodeFill(n *engine.PolicyNode) string {
	// Shade by P*: pure red at 0, pure green at 1.
	red := int(255 * (1 - n.Record.PGoal))
	green := int(255 * n.Record.PGoal)
	return fmt.Sprintf("rgb(%d,%d,0)", red, green)
}

// hexPoints returns the svg "points" attribute for a pointy-top regular
// hexagon of radius hexRadius centered at (cx, cy).
func hexPoints(cx, cy float64) string {
	pts := ""
	for i := 0; i < 6; i++ {
		angle := math.Pi/6 + float64(i)*math.Pi/3
		x := cx + hexRadius*math.Cos(angle)
		y := cy + hexRadius*math.Sin(angle)
		if i > 0 {
			pts += " "
		}
		pts += fmt.Sprintf("%d,%d", int(x), int(y))
	}
	return pts
}

const policyTreeTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="{{ .Width }}" height="{{ .Height }}">
<g transform="translate({{ .OffsetX }} 30)">
{{ range .Nodes }}
  {{ $n := . }}
  {{ range .Children }}
    <line x1="{{ $n.X }}" y1="{{ $n.Y }}" x2="{{ .ToX }}" y2="{{ .ToY }}" stroke="black" stroke-width="1.5" />
    <text x="{{ .MidX }}" y="{{ .MidY }}" font-size="10">{{ .Label }}</text>
  {{ end }}
{{ end }}
{{ range .Nodes }}
  <polygon points="{{ hexPoints .X .Y }}" fill="{{ .Fill }}" stroke="black" stroke-width="1" />
  <text x="{{ .X }}" y="{{ .Y }}" font-size="10" text-anchor="middle">{{ .Label }}</text>
{{ end }}
</g>
</svg>
`
