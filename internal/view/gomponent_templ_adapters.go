package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// gomponentComponent lets a gomponents.Node be used where a templ.Component
// is expected, such as the base layout's body slot.
type gomponentComponent struct {
	node gomponents.Node
}

func (a gomponentComponent) Render(_ context.Context, w io.Writer) error {
	if a.node == nil {
		return nil
	}
	return a.node.Render(w)
}

// Templ wraps a gomponents node as a templ.Component.
func Templ(node gomponents.Node) templ.Component {
	return gomponentComponent{node: node}
}

// templNode lets a templ.Component be embedded inside a gomponents tree.
// gomponents does not pass a context, so the one captured at adapt time is used.
type templNode struct {
	ctx       context.Context
	component templ.Component
}

func (a templNode) Render(w io.Writer) error {
	return a.component.Render(a.ctx, w)
}

// Node wraps a templ.Component as a gomponents.Node rendered with ctx.
func Node(ctx context.Context, component templ.Component) gomponents.Node {
	return templNode{ctx: ctx, component: component}
}
