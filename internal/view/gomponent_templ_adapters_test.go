package view

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

type ctxKey struct{}

func TestTempl_RendersNode(t *testing.T) {
	var buf bytes.Buffer
	err := Templ(h.P(g.Text("hello"))).Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", buf.String())
}

func TestTempl_NilNode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Templ(nil).Render(context.Background(), &buf))
	assert.Empty(t, buf.String())
}

func TestNode_PassesContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "from-ctx")
	component := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, ctx.Value(ctxKey{}).(string))
		return err
	})

	var buf bytes.Buffer
	require.NoError(t, h.Div(Node(ctx, component)).Render(&buf))
	assert.Equal(t, "<div>from-ctx</div>", buf.String())
}
