package components

import (
	"github.com/nfrund/portfolio/internal/view"
	"maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Flash renders pending flash messages, or nothing.
func Flash(f view.FlashData) gomponents.Node {
	if f.Empty() {
		return nil
	}
	return Div(ID("flash"), Class("mx-auto max-w-2xl px-6 pt-6 space-y-2"),
		gomponents.Map(f.Success, func(msg string) gomponents.Node {
			return Div(Class("flash flash-success"), Role("status"), gomponents.Text(msg))
		}),
		gomponents.Map(f.Error, func(msg string) gomponents.Node {
			return Div(Class("flash flash-error"), Role("alert"), gomponents.Text(msg))
		}),
	)
}
