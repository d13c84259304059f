// Package templates holds the server-rendered HTML views
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PageData is shared by every page
type PageData struct {
	Title string
}

// Layout wraps body in the page shell
func Layout(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(data.Title)+` - wastegame</title>`+
			`<style>`+pageStyle+`</style></head><body><main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

const pageStyle = `body{font-family:monospace;background:#1d2b1f;color:#e8f0e0;margin:2rem}` +
	`table{border-collapse:collapse;min-width:20rem}td,th{padding:.25rem .75rem;text-align:left}` +
	`td.score{text-align:right}tr:nth-child(even){background:#2b3d2d}.empty{color:#9aa89a}`
