package article

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"

	"wp-autopilot/internal/model"
)

// Data feeds the fallback article template.
type Data struct {
	Title      string
	Lead       string
	Paragraphs []string
	SourceName string
	SourceURL  string
	VideoID    string // set for video candidates; embeds the player
}

//go:embed article.tmpl
var articleTpl string

var compiled = template.Must(template.New("article").Parse(articleTpl))

// Render produces the article HTML body.
func Render(d Data) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fallback builds template data straight from a candidate's raw title
// and description. Used when the model output cannot be parsed: the
// pipeline prefers publishing something minimal over failing the run.
func Fallback(c model.ContentCandidate) Data {
	d := Data{
		Title:      strings.TrimSpace(c.Title),
		SourceName: c.OriginChannel,
		SourceURL:  c.URL,
	}
	if c.SourceKind == model.SourceVideo {
		d.VideoID = c.ExternalID
	}
	paras := strings.Split(strings.TrimSpace(c.BodyText), "\n")
	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if d.Lead == "" {
			d.Lead = p
			continue
		}
		d.Paragraphs = append(d.Paragraphs, p)
	}
	return d
}
