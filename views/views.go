// Package views renders the embedded HTML pages. Every page is parsed
// together with layout.html and executed through the "layout" template.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"net/http"
	"path"
	"strings"
	"time"

	"coursefront/learning"
	"coursefront/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var files embed.FS

//go:embed static
var static embed.FS

// Static serves the stylesheet and other assets under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Engine implements fiber.Views
type Engine struct {
	mediaBase string
	md        goldmark.Markdown
	pages     map[string]*template.Template
}

func New(mediaBase string) *Engine {
	return &Engine{
		mediaBase: mediaBase,
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (e *Engine) Load() error {
	layout, err := files.ReadFile("templates/layout.html")
	if err != nil {
		return err
	}
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := strings.TrimSuffix(path.Base(name), ".html")
		if base == "layout" {
			continue
		}
		body, err := files.ReadFile(name)
		if err != nil {
			return err
		}
		tpl, err := template.New("layout").Funcs(e.funcs()).Parse(string(layout))
		if err != nil {
			return fmt.Errorf("parse layout: %w", err)
		}
		if _, err := tpl.Parse(string(body)); err != nil {
			return fmt.Errorf("parse %s: %w", base, err)
		}
		pages[base] = tpl
	}
	e.pages = pages
	return nil
}

func (e *Engine) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	tpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	// render to a buffer so a failing template never sends half a page
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", binding); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (e *Engine) funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": e.markdown,
		"media": func(raw string, secure bool) string {
			return learning.MediaURL(raw, e.mediaBase, secure)
		},
		"embed": func(raw string) string {
			u, _ := learning.EmbedURL(raw)
			return u
		},
		"price": func(p *models.Price) string {
			if p == nil || *p == 0 {
				return "Free"
			}
			return p.String()
		},
		"pct": func(v float64) string {
			return fmt.Sprintf("%.0f%%", math.Round(v))
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"stars": func(n int) []int {
			var out []int
			for i := 1; i <= n && i <= learning.MaxRating; i++ {
				out = append(out, i)
			}
			return out
		},
		"seq": func(from, to int) []int {
			var out []int
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
		"field": func(values map[string]string, name string) string {
			return values[name]
		},
		"cell": cell,
		"card": func(c models.Course, secure bool) CourseCard {
			return CourseCard{Course: c, Secure: secure}
		},
	}
}

// CourseCard feeds the shared course_card partial
type CourseCard struct {
	Course models.Course
	Secure bool
}

// markdown renders untrusted text; raw HTML in the source is not passed through
func (e *Engine) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// cell reads one column of an admin list row
func cell(row map[string]interface{}, column string) string {
	v, ok := row[column]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case float64:
		if t == math.Trunc(t) {
			return fmt.Sprintf("%.0f", t)
		}
		return fmt.Sprintf("%.2f", t)
	case map[string]interface{}:
		for _, k := range []string{"title", "name", "email", "id"} {
			if inner, ok := t[k]; ok {
				return fmt.Sprint(inner)
			}
		}
		return ""
	default:
		return fmt.Sprint(t)
	}
}
