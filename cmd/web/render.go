package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"x-chats.com/web/internal/handlers"
	"x-chats.com/web/internal/nav"
	"x-chats.com/web/internal/observability"
)

const (
	layoutsDir  = "layouts"
	partialsDir = "partials"
	pagesDir    = "pages"
)

// templateSet holds one parsed tree per page: the layout and partials plus the page file,
// which defines the "content" block executed by "base".
type templateSet map[string]*template.Template

// cardGrid is the argument of the "cards" partial.
type cardGrid struct {
	Lang  string
	Cards []handlers.Card
}

type renderer struct {
	dir    string
	dev    bool
	funcs  template.FuncMap
	mu     sync.RWMutex
	parsed templateSet
}

func newRenderer(dir string, dev bool, translate func(lang, key string) string) (*renderer, error) {
	rd := &renderer{
		dir: dir,
		dev: dev,
		funcs: template.FuncMap{
			"t":        translate,
			"now":      time.Now,
			"localize": nav.Localize,
			"jsonld":   func(s string) template.JS { return template.JS(s) },
			"grid": func(lang string, cards []handlers.Card) cardGrid {
				return cardGrid{Lang: lang, Cards: cards}
			},
		},
	}
	if dev {
		return rd, nil
	}
	set, err := rd.parse()
	if err != nil {
		return nil, err
	}
	rd.parsed = set
	return rd, nil
}

func (rd *renderer) parse() (templateSet, error) {
	shared, err := collect(filepath.Join(rd.dir, layoutsDir), filepath.Join(rd.dir, partialsDir))
	if err != nil {
		return nil, err
	}
	if len(shared) == 0 {
		return nil, fmt.Errorf("no layout templates found under %s", rd.dir)
	}
	pages, err := collect(filepath.Join(rd.dir, pagesDir))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found under %s", filepath.Join(rd.dir, pagesDir))
	}

	base, err := template.New("_root").Funcs(rd.funcs).ParseFiles(shared...)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	set := templateSet{}
	for _, page := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFiles(page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		set[strings.TrimSuffix(filepath.Base(page), ".tmpl")] = clone
	}
	return set, nil
}

// collect recursively discovers .tmpl files. ParseGlob doesn't support **.
func collect(dirs ...string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	}
	return files, nil
}

func (rd *renderer) lookup(page string) (*template.Template, error) {
	if rd.dev {
		set, err := rd.parse()
		if err != nil {
			return nil, err
		}
		rd.mu.Lock()
		rd.parsed = set
		rd.mu.Unlock()
	}
	rd.mu.RLock()
	defer rd.mu.RUnlock()
	t, ok := rd.parsed[page]
	if !ok {
		return nil, fmt.Errorf("template %q not found", page)
	}
	return t, nil
}

// render executes the base layout for page. In dev mode, templates are reparsed on each
// request. Output is buffered so a failing template never leaves a half-written page.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	logger := observability.FromContext(r.Context())
	t, err := rd.lookup(page)
	if err != nil {
		logger.Error("template lookup failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		logger.Error("template exec failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
