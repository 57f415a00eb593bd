package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microblog/app/internal/models"
)

var funcMap = template.FuncMap{
	"FormatDateTime": FormatDateTime,
}

// FormatDateTime renders a timestamp for the post byline.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}

// templates holds all parsed page templates, keyed by path relative to
// the templates directory, e.g. "auth/login.html" or "blog/index.html".
// Every page is parsed together with layout.html.
var templates map[string]*template.Template

// LoadTemplates parses all HTML templates under dir. Call once at
// startup, before the first request.
func LoadTemplates(dir string) error {
	layoutFile := filepath.Join(dir, "layout.html")
	if _, err := os.Stat(layoutFile); err != nil {
		return fmt.Errorf("layout.html not found in %s: %w", dir, err)
	}

	templates = make(map[string]*template.Template)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") || path == layoutFile {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		tmpl, err := template.New(filepath.Base(path)).Funcs(funcMap).ParseFiles(path, layoutFile)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[name] = tmpl
		return nil
	})
	if err != nil {
		return err
	}

	if len(templates) == 0 {
		return fmt.Errorf("no page templates found in %s", dir)
	}
	return nil
}

// pageData builds the base template data every page shares: the resolved
// identity for the navigation bar and the one-shot flash messages for
// this response.
func pageData(user *models.User, flashes ...string) map[string]interface{} {
	return map[string]interface{}{
		"User":    user,
		"Flashes": flashes,
	}
}

// RenderTemplate executes the named page template inside the layout.
func RenderTemplate(w http.ResponseWriter, name string, data interface{}) {
	tmpl, ok := templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("Template not found: %s", name), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, fmt.Sprintf("Error executing template %s: %s", name, err), http.StatusInternalServerError)
	}
}

// RenderErrorPage writes statusCode and renders the shared error page.
func RenderErrorPage(w http.ResponseWriter, user *models.User, statusCode int, message string) {
	w.WriteHeader(statusCode)
	data := pageData(user)
	data["Status"] = statusCode
	data["StatusText"] = http.StatusText(statusCode)
	data["Message"] = message
	RenderTemplate(w, "error.html", data)
}
