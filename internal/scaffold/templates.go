package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/boiler-labs/boiler/internal/platform"
)

// The all: prefix keeps dotfiles such as .env and .babelrc.
//
//go:embed all:templates
var templateFS embed.FS

// tmplSuffix marks templates rendered with text/template. Everything else is
// written byte for byte.
const tmplSuffix = ".tmpl"

// TemplateFile is one file written from the embedded template set.
type TemplateFile struct {
	Path string      // slash-separated, relative to the project root
	Mode os.FileMode // zero means 0644
}

// TemplateData holds the variables available to .tmpl templates.
type TemplateData struct {
	Title string
}

// Render returns the content of f for variant. A "<path>.tmpl" source is
// executed with data; a plain source is returned unchanged.
func Render(variant Variant, f TemplateFile, data TemplateData) ([]byte, error) {
	base := path.Join("templates", string(variant), f.Path)

	if raw, err := fs.ReadFile(templateFS, base+tmplSuffix); err == nil {
		tmpl, err := template.New(f.Path).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", f.Path, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", f.Path, err)
		}
		return buf.Bytes(), nil
	}

	raw, err := fs.ReadFile(templateFS, base)
	if err != nil {
		return nil, fmt.Errorf("template %s not found for %s: %w", f.Path, variant, err)
	}
	return raw, nil
}

// WriteTemplate renders f and writes it beneath root, overwriting any existing
// file. The parent directory must already exist.
func WriteTemplate(root string, variant Variant, f TemplateFile, data TemplateData) error {
	content, err := Render(variant, f, data)
	if err != nil {
		return err
	}
	return platform.WriteFile(filepath.Join(root, filepath.FromSlash(f.Path)), content, f.mode())
}

func (f TemplateFile) mode() os.FileMode {
	if f.Mode == 0 {
		return 0644
	}
	return f.Mode
}

// templatePaths lists the output paths of every embedded file for variant.
func templatePaths(variant Variant) ([]string, error) {
	root := path.Join("templates", string(variant))
	var paths []string
	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := p[len(root)+1:]
		if path.Ext(rel) == tmplSuffix {
			rel = rel[:len(rel)-len(tmplSuffix)]
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates for %s: %w", variant, err)
	}
	return paths, nil
}
