package api

import (
	"fmt"
	"html/template"
	"io/fs"
)

func LoadTemplates(fsys fs.FS) (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		// letter labels options A, B, C, ...
		"letter": func(i int) string { return string(rune('A' + i)) },
		// clock formats seconds as m:ss
		"clock": func(seconds int) string {
			return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
		},
	}

	t := template.New("base").Funcs(funcs)

	patterns := []string{
		"templates/layouts/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	}
	for _, p := range patterns {
		if matches, _ := fs.Glob(fsys, p); len(matches) == 0 {
			continue
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, err
		}
	}

	return t, nil
}
