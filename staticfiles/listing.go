package staticfiles

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path"
	"strings"
)

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Content of {{.Path}}</title>
</head>
<body>
<h1>Content of {{.Path}}</h1>
<main>
{{if .Parent}}<a href="{{.Parent}}">&#11014; Parent directory</a>
{{end}}<table border="1">
<tr><th>Name</th><th>Size</th><th>Hits</th></tr>
{{range .Rows}}<tr><td><a href="{{.Href}}">{{.Name}}</a></td><td>{{.Size}}</td><td>{{.Hits}}</td></tr>
{{end}}</table>
</main>
</body>
</html>
`))

type listingRow struct {
	Name string
	Href string
	Size string
	Hits int64
}

type listingData struct {
	Path   string
	Parent string
	Rows   []listingRow
}

func (h *Handler) renderListing(reqPath, absDir string) ([]byte, error) {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	data := listingData{Path: reqPath}
	if reqPath != "/" {
		parent := path.Dir(strings.TrimSuffix(reqPath, "/"))
		if parent != "/" {
			parent += "/"
		}
		data.Parent = parent
	}

	atRoot := reqPath == "/"
	for _, e := range entries {
		name := e.Name()
		isDir := e.IsDir()

		// o filtro de visibilidade só vale para a raiz da árvore servida
		if atRoot && !h.rules.VisibleAtRoot(name, isDir) {
			continue
		}

		row := listingRow{Name: name}
		if isDir {
			row.Name += "/"
			row.Href = url.PathEscape(name) + "/"
			row.Size = "—"
			row.Hits = h.hits.Get(reqPath + name + "/")
		} else {
			row.Href = url.PathEscape(name)
			if info, err := e.Info(); err == nil {
				row.Size = fileSize(info.Size())
			} else {
				row.Size = "?"
			}
			row.Hits = h.hits.Get(reqPath + name)
		}
		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := listingTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fileSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}
