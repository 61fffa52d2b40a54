// Package htmlbuilder renders the HTML pages the server generates itself:
// status pages and directory listings.
package htmlbuilder

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Builder collects the pieces of an HTML5 document.
type Builder struct {
	Title  string
	CSS    string
	Script string
	Body   string
}

const statusCSS = `
body {
    width: 35em;
    margin: 0 auto;
    font-family: Tahoma, Verdana, Arial, sans-serif;
}
`

const listingCSS = `
table {
    border-collapse: collapse;
    width: 100%;
}

td {
    padding: 8px;
    white-space: pre-wrap;
    border: none;
}

th {
    padding: 8px;
    border: none;
}
`

// FromStatusCode builds a status page titled with the code. The note is
// inserted into the page body verbatim, so it may carry inline HTML.
func FromStatusCode(code int, note string) *Builder {
	return &Builder{
		Title: fmt.Sprintf("%d", code),
		CSS:   statusCSS,
		Body:  fmt.Sprintf("<h1>%d</h1>\n<p>%s</p>", code, note),
	}
}

// Entry describes one row of a directory listing.
type Entry struct {
	Name     string
	Dir      bool
	Size     int64
	Modified time.Time
}

// FromDir builds a listing page for the directory at path. Entries are
// sorted directories first, then by name. A trailing slash is trimmed
// from the heading but kept in the page title.
func FromDir(path string, entries []Entry) *Builder {
	sortEntries(entries)

	var body strings.Builder
	fmt.Fprintf(&body, "<h1>Directory listing for %s</h1><hr>", strings.TrimSuffix(path, "/"))
	body.WriteString("<table>")
	body.WriteString(`
<tr>
    <td>Name</td>
    <td>Size</td>
    <td>Last modified</td>
</tr>
<tr>
    <td><a href="../">..</a></td>
    <td></td>
    <td></td>
</tr>
`)
	for _, entry := range entries {
		modified := entry.Modified.Local().Format("2006-01-02 15:04:05 MST")
		if entry.Dir {
			name := entry.Name + "/"
			fmt.Fprintf(&body, `
<tr>
    <td><a href="%s">%s</a></td>
    <td>dir</td>
    <td>%s</td>
</tr>
`, name, name, modified)
		} else {
			fmt.Fprintf(&body, `
<tr>
    <td><a href="%s">%s</a></td>
    <td>%s</td>
    <td>%s</td>
</tr>
`, entry.Name, entry.Name, FormatFileSize(entry.Size), modified)
		}
	}
	body.WriteString("</table>")

	return &Builder{
		Title: fmt.Sprintf("Directory listing for %s", path),
		CSS:   listingCSS,
		Body:  body.String(),
	}
}

// Build assembles the final HTML document.
func (b *Builder) Build() string {
	return fmt.Sprintf(`<!DOCTYPE html>
<!-- Generated by shaneyale-webserver -->
<html>
    <head>
        <meta charset="utf-8">
        <script>%s</script>
        <title>%s</title>
        <style>%s</style>
    </head>
    <body>
    %s
    </body>
</html>`, b.Script, b.Title, b.CSS, b.Body)
}

// FormatFileSize renders a byte count in binary units with one decimal,
// "9.7 KB" style. Each unit rolls into the next at 1024.
func FormatFileSize(size int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, units[unit])
}

// sortEntries orders directories before files, each group by name.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Dir != entries[j].Dir {
			return entries[i].Dir
		}
		return entries[i].Name < entries[j].Name
	})
}
