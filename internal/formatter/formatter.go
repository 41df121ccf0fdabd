// package formatter exports library lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
	JSON     Format = "json"
)

// ParseFormat accepts a format name or common file extension.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt", "":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, raw)
	}
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case Text:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// Section is one library list in an export.
type Section struct {
	Status models.Status  `json:"status"`
	Comics []models.Comic `json:"comics"`
}

// LibraryExport is a point-in-time copy of the library.
type LibraryExport struct {
	Owner      string    `json:"owner,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
	Sections   []Section `json:"sections"`
}

// NewExport builds an export from lists indexed by [models.Status.Index].
// When only is set, the other statuses are left out.
func NewExport(owner string, lists [models.StatusCount][]models.Comic, only ...models.Status) *LibraryExport {
	export := &LibraryExport{Owner: owner, ExportedAt: time.Now().UTC()}
	for i, status := range models.Statuses {
		if len(only) > 0 && !contains(only, status) {
			continue
		}
		export.Sections = append(export.Sections, Section{Status: status, Comics: lists[i]})
	}
	return export
}

// Total returns the number of comics in the export.
func (e *LibraryExport) Total() int {
	n := 0
	for _, s := range e.Sections {
		n += len(s.Comics)
	}
	return n
}

// ExportToCSV converts a LibraryExport to CSV format with columns: Status, ID, Title, Author, Genre, Year, Rating, Cover
func ExportToCSV(export *LibraryExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Status", "ID", "Title", "Author", "Genre", "Year", "Rating", "Cover"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, section := range export.Sections {
		for _, comic := range section.Comics {
			record := []string{
				string(section.Status),
				optionalInt(comic.ID),
				comic.Title,
				comic.Author,
				comic.Genre,
				optionalInt(int64(comic.Year)),
				optionalFloat(comic.Rating),
				comic.CoverURL,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a LibraryExport to Markdown with one heading per list
func ExportToMarkdown(export *LibraryExport) ([]byte, error) {
	var buf bytes.Buffer

	title := "Comic Library"
	if export.Owner != "" {
		title = fmt.Sprintf("%s's Comic Library", export.Owner)
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n", export.ExportedAt.Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("**Comics**: %d\n", export.Total()))

	for _, section := range export.Sections {
		buf.WriteString(fmt.Sprintf("\n## %s (%d)\n\n", section.Status.Label(), len(section.Comics)))
		if len(section.Comics) == 0 {
			buf.WriteString("_Empty_\n")
			continue
		}
		for i, comic := range section.Comics {
			line := fmt.Sprintf("%d. **%s**", i+1, comic.Title)
			if comic.Author != "" {
				line += " by " + comic.Author
			}
			if comic.Genre != "" {
				line += fmt.Sprintf(" _(%s)_", comic.Genre)
			}
			buf.WriteString(line + "\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a LibraryExport to plain text format
func ExportToText(export *LibraryExport) ([]byte, error) {
	var buf bytes.Buffer

	for i, section := range export.Sections {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("%s: %d\n", section.Status.Label(), len(section.Comics)))
		for j, comic := range section.Comics {
			buf.WriteString(fmt.Sprintf("%d. %s\n", j+1, comic))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a LibraryExport to indented JSON
func ExportToJSON(export *LibraryExport) ([]byte, error) {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// Render converts export to the given format.
func Render(export *LibraryExport, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(export)
	case Markdown:
		return ExportToMarkdown(export)
	case Text:
		return ExportToText(export)
	case JSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders export and writes it to path, or to w when path is empty.
//
// Returns the path written, or "" when writing to w.
func WriteExport(export *LibraryExport, format Format, path string, w io.Writer) (string, error) {
	data, err := Render(export, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		if _, err := w.Write(data); err != nil {
			return "", fmt.Errorf("failed to write export: %w", err)
		}
		return "", nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func optionalInt(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func optionalFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func contains(statuses []models.Status, s models.Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}
