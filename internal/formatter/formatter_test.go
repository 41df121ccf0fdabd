package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
	th "github.com/desertthunder/comix/internal/testing"
)

func testLists() [models.StatusCount][]models.Comic {
	var lists [models.StatusCount][]models.Comic
	lists[models.Favorite.Index()] = []models.Comic{
		{ID: 101, Title: "Saga", Author: "Vaughan", Genre: "Sci-Fi", Year: 2012, Rating: 4.5},
		{Title: "Local, Only", Author: "Me"},
	}
	lists[models.Trash.Index()] = []models.Comic{{ID: 7, Title: "Spawn", Author: "McFarlane"}}
	return lists
}

func TestExporters(t *testing.T) {
	export := NewExport("reader", testLists())

	t.Run("NewExport", func(t *testing.T) {
		if len(export.Sections) != models.StatusCount {
			t.Fatalf("expected %d sections, got %d", models.StatusCount, len(export.Sections))
		}
		if export.Total() != 3 {
			t.Errorf("expected 3 comics, got %d", export.Total())
		}

		only := NewExport("", testLists(), models.Trash)
		if len(only.Sections) != 1 || only.Sections[0].Status != models.Trash {
			t.Errorf("expected only the trash section, got %+v", only.Sections)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Status,ID,Title,Author,Genre,Year,Rating,Cover") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "favorite,101,Saga,Vaughan,Sci-Fi,2012,4.5,") {
			t.Errorf("CSV missing saga row, got: %s", output)
		}
		if !strings.Contains(output, `favorite,,"Local, Only",Me`) {
			t.Errorf("CSV should quote commas and leave missing ids empty, got: %s", output)
		}
		if !strings.Contains(output, "trash,7,Spawn") {
			t.Errorf("CSV missing trash row")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(export)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# reader's Comic Library",
			"**Comics**: 3",
			"## Favorites (2)",
			"1. **Saga** by Vaughan _(Sci-Fi)_",
			"## In Progress (0)",
			"_Empty_",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(export)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Favorites: 2\n1. Saga by Vaughan\n") {
			t.Errorf("unexpected text output:\n%s", output)
		}
		if !strings.Contains(output, "Trash: 1\n1. Spawn by McFarlane\n") {
			t.Errorf("unexpected text output:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(export)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded LibraryExport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Owner != "reader" || decoded.Total() != 3 {
			t.Errorf("unexpected decoded export %+v", decoded)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := map[string]Format{"csv": CSV, "MD": Markdown, "markdown": Markdown, "txt": Text, "": Text, "json": JSON}
	for raw, want := range tc {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}

	if _, err := ParseFormat("pdf"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	if Markdown.Extension() != ".md" || CSV.Extension() != ".csv" {
		t.Error("unexpected extensions")
	}
}

func TestWriteExport(t *testing.T) {
	export := NewExport("reader", testLists())

	t.Run("To File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "library.csv")
		written, err := WriteExport(export, CSV, path, nil)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}
		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "Saga") {
			t.Error("expected file to contain saga")
		}
	})

	t.Run("To Writer", func(t *testing.T) {
		var buf bytes.Buffer
		written, err := WriteExport(export, Text, "", &buf)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != "" || !strings.Contains(buf.String(), "Favorites: 2") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		if _, err := WriteExport(export, Text, "", &th.FWriter{}); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("Invalid Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "library.txt")
		if _, err := WriteExport(export, Text, path, nil); err == nil {
			t.Error("expected error for missing directory")
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := Render(export, Format("pdf")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
