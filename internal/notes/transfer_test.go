package notes

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/quill/internal/cache"
	"github.com/aidanlsb/quill/internal/exchange"
	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/query"
	"github.com/aidanlsb/quill/internal/testutil"
)

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range exchange.Formats {
		t.Run(string(format), func(t *testing.T) {
			ws := testutil.NewTestWorkspace(t).
				WithFile("a.md", "# A\n").
				WithFile("b.txt", "b").
				Build()
			svc, _, _ := newTestService(t, ws)
			mustNew(t, svc, "A", ws.Abs("a.md"), "x")
			mustNew(t, svc, "B", ws.Abs("b.txt"))
			original := loadAll(t, ws.CachePath)

			exportPath := ws.Abs("out/notes." + string(format))
			if err := os.MkdirAll(filepath.Dir(exportPath), 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			res, err := svc.Export(query.Query{}, ExportInput{Path: exportPath})
			if err != nil {
				t.Fatalf("Export returned error: %v", err)
			}
			if res.Count != 2 || res.Format != format {
				t.Fatalf("unexpected export result: %+v", res)
			}

			// Import into a fresh cache.
			other := NewService(cache.NewStore(ws.Abs("other-cache"), nil), nil, nil, nil)
			imported, err := other.Import(ImportInput{Path: exportPath})
			if err != nil {
				t.Fatalf("Import returned error: %v", err)
			}
			if imported.Imported != 2 || imported.Total != 2 {
				t.Fatalf("unexpected import result: %+v", imported)
			}

			got := loadAll(t, ws.Abs("other-cache"))
			if len(got) != len(original) {
				t.Fatalf("expected %d notes, got %d", len(original), len(got))
			}
			for i := range original {
				if !original[i].Equal(got[i]) {
					t.Fatalf("note %d differs after round trip: %+v vs %+v", i, original[i], got[i])
				}
			}
		})
	}
}

func TestExportRelativeAndImportRelative(t *testing.T) {
	ws := testutil.NewTestWorkspace(t).
		WithFile("docs/a.txt", "a").
		WithFile("docs/deep/b.txt", "b").
		Build()
	svc, _, _ := newTestService(t, ws)
	a := mustNew(t, svc, "A", ws.Abs("docs/a.txt"))
	b := mustNew(t, svc, "B", ws.Abs("docs/deep/b.txt"))

	if err := os.MkdirAll(ws.Abs("export"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	exportPath := ws.Abs("export/notes.json")
	if _, err := svc.Export(query.Query{}, ExportInput{Path: exportPath, Relative: true}); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	decoded, err := exchange.Decode([]byte(ws.ReadFile("export/notes.json")), exchange.FormatJSON)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	bodies := map[note.ID]string{}
	for _, n := range decoded {
		bodies[n.ID] = n.Body
	}
	if bodies[a.ID] != filepath.Join("..", "docs", "a.txt") {
		t.Fatalf("relative body of A = %q", bodies[a.ID])
	}
	if bodies[b.ID] != filepath.Join("..", "docs", "deep", "b.txt") {
		t.Fatalf("relative body of B = %q", bodies[b.ID])
	}

	// Move the export and its documents together; relative import resolves
	// against the new location.
	moved := testutil.NewTestWorkspace(t).
		WithFile("docs/a.txt", "a").
		WithFile("docs/deep/b.txt", "b").
		Build()
	moved.WriteFile("export/notes.json", ws.ReadFile("export/notes.json"))

	target := NewService(cache.NewStore(moved.CachePath, nil), nil, nil, nil)
	if _, err := target.Import(ImportInput{Path: moved.Abs("export/notes.json"), Relative: true}); err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	for _, n := range loadAll(t, moved.CachePath) {
		want := moved.Abs("docs/a.txt")
		if n.ID == b.ID {
			want = moved.Abs("docs/deep/b.txt")
		}
		if n.Body != want {
			t.Fatalf("imported body of %s = %q, want %q", n.ID, n.Body, want)
		}
	}
}

func TestImportRelativeIsAllOrNothing(t *testing.T) {
	ws := testutil.NewTestWorkspace(t).WithFile("a.txt", "a").Build()
	content := `[
  {"id": "1", "title": "ok", "tags": [], "body": "a.txt"},
  {"id": "2", "title": "broken", "tags": [], "body": "missing.txt"}
]`
	ws.WriteFile("import.json", content)
	svc, _, _ := newTestService(t, ws)

	_, err := svc.Import(ImportInput{Path: ws.Abs("import.json"), Relative: true})
	if err == nil || !strings.Contains(err.Error(), "missing.txt") {
		t.Fatalf("expected canonicalize failure for missing.txt, got %v", err)
	}
	if ws.CacheBytes() != nil {
		t.Fatal("failed import must not create a cache")
	}
}

func TestImportConflicts(t *testing.T) {
	ws := testutil.NewTestWorkspace(t).WithFile("a.txt", "a").Build()
	svc, confirm, _ := newTestService(t, ws)
	existing := mustNew(t, svc, "Original", ws.Abs("a.txt"))

	content := `[
  {"id": "` + existing.ID.String() + `", "title": "Replacement", "tags": [], "body": "` + filepath.ToSlash(ws.Abs("a.txt")) + `"},
  {"id": "ABC", "title": "Fresh", "tags": ["n"], "body": "` + filepath.ToSlash(ws.Abs("a.txt")) + `"}
]`
	ws.WriteFile("import.json", content)

	res, err := svc.Import(ImportInput{Path: ws.Abs("import.json")})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 1 {
		t.Fatalf("declined conflict: %+v", res)
	}
	if len(confirm.Prompts()) != 1 {
		t.Fatalf("expected one prompt, got %v", confirm.Prompts())
	}
	c, err := cache.Load(ws.CachePath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if n, _ := c.Get(existing.ID); n.Title != "Original" {
		t.Fatalf("declined overwrite replaced note: %+v", n)
	}

	res, err = svc.Import(ImportInput{Path: ws.Abs("import.json"), Force: true})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if res.Imported != 1 || res.Unchanged != 1 {
		t.Fatalf("forced import: %+v", res)
	}
	c, _ = cache.Load(ws.CachePath)
	if n, _ := c.Get(existing.ID); n.Title != "Replacement" {
		t.Fatalf("forced overwrite did not replace note: %+v", n)
	}
}

func TestImportErrors(t *testing.T) {
	ws := testutil.NewTestWorkspace(t).Build()
	svc, _, _ := newTestService(t, ws)

	if _, err := svc.Import(ImportInput{Path: ws.Abs("nope.json")}); !errors.Is(err, ErrImportRead) {
		t.Fatalf("expected ErrImportRead, got %v", err)
	}

	ws.WriteFile("bad.json", "{not json")
	if _, err := svc.Import(ImportInput{Path: ws.Abs("bad.json")}); !errors.Is(err, exchange.ErrDecode) {
		t.Fatalf("expected exchange.ErrDecode, got %v", err)
	}

	ws.WriteFile("blank.json", `[{"id": "1", "title": " ", "tags": [], "body": "/x"}]`)
	if _, err := svc.Import(ImportInput{Path: ws.Abs("blank.json")}); !errors.Is(err, note.ErrInvalid) {
		t.Fatalf("expected note.ErrInvalid, got %v", err)
	}
}

func TestImportRejectsRelativeBodiesUnlessResolving(t *testing.T) {
	ws := testutil.NewTestWorkspace(t).
		WithFile("exports/docs/x.md", "# X\n").
		Build()
	svc, _, _ := newTestService(t, ws)

	ws.WriteFile("exports/notes.json", `[{"id": "1", "title": "T", "tags": ["b", "a"], "body": "docs/x.md"}]`)

	_, err := svc.Import(ImportInput{Path: ws.Abs("exports/notes.json")})
	if !errors.Is(err, note.ErrInvalid) {
		t.Fatalf("expected note.ErrInvalid for a relative body, got %v", err)
	}
	if ws.CacheBytes() != nil {
		t.Fatal("rejected import should not create a cache")
	}

	res, err := svc.Import(ImportInput{Path: ws.Abs("exports/notes.json"), Relative: true})
	if err != nil {
		t.Fatalf("relative import returned error: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("expected 1 imported note, got %+v", res)
	}
	got := loadAll(t, ws.CachePath)
	if len(got) != 1 || got[0].Body != ws.Abs("exports/docs/x.md") {
		t.Fatalf("expected body resolved to %s, got %+v", ws.Abs("exports/docs/x.md"), got)
	}
}

func TestExportErrors(t *testing.T) {
	ws := testutil.NewTestWorkspace(t).WithFile("a.txt", "a").Build()
	svc, _, _ := newTestService(t, ws)

	if _, err := svc.Export(query.Query{}, ExportInput{Path: ws.Abs("out.json")}); !errors.Is(err, cache.ErrNotExist) {
		t.Fatalf("expected ErrNotExist without a cache, got %v", err)
	}

	mustNew(t, svc, "A", ws.Abs("a.txt"))
	if _, err := svc.Export(query.Query{}, ExportInput{Path: ws.Abs("no/such/dir/out.json")}); !errors.Is(err, ErrExportCreate) {
		t.Fatalf("expected ErrExportCreate, got %v", err)
	}
	if _, err := svc.Export(query.Query{}, ExportInput{Path: ws.Abs("out.json"), Format: "xml"}); !errors.Is(err, exchange.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestExportFiltersAndUsesFallbackFormat(t *testing.T) {
	ws := testutil.NewTestWorkspace(t).WithFile("a.txt", "a").Build()
	svc, _, _ := newTestService(t, ws)
	mustNew(t, svc, "keep", ws.Abs("a.txt"), "x")
	mustNew(t, svc, "skip", ws.Abs("a.txt"))

	res, err := svc.Export(query.Query{Tags: []string{"x"}}, ExportInput{Path: ws.Abs("notes.out"), Fallback: exchange.FormatYAML})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if res.Count != 1 || res.Format != exchange.FormatYAML {
		t.Fatalf("unexpected export result: %+v", res)
	}
	ws.AssertFileContains("notes.out", "title: keep")
}
