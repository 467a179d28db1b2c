package assets

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"testing"
	"testing/fstest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// permissionFS は特定のパスだけ権限エラーを返す
type permissionFS struct {
	fs.FS
	denied string
}

func (p permissionFS) Open(name string) (fs.File, error) {
	if name == p.denied {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return p.FS.Open(name)
}

func TestMediaTypeFor(t *testing.T) {
	testCases := []struct {
		name string
		want MediaType
	}{
		{"index.html", MediaTypeHTML},
		{"index.css", MediaTypeCSS},
		{"index.js", MediaTypeJavaScript},
		{"logo.svg", MediaTypeSVG},
		{"favicon.ico", MediaTypePlain},
		{"waifu.png", MediaTypePlain},
		{"README", MediaTypePlain},
		{"archive.tar.html", MediaTypeHTML},
		{"dir.d/file", MediaTypePlain},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MediaTypeFor(tc.name); got != tc.want {
				t.Errorf("MediaTypeFor(%q) = %s, want %s", tc.name, got, tc.want)
			}
		})
	}
}

func TestBuild_FlatAndNested(t *testing.T) {
	src := fstest.MapFS{
		"index.html":               {Data: []byte("<h1>home</h1>")},
		"index.css":                {Data: []byte("body{}")},
		"index.js":                 {Data: []byte("console.log(1)")},
		"factorization/index.html": {Data: []byte("<h1>factor</h1>")},
		"factorization/deep/a.svg": {Data: []byte("<svg/>")},
	}
	decls := []Declaration{
		Leaf("index.html"),
		Leaf("index.css"),
		Leaf("index.js"),
		Dir("factorization",
			Leaf("index.html"),
			Dir("deep", Leaf("a.svg")),
		),
	}

	table, err := Build(src, "site", decls, discardLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := map[string]struct {
		content string
		media   MediaType
	}{
		"site/index.html":               {"<h1>home</h1>", MediaTypeHTML},
		"site/index.css":                {"body{}", MediaTypeCSS},
		"site/index.js":                 {"console.log(1)", MediaTypeJavaScript},
		"site/factorization/index.html": {"<h1>factor</h1>", MediaTypeHTML},
		"site/factorization/deep/a.svg": {"<svg/>", MediaTypeSVG},
	}

	if table.Len() != len(want) {
		t.Fatalf("Expected %d entries, got %d: %v", len(want), table.Len(), table.Paths())
	}

	for key, w := range want {
		asset, ok := table.Lookup(key)
		if !ok {
			t.Errorf("missing entry %s", key)
			continue
		}
		if asset.Path != key {
			t.Errorf("entry %s has path %s", key, asset.Path)
		}
		if string(asset.Content) != w.content {
			t.Errorf("entry %s content = %q, want %q", key, asset.Content, w.content)
		}
		if asset.MediaType != w.media {
			t.Errorf("entry %s media type = %s, want %s", key, asset.MediaType, w.media)
		}
	}
}

func TestBuild_MissingLeafIsSentinel(t *testing.T) {
	src := fstest.MapFS{
		"index.html": {Data: []byte("ok")},
	}

	table, err := Build(src, "site", []Declaration{Leaf("index.html"), Leaf("waifu.png")}, discardLogger())
	if err != nil {
		t.Fatalf("missing leaf must not fail the build: %v", err)
	}

	asset, ok := table.Lookup("site/waifu.png")
	if !ok {
		t.Fatal("expected sentinel entry for missing leaf")
	}
	if !asset.IsNotFound() {
		t.Errorf("expected not-found sentinel, got %+v", asset)
	}
	if asset.MediaType != MediaTypeError || string(asset.Content) != NotFoundContent {
		t.Errorf("unexpected sentinel %q/%s", asset.Content, asset.MediaType)
	}

	stats := table.Stats()
	if stats.Cached != 1 || stats.NotFound != 1 || stats.Failed != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestBuild_OtherFailuresAreFatal(t *testing.T) {
	t.Run("permission", func(t *testing.T) {
		src := permissionFS{
			FS:     fstest.MapFS{"secret.html": {Data: []byte("x")}},
			denied: "secret.html",
		}
		table, err := Build(src, "site", []Declaration{Leaf("secret.html")}, discardLogger())
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, fs.ErrPermission) {
			t.Errorf("expected wrapped permission error, got %v", err)
		}
		if table != nil {
			t.Error("no table must be returned on failure")
		}
	})

	t.Run("directory declared as leaf", func(t *testing.T) {
		src := fstest.MapFS{"sub/file.txt": {Data: []byte("x")}}
		if _, err := Build(src, "site", []Declaration{Leaf("sub")}, discardLogger()); err == nil {
			t.Fatal("expected error when reading a directory")
		}
	})

	t.Run("nested failure aborts", func(t *testing.T) {
		src := permissionFS{
			FS:     fstest.MapFS{"a/b.css": {Data: []byte("x")}},
			denied: "a/b.css",
		}
		decls := []Declaration{Leaf("missing.html"), Dir("a", Leaf("b.css"))}
		if _, err := Build(src, "site", decls, discardLogger()); err == nil {
			t.Fatal("expected error from nested directory")
		}
	})
}

func TestBuild_LastWriteWins(t *testing.T) {
	src := fstest.MapFS{"a.txt": {Data: []byte("same")}}
	decls := []Declaration{Leaf("a.txt"), Leaf("a.txt")}

	table, err := Build(src, "root", decls, discardLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("duplicate declarations must collapse to one entry, got %d", table.Len())
	}
}

func TestBuild_EmptyDirectory(t *testing.T) {
	table, err := Build(fstest.MapFS{}, "site", []Declaration{Dir("empty")}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("expected empty table, got %v", table.Paths())
	}
}

func TestTable_IsDetachedFromInput(t *testing.T) {
	entries := map[string]Asset{
		"site/a.html": {Path: "site/a.html", Content: []byte("a"), MediaType: MediaTypeHTML},
	}
	table := NewTable(entries)

	entries["site/b.html"] = Asset{Path: "site/b.html"}
	delete(entries, "site/a.html")

	if _, ok := table.Lookup("site/a.html"); !ok {
		t.Error("table must keep its own copy of the entries")
	}
	if _, ok := table.Lookup("site/b.html"); ok {
		t.Error("later writes to the input map must not be visible")
	}

	paths := table.Paths()
	paths[0] = "mutated"
	if table.Paths()[0] != "site/a.html" {
		t.Error("Paths must return a copy")
	}
}

func TestDeclaration_IsDir(t *testing.T) {
	if Leaf("x").IsDir() {
		t.Error("leaf reported as directory")
	}
	if !Dir("x").IsDir() {
		t.Error("empty directory reported as leaf")
	}
}
