package fparser

import (
	"log/slog"
	"testing"

	"github.com/soypat/go-fparser/ast"
)

func TestCache(t *testing.T) {
	h := &recordHandler{}
	c := Cache{Logger: slog.New(h)}
	opts := Options{Mode: ModeFree, Logger: discardLogger, Source: "a.f90"}
	first, err := c.Parse("x = 1\n", opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Parse("x = 1\n", opts)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("cache returned a different tree")
	}
	if msgs := h.messages(slog.LevelInfo); len(msgs) != 1 || msgs[0] != "using cached a.f90" {
		t.Errorf("got info messages %q", msgs)
	}
	// Content and mode are part of the key.
	if _, err := c.Parse("x = 2\n", opts); err != nil {
		t.Fatal(err)
	}
	opts.Mode = ModePyf
	if _, err := c.Parse("x = 1\n", opts); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Errorf("got %d entries, want 3", c.Len())
	}
	// Failures are not cached.
	if _, err := c.Parse("if (x) then\n", opts); err == nil {
		t.Fatal("expected error")
	}
	if c.Len() != 3 {
		t.Errorf("failed parse was cached: %d entries", c.Len())
	}
}

func TestCache_options(t *testing.T) {
	const src = "x = 1 ! note\n"
	var c Cache
	c.Logger = discardLogger
	opts := Options{Mode: ModeFree, Logger: discardLogger, Source: "b.f90"}
	plain, err := c.Parse(src, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.KeepComments = true
	commented, err := c.Parse(src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if plain == commented {
		t.Fatal("KeepComments parse returned the tree cached without comments")
	}
	if got := ast.Collect(commented, ast.KindComment); len(got) != 1 {
		t.Errorf("got %d comments, want 1", len(got))
	}
	if got := ast.Collect(plain, ast.KindComment); len(got) != 0 {
		t.Errorf("got %d comments without KeepComments", len(got))
	}

	// A different registry parses again.
	reg := NewRegistry()
	if err := registerFortran(reg); err != nil {
		t.Fatal(err)
	}
	opts.Registry = reg
	custom, err := c.Parse(src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if custom == commented || c.Len() != 3 {
		t.Errorf("registry not part of the cache key: %d entries", c.Len())
	}
}
