// Package session keeps the state of one interactive conversion: the loaded
// table, the selected page size and the last document that rendered
// successfully. Every operation builds a new Snapshot and swaps it in; a
// snapshot handed out is never modified afterwards.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/config"
	"github.com/Cortexa-LLC/mcp/src/tablepdf/converter"
	"github.com/Cortexa-LLC/mcp/src/tablepdf/layout"
)

var (
	// ErrNoTable is returned when an operation needs a loaded spreadsheet.
	ErrNoTable = errors.New("no spreadsheet loaded; open a file first")
	// ErrNoDocument is returned by Download before any PDF was generated.
	ErrNoDocument = errors.New("no PDF has been generated yet")
)

// Generator reads spreadsheets and renders tables. *converter.Converter
// implements it.
type Generator interface {
	ReadBytes(ctx context.Context, name string, data []byte) (layout.Table, error)
	Generate(ctx context.Context, table layout.Table, size layout.PageSize, title string) (*converter.Document, error)
}

// Rendered is a generated document together with what produced it.
type Rendered struct {
	FileName string
	Size     layout.PageSize
	Document *converter.Document
}

// Snapshot is the complete state of a session at one point in time.
type Snapshot struct {
	FileName     string
	Table        layout.Table
	SizeName     string
	CustomWidth  float64
	CustomHeight float64
	// Rendered is the last successful generation, nil until one succeeds.
	Rendered *Rendered
}

// HasTable reports whether a spreadsheet has been loaded.
func (s Snapshot) HasTable() bool { return !s.Table.Empty() }

// PageSize resolves the selected nominal size.
func (s Snapshot) PageSize() (layout.PageSize, error) {
	return layout.ParsePageSize(s.SizeName, s.CustomWidth, s.CustomHeight)
}

// Session serializes operations on one snapshot.
type Session struct {
	ID string

	gen      Generator
	stripExt bool

	mu   sync.Mutex
	snap Snapshot
}

// New creates a session starting from the configured page size and custom
// dimensions. Invalid configured values fall back to the built-in defaults.
func New(id string, gen Generator, cfg *config.Config) *Session {
	snap := Snapshot{
		SizeName:     layout.SizeA4,
		CustomWidth:  config.DefaultCustomSide,
		CustomHeight: config.DefaultCustomSide,
	}
	if _, err := layout.NewCustomSize(cfg.CustomWidth, cfg.CustomHeight); err == nil {
		snap.CustomWidth, snap.CustomHeight = cfg.CustomWidth, cfg.CustomHeight
	}
	if size, err := layout.ParsePageSize(cfg.PageSize, snap.CustomWidth, snap.CustomHeight); err == nil {
		snap.SizeName = size.Name
	}
	return &Session{ID: id, gen: gen, stripExt: cfg.StripExtension, snap: snap}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Load replaces the table with the first sheet of data and regenerates the
// document. A spreadsheet that cannot be read leaves the session untouched.
// When reading succeeds but rendering fails, the new table is kept and the
// previous document stays current.
func (s *Session) Load(ctx context.Context, name string, data []byte) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.gen.ReadBytes(ctx, name, data)
	if err != nil {
		return s.snap, err
	}
	next := s.snap
	next.FileName = name
	next.Table = table
	return s.recompute(ctx, next)
}

// SelectSize switches to a preset or to "custom" and regenerates. Unknown
// names are rejected without changing anything.
func (s *Session) SelectSize(ctx context.Context, name string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	size, err := layout.ParsePageSize(name, s.snap.CustomWidth, s.snap.CustomHeight)
	if err != nil {
		return s.snap, err
	}
	next := s.snap
	next.SizeName = size.Name
	if !next.HasTable() {
		s.snap = next
		return next, nil
	}
	return s.recompute(ctx, next)
}

// SetCustomDimensions updates the custom page size. Dimensions at or below
// layout.MinCustomDimensionMM yield *layout.InvalidDimensionError and leave
// the prior values in place without regenerating. Valid values regenerate
// only when the custom size is selected.
func (s *Session) SetCustomDimensions(ctx context.Context, width, height float64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := layout.NewCustomSize(width, height); err != nil {
		return s.snap, err
	}
	next := s.snap
	next.CustomWidth, next.CustomHeight = width, height
	if next.SizeName != layout.SizeCustom || !next.HasTable() {
		s.snap = next
		return next, nil
	}
	return s.recompute(ctx, next)
}

// Regenerate lays out and renders the current table again.
func (s *Session) Regenerate(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snap.HasTable() {
		return s.snap, ErrNoTable
	}
	return s.recompute(ctx, s.snap)
}

// Download returns the file name and bytes of the current document.
func (s *Session) Download() (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.snap.Rendered
	if r == nil {
		return "", nil, ErrNoDocument
	}
	return converter.DownloadName(r.FileName, s.stripExt), r.Document.PDF, nil
}

// recompute commits next and renders it. On failure next is still committed
// but keeps the previous Rendered. Callers hold s.mu.
func (s *Session) recompute(ctx context.Context, next Snapshot) (Snapshot, error) {
	size, err := next.PageSize()
	if err != nil {
		s.snap = next
		return next, err
	}
	doc, err := s.gen.Generate(ctx, next.Table, size, converter.DocumentTitle(next.FileName))
	if err != nil {
		s.snap = next
		return next, fmt.Errorf("generate %s: %w", next.FileName, err)
	}
	next.Rendered = &Rendered{FileName: next.FileName, Size: size, Document: doc}
	s.snap = next
	return next, nil
}
