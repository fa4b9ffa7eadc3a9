package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/converter"
	"github.com/Cortexa-LLC/mcp/src/tablepdf/layout"
	"github.com/Cortexa-LLC/mcp/src/tablepdf/session"
)

// MCP tool parameter keys, shared between schema definitions and
// argument extraction so a typo in one place is caught by the other.
const (
	argPath      = "path"
	argName      = "name"
	argContent   = "content_base64"
	argSessionID = "session_id"
	argPageSize  = "page_size"
	argWidth     = "width"
	argHeight    = "height"
	argOutput    = "output"
	argOutputDir = "output_dir"
)

// previewRows is how many body rows the Markdown preview shows.
const previewRows = 10

type toolServer struct {
	conv     *converter.Converter
	sessions *session.Manager
}

func newToolServer(conv *converter.Converter, sessions *session.Manager) *toolServer {
	return &toolServer{conv: conv, sessions: sessions}
}

// registerTools binds MCP tool definitions to their handlers.
func registerTools(s *server.MCPServer, ts *toolServer) {
	sizes := layout.SizeNames()

	s.AddTool(
		mcp.NewTool("open_spreadsheet",
			mcp.WithDescription("Open a spreadsheet (.xlsx, .xlsm, .xltx, .xltm, .csv) in a new session and render its first sheet as a PDF table. "+
				"Pass an absolute file path, or a file name plus base64 content."),
			mcp.WithString(argPath, mcp.Description("Absolute path of the spreadsheet")),
			mcp.WithString(argName, mcp.Description("File name when sending content instead of a path")),
			mcp.WithString(argContent, mcp.Description("Base64-encoded spreadsheet bytes")),
		),
		ts.handleOpen,
	)

	s.AddTool(
		mcp.NewTool("set_page_size",
			mcp.WithDescription("Select the page size of a session and regenerate the PDF."),
			mcp.WithString(argSessionID, mcp.Required(), mcp.Description("Session id from open_spreadsheet")),
			mcp.WithString(argPageSize, mcp.Required(), mcp.Enum(sizes...), mcp.Description("Page size")),
		),
		ts.handleSetPageSize,
	)

	s.AddTool(
		mcp.NewTool("set_custom_dimensions",
			mcp.WithDescription(fmt.Sprintf("Set the custom page width and height in mm (both above %g). "+
				"Regenerates when the custom size is selected.", layout.MinCustomDimensionMM)),
			mcp.WithString(argSessionID, mcp.Required(), mcp.Description("Session id from open_spreadsheet")),
			mcp.WithNumber(argWidth, mcp.Required(), mcp.Description("Page width in mm")),
			mcp.WithNumber(argHeight, mcp.Required(), mcp.Description("Page height in mm")),
		),
		ts.handleSetCustomDimensions,
	)

	s.AddTool(
		mcp.NewTool("regenerate_pdf",
			mcp.WithDescription("Lay out and render the session's table again."),
			mcp.WithString(argSessionID, mcp.Required(), mcp.Description("Session id from open_spreadsheet")),
		),
		ts.handleRegenerate,
	)

	s.AddTool(
		mcp.NewTool("save_pdf",
			mcp.WithDescription("Write the session's current PDF to disk and return its path."),
			mcp.WithString(argSessionID, mcp.Required(), mcp.Description("Session id from open_spreadsheet")),
			mcp.WithString(argOutputDir, mcp.Description("Directory to write into (default from config)")),
		),
		ts.handleSave,
	)

	s.AddTool(
		mcp.NewTool("close_session",
			mcp.WithDescription("Discard a session."),
			mcp.WithString(argSessionID, mcp.Required(), mcp.Description("Session id from open_spreadsheet")),
		),
		ts.handleClose,
	)

	s.AddTool(
		mcp.NewTool("convert_spreadsheet",
			mcp.WithDescription("Convert a spreadsheet to PDF in one step and write it to disk."),
			mcp.WithString(argPath, mcp.Required(), mcp.Description("Absolute path of the spreadsheet")),
			mcp.WithString(argPageSize, mcp.Enum(sizes...), mcp.Description("Page size (default from config)")),
			mcp.WithNumber(argWidth, mcp.Description("Custom page width in mm")),
			mcp.WithNumber(argHeight, mcp.Description("Custom page height in mm")),
			mcp.WithString(argOutput, mcp.Description("Output file path")),
		),
		ts.handleConvert,
	)

	s.AddTool(
		mcp.NewTool("get_conversion_info",
			mcp.WithDescription("Return supported input formats, page sizes, and active configuration."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(ts.conv.GetConversionInfo(ctx)), nil
		},
	)
}

// ---- handlers ---------------------------------------------------------------

func (ts *toolServer) handleOpen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, data, err := ts.readInput(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s := ts.sessions.Create()
	snap, err := s.Load(ctx, name, data)
	if err != nil && !snap.HasTable() {
		_ = ts.sessions.Close(s.ID)
		log.Printf("open %s: %v", name, err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Printf("session %s opened %s", s.ID, name)
	return mcp.NewToolResultText(describe(s.ID, snap, err)), nil
}

func (ts *toolServer) handleSetPageSize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, errResult := ts.session(req)
	if errResult != nil {
		return errResult, nil
	}
	size := stringArg(req, argPageSize)
	snap, err := s.SelectSize(ctx, size)
	return ts.stateResult(s.ID, snap, err), nil
}

func (ts *toolServer) handleSetCustomDimensions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, errResult := ts.session(req)
	if errResult != nil {
		return errResult, nil
	}
	w, okW := numberArg(req, argWidth)
	h, okH := numberArg(req, argHeight)
	if !okW || !okH {
		return mcp.NewToolResultError(argWidth + " and " + argHeight + " are required numbers"), nil
	}
	snap, err := s.SetCustomDimensions(ctx, w, h)
	return ts.stateResult(s.ID, snap, err), nil
}

func (ts *toolServer) handleRegenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, errResult := ts.session(req)
	if errResult != nil {
		return errResult, nil
	}
	snap, err := s.Regenerate(ctx)
	return ts.stateResult(s.ID, snap, err), nil
}

func (ts *toolServer) handleSave(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, errResult := ts.session(req)
	if errResult != nil {
		return errResult, nil
	}
	name, data, err := s.Download()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir := stringArg(req, argOutputDir)
	if dir == "" {
		dir = ts.conv.Config().OutputDir
	}
	dest := filepath.Join(dir, name)
	if err := writePDF(dest, data); err != nil {
		log.Printf("session %s: %v", s.ID, err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %s (%d bytes)", dest, len(data))), nil
}

func (ts *toolServer) handleClose(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(req, argSessionID)
	if err := ts.sessions.Close(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Printf("session %s closed", id)
	return mcp.NewToolResultText("Closed session " + id), nil
}

func (ts *toolServer) handleConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := stringArg(req, argPath)
	if path == "" {
		return mcp.NewToolResultError(argPath + " is required"), nil
	}
	cfg := ts.conv.Config()
	sizeName := stringArg(req, argPageSize)
	if sizeName == "" {
		sizeName = cfg.PageSize
	}
	w, ok := numberArg(req, argWidth)
	if !ok {
		w = cfg.CustomWidth
	}
	h, ok := numberArg(req, argHeight)
	if !ok {
		h = cfg.CustomHeight
	}
	size, err := layout.ParsePageSize(sizeName, w, h)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := ts.conv.ConvertFile(ctx, path, size)
	if err != nil {
		log.Printf("convert %s: %v", path, err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	dest := stringArg(req, argOutput)
	if dest == "" {
		dest = filepath.Join(cfg.OutputDir, converter.DownloadName(path, cfg.StripExtension))
	}
	if err := writePDF(dest, doc.PDF); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %s\n\n%s", dest, describeDocument(size, doc))), nil
}

// ---- helpers ----------------------------------------------------------------

// readInput resolves the spreadsheet name and bytes from either a path or
// inline base64 content.
func (ts *toolServer) readInput(ctx context.Context, req mcp.CallToolRequest) (string, []byte, error) {
	if path := stringArg(req, argPath); path != "" {
		return ts.conv.ReadSource(ctx, path)
	}

	name, content := stringArg(req, argName), stringArg(req, argContent)
	if name == "" || content == "" {
		return "", nil, fmt.Errorf("%s, or %s and %s, are required", argPath, argName, argContent)
	}
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", nil, fmt.Errorf("decode %s: %w", argContent, err)
	}
	return filepath.Base(name), data, nil
}

func (ts *toolServer) session(req mcp.CallToolRequest) (*session.Session, *mcp.CallToolResult) {
	id := stringArg(req, argSessionID)
	if id == "" {
		return nil, mcp.NewToolResultError(argSessionID + " is required")
	}
	s, err := ts.sessions.Get(id)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return s, nil
}

// stateResult reports a session operation. Errors are returned as tool
// errors; the session keeps whatever state the operation left it in.
func (ts *toolServer) stateResult(id string, snap session.Snapshot, err error) *mcp.CallToolResult {
	if err != nil {
		log.Printf("session %s: %v", id, err)
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(describe(id, snap, nil))
}

func stringArg(req mcp.CallToolRequest, key string) string {
	v, _ := req.Params.Arguments[key].(string)
	return strings.TrimSpace(v)
}

func numberArg(req mcp.CallToolRequest, key string) (float64, bool) {
	switch v := req.Params.Arguments[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// describe renders a session snapshot as Markdown. genErr, when set, is a
// generation failure that left the previous document in place.
func describe(id string, snap session.Snapshot, genErr error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Session %s\n\n", id)
	fmt.Fprintf(&sb, "- File: %s\n", snap.FileName)
	fmt.Fprintf(&sb, "- Selected page size: %s", snap.SizeName)
	if snap.SizeName == layout.SizeCustom {
		fmt.Fprintf(&sb, " (%gx%g mm)", snap.CustomWidth, snap.CustomHeight)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- Columns: %d, rows: %d\n", snap.Table.Columns(), len(snap.Table.Rows))

	if genErr != nil {
		fmt.Fprintf(&sb, "\n**PDF generation failed:** %v\n", genErr)
	}
	if r := snap.Rendered; r != nil {
		sb.WriteString("\n## PDF\n\n")
		sb.WriteString(describeDocument(r.Size, r.Document))
	}
	if preview := converter.MarkdownPreview(snap.Table, previewRows); preview != "" {
		sb.WriteString("\n## Table preview\n\n")
		sb.WriteString(preview)
	}
	return sb.String()
}

func describeDocument(size layout.PageSize, doc *converter.Document) string {
	widths := make([]string, len(doc.Widths))
	for i, w := range doc.Widths {
		widths[i] = fmt.Sprintf("%.1f", w)
	}
	pages := 0
	if doc.Preview != nil {
		pages = doc.Preview.NumPages
	}
	return fmt.Sprintf("- Page: %s, %s %gx%g mm\n- Column widths (mm): %s\n- Pages: %d\n",
		size, doc.Geometry.Orientation, doc.Geometry.Width, doc.Geometry.Height,
		strings.Join(widths, ", "), pages)
}
