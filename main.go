package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/config"
	"github.com/Cortexa-LLC/mcp/src/tablepdf/converter"
	"github.com/Cortexa-LLC/mcp/src/tablepdf/layout"
	"github.com/Cortexa-LLC/mcp/src/tablepdf/session"
)

// Server identity constants.
const (
	serverName    = "tablepdf"
	serverVersion = "0.1.0"
)

var (
	pageSize   string
	width      float64
	height     float64
	outputPath string
)

func main() {
	log.SetPrefix("tablepdf: ")
	log.SetOutput(os.Stderr)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablepdf",
		Short: "Convert the first sheet of a spreadsheet into a paginated PDF table",
		Long: `tablepdf lays the first sheet of an .xlsx or .csv file out as a PDF table,
choosing the page orientation and column widths to fit the selected page size.`,
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	convertCmd := &cobra.Command{
		Use:   "convert [input.xlsx]",
		Short: "Convert one spreadsheet to PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}
	convertCmd.Flags().StringVarP(&pageSize, "page-size", "s", "", "Page size: a4, a3, letter or custom (default from config)")
	convertCmd.Flags().Float64Var(&width, "width", 0, "Custom page width in mm (with --page-size custom)")
	convertCmd.Flags().Float64Var(&height, "height", 0, "Custom page height in mm (with --page-size custom)")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: <output dir>/<input name>.pdf)")

	rootCmd.AddCommand(serveCmd, convertCmd)
	return rootCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	// A broken config file falls back to defaults.
	cfg := config.MustLoad()

	s := server.NewMCPServer(serverName, serverVersion)
	conv := converter.NewConverter(cfg)
	registerTools(s, newToolServer(conv, session.NewManager(conv, cfg)))

	log.Printf("serving on stdio (max file size %d MB, page size %s)", cfg.MaxFileSizeMB(), cfg.PageSize)
	if err := server.ServeStdio(s); err != nil {
		log.Printf("server error: %v", err)
		return err
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	sizeName, w, h := cfg.PageSize, cfg.CustomWidth, cfg.CustomHeight
	flags := cmd.Flags()
	if flags.Changed("page-size") {
		sizeName = pageSize
	}
	if flags.Changed("width") {
		w = width
	}
	if flags.Changed("height") {
		h = height
	}
	size, err := layout.ParsePageSize(sizeName, w, h)
	if err != nil {
		return err
	}

	conv := converter.NewConverter(cfg)
	doc, err := conv.ConvertFile(context.Background(), inputPath, size)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	dest := outputPath
	if dest == "" {
		dest = filepath.Join(cfg.OutputDir, converter.DownloadName(inputPath, cfg.StripExtension))
	}
	if err := writePDF(dest, doc.PDF); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %gx%g mm, %d page(s)\n",
		dest, doc.Geometry.Orientation, doc.Geometry.Width, doc.Geometry.Height, doc.Preview.NumPages)
	return nil
}

func writePDF(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
