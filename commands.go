package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weft/internal/config"
	"weft/internal/geom"
	"weft/internal/graph"
	"weft/internal/logging"
	"weft/internal/render"
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	info   = color.New(color.FgCyan)
	warn   = color.New(color.FgYellow)
	bad    = color.New(color.FgRed)
)

var rootCmd = &cobra.Command{
	Use:   "weft [file]",
	Short: "weft is a node canvas for media pipelines",
	Long: `weft edits pipeline canvases in the terminal: nodes with typed ports,
wires between them, groups and docked panels.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runEdit,
}

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open a canvas in the interactive editor",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEdit,
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Render a canvas to PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var textCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "Print the saved view of a canvas as text",
	Args:  cobra.ExactArgs(1),
	RunE:  runText,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List visible nodes, wires and resolved handle positions",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		bad.Fprintf(os.Stderr, "weft: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/weft/config.toml)")
	rootCmd.PersistentFlags().String("log-file", "", "log file for the interactive editor")

	for _, c := range []*cobra.Command{rootCmd, editCmd} {
		c.Flags().Bool("watch", false, "reload the canvas when the file changes on disk")
	}

	exportCmd.Flags().StringP("output", "o", "", "output PNG path (default <file>.png)")
	exportCmd.Flags().Bool("viewport", false, "draw only the saved view instead of the whole canvas")
	exportCmd.Flags().Float64("scale", 1, "pixels per world unit for whole-canvas export")
	exportCmd.Flags().Int("width", 1280, "screen width in pixels for --viewport")
	exportCmd.Flags().Int("height", 800, "screen height in pixels for --viewport")

	textCmd.Flags().Int("width", 120, "columns")
	textCmd.Flags().Int("height", 40, "rows")

	inspectCmd.Flags().String("node", "", "only show this node")
	inspectCmd.Flags().Int("width", 1280, "screen width in pixels")
	inspectCmd.Flags().Int("height", 800, "screen height in pixels")

	rootCmd.AddCommand(editCmd, exportCmd, textCmd, inspectCmd)
}

func commandConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return loadConfig(path)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	logPath, _ := cmd.Flags().GetString("log-file")
	logger, closer := openLog(cfg, logPath)
	defer closer.Close()

	filename := ""
	if len(args) > 0 {
		filename = cfg.SavePath(args[0])
	}
	machine := newDockMachine(cfg, logger)
	buf, err := openBuffer(cfg, machine, logger, filename)
	if err != nil {
		return err
	}

	m := initialModel(cfg, buf, machine, logger)
	watch, _ := cmd.Flags().GetBool("watch")
	m.watching = watch && filename != ""

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if m.watching {
		w, err := watchFile(filename, p.Send, watchDebounce, logger)
		if err != nil {
			return fmt.Errorf("watch %s: %w", filename, err)
		}
		defer w.Close()
	}

	logger.Info("editor started", "file", filename)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// loadScene opens a canvas for the batch commands with its saved view on a
// width×height pixel screen.
func loadScene(cfg *config.Config, path string, width, height int) (*render.Scene, error) {
	logger := logging.NewNop()
	machine := newDockMachine(cfg, logger)
	doc, err := graph.Load(path)
	if err != nil {
		return nil, err
	}
	buf := newBuffer(cfg, machine, logger, path)
	buf.load(doc, machine)
	buf.view.SetRect(geom.Rect{W: float64(max(width, 1)), H: float64(max(height, 1))})
	return buf.scene, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	scene, err := loadScene(cfg, args[0], width, height)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
	}
	viewportOnly, _ := cmd.Flags().GetBool("viewport")
	scale, _ := cmd.Flags().GetFloat64("scale")

	f := scene.FullFrame(nil)
	if viewportOnly {
		f = scene.Frame(nil, nil)
	}
	if err := render.ExportPNG(out, f, render.PNGOptions{Viewport: viewportOnly, Scale: scale}); err != nil {
		return err
	}
	brand.Fprint(cmd.OutOrStdout(), "exported ")
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runText(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	cols, _ := cmd.Flags().GetInt("width")
	rows, _ := cmd.Flags().GetInt("height")
	cell := render.Cell{W: cfg.Render.CellWidthPx, H: cfg.Render.CellHeightPx}
	scene, err := loadScene(cfg, args[0], int(float64(cols)*cell.W), int(float64(rows)*cell.H))
	if err != nil {
		return err
	}
	for _, line := range render.Text(scene.Frame(nil, nil), cols, rows, cell) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(line, " "))
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	scene, err := loadScene(cfg, args[0], width, height)
	if err != nil {
		return err
	}
	only, _ := cmd.Flags().GetString("node")
	return inspect(cmd.OutOrStdout(), scene, only)
}

// inspect prints the visible set of scene and, per node, its resolved
// handles.
func inspect(w io.Writer, scene *render.Scene, only string) error {
	f := scene.Frame(nil, nil)
	if only != "" {
		n, ok := scene.Store.Node(only)
		if !ok {
			return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, only)
		}
		printNode(w, scene, n)
		return nil
	}

	brand.Fprintf(w, "%d of %d nodes visible", len(f.Nodes), scene.Store.Len())
	subtle.Fprintf(w, " (scale %.2f, translate %.0f,%.0f)\n", f.View.Scale, f.View.Translate.X, f.View.Translate.Y)
	for _, n := range f.Nodes {
		printNode(w, scene, n)
	}

	if len(f.Wires) > 0 {
		brand.Fprintf(w, "\n%d wires\n", len(f.Wires))
		for _, wire := range f.Wires {
			fmt.Fprintf(w, "  %s %s:%s -> %s:%s ", wire.ID, wire.FromNodeID, portLabel(wire.FromHandleID), wire.ToNodeID, portLabel(wire.ToHandleID))
			subtle.Fprintf(w, "(%.0f,%.0f) -> (%.0f,%.0f)\n", wire.From.X, wire.From.Y, wire.To.X, wire.To.Y)
		}
	}

	if len(f.Groups) > 0 {
		brand.Fprintf(w, "\n%d groups\n", len(f.Groups))
		for _, g := range f.Groups {
			b := g.Bounds()
			fmt.Fprintf(w, "  %s %q ", g.ID, g.Title)
			subtle.Fprintf(w, "%.0f,%.0f %.0fx%.0f, %d members\n", b.X, b.Y, b.W, b.H, len(g.NodeIDs))
		}
	}

	if len(f.Panels) > 0 {
		brand.Fprintf(w, "\n%d docked panels\n", len(f.Panels))
		for _, p := range f.Panels {
			r := p.Box.Rect
			fmt.Fprintf(w, "  %s %s ", p.Node.ID, p.Node.Mode())
			subtle.Fprintf(w, "%.0f,%.0f %.0fx%.0f layer %d\n", r.X, r.Y, r.W, r.H, p.Layer)
		}
	}
	return nil
}

func printNode(w io.Writer, scene *render.Scene, n graph.Node) {
	b := render.NodeBox(n)
	info.Fprintf(w, "  %s", n.ID)
	fmt.Fprintf(w, " %s ", n.Type)
	subtle.Fprintf(w, "%.0f,%.0f %.0fx%.0f", b.X, b.Y, b.W, b.H)
	var flags []string
	if n.IsCollapsed {
		flags = append(flags, "collapsed")
	}
	if n.IsPinned {
		flags = append(flags, "pinned")
	}
	if n.Docked() {
		flags = append(flags, "docked:"+string(n.Mode()))
	}
	if len(flags) > 0 {
		warn.Fprintf(w, " [%s]", strings.Join(flags, " "))
	}
	fmt.Fprintln(w)

	for _, isInput := range []bool{true, false} {
		for _, h := range scene.Resolver.Handles(n, isInput) {
			p, _ := scene.Resolver.Resolve(n, h.ID, isInput)
			dir := "out"
			if isInput {
				dir = "in "
			}
			fmt.Fprintf(w, "      %s %-14s", dir, portLabel(h.ID))
			subtle.Fprintf(w, "(%.0f,%.0f)\n", p.X, p.Y)
		}
	}
}

func portLabel(id string) string {
	if id == "" {
		return "default"
	}
	return id
}
