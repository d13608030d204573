package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/voxport/internal/presentation/graph"
	"github.com/aretw0/voxport/internal/presentation/tui"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
	"github.com/aretw0/voxport/pkg/partition"
	"github.com/aretw0/voxport/pkg/worldjob"
	"github.com/google/uuid"
)

// RunOptions holds the configuration for a chain run.
type RunOptions struct {
	Runtime *Runtime
	// Out receives the range banner, progress lines and system messages.
	Out io.Writer
	// RunID tags every log line of the run. Generated when empty.
	RunID string
}

func (o RunOptions) prepare() (io.Writer, *slog.Logger) {
	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	id := o.RunID
	if id == "" {
		id = uuid.NewString()
	}
	return out, o.Runtime.Logger.With("run_id", id)
}

func (o RunOptions) jobOptions(out io.Writer, logger *slog.Logger) []worldjob.Option {
	rt := o.Runtime
	return []worldjob.Option{
		worldjob.WithLogger(logger),
		worldjob.WithLocker(rt.Locker, rt.Config.Lock.TTL),
		worldjob.WithHooks(rt.Metrics.Hooks()),
		worldjob.WithOutput(out),
	}
}

// RunExport partitions the box and exports the requested range of cells.
func RunExport(ctx context.Context, opts RunOptions, args ExportArgs) error {
	out, logger := opts.prepare()
	rt := opts.Runtime

	s := rt.Session()
	defer s.Close()

	exporter := worldjob.NewExporter(s, rt.Manifests, rt.Schematics, opts.jobOptions(out, logger)...)
	stats, err := exporter.Export(ctx, worldjob.ExportRequest{
		World:   rt.Config.World.Name,
		Box:     args.Box,
		MaxEdge: args.MaxEdge,
		Range:   args.Range,
	})
	if err != nil {
		return reportChainError(out, err, signalOf(ctx), append(rt.Flags.Args(), args.Prefix()...), args.Range)
	}
	printSystemMessage(out, "Exported %d cells of %s in %s.", stats.Completed, rt.Config.World.Name, stats.Elapsed.Round(time.Millisecond))
	return nil
}

// RunImport replays the saved manifest and imports the requested range.
func RunImport(ctx context.Context, opts RunOptions, rng domain.Range) error {
	out, logger := opts.prepare()
	rt := opts.Runtime

	s := rt.Session()
	defer s.Close()

	importer := worldjob.NewImporter(s, rt.Manifests, rt.Schematics, opts.jobOptions(out, logger)...)
	stats, err := importer.Import(ctx, worldjob.ImportRequest{World: rt.Config.World.Name, Range: rng})
	if err != nil {
		return reportChainError(out, err, signalOf(ctx), append(rt.Flags.Args(), "import"), rng)
	}
	printSystemMessage(out, "Imported %d cells into %s in %s.", stats.Completed, rt.Config.World.Name, stats.Elapsed.Round(time.Millisecond))
	return nil
}

// Plan output formats.
const (
	PlanFormatText     = "text"
	PlanFormatMarkdown = "markdown"
	PlanFormatMermaid  = "mermaid"
)

// RunPlan prints the partition of a box without touching any store.
func RunPlan(w io.Writer, args ExportArgs, format string) error {
	grid, err := partition.Partition(args.Box, args.MaxEdge)
	if err != nil {
		return err
	}
	if _, _, err := args.Range.Resolve(grid.Total()); err != nil {
		return err
	}
	cells := partition.Cells(args.Box, grid)

	var text string
	switch format {
	case PlanFormatText, "":
		text = tui.PlanText(args.Box, grid, cells)
	case PlanFormatMarkdown:
		text, err = tui.NewRenderer()(tui.PlanMarkdown(args.Box, grid, cells))
		if err != nil {
			return fmt.Errorf("render plan: %w", err)
		}
	case PlanFormatMermaid:
		var overlay *graph.GraphOverlay
		if args.Range != domain.FullRange {
			overlay = &graph.GraphOverlay{Range: args.Range}
		}
		text = graph.GenerateMermaid(cells, grid.Total(), overlay)
	default:
		return fmt.Errorf("%w: unknown plan format %q", domain.ErrInvalidArgument, format)
	}
	_, err = io.WriteString(w, text)
	return err
}

// ShowManifest writes the stored manifest of world in its text form.
func ShowManifest(ctx context.Context, rt *Runtime, w io.Writer, world string) error {
	m, err := rt.Manifests.Load(ctx, world)
	if err != nil {
		return err
	}
	return manifest.Encode(w, m)
}

// ListManifests writes one world name per line.
func ListManifests(ctx context.Context, rt *Runtime, w io.Writer) error {
	worlds, err := rt.Manifests.List(ctx)
	if err != nil {
		return err
	}
	for _, world := range worlds {
		fmt.Fprintln(w, world)
	}
	return nil
}

// RemoveManifest deletes the manifest of world.
func RemoveManifest(ctx context.Context, rt *Runtime, w io.Writer, world string) error {
	if err := manifest.ValidateWorldName(world); err != nil {
		return err
	}
	if err := rt.Manifests.Delete(ctx, world); err != nil {
		return err
	}
	printSystemMessage(w, "Removed manifest of %s.", world)
	return nil
}

// StartMetrics serves the metrics endpoint in the background when an address
// is configured. It stops when ctx is done.
func StartMetrics(ctx context.Context, rt *Runtime) {
	addr := rt.Config.Metrics.Addr
	if addr == "" {
		return
	}
	go func() {
		if err := rt.Metrics.Serve(ctx, addr, rt.Logger); err != nil {
			rt.Logger.Error("metrics server failed", "err", err)
		}
	}()
}

func signalOf(ctx context.Context) os.Signal {
	if sc, ok := ctx.(*SignalContext); ok {
		return sc.Signal()
	}
	return nil
}
