package voxport

import (
	"context"
	_ "embed"
	"errors"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/aretw0/voxport/pkg/adapters/memory"
	"github.com/aretw0/voxport/pkg/chain"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/partition"
	"github.com/aretw0/voxport/pkg/ports"
	"github.com/aretw0/voxport/pkg/session"
	"github.com/aretw0/voxport/pkg/worldjob"
)

// Version is the release of the library and the voxport binary.
//
//go:embed VERSION
var Version string

// Porter is the high-level entry point for the voxport library.
// It owns the stores and opens one editing session per run.
type Porter struct {
	world       ports.BlockStore
	manifests   ports.ManifestStore
	schematics  ports.SchematicStore
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	hooks       []domain.JobHooks
	out         io.Writer
	logger      *slog.Logger
	sessionOpts []session.Option
	Name        string
}

// Option defines a functional option for configuring the Porter.
type Option func(*Porter)

// WithWorldName sets the world name manifests and schematics are keyed by
// (default: "exportworldmod").
func WithWorldName(name string) Option {
	return func(p *Porter) {
		p.Name = name
	}
}

// WithManifestStore injects where manifests are kept. Defaults to memory.
func WithManifestStore(s ports.ManifestStore) Option {
	return func(p *Porter) {
		p.manifests = s
	}
}

// WithSchematicStore injects where cell schematics are kept. Defaults to memory.
func WithSchematicStore(s ports.SchematicStore) Option {
	return func(p *Porter) {
		p.schematics = s
	}
}

// WithLocker replaces the in-process world lock, e.g. with a Redis one.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(p *Porter) {
		p.locker = l
		p.lockTTL = ttl
	}
}

// WithJobHooks registers observability hooks.
func WithJobHooks(hooks domain.JobHooks) Option {
	return func(p *Porter) {
		p.hooks = append(p.hooks, hooks)
	}
}

// WithProgress writes the range banner and per-cell progress lines to w.
func WithProgress(w io.Writer) Option {
	return func(p *Porter) {
		p.out = w
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Porter) {
		p.logger = logger
	}
}

// WithSessionOptions tunes the editing sessions the Porter opens.
func WithSessionOptions(opts ...session.Option) Option {
	return func(p *Porter) {
		p.sessionOpts = append(p.sessionOpts, opts...)
	}
}

// New creates a Porter editing world.
func New(world ports.BlockStore, opts ...Option) (*Porter, error) {
	if world == nil {
		return nil, errors.New("voxport: world is required")
	}
	p := &Porter{
		world:   world,
		lockTTL: worldjob.DefaultLockTTL,
		Name:    domain.DefaultWorldName,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.manifests == nil {
		p.manifests = memory.NewStore()
	}
	if p.schematics == nil {
		p.schematics = memory.NewSchematics()
	}
	if p.locker == nil {
		p.locker = memory.NewLocker()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.out == nil {
		p.out = io.Discard
	}
	return p, nil
}

// Plan partitions box without touching any store.
func (p *Porter) Plan(box domain.BoundingBox, maxEdge int) (domain.GridSpec, iter.Seq[domain.Cell], error) {
	grid, err := partition.Partition(box, maxEdge)
	if err != nil {
		return domain.GridSpec{}, nil, err
	}
	return grid, partition.Cells(box, grid), nil
}

// Export saves the manifest of box and exports the cells in rng.
func (p *Porter) Export(ctx context.Context, box domain.BoundingBox, maxEdge int, rng domain.Range) (chain.Stats, error) {
	s := session.New(p.world, p.sessionOptions()...)
	defer s.Close()

	exp := worldjob.NewExporter(s, p.manifests, p.schematics, p.jobOptions()...)
	return exp.Export(ctx, worldjob.ExportRequest{World: p.Name, Box: box, MaxEdge: maxEdge, Range: rng})
}

// Import replays the last export of the world and imports the cells in rng.
func (p *Porter) Import(ctx context.Context, rng domain.Range) (chain.Stats, error) {
	s := session.New(p.world, p.sessionOptions()...)
	defer s.Close()

	imp := worldjob.NewImporter(s, p.manifests, p.schematics, p.jobOptions()...)
	return imp.Import(ctx, worldjob.ImportRequest{World: p.Name, Range: rng})
}

func (p *Porter) sessionOptions() []session.Option {
	return append([]session.Option{session.WithLogger(p.logger)}, p.sessionOpts...)
}

func (p *Porter) jobOptions() []worldjob.Option {
	opts := []worldjob.Option{
		worldjob.WithLogger(p.logger),
		worldjob.WithLocker(p.locker, p.lockTTL),
		worldjob.WithOutput(p.out),
	}
	for _, h := range p.hooks {
		opts = append(opts, worldjob.WithHooks(h))
	}
	return opts
}
