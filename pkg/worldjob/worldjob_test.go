package worldjob_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/voxport/pkg/adapters/memory"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
	"github.com/aretw0/voxport/pkg/ports"
	"github.com/aretw0/voxport/pkg/session"
	"github.com/aretw0/voxport/pkg/worldjob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const world = "testworld"

func v(x, y, z int) domain.Vec3 { return domain.Vec3{X: x, Y: y, Z: z} }

// box40 spans 3x1x2 cells with a max edge of 16.
var box40 = domain.NewBoundingBox(v(0, 0, 0), v(40, 3, 20))

func terrain(t *testing.T) *memory.World {
	t.Helper()
	w := memory.NewWorld()
	var blocks []domain.PlacedBlock
	for x := 0; x <= 40; x += 3 {
		for z := 0; z <= 20; z += 2 {
			blocks = append(blocks, domain.PlacedBlock{Pos: v(x, (x+z)%4, z), State: "stone"})
		}
	}
	require.NoError(t, w.Set(context.Background(), blocks))
	return w
}

// flakySchematics fails saves and loads of one schematic.
type flakySchematics struct {
	*memory.Schematics
	failOn string
	saves  []string
	loads  []string
}

func (f *flakySchematics) Save(ctx context.Context, name string, clip *domain.Clipboard) error {
	f.saves = append(f.saves, name)
	if name == f.failOn {
		return errors.New("bucket unavailable")
	}
	return f.Schematics.Save(ctx, name, clip)
}

func (f *flakySchematics) Load(ctx context.Context, name string) (*domain.Clipboard, error) {
	f.loads = append(f.loads, name)
	if name == f.failOn {
		return nil, errors.New("bucket unavailable")
	}
	return f.Schematics.Load(ctx, name)
}

// brokenStore refuses every manifest write.
type brokenStore struct{ *memory.Store }

func (brokenStore) Save(context.Context, string, *manifest.Manifest) error {
	return errors.New("read-only filesystem")
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := terrain(t)
	manifests := memory.NewStore()
	schematics := memory.NewSchematics()

	var out bytes.Buffer
	exp := worldjob.NewExporter(session.New(src), manifests, schematics, worldjob.WithOutput(&out))
	stats, err := exp.Export(ctx, worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.FullRange})
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Completed)
	assert.Len(t, schematics.Names(), 6)
	assert.Contains(t, schematics.Names(), "testworld_2_0_1")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "1-6/6(6)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1/6(1/6) done. time-left="), lines[1])
	assert.Equal(t, "6/6(6/6) done. time-left=00:00:00", lines[6])

	dst := memory.NewWorld()
	require.NoError(t, dst.Set(ctx, []domain.PlacedBlock{{Pos: v(5, 2, 5), State: "junk"}}))
	imp := worldjob.NewImporter(session.New(dst), manifests, schematics)
	stats, err = imp.Import(ctx, worldjob.ImportRequest{World: world, Range: domain.FullRange})
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Completed)

	want, err := src.Get(ctx, box40.Corner1, box40.Corner2)
	require.NoError(t, err)
	got, err := dst.Get(ctx, box40.Corner1, box40.Corner2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExport_SubRange(t *testing.T) {
	schematics := memory.NewSchematics()
	var out bytes.Buffer
	exp := worldjob.NewExporter(session.New(terrain(t)), memory.NewStore(), schematics, worldjob.WithOutput(&out))

	stats, err := exp.Export(context.Background(), worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.Range{From: 2, To: 3}})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 2, stats.RangeTotal)
	assert.Equal(t, 3, stats.LastSequence)
	assert.Equal(t, []string{"testworld_0_0_1", "testworld_1_0_0"}, schematics.Names())
	assert.True(t, strings.HasPrefix(out.String(), "2-3/6(2)\n"))
	assert.Contains(t, out.String(), "3/6(2/2) done.")
}

func TestExport_SavesManifestBeforeChain(t *testing.T) {
	ctx := context.Background()
	manifests := memory.NewStore()
	schematics := &flakySchematics{Schematics: memory.NewSchematics(), failOn: "testworld_1_0_1"}
	exp := worldjob.NewExporter(session.New(terrain(t)), manifests, schematics)

	stats, err := exp.Export(ctx, worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.FullRange})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaboratorFailure)

	var cellErr *domain.CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 4, cellErr.Sequence)
	assert.Equal(t, "1_0_1", cellErr.PosID)
	assert.Equal(t, domain.PhaseSave, cellErr.Phase)
	assert.Equal(t, 3, stats.Completed)
	assert.Len(t, schematics.saves, 4, "no cell after the failure may run")

	m, err := manifests.Load(ctx, world)
	require.NoError(t, err, "manifest is written before the first cell")
	assert.Equal(t, 6, m.Total())
}

func TestExport_ManifestFailureRunsNoCell(t *testing.T) {
	schematics := &flakySchematics{Schematics: memory.NewSchematics()}
	exp := worldjob.NewExporter(session.New(terrain(t)), brokenStore{memory.NewStore()}, schematics)

	_, err := exp.Export(context.Background(), worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.FullRange})
	assert.ErrorIs(t, err, domain.ErrResourceIO)
	assert.Empty(t, schematics.saves)
}

func TestExport_InvalidArguments(t *testing.T) {
	manifests := memory.NewStore()
	exp := worldjob.NewExporter(session.New(terrain(t)), manifests, memory.NewSchematics())

	for name, req := range map[string]worldjob.ExportRequest{
		"zero edge":      {World: world, Box: box40, MaxEdge: 0, Range: domain.FullRange},
		"range too long": {World: world, Box: box40, MaxEdge: 16, Range: domain.Range{From: 1, To: 7}},
		"bad world":      {World: "a/b", Box: box40, MaxEdge: 16, Range: domain.FullRange},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := exp.Export(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}

	worlds, err := manifests.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, worlds, "invalid arguments must not write a manifest")
}

func TestImport_MissingManifest(t *testing.T) {
	schematics := &flakySchematics{Schematics: memory.NewSchematics()}
	imp := worldjob.NewImporter(session.New(memory.NewWorld()), memory.NewStore(), schematics)

	_, err := imp.Import(context.Background(), worldjob.ImportRequest{World: world, Range: domain.FullRange})
	assert.ErrorIs(t, err, domain.ErrCorruptManifest)
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
	assert.Empty(t, schematics.loads)
}

func TestImport_ResumeFromFailedCell(t *testing.T) {
	ctx := context.Background()
	manifests := memory.NewStore()
	inner := memory.NewSchematics()
	src := terrain(t)

	_, err := worldjob.NewExporter(session.New(src), manifests, inner).
		Export(ctx, worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.FullRange})
	require.NoError(t, err)

	dst := memory.NewWorld()
	flaky := &flakySchematics{Schematics: inner, failOn: "testworld_2_0_0"}
	_, err = worldjob.NewImporter(session.New(dst), manifests, flaky).
		Import(ctx, worldjob.ImportRequest{World: world, Range: domain.FullRange})

	var cellErr *domain.CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 5, cellErr.Sequence)
	assert.Equal(t, domain.PhaseLoad, cellErr.Phase)

	var out bytes.Buffer
	stats, err := worldjob.NewImporter(session.New(dst), manifests, inner, worldjob.WithOutput(&out)).
		Import(ctx, worldjob.ImportRequest{World: world, Range: domain.Range{From: cellErr.Sequence, To: -1}})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Completed)
	assert.True(t, strings.HasPrefix(out.String(), "5-6/6(2)\n"))

	want, err := src.Get(ctx, box40.Corner1, box40.Corner2)
	require.NoError(t, err)
	got, err := dst.Get(ctx, box40.Corner1, box40.Corner2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRun_WorldLocked(t *testing.T) {
	ctx := context.Background()
	locker := memory.NewLocker()
	held, err := locker.Lock(ctx, world, time.Minute)
	require.NoError(t, err)

	manifests := memory.NewStore()
	exp := worldjob.NewExporter(session.New(terrain(t)), manifests, memory.NewSchematics(), worldjob.WithLocker(locker, time.Minute))
	_, err = exp.Export(ctx, worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.FullRange})
	assert.ErrorIs(t, err, domain.ErrWorldLocked)

	_, err = manifests.Load(ctx, world)
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)

	require.NoError(t, held.Unlock(ctx))
	_, err = exp.Export(ctx, worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.FullRange})
	require.NoError(t, err)

	again, err := locker.Lock(ctx, world, time.Minute)
	require.NoError(t, err, "the run releases its lock")
	require.NoError(t, again.Unlock(ctx))
}

// pausingSchematics runs during while saving the first schematic.
type pausingSchematics struct {
	*memory.Schematics
	once   sync.Once
	during func()
}

func (p *pausingSchematics) Save(ctx context.Context, name string, clip *domain.Clipboard) error {
	p.once.Do(p.during)
	return p.Schematics.Save(ctx, name, clip)
}

// takenLocker grants a lease that another holder immediately takes over.
type takenLocker struct{}

func (takenLocker) Lock(context.Context, string, time.Duration) (ports.Lease, error) {
	return takenLease{}, nil
}

type takenLease struct{}

func (takenLease) Refresh(context.Context, time.Duration) error {
	return fmt.Errorf("%w: %s: lease lost", domain.ErrWorldLocked, world)
}

func (takenLease) Unlock(context.Context) error { return nil }

func TestRun_LockOutlivesTTL(t *testing.T) {
	ctx := context.Background()
	locker := memory.NewLocker()
	ttl := 30 * time.Millisecond

	var second error
	schematics := &pausingSchematics{Schematics: memory.NewSchematics(), during: func() {
		time.Sleep(4 * ttl)
		_, second = locker.Lock(ctx, world, time.Minute)
	}}
	exp := worldjob.NewExporter(session.New(terrain(t)), memory.NewStore(), schematics, worldjob.WithLocker(locker, ttl))

	_, err := exp.Export(ctx, worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.FullRange})
	require.NoError(t, err)
	assert.ErrorIs(t, second, domain.ErrWorldLocked, "the world stays locked while a run is longer than the ttl")

	after, err := locker.Lock(ctx, world, time.Minute)
	require.NoError(t, err, "the run releases its lock")
	require.NoError(t, after.Unlock(ctx))
}

func TestRun_LostLockStopsChain(t *testing.T) {
	schematics := &pausingSchematics{Schematics: memory.NewSchematics(), during: func() {
		time.Sleep(50 * time.Millisecond)
	}}
	exp := worldjob.NewExporter(session.New(terrain(t)), memory.NewStore(), schematics, worldjob.WithLocker(takenLocker{}, 15*time.Millisecond))

	stats, err := exp.Export(context.Background(), worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.FullRange})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWorldLocked)
	assert.NotErrorIs(t, err, context.Canceled, "a lost lock is not reported as an interrupt")

	var cellErr *domain.CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 2, cellErr.Sequence)
	assert.Equal(t, 1, stats.Completed)
}

func TestRun_HooksReceiveEveryCell(t *testing.T) {
	var done []int
	hooks := domain.JobHooks{OnCellDone: func(_ context.Context, e *domain.CellEvent) {
		assert.Equal(t, "export", e.Job)
		done = append(done, e.Sequence)
	}}
	exp := worldjob.NewExporter(session.New(terrain(t)), memory.NewStore(), memory.NewSchematics(), worldjob.WithHooks(hooks))

	_, err := exp.Export(context.Background(), worldjob.ExportRequest{World: world, Box: box40, MaxEdge: 16, Range: domain.Range{From: 4, To: -1}})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, done)
}
