package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/voxport/internal/config"
	"github.com/aretw0/voxport/internal/logging"
	"github.com/aretw0/voxport/pkg/adapters/memory"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
	"github.com/aretw0/voxport/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(x, y, z int) domain.Vec3 { return domain.Vec3{X: x, Y: y, Z: z} }

func memoryRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := config.Default()
	cfg.World.Name = "testworld"
	cfg.Manifest.Backend = "memory"
	cfg.Schematics.Backend = "memory"
	require.NoError(t, cfg.Validate())

	rt, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func seed(t *testing.T, rt *Runtime) {
	t.Helper()
	var blocks []domain.PlacedBlock
	for x := 0; x <= 40; x += 5 {
		blocks = append(blocks, domain.PlacedBlock{Pos: v(x, 1, x/2), State: "stone"})
	}
	require.NoError(t, rt.World.Set(context.Background(), blocks))
}

// failingSchematics refuses to save one schematic.
type failingSchematics struct {
	*memory.Schematics
	name string
}

func (f failingSchematics) Save(ctx context.Context, name string, clip *domain.Clipboard) error {
	if name == f.name {
		return errors.New("disk full")
	}
	return f.Schematics.Save(ctx, name, clip)
}

// cancellingManifests cancels the run as soon as the manifest is loaded.
type cancellingManifests struct {
	ports.ManifestStore
	cancel context.CancelFunc
}

func (c cancellingManifests) Load(ctx context.Context, world string) (*manifest.Manifest, error) {
	defer c.cancel()
	return c.ManifestStore.Load(ctx, world)
}

func TestParseExportArgs(t *testing.T) {
	args, err := ParseExportArgs(strings.Fields("-8 0 3 40 20 -30 16"))
	require.NoError(t, err)
	assert.Equal(t, domain.NewBoundingBox(v(-8, 0, 3), v(40, 20, -30)), args.Box)
	assert.Equal(t, 16, args.MaxEdge)
	assert.Equal(t, domain.FullRange, args.Range)
	assert.Equal(t, strings.Fields("export -8 0 3 40 20 -30 16"), args.Prefix())

	args, err = ParseExportArgs(strings.Fields("0 0 0 10 10 10 4 3"))
	require.NoError(t, err)
	assert.Equal(t, domain.Range{From: 3, To: -1}, args.Range)

	args, err = ParseExportArgs(strings.Fields("0 0 0 10 10 10 4 3 5"))
	require.NoError(t, err)
	assert.Equal(t, domain.Range{From: 3, To: 5}, args.Range)
}

func TestParseExportArgs_Invalid(t *testing.T) {
	cases := map[string]string{
		"too few":       "0 0 0 10 10 10",
		"too many":      "0 0 0 10 10 10 4 1 2 3",
		"not a number":  "0 0 0 10 ten 10 4",
		"zero max edge": "0 0 0 10 10 10 0",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseExportArgs(strings.Fields(in))
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestParseImportArgs(t *testing.T) {
	rng, err := ParseImportArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.FullRange, rng)

	rng, err = ParseImportArgs([]string{"4", "9"})
	require.NoError(t, err)
	assert.Equal(t, domain.Range{From: 4, To: 9}, rng)

	_, err = ParseImportArgs([]string{"1", "2", "3"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = ParseImportArgs([]string{"x"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRunExportImport(t *testing.T) {
	ctx := context.Background()
	rt := memoryRuntime(t)
	seed(t, rt)
	args, err := ParseExportArgs(strings.Fields("0 0 0 40 3 20 16"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, RunExport(ctx, RunOptions{Runtime: rt, Out: &out, RunID: "r1"}, args))
	assert.True(t, strings.HasPrefix(out.String(), "1-6/6(6)\n"), out.String())
	assert.Contains(t, out.String(), ">>> Exported 6 cells of testworld in ")

	want, err := rt.World.Get(ctx, v(0, 0, 0), v(40, 3, 20))
	require.NoError(t, err)
	fresh := memory.NewWorld()
	rt.World = fresh

	out.Reset()
	require.NoError(t, RunImport(ctx, RunOptions{Runtime: rt, Out: &out}, domain.FullRange))
	assert.Contains(t, out.String(), ">>> Imported 6 cells into testworld in ")

	got, err := fresh.Get(ctx, v(0, 0, 0), v(40, 3, 20))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunExport_FailurePrintsResumeCommand(t *testing.T) {
	rt := memoryRuntime(t)
	seed(t, rt)
	rt.Schematics = failingSchematics{Schematics: memory.NewSchematics(), name: "testworld_1_0_0"}
	args, err := ParseExportArgs(strings.Fields("0 0 0 40 3 20 16 2 5"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunExport(context.Background(), RunOptions{Runtime: rt, Out: &out}, args)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaboratorFailure)
	assert.Contains(t, out.String(), ">>> Failed at cell 1_0_0 (3) during save.")
	assert.Contains(t, out.String(), ">>> resume with: voxport export 0 0 0 40 3 20 16 3 5")
}

func TestRunExport_ResumeCommandKeepsGlobalFlags(t *testing.T) {
	rt := memoryRuntime(t)
	seed(t, rt)
	rt.Flags = GlobalOptions{ConfigPath: "/etc/vox port.yaml", World: "testworld"}
	rt.Schematics = failingSchematics{Schematics: memory.NewSchematics(), name: "testworld_1_0_0"}
	args, err := ParseExportArgs(strings.Fields("0 0 0 40 3 20 16"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunExport(context.Background(), RunOptions{Runtime: rt, Out: &out}, args)
	require.Error(t, err)
	assert.Contains(t, out.String(),
		">>> resume with: voxport --config '/etc/vox port.yaml' --world testworld export 0 0 0 40 3 20 16 3\n")
}

func TestGlobalOptions_Args(t *testing.T) {
	assert.Empty(t, GlobalOptions{}.Args())
	assert.Equal(t,
		[]string{"--config", "cfg.yaml", "--world", `'it'\''s'`, "--metrics-addr", ":9464", "--debug"},
		GlobalOptions{ConfigPath: "cfg.yaml", World: "it's", MetricsAddr: ":9464", Debug: true}.Args(),
	)
}

func TestRunImport_Interrupted(t *testing.T) {
	rt := memoryRuntime(t)
	seed(t, rt)
	args, err := ParseExportArgs(strings.Fields("0 0 0 40 3 20 16"))
	require.NoError(t, err)
	require.NoError(t, RunExport(context.Background(), RunOptions{Runtime: rt, Out: &bytes.Buffer{}}, args))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rt.Manifests = cancellingManifests{ManifestStore: rt.Manifests, cancel: cancel}

	var out bytes.Buffer
	err = RunImport(ctx, RunOptions{Runtime: rt, Out: &out}, domain.Range{From: 2, To: -1})
	require.NoError(t, err, "an interrupted run reports where to resume instead of failing")
	assert.Contains(t, out.String(), ">>> Interrupted at cell 0_0_1 (2).")
	assert.Contains(t, out.String(), ">>> resume with: voxport import 2\n")
}

func TestRunImport_MissingManifest(t *testing.T) {
	rt := memoryRuntime(t)
	err := RunImport(context.Background(), RunOptions{Runtime: rt, Out: &bytes.Buffer{}}, domain.FullRange)
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestRunPlan(t *testing.T) {
	args, err := ParsePlanArgs(strings.Fields("0 0 0 40 3 20 16 2 3"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, RunPlan(&out, args, PlanFormatText))
	assert.Contains(t, out.String(), "2_0_1")

	out.Reset()
	require.NoError(t, RunPlan(&out, args, PlanFormatMermaid))
	assert.True(t, strings.HasPrefix(out.String(), "graph LR\n"))
	assert.Contains(t, out.String(), "class c1_0_0 selected;")

	assert.ErrorIs(t, RunPlan(&out, args, "svg"), domain.ErrInvalidArgument)

	args.Range = domain.Range{From: 7, To: -1}
	assert.ErrorIs(t, RunPlan(&out, args, PlanFormatText), domain.ErrInvalidArgument)
}

func TestManifestCommands(t *testing.T) {
	ctx := context.Background()
	rt := memoryRuntime(t)
	seed(t, rt)
	args, err := ParseExportArgs(strings.Fields("0 0 0 40 3 20 16 1 1"))
	require.NoError(t, err)
	require.NoError(t, RunExport(ctx, RunOptions{Runtime: rt, Out: &bytes.Buffer{}}, args))

	var out bytes.Buffer
	require.NoError(t, ListManifests(ctx, rt, &out))
	assert.Equal(t, "testworld\n", out.String())

	out.Reset()
	require.NoError(t, ShowManifest(ctx, rt, &out, "testworld"))
	assert.Contains(t, out.String(), "num_x=3")

	out.Reset()
	require.NoError(t, RemoveManifest(ctx, rt, &out, "testworld"))
	assert.Equal(t, ">>> Removed manifest of testworld.\n", out.String())
	_, err = rt.Manifests.Load(ctx, "testworld")
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)

	assert.ErrorIs(t, RemoveManifest(ctx, rt, &out, "../etc"), domain.ErrInvalidArgument)
}

func TestNewRuntime_SQLiteWorld(t *testing.T) {
	cfg := config.Default()
	cfg.World.Backend = "sqlite"
	cfg.World.Path = filepath.Join(t.TempDir(), "world.db")
	cfg.Manifest.Dir = t.TempDir()
	cfg.Schematics.Dir = t.TempDir()

	rt, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, rt.Close())

	_, err = os.Stat(cfg.World.Path)
	assert.NoError(t, err)
}

func TestCreateLogger(t *testing.T) {
	_, err := createLogger("info", false)
	assert.NoError(t, err)
	_, err = createLogger("loud", false)
	assert.Error(t, err)
	_, err = createLogger("loud", true)
	assert.NoError(t, err, "--debug overrides the configured level")
}
