package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/plumb/internal/action"
	"github.com/harrison/plumb/internal/display"
	"github.com/harrison/plumb/internal/filtering"
	"github.com/harrison/plumb/internal/logger"
	"github.com/harrison/plumb/internal/models"
	"github.com/harrison/plumb/internal/planner"
)

type recordingEngine struct {
	status models.Status
	err    error
	req    action.Request
	calls  int
}

func (e *recordingEngine) Run(ctx context.Context, req action.Request) (*models.ActionResult, error) {
	e.calls++
	e.req = req
	if e.err != nil {
		return nil, e.err
	}
	return &models.ActionResult{Status: e.status, Output: "engine output\n"}, nil
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

type harness struct {
	root   string
	log    *bytes.Buffer
	engine *recordingEngine
	events []display.Event
	errs   []display.Event
	runner *Runner
}

func newHarness(t *testing.T, files map[string]string, opts Options) *harness {
	t.Helper()
	h := &harness{root: t.TempDir(), log: new(bytes.Buffer), engine: &recordingEngine{status: models.StatusOK}}
	writeTree(t, h.root, files)
	rc := RunnerContext{
		CurrentPath:      h.root,
		TermFormatter:    func(e display.Event) { h.events = append(h.events, e) },
		ErrTermFormatter: func(e display.Event) { h.errs = append(h.errs, e) },
	}
	registry := action.Registry{models.ActionLint: h.engine}
	h.runner = NewRunner(rc, registry, logger.NewConsoleLogger(h.log, "trace"), opts)
	return h
}

func planFor(t *testing.T, searching models.FileSearching, flags ...string) []models.Instruction {
	t.Helper()
	opts, err := models.NewLintOptions(flags...)
	require.NoError(t, err)
	return planner.Plan(searching, opts, filtering.DefaultPolicy())
}

func TestRun_SimpleModePassesDiscoveryInputs(t *testing.T) {
	h := newHarness(t, nil, Options{})
	searching := models.FileSearching{Filtering: models.FileFiltering{
		WithPathStarting: []string{"src/"},
		WithExtension:    []string{".ts"},
	}}

	result, err := h.runner.Run(context.Background(), planFor(t, searching, models.FlagAimCI))
	require.NoError(t, err)

	assert.Equal(t, models.StatusOK, result.Status)
	assert.Equal(t, 1, result.Instructions)
	assert.Equal(t, []string{"src/"}, h.engine.req.PathPatterns)
	assert.Equal(t, []string{".ts"}, h.engine.req.Extensions)
	assert.Nil(t, h.engine.req.Files)
	assert.Equal(t, h.root, h.engine.req.ModulePath)
	assert.Equal(t, []string{models.FlagAimCI}, h.engine.req.Flags)
	require.Len(t, h.events, 1)
	assert.Equal(t, display.Event{Title: "lint: ok", Detail: "engine output"}, h.events[0])
}

func TestRun_ExplicitFilesAndLoad(t *testing.T) {
	h := newHarness(t, map[string]string{
		"gen/schemas.csv": "# generated list\ngen/a.ts;phase1\n\ngen/b.ts;phase2\ngen/c.ts;phase1 fix:v2\n",
	}, Options{})
	searching := models.FileSearching{
		PathInfos: []models.PathInfo{
			{Path: "direct.ts", Tags: []string{"phase1"}},
			{Path: "skipped.ts", Tags: []string{"phase2"}},
			{Path: "gen/schemas.csv", Tags: []string{models.LoadMarker}},
		},
		Filtering: models.FileFiltering{WithTag: []string{"phase1"}},
	}

	result, err := h.runner.Run(context.Background(), planFor(t, searching))
	require.NoError(t, err)

	assert.Equal(t, 4, result.Instructions)
	// direct entries accepted inline survive the trailing filter with their tags
	assert.Equal(t, []models.PathInfo{
		{Path: "direct.ts", Tags: []string{"phase1"}},
		{Path: "gen/a.ts", Tags: []string{"phase1"}},
		{Path: "gen/c.ts", Tags: []string{"phase1", "fix:v2"}},
	}, result.Entries)
	assert.Equal(t, result.Entries, h.engine.req.Files)
	assert.Equal(t, []string{models.FlagNoGlobInputPaths}, h.engine.req.Flags)
}

func TestRun_GlobAndFilter(t *testing.T) {
	h := newHarness(t, map[string]string{
		"src/a.ts":          "",
		"src/fixture/b.ts":  "",
		"src/nested/c.ts":   "",
		"test/d.ts":         "",
		"test/fixture/e.ts": "",
		"docs/ignored.ts":   "",
	}, Options{})
	searching := models.FileSearching{Filtering: models.FileFiltering{
		WithPathStarting:   []string{"src/", "test/"},
		WithoutPathSegment: []string{"fixture"},
	}}

	result, err := h.runner.Run(context.Background(), planFor(t, searching))
	require.NoError(t, err)

	assert.Equal(t, models.StatusOK, result.Status)
	assert.Equal(t, []string{"src/a.ts", "src/nested/c.ts", "test/d.ts"}, models.Paths(result.Entries))
}

func TestRun_FilesAreNotDedupedAcrossInstructions(t *testing.T) {
	h := newHarness(t, map[string]string{"list.txt": "a.ts\n"}, Options{})
	instructions := []models.Instruction{
		models.NewInstruction(models.InstructionFiles, models.ParamTargetFiles, []string{"a.ts"}),
		models.NewInstruction(models.InstructionLoad, models.ParamTargetFiles, []string{"list.txt"}),
	}

	result, err := h.runner.Run(context.Background(), instructions)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.ts", "a.ts"}, models.Paths(result.Entries))
	assert.Contains(t, h.log.String(), "[TRACE] after files: [a.ts]")
	assert.Contains(t, h.log.String(), "[TRACE] after load: [a.ts, a.ts]")
}

func TestRun_DirectEntryKeepsTagsThroughFilter(t *testing.T) {
	h := newHarness(t, map[string]string{"list.txt": "gen/c.ts;phase1\ngen/d.ts;phase2\n"}, Options{})
	searching := models.FileSearching{
		PathInfos: []models.PathInfo{
			{Path: "gen/a.ts", Tags: []string{"phase1"}},
			{Path: "list.txt", Tags: []string{models.LoadMarker}},
		},
		Filtering: models.FileFiltering{WithTag: []string{"phase1"}},
	}

	result, err := h.runner.Run(context.Background(), planFor(t, searching))
	require.NoError(t, err)

	assert.Equal(t, models.StatusOK, result.Status)
	assert.Equal(t, []string{"gen/a.ts", "gen/c.ts"}, models.Paths(h.engine.req.Files))
}

func TestRun_NoTerminalInstructionIsKO(t *testing.T) {
	h := newHarness(t, nil, Options{})
	instructions := []models.Instruction{
		models.NewInstruction(models.InstructionFiles, models.ParamTargetFiles, []string{"a.ts;x"}),
	}

	result, err := h.runner.Run(context.Background(), instructions)
	require.NoError(t, err)

	assert.Equal(t, models.StatusKO, result.Status)
	assert.Nil(t, result.Action)
	assert.Equal(t, []models.PathInfo{{Path: "a.ts", Tags: []string{"x"}}}, result.Entries)
	assert.Zero(t, h.engine.calls)

	result, err = h.runner.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusKO, result.Status)
}

func TestRun_ActionStatusIsRunStatus(t *testing.T) {
	for _, status := range []models.Status{models.StatusOK, models.StatusWarning, models.StatusKO} {
		t.Run(string(status), func(t *testing.T) {
			h := newHarness(t, nil, Options{})
			h.engine.status = status

			result, err := h.runner.Run(context.Background(), planFor(t, models.FileSearching{}))
			require.NoError(t, err)
			assert.Equal(t, status, result.Status)
		})
	}
}

func TestRun_MissingListFileIsFatal(t *testing.T) {
	h := newHarness(t, nil, Options{})
	searching := models.FileSearching{PathInfos: []models.PathInfo{{Path: "missing.txt", Tags: []string{models.LoadMarker}}}}

	_, err := h.runner.Run(context.Background(), planFor(t, searching))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	require.Len(t, h.errs, 1)
	assert.Equal(t, "Loading list files failed", h.errs[0].Title)
	assert.Zero(t, h.engine.calls)
}

func TestRun_BadGlobIsFatal(t *testing.T) {
	h := newHarness(t, nil, Options{})
	instructions := []models.Instruction{
		models.NewInstruction(models.InstructionGlob, models.ParamTargetFiles, []string{"src/[**/*"}),
	}

	_, err := h.runner.Run(context.Background(), instructions)

	require.Error(t, err)
	require.Len(t, h.errs, 1)
	assert.Equal(t, "Glob expansion failed", h.errs[0].Title)
	assert.Contains(t, h.log.String(), "[ERROR] glob src/[**/* failed after")
}

func TestRun_UnknownInstruction(t *testing.T) {
	h := newHarness(t, nil, Options{})

	_, err := h.runner.Run(context.Background(), []models.Instruction{{Name: "compile"}})
	assert.ErrorIs(t, err, ErrUnknownInstruction)
}

func TestRun_EngineErrors(t *testing.T) {
	h := newHarness(t, nil, Options{})
	h.engine.err = errors.New("linter crashed")

	_, err := h.runner.Run(context.Background(), planFor(t, models.FileSearching{}))
	require.Error(t, err)
	require.Len(t, h.errs, 1)
	assert.Equal(t, "lint failed", h.errs[0].Title)

	testOpts, err := models.NewTestOptions()
	require.NoError(t, err)
	_, err = h.runner.Run(context.Background(), []models.Instruction{models.NewActionInstruction(testOpts)})
	assert.ErrorIs(t, err, ErrNoEngine)
}

func TestRun_OutputDirectory(t *testing.T) {
	h := newHarness(t, nil, Options{OutputDirectory: ".plumb/reports"})

	_, err := h.runner.Run(context.Background(), planFor(t, models.FileSearching{}))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(h.root, ".plumb/reports"), h.engine.req.OutputDirectory)
	assert.Regexp(t, `^lint-[0-9a-f-]{36}$`, h.engine.req.OutputName)
}

func TestFiles(t *testing.T) {
	got := Files([]string{"a.ts", "b.ts;x y"})
	assert.Equal(t, []models.PathInfo{{Path: "a.ts"}, {Path: "b.ts", Tags: []string{"x", "y"}}}, got)
}
