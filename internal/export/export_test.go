package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NomaTechnologiesLTD/Pump-Town/internal/assembler"
)

func TestWriteArtifact_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", "nested", "index.html")

	require.NoError(t, WriteArtifact(path, []byte("<html>")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteArtifact_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")

	require.NoError(t, WriteArtifact(path, []byte("first build, longer content")))
	require.NoError(t, WriteArtifact(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must be cleaned up")
	assert.Equal(t, "index.html", entries[0].Name())
}

func TestWriteArtifact_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "dist")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteArtifact(filepath.Join(blocker, "index.html"), []byte("y"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output dir")
}

func TestWriteFiles_StagingFailureTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(artifact, []byte("old"), 0o644))
	blocker := filepath.Join(dir, "meta")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFiles(
		File{Path: artifact, Data: []byte("new")},
		File{Path: filepath.Join(blocker, "manifest.json"), Data: []byte("{}")},
	)
	require.Error(t, err)

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data), "artifact must not be replaced when a sibling fails")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "staged temp files must be removed")
}

func TestWriteFiles_WritesAll(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "dist", "index.html")
	b := filepath.Join(dir, "meta", "manifest.json")

	require.NoError(t, WriteFiles(File{Path: a, Data: []byte("A")}, File{Path: b, Data: []byte("B")}))

	got, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "A", string(got))
	got, err = os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "B", string(got))
}

func TestBuildManifest(t *testing.T) {
	res := &assembler.Result{
		Artifact: "abc",
		Order:    []string{"b.js", "a.js"},
		Fragments: []assembler.Fragment{
			{ID: "b.js", Body: "one\ntwo\n"},
			{ID: "a.js", Body: "x"},
		},
	}
	builtAt := time.Date(2026, 10, 18, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	m := BuildManifest(res, "/site/index.html", "/site/dist/index.html", builtAt)

	assert.Equal(t, "2026-10-18T10:00:00Z", m.BuiltAt)
	assert.Equal(t, 3, m.Bytes)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", m.SHA256)
	assert.Equal(t, []FragmentManifest{
		{ID: "b.js", Bytes: 8, Lines: 2},
		{ID: "a.js", Bytes: 1, Lines: 1},
	}, m.Fragments)
}

func TestMarshalManifest(t *testing.T) {
	m := &Manifest{BuiltAt: "t", Output: "o", Fragments: []FragmentManifest{{ID: "a.js", Bytes: 1, Lines: 1}}}

	data, err := MarshalManifest(m)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *m, got)
	assert.Contains(t, string(data), "\n  \"fragments\": [")
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 1, countLines("a"))
	assert.Equal(t, 1, countLines("a\n"))
	assert.Equal(t, 3, countLines("a\n\nb"))
}
