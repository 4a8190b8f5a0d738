package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "index.html", cfg.Template)
	assert.Equal(t, "js", cfg.Fragments)
	assert.Equal(t, "*.js", cfg.Pattern)
	assert.Equal(t, "dist/index.html", cfg.Output)
	assert.Equal(t, "        ", cfg.Indent)
	assert.Equal(t, "        ReactDOM.render(<DegensCity />, document.getElementById('root'));", cfg.Anchor)
	assert.Equal(t, "// ======== FROM {name} ========", cfg.Header)
	require.NotEmpty(t, cfg.Order)
	assert.Equal(t, "sound-system.js", cfg.Order[0])
	assert.Equal(t, "misc.js", cfg.Order[len(cfg.Order)-1])
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.DebounceDelay())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.Empty(t, cfg.Path)
	assert.Equal(t, filepath.Join(dir, "index.html"), cfg.TemplatePath())
	assert.Equal(t, filepath.Join(dir, "js"), cfg.FragmentDir())
	assert.Equal(t, filepath.Join(dir, "dist", "index.html"), cfg.OutputPath())
	assert.Empty(t, cfg.ManifestPath())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "assemble.yml", `
template: src/page.html
output: build/page.html
order: [b.js]
indent: "    "
anchor: "<!-- INJECT -->"
manifest: build/manifest.json
`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, filepath.Join(dir, "src", "page.html"), cfg.TemplatePath())
	assert.Equal(t, filepath.Join(dir, "build", "page.html"), cfg.OutputPath())
	assert.Equal(t, filepath.Join(dir, "build", "manifest.json"), cfg.ManifestPath())
	assert.Equal(t, []string{"b.js"}, cfg.Order, "order replaces the default list")
	assert.Equal(t, "    ", cfg.Indent)
	assert.Equal(t, "<!-- INJECT -->", cfg.Anchor)

	// Untouched keys keep their defaults.
	assert.Equal(t, "*.js", cfg.Pattern)
	assert.Equal(t, "js", cfg.Fragments)
}

func TestLoad_YAMLEmptyOrderDisablesHint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "assemble.yaml", "order: []\n")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Empty(t, cfg.Order)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "assemble.toml", `
template = "shell.html"
fragments = "parts"
pattern = "**/*.css"
anchor = "/* styles */"
order = ["reset.css", "base.css"]

[watch]
debounce = "1s"
`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shell.html"), cfg.TemplatePath())
	assert.Equal(t, filepath.Join(dir, "parts"), cfg.FragmentDir())
	assert.Equal(t, "**/*.css", cfg.Pattern)
	assert.Equal(t, "/* styles */", cfg.Anchor)
	assert.Equal(t, []string{"reset.css", "base.css"}, cfg.Order)
	assert.Equal(t, time.Second, cfg.Watch.DebounceDelay())
}

func TestLoad_ExplicitPathSetsBaseDir(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "site")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	path := writeFile(t, sub, "custom.yml", "template: main.html\n")

	cfg, err := Load(root, path)
	require.NoError(t, err)
	assert.Equal(t, sub, cfg.BaseDir)
	assert.Equal(t, filepath.Join(sub, "main.html"), cfg.TemplatePath())
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "assemble.yml", "order: [unterminated\n")

	_, err := Load(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_PrefersYMLOverTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "assemble.yml", "anchor: from-yml\n")
	writeFile(t, dir, "assemble.toml", "anchor = \"from-toml\"\n")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "from-yml", cfg.Anchor)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"empty anchor", func(c *Config) { c.Anchor = "" }, "anchor is required"},
		{"empty template", func(c *Config) { c.Template = " " }, "template is required"},
		{"bad pattern", func(c *Config) { c.Pattern = "[a-" }, "not a valid glob"},
		{"multi-line header", func(c *Config) { c.Header = "a\nb" }, "header must be a single line"},
		{"indent with newline", func(c *Config) { c.Indent = "\n" }, "indent must not contain line breaks"},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }, "watch.debounce"},
		{"output over template", func(c *Config) { c.Output = "./index.html" }, "must not overwrite the template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.BaseDir = t.TempDir()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Anchor = ""
	cfg.Output = ""

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "anchor is required")
	assert.Contains(t, err.Error(), "output is required")
}

func TestWatchConfig_DebounceDelayFallback(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, WatchConfig{}.DebounceDelay())
	assert.Equal(t, 300*time.Millisecond, WatchConfig{Debounce: "bogus"}.DebounceDelay())
	assert.Equal(t, 300*time.Millisecond, WatchConfig{Debounce: "-1s"}.DebounceDelay())
	assert.Equal(t, 50*time.Millisecond, WatchConfig{Debounce: "50ms"}.DebounceDelay())
}

func TestResolve_AbsolutePathKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "out.html")
	cfg := Default()
	cfg.BaseDir = t.TempDir()
	cfg.Output = abs
	assert.Equal(t, abs, cfg.OutputPath())
}
