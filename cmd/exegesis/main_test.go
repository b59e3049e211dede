package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exegesis/internal/history"
	"exegesis/internal/logging"
	"exegesis/internal/share"
	"exegesis/internal/study"
)

// execute runs the root command with fresh globals and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY", "GOOGLE_API_KEY", "REDIS_ADDR", "EXEGESIS_DB", "EXEGESIS_MODEL", "EXEGESIS_ADDR"} {
		t.Setenv(name, "")
	}
	verbose, cfgPath, timeout, cfg = false, "", 0, nil
	studyTranslation, studyDepth, studyFormats, studyOutDir = "", "", "markdown", ""
	studyPublish, studyView, shareBase, configForce, viewWatch = false, false, "", false, false
	t.Cleanup(logging.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig writes a config keeping history in a JSON file under dir.
func writeConfig(t *testing.T, dir string) (cfgFile, historyFile string) {
	t.Helper()
	cfgFile = filepath.Join(dir, "config.yaml")
	historyFile = filepath.Join(dir, "history.json")
	body := fmt.Sprintf("history:\n  backend: file\n  path: %s\nexport:\n  output_dir: %s\n", historyFile, dir)
	require.NoError(t, os.WriteFile(cfgFile, []byte(body), 0644))
	return cfgFile, historyFile
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "****wxyz", mask("AIzaSy-secret-wxyz"))
}

func TestShareCommand(t *testing.T) {
	cfgFile, _ := writeConfig(t, t.TempDir())

	out, err := execute(t, "share", "--config", cfgFile, "--base", "https://exegesis.example/", "-t", "acf", "-d", "academic", "João", "3:16")
	require.NoError(t, err)

	link, err := share.Decode(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, share.Link{Passage: "João 3:16", Translation: study.TranslationACF, Depth: study.DepthAcademic}, link)
}

func TestShareCommand_RejectsBadPassage(t *testing.T) {
	cfgFile, _ := writeConfig(t, t.TempDir())

	_, err := execute(t, "share", "--config", cfgFile, "Mateus")
	assert.ErrorContains(t, err, "Mateus 3:11")
}

func TestHistoryCommands(t *testing.T) {
	cfgFile, historyFile := writeConfig(t, t.TempDir())

	ctx := context.Background()
	log := history.Open(ctx, history.NewFileStore(historyFile), 0)
	for _, p := range []string{"Gn 1", "Ex 3:14"} {
		req, err := study.NewRequest(p, study.TranslationARC, study.DepthQuick)
		require.NoError(t, err)
		require.NoError(t, log.Record(ctx, req))
	}

	out, err := execute(t, "history", "list", "--config", cfgFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Ex 3:14")
	assert.Contains(t, lines[2], "Gn 1")

	_, err = execute(t, "history", "open", "7", "--config", cfgFile)
	assert.ErrorContains(t, err, "history has 2 entries")

	out, err = execute(t, "history", "clear", "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Histórico apagado.")

	out, err = execute(t, "history", "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhum estudo recente.")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exegesis", "config.yaml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))

	_, err = execute(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	t.Setenv("GEMINI_API_KEY", "AIza-very-secret-1234")
	verbose, cfgPath, cfg = false, "", nil
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"config", "show", "--config", path})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, buf.String(), "****1234")
	assert.NotContains(t, buf.String(), "very-secret")
}

func TestStudyCommand_NeedsAPIKey(t *testing.T) {
	cfgFile, _ := writeConfig(t, t.TempDir())

	_, err := execute(t, "study", "--config", cfgFile, "João 3:16")
	assert.ErrorContains(t, err, "API key not configured")
}

func TestStudyCommand_ValidatesBeforeGenerating(t *testing.T) {
	cfgFile, _ := writeConfig(t, t.TempDir())

	_, err := execute(t, "study", "--config", cfgFile, "-f", "epub", "João 3:16")
	assert.ErrorContains(t, err, "unknown export format")

	_, err = execute(t, "study", "--config", cfgFile, "-t", "XYZ", "João 3:16")
	assert.ErrorIs(t, err, study.ErrUnknownTranslation)
}

func TestInvalidConfigIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  backend: mongo\n"), 0644))

	_, err := execute(t, "history", "--config", path)
	assert.ErrorContains(t, err, "invalid history backend")
}

func TestReadStudy(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"meta":{}}`), 0644))

	_, err := readStudy(bad)
	var shape *study.ShapeError
	assert.ErrorAs(t, err, &shape)

	_, err = readStudy(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
