package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dsemotion/adapters/memory"
	"dsemotion/domain/knowledge"
	"dsemotion/internal/config"
	"dsemotion/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Engine:   config.EngineConfig{EvidenceMass: config.DefaultEvidenceMass},
		Input:    config.InputConfig{Delimiter: config.DefaultDelimiter, Layout: config.DefaultLayout},
		Report:   config.ReportConfig{Format: config.DefaultReportFormat},
		LogLevel: "ERROR",
	}
}

func TestNewInMemory(t *testing.T) {
	c, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Nil(t, c.DB)
	assert.IsType(t, &memory.RunRepository{}, c.Runs)
	assert.Equal(t, knowledge.Default().Fingerprint(), c.KnowledgeBase.Fingerprint())
	assert.Positive(t, c.Engine.Config().Workers)
	require.NotNil(t, c.Service)
}

func TestNewWithKnowledgeBaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.toml")
	require.NoError(t, os.WriteFile(path, []byte("base = \"reference\"\n\n[emotions.happiness]\nma = [\"s\"]\n"), 0o644))

	cfg := testConfig()
	cfg.Engine.KnowledgeBaseFile = path
	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, knowledge.Default().Fingerprint(), c.KnowledgeBase.Fingerprint())

	cfg.Engine.KnowledgeBaseFile = filepath.Join(t.TempDir(), "missing.toml")
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewRejectsBadEngineConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.EvidenceMass = 2
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestSourceAndReportWriter(t *testing.T) {
	c, err := New(context.Background(), testConfig())
	require.NoError(t, err)

	_, err = c.Source("")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err), "no file configured")

	src, err := c.Source("frames.csv")
	require.NoError(t, err)
	assert.Equal(t, "frames.csv", src.Name())

	c.Config.Input.Layout = "columns"
	_, err = c.Source("frames.csv")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	w, err := c.ReportWriter("")
	require.NoError(t, err)
	assert.Equal(t, "json", w.Format())

	w, err = c.ReportWriter("markdown")
	require.NoError(t, err)
	assert.Equal(t, "markdown", w.Format())

	_, err = c.ReportWriter("pdf")
	assert.Error(t, err)
}
