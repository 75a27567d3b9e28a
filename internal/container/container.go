package container

import (
	"context"
	"fmt"

	"dsemotion/adapters/excel"
	"dsemotion/adapters/kbfile"
	"dsemotion/adapters/memory"
	"dsemotion/adapters/postgres"
	"dsemotion/adapters/report"
	"dsemotion/app"
	"dsemotion/domain/knowledge"
	"dsemotion/internal"
	"dsemotion/internal/config"
	"dsemotion/internal/engine"
	"dsemotion/internal/errors"
	"dsemotion/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; DB is nil when runs are kept in memory
	DB *sqlx.DB

	KnowledgeBase *knowledge.Base
	Engine        *engine.Engine
	Runs          ports.RunRepository
	Service       *app.ClassificationService
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
	}

	if err := c.initKnowledgeBase(); err != nil {
		return nil, err
	}
	if err := c.initEngine(); err != nil {
		return nil, err
	}
	if err := c.initRepositories(ctx); err != nil {
		return nil, err
	}

	c.Service = app.NewClassificationService(c.Engine, c.Runs, c.Logger)
	c.Logger.Info("Container initialized (knowledge base %s, workers %d)",
		c.KnowledgeBase.Fingerprint().Short(), c.Engine.Config().Workers)
	return c, nil
}

func (c *Container) initKnowledgeBase() error {
	path := c.Config.Engine.KnowledgeBaseFile
	if path == "" {
		c.KnowledgeBase = knowledge.Default()
		return nil
	}

	kb, err := kbfile.Load(path)
	if err != nil {
		return errors.Wrap(err, "failed to load knowledge base")
	}
	c.KnowledgeBase = kb
	c.Logger.Info("Loaded knowledge base %s from %s", kb.Fingerprint().Short(), path)
	return nil
}

func (c *Container) initEngine() error {
	e, err := engine.New(c.KnowledgeBase, engine.Config{
		Workers:      c.Config.Engine.Workers,
		EvidenceMass: c.Config.Engine.EvidenceMass,
		StrictRanges: c.Config.Engine.StrictRanges,
	}, c.Logger)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	c.Engine = e
	return nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		c.Runs = memory.NewRunRepository()
		c.Logger.Debug("DATABASE_URL not set, runs are kept in memory")
		return nil
	}

	db, err := postgres.Open(ctx, c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to initialize database", err)
	}
	c.DB = db
	c.Runs = postgres.NewRunRepository(db)
	c.Logger.Info("Runs are stored in PostgreSQL")
	return nil
}

// Source builds a file reader from the input configuration; an empty path uses INPUT_FILE.
func (c *Container) Source(path string) (ports.FrameSource, error) {
	excelConfig := excel.DefaultExcelConfig()
	excelConfig.FilePath = path
	if excelConfig.FilePath == "" {
		excelConfig.FilePath = c.Config.Input.File
	}
	excelConfig.Sheet = c.Config.Input.Sheet
	excelConfig.Delimiter = c.Config.Input.Delimiter

	layout, err := excel.ParseLayout(c.Config.Input.Layout)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	excelConfig.Layout = layout

	if err := excelConfig.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return excel.NewDataReader(excelConfig), nil
}

// ReportWriter returns the writer for format, or for REPORT_FORMAT when format is empty.
func (c *Container) ReportWriter(format string) (ports.ReportWriter, error) {
	if format == "" {
		format = c.Config.Report.Format
	}
	w, err := report.New(format)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return w, nil
}

// Shutdown releases resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
