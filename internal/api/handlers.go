package api

import (
	"bytes"
	"net/http"
	"strconv"

	"dsemotion/adapters/kbfile"
	"dsemotion/adapters/report"
	"dsemotion/domain/core"
	"dsemotion/domain/frame"
	"dsemotion/domain/knowledge"
	"dsemotion/domain/run"
	"dsemotion/internal/errors"
	"dsemotion/ports"

	"github.com/gin-gonic/gin"
)

// ClassifyRequest is the body of POST /v1/classify.
type ClassifyRequest struct {
	Source string        `json:"source"`
	Frames []frame.Frame `json:"frames"`
}

// KnowledgeBaseResponse is the JSON view of the active knowledge base.
type KnowledgeBaseResponse struct {
	Fingerprint core.Hash       `json:"fingerprint"`
	Emotions    knowledge.Table `json:"emotions"`
}

// RunsResponse is the body of GET /v1/runs.
type RunsResponse struct {
	Runs   []run.Summary `json:"runs"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"knowledge_base": s.service.KnowledgeBase().Fingerprint(),
	})
}

// handleKnowledgeBase returns the table as JSON, or as TOML with ?format=toml.
func (s *Server) handleKnowledgeBase(c *gin.Context) {
	kb := s.service.KnowledgeBase()

	if c.Query("format") == "toml" {
		var buf bytes.Buffer
		if err := kbfile.Encode(&buf, kb); err != nil {
			respondError(c, errors.Wrap(err, "failed to encode knowledge base"))
			return
		}
		c.Data(http.StatusOK, "application/toml; charset=utf-8", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, KnowledgeBaseResponse{
		Fingerprint: kb.Fingerprint(),
		Emotions:    kb.Table(),
	})
}

func (s *Server) handleClassify(c *gin.Context) {
	writer, ok := reportWriter(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBytes)
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	r, err := s.service.ClassifyFrames(c.Request.Context(), req.Source, req.Frames)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRun(c, http.StatusCreated, writer, r)
}

func (s *Server) handleListRuns(c *gin.Context) {
	filters := ports.RunFilters{Source: c.Query("source")}
	if fp := c.Query("fingerprint"); fp != "" {
		h := core.Hash(fp)
		filters.Fingerprint = &h
	}

	var err error
	if filters.Limit, err = queryInt(c, "limit", 0); err != nil {
		respondError(c, err)
		return
	}
	if filters.Offset, err = queryInt(c, "offset", 0); err != nil {
		respondError(c, err)
		return
	}

	summaries, err := s.service.ListRuns(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RunsResponse{Runs: summaries, Limit: filters.EffectiveLimit(), Offset: filters.Offset})
}

func (s *Server) handleGetRun(c *gin.Context) {
	writer, ok := reportWriter(c)
	if !ok {
		return
	}

	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	r, err := s.service.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRun(c, http.StatusOK, writer, r)
}

// reportWriter resolves ?format=, defaulting to the detailed JSON document.
func reportWriter(c *gin.Context) (ports.ReportWriter, bool) {
	w, err := report.New(c.DefaultQuery("format", report.FormatDetailed))
	if err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return nil, false
	}
	return w, true
}

func respondRun(c *gin.Context, status int, w ports.ReportWriter, r *run.Run) {
	var buf bytes.Buffer
	if err := w.Write(&buf, r); err != nil {
		respondError(c, errors.Wrapf(err, "failed to render %s report", w.Format()))
		return
	}
	c.Header("X-Run-ID", r.ID.String())
	c.Data(status, w.ContentType(), buf.Bytes())
}

func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.AbortWithStatusJSON(errors.HTTPStatus(code), gin.H{
		"error": err.Error(),
		"code":  code,
	})
}

func queryInt(c *gin.Context, key string, defaultValue int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(key + " must be an integer")
	}
	return v, nil
}
