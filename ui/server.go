// Package ui exposes the analysis engine over HTTP. It is a thin shell:
// all mechanics live behind the app and ports layers.
package ui

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/excel"
	"github.com/liqinglq666/ECC-Analyzer-Pro/app"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal/config"
	"github.com/liqinglq666/ECC-Analyzer-Pro/ports"
)

// Server wires the HTTP routes to the analysis services.
type Server struct {
	cfg      *config.Config
	runner   *app.BatchRunner
	repo     ports.BatchRepository // nil disables archiving
	exporter ports.ResultExporter
	renderer ports.ReportRenderer
	router   *gin.Engine
	log      *internal.Logger
}

// NewServer builds the server and registers its routes.
func NewServer(cfg *config.Config, runner *app.BatchRunner, repo ports.BatchRepository, exporter ports.ResultExporter, renderer ports.ReportRenderer, log *internal.Logger) *Server {
	if log == nil {
		log = internal.DefaultLogger
	}
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		repo:     repo,
		exporter: exporter,
		renderer: renderer,
		router:   gin.Default(),
		log:      log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/batches", s.handleListBatches)
		api.GET("/batches/:id", s.handleGetBatch)
		api.GET("/batches/:id/report.md", s.handleReport("md"))
		api.GET("/batches/:id/report.html", s.handleReport("html"))
		api.GET("/batches/:id/report.pdf", s.handleReport("pdf"))
		api.GET("/batches/:id/report.xlsx", s.handleReport("xlsx"))
	}
}

// Run starts the HTTP server on the configured port.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Server.Port
	s.log.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze accepts an uploaded workbook, runs the batch under the
// current configuration and returns the full result bundle.
func (s *Server) handleAnalyze(c *gin.Context) {
	mode := mech.LoadingMode(c.DefaultQuery("mode", string(mech.ModeTensile)))
	if mode != mech.ModeTensile && mode != mech.ModeCompressive {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown mode %q", mode)})
		return
	}

	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload field 'file'"})
		return
	}

	tmp, err := os.CreateTemp("", "ecc-upload-*"+filepath.Ext(upload.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(upload, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	samples, err := excel.NewLoader(tmpPath).Load(c.Request.Context(), mode)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	// Keep the original file name in the reports, not the temp path.
	for i := range samples {
		samples[i].SourceFile = filepath.Base(upload.Filename)
	}

	batch, err := s.runner.Run(c.Request.Context(), samples, s.cfg.Analysis, mode)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if s.repo != nil {
		if err := s.repo.Save(c.Request.Context(), batch); err != nil {
			s.log.Error("failed to archive batch %s: %v", batch.BatchID, err)
		}
	}
	c.JSON(http.StatusOK, batch)
}

func (s *Server) handleListBatches(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive not configured"})
		return
	}
	summaries, err := s.repo.List(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": summaries})
}

func (s *Server) handleGetBatch(c *gin.Context) {
	batch, ok := s.loadBatch(c)
	if !ok {
		return
	}
	if s.runner.IsStale(batch, s.cfg.Analysis) {
		c.JSON(http.StatusConflict, gin.H{"error": "batch was computed under a superseded configuration"})
		return
	}
	c.JSON(http.StatusOK, batch)
}

// handleReport renders an archived batch in the requested format.
func (s *Server) handleReport(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		batch, ok := s.loadBatch(c)
		if !ok {
			return
		}
		switch format {
		case "md":
			c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(s.renderer.Markdown(batch)))
		case "html":
			c.Data(http.StatusOK, "text/html; charset=utf-8", s.renderer.HTML(batch))
		case "pdf":
			data, err := s.renderer.PDF(batch)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.Header("Content-Disposition", `attachment; filename="report.pdf"`)
			c.Data(http.StatusOK, "application/pdf", data)
		case "xlsx":
			data, err := s.exporter.Bytes(batch)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.Header("Content-Disposition", `attachment; filename="report.xlsx"`)
			c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		}
	}
}

func (s *Server) loadBatch(c *gin.Context) (mech.BatchReport, bool) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive not configured"})
		return mech.BatchReport{}, false
	}
	batch, err := s.repo.Get(c.Request.Context(), core.BatchID(c.Param("id")))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrBatchNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return mech.BatchReport{}, false
	}
	return batch, true
}
