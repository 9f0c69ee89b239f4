package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"simrng/adapters/excel"
	"simrng/app"
	"simrng/domain/dist"
	apperrors "simrng/internal/errors"
	"simrng/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// generateResponse describes the generation that was just installed
type generateResponse struct {
	ID           string          `json:"id"`
	Seed         uint64          `json:"seed"`
	Source       string          `json:"source"`
	Distribution dist.Descriptor `json:"distribution"`
	Count        int             `json:"count"`
	SampleHash   string          `json:"sample_hash"`
	Numbers      []float64       `json:"numbers"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req app.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	s.generate(c, req)
}

func (s *Server) generate(c *gin.Context, req app.GenerateRequest) {
	gen, err := s.generation.Generate(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, generateResponse{
		ID:           gen.ID.String(),
		Seed:         gen.Seed,
		Source:       gen.Source,
		Distribution: gen.Distribution,
		Count:        gen.Count(),
		SampleHash:   gen.Hash.String(),
		Numbers:      gen.Page(1, s.generation.PageSize()),
	})
}

// legacyRequest is the flat body of the per-distribution endpoints
type legacyRequest struct {
	Seed   uint64  `json:"seed"`
	Count  int     `json:"count"`
	Source string  `json:"source"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Mean   float64 `json:"mean"`
	SD     float64 `json:"sd"`
	Lambda float64 `json:"lambda"`
}

type legacyKind func(legacyRequest) dist.Descriptor

func legacyUniform(r legacyRequest) dist.Descriptor { return dist.Uniform(r.Lower, r.Upper) }

func legacyNormalBoxMuller(r legacyRequest) dist.Descriptor {
	return dist.Normal(r.Mean, r.SD, dist.AlgorithmBoxMuller)
}

func legacyNormalConvolution(r legacyRequest) dist.Descriptor {
	return dist.Normal(r.Mean, r.SD, dist.AlgorithmConvolution)
}

func legacyExponential(r legacyRequest) dist.Descriptor { return dist.Exponential(r.Lambda) }

func legacyPoisson(r legacyRequest) dist.Descriptor { return dist.Poisson(r.Lambda) }

func (s *Server) handleLegacyGenerate(kind legacyKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req legacyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, apperrors.InvalidInput("invalid request body: "+err.Error()))
			return
		}
		s.generate(c, app.GenerateRequest{
			Seed:         req.Seed,
			Count:        req.Count,
			Source:       req.Source,
			Distribution: kind(req),
		})
	}
}

func (s *Server) handleHistogram(c *gin.Context) {
	k, ok := s.intervals(c)
	if !ok {
		return
	}
	h, err := s.statistics.Histogram(c.Request.Context(), k)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) handleStatistics(c *gin.Context) {
	eval, ok := s.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"histogram": eval.Histogram,
		"test":      eval.Test,
	})
}

func (s *Server) handleNumbers(c *gin.Context) {
	n := 1
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(c, apperrors.InvalidInput("page must be an integer"))
			return
		}
		n = v
	}
	page, err := s.generation.Page(n)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleSummary(c *gin.Context) {
	summary, err := s.statistics.Summary(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleEvaluations(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		s.fail(c, apperrors.InvalidInput("limit must be an integer"))
		return
	}
	records, err := s.statistics.Recent(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluations": records})
}

func (s *Server) handleExport(c *gin.Context) {
	eval, ok := s.evaluate(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := excel.WriteWorkbook(&buf, eval.Generation, eval.Histogram, eval.Test); err != nil {
		s.fail(c, apperrors.Wrap(err, "failed to export workbook"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="simrng-`+eval.Generation.Hash.Short()+`.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) handleReport(c *gin.Context) {
	eval, ok := s.evaluate(c)
	if !ok {
		return
	}
	page, err := report.Render(eval.Generation, eval.Test)
	if err != nil {
		s.fail(c, apperrors.Wrap(err, "failed to render report"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// evaluate runs the statistics request described by the query string.
func (s *Server) evaluate(c *gin.Context) (*app.Evaluation, bool) {
	k, ok := s.intervals(c)
	if !ok {
		return nil, false
	}
	var alpha float64
	if raw := c.Query("alpha"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.fail(c, apperrors.InvalidInput("alpha must be a number"))
			return nil, false
		}
		alpha = v
	}
	eval, err := s.statistics.Statistics(c.Request.Context(), k, alpha)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return eval, true
}

func (s *Server) intervals(c *gin.Context) (int, bool) {
	raw := c.Query("intervals")
	if raw == "" {
		s.fail(c, apperrors.InvalidInput("intervals is required"))
		return 0, false
	}
	k, err := strconv.Atoi(raw)
	if err != nil {
		s.fail(c, apperrors.InvalidInput("intervals must be an integer"))
		return 0, false
	}
	return k, true
}
