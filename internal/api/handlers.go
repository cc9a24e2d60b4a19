package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sproutlens/app"
	"sproutlens/domain/belief"
	"sproutlens/domain/correction"
	"sproutlens/domain/core"
	"sproutlens/domain/video"
	"sproutlens/internal/report"
)

func childID(c *gin.Context) core.ChildID {
	return core.ChildID(c.Param("childID"))
}

type createHypothesisRequest struct {
	Focus            string `json:"focus" binding:"required"`
	Theory           string `json:"theory" binding:"required"`
	Domain           string `json:"domain" binding:"required"`
	VideoAppropriate bool   `json:"video_appropriate"`
	VideoValue       string `json:"video_value"`
}

func (s *Server) createHypothesis(c *gin.Context) {
	var req createHypothesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h, err := s.registry.CreateHypothesis(c.Request.Context(), app.CreateHypothesisRequest{
		ChildID:          childID(c),
		Focus:            req.Focus,
		Theory:           req.Theory,
		Domain:           belief.Domain(req.Domain),
		VideoAppropriate: req.VideoAppropriate,
		VideoValue:       belief.VideoValue(req.VideoValue),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hypothesisView(h))
}

func (s *Server) listHypotheses(c *gin.Context) {
	filter := app.ListFilter{
		Status: belief.Status(c.Query("status")),
		Domain: belief.Domain(c.Query("domain")),
	}
	list, err := s.registry.ListHypotheses(c.Request.Context(), childID(c), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	views := make([]gin.H, 0, len(list))
	for _, h := range list {
		views = append(views, hypothesisView(h))
	}
	c.JSON(http.StatusOK, gin.H{"hypotheses": views})
}

func (s *Server) getHypothesis(c *gin.Context) {
	h, err := s.registry.GetHypothesis(c.Request.Context(), childID(c), c.Param("focus"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hypothesisView(h))
}

// hypothesisView attaches the derived status; it is computed on the way out,
// never read from storage
func hypothesisView(h *belief.Hypothesis) gin.H {
	return gin.H{
		"focus":             h.Focus,
		"theory":            h.Theory,
		"domain":            h.Domain,
		"certainty":         h.Certainty,
		"status":            h.Status(),
		"video_appropriate": h.VideoAppropriate,
		"video_value":       h.VideoValue,
		"created_at":        h.CreatedAt,
		"updated_at":        h.UpdatedAt,
	}
}

type addEvidenceRequest struct {
	Content string `json:"content" binding:"required"`
	Effect  string `json:"effect" binding:"required"`
	Source  string `json:"source" binding:"required"`
}

func (s *Server) addEvidence(c *gin.Context) {
	var req addEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h, ev, err := s.ledger.AppendEvidence(c.Request.Context(), childID(c), c.Param("focus"),
		req.Content, belief.Effect(req.Effect), belief.Source(req.Source))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"hypothesis": hypothesisView(h), "evidence": ev})
}

type adjustCertaintyRequest struct {
	NewValue float64 `json:"new_value"`
	Reason   string  `json:"reason"`
	Actor    string  `json:"actor"`
}

func (s *Server) adjustCertainty(c *gin.Context) {
	var req adjustCertaintyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h, err := s.ledger.AdjustCertainty(c.Request.Context(), childID(c), c.Param("focus"),
		req.NewValue, req.Reason, req.Actor)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hypothesisView(h))
}

type markTerminalRequest struct {
	Terminal string `json:"terminal" binding:"required"`
}

func (s *Server) markTerminal(c *gin.Context) {
	var req markTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h, err := s.registry.MarkTerminal(c.Request.Context(), childID(c), c.Param("focus"),
		belief.Terminal(req.Terminal))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hypothesisView(h))
}

func (s *Server) getTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	events, err := s.ledger.Timeline(ctx, childID(c), c.Param("focus"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	trend := belief.Trend(events)
	c.JSON(http.StatusOK, gin.H{"events": events, "trend": trend})
}

func (s *Server) getSummary(c *gin.Context) {
	summary, err := s.registry.Summarize(c.Request.Context(), childID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type requestVideoRequest struct {
	Focus           string `json:"focus"`
	WhatToFilm      string `json:"what_to_film" binding:"required"`
	DurationSeconds int    `json:"duration_seconds"`
}

func (s *Server) requestVideo(c *gin.Context) {
	var req requestVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := s.videos.RequestFilming(c.Request.Context(), childID(c), req.Focus, video.FilmingGuidance{
		WhatToFilm:      req.WhatToFilm,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *Server) listVideos(c *gin.Context) {
	list, err := s.videos.ListArtifacts(c.Request.Context(), childID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artifacts": list})
}

func (s *Server) getVideo(c *gin.Context) {
	a, err := s.videos.GetArtifact(c.Request.Context(), core.ArtifactID(c.Param("artifactID")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) uploadVideo(c *gin.Context) {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	a, err := s.videos.Upload(c.Request.Context(), core.ArtifactID(c.Param("artifactID")), file, nil)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) analyzeVideo(c *gin.Context) {
	a, err := s.videos.Analyze(c.Request.Context(), core.ArtifactID(c.Param("artifactID")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) analyzeAllPending(c *gin.Context) {
	results, err := s.videos.AnalyzeAllPending(c.Request.Context(), childID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) getGuidance(c *gin.Context) {
	a, err := s.videos.GetArtifact(c.Request.Context(), core.ArtifactID(c.Param("artifactID")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	var html []byte
	if a.State == video.StateValidationFailed && a.Validation != nil {
		html = report.RenderValidationIssues(*a.Validation)
	} else {
		html = report.RenderGuidance(a.Guidance)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

type createCorrectionRequest struct {
	TargetType          string `json:"target_type" binding:"required"`
	TargetID            string `json:"target_id" binding:"required"`
	CorrectionType      string `json:"correction_type" binding:"required"`
	Severity            string `json:"severity" binding:"required"`
	ExpertReasoning     string `json:"expert_reasoning"`
	SuggestedCorrection string `json:"suggested_correction"`
}

func (s *Server) createCorrection(c *gin.Context) {
	var req createCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := s.audit.Flag(c.Request.Context(), app.FlagRequest{
		ChildID:             childID(c),
		TargetType:          correction.TargetType(req.TargetType),
		TargetID:            req.TargetID,
		CorrectionType:      correction.Type(req.CorrectionType),
		Severity:            correction.Severity(req.Severity),
		ExpertReasoning:     req.ExpertReasoning,
		SuggestedCorrection: req.SuggestedCorrection,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

type missedSignalRequest struct {
	SignalType   string `json:"signal_type" binding:"required"`
	Domain       string `json:"domain" binding:"required"`
	WhyImportant string `json:"why_important" binding:"required"`
}

func (s *Server) recordMissedSignal(c *gin.Context) {
	var req missedSignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := s.audit.RecordMissedSignal(c.Request.Context(), childID(c),
		req.SignalType, belief.Domain(req.Domain), req.WhyImportant)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func correctionFilter(c *gin.Context) correction.Filter {
	return correction.Filter{
		ChildID:    core.ChildID(c.Query("child_id")),
		TargetType: correction.TargetType(c.Query("target_type")),
		Severity:   correction.Severity(c.Query("severity")),
	}
}

func (s *Server) aggregateCorrections(c *gin.Context) {
	agg, err := s.audit.Aggregate(c.Request.Context(), correctionFilter(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

func (s *Server) aggregateMissedSignals(c *gin.Context) {
	agg, err := s.audit.AggregateMissedSignals(c.Request.Context(), childID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

func (s *Server) correctionReport(c *gin.Context) {
	agg, err := s.audit.Aggregate(c.Request.Context(), correctionFilter(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="corrections.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := s.reports.WriteCorrectionReport(c.Writer, agg); err != nil {
		s.log.Error("failed to stream correction report: %v", err)
	}
}
