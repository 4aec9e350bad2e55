package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tfkr-ae/ramjet"
	"github.com/tfkr-ae/ramjet/core"
	"github.com/tfkr-ae/ramjet/domain"
	"go.uber.org/zap"
)

type frameRequest struct {
	URL string `json:"url"`
}

type frameResponse struct {
	ID  string `json:"id"`
	Src string `json:"src"`
}

type addressResponse struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

func (s *Server) health(c *gin.Context) {
	status := "ok"
	if s.controller.Store() == nil {
		status = "store not ready"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Config())
}

func (s *Server) patchConfig(c *gin.Context) {
	var partial domain.Partial
	if err := json.NewDecoder(c.Request.Body).Decode(&partial); err != nil {
		s.metrics.ConfigUpdates.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.controller.ModifyConfig(c.Request.Context(), partial); err != nil {
		s.logger.Error("modifying configuration", zap.Error(err))
		if errors.Is(err, ramjet.ErrStoreWrite) {
			s.metrics.ConfigUpdates.WithLabelValues("store_error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		s.metrics.ConfigUpdates.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.metrics.ConfigUpdates.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, s.controller.Config())
}

func (s *Server) encode(c *gin.Context) {
	input := c.Query("url")
	output, err := s.controller.EncodeURL(input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, addressResponse{Input: input, Output: output})
}

func (s *Server) decode(c *gin.Context) {
	input := c.Query("url")
	output, err := s.controller.DecodeURL(input)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ramjet.ErrNotProxied) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, addressResponse{Input: input, Output: output})
}

func (s *Server) createFrame(c *gin.Context) {
	var request frameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	frame := s.controller.CreateFrame(nil)
	if request.URL != "" {
		if err := frame.Go(request.URL); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	s.metrics.FramesCreated.Inc()
	s.logger.Debug("frame created over api", core.FrameID(frame.ID))
	c.JSON(http.StatusCreated, frameResponse{ID: frame.ID.String(), Src: frame.Element.Src()})
}
