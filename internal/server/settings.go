package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListSettings(c *gin.Context) {
	prefix := strings.TrimSpace(c.Query("prefix"))

	values, err := s.settingsSvc.GetByPrefix(c.Request.Context(), prefix)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": values})
}

type putSettingRequest struct {
	Value string `json:"value"`
}

func (s *Server) PutSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))

	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.settingsSvc.Put(c.Request.Context(), key, req.Value); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"key": key, "value": req.Value}})
}
