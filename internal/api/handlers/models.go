package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/zomorrodilab/ZLab-tools/internal/api/models"
	"github.com/zomorrodilab/ZLab-tools/internal/data"
)

// ListModels handles GET /api/v1/models?dir=<models dir>.
func ListModels(c *gin.Context) {
	dir := c.Query("dir")
	if dir == "" {
		badRequest(c, "dir query parameter is required")
		return
	}
	files, err := data.ListModelFiles(dir)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	out := make([]models.ModelFile, 0, len(files))
	for _, path := range files {
		out = append(out, models.ModelFile{Name: filepath.Base(path), Path: path})
	}
	c.JSON(http.StatusOK, gin.H{"models": out})
}
