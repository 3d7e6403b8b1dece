package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zomorrodilab/ZLab-tools/internal/api/models"
	"github.com/zomorrodilab/ZLab-tools/internal/data"
	"github.com/zomorrodilab/ZLab-tools/internal/matching"
	"github.com/zomorrodilab/ZLab-tools/internal/pubchem"
)

// MatchHandler runs the name-matching cascade.
type MatchHandler struct {
	// PubChemBaseURL overrides the PubChem endpoint (tests).
	PubChemBaseURL string
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler() *MatchHandler {
	return &MatchHandler{}
}

// RunMatch handles POST /api/v1/match.
func (h *MatchHandler) RunMatch(c *gin.Context) {
	var req models.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	table, err := data.VMHCache().Load(req.VMHPath)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var manual map[string]string
	if req.ManualPath != "" {
		manual, err = data.LoadManualKeys(req.ManualPath)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	matcher := &matching.Matcher{
		DB:     table,
		Manual: manual,
		Log:    log.Default(),
	}
	if !req.DisablePubChem {
		matcher.Resolver = pubchem.NewClient(h.PubChemBaseURL)
	}

	res, keyPath, err := matching.MatchDataset(c.Request.Context(), matcher, req.GCMSPath, req.OutputDir)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	strategies := make(map[string]string, len(res.Strategies))
	for name, s := range res.Strategies {
		strategies[name] = string(s)
	}
	c.JSON(http.StatusOK, models.MatchResponse{
		Matches:    res.Matches,
		Strategies: strategies,
		Unmatched:  res.Unmatched,
		Matched:    len(res.Matches),
		Total:      res.Total,
		KeyFile:    keyPath,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorBody{Code: "BAD_REQUEST", Message: message},
	})
}
