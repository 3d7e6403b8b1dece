package handlers

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zomorrodilab/ZLab-tools/internal/api/models"
	"github.com/zomorrodilab/ZLab-tools/internal/fba"
	"github.com/zomorrodilab/ZLab-tools/internal/model"
	"github.com/zomorrodilab/ZLab-tools/internal/solver"
)

// job tracks one running or finished batch optimization.
type job struct {
	id         string
	status     string
	startedAt  time.Time
	finishedAt *time.Time
	err        string
	reports    []fba.ModelReport
}

// JobStore keeps batch jobs in memory, keyed by uuid.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*job
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: map[string]*job{}}
}

func (s *JobStore) create() *job {
	j := &job{
		id:        uuid.NewString(),
		status:    "running",
		startedAt: time.Now(),
	}
	s.mu.Lock()
	s.jobs[j.id] = j
	s.mu.Unlock()
	return j
}

func (s *JobStore) finish(id string, reports []fba.ModelReport, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return
	}
	now := time.Now()
	j.finishedAt = &now
	j.reports = reports
	if err != nil {
		j.status = "failed"
		j.err = err.Error()
	} else {
		j.status = "completed"
	}
}

func (s *JobStore) get(id string) (*job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

// OptimizeHandler starts and reports batch optimization jobs.
type OptimizeHandler struct {
	Jobs *JobStore
	// NewSolver builds the solver for a request; defaults to GLPK.
	NewSolver func(binary string) solver.Solver
}

// NewOptimizeHandler creates a new optimize handler.
func NewOptimizeHandler(jobs *JobStore) *OptimizeHandler {
	if jobs == nil {
		jobs = NewJobStore()
	}
	return &OptimizeHandler{
		Jobs: jobs,
		NewSolver: func(binary string) solver.Solver {
			g := solver.NewGLPK()
			if binary != "" {
				g.Binary = binary
			}
			return g
		},
	}
}

// StartOptimize handles POST /api/v1/optimize.
func (h *OptimizeHandler) StartOptimize(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	pipeline := &fba.Pipeline{
		Solver:      h.NewSolver(req.SolverBinary),
		AddBileAcid: req.AddBileAcid,
		Log:         log.Default(),
	}
	opts := fba.BatchOptions{
		OutDir:  req.OutputDir,
		Workers: req.Workers,
	}
	if req.ApplyConventions {
		conv := model.DefaultConventions()
		opts.Conventions = &conv
	}

	j := h.Jobs.create()
	go func() {
		reports, err := fba.RunBatch(context.Background(), req.ModelsDir, pipeline, opts)
		h.Jobs.finish(j.id, reports, err)
	}()

	c.JSON(http.StatusAccepted, models.JobResponse{
		ID:        j.id,
		Status:    j.status,
		StartedAt: j.startedAt,
	})
}

// GetJob handles GET /api/v1/jobs/:id.
func (h *OptimizeHandler) GetJob(c *gin.Context) {
	j, ok := h.Jobs.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorBody{Code: "NOT_FOUND", Message: "job not found"},
		})
		return
	}

	resp := models.JobResponse{
		ID:         j.id,
		Status:     j.status,
		StartedAt:  j.startedAt,
		FinishedAt: j.finishedAt,
		Error:      j.err,
	}
	for _, r := range j.reports {
		mr := models.ModelReport{
			Model:      r.Model,
			Status:     "ok",
			Maximized:  r.Maxed,
			Minimized:  r.Minned,
			DurationMS: float64(r.Duration.Milliseconds()),
		}
		if r.Err != nil {
			mr.Status = "failed"
			mr.Error = r.Err.Error()
		}
		resp.Models = append(resp.Models, mr)
	}
	c.JSON(http.StatusOK, resp)
}
