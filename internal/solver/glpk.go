package solver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// GLPK delegates solves to the GNU Linear Programming Kit command-line
// solver (glpsol). The LP is written to a temp file in CPLEX LP format and
// the plain-text solution file is parsed back.
type GLPK struct {
	// Binary is the solver executable; defaults to "glpsol" on PATH.
	Binary string
	// TimeLimit bounds a single solve; zero means no limit.
	TimeLimit time.Duration
}

// NewGLPK returns a GLPK solver using the glpsol binary on PATH.
func NewGLPK() *GLPK {
	return &GLPK{Binary: "glpsol"}
}

// Optimize implements Solver.
func (g *GLPK) Optimize(ctx context.Context, m *model.Model, objective string, sense Sense) (*Solution, error) {
	dir, err := os.MkdirTemp("", "zlab-fba-*")
	if err != nil {
		return nil, fmt.Errorf("create solver workdir: %w", err)
	}
	defer os.RemoveAll(dir)

	lpPath := filepath.Join(dir, "problem.lp")
	solPath := filepath.Join(dir, "solution.txt")

	lpFile, err := os.Create(lpPath)
	if err != nil {
		return nil, fmt.Errorf("create lp file: %w", err)
	}
	varToRxn, err := WriteLP(lpFile, m, objective, sense)
	if cerr := lpFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	binary := g.Binary
	if binary == "" {
		binary = "glpsol"
	}
	args := []string{"--lp", lpPath, "--output", solPath}
	if g.TimeLimit > 0 {
		args = append(args, "--tmlim", strconv.Itoa(int(g.TimeLimit.Seconds())))
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("run %s: %w: %s", binary, err, firstLines(string(out), 5))
	}

	solFile, err := os.Open(solPath)
	if err != nil {
		return nil, fmt.Errorf("open solution file: %w", err)
	}
	defer solFile.Close()
	return parseSolution(solFile, varToRxn)
}

// parseSolution reads a glpsol plain-text solution file, translating column
// names back to reaction IDs.
func parseSolution(r io.Reader, varToRxn map[string]string) (*Solution, error) {
	sol := &Solution{Fluxes: make(map[string]float64, len(varToRxn))}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	statusOK := false
	inColumns := false
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Status:"):
			status := strings.TrimSpace(strings.TrimPrefix(line, "Status:"))
			if status != "OPTIMAL" {
				return nil, fmt.Errorf("%w: status %s", ErrNoSolution, status)
			}
			statusOK = true
		case strings.HasPrefix(line, "Objective:"):
			// "Objective:  obj = 42.5 (MAXimum)"
			v, err := parseObjectiveLine(line)
			if err != nil {
				return nil, err
			}
			sol.Objective = v
		case strings.Contains(line, "Column name"):
			inColumns = true
		case inColumns:
			if strings.HasPrefix(line, "---") {
				continue
			}
			if strings.TrimSpace(line) == "" {
				inColumns = false
				continue
			}
			fields := strings.Fields(line)
			// "<no.> <name> <status> <activity> [bounds...]"
			if len(fields) < 4 {
				continue
			}
			rxnID, ok := varToRxn[fields[1]]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("parse activity for %s: %w", rxnID, err)
			}
			sol.Fluxes[rxnID] = v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read solution file: %w", err)
	}
	if !statusOK {
		return nil, fmt.Errorf("%w: solution file carried no status", ErrNoSolution)
	}
	return sol, nil
}

func parseObjectiveLine(line string) (float64, error) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return 0, fmt.Errorf("malformed objective line %q", line)
	}
	rest := strings.TrimSpace(line[eq+1:])
	if paren := strings.Index(rest, "("); paren >= 0 {
		rest = strings.TrimSpace(rest[:paren])
	}
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, fmt.Errorf("parse objective value %q: %w", rest, err)
	}
	return v, nil
}

func firstLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, " | ")
}
