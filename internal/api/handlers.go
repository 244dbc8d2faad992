package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/crossplay/crossgen/internal/auth"
	"github.com/crossplay/crossgen/internal/db"
	"github.com/crossplay/crossgen/internal/middleware"
	"github.com/crossplay/crossgen/internal/models"
	"github.com/crossplay/crossgen/internal/realtime"
	"github.com/crossplay/crossgen/pkg/collision"
	"github.com/crossplay/crossgen/pkg/dictionary"
	"github.com/crossplay/crossgen/pkg/grid"
	"github.com/crossplay/crossgen/pkg/solve"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handlers struct {
	db          *db.Database
	authService *auth.AuthService
	hub         *realtime.Hub
	dictionary  *dictionary.Dictionary
}

func NewHandlers(database *db.Database, authService *auth.AuthService, dict *dictionary.Dictionary) *Handlers {
	return &Handlers{
		db:          database,
		authService: authService,
		dictionary:  dict,
	}
}

// SetHub wires the progress-stream hub once cmd/server has started it.
func (h *Handlers) SetHub(hub *realtime.Hub) {
	h.hub = hub
}

// Admin auth handlers
//
// There is no public registration: accounts are seeded out of band by
// cmd/admin. Login is the only auth surface the HTTP API exposes.

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User  models.AdminUser `json:"user"`
	Token string           `json:"token"`
}

func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.GetAdminUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !h.authService.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.authService.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: *user, Token: token})
}

func (h *Handlers) GetMe(c *gin.Context) {
	claims := middleware.GetAuthUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.db.GetAdminUserByEmail(claims.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "admin user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Solve handlers

// SolveRequest carries the grid text verbatim (spec.md §3 row-separated
// format) plus either an inline dictionary or a reference to one already
// loaded on the server. An inline dictionary lets a caller exercise a
// custom word list without shipping it to disk first.
type SolveRequest struct {
	Grid       string `json:"grid" binding:"required"`
	Dictionary string `json:"dictionary"`
}

// SolveResponse mirrors models.SolveRun but omits database-only fields.
type SolveResponse struct {
	ID         string `json:"id"`
	Outcome    string `json:"outcome"`
	Board      string `json:"board,omitempty"`
	Variables  int    `json:"variables"`
	Collisions int    `json:"collisions"`
	Attempts   int    `json:"attempts"`
	Backtracks int    `json:"backtracks"`
	ElapsedMs  int64  `json:"elapsedMs"`
	Error      string `json:"error,omitempty"`
}

func hashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

const (
	inFlightPollInterval = 150 * time.Millisecond
	inFlightPollTimeout  = 10 * time.Second
)

// awaitInFlight polls the cache and run history for the result of a solve
// another request is already running for this instance. Returns false if
// nothing surfaces before inFlightPollTimeout elapses.
func (h *Handlers) awaitInFlight(ctx context.Context, gridHash, dictHash string) (SolveResponse, bool) {
	deadline := time.Now().Add(inFlightPollTimeout)
	for time.Now().Before(deadline) {
		if cached, err := h.db.GetCachedBoard(ctx, gridHash, dictHash); err == nil && cached != "" {
			return SolveResponse{Outcome: string(models.OutcomeSolved), Board: cached}, true
		}
		if run, err := h.db.GetSolveRunByInstance(gridHash, dictHash); err == nil && run != nil {
			return toSolveResponse(run), true
		}
		time.Sleep(inFlightPollInterval)
	}
	return SolveResponse{}, false
}

// Solve parses a grid and dictionary, runs the CSP search, persists the
// outcome, and streams progress to any websocket subscribers registered
// under the returned run id. A request for an instance already recorded in
// Postgres, or already cached in Redis, short-circuits the search entirely.
func (h *Handlers) Solve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dict := h.dictionary
	dictText := req.Dictionary
	if dictText != "" {
		loaded, err := dictionary.LoadFromText(dictText)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		dict = loaded
	}
	if dict == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no dictionary loaded"})
		return
	}

	g, err := grid.Parse(req.Grid)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	gridHash := hashText(req.Grid)
	dictHash := hashText(dictText)
	ctx := context.Background()

	if h.db != nil {
		if cached, err := h.db.GetCachedBoard(ctx, gridHash, dictHash); err == nil && cached != "" {
			c.JSON(http.StatusOK, SolveResponse{Outcome: string(models.OutcomeSolved), Board: cached})
			return
		}
		if run, err := h.db.GetSolveRunByInstance(gridHash, dictHash); err == nil && run != nil {
			c.JSON(http.StatusOK, toSolveResponse(run))
			return
		}
	}

	runID := uuid.New().String()

	// Claim this instance in Redis so a burst of identical requests shares
	// one search instead of each racing the full backtracking solve.
	claimed := true
	if h.db != nil {
		var claimErr error
		claimed, claimErr = h.db.ClaimInFlight(ctx, gridHash, dictHash, runID)
		if claimErr != nil {
			log.Printf("Solve: in-flight claim failed for %s:%s: %v", gridHash, dictHash, claimErr)
			claimed = true
		} else if !claimed {
			if resp, ok := h.awaitInFlight(ctx, gridHash, dictHash); ok {
				c.JSON(http.StatusOK, resp)
				return
			}
			// The other solve never finished within the poll window; fall
			// through and search ourselves rather than leaving the caller
			// to hang. We never held the claim, so there is nothing to
			// release below.
		}
	}
	if claimed && h.db != nil {
		defer func() {
			if err := h.db.ReleaseInFlight(ctx, gridHash, dictHash); err != nil {
				log.Printf("Solve: failed to release in-flight claim for %s:%s: %v", gridHash, dictHash, err)
			}
		}()
	}

	domains, err := dictionary.Domains(dict, g.Variables)
	if err != nil {
		run := h.recordRun(runID, gridHash, dictHash, g, nil, solve.Stats{Variables: len(g.Variables)}, models.OutcomeUnsolvable)
		c.JSON(http.StatusUnprocessableEntity, toSolveResponse(run))
		return
	}

	m := collision.Build(g.Variables)

	progress := func(depth int, stats solve.Stats) {
		if h.hub == nil {
			return
		}
		h.hub.Broadcast(runID, realtime.MsgProgress, realtime.ProgressPayload{
			Depth:      depth,
			Variables:  stats.Variables,
			Attempts:   stats.Attempts,
			Backtracks: stats.Backtracks,
		})
	}

	assignment, stats, err := solve.SolveWithProgress(g.Variables, m, domains, progress)
	if err != nil {
		run := h.recordRun(runID, gridHash, dictHash, g, nil, stats, models.OutcomeUnsolvable)
		if h.hub != nil {
			h.hub.Broadcast(runID, realtime.MsgUnsolvable, realtime.ErrorPayload{Message: err.Error()})
		}
		c.JSON(http.StatusConflict, toSolveResponse(run))
		return
	}

	board := solve.Format(g.Rows, g.Cols, g.Variables, assignment)
	run := h.recordRun(runID, gridHash, dictHash, g, &board, stats, models.OutcomeSolved)

	if h.db != nil {
		if err := h.db.SetCachedBoard(ctx, gridHash, dictHash, board, 24*time.Hour); err != nil {
			log.Printf("Solve: failed to cache board for run %s: %v", runID, err)
		}
	}
	if h.hub != nil {
		h.hub.Broadcast(runID, realtime.MsgSolved, realtime.SolvedPayload{
			Board:      board,
			Attempts:   stats.Attempts,
			Backtracks: stats.Backtracks,
			ElapsedMs:  stats.Elapsed.Milliseconds(),
		})
	}

	c.JSON(http.StatusCreated, toSolveResponse(run))
}

// recordRun persists the run's outcome if Postgres is configured and always
// returns an in-memory models.SolveRun for the response, so the endpoint
// still functions when no Postgres connection exists.
func (h *Handlers) recordRun(runID, gridHash, dictHash string, g *grid.Grid, board *string, stats solve.Stats, outcome models.Outcome) *models.SolveRun {
	run := &models.SolveRun{
		ID:         runID,
		GridHash:   gridHash,
		DictHash:   dictHash,
		Rows:       g.Rows,
		Cols:       g.Cols,
		Variables:  stats.Variables,
		Collisions: stats.Collisions,
		Outcome:    outcome,
		Attempts:   stats.Attempts,
		Backtracks: stats.Backtracks,
		ElapsedMs:  stats.Elapsed.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if board != nil {
		run.Board = *board
	}

	if h.db != nil {
		if err := h.db.CreateSolveRun(run); err != nil {
			log.Printf("Solve: failed to persist run %s: %v", runID, err)
		}
	}
	return run
}

func toSolveResponse(run *models.SolveRun) SolveResponse {
	resp := SolveResponse{
		ID:         run.ID,
		Outcome:    string(run.Outcome),
		Board:      run.Board,
		Variables:  run.Variables,
		Collisions: run.Collisions,
		Attempts:   run.Attempts,
		Backtracks: run.Backtracks,
		ElapsedMs:  run.ElapsedMs,
	}
	if run.Outcome != models.OutcomeSolved {
		resp.Error = "no solution satisfies the collision constraints"
	}
	return resp
}

// GetSolveRun fetches a previously computed solve job from Postgres.
func (h *Handlers) GetSolveRun(c *gin.Context) {
	id := c.Param("id")

	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	run, err := h.db.GetSolveRun(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "solve run not found"})
		return
	}

	c.JSON(http.StatusOK, toSolveResponse(run))
}

// GetSolveWS upgrades to a websocket and subscribes the connection to a
// run's progress stream. The run does not need to still be in flight: a
// client that connects after completion simply never receives an event,
// matching the hub's "no one is required to be watching" contract.
func (h *Handlers) GetSolveWS(c *gin.Context) {
	id := c.Param("id")
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "progress streaming not configured"})
		return
	}
	if err := realtime.ServeWs(h.hub, c.Writer, c.Request, id); err != nil {
		log.Printf("GetSolveWS: upgrade failed for run %s: %v", id, err)
	}
}

// ListSolveRuns paginates recorded runs, newest first.
func (h *Handlers) ListSolveRuns(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runs, err := h.db.ListSolveRuns(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetStats reports aggregate outcome counts and averages across every
// recorded run, admin-auth-protected the same way the teacher protects
// GetMyStats.
func (h *Handlers) GetStats(c *gin.Context) {
	claims := middleware.GetAuthUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	stats, err := h.db.GetRunStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
