package controllers

import (
	"github.com/gin-gonic/gin"

	"retropod/player"
)

// SearchController fronts the per-session debounced searcher. Submit is
// keystroke-driven and cheap; Results is polled and returns whatever the
// newest query has produced so far.
type SearchController struct {
	manager *player.Manager
}

func NewSearchController(manager *player.Manager) *SearchController {
	return &SearchController{manager: manager}
}

func (c *SearchController) searcher(ctx *gin.Context) *player.Searcher {
	key, userID := requestIdentity(ctx)
	return c.manager.Searcher(key, userID)
}

// Submit schedules a debounced search for the query. Older in-flight queries
// are superseded; their late results are dropped.
func (c *SearchController) Submit(ctx *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	searcher := c.searcher(ctx)
	if searcher == nil {
		ctx.JSON(503, gin.H{"error": "Search is not configured"})
		return
	}
	searcher.Submit(req.Query)
	ctx.JSON(202, gin.H{"query": req.Query, "pending": true})
}

// Results returns the newest query's outcome.
func (c *SearchController) Results(ctx *gin.Context) {
	searcher := c.searcher(ctx)
	if searcher == nil {
		ctx.JSON(503, gin.H{"error": "Search is not configured"})
		return
	}

	query, results, pending, err := searcher.Results()
	resp := gin.H{
		"query":   query,
		"pending": pending,
		"results": results,
	}
	if err != nil {
		resp["error"] = gin.H{"message": err.Error()}
	}
	ctx.JSON(200, resp)
}
