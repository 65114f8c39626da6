package leaderboard

import (
	"fest-judging-system/internal/global/response"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard GET /leaderboard?type=event|school|overall&eventId=&schoolId=&limit=
func GetLeaderboard(c *gin.Context) {
	var q GenericQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	result, err := aggregator.Generic(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

type eventsQuery struct {
	Context      string `form:"context"`
	ResultsLimit int    `form:"resultsLimit"`
}

// GetEventLeaderboards GET /leaderboard/events?context=admin|presentation&resultsLimit=
func GetEventLeaderboards(c *gin.Context) {
	var q eventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	result, err := aggregator.EventLeaderboards(c.Request.Context(), q.Context, q.ResultsLimit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

type purgeReq struct {
	Context string `json:"context" form:"context"`
}

// PurgeCache 请求体或查询参数带 context 时只清除该 context
func PurgeCache(c *gin.Context) {
	var req purgeReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
			return
		}
	}
	if req.Context == "" {
		req.Context = c.Query("context")
	}
	purged, err := aggregator.Purge(c.Request.Context(), req.Context)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"purged": purged})
}

func GetAnalytics(c *gin.Context) {
	result, err := aggregator.Analytics(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

func PurgeAnalyticsCache(c *gin.Context) {
	if err := aggregator.PurgeAnalytics(c.Request.Context()); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}
