package result

import (
	"context"
	"strconv"

	"fest-judging-system/internal/global/database"
	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/module/leaderboard"
	"fest-judging-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"
)

type markCompleteReq struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// MarkComplete 发布/撤回成绩，成功后清除排行榜与统计缓存
func MarkComplete(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	var req markCompleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	event, err := SetEventCompletion(c.Request.Context(), database.DB, eventID, *req.IsCompleted)
	if err != nil {
		response.Fail(c, err)
		return
	}
	purgeCaches(c.Request.Context())
	response.Success(c, gin.H{"event": event})
}

// purgeCaches 失败只记日志，缓存最多一小时后自然过期
func purgeCaches(ctx context.Context) {
	agg := leaderboard.Default()
	if agg == nil {
		return
	}
	if _, err := agg.Purge(ctx, ""); err != nil {
		log.Warn("清除排行榜缓存失败", "error", err)
	}
	if err := agg.PurgeAnalytics(ctx); err != nil {
		log.Warn("清除统计缓存失败", "error", err)
	}
}

func GetResultsData(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	data, err := BuildResultsData(c.Request.Context(), database.DB, eventID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, data)
}

type exportRow struct {
	Rank            int     `excel:"Rank"`
	School          string  `excel:"School"`
	Entry           string  `excel:"Team / Participants"`
	TotalScore      float64 `excel:"Total Score"`
	NormalizedScore float64 `excel:"Normalized Score"`
	Grade           string  `excel:"Grade"`
	GradePoint      int     `excel:"Grade Point"`
	Position        *int    `excel:"Position"`
	RewardPoints    int     `excel:"Reward Points"`
	TotalPoints     int     `excel:"Total Points"`
}

type exportScore struct {
	Rank     int     `excel:"Rank"`
	Entry    string  `excel:"Team / Participants"`
	Judge    string  `excel:"Judge"`
	Score    float64 `excel:"Score"`
	Comments *string `excel:"Comments"`
}

// ExportResultsData 成绩明细导出为 xlsx：Results 汇总表 + Scores 逐评委分数
func ExportResultsData(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}
	data, err := BuildResultsData(c.Request.Context(), database.DB, eventID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	f, err := buildWorkbook(data)
	if err != nil {
		log.Error("生成成绩表失败", "error", err, "event_id", eventID)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	defer f.Close()

	if err := tools.SendExcel(c, f, slug.Make(data.Event.Name)+"-results"); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
	}
}

func buildWorkbook(data *ResultsData) (*excelize.File, error) {
	judgeNames := make(map[uint]string, len(data.Judges))
	for _, j := range data.Judges {
		judgeNames[j.ID] = j.Name
	}

	rows := make([]exportRow, 0, len(data.Rows))
	var scores []exportScore
	for _, r := range data.Rows {
		entry := r.Participants
		if r.TeamName != nil {
			entry = *r.TeamName
		}
		rows = append(rows, exportRow{
			Rank:            r.Rank,
			School:          r.SchoolName,
			Entry:           entry,
			TotalScore:      r.TotalScore,
			NormalizedScore: r.NormalizedScore,
			Grade:           r.Grade,
			GradePoint:      r.GradePoint,
			Position:        r.Position,
			RewardPoints:    r.RewardPoints,
			TotalPoints:     r.TotalPoints,
		})
		for _, s := range r.Scores {
			scores = append(scores, exportScore{
				Rank:     r.Rank,
				Entry:    entry,
				Judge:    judgeNames[s.JudgeID],
				Score:    s.Score,
				Comments: s.Comments,
			})
		}
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Results"); err != nil {
		return nil, err
	}
	if err := tools.ExportToExcel(f, "Results", rows); err != nil {
		return nil, err
	}
	if err := tools.ExportToExcel(f, "Scores", scores); err != nil {
		return nil, err
	}
	return f, nil
}

func eventIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID格式错误"))
		return 0, false
	}
	return uint(id), true
}
