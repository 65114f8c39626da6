package judgment

import (
	"context"
	"math"

	"fest-judging-system/internal/global/metrics"
	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/internal/module/leaderboard/grade"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmitReq struct {
	JudgeID        uint     `json:"judge_id" binding:"required"`
	RegistrationID uint     `json:"registration_id" binding:"required"`
	Score          *float64 `json:"score" binding:"required"`
	Comments       *string  `json:"comments"`
}

// Submit 写入或更新评委对某条报名的打分
// 校验全部在写入之前完成；(judge_id, registration_id) 唯一索引保证并发提交也只有一行
func Submit(ctx context.Context, db *gorm.DB, req SubmitReq) (*model.Judgment, error) {
	if req.Score == nil || math.IsNaN(*req.Score) || *req.Score < model.MinScore || *req.Score > model.MaxScore {
		return nil, response.ErrInvalidRequest.WithTips("分数必须在 0 到 10 之间")
	}
	db = db.WithContext(ctx)

	var judge model.Judge
	if err := db.First(&judge, req.JudgeID).Error; err != nil {
		return nil, notFoundOr(err, "评委不存在")
	}
	var registration model.Registration
	if err := db.Preload("Event").First(&registration, req.RegistrationID).Error; err != nil {
		return nil, notFoundOr(err, "报名不存在")
	}

	// 只要有分配就能打分，不看是否启用
	assigned, err := IsAssigned(ctx, db, judge.ID, registration.EventID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		log.Warn("评委未分配到该活动", "judge_id", judge.ID, "event_id", registration.EventID)
		return nil, response.ErrForbidden.WithTips(judge.Name + " 未被分配到该活动")
	}

	judgment := model.Judgment{
		JudgeID:        judge.ID,
		RegistrationID: registration.ID,
		Score:          grade.Round1(*req.Score),
		Comments:       req.Comments,
	}
	err = db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "judge_id"}, {Name: "registration_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "comments", "updated_at"}),
	}).Create(&judgment).Error
	if err != nil {
		log.Error("保存评分失败", "error", err, "judge_id", judge.ID, "registration_id", registration.ID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	// 更新分支下返回的自增 ID 不可靠，重新读一次
	var saved model.Judgment
	if err := db.Where("judge_id = ? AND registration_id = ?", judge.ID, registration.ID).First(&saved).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	metrics.JudgmentsSubmitted.Inc()
	log.Info("评分已保存", "judge_id", judge.ID, "registration_id", registration.ID, "score", saved.Score)
	if registration.Event.IsCompleted {
		// 已发布的名次奖励不会自动更新
		log.Warn("活动成绩已发布，需重新发布才能更新名次奖励",
			"event_id", registration.EventID, "registration_id", registration.ID, "judge_id", judge.ID)
	}
	return &saved, nil
}

func IsAssigned(ctx context.Context, db *gorm.DB, judgeID, eventID uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.EventJudge{}).
		Where("judge_id = ? AND event_id = ?", judgeID, eventID).
		Count(&count).Error
	if err != nil {
		return false, response.ErrDatabase.WithOrigin(err)
	}
	return count > 0, nil
}

func notFoundOr(err error, tips string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.ErrNotFound.WithTips(tips)
	}
	return response.ErrDatabase.WithOrigin(err)
}
