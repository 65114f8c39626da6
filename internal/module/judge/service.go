package judge

import (
	"context"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Assign 把评委分配到活动；已分配时只更新启用状态
func Assign(ctx context.Context, db *gorm.DB, eventID, judgeID uint, enabled bool) (*model.EventJudge, error) {
	var assignment model.EventJudge
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Event{}, eventID, "活动不存在"); err != nil {
			return err
		}
		if err := mustExist(tx, &model.Judge{}, judgeID, "评委不存在"); err != nil {
			return err
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "judge_id"}},
			DoNothing: true,
		}).Create(&model.EventJudge{EventID: eventID, JudgeID: judgeID}).Error
		if err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if enabled {
			if err := enable(tx, eventID, judgeID); err != nil {
				return err
			}
		}
		if err := tx.Where("event_id = ? AND judge_id = ?", eventID, judgeID).First(&assignment).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("评委分配成功", "event_id", eventID, "judge_id", judgeID, "enabled", assignment.Enabled)
	return &assignment, nil
}

// Enable 启用评委在某个活动上的分配，同一事务内停用该评委其他所有分配
func Enable(ctx context.Context, db *gorm.DB, eventID, judgeID uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return enable(tx, eventID, judgeID)
	})
}

func enable(tx *gorm.DB, eventID, judgeID uint) error {
	// 锁住该评委的全部分配，避免并发启用两个活动
	var assignments []model.EventJudge
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("judge_id = ?", judgeID).
		Find(&assignments).Error
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	found := false
	for _, a := range assignments {
		if a.EventID == eventID {
			found = true
		}
	}
	if !found {
		return response.ErrNotFound.WithTips("评委未分配到该活动")
	}

	err = tx.Model(&model.EventJudge{}).
		Where("judge_id = ? AND event_id <> ? AND enabled = ?", judgeID, eventID, true).
		Update("enabled", false).Error
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	err = tx.Model(&model.EventJudge{}).
		Where("judge_id = ? AND event_id = ?", judgeID, eventID).
		Update("enabled", true).Error
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}

// Unassign 取消分配，已提交的评分保留
func Unassign(ctx context.Context, db *gorm.DB, eventID, judgeID uint) error {
	result := db.WithContext(ctx).Where("event_id = ? AND judge_id = ?", eventID, judgeID).Delete(&model.EventJudge{})
	if result.Error != nil {
		return response.ErrDatabase.WithOrigin(result.Error)
	}
	if result.RowsAffected == 0 {
		return response.ErrNotFound.WithTips("评委未分配到该活动")
	}
	log.Info("评委已取消分配", "event_id", eventID, "judge_id", judgeID)
	return nil
}

func mustExist(tx *gorm.DB, dest any, id uint, tips string) error {
	err := tx.Select("id").First(dest, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.ErrNotFound.WithTips(tips)
	case err != nil:
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}
