package result

import (
	"context"
	"time"

	"fest-judging-system/internal/global/metrics"
	"fest-judging-system/internal/global/otel"
	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/internal/module/leaderboard/ranking"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RankedRegistration struct {
	Rank           int
	RegistrationID uint
	TotalScore     float64
	JudgmentCount  int64
	CreatedAt      time.Time
}

type registrationTotal struct {
	RegistrationID uint
	TotalScore     float64
	JudgmentCount  int64
}

// RankRegistrations 活动内总分大于 0 的报名按总分排名，同分先报名者在前
func RankRegistrations(ctx context.Context, db *gorm.DB, eventID uint) ([]RankedRegistration, error) {
	db = db.WithContext(ctx)

	var totals []registrationTotal
	err := db.Model(&model.Judgment{}).
		Select("judgment.registration_id, SUM(judgment.score) AS total_score, COUNT(judgment.id) AS judgment_count").
		Joins("JOIN registration ON registration.id = judgment.registration_id").
		Where("registration.event_id = ?", eventID).
		Group("judgment.registration_id").
		Having("SUM(judgment.score) > 0").
		Scan(&totals).Error
	if err != nil || len(totals) == 0 {
		return nil, err
	}

	ids := make([]uint, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.RegistrationID)
	}
	var registrations []model.Registration
	if err := db.Select("id", "created_at").Where("id IN ?", ids).Find(&registrations).Error; err != nil {
		return nil, err
	}
	createdAt := make(map[uint]time.Time, len(registrations))
	for _, r := range registrations {
		createdAt[r.ID] = r.CreatedAt
	}

	ranked := make([]RankedRegistration, 0, len(totals))
	for _, t := range totals {
		ranked = append(ranked, RankedRegistration{
			RegistrationID: t.RegistrationID,
			TotalScore:     t.TotalScore,
			JudgmentCount:  t.JudgmentCount,
			CreatedAt:      createdAt[t.RegistrationID],
		})
	}
	ranking.Sort(ranked, func(r RankedRegistration) ranking.Key {
		return ranking.Key{Score: r.TotalScore, CreatedAt: r.CreatedAt, ID: r.RegistrationID}
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// SetEventCompletion 发布或撤回活动成绩
//
// 整个过程在一个事务里完成：先锁住活动行，同一活动的并发发布会排队；
// 状态未变化时不做任何修改；发布时重算前三名奖励，撤回时删除奖励；
// is_completed 最后写入。
func SetEventCompletion(ctx context.Context, db *gorm.DB, eventID uint, isCompleted bool) (*model.Event, error) {
	ctx, span := otel.Tracer("result").Start(ctx, "result.SetEventCompletion")
	defer span.End()
	span.SetAttributes(attribute.Int("event.id", int(eventID)), attribute.Bool("event.is_completed", isCompleted))

	var event model.Event
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, eventID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound.WithTips("活动不存在")
		}
		if err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if event.IsCompleted == isCompleted {
			return nil
		}

		if err := tx.Where("event_id = ?", eventID).Delete(&model.PositionReward{}).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		action := "unpublish"
		if isCompleted {
			action = "publish"
			if err := insertRewards(ctx, tx, eventID); err != nil {
				return err
			}
		}

		if err := tx.Model(&event).Update("is_completed", isCompleted).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		event.IsCompleted = isCompleted
		metrics.ResultPublications.WithLabelValues(action).Inc()
		log.Info("活动成绩状态已更新", "event_id", eventID, "action", action)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &event, nil
}

func insertRewards(ctx context.Context, tx *gorm.DB, eventID uint) error {
	ranked, err := RankRegistrations(ctx, tx, eventID)
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	var rewards []model.PositionReward
	for _, r := range ranked {
		points, ok := model.PositionRewardPoints[r.Rank]
		if !ok {
			break
		}
		rewards = append(rewards, model.PositionReward{
			RegistrationID: r.RegistrationID,
			EventID:        eventID,
			Position:       r.Rank,
			RewardPoints:   points,
		})
	}
	if len(rewards) == 0 {
		return nil
	}
	if err := tx.Omit(clause.Associations).Create(&rewards).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}
