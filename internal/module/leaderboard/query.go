package leaderboard

import (
	"context"
	"strings"

	"fest-judging-system/internal/model"

	"gorm.io/gorm"
)

// registrationTotal 每条报名的评分汇总，只包含总分大于 0 的报名
type registrationTotal struct {
	RegistrationID uint
	EventID        uint
	SchoolID       uint
	TotalScore     float64
	JudgmentCount  int64
}

type eventJudgeCount struct {
	EventID uint
	Count   int64
}

// scoredRegistration 汇总分与报名本身的信息合并后的结果
type scoredRegistration struct {
	registrationTotal
	Registration model.Registration
	Reward       *model.PositionReward
}

func (s scoredRegistration) displayName(eventType model.EventType) (teamName *string, participants string) {
	if eventType == model.EventTypeGroup || (eventType == model.EventTypeCombined && s.Registration.TeamName != nil) {
		return s.Registration.TeamName, ""
	}
	names := make([]string, 0, len(s.Registration.Participants))
	for _, p := range s.Registration.Participants {
		names = append(names, p.DisplayName())
	}
	return nil, strings.Join(names, ", ")
}

func (s scoredRegistration) rewardPoints() int {
	if s.Reward == nil {
		return 0
	}
	return s.Reward.RewardPoints
}

type totalsFilter struct {
	EventIDs []uint
	SchoolID uint
}

// liveEventJoin 排除已软删除活动下的报名
const liveEventJoin = "JOIN event ON event.id = registration.event_id AND event.deleted_at IS NULL"

func loadTotals(ctx context.Context, db *gorm.DB, f totalsFilter) ([]registrationTotal, error) {
	query := db.WithContext(ctx).Model(&model.Judgment{}).
		Select("registration.id AS registration_id, registration.event_id, registration.school_id, " +
			"SUM(judgment.score) AS total_score, COUNT(judgment.id) AS judgment_count").
		Joins("JOIN registration ON registration.id = judgment.registration_id").
		Joins(liveEventJoin)
	if f.EventIDs != nil {
		query = query.Where("registration.event_id IN ?", f.EventIDs)
	}
	if f.SchoolID != 0 {
		query = query.Where("registration.school_id = ?", f.SchoolID)
	}
	var rows []registrationTotal
	err := query.
		Group("registration.id, registration.event_id, registration.school_id").
		Having("SUM(judgment.score) > 0").
		Scan(&rows).Error
	return rows, err
}

// loadScored 补齐报名、学校、参赛者与名次奖励
func loadScored(ctx context.Context, db *gorm.DB, totals []registrationTotal) ([]scoredRegistration, error) {
	if len(totals) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.RegistrationID)
	}

	var registrations []model.Registration
	err := db.WithContext(ctx).
		Preload("School").
		Preload("Event").
		Preload("Participants.Student").
		Preload("Participants.Faculty").
		Where("id IN ?", ids).
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Registration, len(registrations))
	for _, r := range registrations {
		byID[r.ID] = r
	}

	var rewards []model.PositionReward
	if err := db.WithContext(ctx).Where("registration_id IN ?", ids).Find(&rewards).Error; err != nil {
		return nil, err
	}
	rewardByRegistration := make(map[uint]*model.PositionReward, len(rewards))
	for i := range rewards {
		rewardByRegistration[rewards[i].RegistrationID] = &rewards[i]
	}

	result := make([]scoredRegistration, 0, len(totals))
	for _, t := range totals {
		r, ok := byID[t.RegistrationID]
		if !ok {
			continue
		}
		result = append(result, scoredRegistration{
			registrationTotal: t,
			Registration:      r,
			Reward:            rewardByRegistration[t.RegistrationID],
		})
	}
	return result, nil
}

func loadEnabledJudgeCounts(ctx context.Context, db *gorm.DB, eventIDs []uint) (map[uint]int, error) {
	var rows []eventJudgeCount
	err := db.WithContext(ctx).Model(&model.EventJudge{}).
		Select("event_id, COUNT(*) AS count").
		Where("enabled = ? AND event_id IN ?", true, eventIDs).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.EventID] = int(r.Count)
	}
	return counts, nil
}
