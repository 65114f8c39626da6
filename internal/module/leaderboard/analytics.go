package leaderboard

import (
	"context"
	"time"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TypeCount struct {
	EventType model.EventType `json:"event_type"`
	Count     int64           `json:"count"`
}

type SchoolStanding struct {
	SchoolID      uint   `json:"school_id"`
	SchoolName    string `json:"school_name"`
	Registrations int64  `json:"registrations"`
	RewardPoints  int64  `json:"reward_points"`
	FirstPlace    int64  `json:"first_place"`
	SecondPlace   int64  `json:"second_place"`
	ThirdPlace    int64  `json:"third_place"`
}

type AnalyticsSummary struct {
	Schools         int64            `json:"schools"`
	Events          int64            `json:"events"`
	CompletedEvents int64            `json:"completed_events"`
	CompletionRate  float64          `json:"completion_rate"`
	Registrations   int64            `json:"registrations"`
	Judges          int64            `json:"judges"`
	Judgments       int64            `json:"judgments"`
	EventsByType    []TypeCount      `json:"events_by_type"`
	SchoolStandings []SchoolStanding `json:"school_standings"`
}

type AnalyticsResult struct {
	Summary        AnalyticsSummary `json:"summary"`
	Cached         bool             `json:"cached"`
	DataCapturedAt time.Time        `json:"data_captured_at"`
}

func (a *Aggregator) Analytics(ctx context.Context) (*AnalyticsResult, error) {
	summary, capturedAt, hit, err := cached(ctx, a, analyticsKey, a.computeAnalytics)
	if err != nil {
		return nil, err
	}
	return &AnalyticsResult{Summary: summary, Cached: hit, DataCapturedAt: capturedAt}, nil
}

func (a *Aggregator) PurgeAnalytics(ctx context.Context) error {
	if err := a.cache.Delete(ctx, analyticsKey); err != nil {
		return response.ErrServerInternal.WithOrigin(err)
	}
	log.Info("统计缓存已清除")
	return nil
}

func (a *Aggregator) computeAnalytics(ctx context.Context) (AnalyticsSummary, error) {
	var s AnalyticsSummary
	db := a.db.WithContext(ctx)

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&model.School{}), &s.Schools},
		{db.Model(&model.Event{}), &s.Events},
		{db.Model(&model.Event{}).Where("is_completed = ?", true), &s.CompletedEvents},
		{db.Model(&model.Registration{}).Joins(liveEventJoin), &s.Registrations},
		{db.Model(&model.Judge{}), &s.Judges},
		{db.Model(&model.Judgment{}).
			Joins("JOIN registration ON registration.id = judgment.registration_id").
			Joins(liveEventJoin), &s.Judgments},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return s, response.ErrDatabase.WithOrigin(err)
		}
	}
	if s.Events > 0 {
		s.CompletionRate = float64(s.CompletedEvents) / float64(s.Events)
	}

	err := db.Model(&model.Event{}).
		Select("event_type, COUNT(*) AS count").
		Group("event_type").
		Order("event_type").
		Scan(&s.EventsByType).Error
	if err != nil {
		return s, response.ErrDatabase.WithOrigin(err)
	}

	standings, err := schoolStandings(db)
	if err != nil {
		return s, response.ErrDatabase.WithOrigin(err)
	}
	s.SchoolStandings = standings
	return s, nil
}

// schoolStandings 学校按名次奖励总分排序，同分比较第一名个数
func schoolStandings(db *gorm.DB) ([]SchoolStanding, error) {
	var standings []SchoolStanding
	err := db.Model(&model.School{}).
		Select("school.id AS school_id, school.name AS school_name, " +
			"(SELECT COUNT(*) FROM registration " + liveEventJoin + " WHERE registration.school_id = school.id) AS registrations, " +
			"COALESCE(SUM(position_reward.reward_points), 0) AS reward_points, " +
			"COALESCE(SUM(CASE WHEN position_reward.position = 1 THEN 1 ELSE 0 END), 0) AS first_place, " +
			"COALESCE(SUM(CASE WHEN position_reward.position = 2 THEN 1 ELSE 0 END), 0) AS second_place, " +
			"COALESCE(SUM(CASE WHEN position_reward.position = 3 THEN 1 ELSE 0 END), 0) AS third_place").
		Joins("LEFT JOIN registration ON registration.school_id = school.id AND " +
			"registration.event_id IN (SELECT id FROM event WHERE event.deleted_at IS NULL)").
		Joins("LEFT JOIN position_reward ON position_reward.registration_id = registration.id").
		Group("school.id, school.name").
		Order("reward_points DESC, first_place DESC, school.id").
		Scan(&standings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if standings == nil {
		standings = []SchoolStanding{}
	}
	return standings, nil
}
