package result

import (
	"context"
	"sort"
	"strings"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/internal/module/leaderboard/grade"
	"fest-judging-system/internal/module/leaderboard/ranking"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type JudgeColumn struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Assigned bool   `json:"assigned"`
	Enabled  bool   `json:"enabled"`
}

type JudgeScore struct {
	JudgeID  uint    `json:"judge_id"`
	Score    float64 `json:"score"`
	Comments *string `json:"comments,omitempty"`
}

type ResultRow struct {
	Rank            int          `json:"rank"`
	RegistrationID  uint         `json:"registration_id"`
	SchoolName      string       `json:"school_name"`
	TeamName        *string      `json:"team_name,omitempty"`
	Participants    string       `json:"participants"`
	Scores          []JudgeScore `json:"scores"`
	TotalScore      float64      `json:"total_score"`
	JudgmentCount   int          `json:"judgment_count"`
	NormalizedScore float64      `json:"normalized_score"`
	Grade           string       `json:"grade"`
	GradePoint      int          `json:"grade_point"`
	Position        *int         `json:"position,omitempty"`
	RewardPoints    int          `json:"reward_points"`
	TotalPoints     int          `json:"total_points"`

	registration model.Registration
}

type ResultsData struct {
	Event            model.Event   `json:"event"`
	Judges           []JudgeColumn `json:"judges"`
	MaxPossibleScore int           `json:"max_possible_score"`
	Rows             []ResultRow   `json:"rows"`
}

// BuildResultsData 活动成绩明细：每位评委的分数、总分、等级、名次奖励
// 只包含至少有一条评分的报名
func BuildResultsData(ctx context.Context, db *gorm.DB, eventID uint) (*ResultsData, error) {
	db = db.WithContext(ctx)

	var event model.Event
	if err := db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound.WithTips("活动不存在")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	var assignments []model.EventJudge
	if err := db.Where("event_id = ?", eventID).Find(&assignments).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	var judgments []model.Judgment
	err := db.Where("registration_id IN (?)",
		db.Model(&model.Registration{}).Select("id").Where("event_id = ?", eventID)).
		Order("judge_id").
		Find(&judgments).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	judges, enabledCount, err := judgeColumns(db, assignments, judgments)
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	maxPossible := enabledCount * 10

	rows := make(map[uint]*ResultRow)
	var registrationIDs []uint
	for _, j := range judgments {
		row, ok := rows[j.RegistrationID]
		if !ok {
			row = &ResultRow{RegistrationID: j.RegistrationID}
			rows[j.RegistrationID] = row
			registrationIDs = append(registrationIDs, j.RegistrationID)
		}
		row.Scores = append(row.Scores, JudgeScore{JudgeID: j.JudgeID, Score: j.Score, Comments: j.Comments})
		row.TotalScore += j.Score
		row.JudgmentCount++
	}

	data := &ResultsData{Event: event, Judges: judges, MaxPossibleScore: maxPossible, Rows: []ResultRow{}}
	if len(registrationIDs) == 0 {
		return data, nil
	}

	var registrations []model.Registration
	err = db.Preload("School").
		Preload("Participants.Student").
		Preload("Participants.Faculty").
		Where("id IN ?", registrationIDs).
		Find(&registrations).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	var rewards []model.PositionReward
	if err := db.Where("event_id = ?", eventID).Find(&rewards).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	rewardByRegistration := make(map[uint]model.PositionReward, len(rewards))
	for _, r := range rewards {
		rewardByRegistration[r.RegistrationID] = r
	}

	for _, r := range registrations {
		row := rows[r.ID]
		row.registration = r
		row.SchoolName = r.School.Name
		row.TeamName = r.TeamName
		names := make([]string, 0, len(r.Participants))
		for _, p := range r.Participants {
			names = append(names, p.DisplayName())
		}
		row.Participants = strings.Join(names, ", ")

		row.TotalScore = grade.Round1(row.TotalScore)
		g := grade.Calculate(row.TotalScore, maxPossible)
		row.NormalizedScore = g.NormalizedScore
		row.Grade = g.Grade
		row.GradePoint = g.GradePoint
		row.TotalPoints = g.GradePoint
		if reward, ok := rewardByRegistration[r.ID]; ok {
			row.Position = &reward.Position
			row.RewardPoints = reward.RewardPoints
			row.TotalPoints += reward.RewardPoints
		}
		data.Rows = append(data.Rows, *row)
	}

	ranking.Sort(data.Rows, func(r ResultRow) ranking.Key {
		return ranking.Key{Score: r.TotalScore, CreatedAt: r.registration.CreatedAt, ID: r.RegistrationID}
	})
	for i := range data.Rows {
		data.Rows[i].Rank = i + 1
	}
	return data, nil
}

// judgeColumns 已分配的评委加上打过分但已被移除分配的评委
func judgeColumns(db *gorm.DB, assignments []model.EventJudge, judgments []model.Judgment) ([]JudgeColumn, int, error) {
	assigned := make(map[uint]model.EventJudge, len(assignments))
	ids := make([]uint, 0, len(assignments))
	enabled := 0
	for _, a := range assignments {
		assigned[a.JudgeID] = a
		ids = append(ids, a.JudgeID)
		if a.Enabled {
			enabled++
		}
	}
	for _, j := range judgments {
		if _, ok := assigned[j.JudgeID]; !ok {
			assigned[j.JudgeID] = model.EventJudge{}
			ids = append(ids, j.JudgeID)
		}
	}
	if len(ids) == 0 {
		return []JudgeColumn{}, enabled, nil
	}

	var judges []model.Judge
	if err := db.Where("id IN ?", ids).Find(&judges).Error; err != nil {
		return nil, 0, err
	}
	sort.Slice(judges, func(i, k int) bool { return judges[i].ID < judges[k].ID })

	columns := make([]JudgeColumn, 0, len(judges))
	for _, j := range judges {
		a := assigned[j.ID]
		columns = append(columns, JudgeColumn{ID: j.ID, Name: j.Name, Assigned: a.ID != 0, Enabled: a.Enabled})
	}
	return columns, enabled, nil
}
