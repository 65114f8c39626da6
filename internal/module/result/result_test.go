package result

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/internal/module/leaderboard"
	"fest-judging-system/test"
	"fest-judging-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	event  *model.Event
	judges []*model.Judge
	regs   []*model.Registration // 总分依次为 30, 20, 20, 5, 0
}

func setup(t *testing.T) fixture {
	db := test.NewDB(t)
	school := test.CreateSchool(t, db, "Greenwood")
	event := test.CreateEvent(t, db, model.Event{Name: "Solo Dance"})

	var judges []*model.Judge
	for _, name := range []string{"Meera", "Ravi", "Sana"} {
		j := test.CreateJudge(t, db, name)
		test.AssignJudge(t, db, event.ID, j.ID, true)
		judges = append(judges, j)
	}

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	scores := [][]float64{{10, 10, 10}, {10, 10, 0}, {5, 5, 10}, {5, 0, 0}, {0}}
	var regs []*model.Registration
	for i, row := range scores {
		student := test.CreateStudent(t, db, school.ID, []string{"Aditya", "Bina", "Chirag", "Divya", "Esha"}[i], model.AgeCategoryJunior)
		reg := test.CreateRegistration(t, db, event.ID, school.ID, nil, base.Add(time.Duration(i)*time.Minute), student)
		for k, score := range row {
			test.CreateJudgment(t, db, judges[k].ID, reg.ID, score)
		}
		regs = append(regs, reg)
	}
	return fixture{db: db, event: event, judges: judges, regs: regs}
}

func rewardsOf(t *testing.T, db *gorm.DB, eventID uint) map[uint]model.PositionReward {
	var rewards []model.PositionReward
	require.NoError(t, db.Where("event_id = ?", eventID).Find(&rewards).Error)
	m := make(map[uint]model.PositionReward, len(rewards))
	for _, r := range rewards {
		m[r.RegistrationID] = r
	}
	return m
}

func TestRankRegistrations(t *testing.T) {
	f := setup(t)

	ranked, err := RankRegistrations(context.Background(), f.db, f.event.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 4)
	want := []uint{f.regs[0].ID, f.regs[1].ID, f.regs[2].ID, f.regs[3].ID}
	for i, r := range ranked {
		assert.Equal(t, want[i], r.RegistrationID)
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, 30.0, ranked[0].TotalScore)
	assert.EqualValues(t, 3, ranked[0].JudgmentCount)
}

func TestSetEventCompletion_PublishCycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	event, err := SetEventCompletion(ctx, f.db, f.event.ID, true)
	require.NoError(t, err)
	assert.True(t, event.IsCompleted)

	rewards := rewardsOf(t, f.db, f.event.ID)
	require.Len(t, rewards, 3)
	assert.Equal(t, 1, rewards[f.regs[0].ID].Position)
	assert.Equal(t, 10, rewards[f.regs[0].ID].RewardPoints)
	// 同为 20 分，先报名的拿第二
	assert.Equal(t, 2, rewards[f.regs[1].ID].Position)
	assert.Equal(t, 5, rewards[f.regs[1].ID].RewardPoints)
	assert.Equal(t, 3, rewards[f.regs[2].ID].Position)
	assert.Equal(t, 3, rewards[f.regs[2].ID].RewardPoints)
	assert.NotContains(t, rewards, f.regs[3].ID)

	// 已发布时再次发布不做任何修改
	_, err = SetEventCompletion(ctx, f.db, f.event.ID, true)
	require.NoError(t, err)
	again := rewardsOf(t, f.db, f.event.ID)
	assert.Equal(t, rewards[f.regs[0].ID].ID, again[f.regs[0].ID].ID)

	event, err = SetEventCompletion(ctx, f.db, f.event.ID, false)
	require.NoError(t, err)
	assert.False(t, event.IsCompleted)
	assert.Empty(t, rewardsOf(t, f.db, f.event.ID))

	var stored model.Event
	require.NoError(t, f.db.First(&stored, f.event.ID).Error)
	assert.False(t, stored.IsCompleted)

	// 改分后重新发布，奖励完全重算
	require.NoError(t, f.db.Model(&model.Judgment{}).
		Where("registration_id = ?", f.regs[3].ID).
		Update("score", 10).Error)
	_, err = SetEventCompletion(ctx, f.db, f.event.ID, true)
	require.NoError(t, err)
	rewards = rewardsOf(t, f.db, f.event.ID)
	require.Len(t, rewards, 3)
	assert.Equal(t, 1, rewards[f.regs[0].ID].Position)
	assert.Equal(t, 2, rewards[f.regs[3].ID].Position)
	assert.Equal(t, 3, rewards[f.regs[1].ID].Position)
	assert.NotContains(t, rewards, f.regs[2].ID)
}

func TestSetEventCompletion_NotFound(t *testing.T) {
	f := setup(t)
	_, err := SetEventCompletion(context.Background(), f.db, 999, true)
	test.ErrorIs(t, err, response.ErrNotFound)
}

func TestBuildResultsData(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := SetEventCompletion(ctx, f.db, f.event.ID, true)
	require.NoError(t, err)

	data, err := BuildResultsData(ctx, f.db, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, data.MaxPossibleScore)
	require.Len(t, data.Judges, 3)
	// 有评分（包括 0 分）的报名都会出现
	require.Len(t, data.Rows, 5)

	top := data.Rows[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, "Aditya", top.Participants)
	assert.Len(t, top.Scores, 3)
	assert.Equal(t, "A+", top.Grade)
	assert.Equal(t, 20, top.TotalPoints)

	third := data.Rows[2]
	assert.Equal(t, f.regs[2].ID, third.RegistrationID)
	assert.Equal(t, 66.7, third.NormalizedScore)
	assert.Equal(t, "B", third.Grade)
	require.NotNil(t, third.Position)
	assert.Equal(t, 3, *third.Position)

	last := data.Rows[4]
	assert.Equal(t, "F", last.Grade)
	assert.Nil(t, last.Position)
}

func TestMarkComplete_PurgesCaches(t *testing.T) {
	f := setup(t)
	client, mr := test.NewRedis(t)
	leaderboard.Use(leaderboard.NewAggregator(f.db, leaderboard.NewRedisCache(client), time.Hour, 10))
	t.Cleanup(func() { leaderboard.Use(nil) })
	require.NoError(t, mr.Set("leaderboard:events:presentation:10", "{}"))
	require.NoError(t, mr.Set("admin:analytics:summary", "{}"))

	resp := test.DoRequest(t, MarkComplete, gin.H{"is_completed": true}, test.WithParam("id", "1"))
	test.NoError(t, resp)
	assert.False(t, mr.Exists("leaderboard:events:presentation:10"))
	assert.False(t, mr.Exists("admin:analytics:summary"))

	resp = test.DoRequest(t, MarkComplete, gin.H{}, test.WithParam("id", "1"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, MarkComplete, gin.H{"is_completed": true}, test.WithParam("id", "abc"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}

func TestExportResultsData(t *testing.T) {
	setup(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	ExportResultsData(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tools.ExcelContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "solo-dance-results.xlsx")

	book, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	rows, err := book.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, "Aditya", rows[1][2])

	scores, err := book.GetRows("Scores")
	require.NoError(t, err)
	assert.Len(t, scores, 1+3+3+3+3+1)
}
