package leaderboard

import (
	"context"
	"testing"
	"time"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/test"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type seeded struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	agg      *Aggregator
	solo     *model.Event
	group    *model.Event
	schoolA  *model.School
	schoolB  *model.School
	aditya   *model.Registration
	bina     *model.Registration
	choir    *model.Registration
	unjudged *model.Registration
}

func seed(t *testing.T) seeded {
	db := test.NewDB(t)
	client, mr := test.NewRedis(t)

	schoolA := test.CreateSchool(t, db, "Greenwood")
	schoolB := test.CreateSchool(t, db, "Riverside")
	s1 := test.CreateStudent(t, db, schoolA.ID, "Aditya", model.AgeCategoryJunior)
	s2 := test.CreateStudent(t, db, schoolB.ID, "Bina", model.AgeCategoryJunior)
	s3 := test.CreateStudent(t, db, schoolA.ID, "Chirag", model.AgeCategoryJunior)
	s4 := test.CreateStudent(t, db, schoolA.ID, "Divya", model.AgeCategoryJunior)
	s5 := test.CreateStudent(t, db, schoolA.ID, "Esha", model.AgeCategoryJunior)

	solo := test.CreateEvent(t, db, model.Event{Name: "Solo Dance", IsCompleted: true})
	group := test.CreateEvent(t, db, model.Event{Name: "Group Song", EventType: model.EventTypeGroup, MaxTeamSize: test.Ptr(4)})

	j1 := test.CreateJudge(t, db, "J1")
	j2 := test.CreateJudge(t, db, "J2")
	j3 := test.CreateJudge(t, db, "J3")
	j4 := test.CreateJudge(t, db, "J4")
	test.AssignJudge(t, db, solo.ID, j1.ID, true)
	test.AssignJudge(t, db, solo.ID, j2.ID, true)
	test.AssignJudge(t, db, solo.ID, j3.ID, true)
	test.AssignJudge(t, db, solo.ID, j4.ID, false)
	test.AssignJudge(t, db, group.ID, j1.ID, false)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	aditya := test.CreateRegistration(t, db, solo.ID, schoolA.ID, nil, base, s1)
	bina := test.CreateRegistration(t, db, solo.ID, schoolB.ID, nil, base.Add(time.Minute), s2)
	unjudged := test.CreateRegistration(t, db, solo.ID, schoolA.ID, nil, base.Add(2*time.Minute), s3)
	choir := test.CreateRegistration(t, db, group.ID, schoolA.ID, test.Ptr("Nightingales"), base, s4, s5)

	for _, j := range []*model.Judge{j1, j2, j3} {
		test.CreateJudgment(t, db, j.ID, aditya.ID, 9)
		test.CreateJudgment(t, db, j.ID, bina.ID, 5)
	}
	test.CreateJudgment(t, db, j1.ID, unjudged.ID, 0)
	test.CreateJudgment(t, db, j1.ID, choir.ID, 8)
	require.NoError(t, db.Create(&model.PositionReward{RegistrationID: aditya.ID, EventID: solo.ID, Position: 1, RewardPoints: 10}).Error)

	agg := NewAggregator(db, NewRedisCache(client), time.Hour, 10)
	return seeded{
		db: db, mr: mr, agg: agg,
		solo: solo, group: group, schoolA: schoolA, schoolB: schoolB,
		aditya: aditya, bina: bina, choir: choir, unjudged: unjudged,
	}
}

func TestEventLeaderboards_CacheLifecycle(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	first, err := s.agg.EventLeaderboards(ctx, ContextAdmin, 5)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, time.Hour, s.mr.TTL("leaderboard:events:admin:5"))

	second, err := s.agg.EventLeaderboards(ctx, ContextAdmin, 5)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.True(t, first.DataCapturedAt.Equal(second.DataCapturedAt))
	assert.Equal(t, first.Events, second.Events)

	// 另一个 context 的清除不影响 admin
	_, err = s.agg.EventLeaderboards(ctx, ContextPresentation, 5)
	require.NoError(t, err)
	purged, err := s.agg.Purge(ctx, ContextPresentation)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
	third, err := s.agg.EventLeaderboards(ctx, ContextAdmin, 5)
	require.NoError(t, err)
	assert.True(t, third.Cached)

	_, err = s.agg.Purge(ctx, ContextAdmin)
	require.NoError(t, err)
	fourth, err := s.agg.EventLeaderboards(ctx, ContextAdmin, 5)
	require.NoError(t, err)
	assert.False(t, fourth.Cached)
}

func TestEventLeaderboards_Presentation(t *testing.T) {
	s := seed(t)

	result, err := s.agg.EventLeaderboards(context.Background(), ContextPresentation, 10)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)

	lb := result.Events[0]
	assert.Equal(t, s.solo.ID, lb.Event.ID)
	assert.Equal(t, 3, lb.Event.EnabledJudges)
	assert.Equal(t, 30, lb.Event.MaxPossibleScore)
	assert.Equal(t, 2, lb.TotalResults)
	require.Len(t, lb.Leaderboard, 2)

	top := lb.Leaderboard[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, s.aditya.ID, top.RegistrationID)
	assert.Equal(t, "Aditya", top.ParticipantNames)
	assert.Nil(t, top.TeamName)
	assert.Equal(t, 27.0, top.TotalScore)
	assert.Equal(t, 90.0, top.NormalizedScore)
	assert.Equal(t, "A+", top.Grade)
	assert.Equal(t, 10, top.RewardPoints)
	assert.Equal(t, 20, top.TotalPoints)
	require.NotNil(t, top.Position)
	assert.Equal(t, 1, *top.Position)

	second := lb.Leaderboard[1]
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, "C+", second.Grade)
	assert.Equal(t, 6, second.TotalPoints)
	assert.Nil(t, second.Position)
}

func TestEventLeaderboards_AdminLimitAndTeams(t *testing.T) {
	s := seed(t)

	result, err := s.agg.EventLeaderboards(context.Background(), ContextAdmin, 1)
	require.NoError(t, err)
	require.Len(t, result.Events, 2)

	solo := result.Events[0]
	assert.Len(t, solo.Leaderboard, 1)
	assert.Equal(t, 2, solo.TotalResults)

	group := result.Events[1]
	require.Len(t, group.Leaderboard, 1)
	entry := group.Leaderboard[0]
	require.NotNil(t, entry.TeamName)
	assert.Equal(t, "Nightingales", *entry.TeamName)
	assert.Empty(t, entry.ParticipantNames)
	// 没有启用的评委，满分为 0
	assert.Equal(t, 0, group.Event.MaxPossibleScore)
	assert.Equal(t, "F", entry.Grade)
}

func TestEventLeaderboards_InvalidInput(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	_, err := s.agg.EventLeaderboards(ctx, "public", 5)
	test.ErrorIs(t, err, response.ErrInvalidRequest)
	_, err = s.agg.EventLeaderboards(ctx, ContextAdmin, -1)
	test.ErrorIs(t, err, response.ErrInvalidRequest)
	_, err = s.agg.Purge(ctx, "public")
	test.ErrorIs(t, err, response.ErrInvalidRequest)
}

func TestGeneric(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	schools, err := s.agg.Generic(ctx, GenericQuery{Type: TypeSchool})
	require.NoError(t, err)
	require.Len(t, schools.Leaderboard, 2)
	assert.Equal(t, s.schoolA.ID, schools.Leaderboard[0].ID)
	assert.Equal(t, 35.0, schools.Leaderboard[0].TotalScore)
	assert.Equal(t, 87.5, schools.Leaderboard[0].NormalizedScore)
	assert.Equal(t, "A+", schools.Leaderboard[0].Grade)
	assert.Equal(t, 10, schools.Leaderboard[0].RewardPoints)
	assert.Equal(t, s.schoolB.ID, schools.Leaderboard[1].ID)
	assert.Equal(t, "B+", schools.Leaderboard[1].Grade)

	overall, err := s.agg.Generic(ctx, GenericQuery{Type: TypeOverall})
	require.NoError(t, err)
	ids := make([]uint, 0, len(overall.Leaderboard))
	for _, e := range overall.Leaderboard {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []uint{s.aditya.ID, s.choir.ID, s.bina.ID}, ids)
	assert.Equal(t, "Nightingales", overall.Leaderboard[1].Name)
	assert.Equal(t, 3, overall.Leaderboard[2].Rank)

	event, err := s.agg.Generic(ctx, GenericQuery{Type: TypeEvent, EventID: s.solo.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, event.Leaderboard, 1)
	assert.Equal(t, s.aditya.ID, event.Leaderboard[0].ID)

	again, err := s.agg.Generic(ctx, GenericQuery{Type: TypeEvent, EventID: s.solo.ID, Limit: 1})
	require.NoError(t, err)
	assert.True(t, again.Cached)

	_, err = s.agg.Generic(ctx, GenericQuery{Type: TypeEvent})
	test.ErrorIs(t, err, response.ErrInvalidRequest)
	_, err = s.agg.Generic(ctx, GenericQuery{Type: "class"})
	test.ErrorIs(t, err, response.ErrInvalidRequest)
}

func TestPurgeAll(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	_, err := s.agg.EventLeaderboards(ctx, ContextAdmin, 0)
	require.NoError(t, err)
	_, err = s.agg.Generic(ctx, GenericQuery{})
	require.NoError(t, err)
	_, err = s.agg.Analytics(ctx)
	require.NoError(t, err)

	purged, err := s.agg.Purge(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, purged)
	// 统计缓存不在排行榜前缀下
	assert.True(t, s.mr.Exists(analyticsKey))
}

func TestAnalytics(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	first, err := s.agg.Analytics(ctx)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	sum := first.Summary
	assert.EqualValues(t, 2, sum.Schools)
	assert.EqualValues(t, 2, sum.Events)
	assert.EqualValues(t, 1, sum.CompletedEvents)
	assert.Equal(t, 0.5, sum.CompletionRate)
	assert.EqualValues(t, 4, sum.Registrations)
	assert.EqualValues(t, 8, sum.Judgments)
	require.Len(t, sum.SchoolStandings, 2)
	assert.Equal(t, s.schoolA.ID, sum.SchoolStandings[0].SchoolID)
	assert.EqualValues(t, 10, sum.SchoolStandings[0].RewardPoints)
	assert.EqualValues(t, 1, sum.SchoolStandings[0].FirstPlace)
	assert.EqualValues(t, 3, sum.SchoolStandings[0].Registrations)

	second, err := s.agg.Analytics(ctx)
	require.NoError(t, err)
	assert.True(t, second.Cached)

	require.NoError(t, s.agg.PurgeAnalytics(ctx))
	third, err := s.agg.Analytics(ctx)
	require.NoError(t, err)
	assert.False(t, third.Cached)
}

func TestDeletedEventExcluded(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	require.NoError(t, s.db.Delete(s.group).Error)

	overall, err := s.agg.Generic(ctx, GenericQuery{Type: TypeOverall})
	require.NoError(t, err)
	ids := make([]uint, 0, len(overall.Leaderboard))
	for _, e := range overall.Leaderboard {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []uint{s.aditya.ID, s.bina.ID}, ids)

	schools, err := s.agg.Generic(ctx, GenericQuery{Type: TypeSchool})
	require.NoError(t, err)
	require.Len(t, schools.Leaderboard, 2)
	assert.Equal(t, s.schoolA.ID, schools.Leaderboard[0].ID)
	assert.Equal(t, 27.0, schools.Leaderboard[0].TotalScore)

	res, err := s.agg.Analytics(ctx)
	require.NoError(t, err)
	sum := res.Summary
	assert.EqualValues(t, 1, sum.Events)
	assert.EqualValues(t, 3, sum.Registrations)
	assert.EqualValues(t, 7, sum.Judgments)
	require.Len(t, sum.EventsByType, 1)
	require.Len(t, sum.SchoolStandings, 2)
	assert.Equal(t, s.schoolA.ID, sum.SchoolStandings[0].SchoolID)
	assert.EqualValues(t, 2, sum.SchoolStandings[0].Registrations)
	assert.EqualValues(t, 10, sum.SchoolStandings[0].RewardPoints)
}

func TestGetEventLeaderboards_Handler(t *testing.T) {
	s := seed(t)
	Use(s.agg)
	t.Cleanup(func() { Use(nil) })

	resp := test.DoRequest(t, GetEventLeaderboards, nil, test.WithQuery("context=presentation&resultsLimit=1"))
	test.NoError(t, resp)
	var result EventLeaderboardsResult
	test.DecodeData(t, resp, &result)
	require.Len(t, result.Events, 1)
	assert.Len(t, result.Events[0].Leaderboard, 1)

	resp = test.DoRequest(t, GetEventLeaderboards, nil, test.WithQuery("context=nope"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}
