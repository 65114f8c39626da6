package judge

import (
	"context"
	"strconv"
	"testing"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/test"
	"fest-judging-system/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func enabledEvents(t *testing.T, db *gorm.DB, judgeID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&model.EventJudge{}).
		Where("judge_id = ? AND enabled = ?", judgeID, true).
		Order("event_id").
		Pluck("event_id", &ids).Error)
	return ids
}

func TestEnable_SingleActiveAssignment(t *testing.T) {
	db := test.NewDB(t)
	ctx := context.Background()
	solo := test.CreateEvent(t, db, model.Event{Name: "Solo Singing"})
	group := test.CreateEvent(t, db, model.Event{Name: "Group Dance", EventType: model.EventTypeGroup})
	judge := test.CreateJudge(t, db, "Meera")
	other := test.CreateJudge(t, db, "Ravi")
	test.AssignJudge(t, db, solo.ID, judge.ID, true)
	test.AssignJudge(t, db, group.ID, judge.ID, false)
	test.AssignJudge(t, db, solo.ID, other.ID, true)

	require.NoError(t, Enable(ctx, db, group.ID, judge.ID))
	assert.Equal(t, []uint{group.ID}, enabledEvents(t, db, judge.ID))
	// 其他评委不受影响
	assert.Equal(t, []uint{solo.ID}, enabledEvents(t, db, other.ID))

	require.NoError(t, Enable(ctx, db, solo.ID, judge.ID))
	assert.Equal(t, []uint{solo.ID}, enabledEvents(t, db, judge.ID))
}

func TestEnable_NotAssigned(t *testing.T) {
	db := test.NewDB(t)
	event := test.CreateEvent(t, db, model.Event{Name: "Solo Singing"})
	judge := test.CreateJudge(t, db, "Meera")

	test.ErrorIs(t, Enable(context.Background(), db, event.ID, judge.ID), response.ErrNotFound)
}

func TestAssign(t *testing.T) {
	db := test.NewDB(t)
	ctx := context.Background()
	solo := test.CreateEvent(t, db, model.Event{Name: "Solo Singing"})
	group := test.CreateEvent(t, db, model.Event{Name: "Group Dance", EventType: model.EventTypeGroup})
	judge := test.CreateJudge(t, db, "Meera")

	first, err := Assign(ctx, db, solo.ID, judge.ID, true)
	require.NoError(t, err)
	assert.True(t, first.Enabled)

	// 重复分配不新增记录
	again, err := Assign(ctx, db, solo.ID, judge.ID, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, again.Enabled)

	second, err := Assign(ctx, db, group.ID, judge.ID, true)
	require.NoError(t, err)
	assert.True(t, second.Enabled)
	assert.Equal(t, []uint{group.ID}, enabledEvents(t, db, judge.ID))

	_, err = Assign(ctx, db, 999, judge.ID, false)
	test.ErrorIs(t, err, response.ErrNotFound)
	_, err = Assign(ctx, db, solo.ID, 999, false)
	test.ErrorIs(t, err, response.ErrNotFound)
}

func TestUnassign(t *testing.T) {
	db := test.NewDB(t)
	ctx := context.Background()
	event := test.CreateEvent(t, db, model.Event{Name: "Solo Singing"})
	judge := test.CreateJudge(t, db, "Meera")
	test.AssignJudge(t, db, event.ID, judge.ID, true)

	require.NoError(t, Unassign(ctx, db, event.ID, judge.ID))
	test.ErrorIs(t, Unassign(ctx, db, event.ID, judge.ID), response.ErrNotFound)
}

func TestCreateJudge(t *testing.T) {
	db := test.NewDB(t)

	resp := test.DoRequest(t, CreateJudge, CreateJudgeReq{Name: "Meera", MobileNumber: "9000000001", Pin: "4321"})
	test.NoError(t, resp)

	var judge model.Judge
	require.NoError(t, db.First(&judge, "mobile_number = ?", "9000000001").Error)
	assert.NotEqual(t, "4321", judge.Pin)
	assert.True(t, tools.PasswordCompare("4321", judge.Pin))

	resp = test.DoRequest(t, CreateJudge, CreateJudgeReq{Name: "Other", MobileNumber: "9000000001", Pin: "1111"})
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestEnableJudgeHandler(t *testing.T) {
	db := test.NewDB(t)
	event := test.CreateEvent(t, db, model.Event{Name: "Solo Singing"})
	judge := test.CreateJudge(t, db, "Meera")
	test.AssignJudge(t, db, event.ID, judge.ID, false)

	resp := test.DoRequest(t, EnableJudge, nil,
		test.WithParam("id", strconv.Itoa(int(event.ID))),
		test.WithParam("judgeId", strconv.Itoa(int(judge.ID))))
	test.NoError(t, resp)
	assert.Equal(t, []uint{event.ID}, enabledEvents(t, db, judge.ID))

	resp = test.DoRequest(t, EnableJudge, nil, test.WithParam("id", "abc"))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}
