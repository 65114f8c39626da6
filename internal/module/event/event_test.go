package event

import (
	"strconv"
	"testing"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent(t *testing.T) {
	db := test.NewDB(t)

	resp := test.DoRequest(t, CreateEvent, EventCreateReq{
		Name:        "Group Dance",
		EventType:   model.EventTypeGroup,
		AgeCategory: model.AgeCategorySenior,
		MaxTeamSize: test.Ptr(8),
		Criteria:    []string{"Choreography", "Sync"},
	})
	test.NoError(t, resp)

	var stored model.Event
	require.NoError(t, db.First(&stored, "name = ?", "Group Dance").Error)
	assert.Equal(t, model.EventTypeGroup, stored.EventType)
	assert.Equal(t, []string{"Choreography", "Sync"}, []string(stored.Criteria))
	assert.False(t, stored.IsCompleted)

	resp = test.DoRequest(t, CreateEvent, EventCreateReq{
		Name:        "Group Dance",
		EventType:   model.EventTypeGroup,
		AgeCategory: model.AgeCategorySenior,
	})
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)

	resp = test.DoRequest(t, CreateEvent, EventCreateReq{
		Name:        "Quiz",
		EventType:   "Relay",
		AgeCategory: model.AgeCategorySenior,
	})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}

func TestListEvents(t *testing.T) {
	db := test.NewDB(t)
	test.CreateEvent(t, db, model.Event{Name: "Solo Singing"})
	test.CreateEvent(t, db, model.Event{Name: "Group Singing", EventType: model.EventTypeGroup})
	test.CreateEvent(t, db, model.Event{Name: "Painting", AgeCategory: model.AgeCategorySenior})

	resp := test.DoRequest(t, ListEvents, nil, test.WithQuery("name=Singing&page_size=1"))
	test.NoError(t, resp)
	var page struct {
		Events     []model.Event `json:"events"`
		Total      int64         `json:"total"`
		TotalPages int64         `json:"total_pages"`
	}
	test.DecodeData(t, resp, &page)
	assert.EqualValues(t, 2, page.Total)
	assert.EqualValues(t, 2, page.TotalPages)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "Solo Singing", page.Events[0].Name)

	resp = test.DoRequest(t, ListEvents, nil, test.WithQuery("age_category=Senior"))
	test.DecodeData(t, resp, &page)
	assert.EqualValues(t, 1, page.Total)
}

func TestUpdateEvent_KeepsCompletionFlag(t *testing.T) {
	db := test.NewDB(t)
	event := test.CreateEvent(t, db, model.Event{Name: "Solo Singing", IsCompleted: true})
	id := strconv.Itoa(int(event.ID))

	resp := test.DoRequest(t, UpdateEvent, EventUpdateReq{Description: test.Ptr("Classical only")}, test.WithParam("id", id))
	test.NoError(t, resp)

	var stored model.Event
	require.NoError(t, db.First(&stored, event.ID).Error)
	assert.Equal(t, "Classical only", stored.Description)
	assert.True(t, stored.IsCompleted)

	invalid := model.AgeCategory("Toddler")
	resp = test.DoRequest(t, UpdateEvent, EventUpdateReq{AgeCategory: &invalid}, test.WithParam("id", id))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}

func TestDeleteAndRestoreEvent(t *testing.T) {
	db := test.NewDB(t)
	event := test.CreateEvent(t, db, model.Event{Name: "Solo Singing"})
	id := strconv.Itoa(int(event.ID))

	test.NoError(t, test.DoRequest(t, DeleteEvent, nil, test.WithParam("id", id)))
	test.ErrorEqual(t, response.ErrNotFound, test.DoRequest(t, GetEvent, nil, test.WithParam("id", id)))

	test.NoError(t, test.DoRequest(t, RestoreEvent, nil, test.WithParam("id", id)))
	test.NoError(t, test.DoRequest(t, GetEvent, nil, test.WithParam("id", id)))
}

func TestGetEvent_IncludesJudges(t *testing.T) {
	db := test.NewDB(t)
	event := test.CreateEvent(t, db, model.Event{Name: "Solo Singing"})
	judge := test.CreateJudge(t, db, "Meera")
	test.AssignJudge(t, db, event.ID, judge.ID, true)

	resp := test.DoRequest(t, GetEvent, nil, test.WithParam("id", strconv.Itoa(int(event.ID))))
	test.NoError(t, resp)
	var detail struct {
		Registrations int64          `json:"registrations"`
		Judges        []judgeInEvent `json:"judges"`
	}
	test.DecodeData(t, resp, &detail)
	assert.EqualValues(t, 0, detail.Registrations)
	require.Len(t, detail.Judges, 1)
	assert.Equal(t, "Meera", detail.Judges[0].Name)
	assert.True(t, detail.Judges[0].Enabled)
}

func TestSetRegistrationStatus(t *testing.T) {
	db := test.NewDB(t)
	event := test.CreateEvent(t, db, model.Event{Name: "Solo Singing"})
	id := strconv.Itoa(int(event.ID))

	resp := test.DoRequest(t, SetRegistrationStatus, map[string]any{}, test.WithParam("id", id))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, SetRegistrationStatus, map[string]any{"registration_closed": true}, test.WithParam("id", id))
	test.NoError(t, resp)

	var stored model.Event
	require.NoError(t, db.First(&stored, event.ID).Error)
	assert.True(t, stored.RegistrationClosed)
}
