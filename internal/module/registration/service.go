package registration

import (
	"context"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateReq struct {
	EventID               uint          `json:"event_id" binding:"required"`
	SchoolID              uint          `json:"school_id"`
	TeamName              *string       `json:"team_name"`
	RegisteredByFacultyID uint          `json:"registered_by_faculty_id"`
	Participants          []Participant `json:"participants" binding:"required,dive"`
}

type UpdateReq struct {
	TeamName     *string       `json:"team_name"`
	Participants []Participant `json:"participants" binding:"required,dive"`
}

// Create 校验通过后在同一事务中写入报名与参赛者
func Create(ctx context.Context, db *gorm.DB, req CreateReq) (*model.Registration, error) {
	var registration model.Registration
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, req.EventID)
		if err != nil {
			return err
		}
		if err := schoolExists(tx, req.SchoolID); err != nil {
			return err
		}
		if err := lockStudents(tx, req.Participants); err != nil {
			return err
		}
		participants, err := Validate(ctx, tx, Candidate{
			Event:        event,
			SchoolID:     req.SchoolID,
			TeamName:     req.TeamName,
			Participants: req.Participants,
		})
		if err != nil {
			return err
		}

		registration = model.Registration{
			EventID:               event.ID,
			SchoolID:              req.SchoolID,
			TeamName:              req.TeamName,
			RegisteredByFacultyID: req.RegisteredByFacultyID,
			Participants:          participants,
		}
		if err := tx.Omit("Event", "School").Create(&registration).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("报名成功", "registration_id", registration.ID, "event_id", registration.EventID, "school_id", registration.SchoolID)
	return &registration, nil
}

// Update 替换队名与参赛者，活动和学校不可修改
func Update(ctx context.Context, db *gorm.DB, existing *model.Registration, req UpdateReq) (*model.Registration, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, existing.EventID)
		if err != nil {
			return err
		}
		if err := lockStudents(tx, req.Participants); err != nil {
			return err
		}
		participants, err := Validate(ctx, tx, Candidate{
			Event:                 event,
			SchoolID:              existing.SchoolID,
			TeamName:              req.TeamName,
			Participants:          req.Participants,
			ExcludeRegistrationID: existing.ID,
		})
		if err != nil {
			return err
		}

		if err := tx.Where("registration_id = ?", existing.ID).Delete(&model.RegistrationParticipant{}).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		for i := range participants {
			participants[i].RegistrationID = existing.ID
		}
		if err := tx.Omit(clause.Associations).Create(&participants).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if err := tx.Model(existing).Omit(clause.Associations).Update("team_name", req.TeamName).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		existing.TeamName = req.TeamName
		existing.Participants = participants
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("报名已修改", "registration_id", existing.ID)
	return existing, nil
}

// Delete 删除报名及其参赛者、评分和名次奖励；已发布成绩的活动不能删除报名
func Delete(ctx context.Context, db *gorm.DB, registration *model.Registration) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, registration.EventID)
		if err != nil {
			return err
		}
		if event.IsCompleted {
			return response.ErrForbidden.WithTips(event.Name + " 成绩已发布，不能删除报名")
		}
		for _, m := range []any{&model.Judgment{}, &model.PositionReward{}, &model.RegistrationParticipant{}} {
			if err := tx.Where("registration_id = ?", registration.ID).Delete(m).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
		}
		if err := tx.Delete(&model.Registration{}, registration.ID).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("报名已删除", "registration_id", registration.ID)
	return nil
}

// Find 加载报名及参赛者
func Find(ctx context.Context, db *gorm.DB, id uint) (*model.Registration, error) {
	var registration model.Registration
	err := db.WithContext(ctx).
		Preload("Event").
		Preload("School").
		Preload("Participants.Student").
		Preload("Participants.Faculty").
		First(&registration, id).Error
	if err != nil {
		return nil, notFoundOr(err, "报名不存在")
	}
	return &registration, nil
}

// lockEvent 锁住活动行，和成绩发布互斥
func lockEvent(tx *gorm.DB, eventID uint) (*model.Event, error) {
	var event model.Event
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, eventID).Error; err != nil {
		return nil, notFoundOr(err, "活动不存在")
	}
	return &event, nil
}

// lockStudents 按 id 顺序锁住参赛学生，同一学生报名不同活动时串行执行参赛次数检查
func lockStudents(tx *gorm.DB, participants []Participant) error {
	ids := make([]uint, 0, len(participants))
	for _, p := range participants {
		if p.Type == model.ParticipantStudent {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	var locked []model.Student
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id IN ?", ids).
		Order("id").
		Find(&locked).Error
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}

func schoolExists(tx *gorm.DB, schoolID uint) error {
	var school model.School
	if err := tx.Select("id").First(&school, schoolID).Error; err != nil {
		return notFoundOr(err, "学校不存在")
	}
	return nil
}

func notFoundOr(err error, tips string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.ErrNotFound.WithTips(tips)
	}
	return response.ErrDatabase.WithOrigin(err)
}
