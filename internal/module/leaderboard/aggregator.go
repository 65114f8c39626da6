package leaderboard

import (
	"context"
	"fmt"
	"time"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/internal/module/leaderboard/grade"
	"fest-judging-system/internal/module/leaderboard/ranking"

	"gorm.io/gorm"
)

const (
	ContextAdmin        = "admin"
	ContextPresentation = "presentation"

	TypeEvent   = "event"
	TypeSchool  = "school"
	TypeOverall = "overall"

	maxResultsLimit = 100
)

type Aggregator struct {
	db           *gorm.DB
	cache        Cache
	ttl          time.Duration
	defaultLimit int
	now          func() time.Time
}

func NewAggregator(db *gorm.DB, cache Cache, ttl time.Duration, defaultLimit int) *Aggregator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &Aggregator{db: db, cache: cache, ttl: ttl, defaultLimit: defaultLimit, now: time.Now}
}

type EventSummary struct {
	ID               uint              `json:"id"`
	Name             string            `json:"name"`
	EventType        model.EventType   `json:"event_type"`
	AgeCategory      model.AgeCategory `json:"age_category"`
	IsCompleted      bool              `json:"is_completed"`
	EnabledJudges    int               `json:"enabled_judges"`
	MaxPossibleScore int               `json:"max_possible_score"`
}

type EventEntry struct {
	Rank             int     `json:"rank"`
	RegistrationID   uint    `json:"registration_id"`
	SchoolID         uint    `json:"school_id"`
	SchoolName       string  `json:"school_name"`
	TeamName         *string `json:"team_name,omitempty"`
	ParticipantNames string  `json:"participant_names,omitempty"`
	TotalScore       float64 `json:"total_score"`
	NormalizedScore  float64 `json:"normalized_score"`
	Grade            string  `json:"grade"`
	GradePoint       int     `json:"grade_point"`
	Position         *int    `json:"position,omitempty"`
	RewardPoints     int     `json:"reward_points"`
	TotalPoints      int     `json:"total_points"`
}

type EventLeaderboard struct {
	Event        EventSummary `json:"event"`
	Leaderboard  []EventEntry `json:"leaderboard"`
	TotalResults int          `json:"total_results"`
}

type EventLeaderboardsResult struct {
	Events         []EventLeaderboard `json:"events"`
	Cached         bool               `json:"cached"`
	DataCapturedAt time.Time          `json:"data_captured_at"`
}

func (a *Aggregator) resolveLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return a.defaultLimit, nil
	case limit < 0 || limit > maxResultsLimit:
		return 0, response.ErrInvalidRequest.WithTips(fmt.Sprintf("结果条数必须在 1 到 %d 之间", maxResultsLimit))
	}
	return limit, nil
}

func eventsKey(context string, limit int) string {
	return fmt.Sprintf("%s%s:%d", eventsPrefix, context, limit)
}

// EventLeaderboards 每个活动一张排行榜；presentation 只展示已发布的活动
func (a *Aggregator) EventLeaderboards(ctx context.Context, lbContext string, resultsLimit int) (*EventLeaderboardsResult, error) {
	if lbContext == "" {
		lbContext = ContextAdmin
	}
	if lbContext != ContextAdmin && lbContext != ContextPresentation {
		return nil, response.ErrInvalidRequest.WithTips("context 只能是 admin 或 presentation")
	}
	limit, err := a.resolveLimit(resultsLimit)
	if err != nil {
		return nil, err
	}

	events, capturedAt, hit, err := cached(ctx, a, eventsKey(lbContext, limit), func(ctx context.Context) ([]EventLeaderboard, error) {
		return a.computeEventLeaderboards(ctx, lbContext == ContextPresentation, limit)
	})
	if err != nil {
		return nil, err
	}
	return &EventLeaderboardsResult{Events: events, Cached: hit, DataCapturedAt: capturedAt}, nil
}

func (a *Aggregator) computeEventLeaderboards(ctx context.Context, completedOnly bool, limit int) ([]EventLeaderboard, error) {
	query := a.db.WithContext(ctx).Model(&model.Event{}).Order("id")
	if completedOnly {
		query = query.Where("is_completed = ?", true)
	}
	var events []model.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	if len(events) == 0 {
		return []EventLeaderboard{}, nil
	}
	eventIDs := make([]uint, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, e.ID)
	}

	judgeCounts, err := loadEnabledJudgeCounts(ctx, a.db, eventIDs)
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	totals, err := loadTotals(ctx, a.db, totalsFilter{EventIDs: eventIDs})
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	scored, err := loadScored(ctx, a.db, totals)
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	byEvent := make(map[uint][]scoredRegistration, len(events))
	for _, s := range scored {
		byEvent[s.EventID] = append(byEvent[s.EventID], s)
	}

	result := make([]EventLeaderboard, 0, len(events))
	for _, e := range events {
		maxPossible := judgeCounts[e.ID] * 10
		regs := byEvent[e.ID]
		ranking.Sort(regs, func(s scoredRegistration) ranking.Key {
			return ranking.Key{Score: s.TotalScore, CreatedAt: s.Registration.CreatedAt, ID: s.RegistrationID}
		})

		entries := make([]EventEntry, 0, min(len(regs), limit))
		for i, s := range regs {
			if i == limit {
				break
			}
			g := grade.Calculate(s.TotalScore, maxPossible)
			teamName, names := s.displayName(e.EventType)
			entry := EventEntry{
				Rank:             i + 1,
				RegistrationID:   s.RegistrationID,
				SchoolID:         s.SchoolID,
				SchoolName:       s.Registration.School.Name,
				TeamName:         teamName,
				ParticipantNames: names,
				TotalScore:       grade.Round1(s.TotalScore),
				NormalizedScore:  g.NormalizedScore,
				Grade:            g.Grade,
				GradePoint:       g.GradePoint,
				RewardPoints:     s.rewardPoints(),
				TotalPoints:      g.GradePoint + s.rewardPoints(),
			}
			if s.Reward != nil {
				entry.Position = &s.Reward.Position
			}
			entries = append(entries, entry)
		}

		result = append(result, EventLeaderboard{
			Event: EventSummary{
				ID:               e.ID,
				Name:             e.Name,
				EventType:        e.EventType,
				AgeCategory:      e.AgeCategory,
				IsCompleted:      e.IsCompleted,
				EnabledJudges:    judgeCounts[e.ID],
				MaxPossibleScore: maxPossible,
			},
			Leaderboard:  entries,
			TotalResults: len(regs),
		})
	}
	return result, nil
}

type GenericQuery struct {
	Type     string `form:"type"`
	EventID  uint   `form:"eventId"`
	SchoolID uint   `form:"schoolId"`
	Limit    int    `form:"limit"`
}

type GenericEntry struct {
	Rank            int     `json:"rank"`
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	SchoolName      string  `json:"school_name,omitempty"`
	EventName       string  `json:"event_name,omitempty"`
	TotalScore      float64 `json:"total_score"`
	JudgmentCount   int64   `json:"judgment_count"`
	NormalizedScore float64 `json:"normalized_score"`
	Grade           string  `json:"grade"`
	GradePoint      int     `json:"grade_point"`
	RewardPoints    int     `json:"reward_points"`

	createdAt time.Time
}

type GenericResult struct {
	Type           string         `json:"type"`
	Leaderboard    []GenericEntry `json:"leaderboard"`
	Cached         bool           `json:"cached"`
	DataCapturedAt time.Time      `json:"data_captured_at"`
}

func genericKey(q GenericQuery) string {
	return fmt.Sprintf("%s%s:%d:%d:%d", genericPrefix, q.Type, q.EventID, q.SchoolID, q.Limit)
}

// Generic 活动/学校/总榜，按通用等级表归一化后排序
// 满分按实际打分次数 × 10 计算
func (a *Aggregator) Generic(ctx context.Context, q GenericQuery) (*GenericResult, error) {
	if q.Type == "" {
		q.Type = TypeOverall
	}
	switch q.Type {
	case TypeEvent:
		if q.EventID == 0 {
			return nil, response.ErrInvalidRequest.WithTips("活动排行榜需要 eventId")
		}
	case TypeSchool, TypeOverall:
	default:
		return nil, response.ErrInvalidRequest.WithTips("type 只能是 event、school 或 overall")
	}
	limit, err := a.resolveLimit(q.Limit)
	if err != nil {
		return nil, err
	}
	q.Limit = limit

	entries, capturedAt, hit, err := cached(ctx, a, genericKey(q), func(ctx context.Context) ([]GenericEntry, error) {
		return a.computeGeneric(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return &GenericResult{Type: q.Type, Leaderboard: entries, Cached: hit, DataCapturedAt: capturedAt}, nil
}

func (a *Aggregator) computeGeneric(ctx context.Context, q GenericQuery) ([]GenericEntry, error) {
	filter := totalsFilter{SchoolID: q.SchoolID}
	if q.EventID != 0 {
		filter.EventIDs = []uint{q.EventID}
	}
	totals, err := loadTotals(ctx, a.db, filter)
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	scored, err := loadScored(ctx, a.db, totals)
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	var entries []GenericEntry
	if q.Type == TypeSchool {
		entries = schoolEntries(scored)
	} else {
		entries = registrationEntries(scored)
	}
	ranking.Sort(entries, func(e GenericEntry) ranking.Key {
		return ranking.Key{Score: e.NormalizedScore, CreatedAt: e.createdAt, ID: e.ID}
	})
	if len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	if entries == nil {
		entries = []GenericEntry{}
	}
	return entries, nil
}

func registrationEntries(scored []scoredRegistration) []GenericEntry {
	entries := make([]GenericEntry, 0, len(scored))
	for _, s := range scored {
		teamName, names := s.displayName(s.Registration.Event.EventType)
		if teamName != nil {
			names = *teamName
		}
		g := grade.CalculateGeneric(s.TotalScore, float64(s.JudgmentCount*10))
		entries = append(entries, GenericEntry{
			ID:              s.RegistrationID,
			Name:            names,
			SchoolName:      s.Registration.School.Name,
			EventName:       s.Registration.Event.Name,
			TotalScore:      grade.Round1(s.TotalScore),
			JudgmentCount:   s.JudgmentCount,
			NormalizedScore: g.NormalizedScore,
			Grade:           g.Grade,
			GradePoint:      g.GradePoint,
			RewardPoints:    s.rewardPoints(),
			createdAt:       s.Registration.CreatedAt,
		})
	}
	return entries
}

// schoolEntries 按学校汇总总分、打分次数和名次奖励
func schoolEntries(scored []scoredRegistration) []GenericEntry {
	bySchool := make(map[uint]*GenericEntry)
	var order []uint
	for _, s := range scored {
		e, ok := bySchool[s.SchoolID]
		if !ok {
			e = &GenericEntry{ID: s.SchoolID, Name: s.Registration.School.Name}
			bySchool[s.SchoolID] = e
			order = append(order, s.SchoolID)
		}
		e.TotalScore += s.TotalScore
		e.JudgmentCount += s.JudgmentCount
		e.RewardPoints += s.rewardPoints()
	}

	entries := make([]GenericEntry, 0, len(order))
	for _, id := range order {
		e := bySchool[id]
		g := grade.CalculateGeneric(e.TotalScore, float64(e.JudgmentCount*10))
		e.TotalScore = grade.Round1(e.TotalScore)
		e.NormalizedScore = g.NormalizedScore
		e.Grade = g.Grade
		e.GradePoint = g.GradePoint
		entries = append(entries, *e)
	}
	return entries
}

// Purge 按 context 清除活动排行榜缓存；context 为空时清除所有排行榜缓存
func (a *Aggregator) Purge(ctx context.Context, lbContext string) (int, error) {
	prefix := keyPrefix
	if lbContext != "" {
		if lbContext != ContextAdmin && lbContext != ContextPresentation {
			return 0, response.ErrInvalidRequest.WithTips("context 只能是 admin 或 presentation")
		}
		prefix = eventsPrefix + lbContext + ":"
	}
	keys, err := a.cache.Keys(ctx, prefix)
	if err != nil {
		return 0, response.ErrServerInternal.WithOrigin(err)
	}
	if err := a.cache.Delete(ctx, keys...); err != nil {
		return 0, response.ErrServerInternal.WithOrigin(err)
	}
	log.Info("排行榜缓存已清除", "prefix", prefix, "count", len(keys))
	return len(keys), nil
}
