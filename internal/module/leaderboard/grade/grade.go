// Package grade 把总分换算为等级、绩点和百分制得分
//
// 有两张互相独立的等级表：
//   - EventDetailBands 十档，用于活动成绩明细与活动排行榜
//   - GenericBands     五档，用于通用排行榜（活动/学校/总榜）
//
// 两张表的阈值不一致，是历史上分别演化出来的，不要合并。
package grade

import "math"

type Band struct {
	Min        float64
	Grade      string
	GradePoint int
}

type Result struct {
	Grade           string  `json:"grade"`
	GradePoint      int     `json:"grade_point"`
	NormalizedScore float64 `json:"normalized_score"`
}

// EventDetailBands 按阈值降序，取第一个满足的档位
var EventDetailBands = []Band{
	{90, "A+", 10},
	{80, "A", 9},
	{70, "B+", 8},
	{60, "B", 7},
	{50, "C+", 6},
	{40, "C", 5},
	{30, "D+", 4},
	{20, "D", 3},
	{10, "E", 2},
}

var EventDetailFallback = Band{0, "F", 0}

var GenericBands = []Band{
	{80, "A+", 5},
	{65, "A", 4},
	{50, "B+", 3},
	{35, "B", 2},
}

var GenericFallback = Band{0, "C", 1}

// Calculate 活动明细等级，maxPossibleScore = 启用评委数 × 10
func Calculate(totalScore float64, maxPossibleScore int) Result {
	return classify(Normalize(totalScore, float64(maxPossibleScore)), EventDetailBands, EventDetailFallback)
}

// CalculateGeneric 通用排行榜等级
func CalculateGeneric(totalScore, maxPossibleScore float64) Result {
	return classify(Normalize(totalScore, maxPossibleScore), GenericBands, GenericFallback)
}

// Normalize 换算成 0-100 分并保留一位小数，满分为 0 时返回 0
func Normalize(totalScore, maxPossibleScore float64) float64 {
	if maxPossibleScore <= 0 {
		return 0
	}
	return Round1(totalScore / maxPossibleScore * 100)
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func classify(normalized float64, bands []Band, fallback Band) Result {
	b := fallback
	for _, band := range bands {
		if normalized >= band.Min {
			b = band
			break
		}
	}
	return Result{Grade: b.Grade, GradePoint: b.GradePoint, NormalizedScore: normalized}
}
