// Package ranking 报名按总分排序的统一规则
//
// 总分高者在前；同分时报名时间早者在前，再按报名 ID 升序。
package ranking

import (
	"cmp"
	"slices"
	"time"

	"fest-judging-system/internal/module/leaderboard/grade"
)

type Key struct {
	Score     float64
	CreatedAt time.Time
	ID        uint
}

func Compare(a, b Key) int {
	// 按一位小数比较，避免浮点求和的误差打破并列
	if c := cmp.Compare(grade.Round1(b.Score), grade.Round1(a.Score)); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Sort 原地排序
func Sort[T any](items []T, key func(T) Key) {
	slices.SortFunc(items, func(a, b T) int {
		return Compare(key(a), key(b))
	})
}
