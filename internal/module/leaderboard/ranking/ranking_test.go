package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSort_TieBreak(t *testing.T) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	items := []Key{
		{Score: 20, CreatedAt: base.Add(time.Hour), ID: 2},
		{Score: 5, CreatedAt: base, ID: 4},
		{Score: 30, CreatedAt: base.Add(2 * time.Hour), ID: 1},
		{Score: 20, CreatedAt: base, ID: 3},
		{Score: 20, CreatedAt: base, ID: 5},
		{Score: 0.1 + 0.2, CreatedAt: base, ID: 7},
		{Score: 0.3, CreatedAt: base, ID: 6},
	}
	Sort(items, func(k Key) Key { return k })

	ids := make([]uint, 0, len(items))
	for _, k := range items {
		ids = append(ids, k.ID)
	}
	assert.Equal(t, []uint{1, 3, 5, 2, 4, 6, 7}, ids)
}
