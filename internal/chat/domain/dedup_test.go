package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupIndexAdd(t *testing.T) {
	idx := NewDedupIndex(10, 5)

	assert.True(t, idx.Add("m1"), "first add should be accepted")
	assert.False(t, idx.Add("m1"), "second add of same id should be rejected")
	assert.True(t, idx.Has("m1"))
	assert.Equal(t, 1, idx.Len())
}

func TestDedupIndexEvictOldest(t *testing.T) {
	idx := NewDedupIndex(3, 3)

	idx.Add("m1")
	idx.Add("m2")
	idx.Add("m3")
	idx.Add("m4") // 擠掉 m1

	assert.Equal(t, 3, idx.Len(), "index should never exceed ceiling")
	assert.False(t, idx.Has("m1"), "oldest id should be evicted")
	assert.True(t, idx.Has("m4"))

	// 被汰舊的 id 再來一次會被當新的
	assert.True(t, idx.Add("m1"))
}

func TestDedupIndexCeilingClamp(t *testing.T) {
	// ceiling 比視窗容量小時要自動拉高，不然重送會穿過去
	idx := NewDedupIndex(10, 100)

	assert.Equal(t, 300, idx.Ceiling())

	for i := 0; i < 300; i++ {
		idx.Add(fmt.Sprintf("m%d", i))
	}
	assert.Equal(t, 300, idx.Len())
	assert.True(t, idx.Has("m0"), "ids within ceiling should all be kept")
}
