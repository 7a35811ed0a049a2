package snowflake

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateIDMonotonic(t *testing.T) {
	// 消息排序用 (created_at, uuid)，并列裁决依赖 id 随生成时间单调递增
	prev := GenerateID()
	for i := 0; i < 1000; i++ {
		next := GenerateID()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestGenerateIDStringParsesBack(t *testing.T) {
	raw := GenerateIDString()
	parsed, err := strconv.ParseInt(raw, 10, 64)
	require.NoError(t, err)
	require.Positive(t, parsed)
}
