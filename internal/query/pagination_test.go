package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePagination(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		rawPage   string
		rawLimit  string
		wantPage  int
		wantLimit int
	}{
		{"valid values", "3", "25", 3, 25},
		{"missing values", "", "", 1, 10},
		{"non-numeric values", "abc", "xyz", 1, 10},
		{"negative values", "-2", "-5", 1, 10},
		{"zero values", "0", "0", 1, 10},
		{"float values", "1.5", "2.5", 1, 10},
		{"limit at ceiling", "1", "100", 1, 100},
		{"limit above ceiling is clamped", "1", "500", 1, 100},
		{"page valid limit malformed", "7", "lots", 7, 10},
		{"page malformed limit valid", "first", "20", 1, 20},
		{"page above ceiling is clamped", "9223372036854775807", "100", MaxPage, 100},
		{"page overflows int64", "99999999999999999999", "10", 1, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePagination(tc.rawPage, tc.rawLimit)
			assert.Equal(t, tc.wantPage, got.Page)
			assert.Equal(t, tc.wantLimit, got.Limit)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Pagination{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, Pagination{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 50, Pagination{Page: 3, Limit: 25}.Offset())

	// The largest resolvable window must still yield a non-negative offset.
	far := ResolvePagination("9223372036854775807", "100")
	assert.GreaterOrEqual(t, far.Offset(), 0)
}
