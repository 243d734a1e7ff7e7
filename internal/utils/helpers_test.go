package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 40.1, Round2(40.1000000001))
	assert.Equal(t, 441.1, Round2(441.10000000000002))
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.2351))
	assert.Equal(t, 0.0, Round2(0))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 4.3, Round1(4.3333333))
	assert.Equal(t, 4.7, Round1(4.6666666))
	assert.Equal(t, 5.0, Round1(4.95))
}

func TestNewRideNumberFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := NewRideNumber()
		assert.Regexp(t, `^RD-\d{8}$`, number)
		seen[number] = true
	}
	assert.Greater(t, len(seen), 90, "ride numbers should rarely collide")
}

func TestPaginationSkipLimit(t *testing.T) {
	params := PaginationParams{Page: 3, PageSize: 20}
	assert.EqualValues(t, 40, params.Skip())
	assert.EqualValues(t, 20, params.Limit())
}

func TestCreatePaginationMeta(t *testing.T) {
	meta := CreatePaginationMeta(PaginationParams{Page: 1, PageSize: 20}, 45)
	assert.EqualValues(t, 3, meta.TotalPages)
	assert.EqualValues(t, 45, meta.Total)

	meta = CreatePaginationMeta(PaginationParams{Page: 1, PageSize: 20}, 40)
	assert.EqualValues(t, 2, meta.TotalPages)
}
