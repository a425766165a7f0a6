package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "hrconsole/pkg/domain-errors"
)

func TestRunConcurrentCountsOutcomes(t *testing.T) {
	result := RunConcurrent(8, nil, func(idx int) error {
		switch idx % 4 {
		case 0:
			return nil
		case 1:
			return dErrors.New(dErrors.CodeUnauthorized, "token expired")
		case 2:
			return dErrors.New(dErrors.CodeNotFound, "employee not found")
		default:
			return errors.New("boom")
		}
	})

	assert.Equal(t, int32(2), result.Successes)
	assert.Equal(t, int32(2), result.Unauthorized)
	assert.Equal(t, int32(2), result.NotFounds)
	assert.Equal(t, int32(2), result.Errors)
	assert.Equal(t, int32(8), result.Total())
}
