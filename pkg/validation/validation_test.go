package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "hrconsole/pkg/domain-errors"
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"notblank"`
}

type scoreForm struct {
	Score  int    `json:"score" validate:"min=1,max=4"`
	Status string `validate:"oneof=all yes no"`
}

func TestValidate(t *testing.T) {
	t.Run("valid struct passes", func(t *testing.T) {
		require.NoError(t, Validate(&loginForm{Email: "hr@example.com", Password: "secret"}))
	})

	t.Run("reports every failing field by form name", func(t *testing.T) {
		err := Validate(&loginForm{Email: "nope", Password: "   "})

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "email: must be a valid email, password: required", err.Error())
	})

	t.Run("falls back to json name then struct field", func(t *testing.T) {
		err := Validate(&scoreForm{Score: 9, Status: "maybe"})

		require.Error(t, err)
		assert.Equal(t, "score: must be at most 4, Status: must be one of [all yes no]", err.Error())
	})
}

func TestErrorMessage_NonValidatorError(t *testing.T) {
	assert.Equal(t, "invalid input", ErrorMessage(assert.AnError))
}
