package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,min=2"`
	Count int    `json:"count" validate:"min=0"`
}

func (sample) ValidationMessages() map[string]string {
	return map[string]string{"name.min": "too short"}
}

func TestValidator(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(sample{Name: "ok", Count: 0}))

	err := v.Validate(sample{Name: "x", Count: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "too short", errs["name"])
	assert.Contains(t, errs["count"], "min")
}

type priced struct {
	Price float64 `json:"price" validate:"finite,min=1"`
}

func TestValidator_Finite(t *testing.T) {
	v := New()
	require.NoError(t, v.Validate(priced{Price: 10}))

	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var errs Errors
		require.ErrorAs(t, v.Validate(priced{Price: x}), &errs)
		assert.Contains(t, errs["price"], "finite")
	}
}
