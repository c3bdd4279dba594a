package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engine(t *testing.T) *validator.Validate {
	t.Helper()
	require.NoError(t, RegisterCustom())
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v
}

func TestBloodType(t *testing.T) {
	v := engine(t)

	for _, valid := range []string{"A+", "O-", "AB+", ""} {
		assert.NoError(t, v.Var(valid, "bloodtype"), valid)
	}
	for _, invalid := range []string{"C+", "o+", "AB"} {
		assert.Error(t, v.Var(invalid, "bloodtype"), invalid)
	}
}

func TestPaymentMethod(t *testing.T) {
	v := engine(t)

	for _, valid := range []string{"Cash", "Credit Card", "Insurance"} {
		assert.NoError(t, v.Var(valid, "paymentmethod"), valid)
	}
	for _, invalid := range []string{"", "cash", "Bitcoin"} {
		assert.Error(t, v.Var(invalid, "paymentmethod"), invalid)
	}
}
