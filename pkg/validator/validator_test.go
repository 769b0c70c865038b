package validator_test

import (
	"testing"

	"github.com/joaop06/jcoder/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		Name string `validate:"required"`
		Err  bool
	}{
		{
			Name: "",
			Err:  true,
		},
		{
			Name: "my-portfolio-api",
			Err:  false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			err := validator.Validate(testCase)
			if !testCase.Err {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
		})
	}
}

func TestValidateNil(t *testing.T) {
	assert.Error(t, validator.Validate(nil))
}

func TestVar(t *testing.T) {
	assert.NoError(t, validator.Var("appdb", "required,alphanum"))
	assert.Error(t, validator.Var("", "required"))
}
