package middleware

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "fidash/internal/errors"
)

type sampleQuery struct {
	Pillars []string `query:"pillar" validate:"dive,pillar"`
	From    int      `query:"from" validate:"gte=2000,lte=2100"`
	To      int      `query:"to" validate:"gte=2000,lte=2100,gtefield=From"`
	Model   string   `query:"model" validate:"omitempty,oneof=event trend"`
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		query      sampleQuery
		wantFields []string
	}{
		{
			name:  "valid",
			query: sampleQuery{Pillars: []string{"ACCESS", "usage"}, From: 2011, To: 2025, Model: "trend"},
		},
		{
			name:       "unknown pillar",
			query:      sampleQuery{Pillars: []string{"ACCESS", "WEALTH"}, From: 2011, To: 2025},
			wantFields: []string{"pillar[1]"},
		},
		{
			name:       "inverted range and bad model",
			query:      sampleQuery{From: 2020, To: 2015, Model: "magic"},
			wantFields: []string{"to", "model"},
		},
		{
			name:       "year out of bounds",
			query:      sampleQuery{From: 1990, To: 2200},
			wantFields: []string{"from", "to"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.query)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, 400, apiErr.StatusCode)

			details := apiErr.Details.(apierrors.ValidationErrors)
			var fields []string
			for _, fe := range details.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestRegisterValidations(t *testing.T) {
	assert.NotPanics(t, func() { NewValidator() })

	v := validator.New()
	require.NoError(t, registerValidations(v))

	assert.NoError(t, v.Var("access", "pillar"))
	assert.NoError(t, v.Var("GENDER", "pillar"))
	assert.Error(t, v.Var("WEALTH", "pillar"))

	// registration rejects an empty tag, which NewValidator turns into a panic
	assert.Error(t, v.RegisterValidation("", isPillar))
}
