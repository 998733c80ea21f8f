package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
)

type feeForm struct {
	Fee      decimal.Decimal `yaml:"payment_processing_fee" validate:"decimal_gte0,decimal_2dp"`
	Mode     string          `yaml:"mode" validate:"oneof=weekly monthly"`
	Operator string          `json:"operator" validate:"required"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name     string
		form     feeForm
		wantMsgs []string
	}{
		{
			name: "valid",
			form: feeForm{Fee: decimal.RequireFromString("12.50"), Mode: "weekly", Operator: "sam"},
		},
		{
			name:     "negative fee",
			form:     feeForm{Fee: decimal.RequireFromString("-1"), Mode: "weekly", Operator: "sam"},
			wantMsgs: []string{"payment_processing_fee must not be negative"},
		},
		{
			name: "trailing zero",
			form: feeForm{Fee: decimal.RequireFromString("12.500"), Mode: "monthly", Operator: "sam"},
		},
		{
			name:     "three decimals",
			form:     feeForm{Fee: decimal.RequireFromString("1.005"), Mode: "monthly", Operator: "sam"},
			wantMsgs: []string{"payment_processing_fee must have at most two decimal places"},
		},
		{
			name: "several fields",
			form: feeForm{Fee: decimal.Zero, Mode: "daily"},
			wantMsgs: []string{
				"mode must be one of [weekly monthly]",
				"operator is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.form)
			if len(tt.wantMsgs) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
			for _, msg := range tt.wantMsgs {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestValidatorIsShared(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}
