package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

func TestAllocationValidator_WeightMismatch(t *testing.T) {
	v := NewAllocationValidator(DefaultWeightTolerance, true)
	ma := &model.MajorActivity{
		Name:    "Promote destinations",
		Weight:  dec("25.00"),
		Budget:  dec("1000"),
		Details: []model.DetailActivity{detail("10.00", "100"), detail("14.00", "100")},
	}

	err := v.ValidateMajorActivity(ma)
	var wm *WeightMismatchError
	require.ErrorAs(t, err, &wm)
	assert.True(t, wm.Expected.Equal(dec("25")))
	assert.True(t, wm.Actual.Equal(dec("24")))
	assert.Contains(t, err.Error(), "24.00")
	assert.Contains(t, err.Error(), "25.00")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAllocationValidator_Tolerance(t *testing.T) {
	v := NewAllocationValidator(DefaultWeightTolerance, true)

	tests := []struct {
		name    string
		details []model.DetailActivity
		wantErr bool
	}{
		{"exact", []model.DetailActivity{detail("10", "0"), detail("15", "0")}, false},
		{"within tolerance", []model.DetailActivity{detail("10.00", "0"), detail("14.99", "0")}, false},
		{"just outside", []model.DetailActivity{detail("10.00", "0"), detail("14.98", "0")}, true},
		{"over", []model.DetailActivity{detail("10.00", "0"), detail("15.02", "0")}, true},
		{"no details", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ma := &model.MajorActivity{Name: "m", Weight: dec("25"), Details: tt.details}
			err := v.ValidateMajorActivity(ma)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllocationValidator_Budget(t *testing.T) {
	ma := &model.MajorActivity{
		Name:    "Marketing",
		Weight:  dec("10"),
		Budget:  dec("500"),
		Details: []model.DetailActivity{detail("5", "300"), detail("5", "250")},
	}

	err := NewAllocationValidator(DefaultWeightTolerance, true).ValidateMajorActivity(ma)
	var be *BudgetExceededError
	require.ErrorAs(t, err, &be)
	assert.True(t, be.Allocated.Equal(dec("550")))
	assert.True(t, be.Budget.Equal(dec("500")))

	assert.NoError(t, NewAllocationValidator(DefaultWeightTolerance, false).ValidateMajorActivity(ma))
}

func TestAllocationValidator_NegativeValues(t *testing.T) {
	v := NewAllocationValidator(DefaultWeightTolerance, true)
	ma := &model.MajorActivity{
		Name:    "m",
		Weight:  dec("0"),
		Details: []model.DetailActivity{detail("5", "0"), detail("-5", "0")},
	}
	var ve *ValidationError
	require.ErrorAs(t, v.ValidateMajorActivity(ma), &ve)
	assert.Contains(t, ve.Field, "details[1]")
}

func TestAllocationValidator_ValidateActivities_FirstFailureWins(t *testing.T) {
	v := NewAllocationValidator(DefaultWeightTolerance, true)
	activities := []model.MajorActivity{
		{Name: "ok", Weight: dec("10"), Details: []model.DetailActivity{detail("10", "0")}},
		{Name: "bad", Weight: dec("10"), Details: []model.DetailActivity{detail("3", "0")}},
		{Name: "worse", Weight: dec("10"), Details: nil},
	}
	var wm *WeightMismatchError
	require.ErrorAs(t, v.ValidateActivities(activities), &wm)
	assert.Equal(t, "bad", wm.Activity)
}
