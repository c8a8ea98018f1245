package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

type sample struct {
	Username string  `json:"username" validate:"required,username"`
	Status   string  `json:"status" validate:"omitempty,casestatus"`
	Day      string  `json:"day" validate:"omitempty,day"`
	Hours    float64 `json:"hours" validate:"gt=0,lte=24"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	errs, err := Validate(sample{Username: "x", Status: "open", Day: "2024-02-30", Hours: 30})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Use 3-40 letters, digits, dots, dashes or underscores"}, errs["username"])
	assert.Equal(t, []string{"Value is not allowed"}, errs["status"])
	assert.Equal(t, []string{"Invalid date (use YYYY-MM-DD)"}, errs["day"])
	assert.Equal(t, []string{"Must be at most 24"}, errs["hours"])
}

func TestValidatePasses(t *testing.T) {
	errs, err := Validate(sample{Username: "lawyer.one", Status: string(models.CaseOnAppeal), Day: "2024-02-29", Hours: 1})
	assert.NoError(t, err)
	assert.Nil(t, errs)

	errs, _ = Validate(sample{Username: "abc", Hours: 1})
	assert.Nil(t, errs, "empty enum and day are left to omitempty")
}
