package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemForm struct {
	ProductID string `validate:"required"`
	Name      string `validate:"required,min=1,max=500"`
	Price     int64  `validate:"gte=0"`
	Quantity  int    `validate:"required,gte=1"`
}

func TestValidate_Passes(t *testing.T) {
	form := addItemForm{
		ProductID: "helmet-x1",
		Name:      "Carbon Full-Face Helmet",
		Price:     24999,
		Quantity:  2,
	}
	assert.NoError(t, Validate(form))
}

func TestValidate_CollectsFieldFailures(t *testing.T) {
	form := addItemForm{Price: -1}

	err := Validate(form)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := verr.Fields()
	assert.Equal(t, "is required", fields["ProductID"])
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be greater than or equal to 0", fields["Price"])
	assert.Contains(t, verr.Error(), "field 'ProductID' is required")
}

func TestValidate_TagMessages(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Currency string `validate:"len=3"`
		Sort     string `validate:"oneof=newest price_asc price_desc name"`
	}

	err := Validate(form{Email: "not-an-email", Currency: "USDD", Sort: "rating"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := verr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be exactly 3 characters", fields["Currency"])
	assert.Equal(t, "must be one of: newest price_asc price_desc name", fields["Sort"])
}
