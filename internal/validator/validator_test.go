package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_BootcampCreate(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		req := CreateBootcampRequest{
			Name:        "Devworks Bootcamp",
			Description: "A great place to learn",
			Address:     "233 Bay State Rd",
			Careers:     []string{"Web Development", "Business"},
		}
		assert.Nil(t, v.Validate(&req))
	})

	t.Run("missing required fields", func(t *testing.T) {
		errs := v.Validate(&CreateBootcampRequest{})
		require.NotEmpty(t, errs)

		fields := map[string]bool{}
		for _, e := range errs {
			fields[e.Field] = true
		}
		assert.True(t, fields["Name"])
		assert.True(t, fields["Description"])
		assert.True(t, fields["Address"])
		assert.True(t, fields["Careers"])
	})

	t.Run("unknown career", func(t *testing.T) {
		req := CreateBootcampRequest{
			Name:        "Devworks",
			Description: "d",
			Address:     "addr",
			Careers:     []string{"Underwater Basket Weaving"},
		}
		errs := v.Validate(&req)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "not a recognized career")
	})
}

func TestValidate_RegisterRoleRestricted(t *testing.T) {
	v := New()

	req := RegisterRequest{Name: "n", Email: "a@b.co", Password: "secret1", Role: "admin"}
	errs := v.Validate(&req)
	require.Len(t, errs, 1)
	assert.Equal(t, "Role", errs[0].Field)
}

func TestValidate_ReviewRatingBounds(t *testing.T) {
	v := New()

	errs := v.Validate(&CreateReviewRequest{Title: "t", Text: "x", Rating: 11})
	require.Len(t, errs, 1)
	assert.Equal(t, "Rating", errs[0].Field)

	assert.Nil(t, v.Validate(&CreateReviewRequest{Title: "t", Text: "x", Rating: 10}))
}

func TestValidationErrors_MessageAggregation(t *testing.T) {
	errs := ValidationErrors{
		{Field: "Name", Message: "Please add a name"},
		{Field: "Email", Message: "Please use a valid email address"},
	}
	assert.Equal(t, "Please add a name, Please use a valid email address", errs.Error())
}
