package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateString_ValidJobProfile(t *testing.T) {
	doc := `{
		"title": "Backend Engineer",
		"company": "Acme",
		"required_skills": ["Go", "PostgreSQL"],
		"responsibilities": ["Build services"],
		"keywords": ["go", "postgresql"]
	}`

	err := ValidateString(NameJobProfile, JobProfile, doc)
	assert.NoError(t, err)
}

func TestValidateString_MissingRequiredField(t *testing.T) {
	doc := `{
		"title": "Backend Engineer",
		"required_skills": [],
		"responsibilities": [],
		"keywords": []
	}`

	err := ValidateString(NameJobProfile, JobProfile, doc)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, NameJobProfile, verr.Schema)
	assert.NotEmpty(t, verr.Errors)
	assert.Contains(t, err.Error(), "company")
}

func TestValidateString_WrongType(t *testing.T) {
	doc := `{
		"title": "Backend Engineer",
		"company": "Acme",
		"required_skills": "Go",
		"responsibilities": [],
		"keywords": []
	}`

	var verr *ValidationError
	err := ValidateString(NameJobProfile, JobProfile, doc)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, NameJobProfile, verr.Schema)
}

func TestValidateString_MalformedJSON(t *testing.T) {
	var verr *ValidationError
	err := ValidateString(NameJobProfile, JobProfile, `{not json`)
	require.ErrorAs(t, err, &verr)
}

func TestValidateString_UnknownOperationRejected(t *testing.T) {
	doc := `{
		"directives": [
			{
				"target_section": "Experience",
				"operation": "DELETE_EVERYTHING",
				"new_text": "",
				"justification": "test"
			}
		]
	}`

	var verr *ValidationError
	err := ValidateString(NameEditPlan, EditPlan, doc)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, NameEditPlan, verr.Schema)
}

func TestValidateString_ValidEditPlan(t *testing.T) {
	doc := `{
		"strategy": "Emphasize backend experience",
		"directives": [
			{
				"target_section": "Experience",
				"operation": "REWRITE_BULLET",
				"original_text": "Built internal tools",
				"new_text": "Engineered internal developer tools",
				"justification": "Matches role focus"
			}
		]
	}`

	assert.NoError(t, ValidateString(NameEditPlan, EditPlan, doc))
}

func TestValidateStruct_Violations(t *testing.T) {
	type sample struct {
		Title   string `validate:"required"`
		Company string `validate:"required"`
	}

	err := ValidateStruct("sample", sample{Title: "Engineer"})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sample", verr.Schema)
	require.Len(t, verr.Errors, 1)
	assert.Contains(t, verr.Errors[0].Field, "Company")
}

func TestValidateStruct_Valid(t *testing.T) {
	type sample struct {
		Title string `validate:"required"`
	}

	assert.NoError(t, ValidateStruct("sample", sample{Title: "Engineer"}))
}

func TestByName(t *testing.T) {
	for _, name := range []string{NameJobProfile, NameCompanyBrief, NameEditPlan} {
		content, ok := ByName(name)
		assert.True(t, ok, name)
		assert.NotEmpty(t, content, name)
	}

	_, ok := ByName("unknown")
	assert.False(t, ok)
}
