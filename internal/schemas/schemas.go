package schemas

// Schema names, used in validation error messages and by the validate command.
const (
	NameJobProfile   = "job_profile"
	NameCompanyBrief = "company_brief"
	NameEditPlan     = "edit_plan"
)

// JobProfile is the JSON Schema for reasoning-service job extraction output
const JobProfile = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "JobProfile",
  "type": "object",
  "required": ["title", "company", "required_skills", "responsibilities", "keywords"],
  "properties": {
    "title": {"type": "string"},
    "company": {"type": "string"},
    "location": {"type": "string"},
    "seniority": {"type": "string"},
    "required_skills": {"type": "array", "items": {"type": "string"}},
    "preferred_skills": {"type": "array", "items": {"type": "string"}},
    "responsibilities": {"type": "array", "items": {"type": "string"}},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "raw_source_url": {"type": "string"}
  }
}`

// CompanyBrief is the JSON Schema for research synthesis output
const CompanyBrief = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "CompanyBrief",
  "type": "object",
  "required": ["mission", "tech_stack", "culture_notes", "recent_news"],
  "properties": {
    "mission": {"type": "string"},
    "tech_stack": {"type": "array", "items": {"type": "string"}},
    "culture_notes": {"type": "array", "items": {"type": "string"}},
    "recent_news": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["headline", "source_url"],
        "properties": {
          "headline": {"type": "string"},
          "date": {"type": "string"},
          "source_url": {"type": "string"}
        }
      }
    }
  }
}`

// EditPlan is the JSON Schema for strategist output
const EditPlan = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "EditPlan",
  "type": "object",
  "required": ["directives"],
  "properties": {
    "strategy": {"type": "string"},
    "directives": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["target_section", "operation", "new_text", "justification"],
        "properties": {
          "target_section": {"type": "string"},
          "operation": {
            "type": "string",
            "enum": ["REWRITE_BULLET", "INJECT_KEYWORD", "ADD_BULLET", "REMOVE_BULLET"]
          },
          "original_text": {"type": "string"},
          "new_text": {"type": "string"},
          "justification": {"type": "string"}
        }
      }
    }
  }
}`

// ByName maps artifact names to their schema content
func ByName(name string) (string, bool) {
	switch name {
	case NameJobProfile:
		return JobProfile, true
	case NameCompanyBrief:
		return CompanyBrief, true
	case NameEditPlan:
		return EditPlan, true
	}
	return "", false
}
