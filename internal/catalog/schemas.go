// internal/catalog/schemas.go
package catalog

// Row schemas for catalog validation. Rows failing these are logged and
// skipped rather than failing the dataset load.

const programSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"sponsor": {"type": "string"},
		"type": {"type": "string"},
		"bankType": {"type": "string"},
		"eligibility": {
			"type": "object",
			"properties": {
				"stages": {"type": "array", "items": {"type": "string"}},
				"sectors": {"type": "array", "items": {"type": "string"}},
				"minRevenue": {"type": "number"},
				"maxRevenue": {"type": "number"},
				"states": {"type": "array", "items": {"type": "string"}},
				"services": {"type": "string"},
				"specialCriteria": {"type": "array", "items": {"type": "string"}}
			}
		},
		"minLoanAmount": {"type": "number"},
		"maxLoanAmount": {"type": "number"},
		"benefits": {"type": "string"},
		"documents": {"type": "array", "items": {"type": "string"}},
		"contact": {"type": "string"},
		"applyUrl": {"type": "string"}
	}
}`

const schemeSchema = `{
	"type": "object",
	"required": ["schemeName"],
	"properties": {
		"schemeName": {"type": "string", "minLength": 1},
		"ministry": {"type": "string"},
		"category": {"type": "string"},
		"eligibility": {"type": "string"},
		"benefits": {"type": "string"},
		"maxAssistance": {"type": "string"},
		"officialLink": {"type": "string"},
		"status": {"type": "string"}
	}
}`

const ruleSchema = `{
	"type": "object",
	"required": ["scheme", "match"],
	"properties": {
		"scheme": {"type": "string", "minLength": 1},
		"match": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}
}`
