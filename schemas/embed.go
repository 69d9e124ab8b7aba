// Package schemas holds the JSON Schemas that collaborator responses are checked against.
package schemas

import "embed"

// Files contains every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS

// Schema file names.
const (
	AnalysisResponse = "analysis_response.schema.json"
	PlanResponse     = "plan_response.schema.json"
)
