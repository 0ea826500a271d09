// Package schemas embeds the JSON Schemas used to validate backend payloads
// at the API boundary before they enter the core data model.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var fs embed.FS

// Names of the embedded schemas.
const (
	AuthResponse    = "auth_response"
	ExperienceState = "experience_state"
	JobStatus       = "job_status"
	Profile         = "profile"
)

// Read returns the schema document with the given name.
func Read(name string) (string, error) {
	data, err := fs.ReadFile(name + ".schema.json")
	if err != nil {
		return "", fmt.Errorf("unknown schema %q: %w", name, err)
	}
	return string(data), nil
}
