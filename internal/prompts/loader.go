// Package prompts provides a loader for externalized LLM prompt templates.
// Prompts are stored as JSON files (key -> template) and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt file names.
const (
	CompatibilityFile = "compatibility.json"
	RoadmapFile       = "roadmap.json"
)

// Prompt keys.
const (
	KeyAnalyzeCompatibility = "analyze-compatibility"
	KeyGenerateRoadmap      = "generate-roadmap"
	KeyFocusGaps            = "focus-gaps"
	KeyFocusReadiness       = "focus-readiness"
)

// required lists every key the analysis collaborators render.
var required = map[string][]string{
	CompatibilityFile: {KeyAnalyzeCompatibility},
	RoadmapFile:       {KeyGenerateRoadmap, KeyFocusGaps, KeyFocusReadiness},
}

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves a prompt by filename and key.
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// Render loads a prompt and fills its placeholders.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(template, data), nil
}

// Format replaces placeholders of the form {{.Key}} with values from data.
// Unknown placeholders are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	// A single pass keeps substituted values from being re-expanded.
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the prompt keys in a file, sorted.
func List(filename string) ([]string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prompts))
	for key, text := range prompts {
		if strings.TrimSpace(text) != "" {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Verify checks that every embedded prompt file parses and carries a
// non-empty template for each key the collaborators render.
func Verify() error {
	return verify(required)
}

func verify(want map[string][]string) error {
	var missing []string
	for _, filename := range slices.Sorted(maps.Keys(want)) {
		keys, err := List(filename)
		if err != nil {
			return err
		}
		for _, key := range want[filename] {
			if !slices.Contains(keys, key) {
				missing = append(missing, filename+":"+key)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing prompts: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if prompts, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return prompts, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}
