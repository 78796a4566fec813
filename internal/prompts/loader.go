// Package prompts provides a loader for externalized LLM prompt templates.
// Prompts are stored as JSON files of key/template pairs and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// cache stores parsed prompt files to avoid repeated JSON parsing
var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// placeholderRegex matches an unfilled {{.Key}} placeholder
var placeholderRegex = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Get retrieves a prompt by filename and key, e.g. Get("cleanup.json", "clean-resume-text").
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

// Format replaces {{.Key}} placeholders with values from data. Unknown keys are left as-is.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}
	return result
}

// Render loads a prompt and fills it, failing when a placeholder has no value
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	for _, m := range placeholderRegex.FindAllStringSubmatch(template, -1) {
		if _, ok := data[m[1]]; !ok {
			return "", fmt.Errorf("prompt %s/%s: missing value for %q", filename, key, m[1])
		}
	}
	return Format(template, data), nil
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	prompts, exists := cache[filename]
	cacheMu.RUnlock()
	if exists {
		return prompts, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()
	return prompts, nil
}

// clearCache drops every parsed prompt file
func clearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}
