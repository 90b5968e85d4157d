package adc

import (
	"os"
	"path/filepath"
	"strings"
)

// ReadConfig reads a key from the active gcloud configuration. Keys are
// "section/name", e.g. "core/project" or "compute/region"; a bare name is
// looked up in [core]. Returns "" when the file or key is absent.
func ReadConfig(key string) string {
	dir := gcloudDir()
	if dir == "" {
		return ""
	}
	return readConfigFrom(dir, key)
}

func readConfigFrom(gcloudDir, key string) string {
	configPath := filepath.Join(gcloudDir, "configurations", "config_"+activeConfig(gcloudDir))
	data, err := os.ReadFile(configPath) // #nosec G304 -- Reading well-known gcloud config file
	if err != nil {
		return ""
	}

	section, name, found := strings.Cut(key, "/")
	if !found {
		section, name = "core", key
	}
	return parseINIValue(string(data), section, name)
}

// activeConfig returns the active gcloud configuration name, "default" when unset.
func activeConfig(gcloudDir string) string {
	data, err := os.ReadFile(filepath.Join(gcloudDir, "active_config")) // #nosec G304 -- Reading well-known gcloud config file
	if err != nil {
		return "default"
	}
	if name := strings.TrimSpace(string(data)); name != "" {
		return name
	}
	return "default"
}

// parseINIValue returns the value of name within [section].
func parseINIValue(content, section, name string) string {
	var current string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.Trim(line, "[]")
			continue
		}
		if current != section {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(k) == name {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
