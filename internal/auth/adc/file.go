// Package adc inspects Google Application Default Credentials and resolves the
// project and location a catalogsync run targets.
package adc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/agentstation/catalogsync/pkg/errors"
)

// Credential file types.
const (
	TypeAuthorizedUser  = "authorized_user"  // gcloud auth application-default login
	TypeServiceAccount  = "service_account"  // service account key
	TypeExternalAccount = "external_account" // workload identity federation
)

var knownTypes = []string{TypeAuthorizedUser, TypeServiceAccount, TypeExternalAccount}

// File is the subset of an ADC JSON file catalogsync reports on.
type File struct {
	Type           string `json:"type"`
	QuotaProjectID string `json:"quota_project_id"`
	ProjectID      string `json:"project_id"`
	ClientEmail    string `json:"client_email"`
	Account        string `json:"account"`
	ClientID       string `json:"client_id"`
	UniverseDomain string `json:"universe_domain"`
}

// gcloudDir is the gcloud configuration directory, CLOUDSDK_CONFIG when set.
func gcloudDir() string {
	if dir := os.Getenv("CLOUDSDK_CONFIG"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gcloud")
}

// FindFile returns the first existing ADC file among
// GOOGLE_APPLICATION_CREDENTIALS and the gcloud well-known file, or "".
func FindFile() string {
	candidates := []string{os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")}
	if dir := gcloudDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "application_default_credentials.json"))
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ParseFile reads an ADC file and checks its type.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- ADC file location chosen by the user
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	if file.Type == "" {
		return nil, errors.NewValidationError("type", nil, "credential type is missing")
	}
	if !slices.Contains(knownTypes, file.Type) {
		return nil, errors.NewValidationError("type", file.Type, "unknown credential type "+file.Type)
	}
	return &file, nil
}
