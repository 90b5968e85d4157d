package adc

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/agentstation/catalogsync/pkg/constants"
)

// State is the local authentication state.
type State int

const (
	// StateConfigured means credentials are configured.
	StateConfigured State = iota
	// StateMissing means no credentials were found.
	StateMissing
	// StateInvalid means credentials were found but are malformed.
	StateInvalid
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateMissing:
		return "missing"
	default:
		return "invalid"
	}
}

// Details describes the Google Cloud credentials and targets found locally.
type Details struct {
	State          State     `json:"state" yaml:"state"`
	Type           string    `json:"type,omitempty" yaml:"type,omitempty"`       // "User Credentials" | "Service Account" | "External Account"
	Account        string    `json:"account,omitempty" yaml:"account,omitempty"` // Email address or client ID
	Project        string    `json:"project,omitempty" yaml:"project,omitempty"` // Project ID
	ProjectSource  string    `json:"project_source" yaml:"project_source"`       // Where Project came from
	Location       string    `json:"location" yaml:"location"`                   // Data Catalog location
	LocationSource string    `json:"location_source" yaml:"location_source"`     // Where Location came from
	UniverseDomain string    `json:"universe_domain,omitempty" yaml:"universe_domain,omitempty"`
	ADCPath        string    `json:"adc_path,omitempty" yaml:"adc_path,omitempty"`
	LastAuth       time.Time `json:"last_auth,omitzero" yaml:"last_auth,omitempty"` // ADC file modification time
	ErrorMessage   string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// BuildDetails inspects local credentials. No network calls are made.
func BuildDetails() *Details {
	adcPath := FindFile()
	if adcPath == "" {
		project, projectSource := ResolveProject(nil)
		location, locationSource := ResolveLocation()
		return &Details{
			State:          StateMissing,
			Project:        project,
			ProjectSource:  projectSource,
			Location:       location,
			LocationSource: locationSource,
			ErrorMessage:   "No ADC found. Run: gcloud auth application-default login",
		}
	}

	file, err := ParseFile(adcPath)
	if err != nil {
		return &Details{
			State:        StateInvalid,
			ADCPath:      adcPath,
			ErrorMessage: fmt.Sprintf("ADC file invalid: %v", err),
		}
	}

	details := &Details{
		State:          StateConfigured,
		Type:           credentialType(file.Type),
		Account:        accountIdentifier(file),
		UniverseDomain: universeDomain(file.UniverseDomain),
		ADCPath:        adcPath,
		LastAuth:       fileModTime(adcPath),
	}
	details.Project, details.ProjectSource = ResolveProject(file)
	details.Location, details.LocationSource = ResolveLocation()
	return details
}

func credentialType(adcType string) string {
	switch adcType {
	case TypeServiceAccount:
		return "Service Account"
	case TypeExternalAccount:
		return "External Account"
	default:
		return "User Credentials"
	}
}

// accountIdentifier prefers an email address, then the client id.
func accountIdentifier(file *File) string {
	switch {
	case file.ClientEmail != "":
		return file.ClientEmail
	case file.Account != "":
		return file.Account
	case file.ClientID != "":
		return "(client ID: " + file.ClientID + ")"
	}
	return ""
}

func universeDomain(domain string) string {
	if domain == "" {
		return "googleapis.com"
	}
	return domain
}

func fileModTime(path string) time.Time {
	if stat, err := os.Stat(path); err == nil {
		return stat.ModTime()
	}
	return time.Time{}
}

// ResolveProject determines the project id.
//
// Priority order:
//  1. GOOGLE_CLOUD_PROJECT environment variable
//  2. ADC quota_project_id
//  3. ADC project_id
//  4. gcloud config (core/project)
//
// file may be nil. Returns "" and "not set" when nothing is found.
func ResolveProject(file *File) (project, source string) {
	if env := os.Getenv("GOOGLE_CLOUD_PROJECT"); env != "" {
		return env, "env (GOOGLE_CLOUD_PROJECT)"
	}
	if file != nil && file.QuotaProjectID != "" {
		return file.QuotaProjectID, "ADC (quota_project_id)"
	}
	if file != nil && file.ProjectID != "" {
		return file.ProjectID, "ADC (project_id)"
	}
	if project := ReadConfig("core/project"); project != "" {
		return project, "gcloud config"
	}
	return "", "not set"
}

// ResolveLocation determines the Data Catalog location.
//
// Priority order:
//  1. DATACATALOG_LOCATION environment variable
//  2. gcloud config (compute/region)
//  3. Default: us
func ResolveLocation() (location, source string) {
	if env := os.Getenv("DATACATALOG_LOCATION"); env != "" {
		return env, "env (DATACATALOG_LOCATION)"
	}
	if region := ReadConfig("compute/region"); region != "" {
		return region, "gcloud config"
	}
	return constants.DefaultLocation, "default"
}

// FormatBrief returns a one-line summary, e.g.
// "User Credentials, Project: my-project, Location: us".
func FormatBrief(details *Details) string {
	if details.State != StateConfigured {
		return details.ErrorMessage
	}
	parts := []string{details.Type}
	if details.Project != "" {
		parts = append(parts, fmt.Sprintf("Project: %s", details.Project))
	} else {
		parts = append(parts, "No project set")
	}
	parts = append(parts, fmt.Sprintf("Location: %s", details.Location))
	return strings.Join(parts, ", ")
}
