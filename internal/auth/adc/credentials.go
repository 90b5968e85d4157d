package adc

import (
	"context"
	"time"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"

	"github.com/agentstation/catalogsync/pkg/constants"
	"github.com/agentstation/catalogsync/pkg/errors"
)

// DetectTimeout bounds credential detection.
const DetectTimeout = 2 * time.Second

// Detect finds Application Default Credentials scoped to cloud-platform.
func Detect(ctx context.Context) (*auth.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// DetectDefault does not take a context.
	type result struct {
		creds *auth.Credentials
		err   error
	}
	resultChan := make(chan result, 1)
	go func() {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes: []string{constants.CloudPlatformScope},
		})
		resultChan <- result{creds: creds, err: err}
	}()

	select {
	case res := <-resultChan:
		if res.err != nil {
			return nil, &errors.ConfigError{
				Component: "credentials",
				Message:   "no valid credentials found - run: gcloud auth application-default login",
				Err:       res.err,
			}
		}
		return res.creds, nil
	case <-time.After(DetectTimeout):
		return nil, &errors.ConfigError{
			Component: "credentials",
			Message:   "credential detection timed out",
		}
	case <-ctx.Done():
		return nil, &errors.ConfigError{
			Component: "credentials",
			Message:   "credential detection cancelled",
			Err:       ctx.Err(),
		}
	}
}

// Verify detects credentials and fetches a token, returning the project the
// credentials are bound to when known.
func Verify(ctx context.Context) (string, error) {
	creds, err := Detect(ctx)
	if err != nil {
		return "", err
	}
	if _, err := creds.Token(ctx); err != nil {
		return "", &errors.ConfigError{Component: "credentials", Message: "token request failed", Err: err}
	}
	if pid, err := creds.QuotaProjectID(ctx); err == nil && pid != "" {
		return pid, nil
	}
	if pid, err := creds.ProjectID(ctx); err == nil && pid != "" {
		return pid, nil
	}
	return "", nil
}
