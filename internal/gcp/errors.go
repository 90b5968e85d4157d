// Package gcp holds what the Google Cloud API adapters share.
package gcp

import (
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/agentstation/catalogsync/pkg/errors"
)

// Classify maps a REST failure onto the closed error kind set.
func Classify(err error) errors.Kind {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return errors.KindUnknown
	}
	switch gerr.Code {
	case http.StatusNotFound, http.StatusForbidden:
		return errors.KindNotFound
	case http.StatusConflict:
		return errors.KindAlreadyExists
	case http.StatusPreconditionFailed:
		return errors.KindPreconditionFailed
	case http.StatusBadRequest:
		if strings.Contains(gerr.Body, "FAILED_PRECONDITION") {
			return errors.KindPreconditionFailed
		}
	}
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "notFound", "forbidden":
			return errors.KindNotFound
		case "alreadyExists", "duplicate":
			return errors.KindAlreadyExists
		case "conditionNotMet", "failedPrecondition":
			return errors.KindPreconditionFailed
		}
	}
	return errors.KindUnknown
}

// Wrap converts a REST failure into an *errors.CatalogError.
func Wrap(op, resource, name string, err error) error {
	return errors.WrapCatalog(op, resource, name, Classify(err), err)
}
