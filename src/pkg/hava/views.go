package hava

import (
	"context"
	"net/http"
	"strings"

	"github.com/gh-nvat/hava-export/src/pkg/models"
	"github.com/gh-nvat/hava-export/src/pkg/trace"
)

// viewTypeNames lists the supported view types in the order they are reported
var viewTypeNames = []string{"infrastructure", "security", "container"}

// viewTypeTags maps supported view types to the type tags used by the API.
// Read only after init.
var viewTypeTags = map[string]string{
	"infrastructure": "Views::Infrastructure",
	"security":       "Views::Security",
	"container":      "Views::Container",
}

// ViewTypeTag returns the API type tag for a view type name. Lookup is case-sensitive.
func ViewTypeTag(viewType string) (string, bool) {
	tag, ok := viewTypeTags[viewType]
	return tag, ok
}

// SupportedViewTypes returns the accepted view type names
func SupportedViewTypes() []string {
	out := make([]string, len(viewTypeNames))
	copy(out, viewTypeNames)
	return out
}

// ValidateViewType checks viewType is one of the supported names, exact match only
func ValidateViewType(viewType string) models.Result {
	if _, ok := ViewTypeTag(viewType); !ok {
		return models.Failed(models.FailureValidation,
			"View type '%s' not known, supported values are: %s", viewType, strings.Join(viewTypeNames, ","))
	}
	return models.Succeeded("")
}

// ResolveViewID returns the id of the first view of viewType in the environment.
// More than one match is logged as a warning and the first one wins.
func (c *Client) ResolveViewID(ctx context.Context, environmentID, viewType string) models.Result {
	ctx, span := trace.StartSpan(ctx, "ResolveViewID")
	defer span.End()

	lg := logger.WithField("environmentId", environmentID).WithField("viewType", viewType)

	tag, ok := ViewTypeTag(viewType)
	if !ok {
		return ValidateViewType(viewType)
	}

	resp, err := c.do(ctx, c.api, http.MethodGet, c.url("/environments/%s", environmentID), nil)
	if err != nil {
		return models.Failed(models.FailureTransport, "failed to request environment '%s': %v", environmentID, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return models.Failed(models.FailureAuth, unauthorizedMessage)
	case http.StatusNotFound:
		return models.Failed(models.FailureNotFound,
			"Export request to environment with ID '%s' failed because an environment with that ID was not found", environmentID)
	default:
		return models.Failed(models.FailureUnexpectedStatus,
			"Unknown error code returned when requesting environment details: '%d'", resp.StatusCode)
	}

	var env models.Environment
	if err := resp.decode(&env); err != nil {
		return models.Failed(models.FailureTransport, "invalid environment '%s': %v", environmentID, err)
	}

	var matches []models.View
	for _, v := range env.Views {
		if v.Type == tag {
			matches = append(matches, v)
		}
	}

	if len(matches) == 0 {
		return models.Failed(models.FailureNotFound,
			"No views matching type '%s' on environment with id '%s'", viewType, environmentID)
	}
	if len(matches) > 1 {
		lg.WithField("matches", len(matches)).Warnf("Multiple views of type '%s' found, selecting the first one!", viewType)
	}

	lg.WithField("viewId", matches[0].ID).Info("View found")
	return models.Succeeded(matches[0].ID)
}
