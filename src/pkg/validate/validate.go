package validate

import (
	"regexp"
	"strings"

	"github.com/gh-nvat/hava-export/src/pkg/hava"
	"github.com/gh-nvat/hava-export/src/pkg/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "validate")

// imagePathPattern accepts an optional leading '.', then letters, digits and '/', then ".png"
var imagePathPattern = regexp.MustCompile(`^\.?[/A-Za-z0-9]+\.png$`)

const invalidPathMessage = "Invalid path, please limit the path to alphanumeric characters and forward slash for folders"

// Input is the set of user supplied parameters of a run
type Input struct {
	SourceID      string
	EnvironmentID string
	ViewType      string
	Token         string
	ImagePath     string
	SkipExport    bool
}

// UUID reports whether s is a canonical hyphenated UUID
func UUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ImagePath checks path is a relative or absolute .png path made of letters, digits and '/'
func ImagePath(path string) models.Result {
	if strings.Contains(path, "..") || !imagePathPattern.MatchString(path) {
		return models.Failed(models.FailureValidation, invalidPathMessage)
	}
	return models.Succeeded("")
}

// ViewType checks viewType is a supported view type, case-sensitive
func ViewType(viewType string) models.Result {
	return hava.ValidateViewType(viewType)
}

// UserInput validates every rule that applies to in and reports all violations at once,
// one per line. Environment id, view type and image path are only checked when export runs.
func UserInput(in Input) models.Result {
	logger.Info("Validating User Input")

	var errs []string
	fail := func(msg string) {
		logger.Error(msg)
		errs = append(errs, msg)
	}

	if !UUID(in.SourceID) {
		fail("Source Id '" + in.SourceID + "' is not well formed, should be a UUID")
	}

	if in.Token == "" {
		fail("Hava token is not set")
	}

	if !in.SkipExport {
		if in.EnvironmentID == "" {
			fail("Environment Id is required when skip_export is false")
		} else if !UUID(in.EnvironmentID) {
			fail("Environment Id '" + in.EnvironmentID + "' is not well formed, should be a UUID")
		}

		if in.ViewType == "" {
			fail("View type is required when skip_export is false")
		} else if res := ViewType(in.ViewType); !res.Success {
			fail(res.Message)
		}

		if res := ImagePath(in.ImagePath); !res.Success {
			fail(res.Message)
		}
	}

	if len(errs) > 0 {
		return models.Failed(models.FailureValidation, "%s", strings.Join(errs, "\n"))
	}

	logger.Info("Input Validation Complete!")
	return models.Succeeded("")
}
