package runner

import (
	"github.com/gh-nvat/hava-export/src/pkg/config"
	"github.com/gh-nvat/hava-export/src/pkg/validate"
)

const (
	RunModeGitHub = "github"
	RunModeLocal  = "local"
)

type Options struct {
	// Run mode
	RunMode string // "github" or "local"
	Debug   bool   // Debug mode

	// Pipeline inputs
	SourceID      string
	EnvironmentID string // required unless SkipExport
	ViewType      string // infrastructure, security or container; required unless SkipExport
	HavaToken     string
	ImagePath     string // required unless SkipExport
	SkipExport    bool

	// Common options
	ConfigPath                    string // optional YAML file tuning the API client
	EnvFile                       string // optional dotenv file loaded before inputs are resolved
	OutputDir                     string
	EnableExportReport            bool
	EnableExportPerformanceReport bool

	// GitHub mode options, a PR comment is posted when both are set
	GhRepo     string
	GhPrNumber int
}

// Input returns the pipeline inputs to validate
func (o *Options) Input() validate.Input {
	return validate.Input{
		SourceID:      o.SourceID,
		EnvironmentID: o.EnvironmentID,
		ViewType:      o.ViewType,
		Token:         o.HavaToken,
		ImagePath:     o.ImagePath,
		SkipExport:    o.SkipExport,
	}
}

// ApplyInputDefaults fills inputs that were not given on the command line from lookup.
// skipExportSet tells whether --skip-export was passed explicitly.
func (o *Options) ApplyInputDefaults(lookup config.Lookup, skipExportSet bool) {
	fill := func(target *string, name string) {
		if *target == "" {
			*target = lookup.String(name)
		}
	}
	fill(&o.SourceID, "source_id")
	fill(&o.EnvironmentID, "environment_id")
	fill(&o.ViewType, "view_type")
	fill(&o.HavaToken, "hava_token")
	fill(&o.ImagePath, "image_path")

	if !skipExportSet {
		if v, ok := lookup.Bool("skip_export"); ok {
			o.SkipExport = v
		}
	}
}

// CommentEnabled reports whether a PR comment should be posted in github mode
func (o *Options) CommentEnabled() bool {
	return o.GhRepo != "" && o.GhPrNumber > 0
}
