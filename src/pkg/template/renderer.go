package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/gh-nvat/hava-export/src/pkg/models"
)

const summaryTemplate = `### Hava diagram {{ if .Result.Success }}updated{{ else }}update failed{{ end }}

| Stage | Status | Duration |
|-------|--------|----------|
{{- range .Stages }}
| {{ .Name }} | {{ if .Result.Success }}:white_check_mark:{{ else }}:x:{{ end }} | {{ .DurationMs }} ms |
{{- end }}
{{ if .SkipExport }}
Export was skipped.
{{- else if .Result.Success }}
Image written to ` + "`{{ .ImagePath }}`" + ` ({{ .ViewType }} view of environment ` + "`{{ .EnvironmentID }}`" + `).
{{- end }}
{{- if not .Result.Success }}

` + "```" + `
{{ .Result.Message }}
` + "```" + `
{{- end }}
`

// Renderer renders the PR comment for a run report
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("summary").Parse(summaryTemplate)),
	}
}

// Signature returns the hidden marker identifying the comment of a source
func Signature(sourceID string) string {
	return strings.ReplaceAll(ToolCommentSignature, ToolCommentSourceToken, sourceID)
}

// RenderComment renders the report as markdown prefixed with the source signature
func (r *Renderer) RenderComment(data *models.ReportData) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render comment: %w", err)
	}
	return Signature(data.SourceID) + "\n\n" + buf.String(), nil
}
