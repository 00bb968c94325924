package describer

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/infrastructure/remediation"
)

const (
	msgNoDefects   = "No defects were detected in this image."
	msgNoSolutions = "No matching solutions found for the detected defects."
)

var funcs = template.FuncMap{
	"display": entity.DisplayName,
	"safety":  func() string { return remediation.SafetyNote },
}

var reportTemplate = template.Must(template.New("report").Funcs(funcs).Parse(
	`{{- if not .Detections -}}
` + msgNoDefects + `
{{- else -}}
Defects Detected:
{{- range .Detections }}
- {{ display .Label }}: Confidence: {{ printf "%.2f" .Confidence }}
{{- end }}

Suggested Solutions:
{{- range .Report.Resolved }}

Solution for {{ display .Label }}
Suggested Repair Steps:
{{ .Record.SolutionSteps }}
{{- end }}
{{- range .Report.Unresolved }}

No solution available for defect type: '{{ . }}'
{{- end }}
{{- if not .Report.HasSolutions }}

` + msgNoSolutions + `
{{- else }}

{{ safety }}
{{- end }}
{{- end }}`))

var catalogueTemplate = template.Must(template.New("catalogue").Funcs(funcs).Parse(
	`What Our Model Detects
{{- range . }}

{{ display .DefectKey }}
Description: {{ .Description }}
Suggested Solution: {{ .SolutionSteps }}
{{- end }}`))

// TemplateDescriber строит текстовый отчёт по шаблону
type TemplateDescriber struct{}

// New создаёт описатель отчётов
func New() *TemplateDescriber {
	return &TemplateDescriber{}
}

// Describe генерирует текст для пользователя
func (d *TemplateDescriber) Describe(ctx context.Context, result *entity.InspectionResult, report *entity.DefectReport) (*entity.Description, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if report == nil {
		report = &entity.DefectReport{}
	}
	var detections []entity.Detection
	if result != nil {
		detections = result.Detections
	}

	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, struct {
		Detections []entity.Detection
		Report     *entity.DefectReport
	}{detections, report})
	if err != nil {
		return nil, err
	}
	return &entity.Description{Text: strings.TrimSpace(buf.String())}, nil
}

// Catalogue описание всех известных дефектов для главной страницы
func Catalogue(table *entity.RemediationTable) (string, error) {
	var buf bytes.Buffer
	if err := catalogueTemplate.Execute(&buf, table.Records()); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// Проверка реализации интерфейса
var _ port.ReportDescriber = (*TemplateDescriber)(nil)
