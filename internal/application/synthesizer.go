package app

import "pcb-inspector/internal/domain/entity"

// Synthesize сводит детекции в отчёт: уникальные метки, найденные
// рекомендации и метки без рекомендаций. Функция чистая и не падает
// на пустом входе.
func Synthesize(detections []entity.Detection, table *entity.RemediationTable) *entity.DefectReport {
	report := &entity.DefectReport{
		UniqueLabels: []string{},
		Resolved:     []entity.ResolvedDefect{},
		Unresolved:   []string{},
	}

	seen := make(map[string]struct{}, len(detections))
	for _, d := range detections {
		if _, ok := seen[d.Label]; ok {
			continue
		}
		seen[d.Label] = struct{}{}
		report.UniqueLabels = append(report.UniqueLabels, d.Label)
	}

	for _, label := range report.UniqueLabels {
		record, match, ok := table.Lookup(label)
		if !ok {
			report.Unresolved = append(report.Unresolved, label)
			continue
		}
		report.Resolved = append(report.Resolved, entity.ResolvedDefect{
			Label:  label,
			Record: record,
			Match:  match,
		})
	}

	return report
}
