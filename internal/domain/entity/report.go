package entity

// ResolvedDefect метка, для которой нашлась рекомендация
type ResolvedDefect struct {
	Label  string            `json:"label"`
	Record RemediationRecord `json:"record"`
	Match  MatchKind         `json:"match"`
}

// DefectReport сводка по одному запуску детектора.
// UniqueLabels без остатка делится на Resolved и Unresolved.
type DefectReport struct {
	UniqueLabels []string         `json:"unique_labels"`
	Resolved     []ResolvedDefect `json:"resolved"`
	Unresolved   []string         `json:"unresolved"`
}

// HasSolutions сообщает, есть ли хотя бы одна рекомендация
func (r *DefectReport) HasSolutions() bool {
	return r != nil && len(r.Resolved) > 0
}
