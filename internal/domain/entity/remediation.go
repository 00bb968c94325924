package entity

import "strings"

// RemediationRecord описание дефекта и шаги по его устранению
type RemediationRecord struct {
	DefectKey     string `json:"defect_key" yaml:"key"`
	Description   string `json:"description" yaml:"description"`
	SolutionSteps string `json:"solution_steps" yaml:"solution"`
}

// MatchKind способ, которым метка нашлась в таблице
type MatchKind string

const (
	MatchExact           MatchKind = "exact"
	MatchCaseInsensitive MatchKind = "case_insensitive"
)

// RemediationTable неизменяемая таблица рекомендаций.
// Порядок записей сохраняется; при совпадении ключей без учёта регистра
// побеждает запись, стоящая раньше.
type RemediationTable struct {
	records []RemediationRecord
	exact   map[string]int
	folded  map[string]int
}

// NewRemediationTable строит таблицу и индексы один раз.
func NewRemediationTable(records ...RemediationRecord) *RemediationTable {
	t := &RemediationTable{
		records: make([]RemediationRecord, 0, len(records)),
		exact:   make(map[string]int, len(records)),
		folded:  make(map[string]int, len(records)),
	}
	for _, r := range records {
		if _, dup := t.exact[r.DefectKey]; dup {
			continue
		}
		idx := len(t.records)
		t.records = append(t.records, r)
		t.exact[r.DefectKey] = idx
		key := strings.ToLower(r.DefectKey)
		if _, seen := t.folded[key]; !seen {
			t.folded[key] = idx
		}
	}
	return t
}

// Lookup ищет запись сначала по точному ключу, затем без учёта регистра.
func (t *RemediationTable) Lookup(label string) (RemediationRecord, MatchKind, bool) {
	if t == nil {
		return RemediationRecord{}, "", false
	}
	if idx, ok := t.exact[label]; ok {
		return t.records[idx], MatchExact, true
	}
	if idx, ok := t.folded[strings.ToLower(label)]; ok {
		return t.records[idx], MatchCaseInsensitive, true
	}
	return RemediationRecord{}, "", false
}

// Records возвращает копию записей в порядке таблицы
func (t *RemediationTable) Records() []RemediationRecord {
	if t == nil {
		return nil
	}
	out := make([]RemediationRecord, len(t.records))
	copy(out, t.records)
	return out
}

func (t *RemediationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}
