package remediation

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pcb-inspector/internal/domain/entity"
)

// SafetyNote показывается рядом с каждой рекомендацией
const SafetyNote = "Important Note: These are general suggestions only. Please take proper precautions, use appropriate safety equipment, and conduct your own research or consult with qualified professionals before attempting any repairs. Always follow industry standards and safety protocols when working with electronic components."

//go:embed remediation.yaml
var defaultDocument []byte

type document struct {
	Defects []entity.RemediationRecord `yaml:"defects"`
}

// Default возвращает встроенную таблицу из шести записей.
func Default() *entity.RemediationTable {
	table, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded remediation table: %v", err))
	}
	return table
}

// Load читает таблицу из файла, при пустом пути берёт встроенную.
func Load(path string) (*entity.RemediationTable, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read remediation file: %w", err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Parse разбирает YAML-документ с таблицей рекомендаций.
func Parse(data []byte) (*entity.RemediationTable, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse remediation yaml: %w", err)
	}
	if len(doc.Defects) == 0 {
		return nil, fmt.Errorf("remediation table is empty")
	}

	seen := make(map[string]struct{}, len(doc.Defects))
	for i, rec := range doc.Defects {
		if strings.TrimSpace(rec.DefectKey) == "" {
			return nil, fmt.Errorf("defect #%d: empty key", i+1)
		}
		if strings.TrimSpace(rec.SolutionSteps) == "" {
			return nil, fmt.Errorf("defect %q: empty solution", rec.DefectKey)
		}
		if _, dup := seen[rec.DefectKey]; dup {
			return nil, fmt.Errorf("defect %q: duplicate key", rec.DefectKey)
		}
		seen[rec.DefectKey] = struct{}{}

		if entity.Normalize(rec.DefectKey) == entity.DefectUnknown {
			log.Printf("remediation: key %q is not a known defect class", rec.DefectKey)
		}
	}

	return entity.NewRemediationTable(doc.Defects...), nil
}
