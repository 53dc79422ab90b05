package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"
)

// Layout controls how rows are laid out in the generated document
type Layout string

const (
	LayoutTable     Layout = "table"
	LayoutChecklist Layout = "checklist"
)

// Column maps a source field to a display label
type Column struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}

// Template describes one document type
type Template struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Layout      Layout   `yaml:"layout" json:"layout"`
	Columns     []Column `yaml:"columns" json:"columns,omitempty"`
	SumColumns  []string `yaml:"sum_columns" json:"sumColumns,omitempty"`
	Intro       []string `yaml:"intro" json:"intro,omitempty"`
	Footer      []string `yaml:"footer" json:"footer,omitempty"`
	BuiltIn     bool     `yaml:"-" json:"builtIn"`
}

func builtinTemplates() []*Template {
	return []*Template{
		{
			ID: "order", Name: "발주서", Title: "발 주 서", Layout: LayoutTable,
			Description: "Purchase order listing items, quantities and amounts",
			Columns: []Column{
				{Key: "item", Label: "품목"},
				{Key: "spec", Label: "규격"},
				{Key: "quantity", Label: "수량"},
				{Key: "unitPrice", Label: "단가"},
				{Key: "amount", Label: "금액"},
				{Key: "note", Label: "비고"},
			},
			SumColumns: []string{"quantity", "amount"},
			Intro:      []string{"아래와 같이 발주합니다."},
		},
		{
			ID: "report", Name: "보고서", Title: "보 고 서", Layout: LayoutTable,
			Description: "Tabular report of the uploaded rows",
		},
		{
			ID: "checklist", Name: "체크리스트", Title: "체크리스트", Layout: LayoutChecklist,
			Description: "One checkbox line per row",
		},
		{
			ID: "invoice", Name: "인보이스", Title: "INVOICE", Layout: LayoutTable,
			Description: "Invoice with line items and totals",
			Columns: []Column{
				{Key: "description", Label: "Description"},
				{Key: "quantity", Label: "Qty"},
				{Key: "unitPrice", Label: "Unit Price"},
				{Key: "amount", Label: "Amount"},
			},
			SumColumns: []string{"amount"},
		},
		{
			ID: "contract", Name: "계약서", Title: "계 약 서", Layout: LayoutTable,
			Description: "Contract terms table with signature lines",
			Footer:      []string{"갑: ____________________ (인)", "을: ____________________ (인)"},
		},
		{
			ID: "custom", Name: "커스텀", Title: "문서", Layout: LayoutTable,
			Description: "Generic table of every uploaded field",
		},
	}
}

// Registry holds built-in and file-loaded templates
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry creates a registry seeded with the built-in templates
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]*Template)}
	for _, t := range builtinTemplates() {
		t.BuiltIn = true
		r.templates[t.ID] = t
	}
	return r
}

// LoadDir reads every *.yaml / *.yml file in dir. A file may override a
// built-in template by reusing its id. A missing dir is not an error.
func (r *Registry) LoadDir(dir string, logger arbor.ILogger) (int, error) {
	if dir == "" {
		return 0, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read templates dir: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		tmpl, err := loadTemplateFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Skipping invalid document template")
			continue
		}

		r.mu.Lock()
		r.templates[tmpl.ID] = tmpl
		r.mu.Unlock()
		loaded++

		logger.Debug().Str("id", tmpl.ID).Str("file", path).Msg("Loaded document template")
	}

	return loaded, nil
}

func loadTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	if tmpl.ID == "" {
		tmpl.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if tmpl.Name == "" {
		tmpl.Name = tmpl.ID
	}
	if tmpl.Title == "" {
		tmpl.Title = tmpl.Name
	}
	switch tmpl.Layout {
	case "":
		tmpl.Layout = LayoutTable
	case LayoutTable, LayoutChecklist:
	default:
		return nil, fmt.Errorf("unknown layout %q", tmpl.Layout)
	}

	return &tmpl, nil
}

// Get returns a template by id
func (r *Registry) Get(id string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	return t, ok
}

// List returns all templates ordered built-ins first, then by id
func (r *Registry) List() []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].BuiltIn != list[j].BuiltIn {
			return list[i].BuiltIn
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// DisplayName returns the template's display name, or the id itself when unknown
func (r *Registry) DisplayName(id string) string {
	if t, ok := r.Get(id); ok {
		return t.Name
	}
	return id
}
