package report

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// CellFormatter renders one cell. base produces the default display string.
type CellFormatter func(value any, row []any, column Column, data Row, base FormatFunc) string

// ExecuteFunc runs a report for resolved filter values.
type ExecuteFunc func(source Source, values Values) (Result, error)

// Descriptor is the registered configuration of one report.
type Descriptor struct {
	Name      string
	Filters   []Filter
	Columns   []Column
	Formatter CellFormatter
	Execute   ExecuteFunc
	// Validate runs after filter values are resolved.
	Validate func(values Values) error
}

// Slug is the URL form of the report name.
func (d Descriptor) Slug() string {
	return Slug(d.Name)
}

// Filter returns the filter with the given fieldname.
func (d Descriptor) Filter(fieldname string) (Filter, bool) {
	for _, filter := range d.Filters {
		if filter.Fieldname == fieldname {
			return filter, true
		}
	}
	return Filter{}, false
}

// FormatCell applies the descriptor formatter, or base alone when the report has none.
func (d Descriptor) FormatCell(value any, row []any, column Column, data Row, base FormatFunc) string {
	if base == nil {
		base = PlainFormatter
	}
	if d.Formatter == nil {
		return base(value, row, column, data)
	}
	return d.Formatter(value, row, column, data, base)
}

type Registry struct {
	mu      sync.RWMutex
	reports map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{reports: make(map[string]Descriptor)}
}

func (r *Registry) Register(descriptor Descriptor) error {
	name := strings.TrimSpace(descriptor.Name)
	if name == "" {
		return fmt.Errorf("report name is required")
	}
	if descriptor.Execute == nil {
		return fmt.Errorf("report %q has no execute function", name)
	}

	seen := make(map[string]struct{}, len(descriptor.Filters))
	for _, filter := range descriptor.Filters {
		if _, exists := seen[filter.Fieldname]; exists {
			return fmt.Errorf("report %q: duplicate filter %q", name, filter.Fieldname)
		}
		seen[filter.Fieldname] = struct{}{}
	}

	key := Slug(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reports[key]; exists {
		return fmt.Errorf("report %q already registered", name)
	}
	r.reports[key] = descriptor
	return nil
}

// Lookup finds a report by name or slug.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.reports[Slug(name)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}
	return descriptor, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.reports))
	for _, descriptor := range r.reports {
		names = append(names, descriptor.Name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Register adds a report to the process-wide registry. It panics on an
// invalid or duplicate descriptor.
func Register(descriptor Descriptor) {
	if err := defaultRegistry.Register(descriptor); err != nil {
		panic(err)
	}
}

func Lookup(name string) (Descriptor, error) {
	return defaultRegistry.Lookup(name)
}

func Names() []string {
	return defaultRegistry.Names()
}

func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(name, "-", " "))), "-")
}
