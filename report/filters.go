package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"shiftreport/internal/timeutil"
)

// DefaultRule produces a filter default from the host when the report opens.
// A nil result means the filter has no default.
type DefaultRule func(host Host) any

// Filter is one user-facing input bound to a query parameter.
type Filter struct {
	Fieldname string
	Label     string
	Fieldtype FieldType
	Options   string
	Required  bool
	Default   DefaultRule
}

// FilterView is a filter with its label translated and its default resolved.
type FilterView struct {
	Fieldname string    `json:"fieldname"`
	Label     string    `json:"label"`
	Fieldtype FieldType `json:"fieldtype"`
	Options   string    `json:"options,omitempty"`
	Required  bool      `json:"reqd"`
	Default   any       `json:"default,omitempty"`
	Value     string    `json:"value"`
}

// Fixed returns a rule that always yields value.
func Fixed(value any) DefaultRule {
	return func(Host) any {
		return value
	}
}

// MonthStartOfToday defaults a date filter to the first day of the host's current month.
func MonthStartOfToday(host Host) any {
	return timeutil.MonthStart(host.Today())
}

// MonthEndOfToday defaults a date filter to the last day of the host's current month.
func MonthEndOfToday(host Host) any {
	return timeutil.MonthEnd(host.Today())
}

// HostDefault defaults a filter to the host's configured value for key.
func HostDefault(key string) DefaultRule {
	return func(host Host) any {
		value := strings.TrimSpace(host.Default(key))
		if value == "" {
			return nil
		}
		return value
	}
}

// Views resolves the descriptor filters for display. raw holds values the
// user already entered and takes precedence over defaults.
func Views(descriptor Descriptor, host Host, raw map[string]string) []FilterView {
	views := make([]FilterView, 0, len(descriptor.Filters))
	for _, filter := range descriptor.Filters {
		view := FilterView{
			Fieldname: filter.Fieldname,
			Label:     host.Translate(filter.Label),
			Fieldtype: filter.Fieldtype,
			Options:   filter.Options,
			Required:  filter.Required,
		}
		if filter.Default != nil {
			view.Default = filter.Default(host)
		}
		view.Value = FormatFilterValue(filter, view.Default)
		if value, ok := raw[filter.Fieldname]; ok && strings.TrimSpace(value) != "" {
			view.Value = strings.TrimSpace(value)
		}
		views = append(views, view)
	}
	return views
}

// FormatFilterValue renders a resolved filter value as form input text.
func FormatFilterValue(filter Filter, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(timeutil.DateLayout)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		return v
	default:
		if filter.Fieldtype == FieldTypeCheck {
			if Truthy(v) {
				return "1"
			}
			return "0"
		}
		return fmt.Sprint(v)
	}
}

// Values holds resolved filter values: time.Time for Date, bool for Check and
// string for Link filters. Unset optional filters are absent.
type Values map[string]any

func (v Values) Date(key string) time.Time {
	if value, ok := v[key].(time.Time); ok {
		return value
	}
	return time.Time{}
}

func (v Values) String(key string) string {
	if value, ok := v[key].(string); ok {
		return value
	}
	return ""
}

func (v Values) Bool(key string) bool {
	return v.BoolOr(key, false)
}

// BoolOr returns fallback only when key is absent.
func (v Values) BoolOr(key string, fallback bool) bool {
	value, ok := v[key]
	if !ok || value == nil {
		return fallback
	}
	return Truthy(value)
}

// Resolve parses raw filter input for descriptor, filling defaults from host
// and enforcing required filters.
func Resolve(descriptor Descriptor, host Host, raw map[string]string) (Values, error) {
	known := make(map[string]struct{}, len(descriptor.Filters))
	for _, filter := range descriptor.Filters {
		known[filter.Fieldname] = struct{}{}
	}
	unknown := make([]string, 0)
	for key := range raw {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, strings.Join(unknown, ", "))
	}

	values := make(Values, len(descriptor.Filters))
	for _, filter := range descriptor.Filters {
		input := strings.TrimSpace(raw[filter.Fieldname])
		if input != "" {
			parsed, err := parseFilterValue(filter, input)
			if err != nil {
				return nil, err
			}
			values[filter.Fieldname] = parsed
			continue
		}

		if filter.Default != nil {
			if value := filter.Default(host); value != nil {
				values[filter.Fieldname] = value
				continue
			}
		}
		if filter.Required {
			return nil, fmt.Errorf("%w: %s", ErrMissingFilter, filter.Fieldname)
		}
	}

	if descriptor.Validate != nil {
		if err := descriptor.Validate(values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func parseFilterValue(filter Filter, input string) (any, error) {
	switch filter.Fieldtype {
	case FieldTypeDate:
		parsed, err := timeutil.ParseDate(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q (expected YYYY-MM-DD)", ErrInvalidFilter, filter.Fieldname, input)
		}
		return parsed, nil
	case FieldTypeCheck:
		switch strings.ToLower(input) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		default:
			return nil, fmt.Errorf("%w: %s=%q (expected 1 or 0)", ErrInvalidFilter, filter.Fieldname, input)
		}
	default:
		return input, nil
	}
}
