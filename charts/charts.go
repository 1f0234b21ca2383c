// Package charts defines the pluggable data sources that contribute
// per-chart payloads to a submission cycle.
//
// Each chart pairs an identifier with a producer callback supplied by
// the embedding application. The producer is invoked once per cycle;
// returning a zero value (empty string, nil or empty map) omits the
// chart from that cycle's payload. Producers that fail should return
// an error; the reporting pipeline isolates the failure to that chart.
package charts

import "fmt"

// Chart is a named data source that, on demand, produces one optional
// structured payload.
type Chart interface {
	// ID returns the chart identifier.
	ID() string

	// Data returns the chart payload, or nil when there is nothing
	// to report this cycle.
	Data() (map[string]any, error)
}

// SimplePie reports a single categorical value, e.g. a version string.
type SimplePie struct {
	id    string
	value func() (string, error)
}

// NewSimplePie creates a SimplePie with the given id and value producer.
func NewSimplePie(id string, value func() (string, error)) *SimplePie {
	return &SimplePie{id: id, value: value}
}

func (c *SimplePie) ID() string { return c.id }

// Data returns {"value": v}, or nil when the produced value is empty.
func (c *SimplePie) Data() (map[string]any, error) {
	v, err := c.value()
	if err != nil {
		return nil, fmt.Errorf("charts: simple pie %q: %w", c.id, err)
	}
	if v == "" {
		return nil, nil
	}
	return map[string]any{"value": v}, nil
}

// AdvancedPie reports a weighted category breakdown. Zero-valued
// entries are dropped before emission.
type AdvancedPie struct {
	id     string
	values func() (map[string]int, error)
}

// NewAdvancedPie creates an AdvancedPie with the given id and values producer.
func NewAdvancedPie(id string, values func() (map[string]int, error)) *AdvancedPie {
	return &AdvancedPie{id: id, values: values}
}

func (c *AdvancedPie) ID() string { return c.id }

// Data returns {"values": m} with zero entries removed, or nil when the
// producer returned nothing or everything filtered out.
func (c *AdvancedPie) Data() (map[string]any, error) {
	raw, err := c.values()
	if err != nil {
		return nil, fmt.Errorf("charts: advanced pie %q: %w", c.id, err)
	}
	values := make(map[string]int, len(raw))
	for k, v := range raw {
		if v == 0 {
			continue
		}
		values[k] = v
	}
	if len(values) == 0 {
		return nil, nil
	}
	return map[string]any{"values": values}, nil
}

// DrilldownPie reports a two-level category breakdown
// (category -> sub-category -> count).
type DrilldownPie struct {
	id     string
	values func() (map[string]map[string]int, error)
}

// NewDrilldownPie creates a DrilldownPie with the given id and values producer.
func NewDrilldownPie(id string, values func() (map[string]map[string]int, error)) *DrilldownPie {
	return &DrilldownPie{id: id, values: values}
}

func (c *DrilldownPie) ID() string { return c.id }

// Data returns {"values": m} preserving the nested structure. Outer
// entries with empty inner maps are dropped; nil is returned when
// nothing remains.
func (c *DrilldownPie) Data() (map[string]any, error) {
	raw, err := c.values()
	if err != nil {
		return nil, fmt.Errorf("charts: drilldown pie %q: %w", c.id, err)
	}
	values := make(map[string]map[string]int, len(raw))
	for category, sub := range raw {
		if len(sub) == 0 {
			continue
		}
		values[category] = sub
	}
	if len(values) == 0 {
		return nil, nil
	}
	return map[string]any{"values": values}, nil
}

// SimpleBarChart reports per-category counts as single-bar series.
// Unlike the pie charts, zero values are kept.
type SimpleBarChart struct {
	id     string
	values func() (map[string]int, error)
}

// NewSimpleBarChart creates a SimpleBarChart with the given id and values producer.
func NewSimpleBarChart(id string, values func() (map[string]int, error)) *SimpleBarChart {
	return &SimpleBarChart{id: id, values: values}
}

func (c *SimpleBarChart) ID() string { return c.id }

// Data returns {"values": {k: [v], ...}} with every produced entry
// wrapped in a single-element series, or nil when the producer
// returned nothing.
func (c *SimpleBarChart) Data() (map[string]any, error) {
	raw, err := c.values()
	if err != nil {
		return nil, fmt.Errorf("charts: simple bar chart %q: %w", c.id, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	values := make(map[string][]int, len(raw))
	for k, v := range raw {
		values[k] = []int{v}
	}
	return map[string]any{"values": values}, nil
}

// MultiLineChart reports one line per category. Zero-valued entries
// are dropped before emission.
type MultiLineChart struct {
	id     string
	values func() (map[string]int, error)
}

// NewMultiLineChart creates a MultiLineChart with the given id and values producer.
func NewMultiLineChart(id string, values func() (map[string]int, error)) *MultiLineChart {
	return &MultiLineChart{id: id, values: values}
}

func (c *MultiLineChart) ID() string { return c.id }

// Data returns {"values": m} with zero entries removed, or nil when the
// producer returned nothing or everything filtered out.
func (c *MultiLineChart) Data() (map[string]any, error) {
	raw, err := c.values()
	if err != nil {
		return nil, fmt.Errorf("charts: multi line chart %q: %w", c.id, err)
	}
	values := make(map[string]int, len(raw))
	for k, v := range raw {
		if v == 0 {
			continue
		}
		values[k] = v
	}
	if len(values) == 0 {
		return nil, nil
	}
	return map[string]any{"values": values}, nil
}
