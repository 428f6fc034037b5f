// Package operators computes source-code metrics for single files.
//
// Each operator harvests one family of metrics. The registry is a
// closed, static table so that the index schema is fully determined by
// the chosen operator names.
package operators

import (
	"fmt"
	"strings"

	"github.com/strata-dev/strata/schema"
)

// Operator computes one family of metrics for a source file.
type Operator interface {
	// Name returns the unique registry name of the operator.
	Name() string

	// Description returns a one-line summary for listings.
	Description() string

	// Metrics returns the metric descriptors, in stable column order.
	Metrics() []schema.Metric

	// Harvest computes metric values for one file. A file the operator
	// cannot understand yields *schema.ParseError; other operators are
	// unaffected.
	Harvest(path string, src []byte) (map[string]any, error)
}

// registry is the closed set of operators, in stable column order.
var registry = []Operator{
	&RawOperator{},
	&CyclomaticOperator{},
	&HalsteadOperator{},
	&MaintainabilityOperator{},
}

// All returns every registered operator in stable order.
func All() []Operator {
	out := make([]Operator, len(registry))
	copy(out, registry)
	return out
}

// Resolve maps operator names to operators, preserving registry order
// regardless of the order the names were given in. Unknown names and
// duplicate metric names across the chosen set are rejected.
func Resolve(names []string) ([]Operator, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var ops []Operator
	for _, op := range registry {
		if wanted[op.Name()] {
			ops = append(ops, op)
			delete(wanted, op.Name())
		}
	}
	for n := range wanted {
		return nil, fmt.Errorf("unknown operator %q", n)
	}
	if err := validateMetricNames(ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// Columns returns the ordered metric columns contributed by the given
// operators.
func Columns(ops []Operator) []schema.Column {
	var cols []schema.Column
	for _, op := range ops {
		for _, m := range op.Metrics() {
			cols = append(cols, schema.Column{Name: m.Name, Type: m.Type})
		}
	}
	return cols
}

// Metric looks up a metric descriptor by name across the given operators.
func Metric(ops []Operator, name string) (schema.Metric, bool) {
	for _, op := range ops {
		for _, m := range op.Metrics() {
			if m.Name == name {
				return m, true
			}
		}
	}
	return schema.Metric{}, false
}

// Supports reports whether a repository path is analyzable source.
func Supports(path string) bool {
	return strings.HasSuffix(path, ".py")
}

// validateMetricNames rejects operator sets whose metric names collide,
// since every metric becomes one index column.
func validateMetricNames(ops []Operator) error {
	seen := make(map[string]string)
	for _, op := range ops {
		for _, m := range op.Metrics() {
			if owner, ok := seen[m.Name]; ok {
				return fmt.Errorf("metric %q defined by both %s and %s", m.Name, owner, op.Name())
			}
			seen[m.Name] = op.Name()
		}
	}
	return nil
}
