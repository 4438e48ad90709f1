package similarity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnsupportedMetric = errors.New("unsupported similarity metric")

const (
	NameDistance = "distance"
	NamePearson  = "pearson"

	// DefaultName is the metric used when none is configured.
	DefaultName = NamePearson
)

var metrics = map[string]Metric{
	NameDistance: Distance,
	NamePearson:  Pearson,
}

var aliases = map[string]string{
	"euclidean":    NameDistance,
	"sim_distance": NameDistance,
	"correlation":  NamePearson,
	"sim_pearson":  NamePearson,
}

// Lookup resolves a metric name from configuration or the command line.
func Lookup(name string) (Metric, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	return metrics[canonical], nil
}

// Canonical maps a metric name or alias to its canonical name.
func Canonical(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if _, ok := metrics[key]; !ok {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedMetric, name, strings.Join(Names(), ", "))
	}
	return key, nil
}

// Names returns the canonical metric names in ascending order.
func Names() []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
