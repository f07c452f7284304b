// Package metrics emits custom metrics in AWS CloudWatch Embedded Metrics
// Format (EMF). EMF documents are single JSON lines written to stdout, where
// CloudWatch Logs extracts the embedded metrics — no API calls and no added
// invocation latency.
//
// See: https://docs.aws.amazon.com/AmazonCloudWatch/latest/monitoring/CloudWatch_Embedded_Metric_Format_Specification.html
package metrics

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// Standard CloudWatch metric units.
const (
	UnitMilliseconds = "Milliseconds"
	UnitCount        = "Count"
	UnitBytes        = "Bytes"
	UnitNone         = "None"
)

// metricDef holds the name and unit for a single metric.
type metricDef struct {
	Name string `json:"Name"`
	Unit string `json:"Unit"`
}

// Recorder accumulates dimensions, metrics, and properties for one EMF flush.
// Not safe for concurrent use; create one per record processed.
type Recorder struct {
	out        io.Writer
	namespace  string
	dimensions map[string]string
	defs       []metricDef
	values     map[string]float64
	properties map[string]any
}

// New creates an EMF Recorder for the given CloudWatch namespace. The
// FunctionName dimension is added automatically when running inside Lambda.
func New(namespace string) *Recorder {
	r := &Recorder{
		out:        os.Stdout,
		namespace:  namespace,
		dimensions: make(map[string]string),
		values:     make(map[string]float64),
		properties: make(map[string]any),
	}
	if fn := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); fn != "" {
		r.dimensions["FunctionName"] = fn
	}
	return r
}

// SetOutput redirects the EMF document away from stdout. Used by tests.
func (r *Recorder) SetOutput(w io.Writer) *Recorder {
	r.out = w
	return r
}

// Dimension adds a dimension key-value pair. Dimensions are indexed in
// CloudWatch and appear as filterable attributes on the metric.
func (r *Recorder) Dimension(key, value string) *Recorder {
	r.dimensions[key] = value
	return r
}

// Metric records a named metric value with a CloudWatch unit.
func (r *Recorder) Metric(name string, value float64, unit string) *Recorder {
	if _, seen := r.values[name]; !seen {
		r.defs = append(r.defs, metricDef{Name: name, Unit: unit})
	}
	r.values[name] = value
	return r
}

// Duration records an elapsed time as a milliseconds metric.
func (r *Recorder) Duration(name string, d time.Duration) *Recorder {
	return r.Metric(name, float64(d.Milliseconds()), UnitMilliseconds)
}

// Property adds a non-metric field. Properties are searchable in CloudWatch
// Logs Insights but do not create metrics.
func (r *Recorder) Property(key string, value any) *Recorder {
	r.properties[key] = value
	return r
}

// Flush serializes the EMF document as a single JSON line. The Recorder
// should not be reused afterwards.
func (r *Recorder) Flush() {
	if len(r.defs) == 0 {
		return
	}

	dimensionNames := make([]string, 0, len(r.dimensions))
	doc := make(map[string]any, len(r.dimensions)+len(r.values)+len(r.properties)+1)
	for k, v := range r.dimensions {
		dimensionNames = append(dimensionNames, k)
		doc[k] = v
	}
	for k, v := range r.values {
		doc[k] = v
	}
	for k, v := range r.properties {
		doc[k] = v
	}

	doc["_aws"] = map[string]any{
		"Timestamp": time.Now().UnixMilli(),
		"CloudWatchMetrics": []map[string]any{{
			"Namespace":  r.namespace,
			"Dimensions": [][]string{dimensionNames},
			"Metrics":    r.defs,
		}},
	}

	line, err := json.Marshal(doc)
	if err != nil {
		return
	}
	r.out.Write(append(line, '\n'))
}
