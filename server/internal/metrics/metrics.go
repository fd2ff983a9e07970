package metrics

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
	"github.com/fibermonitor/fibermonitor/pkg/form"
)

// Metric family names exposed on /metrics.
const (
	NameAssessments        = "fibermonitor_assessments_total"
	NameValidationFailures = "fibermonitor_validation_failures_total"
	NameSessions           = "fibermonitor_sessions"
)

// failureKinds fixes the label order of the validation failure family.
var failureKinds = []form.Kind{
	form.KindInvalidAge,
	form.KindInvalidCalorieEstimate,
	form.KindInvalidFiberIntake,
	form.KindInvalidChoice,
}

// Registry counts assessments per zone and validation failures per kind.
// The zero value is not usable; call New.
type Registry struct {
	mu          sync.Mutex
	assessments map[fiber.Zone]float64
	failures    map[form.Kind]float64
	sessions    func() int
}

// New returns a Registry. sessions, if non-nil, is sampled on every Gather
// to report the number of open form sessions.
func New(sessions func() int) *Registry {
	return &Registry{
		assessments: make(map[fiber.Zone]float64),
		failures:    make(map[form.Kind]float64),
		sessions:    sessions,
	}
}

// Observe records the outcome of one submission: the zone when err is nil,
// otherwise the validation failure kind. Errors that are not validation
// failures are ignored. A nil Registry records nothing.
func (r *Registry) Observe(a fiber.Assessment, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		r.assessments[a.Zone]++
		return
	}
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		r.failures[verr.Kind]++
	}
}

// Gather snapshots the current values as Prometheus metric families.
// Every zone and failure kind is present, zero-valued if never observed.
func (r *Registry) Gather() []*dto.MetricFamily {
	r.mu.Lock()
	zones := make([]*dto.Metric, 0, len(fiber.Bands()))
	for _, b := range fiber.Bands() {
		zones = append(zones, counter("zone", string(b.Zone), r.assessments[b.Zone]))
	}
	kinds := make([]*dto.Metric, 0, len(failureKinds))
	for _, k := range failureKinds {
		kinds = append(kinds, counter("kind", string(k), r.failures[k]))
	}
	r.mu.Unlock()

	mfs := []*dto.MetricFamily{
		{
			Name:   proto.String(NameAssessments),
			Help:   proto.String("Completed fiber assessments by zone."),
			Type:   dto.MetricType_COUNTER.Enum(),
			Metric: zones,
		},
		{
			Name:   proto.String(NameValidationFailures),
			Help:   proto.String("Rejected form submissions by validation failure kind."),
			Type:   dto.MetricType_COUNTER.Enum(),
			Metric: kinds,
		},
	}
	if r.sessions != nil {
		mfs = append(mfs, &dto.MetricFamily{
			Name: proto.String(NameSessions),
			Help: proto.String("Open form sessions, including idle ones awaiting eviction."),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{{
				Gauge: &dto.Gauge{Value: proto.Float64(float64(r.sessions()))},
			}},
		})
	}
	return mfs
}

// WriteText renders Gather in the Prometheus text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	for _, mf := range r.Gather() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP serves the text exposition on GET.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		slog.Error("metrics: render failed", "err", err)
		http.Error(w, "render metrics", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	w.Write(buf.Bytes()) //nolint:errcheck
}

func counter(label, value string, v float64) *dto.Metric {
	return &dto.Metric{
		Label:   []*dto.LabelPair{{Name: proto.String(label), Value: proto.String(value)}},
		Counter: &dto.Counter{Value: proto.Float64(v)},
	}
}
