package observability

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xalgo/lib/infra"
)

const lenGaugeName = "xalgo.container.len"

// LenProbe is satisfied by every container of the module.
type LenProbe interface {
	Len() int64
}

func meterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("xalgo/containers")
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// RegisterLenGauges reports the Len of every probe by the global meter
// provider, with the attribute container=<probe name>. The probes are
// observed at collection time and never mutated, so the caller owns the
// synchronization of a probe shared with other goroutines.
func RegisterLenGauges(name string, probes map[string]LenProbe) (metric.Registration, error) {
	return registerLenGauges(otel.GetMeterProvider(), name, probes)
}

func MustRegisterLenGauges(name string, probes map[string]LenProbe) metric.Registration {
	return lo.Must[metric.Registration](RegisterLenGauges(name, probes))
}

// WatchLenGauges unregisters the gauges once ctx is done.
func WatchLenGauges(ctx context.Context, name string, probes map[string]LenProbe) error {
	reg, err := RegisterLenGauges(name, probes)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = reg.Unregister()
	}()
	return nil
}

func registerLenGauges(mp metric.MeterProvider, name string, probes map[string]LenProbe) (metric.Registration, error) {
	if len(probes) == 0 {
		return nil, infra.NewErrorStack("[observability] no len probes")
	}
	names := slices.Sorted(maps.Keys(probes))
	snapshot := maps.Clone(probes)
	for _, n := range names {
		if snapshot[n] == nil {
			return nil, infra.NewErrorStack("[observability] nil len probe " + n)
		}
	}

	meter := mp.Meter(
		meterName(name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	gauge, err := meter.Int64ObservableGauge(
		lenGaugeName,
		metric.WithDescription(`The number of entries held by the container.`),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] len gauge")
	}
	attrs := lo.Map(names, func(n string, _ int) metric.ObserveOption {
		return metric.WithAttributes(attribute.String("container", n))
	})
	reg, err := meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		for i, n := range names {
			ob.ObserveInt64(gauge, snapshot[n].Len(), attrs[i])
		}
		return nil
	}, gauge)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] len gauge callback")
	}
	return reg, nil
}

// StartRuntimeStats starts the Go runtime instrumentation on the global
// meter provider.
func StartRuntimeStats(readMemStatsInterval time.Duration) error {
	return startRuntimeStats(otel.GetMeterProvider(), readMemStatsInterval)
}

func startRuntimeStats(mp metric.MeterProvider, readMemStatsInterval time.Duration) error {
	if readMemStatsInterval <= 0 {
		readMemStatsInterval = otelruntime.DefaultMinimumReadMemStatsInterval
	}
	return otelruntime.Start(
		otelruntime.WithMeterProvider(mp),
		otelruntime.WithMinimumReadMemStatsInterval(readMemStatsInterval),
	)
}
