package monitor

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exports the snapshot as Prometheus gauges
type Metrics struct {
	pc           *prometheus.GaugeVec
	index        *prometheus.GaugeVec
	pins         *prometheus.GaugeVec
	cycles       prometheus.Gauge
	timeConstant prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		pc: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "csync",
			Name:      "pc",
			Help:      "Program counter of the generator state machine.",
		}, []string{"sm"}),
		index: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "csync",
			Name:      "program_index",
			Help:      "Program counter relative to the program origin.",
		}, []string{"sm"}),
		pins: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "csync",
			Name:      "pin_level",
			Help:      "Level of the sync pins (0 or 1).",
		}, []string{"signal"}),
		cycles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "csync",
			Name:      "simulated_cycles",
			Help:      "System clock cycles simulated so far.",
		}),
		timeConstant: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "csync",
			Name:      "time_constant",
			Help:      "Value pushed to the generator.",
		}),
	}

	for _, c := range []prometheus.Collector{m.pc, m.index, m.pins, m.cycles, m.timeConstant} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering metrics")
		}
	}
	return m, nil
}

func gaugeLevel(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (m *Metrics) Update(s Snapshot) error {
	sm := strconv.Itoa(s.Status.Unit)
	m.pc.WithLabelValues(sm).Set(float64(s.Status.PC))
	m.index.WithLabelValues(sm).Set(float64(s.Status.Index))
	m.pins.WithLabelValues("hsync").Set(gaugeLevel(s.Status.HSync))
	m.pins.WithLabelValues("vsync").Set(gaugeLevel(s.Status.VSync))
	m.pins.WithLabelValues("csync").Set(gaugeLevel(s.Status.CSync))
	m.cycles.Set(float64(s.Cycles))
	m.timeConstant.Set(float64(s.TimeConstant))
	return nil
}

func (m *Metrics) Close() error {
	return nil
}

// Serve exposes 'g' on http://addr/metrics until ctx is done
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrapf(err, "metrics server on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
