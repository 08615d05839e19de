package observability

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"investment_contract/configuration"
)

func Make(cfg configuration.Log) *Observability {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Observability{
		log:      logger,
		metrics:  prometheus.NewRegistry(),
		counters: make(map[string]prometheus.Counter),
		vecs:     make(map[string]*prometheus.CounterVec),
	}
}

type Observability struct {
	log      *logrus.Logger
	metrics  *prometheus.Registry
	counters map[string]prometheus.Counter
	vecs     map[string]*prometheus.CounterVec
}

func (o *Observability) Log() *logrus.Logger {
	return o.log
}

func (o *Observability) Metrics() *prometheus.Registry {
	return o.metrics
}

func (o *Observability) Counter(opts prometheus.CounterOpts) prometheus.Counter {
	c, ok := o.counters[opts.Name]
	if ok {
		return c
	}
	c = prometheus.NewCounter(opts)
	err := o.metrics.Register(c)
	if err != nil {
		o.log.WithField("metric_collector", opts.Name).
			Errorf("failed to register metric")
		return c
	}
	o.counters[opts.Name] = c
	return c
}

func (o *Observability) CounterVec(opts prometheus.CounterOpts, labels ...string) *prometheus.CounterVec {
	c, ok := o.vecs[opts.Name]
	if ok {
		return c
	}
	c = prometheus.NewCounterVec(opts, labels)
	err := o.metrics.Register(c)
	if err != nil {
		o.log.WithField("metric_collector", opts.Name).
			Errorf("failed to register metric")
		return c
	}
	o.vecs[opts.Name] = c
	return c
}

// ContractMetrics counts successful contract operations by kind, plus failures by op and code.
type ContractMetrics struct {
	Inits         prometheus.Counter
	Investments   prometheus.Counter
	Payments      prometheus.Counter
	Withdrawals   prometheus.Counter
	Signatures    prometheus.Counter
	Contributions prometheus.Counter
	Moves         prometheus.Counter
	StateChanges  prometheus.Counter
	Reads         prometheus.Counter

	Failures *prometheus.CounterVec
}

var counterType = reflect.TypeOf((*prometheus.Counter)(nil)).Elem()

func MakeContractMetrics(obs *Observability) *ContractMetrics {
	m := &ContractMetrics{}
	v := reflect.ValueOf(m).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if t.Field(i).Type != counterType {
			continue
		}
		field := strings.ToLower(t.Field(i).Name)
		opts := prometheus.CounterOpts{
			Name: fmt.Sprintf("invest_contract_%s_total", field),
			Help: fmt.Sprintf("Number of %s successfully processed by the contract.", field),
		}
		v.Field(i).Set(reflect.ValueOf(obs.Counter(opts)))
	}
	m.Failures = obs.CounterVec(prometheus.CounterOpts{
		Name: "invest_contract_failures_total",
		Help: "Number of rejected contract calls by operation and error code.",
	}, "op", "code")
	return m
}
