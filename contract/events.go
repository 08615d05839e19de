package contract

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// record logs the outcome of an operation and feeds the metrics.
// Rejections are logged at warn level with their error code, storage and transfer
// failures at error level.
func (c *Contract) record(op string, success prometheus.Counter, err error, fields logrus.Fields) {
	entry := c.log.WithField("op", op).WithFields(fields)
	if err == nil {
		success.Inc()
		entry.Info("ok")
		return
	}
	code, _ := CodeOf(err)
	c.metrics.Failures.WithLabelValues(op, strconv.FormatUint(uint64(code), 10)).Inc()
	entry = entry.WithField("code", code).WithError(err)
	if kind, ok := KindOf(err); ok && (kind == KindStorage || kind == KindTransfer) {
		entry.Error("failed")
		return
	}
	entry.Warn("rejected")
}
