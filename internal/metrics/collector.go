// internal/metrics/collector.go
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamzrod/bot-status/internal/status"
)

// Collector exports the bot's status report on every scrape.
// It reads the cache only; a scrape never reaches the device.
type Collector struct {
	src      status.Source
	botID    string
	failures func() int64
	now      func() time.Time

	// mu serializes scrapes; Collect resets and refills shared vecs.
	mu sync.Mutex

	success       prometheus.Gauge
	busy          *prometheus.GaugeVec
	position      *prometheus.GaugeVec
	pin           *prometheus.GaugeVec
	lastSync      *prometheus.GaugeVec
	lastSyncAge   *prometheus.GaugeVec
	syncFailures  *prometheus.GaugeVec
	commandActive *prometheus.GaugeVec
}

// NewCollector builds a collector. failures may be nil.
func NewCollector(src status.Source, botID string, failures func() int64) *Collector {
	labels := []string{"bot_id"}
	return &Collector{
		src:      src,
		botID:    botID,
		failures: failures,
		now:      time.Now,
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bot_status_report_success",
			Help: "Last status report success (1=ok, 0=error)",
		}),
		busy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bot_status_busy",
			Help: "Bot busy flag (1=busy)",
		}, labels),
		position: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bot_status_position",
			Help: "Last known position per axis",
		}, []string{"bot_id", "axis"}),
		pin: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bot_status_pin_value",
			Help: "Last known pin reading (digital 0/1 or analog value); unset pins are not exported",
		}, []string{"bot_id", "pin", "mode"}),
		lastSync: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bot_status_last_sync_timestamp_seconds",
			Help: "Unix time of the last successful cache sync",
		}, labels),
		lastSyncAge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bot_status_last_sync_age_seconds",
			Help: "Seconds since the last successful cache sync",
		}, labels),
		syncFailures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bot_status_sync_failures_consecutive",
			Help: "Consecutive failed sync cycles",
		}, labels),
		commandActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bot_status_current_command",
			Help: "Current command (label) reported by the bot",
		}, []string{"bot_id", "command"}),
	}
}

func (c *Collector) vecs() []*prometheus.GaugeVec {
	return []*prometheus.GaugeVec{
		c.busy,
		c.position,
		c.pin,
		c.lastSync,
		c.lastSyncAge,
		c.syncFailures,
		c.commandActive,
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.success.Describe(ch)
	for _, v := range c.vecs() {
		v.Describe(ch)
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range c.vecs() {
		v.Reset()
	}

	labels := prometheus.Labels{"bot_id": c.botID}
	if c.failures != nil {
		c.syncFailures.With(labels).Set(float64(c.failures()))
	}

	snap, err := status.Build(c.src)
	if err != nil {
		c.success.Set(0)
	} else {
		c.success.Set(1)
		c.record(snap)
	}

	c.success.Collect(ch)
	for _, v := range c.vecs() {
		v.Collect(ch)
	}
}

func (c *Collector) record(snap status.Snapshot) {
	labels := prometheus.Labels{"bot_id": c.botID}

	if snap.Busy {
		c.busy.With(labels).Set(1)
	} else {
		c.busy.With(labels).Set(0)
	}

	axes := []struct {
		name string
		v    *float64
	}{
		{status.KeyX, snap.X},
		{status.KeyY, snap.Y},
		{status.KeyZ, snap.Z},
	}
	for _, a := range axes {
		if a.v != nil {
			c.position.With(prometheus.Labels{"bot_id": c.botID, "axis": a.name}).Set(*a.v)
		}
	}

	for i, p := range snap.Pins {
		if p.IsUnset() {
			continue
		}
		c.pin.With(prometheus.Labels{
			"bot_id": c.botID,
			"pin":    status.PinKey(i),
			"mode":   p.Mode.String(),
		}).Set(float64(p.Reading))
	}

	if snap.LastSync != nil {
		c.lastSync.With(labels).Set(float64(snap.LastSync.Unix()))
		c.lastSyncAge.With(labels).Set(c.now().Sub(*snap.LastSync).Seconds())
	}

	if snap.CurrentCommand != nil {
		c.commandActive.With(prometheus.Labels{"bot_id": c.botID, "command": *snap.CurrentCommand}).Set(1)
	}
}
