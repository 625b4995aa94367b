package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_feed_ticks_total",
		Help: "Total number of completed market poll cycles",
	})

	FeedErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_feed_errors_total",
		Help: "Total number of failed market poll cycles",
	})

	TradesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trades_executed_total",
		Help: "Total number of trades recorded in the ledger",
	}, []string{"side", "source"})

	TradesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trades_rejected_total",
		Help: "Total number of trade requests rejected by the ledger",
	}, []string{"reason"})

	lastPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "market_last_price",
		Help: "Last observed spot price per pair",
	}, []string{"pair"})
)

func SetLastPrice(pair string, price float64) {
	lastPrice.WithLabelValues(pair).Set(price)
}
