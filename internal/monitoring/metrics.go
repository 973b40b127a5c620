package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	WagersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casino_wagers_total",
			Help: "Total wagers placed",
		},
		[]string{"game"},
	)

	CoinsWagered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casino_coins_wagered_total",
			Help: "Total coins staked",
		},
		[]string{"game"},
	)

	CoinsPaidOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casino_coins_paid_total",
			Help: "Total coins paid back to players",
		},
		[]string{"game"},
	)
)

func Init() {
	prometheus.MustRegister(WagersPlaced)
	prometheus.MustRegister(CoinsWagered)
	prometheus.MustRegister(CoinsPaidOut)
}
