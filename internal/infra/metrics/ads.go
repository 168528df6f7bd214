package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	adsPresented = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ads_presented_total",
			Help: "Interstitial presentations requested from the ad boundary.",
		},
	)

	adsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ads_failed_total",
			Help: "Interstitial presentations that failed; the schedule is unaffected.",
		},
	)
)

func init() { register(adsPresented, adsFailed) }

func IncAdPresented() { adsPresented.Inc() }
func IncAdFailed()    { adsFailed.Inc() }
