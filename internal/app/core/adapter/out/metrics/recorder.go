package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
)

const (
	labelCommunity = "community"
	labelMode      = "mode"
	labelWin       = "win"
	labelOperation = "operation"
	labelOutcome   = "outcome"
)

// Recorder 以 Prometheus 統計拉霸與銀行操作
type Recorder struct {
	plays    *prometheus.CounterVec
	bids     *prometheus.CounterVec
	awards   *prometheus.CounterVec
	bidSize  *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewRecorder 建立並註冊指標，reg 為 nil 時使用 prometheus.DefaultRegisterer
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		plays: f.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_plays_total",
			Help: "拉霸次數",
		}, []string{labelCommunity, labelMode, labelWin}),
		bids: f.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_bid_credits_total",
			Help: "押注總額",
		}, []string{labelCommunity, labelMode}),
		awards: f.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_award_credits_total",
			Help: "派彩總額",
		}, []string{labelCommunity, labelMode}),
		bidSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slots_bid_credits",
			Help:    "單次押注分布",
			Buckets: prometheus.ExponentialBuckets(1, 10, 10),
		}, []string{labelMode}),
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_operation_outcomes_total",
			Help: "操作結果代碼",
		}, []string{labelOperation, labelOutcome}),
	}
}

func (r *Recorder) ObservePlay(community string, mode domain.Mode, bid, award int64) {
	m := mode.String()
	r.plays.WithLabelValues(community, m, strconv.FormatBool(award > 0)).Inc()
	r.bids.WithLabelValues(community, m).Add(float64(bid))
	r.awards.WithLabelValues(community, m).Add(float64(award))
	r.bidSize.WithLabelValues(m).Observe(float64(bid))
}

func (r *Recorder) ObserveOutcome(operation string, outcome domain.Outcome) {
	r.outcomes.WithLabelValues(operation, string(outcome)).Inc()
}

var _ usecase.Recorder = (*Recorder)(nil)
