// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する。
// 招待フローとメンバーシップ操作のカウンター、およびHTTPステータスコード別の
// レスポンス数を提供する。
type Collector struct {
	invitationsSent     prometheus.Counter
	invitationsFailed   prometheus.Counter
	invitationsRedeemed prometheus.Counter
	membersAdded        prometheus.Counter
	membersRemoved      prometheus.Counter
	httpStatus          *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		invitationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pas_invitations_sent_total",
			Help: "送信された招待メールの合計数",
		}),
		invitationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pas_invitations_delivery_fail_total",
			Help: "招待メール送信失敗の合計数",
		}),
		invitationsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pas_invitations_redeemed_total",
			Help: "消費された招待トークンの合計数",
		}),
		membersAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pas_members_added_total",
			Help: "プロジェクトに追加されたメンバーの合計数",
		}),
		membersRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pas_members_removed_total",
			Help: "プロジェクトから削除されたメンバーの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pas_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.invitationsSent,
		c.invitationsFailed,
		c.invitationsRedeemed,
		c.membersAdded,
		c.membersRemoved,
		c.httpStatus,
	)

	return c
}

// RecordInvitationSent は招待メール送信成功を記録する。
func (c *Collector) RecordInvitationSent() {
	c.invitationsSent.Inc()
}

// RecordInvitationDeliveryFailure は招待メール送信失敗を記録する。
func (c *Collector) RecordInvitationDeliveryFailure() {
	c.invitationsFailed.Inc()
}

// RecordInvitationRedeemed は招待トークンの消費を記録する。
func (c *Collector) RecordInvitationRedeemed() {
	c.invitationsRedeemed.Inc()
}

// RecordMemberAdded はメンバー追加を記録する。
func (c *Collector) RecordMemberAdded() {
	c.membersAdded.Inc()
}

// RecordMemberRemoved はメンバー削除を記録する。
func (c *Collector) RecordMemberRemoved() {
	c.membersRemoved.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
