package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/zintix-labs/lottolab/analysis"
	"github.com/zintix-labs/lottolab/errs"
	"github.com/zintix-labs/lottolab/server/httperr"
)

// Trend 與其他分析端點多兩個參數：
//   - metric: sum（每期號碼總和，預設）或 hit（單一號碼命中）
//   - number: metric=hit 時追蹤的號碼，必填
func (h *AnalyzeHandler) Trend(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	// Days 指標語意同 analyzeRequestBody：沒帶才套全史預設。
	type trendRequestBody struct {
		Game   string `json:"game,omitempty"`
		Days   *int   `json:"days,omitempty"`
		Metric string `json:"metric,omitempty"`
		Number int    `json:"number,omitempty"`
	}
	// ---
	req := new(trendRequestBody)
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if q.Method == http.MethodGet {
		// game / metric
		req.Game = q.URL.Query().Get("game")
		req.Metric = q.URL.Query().Get("metric")

		// days
		if d := q.URL.Query().Get("days"); d != "" {
			u, err := strconv.ParseInt(d, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("days must be integer"))
				return
			}
			v := int(u)
			req.Days = &v
		}

		// number
		if n := q.URL.Query().Get("number"); n != "" {
			u, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("number must be integer"))
				return
			}
			req.Number = int(u)
		}
	}
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	}
	if req.Days == nil {
		all := analysis.DaysAllTime
		req.Days = &all
	}

	// 業務檢驗
	var m analysis.Metric
	switch req.Metric {
	case "", "sum":
		m = analysis.MetricDrawSum
	case "hit":
		if req.Number < 1 {
			httperr.Errs(w, errs.NewWarn("number is required when metric=hit"))
			return
		}
		m = analysis.MetricNumberHit(req.Number)
	default:
		httperr.Errs(w, errs.NewWarn("metric must be sum or hit"))
		return
	}

	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	result, err := h.eng.AnalyzeTrend(ctx, analysis.Window{Game: req.Game, Days: *req.Days}, m)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		httperr.Errs(w, err)
		return
	}
}
