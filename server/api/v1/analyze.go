package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/zintix-labs/lottolab/analysis"
	"github.com/zintix-labs/lottolab/errs"
	"github.com/zintix-labs/lottolab/server/httperr"
	"github.com/zintix-labs/lottolab/server/svrcfg"
)

// ============================================================
// ** AnalyzeHandler **
// ============================================================

type AnalyzeHandler struct {
	eng     *analysis.Engine
	timeout time.Duration
}

func NewAnalyzeHandler(sCfg *svrcfg.SvrCfg) (*AnalyzeHandler, error) {
	eng, err := sCfg.Lab.NewEngine()
	if err != nil {
		return nil, errs.Wrap(err, "build analyze handler error")
	}
	return &AnalyzeHandler{eng: eng, timeout: sCfg.QueryTimeout}, nil
}

// 內部結構 不影響外部 也不被外部使用
//
// Days 用指標是為了分辨「沒帶」和「明給 0」：前者套全史預設，
// 後者原樣往下送，讓窗口檢查拒絕。
type analyzeRequestBody struct {
	Game string `json:"game,omitempty"`
	Days *int   `json:"days,omitempty"`
}

// decodeAnalyzeRequest 解析 GET query 或 POST JSON body 成統一的請求結構。
// game 可省略（= 全部遊戲）；days 可省略（= 全史窗口）。
func decodeAnalyzeRequest(q *http.Request) (*analyzeRequestBody, error) {
	req := new(analyzeRequestBody)
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		return nil, errs.NewWarn("method not allowed")
	}
	if q.Method == http.MethodGet {
		// game
		req.Game = q.URL.Query().Get("game")

		// days
		if d := q.URL.Query().Get("days"); d != "" {
			u, err := strconv.ParseInt(d, 10, 64)
			if err != nil {
				return nil, errs.NewWarn("days must be integer")
			}
			v := int(u)
			req.Days = &v
		}
	}
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			return nil, errs.NewWarn("invalid json:" + err.Error())
		}
	}
	if req.Days == nil {
		all := analysis.DaysAllTime
		req.Days = &all
	}
	return req, nil
}

func (h *AnalyzeHandler) serve(w http.ResponseWriter, q *http.Request, kind analysis.Kind) {
	req, err := decodeAnalyzeRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	// 請求解析完成，設置超時 context
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	result, err := h.eng.Analyze(ctx, kind, analysis.Window{Game: req.Game, Days: *req.Days})
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

func (h *AnalyzeHandler) Frequency(w http.ResponseWriter, q *http.Request) {
	h.serve(w, q, analysis.KindFrequency)
}

func (h *AnalyzeHandler) Patterns(w http.ResponseWriter, q *http.Request) {
	h.serve(w, q, analysis.KindPatterns)
}

func (h *AnalyzeHandler) Winners(w http.ResponseWriter, q *http.Request) {
	h.serve(w, q, analysis.KindWinners)
}

func (h *AnalyzeHandler) Correlation(w http.ResponseWriter, q *http.Request) {
	h.serve(w, q, analysis.KindCorrelation)
}

func (h *AnalyzeHandler) Predict(w http.ResponseWriter, q *http.Request) {
	h.serve(w, q, analysis.KindPrediction)
}
