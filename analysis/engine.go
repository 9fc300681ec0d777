// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/zintix-labs/lottolab/catalog"
	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/errs"
	"github.com/zintix-labs/lottolab/spec"
)

// Kind 分析種類。
type Kind string

const (
	KindFrequency   Kind = "frequency"
	KindPatterns    Kind = "patterns"
	KindTrend       Kind = "trend"
	KindWinners     Kind = "winners"
	KindCorrelation Kind = "correlation"
	KindPrediction  Kind = "prediction"
)

// Result 一次 Analyze 的結構化輸出。只有對應 Kind 的欄位會被填。
//
// 未指定遊戲時各 map 以遊戲名稱為 key；個別遊戲資料量不足時記在
// Notes 不讓整次分析失敗（指定了遊戲則直接回 ErrInsufficientData）。
type Result struct {
	Kind   Kind   `json:"kind"`
	Window Window `json:"window"`

	Frequency   map[string]*FrequencyResult  `json:"frequency,omitempty"`
	Patterns    map[string][]PatternCluster  `json:"patterns,omitempty"`
	Trend       map[string]*TimeSeries       `json:"trend,omitempty"`
	Winners     map[string]*WinnerResult     `json:"winners,omitempty"`
	Correlation []CorrelationPair            `json:"correlation,omitempty"`
	Predictions map[string][]Recommendation  `json:"predictions,omitempty"`

	Notes map[string]string `json:"notes,omitempty"` // 各遊戲的 soft 狀況（ex: 資料不足）
}

// Engine 組合目錄、資料來源與各分析器。
//
// Analyze 的 I/O 只有「載入窗口內的 draw」這一步；之後全是記憶體內的
// 純計算。Engine 無可變狀態，可被任意多請求併發使用。
type Engine struct {
	repo draw.Repository
	cat  *catalog.Catalog

	Frequency   FrequencyAnalyzer
	Clusters    PatternClusterAnalyzer
	Trend       TimeSeriesAnalyzer
	Winners     WinnerDivisionAnalyzer
	Correlation CorrelationAnalyzer
	Prediction  PredictionEngine

	// now 可注入，測試時固定時間用；nil 用 time.Now。
	now func() time.Time
}

// NewEngine 以預設分析器參數建立 Engine。
func NewEngine(repo draw.Repository, cat *catalog.Catalog) (*Engine, error) {
	if repo == nil {
		return nil, errs.NewFatal("draw repository required")
	}
	if cat == nil || !cat.IsFrozen() {
		return nil, errs.NewFatal("catalog must be built and frozen")
	}
	return &Engine{
		repo:        repo,
		cat:         cat,
		Frequency:   NewFrequencyAnalyzer(),
		Clusters:    NewPatternClusterAnalyzer(),
		Trend:       NewTimeSeriesAnalyzer(),
		Winners:     NewWinnerDivisionAnalyzer(),
		Correlation: NewCorrelationAnalyzer(),
		Prediction:  NewPredictionEngine(),
	}, nil
}

// WithNow 回傳使用固定時間來源的 Engine copy。測試用。
func (e *Engine) WithNow(now func() time.Time) *Engine {
	e2 := *e
	e2.now = now
	return &e2
}

// Analyze 驗證窗口、載入 draw、執行指定分析。
//
// 邊界檢查順序是合約：InvalidWindow / UnknownLotteryType 都在碰 repo
// 之前回報。
func (e *Engine) Analyze(ctx context.Context, kind Kind, w Window) (*Result, error) {
	if kind == KindCorrelation && w.Game != "" {
		return nil, errs.NewWarn("correlation needs at least two games; drop the game filter")
	}
	games, specs, byGame, err := e.load(ctx, w)
	if err != nil {
		return nil, err
	}

	res := &Result{Kind: kind, Window: w}
	switch kind {
	case KindFrequency:
		res.Frequency = map[string]*FrequencyResult{}
		err = e.perGame(res, games, w, func(g string) error {
			fr, ferr := e.Frequency.Analyze(specs[g], byGame[g])
			if ferr != nil {
				return ferr
			}
			res.Frequency[g] = fr
			return nil
		})
	case KindPatterns:
		res.Patterns = map[string][]PatternCluster{}
		err = e.perGame(res, games, w, func(g string) error {
			pc, perr := e.Clusters.Analyze(specs[g], byGame[g])
			if perr != nil {
				return perr
			}
			res.Patterns[g] = pc
			return nil
		})
	case KindTrend:
		res.Trend = map[string]*TimeSeries{}
		for _, g := range games {
			// 時間序列是 soft 合約：零期回空序列
			res.Trend[g] = e.Trend.Analyze(specs[g], byGame[g], MetricDrawSum)
		}
	case KindWinners:
		res.Winners = map[string]*WinnerResult{}
		err = e.perGame(res, games, w, func(g string) error {
			wr, werr := e.Winners.Analyze(specs[g], byGame[g])
			if werr != nil {
				return werr
			}
			res.Winners[g] = wr
			return nil
		})
	case KindPrediction:
		res.Predictions = map[string][]Recommendation{}
		err = e.perGame(res, games, w, func(g string) error {
			recs, rerr := e.Prediction.Predict(specs[g], byGame[g])
			if rerr != nil {
				return rerr
			}
			res.Predictions[g] = recs
			return nil
		})
	case KindCorrelation:
		res.Correlation, err = e.Correlation.Analyze(specs, byGame)
	default:
		return nil, errs.Warnf("unknown analysis kind: %s", kind)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AnalyzeTrend 與 Analyze(KindTrend) 相同，但允許指定序列指標
// （ex: MetricNumberHit 追蹤單一號碼的出現節奏）。
func (e *Engine) AnalyzeTrend(ctx context.Context, w Window, m Metric) (*Result, error) {
	if m.Fn == nil {
		m = MetricDrawSum
	}
	games, specs, byGame, err := e.load(ctx, w)
	if err != nil {
		return nil, err
	}
	res := &Result{Kind: KindTrend, Window: w, Trend: map[string]*TimeSeries{}}
	for _, g := range games {
		res.Trend[g] = e.Trend.Analyze(specs[g], byGame[g], m)
	}
	return res, nil
}

// load 做窗口/彩種驗證並載入窗口內的 draw，依遊戲分組。
func (e *Engine) load(ctx context.Context, w Window) ([]string, map[string]*spec.GameSpec, map[string][]draw.Draw, error) {
	if err := w.Valid(); err != nil {
		return nil, nil, nil, err
	}
	if w.Game != "" {
		if _, ok := e.cat.GetByName(w.Game); !ok {
			return nil, nil, nil, ErrUnknownLotteryType
		}
	}

	nowFn := e.now
	if nowFn == nil {
		nowFn = time.Now
	}
	since := w.Since(nowFn())

	all, err := e.repo.ListDraws(ctx, w.Game, since)
	if err != nil {
		return nil, nil, nil, errs.Wrap(err, "list draws failed")
	}

	byGame := map[string][]draw.Draw{}
	for _, d := range all {
		key := strings.ToLower(strings.TrimSpace(d.GameName))
		byGame[key] = append(byGame[key], d)
	}

	games := e.targetGames(w)
	specs := map[string]*spec.GameSpec{}
	for _, g := range games {
		gs, err := e.cat.GameSpecByName(g)
		if err != nil {
			return nil, nil, nil, errs.Wrap(err, "load game spec failed")
		}
		specs[g] = gs
	}
	return games, specs, byGame, nil
}

// perGame 對每個目標遊戲跑一次 fn。
// 指定了遊戲：錯誤直接上拋。未指定：資料不足只記 Notes，其他錯誤上拋。
func (e *Engine) perGame(res *Result, games []string, w Window, fn func(g string) error) error {
	single := w.Game != ""
	for _, g := range games {
		err := fn(g)
		if err == nil {
			continue
		}
		if single {
			return err
		}
		if ee, ok := errs.AsErr(err); ok && ee.ErrLv == errs.Warn {
			if res.Notes == nil {
				res.Notes = map[string]string{}
			}
			res.Notes[g] = ee.Message
			continue
		}
		return err
	}
	return nil
}

func (e *Engine) targetGames(w Window) []string {
	if w.Game != "" {
		return []string{strings.ToLower(strings.TrimSpace(w.Game))}
	}
	return e.cat.Names()
}
