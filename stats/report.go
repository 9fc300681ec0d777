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

// Package stats 把 analysis 的數值輸出整理成報告：
// 加上統計敘事（出現率與信賴區間）並負責終端/JSON/YAML 呈現。
// 核心計算在 analysis；這裡只做「敘事與呈現」，不回頭改數字。
package stats

import (
	"io"

	"github.com/zintix-labs/lottolab/analysis"
	"gonum.org/v1/gonum/stat/distuv"
)

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// NumberStat 單一號碼的出現統計。
// Rate 為「一期開獎包含該號碼」的比例（主號碼每期不重複，
// 出現次數即包含期數）。
type NumberStat struct {
	Number int     `json:"Number"`
	Count  int     `json:"Count"`
	Rate   float64 `json:"Rate"`
	RateCI CI      `json:"RateCI"`
}

// FrequencyReport 號碼頻率報告。
//
// 紀錄時不計算，Done() 才一次性把 Rate 與 95% CI 填入。
type FrequencyReport struct {
	Game   string       `json:"Game"`
	Draws  int          `json:"Draws"`
	Top    []NumberStat `json:"Top"`
	isDone bool
}

// NewFrequencyReport 由分析結果建立報告（尚未 finalize）。
func NewFrequencyReport(fr *analysis.FrequencyResult) *FrequencyReport {
	r := &FrequencyReport{
		Game:  fr.Game,
		Draws: fr.Draws,
		Top:   make([]NumberStat, 0, len(fr.TopNumbers)),
	}
	for _, nc := range fr.TopNumbers {
		r.Top = append(r.Top, NumberStat{Number: nc.Number, Count: nc.Count})
	}
	return r
}

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
func (r *FrequencyReport) Done() {
	if r.isDone {
		return
	}
	for i := range r.Top {
		hat, ci := proportionCICP(r.Top[i].Count, r.Draws, 0.95)
		r.Top[i].Rate = hat
		r.Top[i].RateCI = ci
	}
	r.isDone = true
}

func (r *FrequencyReport) WriteWith(w io.Writer, rend FrequencyReportRender) error {
	r.Done()
	return rend.Write(w, r)
}

// proportionCICP Clopper–Pearson 二項比例信賴區間。
// 樣本小（幾十期）時比 normal 近似可靠，彩券窗口常常就這麼小。
func proportionCICP(k, n int, confidence float64) (pHat float64, ci CI) {
	if n <= 0 {
		return 0, CI{}
	}
	if k < 0 {
		k = 0
	}
	if k > n {
		k = n
	}
	pHat = float64(k) / float64(n)
	alpha := 1 - confidence

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return pHat, ci
}
