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
	"sort"

	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/spec"
)

// DefaultMinDraws 多數分析器的最低資料量門檻。
const DefaultMinDraws = 5

// DefaultTopN TopNumbers 回傳的最大長度。
const DefaultTopN = 10

// NumberCount 一顆號碼與其出現次數。
type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// FrequencyResult 號碼頻率統計。每次請求重算，這一層不做快取。
type FrequencyResult struct {
	Game         string        `json:"game"`
	Draws        int           `json:"draws"` // 納入統計的期數（壞資料已剔除）
	NumberCounts map[int]int   `json:"number_counts"`
	BonusCounts  map[int]int   `json:"bonus_counts,omitempty"`
	TopNumbers   []NumberCount `json:"top_numbers"`
	Skipped      int           `json:"skipped,omitempty"` // 被跳過的壞資料筆數
}

// FrequencyAnalyzer 統計每顆號碼（主號與 bonus 分開計）的出現次數並排名。
// 零值不可用；請用 NewFrequencyAnalyzer 拿到帶預設門檻的實例。
type FrequencyAnalyzer struct {
	MinDraws int
	TopN     int
}

func NewFrequencyAnalyzer() FrequencyAnalyzer {
	return FrequencyAnalyzer{MinDraws: DefaultMinDraws, TopN: DefaultTopN}
}

// Analyze 計算頻率表。
//
// 合約：
//   - 有效期數 < MinDraws → ErrInsufficientData（呼叫端顯示占位，不是當掛）。
//   - TopNumbers 依 count 降冪，平手依號碼升冪，長度 ≤ TopN。
//   - Σ NumberCounts == 有效期數 × PickCount（測試不變量）。
func (fa FrequencyAnalyzer) Analyze(gs *spec.GameSpec, ds []draw.Draw) (*FrequencyResult, error) {
	valid, skipped := filterValid(gs, ds)
	if len(valid) < fa.MinDraws {
		return nil, ErrInsufficientData
	}

	res := &FrequencyResult{
		Game:         gs.GameName,
		Draws:        len(valid),
		NumberCounts: make(map[int]int, gs.PoolSize()),
		Skipped:      skipped,
	}
	if gs.BonusCount > 0 {
		res.BonusCounts = make(map[int]int, gs.BonusMax-gs.BonusMin+1)
	}

	for _, d := range valid {
		for _, n := range d.Numbers {
			res.NumberCounts[n]++
		}
		for _, b := range d.BonusNumbers {
			if gs.BonusInRange(b) {
				res.BonusCounts[b]++
			}
		}
	}

	res.TopNumbers = rankCounts(res.NumberCounts, fa.TopN)
	return res, nil
}

// rankCounts 依 count 降冪、平手依號碼升冪取前 topN。
// 排序規則是對外合約的一部分，不能換。
func rankCounts(counts map[int]int, topN int) []NumberCount {
	ranked := make([]NumberCount, 0, len(counts))
	for n, c := range counts {
		ranked = append(ranked, NumberCount{Number: n, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Number < ranked[j].Number
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// filterValid 剔除「長得像但壞掉」的期數：號碼數不符規格、或號碼超出值域。
// 跳過不報錯，只回報筆數。
func filterValid(gs *spec.GameSpec, ds []draw.Draw) (valid []draw.Draw, skipped int) {
	valid = make([]draw.Draw, 0, len(ds))
	for _, d := range ds {
		if !validDraw(gs, &d) {
			skipped++
			continue
		}
		valid = append(valid, d)
	}
	return valid, skipped
}

func validDraw(gs *spec.GameSpec, d *draw.Draw) bool {
	if len(d.Numbers) != gs.PickCount {
		return false
	}
	for _, n := range d.Numbers {
		if !gs.InRange(n) {
			return false
		}
	}
	return true
}
