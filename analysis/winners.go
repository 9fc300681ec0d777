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

// DivisionStat 單一獎級在窗口內的彙總。
type DivisionStat struct {
	Label        string  `json:"label"` // 上游原始標籤，未正規化
	Match        string  `json:"match,omitempty"`
	TotalWinners int     `json:"total_winners"`
	AveragePrize float64 `json:"average_prize"`
	DrawCount    int     `json:"draw_count"` // 帶有該標籤的期數
}

// WinnerResult 獎級中獎統計。
//
// 已知口徑問題：同一遊戲不同期的獎級標籤文字可能不一致（上游匯入
// 品質），彙總直接以原始標籤字串為 key，不做正規化。改寫標籤會改變
// 統計結果，屬產品層決策，不在這層猜。
type WinnerResult struct {
	Game      string         `json:"game"`
	Draws     int            `json:"draws"`             // 帶有獎級資料、納入彙總的期數
	Skipped   int            `json:"skipped,omitempty"` // 完全沒有獎級資料而跳過的期數
	Divisions []DivisionStat `json:"divisions"`         // 依標籤排序
}

// WinnerDivisionAnalyzer 彙總各獎級的中獎人數與平均獎金。
type WinnerDivisionAnalyzer struct {
	MinDraws int
}

func NewWinnerDivisionAnalyzer() WinnerDivisionAnalyzer {
	return WinnerDivisionAnalyzer{MinDraws: DefaultMinDraws}
}

// Analyze 計算各獎級 TotalWinners = Σ winners、AveragePrize = 每期獎金的
// 平均。某期缺某個標籤時該期不入該標籤的平均（缺漏不當 0 算）。
func (wa WinnerDivisionAnalyzer) Analyze(gs *spec.GameSpec, ds []draw.Draw) (*WinnerResult, error) {
	valid, _ := filterValid(gs, ds)
	if len(valid) < wa.MinDraws {
		return nil, ErrInsufficientData
	}

	type acc struct {
		match    string
		winners  int
		prizeSum float64
		draws    int
	}
	byLabel := map[string]*acc{}

	res := &WinnerResult{Game: gs.GameName}
	for _, d := range valid {
		if len(d.Divisions) == 0 {
			res.Skipped++
			continue
		}
		res.Draws++
		for label, div := range d.Divisions {
			a, ok := byLabel[label]
			if !ok {
				a = &acc{match: div.Match}
				byLabel[label] = a
			}
			a.winners += div.Winners
			a.prizeSum += div.PrizePerWinner
			a.draws++
		}
	}

	res.Divisions = make([]DivisionStat, 0, len(byLabel))
	for label, a := range byLabel {
		res.Divisions = append(res.Divisions, DivisionStat{
			Label:        label,
			Match:        a.match,
			TotalWinners: a.winners,
			AveragePrize: a.prizeSum / float64(a.draws),
			DrawCount:    a.draws,
		})
	}
	sort.Slice(res.Divisions, func(i, j int) bool {
		return res.Divisions[i].Label < res.Divisions[j].Label
	})
	return res, nil
}
