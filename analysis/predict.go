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

// DefaultDueWindow DueNumbers 策略的「最近 M 期」窗口。
const DefaultDueWindow = 10

// 策略名稱。對外輸出的字串合約。
const (
	StrategyMostFrequent      = "MostFrequent"
	StrategyPositionFrequent  = "PositionFrequent"
	StrategyBalancedFrequency = "BalancedFrequency"
	StrategyDueNumbers        = "DueNumbers"
)

// Recommendation 單一策略的號碼建議。
//
// 號碼建議純粹是歷史頻率的整理，不帶任何預測力宣稱；
// 對使用者的免責聲明由呈現層負責。
type Recommendation struct {
	Strategy string `json:"strategy"`
	Numbers  []int  `json:"numbers"` // 升冪，恰好 PickCount 顆、不重複、在值域內
	Bonus    *int   `json:"bonus,omitempty"`
}

// PredictionEngine 由頻率統計組合出數種具名建議策略。
// 每個策略固定回傳 PickCount 顆不重複且在值域內的號碼；
// 做不到是程式錯誤，不是可恢復的執行期狀況。
type PredictionEngine struct {
	MinDraws  int
	DueWindow int // DueNumbers 策略回看的期數
}

func NewPredictionEngine() PredictionEngine {
	return PredictionEngine{MinDraws: DefaultMinDraws, DueWindow: DefaultDueWindow}
}

// Predict 產出全部策略的建議。資料量與 FrequencyAnalyzer 同門檻。
func (pe PredictionEngine) Predict(gs *spec.GameSpec, ds []draw.Draw) ([]Recommendation, error) {
	valid, _ := filterValid(gs, ds)
	if len(valid) < pe.MinDraws {
		return nil, ErrInsufficientData
	}
	sorted := append([]draw.Draw(nil), valid...)
	draw.SortByDate(sorted)

	k := gs.PickCount

	// 全池計數（沒開過的號碼計 0，冷號排名需要）
	counts := make(map[int]int, gs.PoolSize())
	for n := gs.NumberMin; n <= gs.NumberMax; n++ {
		counts[n] = 0
	}
	bonusCounts := map[int]int{}
	for _, d := range sorted {
		for _, n := range d.Numbers {
			counts[n]++
		}
		for _, b := range d.BonusNumbers {
			if gs.BonusInRange(b) {
				bonusCounts[b]++
			}
		}
	}

	hot := rankedNumbers(counts, false) // count 降冪，平手號碼升冪
	cold := rankedNumbers(counts, true) // count 升冪，平手號碼升冪
	bonus := pe.pickBonus(gs, bonusCounts)

	recs := []Recommendation{
		{Strategy: StrategyMostFrequent, Numbers: takeDistinct(k, hot), Bonus: bonus},
		{Strategy: StrategyPositionFrequent, Numbers: pe.positionFrequent(gs, sorted, hot), Bonus: bonus},
		{Strategy: StrategyBalancedFrequency, Numbers: pe.balanced(k, hot, cold), Bonus: bonus},
		{Strategy: StrategyDueNumbers, Numbers: pe.dueNumbers(k, sorted, hot), Bonus: bonus},
	}
	for i := range recs {
		sort.Ints(recs[i].Numbers)
	}
	return recs, nil
}

// positionFrequent 每個排序位取該位最常見的號碼；撞號時改取該位
// 次常見的未用號碼，該位全數用罄才退回整體熱門號遞補。
func (pe PredictionEngine) positionFrequent(gs *spec.GameSpec, ds []draw.Draw, hot []int) []int {
	k := gs.PickCount
	posCounts := make([]map[int]int, k)
	for i := range posCounts {
		posCounts[i] = map[int]int{}
	}
	for _, d := range ds {
		nums := d.SortedNumbers()
		for i := 0; i < k && i < len(nums); i++ {
			posCounts[i][nums[i]]++
		}
	}

	used := map[int]bool{}
	out := make([]int, 0, k)
	for pos := 0; pos < k; pos++ {
		ranked := rankedNumbers(posCounts[pos], false)
		picked := -1
		for _, n := range ranked {
			if !used[n] {
				picked = n
				break
			}
		}
		if picked < 0 {
			// 該位所有觀測號碼都被其他位拿走了，退回整體排名
			for _, n := range hot {
				if !used[n] {
					picked = n
					break
				}
			}
		}
		used[picked] = true
		out = append(out, picked)
	}
	return out
}

// balanced 一半取最熱、一半取最冷，合併去重；重疊造成的缺口由熱門側補。
func (pe PredictionEngine) balanced(k int, hot, cold []int) []int {
	half := (k + 1) / 2
	used := map[int]bool{}
	out := make([]int, 0, k)
	for _, n := range hot[:min(half, len(hot))] {
		if !used[n] {
			used[n] = true
			out = append(out, n)
		}
	}
	for _, n := range cold {
		if len(out) >= k {
			break
		}
		if !used[n] {
			used[n] = true
			out = append(out, n)
		}
	}
	for _, n := range hot {
		if len(out) >= k {
			break
		}
		if !used[n] {
			used[n] = true
			out = append(out, n)
		}
	}
	return out
}

// dueNumbers 歷史頻率高、但最近 DueWindow 期沒開出的號碼；
// 不足 k 顆時以尚未入選的熱門號遞補。
func (pe PredictionEngine) dueNumbers(k int, ds []draw.Draw, hot []int) []int {
	recent := map[int]bool{}
	start := max(0, len(ds)-pe.DueWindow)
	for _, d := range ds[start:] {
		for _, n := range d.Numbers {
			recent[n] = true
		}
	}

	used := map[int]bool{}
	out := make([]int, 0, k)
	for _, n := range hot {
		if len(out) >= k {
			break
		}
		if !recent[n] && !used[n] {
			used[n] = true
			out = append(out, n)
		}
	}
	for _, n := range hot {
		if len(out) >= k {
			break
		}
		if !used[n] {
			used[n] = true
			out = append(out, n)
		}
	}
	return out
}

func (pe PredictionEngine) pickBonus(gs *spec.GameSpec, bonusCounts map[int]int) *int {
	if gs.BonusCount == 0 || len(bonusCounts) == 0 {
		return nil
	}
	ranked := rankedNumbers(bonusCounts, false)
	b := ranked[0]
	return &b
}

// rankedNumbers 依 count 排序回傳號碼清單。asc=false 為降冪（熱號在前），
// asc=true 為升冪（冷號在前）；平手一律號碼升冪。
func rankedNumbers(counts map[int]int, asc bool) []int {
	out := make([]int, 0, len(counts))
	for n := range counts {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := counts[out[i]], counts[out[j]]
		if ci != cj {
			if asc {
				return ci < cj
			}
			return ci > cj
		}
		return out[i] < out[j]
	})
	return out
}

func takeDistinct(k int, ranked []int) []int {
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return append([]int(nil), ranked...)
}
