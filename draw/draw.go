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

// Package draw 定義開獎紀錄（Draw）資料模型與讀取邊界（Repository）。
//
// Draw 由外部匯入流程產生，分析核心只讀不寫；
// 這裡刻意不做任何統計，統計一律在 analysis 包。
package draw

import (
	"sort"
	"time"
)

// Division 單一獎級的開獎結果。
type Division struct {
	Match          string  `json:"match"`            // 中獎規則描述（ex: "SIX CORRECT NUMBERS"）
	Winners        int     `json:"winners"`          // 該獎級中獎人數
	PrizePerWinner float64 `json:"prize_per_winner"` // 每位中獎者獎金
}

// Draw 一期開獎紀錄。建立後不可變；分析核心只讀。
//
// Divisions 以「上游原始獎級標籤」為 key。同一遊戲不同期的標籤
// 文字可能不一致（上游匯入品質問題），這裡刻意不做正規化：
// 改寫標籤會改變統計口徑，屬產品層決策。
type Draw struct {
	GameName     string              `json:"game_name"`
	DrawNumber   string              `json:"draw_number"` // 期號，同遊戲內唯一
	DrawDate     time.Time           `json:"draw_date"`
	Numbers      []int               `json:"numbers"`
	BonusNumbers []int               `json:"bonus_numbers,omitempty"`
	Divisions    map[string]Division `json:"divisions,omitempty"`
}

// SortedNumbers 回傳號碼由小到大排序的 copy，原 Draw 不動。
func (d *Draw) SortedNumbers() []int {
	out := append([]int(nil), d.Numbers...)
	sort.Ints(out)
	return out
}

// Sum 回傳主號碼總和，是時間序列與相關性分析的基本指標。
func (d *Draw) Sum() int {
	s := 0
	for _, n := range d.Numbers {
		s += n
	}
	return s
}

// HasNumber 回傳主號碼中是否包含 n。
func (d *Draw) HasNumber(n int) bool {
	for _, v := range d.Numbers {
		if v == n {
			return true
		}
	}
	return false
}

// SortByDate 依開獎日期由舊到新排序（同日期以期號排序，保持 determinism）。
// 就地排序，分析前的標準前處理。
func SortByDate(ds []Draw) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].DrawDate.Equal(ds[j].DrawDate) {
			return ds[i].DrawNumber < ds[j].DrawNumber
		}
		return ds[i].DrawDate.Before(ds[j].DrawDate)
	})
}
