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

// Package synth 產生合成的開獎史料，給離線分析與 demo server 當資料來源。
//
// 產生器是確定性的：同一個 seed、同一份遊戲規格，永遠產生同一份史料。
// 每個遊戲帶一小組「熱門號碼」偏置，讓頻率/預測分析在 demo 資料上
// 有可觀察的訊號，而不是純均勻噪音。
package synth

import (
	"fmt"
	"time"

	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/rng"
	"github.com/zintix-labs/lottolab/spec"
)

// 每 drawIntervalDays 天開一期，接近真實彩券一週兩期的節奏。
const drawIntervalDays = 3

// hotBias 熱門號碼被強制補進的機率（百分比）。
const hotBias = 30

type Generator struct {
	rng *rng.PCG32
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rng.NewPCG32(seed)}
}

// Draws 產生 gs 遊戲截至 until、回溯 days 天的開獎史料，由舊到新。
func (g *Generator) Draws(gs *spec.GameSpec, days int, until time.Time) []draw.Draw {
	if gs == nil || days < 1 {
		return nil
	}
	n := days / drawIntervalDays
	if n < 1 {
		n = 1
	}
	hot := g.hotSet(gs)

	out := make([]draw.Draw, 0, n)
	start := until.AddDate(0, 0, -days)
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, (i+1)*drawIntervalDays)
		d := draw.Draw{
			GameName:   gs.GameName,
			DrawNumber: fmt.Sprintf("%s-%05d", date.Format("2006"), i+1),
			DrawDate:   date,
		}
		d.Numbers, d.BonusNumbers = g.pick(gs, hot)
		d.Divisions = g.divisions(gs)
		out = append(out, d)
	}
	return out
}

// hotSet 為遊戲挑三個固定的熱門號碼。
func (g *Generator) hotSet(gs *spec.GameSpec) []int {
	pool := gs.PoolSize()
	hot := make([]int, 0, 3)
	for len(hot) < 3 && len(hot) < pool {
		cand := gs.NumberMin + g.rng.IntN(pool)
		if !contains(hot, cand) {
			hot = append(hot, cand)
		}
	}
	return hot
}

// pick 抽出一期的主號碼與 bonus 號碼。
func (g *Generator) pick(gs *spec.GameSpec, hot []int) (nums, bonus []int) {
	pool := gs.PoolSize()
	perm := g.rng.Perm(pool)

	nums = make([]int, 0, gs.PickCount)
	// 熱門號碼偏置：先決定哪些熱號要強制入選
	for _, h := range hot {
		if len(nums) < gs.PickCount && g.rng.IntN(100) < hotBias {
			nums = append(nums, h)
		}
	}
	for _, p := range perm {
		if len(nums) >= gs.PickCount {
			break
		}
		cand := gs.NumberMin + p
		if !contains(nums, cand) {
			nums = append(nums, cand)
		}
	}

	if gs.BonusCount > 0 {
		bonus = make([]int, 0, gs.BonusCount)
		if gs.BonusFromMain {
			// bonus 與主號同池且不得重複
			for _, p := range perm {
				if len(bonus) >= gs.BonusCount {
					break
				}
				cand := gs.NumberMin + p
				if !contains(nums, cand) && !contains(bonus, cand) {
					bonus = append(bonus, cand)
				}
			}
		} else {
			span := gs.BonusMax - gs.BonusMin + 1
			for len(bonus) < gs.BonusCount {
				cand := gs.BonusMin + g.rng.IntN(span)
				if !contains(bonus, cand) {
					bonus = append(bonus, cand)
				}
			}
		}
	}
	return nums, bonus
}

// divisions 產生一期的獎級結果。頭獎常槓龜，低獎級人數多、單注獎金低。
func (g *Generator) divisions(gs *spec.GameSpec) map[string]draw.Division {
	divs := map[string]draw.Division{}
	topPrize := 1_000_000.0 * float64(1+g.rng.IntN(20))
	for lv := 0; lv < 4 && gs.PickCount-lv >= 2; lv++ {
		match := gs.PickCount - lv
		var winners int
		switch lv {
		case 0:
			// 約 1/8 期有頭獎
			if g.rng.IntN(8) == 0 {
				winners = 1 + g.rng.IntN(2)
			}
		case 1:
			winners = g.rng.IntN(12)
		default:
			winners = 50 * (lv - 1) * (1 + g.rng.IntN(40))
		}
		prize := topPrize
		for i := 0; i < lv; i++ {
			prize /= 40
		}
		label := fmt.Sprintf("Div %d (%d Correct Numbers)", lv+1, match)
		divs[label] = draw.Division{
			Match:          fmt.Sprintf("%d CORRECT NUMBERS", match),
			Winners:        winners,
			PrizePerWinner: prize,
		}
	}
	return divs
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
