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
	"math"
	"sort"

	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/spec"
	"gonum.org/v1/gonum/stat"
)

// DefaultMinOverlap 兩遊戲序列至少要有的重疊樣本數，低於門檻的配對
// 直接省略（不回報為 0，省略與 0 是兩回事）。
const DefaultMinOverlap = 10

// 相關強度分級門檻。對外報表一律用這組，不得各處自訂。
const (
	strongCorrThreshold   = 0.7
	moderateCorrThreshold = 0.4
)

// Band 相關強度分級。
type Band string

const (
	BandStrong   Band = "Strong"
	BandModerate Band = "Moderate"
	BandWeak     Band = "Weak"
)

// ClassifyCorrelation 依 |r| 分級：> 0.7 Strong、(0.4, 0.7] Moderate、其餘 Weak。
func ClassifyCorrelation(r float64) Band {
	abs := math.Abs(r)
	switch {
	case abs > strongCorrThreshold:
		return BandStrong
	case abs > moderateCorrThreshold:
		return BandModerate
	default:
		return BandWeak
	}
}

// CorrelationPair 一對遊戲的 Pearson 相關。無序對只輸出一個方向
// （GameA < GameB 字典序）。
type CorrelationPair struct {
	GameA       string  `json:"game_a"`
	GameB       string  `json:"game_b"`
	Correlation float64 `json:"correlation"`
	Samples     int     `json:"samples"`
	Band        Band    `json:"band"`
}

// CorrelationAnalyzer 計算各遊戲「每期號碼總和」序列之間的 Pearson 相關。
// 序列以「距今最近的 N 期」對齊（trailing index 對齊）；開獎頻率不同的
// 遊戲用日期對齊會製造大量缺口，trailing 對齊是這裡的刻意選擇。
type CorrelationAnalyzer struct {
	MinOverlap int
}

func NewCorrelationAnalyzer() CorrelationAnalyzer {
	return CorrelationAnalyzer{MinOverlap: DefaultMinOverlap}
}

// Analyze 對每一對遊戲計算相關係數。
//
// 合約：
//   - 重疊樣本 < MinOverlap 的配對省略。
//   - 任一側變異數為 0 的配對省略（避免除以零產生 NaN）。
//   - corr(A,B) == corr(B,A)，每對只輸出一次。
func (ca CorrelationAnalyzer) Analyze(specs map[string]*spec.GameSpec, byGame map[string][]draw.Draw) ([]CorrelationPair, error) {
	series := map[string][]float64{}
	for game, ds := range byGame {
		gs, ok := specs[game]
		if !ok {
			continue
		}
		valid, _ := filterValid(gs, ds)
		sorted := append([]draw.Draw(nil), valid...)
		draw.SortByDate(sorted)
		s := make([]float64, len(sorted))
		for i := range sorted {
			s[i] = float64(sorted[i].Sum())
		}
		series[game] = s
	}

	games := make([]string, 0, len(series))
	for g := range series {
		games = append(games, g)
	}
	sort.Strings(games)

	var out []CorrelationPair
	for i := 0; i < len(games); i++ {
		for j := i + 1; j < len(games); j++ {
			a, b := series[games[i]], series[games[j]]
			n := min(len(a), len(b))
			if n < ca.MinOverlap {
				continue
			}
			// trailing 對齊：各取最近 n 期
			x := a[len(a)-n:]
			y := b[len(b)-n:]
			if stat.StdDev(x, nil) == 0 || stat.StdDev(y, nil) == 0 {
				continue
			}
			r := stat.Correlation(x, y, nil)
			if math.IsNaN(r) {
				continue
			}
			out = append(out, CorrelationPair{
				GameA:       games[i],
				GameB:       games[j],
				Correlation: r,
				Samples:     n,
				Band:        ClassifyCorrelation(r),
			})
		}
	}
	return out, nil
}
