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
	"github.com/zintix-labs/lottolab/rng"
	"github.com/zintix-labs/lottolab/spec"
)

// DefaultMinClusterDraws 叢集分析的最低期數。20 期以下分出來的叢集
// 沒有統計意義，直接回 ErrInsufficientData 而不是硬分。
const DefaultMinClusterDraws = 20

// defaultClusterSeed 固定的初始化 seed。叢集結果是對外合約的一部分，
// 同一份資料必須永遠分出同一組叢集。
const defaultClusterSeed int64 = 20250830

const maxKMeansIter = 100

// PatternCluster 彼此相似的一組開獎。
//
// CommonNumbers 每個排序位各一格：只有「所有成員在該位完全同號」
// 才會填值，否則為 null。這是嚴格的逐位交集，不是「常見號碼」。
type PatternCluster struct {
	ID            int      `json:"id"`
	Size          int      `json:"size"`
	MemberDraws   []string `json:"member_draws"` // 期號，排序後輸出
	CommonNumbers []*int   `json:"common_numbers"`
	Significant   bool     `json:"significant"` // size >= 2 才視為有意義
}

// PatternClusterAnalyzer 以 k-means 將開獎分群。
//
// 合約：
//   - 同一份輸入（無論餵入順序）分群結果一致：先依開獎日排序再向量化，
//     初始化用固定 seed 的 PCG。
//   - 每期恰好屬於一個叢集。
//   - 成員數 < 2 的叢集照樣回報，但 Significant = false。
type PatternClusterAnalyzer struct {
	MinDraws int
	K        int   // 目標叢集數；<=0 表示依資料量自動決定
	Seed     int64 // 初始化 seed；0 用預設固定值
}

func NewPatternClusterAnalyzer() PatternClusterAnalyzer {
	return PatternClusterAnalyzer{MinDraws: DefaultMinClusterDraws}
}

// Analyze 分群並萃取各叢集的共同號碼。
func (pa PatternClusterAnalyzer) Analyze(gs *spec.GameSpec, ds []draw.Draw) ([]PatternCluster, error) {
	valid, _ := filterValid(gs, ds)
	if len(valid) < pa.MinDraws {
		return nil, ErrInsufficientData
	}

	// 輸入順序不可影響結果：先做標準排序
	sorted := append([]draw.Draw(nil), valid...)
	draw.SortByDate(sorted)

	n := len(sorted)
	dim := gs.PickCount
	vecs := make([][]float64, n)
	for i := range sorted {
		nums := sorted[i].SortedNumbers()
		v := make([]float64, dim)
		for j := 0; j < dim && j < len(nums); j++ {
			v[j] = float64(nums[j])
		}
		vecs[i] = v
	}

	k := pa.K
	if k <= 0 {
		// 經驗值：每 ~8 期一個叢集，上限 6 下限 2
		k = min(6, max(2, n/8))
	}
	if k > n {
		k = n
	}

	seed := pa.Seed
	if seed == 0 {
		seed = defaultClusterSeed
	}

	assign := kmeans(vecs, k, seed)
	return buildClusters(sorted, assign, k, dim), nil
}

// kmeans 回傳每個點的叢集編號。k-means++ 初始化 + Lloyd 迭代。
// 平手一律取編號較小的 centroid，確保 determinism。
func kmeans(vecs [][]float64, k int, seed int64) []int {
	n := len(vecs)
	dim := len(vecs[0])
	r := rng.NewPCG32(seed)

	// k-means++ 初始化
	centroids := make([][]float64, 0, k)
	first := r.IntN(n)
	centroids = append(centroids, append([]float64(nil), vecs[first]...))
	dist2 := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, v := range vecs {
			best := math.MaxFloat64
			for _, c := range centroids {
				if d := sqDist(v, c); d < best {
					best = d
				}
			}
			dist2[i] = best
			total += best
		}
		if total == 0 {
			// 只剩重複點：其餘 centroid 直接複製第一個，後續會變空叢集被丟掉
			centroids = append(centroids, append([]float64(nil), vecs[first]...))
			continue
		}
		target := r.Float64() * total
		acc := 0.0
		pick := n - 1
		for i, d := range dist2 {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), vecs[pick]...))
	}

	assign := make([]int, n)
	counts := make([]int, k)
	sums := make([][]float64, k)
	for i := range sums {
		sums[i] = make([]float64, dim)
	}

	for iter := 0; iter < maxKMeansIter; iter++ {
		changed := false
		for i, v := range vecs {
			best, bestD := 0, math.MaxFloat64
			for c := range centroids {
				if d := sqDist(v, centroids[c]); d < bestD {
					best, bestD = c, d
				}
			}
			if iter == 0 || assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		// 重算 centroid
		for c := range sums {
			counts[c] = 0
			for j := range sums[c] {
				sums[c][j] = 0
			}
		}
		for i, v := range vecs {
			c := assign[i]
			counts[c]++
			for j, x := range v {
				sums[c][j] += x
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue // 空叢集：centroid 不動，最後輸出時丟掉
			}
			for j := range centroids[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}
	return assign
}

func buildClusters(ds []draw.Draw, assign []int, k int, dim int) []PatternCluster {
	members := make([][]int, k) // cluster -> draw indices
	for i, c := range assign {
		members[c] = append(members[c], i)
	}

	out := make([]PatternCluster, 0, k)
	id := 0
	for c := 0; c < k; c++ {
		if len(members[c]) == 0 {
			continue
		}
		pc := PatternCluster{
			ID:          id,
			Size:        len(members[c]),
			Significant: len(members[c]) >= 2,
		}
		id++

		for _, i := range members[c] {
			pc.MemberDraws = append(pc.MemberDraws, ds[i].DrawNumber)
		}
		sort.Strings(pc.MemberDraws)

		// 嚴格逐位交集：所有成員同位同號才填值
		pc.CommonNumbers = make([]*int, dim)
		for pos := 0; pos < dim; pos++ {
			ref := ds[members[c][0]].SortedNumbers()[pos]
			shared := true
			for _, i := range members[c][1:] {
				if ds[i].SortedNumbers()[pos] != ref {
					shared = false
					break
				}
			}
			if shared {
				v := ref
				pc.CommonNumbers[pos] = &v
			}
		}
		out = append(out, pc)
	}
	return out
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
