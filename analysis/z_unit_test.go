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
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
	"testing/fstest"
	"time"

	"github.com/zintix-labs/lottolab/catalog"
	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/spec"
)

var testBase = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testSpec() *spec.GameSpec {
	return &spec.GameSpec{
		GameName:  "minilotto",
		PickCount: 3,
		NumberMin: 1,
		NumberMax: 10,
	}
}

func testSpecBonus() *spec.GameSpec {
	gs := testSpec()
	gs.BonusCount = 1
	gs.BonusMin = 1
	gs.BonusMax = 5
	return gs
}

func mkDraw(game string, seq int, day int, nums []int, bonus ...int) draw.Draw {
	return draw.Draw{
		GameName:     game,
		DrawNumber:   fmt.Sprintf("%s-%03d", game, seq),
		DrawDate:     testBase.AddDate(0, 0, day),
		Numbers:      nums,
		BonusNumbers: bonus,
	}
}

// ============================================================
// ** Frequency **
// ============================================================

func TestFrequencyCountsAndRanking(t *testing.T) {
	gs := testSpecBonus()
	ds := []draw.Draw{
		mkDraw("minilotto", 1, 0, []int{1, 2, 3}, 2),
		mkDraw("minilotto", 2, 1, []int{1, 2, 4}, 2),
		mkDraw("minilotto", 3, 2, []int{1, 3, 5}, 1),
		mkDraw("minilotto", 4, 3, []int{2, 3, 6}, 2),
		mkDraw("minilotto", 5, 4, []int{4, 5, 6}, 3),
		mkDraw("minilotto", 6, 5, []int{7, 8, 9}, 2),
	}
	fa := NewFrequencyAnalyzer()
	res, err := fa.Analyze(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Draws != 6 {
		t.Fatalf("expected 6 draws, got %d", res.Draws)
	}

	// Σ counts == draws × pick count
	total := 0
	for _, c := range res.NumberCounts {
		total += c
	}
	if total != 6*gs.PickCount {
		t.Fatalf("count sum invariant broken: got %d want %d", total, 6*gs.PickCount)
	}

	// count 降冪，平手號碼升冪：1、2、3 同為 3 次
	if len(res.TopNumbers) < 3 {
		t.Fatalf("top numbers too short: %v", res.TopNumbers)
	}
	for i, want := range []int{1, 2, 3} {
		if res.TopNumbers[i].Number != want || res.TopNumbers[i].Count != 3 {
			t.Fatalf("top[%d] = %+v, want number %d count 3", i, res.TopNumbers[i], want)
		}
	}

	// bonus 與主號分開計
	if res.BonusCounts[2] != 4 || res.BonusCounts[1] != 1 || res.BonusCounts[3] != 1 {
		t.Fatalf("unexpected bonus counts: %v", res.BonusCounts)
	}
}

func TestFrequencySkipsMalformedDraws(t *testing.T) {
	gs := testSpec()
	ds := []draw.Draw{
		mkDraw("minilotto", 1, 0, []int{1, 2, 3}),
		mkDraw("minilotto", 2, 1, []int{2, 3, 4}),
		mkDraw("minilotto", 3, 2, []int{3, 4, 5}),
		mkDraw("minilotto", 4, 3, []int{4, 5, 6}),
		mkDraw("minilotto", 5, 4, []int{5, 6, 7}),
		mkDraw("minilotto", 6, 5, []int{0, 2, 3}),  // 超出值域
		mkDraw("minilotto", 7, 6, []int{1, 2}),     // 號碼數不符
		mkDraw("minilotto", 8, 7, []int{1, 2, 99}), // 超出值域
	}
	res, err := NewFrequencyAnalyzer().Analyze(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Draws != 5 || res.Skipped != 3 {
		t.Fatalf("expected 5 valid / 3 skipped, got %d / %d", res.Draws, res.Skipped)
	}
	if _, ok := res.NumberCounts[99]; ok {
		t.Fatalf("out-of-range number leaked into counts")
	}
}

func TestFrequencyInsufficientData(t *testing.T) {
	gs := testSpec()
	ds := []draw.Draw{
		mkDraw("minilotto", 1, 0, []int{1, 2, 3}),
		mkDraw("minilotto", 2, 1, []int{2, 3, 4}),
	}
	_, err := NewFrequencyAnalyzer().Analyze(gs, ds)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

// ============================================================
// ** Pattern clusters **
// ============================================================

func clusterFixture() (gsOut *spec.GameSpec, ds []draw.Draw) {
	gs := testSpec()
	ds = make([]draw.Draw, 0, 20)
	for i := 0; i < 10; i++ {
		ds = append(ds, mkDraw("minilotto", i+1, i, []int{1, 2, 3}))
	}
	for i := 0; i < 10; i++ {
		ds = append(ds, mkDraw("minilotto", i+11, i+10, []int{6, 8, 9}))
	}
	return gs, ds
}

func TestClusterSeparatesDistinctPatterns(t *testing.T) {
	gs, ds := clusterFixture()
	pa := PatternClusterAnalyzer{MinDraws: DefaultMinClusterDraws, K: 2}
	clusters, err := pa.Analyze(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}

	// 每期恰好屬於一個叢集
	seen := map[string]int{}
	total := 0
	for _, c := range clusters {
		if c.Size != len(c.MemberDraws) {
			t.Fatalf("size mismatch: %+v", c)
		}
		if !c.Significant {
			t.Fatalf("cluster of size %d should be significant", c.Size)
		}
		for _, m := range c.MemberDraws {
			seen[m]++
			total++
		}
	}
	if total != len(ds) {
		t.Fatalf("membership total %d, want %d", total, len(ds))
	}
	for m, n := range seen {
		if n != 1 {
			t.Fatalf("draw %s assigned to %d clusters", m, n)
		}
	}

	// 兩組各自完全同號，共同號碼應全部填滿
	for _, c := range clusters {
		if c.Size != 10 {
			t.Fatalf("expected clean 10/10 split, got size %d", c.Size)
		}
		for pos, p := range c.CommonNumbers {
			if p == nil {
				t.Fatalf("identical members must share position %d", pos)
			}
		}
	}
}

func TestClusterCommonNumbersStrictIntersection(t *testing.T) {
	gs := testSpec()
	ds := make([]draw.Draw, 0, 20)
	for i := 0; i < 20; i++ {
		// pos0=2、pos1=5 固定；pos2 在 6..10 之間輪動
		ds = append(ds, mkDraw("minilotto", i+1, i, []int{2, 5, 6 + i%5}))
	}
	pa := PatternClusterAnalyzer{MinDraws: DefaultMinClusterDraws, K: 1}
	clusters, err := pa.Analyze(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 || clusters[0].Size != 20 {
		t.Fatalf("expected single cluster of 20, got %+v", clusters)
	}
	cn := clusters[0].CommonNumbers
	if len(cn) != gs.PickCount {
		t.Fatalf("common numbers length %d, want %d", len(cn), gs.PickCount)
	}
	if cn[0] == nil || *cn[0] != 2 {
		t.Fatalf("position 0 should be common 2, got %v", cn[0])
	}
	if cn[1] == nil || *cn[1] != 5 {
		t.Fatalf("position 1 should be common 5, got %v", cn[1])
	}
	if cn[2] != nil {
		t.Fatalf("position 2 differs across members, must be null, got %d", *cn[2])
	}
}

func TestClusterStableUnderReordering(t *testing.T) {
	gs, ds := clusterFixture()
	pa := PatternClusterAnalyzer{MinDraws: DefaultMinClusterDraws, K: 2}

	a, err := pa.Analyze(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rev := make([]draw.Draw, len(ds))
	for i := range ds {
		rev[len(ds)-1-i] = ds[i]
	}
	b, err := pa.Analyze(gs, rev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("clustering depends on input order:\n%+v\nvs\n%+v", a, b)
	}
}

func TestClusterInsufficientData(t *testing.T) {
	gs := testSpec()
	ds := make([]draw.Draw, 0, 19)
	for i := 0; i < 19; i++ {
		ds = append(ds, mkDraw("minilotto", i+1, i, []int{1, 2, 3}))
	}
	_, err := NewPatternClusterAnalyzer().Analyze(gs, ds)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

// 孤例叢集照樣回報，但標記為不顯著
func TestClusterReportsNonSignificantSingleton(t *testing.T) {
	gs := testSpec()
	ds := make([]draw.Draw, 0, 21)
	for i := 0; i < 20; i++ {
		ds = append(ds, mkDraw("minilotto", i+1, i, []int{1, 2, 3}))
	}
	ds = append(ds, mkDraw("minilotto", 21, 20, []int{8, 9, 10}))

	pa := PatternClusterAnalyzer{MinDraws: DefaultMinClusterDraws, K: 2}
	clusters, err := pa.Analyze(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("singleton cluster must not be dropped, got %d clusters", len(clusters))
	}

	var single, bulk *PatternCluster
	for i := range clusters {
		switch clusters[i].Size {
		case 1:
			single = &clusters[i]
		case 20:
			bulk = &clusters[i]
		}
	}
	if single == nil || bulk == nil {
		t.Fatalf("expected 20/1 split, got %+v", clusters)
	}
	if single.Significant {
		t.Fatalf("cluster of size 1 must not be significant")
	}
	if !bulk.Significant {
		t.Fatalf("cluster of size 20 must be significant")
	}
	// 孤例的共同號碼就是它自己的號碼
	for pos, want := range []int{8, 9, 10} {
		if single.CommonNumbers[pos] == nil || *single.CommonNumbers[pos] != want {
			t.Fatalf("singleton position %d should be %d, got %v", pos, want, single.CommonNumbers[pos])
		}
	}
}

// ============================================================
// ** Time series **
// ============================================================

func TestTimeSeriesSortedByDate(t *testing.T) {
	gs := testSpec()
	// 刻意亂序餵入
	ds := []draw.Draw{
		mkDraw("minilotto", 3, 9, []int{1, 2, 3}),
		mkDraw("minilotto", 1, 2, []int{2, 3, 4}),
		mkDraw("minilotto", 2, 5, []int{5, 6, 7}),
	}
	ts := NewTimeSeriesAnalyzer().Analyze(gs, ds, MetricDrawSum)
	if ts.Metric != "draw_sum" {
		t.Fatalf("unexpected metric name: %s", ts.Metric)
	}
	if len(ts.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(ts.Points))
	}
	for i := 1; i < len(ts.Points); i++ {
		if ts.Points[i].Date.Before(ts.Points[i-1].Date) {
			t.Fatalf("points not sorted by date: %v", ts.Points)
		}
	}
	wantVals := []float64{9, 18, 6}
	for i, want := range wantVals {
		if ts.Points[i].Value != want {
			t.Fatalf("point %d value %v, want %v", i, ts.Points[i].Value, want)
		}
	}
}

func TestTimeSeriesEmptyIsSoft(t *testing.T) {
	gs := testSpec()
	ts := NewTimeSeriesAnalyzer().Analyze(gs, nil, MetricDrawSum)
	if len(ts.Points) != 0 {
		t.Fatalf("expected empty series, got %d points", len(ts.Points))
	}
}

func TestTimeSeriesNumberHitMetric(t *testing.T) {
	gs := testSpec()
	ds := []draw.Draw{
		mkDraw("minilotto", 1, 0, []int{1, 2, 3}),
		mkDraw("minilotto", 2, 1, []int{4, 5, 6}),
		mkDraw("minilotto", 3, 2, []int{2, 7, 8}),
	}
	ts := NewTimeSeriesAnalyzer().Analyze(gs, ds, MetricNumberHit(2))
	want := []float64{1, 0, 1}
	for i, w := range want {
		if ts.Points[i].Value != w {
			t.Fatalf("hit metric point %d = %v, want %v", i, ts.Points[i].Value, w)
		}
	}
}

// ============================================================
// ** Winner divisions **
// ============================================================

func TestWinnerDivisionAggregation(t *testing.T) {
	gs := testSpec()
	withDiv := func(d draw.Draw, divs map[string]draw.Division) draw.Draw {
		d.Divisions = divs
		return d
	}
	ds := []draw.Draw{
		withDiv(mkDraw("minilotto", 1, 0, []int{1, 2, 3}), map[string]draw.Division{
			"Div 1": {Match: "3 CORRECT", Winners: 1, PrizePerWinner: 100},
			"Div 2": {Match: "2 CORRECT", Winners: 10, PrizePerWinner: 10},
		}),
		withDiv(mkDraw("minilotto", 2, 1, []int{2, 3, 4}), map[string]draw.Division{
			"Div 1": {Match: "3 CORRECT", Winners: 0, PrizePerWinner: 200},
			"Div 2": {Match: "2 CORRECT", Winners: 20, PrizePerWinner: 20},
		}),
		// Div 1 缺席的期：不得把缺漏當 0 計入平均
		withDiv(mkDraw("minilotto", 3, 2, []int{3, 4, 5}), map[string]draw.Division{
			"Div 2": {Match: "2 CORRECT", Winners: 30, PrizePerWinner: 30},
		}),
		withDiv(mkDraw("minilotto", 4, 3, []int{4, 5, 6}), map[string]draw.Division{
			"Div 2": {Match: "2 CORRECT", Winners: 40, PrizePerWinner: 40},
		}),
		mkDraw("minilotto", 5, 4, []int{5, 6, 7}), // 無獎級資料，跳過
	}

	res, err := NewWinnerDivisionAnalyzer().Analyze(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Draws != 4 || res.Skipped != 1 {
		t.Fatalf("draws/skipped = %d/%d, want 4/1", res.Draws, res.Skipped)
	}
	if len(res.Divisions) != 2 {
		t.Fatalf("expected 2 division stats, got %+v", res.Divisions)
	}

	// 依標籤排序輸出
	d1, d2 := res.Divisions[0], res.Divisions[1]
	if d1.Label != "Div 1" || d2.Label != "Div 2" {
		t.Fatalf("divisions not sorted by label: %+v", res.Divisions)
	}
	if d1.TotalWinners != 1 || d1.DrawCount != 2 {
		t.Fatalf("Div 1 aggregate wrong: %+v", d1)
	}
	if d1.AveragePrize != 150 {
		t.Fatalf("Div 1 average prize %v, want 150 (missing label must not count as zero)", d1.AveragePrize)
	}
	if d2.TotalWinners != 100 || d2.DrawCount != 4 || d2.AveragePrize != 25 {
		t.Fatalf("Div 2 aggregate wrong: %+v", d2)
	}
}

// ============================================================
// ** Correlation **
// ============================================================

func TestCorrelationPairs(t *testing.T) {
	gs := testSpec()
	specs := map[string]*spec.GameSpec{
		"alpha": gs, "beta": gs, "gamma": gs, "delta": gs,
	}
	series := func(game string, n int, constant bool) []draw.Draw {
		out := make([]draw.Draw, 0, n)
		for i := 0; i < n; i++ {
			nums := []int{1, 2, 3 + i%5}
			if constant {
				nums = []int{1, 2, 3}
			}
			out = append(out, mkDraw(game, i+1, i, nums))
		}
		return out
	}
	byGame := map[string][]draw.Draw{
		"alpha": series("alpha", 12, false),
		"beta":  series("beta", 12, false), // 與 alpha 完全同序列
		"gamma": series("gamma", 5, false), // 低於最小重疊
		"delta": series("delta", 12, true), // 變異數為 0
	}

	pairs, err := NewCorrelationAnalyzer().Analyze(specs, byGame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected only alpha-beta pair, got %+v", pairs)
	}
	p := pairs[0]
	if p.GameA != "alpha" || p.GameB != "beta" {
		t.Fatalf("pair should be lexicographic alpha<beta: %+v", p)
	}
	if p.Samples != 12 {
		t.Fatalf("expected 12 samples, got %d", p.Samples)
	}
	if math.Abs(p.Correlation-1.0) > 1e-9 {
		t.Fatalf("identical series should correlate 1.0, got %v", p.Correlation)
	}
	if p.Band != BandStrong {
		t.Fatalf("expected Strong band, got %s", p.Band)
	}
}

func TestClassifyCorrelationBands(t *testing.T) {
	cases := []struct {
		r    float64
		want Band
	}{
		{0.9, BandStrong},
		{-0.8, BandStrong},
		{0.7, BandModerate}, // 邊界值含在 Moderate
		{0.5, BandModerate},
		{0.4, BandWeak},
		{-0.1, BandWeak},
		{0, BandWeak},
	}
	for _, c := range cases {
		if got := ClassifyCorrelation(c.r); got != c.want {
			t.Fatalf("ClassifyCorrelation(%v) = %s, want %s", c.r, got, c.want)
		}
	}
}

// ============================================================
// ** Prediction **
// ============================================================

func TestPredictStrategies(t *testing.T) {
	gs := testSpecBonus()
	ds := []draw.Draw{
		mkDraw("minilotto", 1, 0, []int{1, 2, 3}, 2),
		mkDraw("minilotto", 2, 1, []int{1, 2, 3}, 2),
		mkDraw("minilotto", 3, 2, []int{1, 2, 3}, 1),
		mkDraw("minilotto", 4, 3, []int{1, 2, 3}, 2),
		mkDraw("minilotto", 5, 4, []int{1, 2, 3}, 2),
		mkDraw("minilotto", 6, 5, []int{4, 5, 6}, 3),
	}
	recs, err := NewPredictionEngine().Predict(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 strategies, got %d", len(recs))
	}

	byStrategy := map[string]Recommendation{}
	for _, r := range recs {
		byStrategy[r.Strategy] = r

		// 共同合約：恰好 PickCount 顆、不重複、在值域內、升冪
		if len(r.Numbers) != gs.PickCount {
			t.Fatalf("%s returned %d numbers, want %d", r.Strategy, len(r.Numbers), gs.PickCount)
		}
		seen := map[int]bool{}
		for i, n := range r.Numbers {
			if !gs.InRange(n) {
				t.Fatalf("%s produced out-of-range number %d", r.Strategy, n)
			}
			if seen[n] {
				t.Fatalf("%s produced duplicate number %d", r.Strategy, n)
			}
			seen[n] = true
			if i > 0 && r.Numbers[i-1] >= n {
				t.Fatalf("%s numbers not ascending: %v", r.Strategy, r.Numbers)
			}
		}
		if r.Bonus == nil || *r.Bonus != 2 {
			t.Fatalf("%s bonus should be most frequent bonus 2, got %v", r.Strategy, r.Bonus)
		}
	}

	if got := byStrategy[StrategyMostFrequent].Numbers; !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("MostFrequent = %v, want [1 2 3]", got)
	}
	if got := byStrategy[StrategyPositionFrequent].Numbers; !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("PositionFrequent = %v, want [1 2 3]", got)
	}
	// 最近 10 期全都開過 1..6，到期號碼只剩頻率排名後段
	if got := byStrategy[StrategyDueNumbers].Numbers; !reflect.DeepEqual(got, []int{7, 8, 9}) {
		t.Fatalf("DueNumbers = %v, want [7 8 9]", got)
	}
	// 半熱半冷：[1 2] + 最冷的未用號碼 7
	if got := byStrategy[StrategyBalancedFrequency].Numbers; !reflect.DeepEqual(got, []int{1, 2, 7}) {
		t.Fatalf("BalancedFrequency = %v, want [1 2 7]", got)
	}
}

// 逐位冠軍撞號時改取該位的次常見未用號碼
func TestPredictPositionFrequentClash(t *testing.T) {
	gs := testSpec()
	// pos0 冠軍是 2（4 次 vs 1 的 3 次），pos1 冠軍也是 2（3 次）。
	// 2 被 pos0 拿走後，pos1 應改取次常見的 5，而不是跳去整體排名。
	ds := []draw.Draw{
		mkDraw("minilotto", 1, 0, []int{2, 5, 9}),
		mkDraw("minilotto", 2, 1, []int{2, 5, 8}),
		mkDraw("minilotto", 3, 2, []int{2, 6, 9}),
		mkDraw("minilotto", 4, 3, []int{2, 6, 8}),
		mkDraw("minilotto", 5, 4, []int{1, 2, 7}),
		mkDraw("minilotto", 6, 5, []int{1, 2, 8}),
		mkDraw("minilotto", 7, 6, []int{1, 2, 9}),
	}
	recs, err := NewPredictionEngine().Predict(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range recs {
		if r.Strategy != StrategyPositionFrequent {
			continue
		}
		// pos2: 8 與 9 各 3 次，平手取小 = 8
		if !reflect.DeepEqual(r.Numbers, []int{2, 5, 8}) {
			t.Fatalf("PositionFrequent = %v, want [2 5 8]", r.Numbers)
		}
		return
	}
	t.Fatalf("PositionFrequent strategy missing from %+v", recs)
}

// 到期號碼不足 k 顆時由整體熱門號遞補
func TestPredictDueNumbersBackfill(t *testing.T) {
	gs := testSpec()
	// 最近 3 期開遍 1..6 與 8 9 10，唯一到期的號碼是 7；
	// 其餘兩顆必須從熱門號 8 9 遞補。
	ds := []draw.Draw{
		mkDraw("minilotto", 1, 0, []int{7, 8, 9}),
		mkDraw("minilotto", 2, 1, []int{7, 8, 10}),
		mkDraw("minilotto", 3, 2, []int{8, 9, 10}),
		mkDraw("minilotto", 4, 3, []int{1, 2, 3}),
		mkDraw("minilotto", 5, 4, []int{4, 5, 6}),
		mkDraw("minilotto", 6, 5, []int{8, 9, 10}),
	}
	pe := PredictionEngine{MinDraws: DefaultMinDraws, DueWindow: 3}
	recs, err := pe.Predict(gs, ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byStrategy := map[string][]int{}
	for _, r := range recs {
		byStrategy[r.Strategy] = r.Numbers
	}
	// 單靠熱度會選 [8 9 10]；到期邏輯必須把 7 擠進來
	if got := byStrategy[StrategyMostFrequent]; !reflect.DeepEqual(got, []int{8, 9, 10}) {
		t.Fatalf("MostFrequent = %v, want [8 9 10]", got)
	}
	if got := byStrategy[StrategyDueNumbers]; !reflect.DeepEqual(got, []int{7, 8, 9}) {
		t.Fatalf("DueNumbers = %v, want [7 8 9]", got)
	}
}

func TestPredictInsufficientData(t *testing.T) {
	gs := testSpec()
	ds := []draw.Draw{
		mkDraw("minilotto", 1, 0, []int{1, 2, 3}),
	}
	_, err := NewPredictionEngine().Predict(gs, ds)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

// ============================================================
// ** Engine **
// ============================================================

const miniYAML = `game_name: minilotto
pick_count: 3
number_min: 1
number_max: 10
bonus_count: 1
bonus_min: 1
bonus_max: 5
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cfgFS := fstest.MapFS{
		"minilotto.yaml": &fstest.MapFile{Data: []byte(miniYAML)},
	}
	cat, err := catalog.New(cfgFS)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if err := cat.Register(catalog.Entry{Name: "minilotto", ConfigName: "minilotto.yaml"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	cat.Freeze()
	return cat
}

// failRepo 一被呼叫就讓測試失敗，驗證邊界檢查先於 I/O。
type failRepo struct{ t *testing.T }

func (f *failRepo) ListDraws(ctx context.Context, gameName string, since time.Time) ([]draw.Draw, error) {
	f.t.Fatalf("repository must not be touched before window validation")
	return nil, nil
}

func TestEngineValidatesBeforeRepo(t *testing.T) {
	cat := testCatalog(t)
	eng, err := NewEngine(&failRepo{t: t}, cat)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	_, err = eng.Analyze(context.Background(), KindFrequency, Window{Days: 0})
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("days=0 should be ErrInvalidWindow, got %v", err)
	}
	_, err = eng.Analyze(context.Background(), KindFrequency, Window{Days: -7})
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("days<0 should be ErrInvalidWindow, got %v", err)
	}
	_, err = eng.Analyze(context.Background(), KindFrequency, Window{Game: "nope", Days: 30})
	if !errors.Is(err, ErrUnknownLotteryType) {
		t.Fatalf("unknown game should be ErrUnknownLotteryType, got %v", err)
	}
}

func TestEngineRejectsCorrelationGameFilter(t *testing.T) {
	cat := testCatalog(t)
	eng, err := NewEngine(&failRepo{t: t}, cat)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	_, err = eng.Analyze(context.Background(), KindCorrelation, Window{Game: "minilotto", Days: 30})
	if err == nil {
		t.Fatalf("correlation with a game filter must be rejected")
	}
}

func TestEngineFrequencyEndToEnd(t *testing.T) {
	cat := testCatalog(t)
	repo := draw.NewMemoryRepository()
	for i := 0; i < 6; i++ {
		repo.Add(mkDraw("minilotto", i+1, i, []int{1, 2, 3 + i%5}, 2))
	}

	eng, err := NewEngine(repo, cat)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	eng = eng.WithNow(func() time.Time { return testBase.AddDate(0, 0, 10) })

	res, err := eng.Analyze(context.Background(), KindFrequency, Window{Game: "minilotto", Days: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != KindFrequency {
		t.Fatalf("result kind %s", res.Kind)
	}
	fr, ok := res.Frequency["minilotto"]
	if !ok {
		t.Fatalf("missing frequency result: %+v", res.Frequency)
	}
	if fr.Draws != 6 {
		t.Fatalf("expected 6 draws in window, got %d", fr.Draws)
	}
}

func TestEngineWindowFiltersOldDraws(t *testing.T) {
	cat := testCatalog(t)
	repo := draw.NewMemoryRepository()
	// 5 期在窗口內，3 期太舊
	for i := 0; i < 5; i++ {
		repo.Add(mkDraw("minilotto", i+1, i, []int{1, 2, 3}, 2))
	}
	for i := 0; i < 3; i++ {
		repo.Add(mkDraw("minilotto", i+10, -100-i, []int{4, 5, 6}, 3))
	}

	eng, err := NewEngine(repo, cat)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	eng = eng.WithNow(func() time.Time { return testBase.AddDate(0, 0, 10) })

	res, err := eng.Analyze(context.Background(), KindFrequency, Window{Game: "minilotto", Days: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fr := res.Frequency["minilotto"]; fr.Draws != 5 {
		t.Fatalf("window must drop old draws: got %d draws", fr.Draws)
	}
	if _, ok := res.Frequency["minilotto"].NumberCounts[6]; ok {
		t.Fatalf("old draws leaked into counts")
	}
}

func TestEngineInsufficientDataSingleGame(t *testing.T) {
	cat := testCatalog(t)
	repo := draw.NewMemoryRepository()
	repo.Add(mkDraw("minilotto", 1, 0, []int{1, 2, 3}, 2))

	eng, err := NewEngine(repo, cat)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	eng = eng.WithNow(func() time.Time { return testBase.AddDate(0, 0, 10) })

	// 指定了遊戲：硬錯誤
	_, err = eng.Analyze(context.Background(), KindFrequency, Window{Game: "minilotto", Days: 30})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}

	// 未指定遊戲：軟處理，記在 Notes
	res, err := eng.Analyze(context.Background(), KindFrequency, Window{Days: 30})
	if err != nil {
		t.Fatalf("multi-game analysis should not fail: %v", err)
	}
	if _, ok := res.Notes["minilotto"]; !ok {
		t.Fatalf("expected note for short game, got %+v", res.Notes)
	}
}

func TestEngineTrendMetric(t *testing.T) {
	cat := testCatalog(t)
	repo := draw.NewMemoryRepository()
	for i := 0; i < 6; i++ {
		repo.Add(mkDraw("minilotto", i+1, i, []int{1, 2, 3 + i%5}, 2))
	}
	eng, err := NewEngine(repo, cat)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	eng = eng.WithNow(func() time.Time { return testBase.AddDate(0, 0, 10) })

	res, err := eng.AnalyzeTrend(context.Background(), Window{Game: "minilotto", Days: 30}, MetricNumberHit(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := res.Trend["minilotto"]
	if ts == nil || ts.Metric != "hit_3" {
		t.Fatalf("unexpected trend series: %+v", ts)
	}
	if len(ts.Points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(ts.Points))
	}
}
