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

package lottolab

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/zintix-labs/lottolab/analysis"
	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/gamecfg"
	"github.com/zintix-labs/lottolab/synth"
)

func TestNewAutoWithEmbeddedConfigs(t *testing.T) {
	repo := draw.NewMemoryRepository()
	lab, err := NewAuto(repo, Configs(gamecfg.FS))
	if err != nil {
		t.Fatalf("new auto: %v", err)
	}
	if !lab.Catalog().IsFrozen() {
		t.Fatalf("NewAuto must freeze the catalog")
	}

	names := lab.Names()
	if len(names) != 6 {
		t.Fatalf("expected 6 embedded games, got %v", names)
	}
	for _, want := range []string{"lotto", "powerball", "daily lotto"} {
		if _, ok := lab.EntryByName(want); !ok {
			t.Fatalf("missing game %q in %v", want, names)
		}
	}

	sum, err := lab.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum) != len(names) {
		t.Fatalf("summary length %d != names %d", len(sum), len(names))
	}
	for _, s := range sum {
		if s.PickCount < 1 || s.NumberMax <= s.NumberMin {
			t.Fatalf("bad summary entry: %+v", s)
		}
	}
}

func TestRegisterAllRejectsDuplicateGameNames(t *testing.T) {
	cfgA := fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte("game_name: twin\npick_count: 3\nnumber_min: 1\nnumber_max: 9")},
		"b.yaml": &fstest.MapFile{Data: []byte("game_name: Twin\npick_count: 3\nnumber_min: 1\nnumber_max: 9")},
	}
	lab, err := New(draw.NewMemoryRepository(), Configs(cfgA))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := lab.RegisterAll(); err == nil {
		t.Fatalf("duplicate game name across configs must fail")
	}
}

func TestNewEngineRequiresFrozenCatalog(t *testing.T) {
	lab, err := New(draw.NewMemoryRepository(), Configs(gamecfg.FS))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := lab.NewEngine(); err == nil {
		t.Fatalf("engine before freeze must fail")
	}
	if _, err := lab.Summary(); err == nil {
		t.Fatalf("summary before freeze must fail")
	}
}

func TestEndToEndWithSyntheticHistory(t *testing.T) {
	repo := draw.NewMemoryRepository()
	lab, err := NewAuto(repo, Configs(gamecfg.FS))
	if err != nil {
		t.Fatalf("new auto: %v", err)
	}

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	gen := synth.NewGenerator(7)
	for _, name := range lab.Names() {
		gs, err := lab.Catalog().GameSpecByName(name)
		if err != nil {
			t.Fatalf("game spec: %v", err)
		}
		repo.Add(gen.Draws(gs, 365, now)...)
	}

	eng, err := lab.NewEngine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	eng = eng.WithNow(func() time.Time { return now })

	res, err := eng.Analyze(context.Background(), analysis.KindFrequency, analysis.Window{Days: 365})
	if err != nil {
		t.Fatalf("frequency: %v", err)
	}
	if len(res.Frequency) != len(lab.Names()) {
		t.Fatalf("expected frequency result per game, got %d", len(res.Frequency))
	}

	res, err = eng.Analyze(context.Background(), analysis.KindCorrelation, analysis.Window{Days: 365})
	if err != nil {
		t.Fatalf("correlation: %v", err)
	}
	// 六個遊戲一年的史料足以跨過最小重疊門檻
	if len(res.Correlation) == 0 {
		t.Fatalf("expected at least one correlation pair")
	}

	res, err = eng.Analyze(context.Background(), analysis.KindPrediction, analysis.Window{Days: 365})
	if err != nil {
		t.Fatalf("prediction: %v", err)
	}
	for game, recs := range res.Predictions {
		if len(recs) != 4 {
			t.Fatalf("game %s returned %d strategies", game, len(recs))
		}
	}
}
