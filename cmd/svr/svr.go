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

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/lottolab"
	"github.com/zintix-labs/lottolab/draw"
	drawmysql "github.com/zintix-labs/lottolab/draw/mysql"
	"github.com/zintix-labs/lottolab/gamecfg"
	"github.com/zintix-labs/lottolab/server"
	"github.com/zintix-labs/lottolab/server/logger"
	"github.com/zintix-labs/lottolab/server/svrcfg"
	"github.com/zintix-labs/lottolab/synth"
)

// 這個 command 是 lottolab 的分析 server 入口。
// 沒給 -config 時，跑記憶體 repo + 合成史料的 demo 模式。
func main() {
	sCfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	server.Run(sCfg)
}

type config struct {
	LogMode    string
	ConfigPath string
	TimeoutSec int
	DemoDays   int
	DemoSeed   int64
}

// fileConfig 是 -config YAML 檔的結構，目前只有資料庫一節。
type fileConfig struct {
	DB drawmysql.Config `yaml:"db"`
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.StringVar(&cfg.ConfigPath, "config", "", "yaml config file with a db: section; empty = in-memory demo data")
	flag.IntVar(&cfg.TimeoutSec, "timeout", 15, "per-request analysis timeout in seconds")
	flag.IntVar(&cfg.DemoDays, "demo-days", 365, "days of synthetic history in demo mode")
	flag.Int64Var(&cfg.DemoSeed, "demo-seed", 1, "seed for synthetic history in demo mode")

	flag.Parse()

	log, _ := logger.NewAsync(4096, cfg.norm())

	repo, err := cfg.buildRepo()
	if err != nil {
		return nil, err
	}

	lab, err := lottolab.NewAuto(repo, lottolab.Configs(gamecfg.FS))
	if err != nil {
		return nil, err
	}

	// demo 模式要等 catalog 就緒才能灌合成史料
	if cfg.ConfigPath == "" {
		if err := seedDemo(lab, repo.(*draw.MemoryRepository), cfg.DemoDays, cfg.DemoSeed); err != nil {
			return nil, err
		}
	}

	sCfg := &svrcfg.SvrCfg{
		Log:          log,
		QueryTimeout: time.Duration(cfg.TimeoutSec) * time.Second,
		Lab:          lab,
	}
	return sCfg, nil
}

func (cfg *config) buildRepo() (draw.Repository, error) {
	if cfg.ConfigPath == "" {
		return draw.NewMemoryRepository(), nil
	}
	raw, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	fc := new(fileConfig)
	if err := yaml.Unmarshal(raw, fc); err != nil {
		return nil, err
	}
	return drawmysql.New(&fc.DB)
}

func seedDemo(lab *lottolab.Lab, mem *draw.MemoryRepository, days int, seed int64) error {
	gen := synth.NewGenerator(seed)
	now := time.Now()
	for _, name := range lab.Names() {
		gs, err := lab.Catalog().GameSpecByName(name)
		if err != nil {
			return err
		}
		for _, d := range gen.Draws(gs, days, now) {
			mem.Add(d)
		}
	}
	return nil
}

func (cfg *config) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeDev":
		return logger.ModeDev
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}
