package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zintix-labs/lottolab"
	"github.com/zintix-labs/lottolab/analysis"
	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/gamecfg"
	"github.com/zintix-labs/lottolab/stats"
	"github.com/zintix-labs/lottolab/synth"
)

var cfg *config = new(config)

type config struct {
	game string
	kind string
	days int
	seed int64
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.game, "game", "", "target game name; empty = all games")
	flag.StringVar(&cfg.kind, "kind", "frequency", "analysis kind: frequency|patterns|trend|winners|correlation|prediction")
	flag.IntVar(&cfg.days, "days", 365, "days of synthetic history to analyze")
	flag.Int64Var(&cfg.seed, "seed", 1, "int64 seed for the synthetic history")

	flag.Parse()

	if cfg.days < 1 {
		cfg.days = 365
	}
}

// execute 灌合成史料進記憶體 repo，跑一次指定分析並輸出到終端。
func execute() {
	repo := draw.NewMemoryRepository()
	lab, err := lottolab.NewAuto(repo, lottolab.Configs(gamecfg.FS))
	if err != nil {
		log.Fatal(err)
	}

	seedHistory(lab, repo)
	printHistorySummary(lab, repo)

	eng, err := lab.NewEngine()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	res, err := eng.Analyze(ctx, analysis.Kind(cfg.kind), analysis.Window{Game: cfg.game, Days: cfg.days})
	if err != nil {
		log.Fatal(err)
	}
	used := time.Since(start)

	render(res)

	p := message.NewPrinter(language.English)
	p.Printf("\nanalysis kind=%s took %v over %d draws\n", cfg.kind, used, repo.Len())
}

// seedHistory 為每個已註冊遊戲產生合成史料，進度條顯示灌入進度。
func seedHistory(lab *lottolab.Lab, repo *draw.MemoryRepository) {
	gen := synth.NewGenerator(cfg.seed)
	now := time.Now()

	batches := make([][]draw.Draw, 0, len(lab.Names()))
	total := 0
	for _, name := range lab.Names() {
		gs, err := lab.Catalog().GameSpecByName(name)
		if err != nil {
			log.Fatal(err)
		}
		ds := gen.Draws(gs, cfg.days, now)
		batches = append(batches, ds)
		total += len(ds)
	}

	bar := pb.StartNew(total)
	for _, ds := range batches {
		for _, d := range ds {
			repo.Add(d)
			bar.Increment()
		}
	}
	bar.Finish()
}

// printHistorySummary 以表格摘要各遊戲灌入的期數。
func printHistorySummary(lab *lottolab.Lab, repo *draw.MemoryRepository) {
	ctx := context.Background()
	keys := lab.Names()
	msg := map[string]string{}
	for _, name := range keys {
		ds, err := repo.ListDraws(ctx, name, time.Time{})
		if err != nil {
			log.Fatal(err)
		}
		msg[name] = strconv.Itoa(len(ds)) + " draws"
	}
	fmt.Println(stats.Table("synthetic history", keys, msg))
}

func render(res *analysis.Result) {
	// frequency 走含信賴區間的報表；其他種類輸出縮排 JSON
	if res.Kind == analysis.KindFrequency {
		for _, fr := range res.Frequency {
			rep := stats.NewFrequencyReport(fr)
			rep.Done()
			rep.StdOut()
		}
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Fatal(err)
	}
}
