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

// Package mysql 提供 MySQL 版的 draw.Repository。
//
// 開獎資料由外部匯入流程寫入；分析核心這側只讀。
// SeedDraw 是唯一的寫入口，僅供離線工具灌測試資料用。
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/errs"

	_ "github.com/go-sql-driver/mysql"
)

// Config 資料庫連線設定。
type Config struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN 組出 go-sql-driver 需要的連線字串。
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// Repo 實作 draw.Repository。
type Repo struct {
	db *sql.DB
}

// New 建立連線、驗證可達並確保表結構存在。
func New(cfg *Config) (*Repo, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, errs.Wrap(err, "open database failed")
	}

	db.SetMaxOpenConns(max(1, cfg.MaxOpenConns))
	db.SetMaxIdleConns(max(1, cfg.MaxIdleConns))
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		return nil, errs.Wrap(err, "ping database failed")
	}

	r := &Repo{db: db}
	if err := r.createTablesIfNotExists(); err != nil {
		return nil, errs.Wrap(err, "create tables failed")
	}
	return r, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) createTablesIfNotExists() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS draws (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			game_name VARCHAR(64) NOT NULL,
			draw_number VARCHAR(32) NOT NULL,
			draw_date DATE NOT NULL,
			numbers VARCHAR(128) NOT NULL,
			bonus_numbers VARCHAR(64) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_game_draw (game_name, draw_number),
			KEY idx_game_date (game_name, draw_date)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS draw_divisions (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			game_name VARCHAR(64) NOT NULL,
			draw_number VARCHAR(32) NOT NULL,
			label VARCHAR(64) NOT NULL,
			match_desc VARCHAR(128) NOT NULL DEFAULT '',
			winners INT NOT NULL DEFAULT 0,
			prize_per_winner DOUBLE NOT NULL DEFAULT 0,
			UNIQUE KEY uniq_draw_label (game_name, draw_number, label)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, q := range stmts {
		if _, err := r.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// ListDraws 實作 draw.Repository。依 draw_date 升冪回傳。
//
// 注意：numbers 欄位是逗號串接的文字（沿用上游匯入格式）。
// 解析失敗的列屬於「長得像但壞掉」的資料，直接跳過不讓整批失敗。
func (r *Repo) ListDraws(ctx context.Context, gameName string, since time.Time) ([]draw.Draw, error) {
	query := `SELECT game_name, draw_number, draw_date, numbers, bonus_numbers
			  FROM draws
			  WHERE draw_date >= ?`
	args := []any{since}
	if gameName != "" {
		query += ` AND game_name = ?`
		args = append(args, gameName)
	}
	query += ` ORDER BY draw_date ASC, draw_number ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrap(err, "query draws failed")
	}
	defer rows.Close()

	var out []draw.Draw
	for rows.Next() {
		var (
			d        draw.Draw
			nums     string
			bonus    string
			drawDate time.Time
		)
		if err := rows.Scan(&d.GameName, &d.DrawNumber, &drawDate, &nums, &bonus); err != nil {
			return nil, errs.Wrap(err, "scan draw failed")
		}
		d.DrawDate = drawDate

		parsed, perr := parseNumbers(nums)
		if perr != nil {
			continue
		}
		d.Numbers = parsed
		if bonus != "" {
			if pb, perr := parseNumbers(bonus); perr == nil {
				d.BonusNumbers = pb
			}
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate draws failed")
	}

	if err := r.attachDivisions(ctx, gameName, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachDivisions 批次撈獎級表並掛回對應的 Draw。
// 沒有獎級資料的期數 Divisions 維持 nil，由分析層決定怎麼跳過。
func (r *Repo) attachDivisions(ctx context.Context, gameName string, ds []draw.Draw) error {
	if len(ds) == 0 {
		return nil
	}
	query := `SELECT game_name, draw_number, label, match_desc, winners, prize_per_winner
			  FROM draw_divisions`
	var args []any
	if gameName != "" {
		query += ` WHERE game_name = ?`
		args = append(args, gameName)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return errs.Wrap(err, "query divisions failed")
	}
	defer rows.Close()

	idx := make(map[string]int, len(ds))
	for i := range ds {
		idx[ds[i].GameName+"\x00"+ds[i].DrawNumber] = i
	}

	for rows.Next() {
		var (
			game, num, label, match string
			winners                 int
			prize                   float64
		)
		if err := rows.Scan(&game, &num, &label, &match, &winners, &prize); err != nil {
			return errs.Wrap(err, "scan division failed")
		}
		i, ok := idx[game+"\x00"+num]
		if !ok {
			continue
		}
		if ds[i].Divisions == nil {
			ds[i].Divisions = map[string]draw.Division{}
		}
		ds[i].Divisions[label] = draw.Division{
			Match:          match,
			Winners:        winners,
			PrizePerWinner: prize,
		}
	}
	return rows.Err()
}

// SeedDraw upsert 一期開獎紀錄。僅供離線工具灌資料；服務路徑不會呼叫。
func (r *Repo) SeedDraw(ctx context.Context, d *draw.Draw) error {
	query := `INSERT INTO draws (game_name, draw_number, draw_date, numbers, bonus_numbers)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  draw_date = VALUES(draw_date),
			  numbers = VALUES(numbers),
			  bonus_numbers = VALUES(bonus_numbers),
			  updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, query,
		d.GameName, d.DrawNumber, d.DrawDate, joinNumbers(d.Numbers), joinNumbers(d.BonusNumbers))
	if err != nil {
		return errs.Wrap(err, "seed draw failed")
	}

	for label, div := range d.Divisions {
		q := `INSERT INTO draw_divisions (game_name, draw_number, label, match_desc, winners, prize_per_winner)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  match_desc = VALUES(match_desc),
			  winners = VALUES(winners),
			  prize_per_winner = VALUES(prize_per_winner)`
		if _, err := r.db.ExecContext(ctx, q, d.GameName, d.DrawNumber, label, div.Match, div.Winners, div.PrizePerWinner); err != nil {
			return errs.Wrap(err, "seed division failed")
		}
	}
	return nil
}

func parseNumbers(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errs.NewLog("empty numbers column")
	}
	return out, nil
}

func joinNumbers(ns []int) string {
	if len(ns) == 0 {
		return ""
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
