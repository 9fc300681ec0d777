package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/lottolab"
	"github.com/zintix-labs/lottolab/server/httperr"
)

type GamesHandler struct {
	lab *lottolab.Lab
}

func NewGamesHandler(lab *lottolab.Lab) (*GamesHandler, error) {
	return &GamesHandler{lab: lab}, nil
}

// Games 列出已註冊的遊戲與其規格摘要。
func (gh *GamesHandler) Games(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sum, err := gh.lab.Summary()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sum); err != nil {
		httperr.Errs(w, err)
		return
	}
}
