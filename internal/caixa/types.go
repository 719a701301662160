package caixa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// dezena accepts both "04" and 4.
type dezena int

func (d *dezena) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("dezena %q: %w", b, err)
	}
	*d = dezena(n)
	return nil
}

type rateio struct {
	DescricaoFaixa     string          `json:"descricaoFaixa"`
	Faixa              int             `json:"faixa"`
	NumeroDeGanhadores int             `json:"numeroDeGanhadores"`
	ValorPremio        decimal.Decimal `json:"valorPremio"`
}

// Result is the subset of the lottery API response the collector reads.
type Result struct {
	Numero                        *int            `json:"numero"`
	DataApuracao                  string          `json:"dataApuracao"`
	DezenasSorteadasOrdemSorteio  []dezena        `json:"dezenasSorteadasOrdemSorteio"`
	ListaDezenas                  []dezena        `json:"listaDezenas"`
	Acumulado                     bool            `json:"acumulado"`
	ValorAcumuladoProximoConcurso decimal.Decimal `json:"valorAcumuladoProximoConcurso"`
	ListaRateioPremio             []rateio        `json:"listaRateioPremio"`
	LocalSorteio                  string          `json:"localSorteio"`
	Observacao                    string          `json:"observacao"`
	NumeroConcursoProximo         int             `json:"numeroConcursoProximo"`
	DataProximoConcurso           string          `json:"dataProximoConcurso"`
}

func decodeResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &r, nil
}

// ToDraw maps the API payload to a Draw. Numbers keep draw order; when the
// payload lacks it the sorted list is used.
func (r *Result) ToDraw() lottery.Draw {
	raw := r.DezenasSorteadasOrdemSorteio
	if len(raw) == 0 {
		raw = r.ListaDezenas
	}
	numbers := lo.Map(raw, func(d dezena, _ int) int { return int(d) })

	d := lottery.NewDraw(lo.FromPtr(r.Numero), r.DataApuracao, numbers)
	d.Accumulated = r.Acumulado
	d.AccumulatedValue = r.ValorAcumuladoProximoConcurso
	if len(r.ListaRateioPremio) > 0 {
		d.JackpotWinners = r.ListaRateioPremio[0].NumeroDeGanhadores
		d.JackpotPrize = r.ListaRateioPremio[0].ValorPremio
	}
	d.Location = r.LocalSorteio
	d.Note = r.Observacao
	return d
}
