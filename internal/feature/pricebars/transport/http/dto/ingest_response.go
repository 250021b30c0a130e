package dto

import "stock_ingest/internal/feature/pricebars/usecase"

// IngestResponse は取り込み実行結果のレスポンスDTOです。
type IngestResponse struct {
	Message string           `json:"message"`
	Summary *SummaryResponse `json:"summary,omitempty"`
}

// SummaryResponse は実行全体の集計です。
type SummaryResponse struct {
	Succeeded int            `json:"succeeded"`
	Empty     int            `json:"empty"`
	Failed    int            `json:"failed"`
	Symbols   []SymbolResult `json:"symbols"`
}

// SymbolResult は1銘柄の処理結果です。
type SymbolResult struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`          // succeeded / empty / failed
	Bars   int    `json:"bars"`            // 保存件数
	Error  string `json:"error,omitempty"` // failed の場合のみ
}

// NewSummaryResponse は usecase.Summary をレスポンス形式に変換します。
func NewSummaryResponse(s usecase.Summary) *SummaryResponse {
	out := &SummaryResponse{
		Succeeded: s.Succeeded,
		Empty:     s.Empty,
		Failed:    s.Failed,
		Symbols:   make([]SymbolResult, 0, len(s.Outcomes)),
	}
	for _, o := range s.Outcomes {
		r := SymbolResult{Symbol: o.Symbol, Status: string(o.Status), Bars: o.Bars}
		if o.Err != nil {
			r.Error = o.Err.Error()
		}
		out.Symbols = append(out.Symbols, r)
	}
	return out
}
