package usecase

// SymbolStatus は銘柄ごとの処理結果です。
type SymbolStatus string

const (
	StatusSucceeded SymbolStatus = "succeeded"
	StatusEmpty     SymbolStatus = "empty"
	StatusFailed    SymbolStatus = "failed"
)

// SymbolOutcome は1銘柄の処理結果を保持します。
type SymbolOutcome struct {
	Symbol string
	Status SymbolStatus
	Bars   int   // 保存したバーの件数
	Err    error // StatusFailed の場合のみ
}

// Summary は1回の実行全体の集計です。
type Summary struct {
	Outcomes  []SymbolOutcome
	Succeeded int
	Empty     int
	Failed    int
}

func (s *Summary) add(o SymbolOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case StatusSucceeded:
		s.Succeeded++
	case StatusEmpty:
		s.Empty++
	case StatusFailed:
		s.Failed++
	}
}

// OK は失敗した銘柄が1つもない場合に true を返します。
func (s Summary) OK() bool {
	return s.Failed == 0
}
