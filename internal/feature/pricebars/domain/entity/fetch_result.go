package entity

// FetchStatus は1回の取得結果の種類です。
type FetchStatus int

const (
	// FetchSuccess はウィンドウ内のバーが1件以上取得できたことを示します。
	FetchSuccess FetchStatus = iota
	// FetchEmpty はAPI呼び出しは成功したが、ウィンドウ内にデータがないことを示します。
	FetchEmpty
	// FetchFailure は通信エラー・APIエラー・パースエラーのいずれかを示します。
	FetchFailure
)

func (s FetchStatus) String() string {
	switch s {
	case FetchSuccess:
		return "success"
	case FetchEmpty:
		return "empty"
	case FetchFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// FetchResult は MarketDataFetcher の戻り値です。
// Status が FetchSuccess の場合のみ Bars が、FetchFailure の場合のみ Err が設定されます。
type FetchResult struct {
	Status FetchStatus
	Bars   []PriceBar
	Err    error
}

// Success はバーを保持する成功結果を返します。
func Success(bars []PriceBar) FetchResult {
	return FetchResult{Status: FetchSuccess, Bars: bars}
}

// Empty はデータなしの結果を返します。
func Empty() FetchResult {
	return FetchResult{Status: FetchEmpty}
}

// Failure は失敗結果を返します。
func Failure(err error) FetchResult {
	return FetchResult{Status: FetchFailure, Err: err}
}
