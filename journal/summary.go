package journal

import (
	"github.com/shopspring/decimal"
)

// Summary holds the aggregate statistics of a ledger. A trade with a net of
// exactly zero is neither a win nor a loss.
type Summary struct {
	TotalNet     decimal.Decimal `json:"total_net"`
	TradeCount   int             `json:"trade_count"`
	TotalFees    decimal.Decimal `json:"total_fees"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	WinsAmount   decimal.Decimal `json:"wins_amount"`
	LossesAmount decimal.Decimal `json:"losses_amount"`
	Best         decimal.Decimal `json:"best"`
	Worst        decimal.Decimal `json:"worst"`
	FinalBalance decimal.Decimal `json:"final_balance"`

	// WinRate is a percentage, 0 when there are no decided trades.
	WinRate float64 `json:"win_rate"`
}

// Summarize computes a Summary over entries in chronological order.
func Summarize(entries []Entry) Summary {
	s := Summary{
		TotalNet:     decimal.Zero,
		TotalFees:    decimal.Zero,
		WinsAmount:   decimal.Zero,
		LossesAmount: decimal.Zero,
		Best:         decimal.Zero,
		Worst:        decimal.Zero,
		FinalBalance: decimal.Zero,
		TradeCount:   len(entries),
	}

	for i, e := range entries {
		s.TotalNet = s.TotalNet.Add(e.Net)
		s.TotalFees = s.TotalFees.Add(e.Fee)

		switch e.Net.Sign() {
		case 1:
			s.Wins++
			s.WinsAmount = s.WinsAmount.Add(e.Net)
		case -1:
			s.Losses++
			s.LossesAmount = s.LossesAmount.Add(e.Net)
		}

		if i == 0 || e.Net.GreaterThan(s.Best) {
			s.Best = e.Net
		}
		if i == 0 || e.Net.LessThan(s.Worst) {
			s.Worst = e.Net
		}
	}

	if n := len(entries); n > 0 {
		s.FinalBalance = entries[n-1].Cumulative
	}

	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided) * 100
	}
	return s
}
