package dto

type ChartPoint struct {
	Date    string `json:"date"`
	Payment int64  `json:"payment"`
}

type FinanceTotals struct {
	Payment int64 `json:"payment"`
}

type FinanceSummary struct {
	ChartData []ChartPoint  `json:"chartData"`
	Totals    FinanceTotals `json:"totals"`
}

type ProdiSaldo struct {
	Prodi          string `json:"prodi"`
	CurrentBalance int64  `json:"currentBalance"`
	MonthlyIncome  int64  `json:"monthlyIncome"`
}

type UserDashboardResponse struct {
	Balance    int64          `json:"balance"`
	Finance    FinanceSummary `json:"finance"`
	ProdiSaldo *ProdiSaldo    `json:"prodiSaldo"`
}
