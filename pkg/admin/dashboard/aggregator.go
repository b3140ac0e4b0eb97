package dashboard

import (
	"context"
	"time"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/repository/contract"
	"campus-finance-be/internal/repository/unitofwork"
	"campus-finance-be/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// Aggregator composes the user dashboard from balance, payment and prodi data.
type Aggregator struct {
	logger logger.ILogger
	loc    *time.Location
}

func NewAggregator(logger logger.ILogger, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{
		logger: logger,
		loc:    loc,
	}
}

// UserDashboard loads the sources concurrently. The finance series covers the
// current calendar month in the configured timezone.
func (a *Aggregator) UserDashboard(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, now time.Time) (*dto.UserDashboardResponse, error) {
	from, to := utils.MonthRange(now, a.loc)
	prodi := user.Scope().Prodi

	var (
		balance      int64
		series       []entity.DailyAmount
		prodiBalance int64
		prodiSeries  []entity.DailyAmount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = uow.BalanceRepository().FindByUserId(gctx, user.Id)
		return err
	})
	g.Go(func() error {
		var err error
		series, err = uow.PembayaranRepository().DailySuccessTotals(gctx, contract.PaymentFilter{UserId: &user.Id}, from, to)
		return err
	})
	if prodi != "" {
		g.Go(func() error {
			var err error
			prodiBalance, err = uow.BalanceRepository().SumByProdi(gctx, prodi)
			return err
		})
		g.Go(func() error {
			var err error
			prodiSeries, err = uow.PembayaranRepository().DailySuccessTotals(gctx, contract.PaymentFilter{Prodi: prodi}, from, to)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.Error("DASHBOARD", "Failed to load dashboard", map[string]interface{}{
			"userId": user.Id.String(),
			"error":  err.Error(),
		})
		return nil, err
	}

	res := &dto.UserDashboardResponse{
		Balance: balance,
		Finance: dto.FinanceSummary{ChartData: make([]dto.ChartPoint, 0, len(series))},
	}
	for _, point := range series {
		res.Finance.ChartData = append(res.Finance.ChartData, dto.ChartPoint{Date: point.Date, Payment: point.Amount})
		res.Finance.Totals.Payment += point.Amount
	}

	if prodi != "" {
		saldo := &dto.ProdiSaldo{Prodi: prodi, CurrentBalance: prodiBalance}
		for _, point := range prodiSeries {
			saldo.MonthlyIncome += point.Amount
		}
		res.ProdiSaldo = saldo
	}

	return res, nil
}
