package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hiiragi-dev/kakera-ledger/internal/apperrors"
	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	portssvc "github.com/hiiragi-dev/kakera-ledger/internal/core/ports/services"
	"github.com/hiiragi-dev/kakera-ledger/internal/core/services"
	"github.com/hiiragi-dev/kakera-ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock DebtRepository ---
type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) FindDebtByID(ctx context.Context, id int64) (*domain.Debt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindOpenDebts(ctx context.Context) ([]domain.Debt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindOpenDebtsByBorrower(ctx context.Context, borrowerID string) ([]domain.Debt, error) {
	args := m.Called(ctx, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) (int64, error) {
	args := m.Called(ctx, debt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDebtRepository) UpdateDebtBalance(ctx context.Context, debt domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) ApplyRepayment(ctx context.Context, debts []domain.Debt) error {
	args := m.Called(ctx, debts)
	return args.Error(0)
}

func (m *MockDebtRepository) DeleteDebt(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Test Suite ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockDebtRepository
	service  portssvc.LedgerSvcFacade
	base     time.Time
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockDebtRepository)
	suite.service = services.NewLedgerService(suite.mockRepo)
	suite.base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *LedgerServiceTestSuite) openDebt(id int64, borrower string, remaining int64, createdAt time.Time) domain.Debt {
	return domain.Debt{
		ID:            id,
		BorrowerID:    borrower,
		LenderID:      "lender",
		Principal:     remaining,
		Remaining:     remaining,
		CreatedAt:     createdAt,
		LastAccrualAt: createdAt,
		Status:        domain.DebtOpen,
	}
}

// --- Accrual ---

func (suite *LedgerServiceTestSuite) TestAccrueOpenDebts_AppliesInterestToDueDebts() {
	ctx := context.Background()
	due := suite.openDebt(1, "borrower-a", 1000, suite.base.AddDate(0, 0, -15))
	fresh := suite.openDebt(2, "borrower-b", 300, suite.base.AddDate(0, 0, -2))

	suite.mockRepo.On("FindOpenDebts", ctx).Return([]domain.Debt{due, fresh}, nil).Once()
	suite.mockRepo.On("UpdateDebtBalance", ctx, mock.MatchedBy(func(d domain.Debt) bool {
		// 15 days -> 2 whole weeks: 1000 -> 1050 -> 1103, timestamp +14d exactly
		return d.ID == 1 && d.Remaining == 1103 && d.LastAccrualAt.Equal(due.LastAccrualAt.AddDate(0, 0, 14))
	})).Return(nil).Once()

	updated, err := suite.service.AccrueOpenDebts(ctx, suite.base)

	suite.Require().NoError(err)
	suite.Equal(1, updated)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestAccrueOpenDebts_IdempotentWithinWeek() {
	ctx := context.Background()
	fresh := suite.openDebt(1, "borrower-a", 1000, suite.base.AddDate(0, 0, -6))

	suite.mockRepo.On("FindOpenDebts", ctx).Return([]domain.Debt{fresh}, nil).Once()

	updated, err := suite.service.AccrueOpenDebts(ctx, suite.base)

	suite.Require().NoError(err)
	suite.Equal(0, updated)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateDebtBalance", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAccrueOpenDebts_StorageErrorAborts() {
	ctx := context.Background()
	suite.mockRepo.On("FindOpenDebts", ctx).Return(nil, assert.AnError).Once()

	_, err := suite.service.AccrueOpenDebts(ctx, suite.base)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

// --- CreateDebt ---

func (suite *LedgerServiceTestSuite) TestCreateDebt_Success() {
	ctx := context.Background()
	req := dto.CreateDebtRequest{BorrowerID: "borrower-a", LenderID: "admin-1", Amount: 500, Note: "event loan"}

	suite.mockRepo.On("FindOpenDebts", ctx).Return([]domain.Debt{}, nil).Once()
	suite.mockRepo.On("SaveDebt", ctx, mock.MatchedBy(func(d domain.Debt) bool {
		return d.BorrowerID == req.BorrowerID &&
			d.LenderID == req.LenderID &&
			d.Principal == 500 &&
			d.Remaining == 500 &&
			d.Status == domain.DebtOpen &&
			d.CreatedAt.Equal(suite.base) &&
			d.LastAccrualAt.Equal(suite.base)
	})).Return(int64(42), nil).Once()

	debt, err := suite.service.CreateDebt(ctx, req, suite.base)

	suite.Require().NoError(err)
	suite.Require().NotNil(debt)
	suite.Equal(int64(42), debt.ID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateDebt_RejectsNonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateDebtRequest{BorrowerID: "borrower-a", LenderID: "admin-1", Amount: 0}

	debt, err := suite.service.CreateDebt(ctx, req, suite.base)

	suite.Require().Error(err)
	suite.Nil(debt)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDebt", mock.Anything, mock.Anything)
}

// --- RecordRepayment ---

func (suite *LedgerServiceTestSuite) TestRecordRepayment_FIFOAllocation() {
	ctx := context.Background()
	t1 := suite.base.AddDate(0, 0, -3)
	t2 := suite.base.AddDate(0, 0, -1)
	debtA := suite.openDebt(1, "borrower-a", 500, t1)
	debtB := suite.openDebt(2, "borrower-a", 800, t2)

	suite.mockRepo.On("FindOpenDebts", ctx).Return([]domain.Debt{}, nil).Once()
	suite.mockRepo.On("FindOpenDebtsByBorrower", ctx, "borrower-a").Return([]domain.Debt{debtA, debtB}, nil).Once()
	suite.mockRepo.On("ApplyRepayment", ctx, mock.MatchedBy(func(ds []domain.Debt) bool {
		return len(ds) == 2 &&
			ds[0].ID == 1 && ds[0].Remaining == 0 && ds[0].Status == domain.DebtPaid &&
			ds[1].ID == 2 && ds[1].Remaining == 600 && ds[1].Status == domain.DebtOpen
	})).Return(nil).Once()

	report, err := suite.service.RecordRepayment(ctx, "borrower-a", 700, suite.base)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Require().Len(report.Outcomes, 2)
	suite.Equal(int64(500), report.Outcomes[0].Applied)
	suite.Equal(domain.DebtPaid, report.Outcomes[0].Status)
	suite.Equal(int64(200), report.Outcomes[1].Applied)
	suite.Equal(int64(600), report.Outcomes[1].Remaining)
	suite.Equal(int64(0), report.Excess)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordRepayment_OverpaymentDiscarded() {
	ctx := context.Background()
	debt := suite.openDebt(1, "borrower-a", 300, suite.base.AddDate(0, 0, -1))

	suite.mockRepo.On("FindOpenDebts", ctx).Return([]domain.Debt{}, nil).Once()
	suite.mockRepo.On("FindOpenDebtsByBorrower", ctx, "borrower-a").Return([]domain.Debt{debt}, nil).Once()
	suite.mockRepo.On("ApplyRepayment", ctx, mock.AnythingOfType("[]domain.Debt")).Return(nil).Once()

	report, err := suite.service.RecordRepayment(ctx, "borrower-a", 1000, suite.base)

	suite.Require().NoError(err)
	suite.Equal(int64(700), report.Excess)
	suite.Require().Len(report.Outcomes, 1)
	suite.Equal(domain.DebtPaid, report.Outcomes[0].Status)
}

func (suite *LedgerServiceTestSuite) TestRecordRepayment_NoOpenDebts() {
	ctx := context.Background()

	suite.mockRepo.On("FindOpenDebts", ctx).Return([]domain.Debt{}, nil).Once()
	suite.mockRepo.On("FindOpenDebtsByBorrower", ctx, "borrower-a").Return([]domain.Debt{}, nil).Once()
	suite.mockRepo.On("ApplyRepayment", ctx, mock.AnythingOfType("[]domain.Debt")).Return(nil).Once()

	report, err := suite.service.RecordRepayment(ctx, "borrower-a", 400, suite.base)

	suite.Require().NoError(err)
	suite.Empty(report.Outcomes)
	suite.Equal(int64(400), report.Excess)
}

func (suite *LedgerServiceTestSuite) TestRecordRepayment_AccruesBeforeAllocating() {
	ctx := context.Background()
	// One week old: 1000 -> 1050 before the payment lands
	debt := suite.openDebt(1, "borrower-a", 1000, suite.base.AddDate(0, 0, -7))
	accrued := debt
	accrued.Remaining = 1050
	accrued.LastAccrualAt = debt.LastAccrualAt.AddDate(0, 0, 7)

	suite.mockRepo.On("FindOpenDebts", ctx).Return([]domain.Debt{debt}, nil).Once()
	suite.mockRepo.On("UpdateDebtBalance", ctx, mock.MatchedBy(func(d domain.Debt) bool {
		return d.ID == 1 && d.Remaining == 1050
	})).Return(nil).Once()
	suite.mockRepo.On("FindOpenDebtsByBorrower", ctx, "borrower-a").Return([]domain.Debt{accrued}, nil).Once()
	suite.mockRepo.On("ApplyRepayment", ctx, mock.MatchedBy(func(ds []domain.Debt) bool {
		// Payment of 1000 against the accrued 1050 leaves 50 open
		return len(ds) == 1 && ds[0].Remaining == 50 && ds[0].Status == domain.DebtOpen
	})).Return(nil).Once()

	report, err := suite.service.RecordRepayment(ctx, "borrower-a", 1000, suite.base)

	suite.Require().NoError(err)
	suite.Equal(int64(0), report.Excess)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- StatusReport ---

func (suite *LedgerServiceTestSuite) TestStatusReport_AnnotatesDaysUntilAccrual() {
	ctx := context.Background()
	debt := suite.openDebt(1, "borrower-a", 1000, suite.base.AddDate(0, 0, -3))

	suite.mockRepo.On("FindOpenDebts", ctx).Return([]domain.Debt{debt}, nil).Twice()

	lines, err := suite.service.StatusReport(ctx, suite.base)

	suite.Require().NoError(err)
	suite.Require().Len(lines, 1)
	suite.Equal(int64(1), lines[0].Debt.ID)
	suite.Equal(4, lines[0].DaysUntilAccrual)
}

// --- DeleteDebt ---

func (suite *LedgerServiceTestSuite) TestDeleteDebt_NotFoundPropagates() {
	ctx := context.Background()
	suite.mockRepo.On("DeleteDebt", ctx, int64(99)).Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteDebt(ctx, 99)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
