package ledger_test

import (
	"context"
	"time"

	"github.com/optibudget/backend/internal/ledger"
	"github.com/optibudget/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCreateBudget() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	suite.Assert().True(budget.Active)
	suite.assertBalance(1000, budget.Balance)

	_, err = l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Negative",
		InitialBalance: decimal.NewFromInt(-1),
	})
	suite.Assert().ErrorIs(err, models.ErrAmountNegative)
}

func (suite *TestSuiteStandard) TestCreateBudgetEndDateTooClose() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	endDate := time.Now().Add(24 * time.Hour)
	_, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Vacation",
		InitialBalance: decimal.NewFromInt(500),
		FixedTerm:      true,
		EndDate:        &endDate,
	})
	suite.Assert().ErrorIs(err, models.ErrEndDateTooClose)

	endDate = time.Now().Add(4 * 24 * time.Hour)
	_, err = l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Vacation",
		InitialBalance: decimal.NewFromInt(500),
		FixedTerm:      true,
		EndDate:        &endDate,
	})
	suite.Assert().NoError(err)
}

// TestBalancePropagation walks through the documented example: a budget of
// 1000 with a category allocation of 200 and an expense of 50 in it ends
// with 950 after the category is deleted.
func (suite *TestSuiteStandard) TestBalancePropagation() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	category, err := l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Food",
		InitialBalance: decimal.NewFromInt(200),
	})
	suite.Require().NoError(err)
	suite.assertBalance(800, suite.reloadBudget(budget.ID).Balance)
	suite.assertBalance(200, category.Balance)

	expense, err := l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID:   budget.ID,
		CategoryID: &category.ID,
		Name:       "Groceries",
		Amount:     decimal.NewFromInt(50),
	})
	suite.Require().NoError(err)
	suite.assertBalance(750, suite.reloadBudget(budget.ID).Balance)
	suite.assertBalance(150, suite.reloadCategory(category.ID).Balance)

	// Deleting the category restores the full allocation and removes its
	// expenses without restoring them on top
	err = l.DeleteCategory(context.Background(), user, category.ID)
	suite.Require().NoError(err)
	suite.assertBalance(950, suite.reloadBudget(budget.ID).Balance)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Expense{}).Where("id = ?", expense.ID).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestCreateCategoryChecks() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(100),
	})
	suite.Require().NoError(err)

	_, err = l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Too big",
		InitialBalance: decimal.NewFromInt(101),
	})
	suite.Assert().ErrorIs(err, models.ErrAmountExceedsBudget)

	// The failed allocation did not touch the budget
	suite.assertBalance(100, suite.reloadBudget(budget.ID).Balance)

	_, err = l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Negative",
		InitialBalance: decimal.NewFromInt(-1),
	})
	suite.Assert().ErrorIs(err, models.ErrAmountNegative)
}

func (suite *TestSuiteStandard) TestUpdateCategoryAllocation() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	category, err := l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Food",
		InitialBalance: decimal.NewFromInt(200),
	})
	suite.Require().NoError(err)

	// Growing the allocation takes the difference from the budget
	bigger := decimal.NewFromInt(300)
	category, err = l.UpdateCategory(context.Background(), user, category.ID, ledger.CategoryUpdate{
		InitialBalance: &bigger,
	})
	suite.Require().NoError(err)
	suite.assertBalance(300, category.Balance)
	suite.assertBalance(700, suite.reloadBudget(budget.ID).Balance)

	// Shrinking gives it back
	smaller := decimal.NewFromInt(100)
	category, err = l.UpdateCategory(context.Background(), user, category.ID, ledger.CategoryUpdate{
		InitialBalance: &smaller,
	})
	suite.Require().NoError(err)
	suite.assertBalance(100, category.Balance)
	suite.assertBalance(900, suite.reloadBudget(budget.ID).Balance)

	// Shrinking below the spent part is rejected
	_, err = l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID:   budget.ID,
		CategoryID: &category.ID,
		Name:       "Groceries",
		Amount:     decimal.NewFromInt(80),
	})
	suite.Require().NoError(err)

	tiny := decimal.NewFromInt(10)
	_, err = l.UpdateCategory(context.Background(), user, category.ID, ledger.CategoryUpdate{
		InitialBalance: &tiny,
	})
	suite.Assert().ErrorIs(err, models.ErrAmountExceedsCategory)
}

func (suite *TestSuiteStandard) TestUncategorizedExpense() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(100),
	})
	suite.Require().NoError(err)

	_, err = l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID: budget.ID,
		Name:     "Too big",
		Amount:   decimal.NewFromInt(101),
	})
	suite.Assert().ErrorIs(err, models.ErrAmountExceedsBudget)

	expense, err := l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID: budget.ID,
		Name:     "Cinema",
		Amount:   decimal.NewFromInt(30),
	})
	suite.Require().NoError(err)
	suite.assertBalance(70, suite.reloadBudget(budget.ID).Balance)

	err = l.DeleteExpense(context.Background(), user, expense.ID)
	suite.Require().NoError(err)
	suite.assertBalance(100, suite.reloadBudget(budget.ID).Balance)
}

func (suite *TestSuiteStandard) TestCategorizedExpenseExceedsCategory() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	category, err := l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Food",
		InitialBalance: decimal.NewFromInt(50),
	})
	suite.Require().NoError(err)

	// The budget could cover this, but the category cannot
	_, err = l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID:   budget.ID,
		CategoryID: &category.ID,
		Name:       "Feast",
		Amount:     decimal.NewFromInt(60),
	})
	suite.Assert().ErrorIs(err, models.ErrAmountExceedsCategory)

	// Nothing was booked
	suite.assertBalance(950, suite.reloadBudget(budget.ID).Balance)
	suite.assertBalance(50, suite.reloadCategory(category.ID).Balance)
}

func (suite *TestSuiteStandard) TestUpdateExpenseRebooks() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	category, err := l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Food",
		InitialBalance: decimal.NewFromInt(200),
	})
	suite.Require().NoError(err)

	expense, err := l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID:   budget.ID,
		CategoryID: &category.ID,
		Name:       "Groceries",
		Amount:     decimal.NewFromInt(50),
	})
	suite.Require().NoError(err)

	// Change the amount
	newAmount := decimal.NewFromInt(80)
	expense, err = l.UpdateExpense(context.Background(), user, expense.ID, ledger.ExpenseUpdate{
		Amount: &newAmount,
	})
	suite.Require().NoError(err)
	suite.assertBalance(720, suite.reloadBudget(budget.ID).Balance)
	suite.assertBalance(120, suite.reloadCategory(category.ID).Balance)

	// Remove the category reference, the old amount goes back to the
	// category and the new amount is booked against the budget only
	expense, err = l.UpdateExpense(context.Background(), user, expense.ID, ledger.ExpenseUpdate{
		CategoryID:    nil,
		HasCategoryID: true,
	})
	suite.Require().NoError(err)
	suite.Assert().Nil(expense.CategoryID)
	suite.assertBalance(720, suite.reloadBudget(budget.ID).Balance)
	suite.assertBalance(200, suite.reloadCategory(category.ID).Balance)
}

func (suite *TestSuiteStandard) TestIncomeEnterpriseOnly() {
	individual := suite.createTestUser(models.User{AccountKind: models.AccountKindIndividual})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), individual, models.Budget{
		Name:           "Shop",
		InitialBalance: decimal.NewFromInt(100),
	})
	suite.Require().NoError(err)

	_, err = l.CreateIncome(context.Background(), individual, models.Income{
		BudgetID: budget.ID,
		Amount:   decimal.NewFromInt(50),
	})
	suite.Assert().ErrorIs(err, models.ErrEnterpriseOnly)
}

func (suite *TestSuiteStandard) TestIncomeLifecycle() {
	user := suite.createTestUser(models.User{AccountKind: models.AccountKindEnterprise})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Shop",
		InitialBalance: decimal.NewFromInt(100),
	})
	suite.Require().NoError(err)

	income, err := l.CreateIncome(context.Background(), user, models.Income{
		BudgetID: budget.ID,
		Name:     "Invoice",
		Amount:   decimal.NewFromInt(50),
	})
	suite.Require().NoError(err)
	suite.assertBalance(150, suite.reloadBudget(budget.ID).Balance)

	newAmount := decimal.NewFromInt(80)
	_, err = l.UpdateIncome(context.Background(), user, income.ID, ledger.IncomeUpdate{
		Amount: &newAmount,
	})
	suite.Require().NoError(err)
	suite.assertBalance(180, suite.reloadBudget(budget.ID).Balance)

	err = l.DeleteIncome(context.Background(), user, income.ID)
	suite.Require().NoError(err)
	suite.assertBalance(100, suite.reloadBudget(budget.ID).Balance)
}

func (suite *TestSuiteStandard) TestPaymentLifecycle() {
	user := suite.createTestUser(models.User{AccountKind: models.AccountKindEnterprise})
	employee := suite.createTestEmployee(models.Employee{UserID: user.ID, FirstName: "Ada"})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Payroll",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	payment, err := l.CreatePayment(context.Background(), user, models.Payment{
		BudgetID:   budget.ID,
		EmployeeID: employee.ID,
		Amount:     decimal.NewFromInt(400),
	})
	suite.Require().NoError(err)
	suite.Assert().Equal(models.PaymentKindSalary, payment.Kind)
	suite.assertBalance(600, suite.reloadBudget(budget.ID).Balance)

	_, err = l.CreatePayment(context.Background(), user, models.Payment{
		BudgetID:   budget.ID,
		EmployeeID: employee.ID,
		Amount:     decimal.NewFromInt(601),
	})
	suite.Assert().ErrorIs(err, models.ErrAmountExceedsBudget)

	err = l.DeletePayment(context.Background(), user, payment.ID)
	suite.Require().NoError(err)
	suite.assertBalance(1000, suite.reloadBudget(budget.ID).Balance)
}

func (suite *TestSuiteStandard) TestUpdateBudgetDestructive() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	category, err := l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Food",
		InitialBalance: decimal.NewFromInt(200),
	})
	suite.Require().NoError(err)

	_, err = l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID: budget.ID,
		Name:     "Cinema",
		Amount:   decimal.NewFromInt(30),
	})
	suite.Require().NoError(err)

	// A metadata edit leaves children and balance alone
	name := "Renamed"
	budget, err = l.UpdateBudget(context.Background(), user, budget.ID, ledger.BudgetUpdate{Name: &name})
	suite.Require().NoError(err)
	suite.Assert().Equal("Renamed", budget.Name)
	suite.assertBalance(770, budget.Balance)

	// Changing the initial balance wipes all children and resets the balance
	newInitial := decimal.NewFromInt(500)
	budget, err = l.UpdateBudget(context.Background(), user, budget.ID, ledger.BudgetUpdate{InitialBalance: &newInitial})
	suite.Require().NoError(err)
	suite.assertBalance(500, budget.Balance)

	var categories, expenses int64
	suite.Require().NoError(models.DB.Model(&models.Category{}).Where("id = ?", category.ID).Count(&categories).Error)
	suite.Require().NoError(models.DB.Model(&models.Expense{}).Where("budget_id = ?", budget.ID).Count(&expenses).Error)
	suite.Assert().Equal(int64(0), categories)
	suite.Assert().Equal(int64(0), expenses)
}

func (suite *TestSuiteStandard) TestResetBudget() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	_, err = l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Food",
		InitialBalance: decimal.NewFromInt(200),
	})
	suite.Require().NoError(err)

	budget, err = l.ResetBudget(context.Background(), user, budget.ID)
	suite.Require().NoError(err)
	suite.assertBalance(1000, budget.Balance)

	var categories int64
	suite.Require().NoError(models.DB.Model(&models.Category{}).Where("budget_id = ?", budget.ID).Count(&categories).Error)
	suite.Assert().Equal(int64(0), categories)
}

func (suite *TestSuiteStandard) TestInactiveBudgetNoBookings() {
	user := suite.createTestUser(models.User{})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	category, err := l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Food",
		InitialBalance: decimal.NewFromInt(100),
	})
	suite.Require().NoError(err)

	expense, err := l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID: budget.ID,
		Name:     "Cinema",
		Amount:   decimal.NewFromInt(10),
	})
	suite.Require().NoError(err)

	inactive := false
	_, err = l.UpdateBudget(context.Background(), user, budget.ID, ledger.BudgetUpdate{Active: &inactive})
	suite.Require().NoError(err)

	_, err = l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID: budget.ID,
		Name:     "Cinema",
		Amount:   decimal.NewFromInt(10),
	})
	suite.Assert().ErrorIs(err, models.ErrBudgetInactive)

	_, err = l.CreateCategory(context.Background(), user, models.Category{
		BudgetID:       budget.ID,
		Name:           "Drinks",
		InitialBalance: decimal.NewFromInt(10),
	})
	suite.Assert().ErrorIs(err, models.ErrBudgetInactive)

	// Updates cannot rebook amounts on the deactivated budget either
	newAmount := decimal.NewFromInt(20)
	_, err = l.UpdateExpense(context.Background(), user, expense.ID, ledger.ExpenseUpdate{Amount: &newAmount})
	suite.Assert().ErrorIs(err, models.ErrBudgetInactive)

	newAllocation := decimal.NewFromInt(50)
	_, err = l.UpdateCategory(context.Background(), user, category.ID, ledger.CategoryUpdate{InitialBalance: &newAllocation})
	suite.Assert().ErrorIs(err, models.ErrBudgetInactive)

	// Deletes stay possible for cleanup
	suite.Require().NoError(l.DeleteExpense(context.Background(), user, expense.ID))
	suite.assertBalance(900, suite.reloadBudget(budget.ID).Balance)
}

func (suite *TestSuiteStandard) TestInactiveBudgetIncomeUpdate() {
	user := suite.createTestUser(models.User{AccountKind: models.AccountKindEnterprise})
	l := ledger.New(models.DB)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Shop",
		InitialBalance: decimal.NewFromInt(100),
	})
	suite.Require().NoError(err)

	income, err := l.CreateIncome(context.Background(), user, models.Income{
		BudgetID: budget.ID,
		Name:     "Invoice",
		Amount:   decimal.NewFromInt(50),
	})
	suite.Require().NoError(err)

	inactive := false
	_, err = l.UpdateBudget(context.Background(), user, budget.ID, ledger.BudgetUpdate{Active: &inactive})
	suite.Require().NoError(err)

	newAmount := decimal.NewFromInt(80)
	_, err = l.UpdateIncome(context.Background(), user, income.ID, ledger.IncomeUpdate{Amount: &newAmount})
	suite.Assert().ErrorIs(err, models.ErrBudgetInactive)

	suite.Require().NoError(l.DeleteIncome(context.Background(), user, income.ID))
	suite.assertBalance(100, suite.reloadBudget(budget.ID).Balance)
}

// eventRecorder collects ledger events for assertions.
type eventRecorder struct {
	events []ledger.Event
}

func (r *eventRecorder) HandleEvent(_ context.Context, event ledger.Event) {
	r.events = append(r.events, event)
}

func (suite *TestSuiteStandard) TestHooksReceiveCommittedState() {
	user := suite.createTestUser(models.User{})
	recorder := &eventRecorder{}
	l := ledger.New(models.DB, recorder)

	budget, err := l.CreateBudget(context.Background(), user, models.Budget{
		Name:           "Household",
		InitialBalance: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	_, err = l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID: budget.ID,
		Name:     "Cinema",
		Amount:   decimal.NewFromInt(30),
	})
	suite.Require().NoError(err)

	suite.Require().Len(recorder.events, 2)

	suite.Assert().Equal(ledger.ActionCreated, recorder.events[0].Action)
	suite.Assert().Equal("budget", recorder.events[0].Entity)

	// The expense event carries the budget state after the booking
	suite.Assert().Equal("expense", recorder.events[1].Entity)
	suite.assertBalance(970, recorder.events[1].Budget.Balance)
	suite.Require().NotNil(recorder.events[1].Expense)

	// Failed mutations emit nothing
	_, err = l.CreateExpense(context.Background(), user, models.Expense{
		BudgetID: budget.ID,
		Name:     "Too big",
		Amount:   decimal.NewFromInt(100000),
	})
	suite.Require().Error(err)
	suite.Assert().Len(recorder.events, 2)
}
