package v1_test

import (
	"net/http"

	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCreateExpense() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})

	expense := suite.createTestExpense(headers, v1.ExpenseEditable{
		BudgetID: budget.ID,
		Name:     "Fuel",
		Amount:   decimal.NewFromInt(60),
	})

	suite.Assert().Equal(models.ExpenseKindStandard, expense.Kind)

	recorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Data.Balance.Equal(decimal.NewFromInt(940)), response.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestCreateExpenseExceedsCategory() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})
	category := suite.createTestCategory(headers, v1.CategoryEditable{BudgetID: budget.ID, InitialBalance: decimal.NewFromInt(50)})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/expenses", v1.ExpenseEditable{
		BudgetID:   budget.ID,
		CategoryID: &category.ID,
		Name:       "Too big",
		Amount:     decimal.NewFromInt(60),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateExpenseRebooks() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})
	expense := suite.createTestExpense(headers, v1.ExpenseEditable{BudgetID: budget.ID, Amount: decimal.NewFromInt(50)})

	recorder := test.Request(suite.T(), http.MethodPatch, expense.Links.Self, map[string]any{
		"amount": "80",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	budgetRecorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &budgetRecorder, &budgetResponse)
	suite.Assert().True(budgetResponse.Data.Balance.Equal(decimal.NewFromInt(920)), budgetResponse.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestDeleteExpenseRestoresBalance() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})
	expense := suite.createTestExpense(headers, v1.ExpenseEditable{BudgetID: budget.ID, Amount: decimal.NewFromInt(50)})

	recorder := test.Request(suite.T(), http.MethodDelete, expense.Links.Self, "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	budgetRecorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &budgetRecorder, &budgetResponse)
	suite.Assert().True(budgetResponse.Data.Balance.Equal(decimal.NewFromInt(1000)), budgetResponse.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestGetExpensesFilterByKind() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})
	suite.createTestExpense(headers, v1.ExpenseEditable{BudgetID: budget.ID, Amount: decimal.NewFromInt(10)})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expenses?kind=salary", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 0)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expenses?kind=expense", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 1)
}
