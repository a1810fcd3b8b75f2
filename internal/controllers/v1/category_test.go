package v1_test

import (
	"net/http"

	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCreateCategory() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})

	category := suite.createTestCategory(headers, v1.CategoryEditable{
		BudgetID:       budget.ID,
		Name:           "Groceries",
		InitialBalance: decimal.NewFromInt(300),
	})

	suite.Assert().Equal("Groceries", category.Name)
	suite.Assert().True(category.Balance.Equal(decimal.NewFromInt(300)), category.Balance.String())

	// The allocation is deducted from the budget
	recorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Data.Balance.Equal(decimal.NewFromInt(700)), response.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestCreateCategoryExceedsBudget() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/categories", v1.CategoryEditable{
		BudgetID:       budget.ID,
		Name:           "Too big",
		InitialBalance: decimal.NewFromInt(500),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateCategoryUnknownBudget() {
	_, headers := suite.createTestUser(v1.UserEditable{})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/categories", v1.CategoryEditable{
		BudgetID:       uuid.New(),
		Name:           "Orphan",
		InitialBalance: decimal.NewFromInt(10),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetCategoriesFilterByBudget() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})
	other := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})

	suite.createTestCategory(headers, v1.CategoryEditable{BudgetID: budget.ID, InitialBalance: decimal.NewFromInt(100)})
	suite.createTestCategory(headers, v1.CategoryEditable{BudgetID: other.ID, InitialBalance: decimal.NewFromInt(100)})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/categories?budget="+budget.ID.String(), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal(budget.ID, response.Data[0].BudgetID)
}

func (suite *TestSuiteStandard) TestUpdateCategoryAllocation() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})
	category := suite.createTestCategory(headers, v1.CategoryEditable{BudgetID: budget.ID, InitialBalance: decimal.NewFromInt(200)})

	recorder := test.Request(suite.T(), http.MethodPatch, category.Links.Self, map[string]any{
		"initialBalance": "300",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CategoryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Data.Balance.Equal(decimal.NewFromInt(300)), response.Data.Balance.String())

	budgetRecorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &budgetRecorder, &budgetResponse)
	suite.Assert().True(budgetResponse.Data.Balance.Equal(decimal.NewFromInt(700)), budgetResponse.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestDeleteCategoryRestoresBudget() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})
	category := suite.createTestCategory(headers, v1.CategoryEditable{BudgetID: budget.ID, InitialBalance: decimal.NewFromInt(200)})
	suite.createTestExpense(headers, v1.ExpenseEditable{BudgetID: budget.ID, CategoryID: &category.ID, Amount: decimal.NewFromInt(50)})

	recorder := test.Request(suite.T(), http.MethodDelete, category.Links.Self, "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	budgetRecorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &budgetRecorder, &budgetResponse)
	// The full allocation returns, the categorized expense disappears
	suite.Assert().True(budgetResponse.Data.Balance.Equal(decimal.NewFromInt(950)), budgetResponse.Data.Balance.String())

	listRecorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expenses", "", headers)
	var list v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &listRecorder, &list)
	suite.Assert().Len(list.Data, 0)
}
