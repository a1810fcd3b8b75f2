package v1_test

import (
	"net/http"

	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCreateIncome() {
	_, headers := suite.createTestUser(v1.UserEditable{AccountKind: models.AccountKindEnterprise})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/incomes", v1.IncomeEditable{
		BudgetID: budget.ID,
		Name:     "Invoice",
		Amount:   decimal.NewFromInt(500),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	budgetRecorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &budgetRecorder, &budgetResponse)
	suite.Assert().True(budgetResponse.Data.Balance.Equal(decimal.NewFromInt(1500)), budgetResponse.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestCreateIncomeIndividualAccount() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/incomes", v1.IncomeEditable{
		BudgetID: budget.ID,
		Name:     "Invoice",
		Amount:   decimal.NewFromInt(500),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestDeleteIncomeRemovesAmount() {
	_, headers := suite.createTestUser(v1.UserEditable{AccountKind: models.AccountKindEnterprise})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/incomes", v1.IncomeEditable{
		BudgetID: budget.ID,
		Name:     "Invoice",
		Amount:   decimal.NewFromInt(500),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.IncomeResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	deleteRecorder := test.Request(suite.T(), http.MethodDelete, response.Data.Links.Self, "", headers)
	test.AssertHTTPStatus(suite.T(), &deleteRecorder, http.StatusNoContent)

	budgetRecorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &budgetRecorder, &budgetResponse)
	suite.Assert().True(budgetResponse.Data.Balance.Equal(decimal.NewFromInt(1000)), budgetResponse.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestUpdateIncome() {
	_, headers := suite.createTestUser(v1.UserEditable{AccountKind: models.AccountKindEnterprise})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/incomes", v1.IncomeEditable{
		BudgetID: budget.ID,
		Name:     "Invoice",
		Amount:   decimal.NewFromInt(100),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.IncomeResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	patchRecorder := test.Request(suite.T(), http.MethodPatch, response.Data.Links.Self, map[string]any{
		"amount": "150",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &patchRecorder, http.StatusOK)

	budgetRecorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &budgetRecorder, &budgetResponse)
	suite.Assert().True(budgetResponse.Data.Balance.Equal(decimal.NewFromInt(1150)), budgetResponse.Data.Balance.String())
}
