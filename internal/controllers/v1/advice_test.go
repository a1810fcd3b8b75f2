package v1_test

import (
	"net/http"
	"time"

	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) createTestAdvice(advice models.Advice) models.Advice {
	if advice.Name == "" {
		advice.Name = "weekly report"
	}
	if advice.Message == "" {
		advice.Message = "Spending is on track for this week."
	}

	err := models.DB.Create(&advice).Error
	if err != nil {
		suite.Assert().FailNow("Advice could not be saved", "Error: %s, Advice: %#v", err, advice)
	}

	return advice
}

func (suite *TestSuiteStandard) TestGetAdviceList() {
	user, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})

	suite.createTestAdvice(models.Advice{UserID: user.ID, BudgetID: &budget.ID})
	suite.createTestAdvice(models.Advice{UserID: user.ID, Name: "final report"})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/advice", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AdviceListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/advice?budget="+budget.ID.String(), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Require().NotNil(response.Data[0].BudgetID)
	suite.Assert().Equal(budget.ID, *response.Data[0].BudgetID)
	suite.Assert().Contains(response.Data[0].Links.Budget, budget.ID.String())
}

func (suite *TestSuiteStandard) TestGetRecentAdvice() {
	user, headers := suite.createTestUser(v1.UserEditable{})

	first := suite.createTestAdvice(models.Advice{UserID: user.ID, Message: "older"})
	suite.Require().NoError(models.DB.Model(&first).Update("created_at", first.CreatedAt.Add(-time.Hour)).Error)
	suite.createTestAdvice(models.Advice{UserID: user.ID, Message: "newer"})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/advice/recent", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AdviceResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("newer", response.Data.Message)
}

func (suite *TestSuiteStandard) TestGetRecentAdviceEmpty() {
	_, headers := suite.createTestUser(v1.UserEditable{})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/advice/recent", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestReadAndDeleteAdvice() {
	user, headers := suite.createTestUser(v1.UserEditable{})
	advice := suite.createTestAdvice(models.Advice{UserID: user.ID})

	recorder := test.Request(suite.T(), http.MethodPost, resourceURL("advice", advice.ID)+"/read", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AdviceResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Data.Viewed)

	deleteRecorder := test.Request(suite.T(), http.MethodDelete, resourceURL("advice", advice.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), &deleteRecorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, resourceURL("advice", advice.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAdviceUnknownID() {
	_, headers := suite.createTestUser(v1.UserEditable{})

	recorder := test.Request(suite.T(), http.MethodGet, resourceURL("advice", uuid.New()), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGlobalReport() {
	_, headers := suite.createTestUser(v1.UserEditable{AccountKind: models.AccountKindEnterprise})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})
	suite.createTestExpense(headers, v1.ExpenseEditable{BudgetID: budget.ID, Amount: decimal.NewFromInt(300)})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/global", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.GlobalReportResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Assert().Equal(1, response.Data.BudgetCount)
	suite.Assert().True(response.Data.TotalCurrent.Equal(decimal.NewFromInt(700)), response.Data.TotalCurrent.String())
	suite.Require().NotNil(response.Data.TotalIncome)
	suite.Assert().True(response.Data.TotalIncome.IsZero())
}
