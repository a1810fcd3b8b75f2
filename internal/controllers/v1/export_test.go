package v1_test

import (
	"net/http"

	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestOptionsExport() {
	recorder := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestGetExport() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ExportResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Assert().Contains(response.Data, "User")
	suite.Assert().Contains(response.Data, "Budget")
	suite.Assert().NotEmpty(response.Data["Budget"])
}
