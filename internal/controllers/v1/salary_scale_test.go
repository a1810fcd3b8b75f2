package v1_test

import (
	"net/http"

	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestSalaryScaleEnterpriseOnly() {
	_, headers := suite.createTestUser(v1.UserEditable{})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/salary-scale", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestGetSalaryScaleCreatesSingleton() {
	_, headers := suite.createTestUser(v1.UserEditable{AccountKind: models.AccountKindEnterprise})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/salary-scale", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SalaryScaleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().True(response.Data.TotalMonthly.IsZero())

	// The same scale is returned on the next access
	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/salary-scale", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var second v1.SalaryScaleResponse
	test.DecodeResponse(suite.T(), &recorder, &second)
	suite.Assert().Equal(response.Data.ID, second.Data.ID)
}

func (suite *TestSuiteStandard) TestUpdateSalaryScale() {
	_, headers := suite.createTestUser(v1.UserEditable{AccountKind: models.AccountKindEnterprise})

	recorder := test.Request(suite.T(), http.MethodPut, "http://example.com/v1/salary-scale", v1.SalaryScaleEditable{
		Staff:  models.SalaryBand{Salary: decimal.NewFromInt(2000), Bonus: decimal.NewFromInt(500)},
		Worker: models.SalaryBand{Salary: decimal.NewFromInt(1200), Advance: decimal.NewFromInt(200)},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SalaryScaleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Assert().True(response.Data.Staff.Salary.Equal(decimal.NewFromInt(2000)))
	// 2500 staff plus 1000 worker
	suite.Assert().True(response.Data.TotalMonthly.Equal(decimal.NewFromInt(3500)), response.Data.TotalMonthly.String())
}

func (suite *TestSuiteStandard) TestCalculateSalaryScale() {
	_, headers := suite.createTestUser(v1.UserEditable{AccountKind: models.AccountKindEnterprise})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/salary-scale/calculate", v1.SalaryCalculation{
		Period: models.SalaryPeriodMonthly,
		Amount: decimal.NewFromInt(3000),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SalaryScaleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Assert().Equal("3000.00", response.Data.Monthly.StringFixed(2))
	suite.Assert().Equal("100.00", response.Data.Daily.StringFixed(2))
	suite.Assert().Equal("12.50", response.Data.Hourly.StringFixed(2))
}

func (suite *TestSuiteStandard) TestCalculateSalaryScaleInvalidPeriod() {
	_, headers := suite.createTestUser(v1.UserEditable{AccountKind: models.AccountKindEnterprise})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/salary-scale/calculate", v1.SalaryCalculation{
		Period: "yearly",
		Amount: decimal.NewFromInt(3000),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}
