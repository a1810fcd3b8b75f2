package v1_test

import (
	"net/http"

	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/test"
	"github.com/shopspring/decimal"
)

// setupEnterprise prepares an enterprise user with a budget, a salary
// scale and one active staff employee.
func (suite *TestSuiteStandard) setupEnterprise() (map[string]string, v1.Budget, v1.Employee) {
	_, headers := suite.createTestUser(v1.UserEditable{AccountKind: models.AccountKindEnterprise})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(10000)})
	employee := suite.createTestEmployee(headers, v1.EmployeeEditable{Type: models.EmployeeTypeStaff})

	recorder := test.Request(suite.T(), http.MethodPut, "http://example.com/v1/salary-scale", v1.SalaryScaleEditable{
		Staff: models.SalaryBand{Salary: decimal.NewFromInt(1500)},
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	return headers, budget, employee
}

func (suite *TestSuiteStandard) TestCreatePayment() {
	headers, budget, employee := suite.setupEnterprise()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments", v1.PaymentEditable{
		BudgetID:   budget.ID,
		EmployeeID: employee.ID,
		Amount:     decimal.NewFromInt(500),
		Note:       "Advance",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.PaymentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("salary", response.Data.Kind)
	suite.Assert().NotNil(response.Data.PaidAt)

	// The budget balance reflects the payment
	budgetRecorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &budgetRecorder, &budgetResponse)
	suite.Assert().True(budgetResponse.Data.Balance.Equal(decimal.NewFromInt(9500)), budgetResponse.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestCreatePaymentIndividualAccount() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	budget := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments", v1.PaymentEditable{
		BudgetID: budget.ID,
		Amount:   decimal.NewFromInt(50),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestDeletePaymentRestoresBalance() {
	headers, budget, employee := suite.setupEnterprise()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments", v1.PaymentEditable{
		BudgetID:   budget.ID,
		EmployeeID: employee.ID,
		Amount:     decimal.NewFromInt(500),
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.PaymentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	deleteRecorder := test.Request(suite.T(), http.MethodDelete, response.Data.Links.Self, "", headers)
	test.AssertHTTPStatus(suite.T(), &deleteRecorder, http.StatusNoContent)

	budgetRecorder := test.Request(suite.T(), http.MethodGet, budget.Links.Self, "", headers)
	var budgetResponse v1.BudgetResponse
	test.DecodeResponse(suite.T(), &budgetRecorder, &budgetResponse)
	suite.Assert().True(budgetResponse.Data.Balance.Equal(decimal.NewFromInt(10000)), budgetResponse.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestRunPayroll() {
	headers, budget, _ := suite.setupEnterprise()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments/payroll", v1.PayrollRequest{
		BudgetID: budget.ID,
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.PayrollResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().Len(response.Data.Payments, 1)
	suite.Assert().True(response.Data.Total.Equal(decimal.NewFromInt(1500)), response.Data.Total.String())
	suite.Assert().True(response.Data.BalanceAfter.Equal(decimal.NewFromInt(8500)), response.Data.BalanceAfter.String())

	// The batch defaults to the current month, so a second run skips everyone
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments/payroll", v1.PayrollRequest{
		BudgetID: budget.ID,
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var second v1.PayrollResponse
	test.DecodeResponse(suite.T(), &recorder, &second)
	suite.Assert().Len(second.Data.Payments, 0)
	suite.Assert().Equal(1, second.Data.Skipped)
}

func (suite *TestSuiteStandard) TestRunPayrollInvalidPeriod() {
	headers, budget, _ := suite.setupEnterprise()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments/payroll", v1.PayrollRequest{
		BudgetID: budget.ID,
		Period:   "May 2024",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestPreviewPayroll() {
	headers, budget, _ := suite.setupEnterprise()

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments/payroll/preview", v1.PayrollRequest{
		BudgetID: budget.ID,
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.PayrollPreviewResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().Len(response.Data.Items, 1)
	suite.Assert().True(response.Data.Sufficient)

	// Previewing creates no payments
	listRecorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/payments", "", headers)
	var list v1.PaymentListResponse
	test.DecodeResponse(suite.T(), &listRecorder, &list)
	suite.Assert().Len(list.Data, 0)
}

func (suite *TestSuiteStandard) TestGetPaymentsFilter() {
	headers, budget, employee := suite.setupEnterprise()
	other := suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(1000)})

	for _, id := range []struct {
		budget v1.Budget
	}{{budget}, {other}} {
		recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/payments", v1.PaymentEditable{
			BudgetID:   id.budget.ID,
			EmployeeID: employee.ID,
			Amount:     decimal.NewFromInt(100),
		}, headers)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
	}

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/payments?budget="+budget.ID.String(), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.PaymentListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal(budget.ID, response.Data[0].BudgetID)
}
