package v1_test

import (
	"net/http"

	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestGetNotifications() {
	_, headers := suite.createTestUser(v1.UserEditable{})

	// Creating a budget emits a success notification
	suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal(models.NotificationSuccess, response.Data[0].Type)
	suite.Assert().False(response.Data[0].Viewed)
}

func (suite *TestSuiteStandard) TestGetNotificationsFilterByType() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications?type=ERROR", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 0)
}

func (suite *TestSuiteStandard) TestReadNotification() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications/unread", "", headers)
	var unread v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &recorder, &unread)
	suite.Require().Len(unread.Data, 1)

	readRecorder := test.Request(suite.T(), http.MethodPost, unread.Data[0].Links.Self+"/read", "", headers)
	test.AssertHTTPStatus(suite.T(), &readRecorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications/unread", "", headers)
	test.DecodeResponse(suite.T(), &recorder, &unread)
	suite.Assert().Len(unread.Data, 0)
}

func (suite *TestSuiteStandard) TestReadAllNotifications() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})
	suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(200)})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/notifications/read-all", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications/unread", "", headers)
	var unread v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &recorder, &unread)
	suite.Assert().Len(unread.Data, 0)
}

func (suite *TestSuiteStandard) TestDeleteNotification() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications", "", headers)
	var list v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Require().Len(list.Data, 1)

	deleteRecorder := test.Request(suite.T(), http.MethodDelete, list.Data[0].Links.Self, "", headers)
	test.AssertHTTPStatus(suite.T(), &deleteRecorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, list.Data[0].Links.Self, "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestNotificationsAreUserScoped() {
	_, headers := suite.createTestUser(v1.UserEditable{})
	suite.createTestBudget(headers, v1.BudgetEditable{InitialBalance: decimal.NewFromInt(100)})

	_, otherHeaders := suite.createTestUser(v1.UserEditable{})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications", "", otherHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 0)
}
