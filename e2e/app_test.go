package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL)
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

func (suite *E2ETestSuite) login() {
	// Wait for login form
	err := suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "login form not visible")

	// Fill in credentials
	err = suite.page.Locator("input[name=username]").Fill(adminUser)
	require.NoError(suite.T(), err, "failed to fill username")

	err = suite.page.Locator("input[name=password]").Fill(adminPassword)
	require.NoError(suite.T(), err, "failed to fill password")

	// Submit login
	err = suite.page.Locator(".login-btn").Click()
	require.NoError(suite.T(), err, "failed to click login")

	// Wait for redirect to expenses page
	err = suite.expect.Locator(suite.page.Locator(".list-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not redirect to expenses page after login")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	// Login
	suite.login()

	// Verify Homepage
	err := suite.expect.Locator(suite.page.Locator("#usernameDisplay")).ToHaveText("Welcome, " + adminUser)
	require.NoError(suite.T(), err, "homepage assertion failed")

	err = suite.expect.Locator(suite.page.Locator(".empty-state")).ToContainText("No expenses yet")
	require.NoError(suite.T(), err, "empty state missing")

	// Set a budget
	err = suite.page.Locator("input[name=budget]").Fill("100")
	require.NoError(suite.T(), err, "failed to fill budget")
	err = suite.page.Locator("#budgetForm button").Click()
	require.NoError(suite.T(), err, "failed to set budget")

	err = suite.expect.Locator(suite.page.Locator("#budgetAmount")).ToHaveText("$100.00")
	require.NoError(suite.T(), err, "budget mismatch")

	// Wait for form
	err = suite.expect.Locator(suite.page.Locator("#expenseForm")).ToBeVisible()
	require.NoError(suite.T(), err, "expense form not visible")

	// Fill description and amount
	err = suite.page.Locator("input[name=description]").Fill("Lunch Test")
	require.NoError(suite.T(), err, "failed to fill description")

	err = suite.page.Locator("input[name=amount]").Fill("12.50")
	require.NoError(suite.T(), err, "failed to fill amount")

	// Select category
	_, err = suite.page.Locator("select[name=category]").SelectOption(playwright.SelectOptionValues{
		Values: &[]string{"food"},
	})
	require.NoError(suite.T(), err, "failed to select category")

	// Submit
	err = suite.page.Locator("button.submit").Click()
	require.NoError(suite.T(), err, "failed to submit expense")

	// Verify in List - Wait for expense item to appear
	err = suite.expect.Locator(suite.page.Locator(".expense-item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "expense item count mismatch")

	item := suite.page.Locator(".expense-item").First()
	err = suite.expect.Locator(item.Locator(".expense-details strong")).ToHaveText("Lunch Test")
	require.NoError(suite.T(), err, "description mismatch")

	err = suite.expect.Locator(item.Locator(".expense-amount")).ToContainText("12.50")
	require.NoError(suite.T(), err, "amount mismatch")

	// Totals and breakdown
	err = suite.expect.Locator(suite.page.Locator("#totalExpenses")).ToHaveText("$12.50")
	require.NoError(suite.T(), err, "total mismatch")

	err = suite.expect.Locator(suite.page.Locator("#remainingAmount")).ToHaveText("$87.50")
	require.NoError(suite.T(), err, "remaining mismatch")

	err = suite.expect.Locator(suite.page.Locator(".chart-label")).ToHaveText("Food")
	require.NoError(suite.T(), err, "breakdown label mismatch")

	// Switch currency
	_, err = suite.page.Locator("select[name=currency]").SelectOption(playwright.SelectOptionValues{
		Values: &[]string{"EUR"},
	})
	require.NoError(suite.T(), err, "failed to select currency")
	err = suite.page.Locator("#currencyForm button").Click()
	require.NoError(suite.T(), err, "failed to apply currency")

	err = suite.expect.Locator(suite.page.Locator("#totalExpenses")).ToHaveText("€12.50")
	require.NoError(suite.T(), err, "currency not applied")

	// Delete the expense
	err = item.Locator(".delete-btn").Click()
	require.NoError(suite.T(), err, "failed to delete expense")

	err = suite.expect.Locator(suite.page.Locator(".expense-item")).ToHaveCount(0)
	require.NoError(suite.T(), err, "expense not deleted")

	err = suite.expect.Locator(suite.page.Locator("#expenseChart")).ToHaveText("No data to display")
	require.NoError(suite.T(), err, "breakdown not cleared")
}

func (suite *E2ETestSuite) TestInvalidAmountIsRejected() {
	suite.login()

	err := suite.page.Locator("input[name=amount]").Fill("abc")
	require.NoError(suite.T(), err, "failed to fill amount")

	err = suite.page.Locator("button.submit").Click()
	require.NoError(suite.T(), err, "failed to submit expense")

	err = suite.expect.Locator(suite.page.Locator(".form-error")).ToContainText("is not a number")
	require.NoError(suite.T(), err, "validation error not shown")
}

func (suite *E2ETestSuite) TestWrongPassword() {
	err := suite.page.Locator("input[name=username]").Fill(adminUser)
	require.NoError(suite.T(), err, "failed to fill username")

	err = suite.page.Locator("input[name=password]").Fill("nope")
	require.NoError(suite.T(), err, "failed to fill password")

	err = suite.page.Locator(".login-btn").Click()
	require.NoError(suite.T(), err, "failed to click login")

	err = suite.expect.Locator(suite.page.Locator(".form-error")).ToHaveText("Invalid username or password")
	require.NoError(suite.T(), err, "login error not shown")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
