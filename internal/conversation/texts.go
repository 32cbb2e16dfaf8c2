package conversation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/courses"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/domain"
	"github.com/leeedrea/whatsapp-receipt-tracker/internal/persona"
)

const (
	personaMenuText = "Choose your AI Spending Analyst!\n\n" +
		"1 - Malaysian Mum\n2 - Malaysian Boyfriend\n" +
		"3 - Malaysian Girlfriend\n4 - Abang Bomba\n\n" +
		"Reply with number (1-4)"

	incomePromptText   = "Tell me your income first. Roughly berapa sebulan? (Type amount in RM)"
	incomeRepromptText = "Type number only (e.g. 3000)"
	restartIncomeText  = "Type your income again to restart"
	setupDoneText      = "Budget setup complete! Upload receipts and I'll track spending. Type HELP anytime!"
	setupFirstText     = "Setup your account first! Type HELP"

	helpText = "Commands:\nHELP - This message\nSUMMARY - Spending summary\nPERSONA - Change character\nCOURSES - Recommendations\n\nOr upload receipt!"

	notUnderstoodText = "Not sure what you mean lah. Type HELP to see what I can do!"
	noBudgetText      = "No budget set!"
	noCoursesText     = "No courses yet! Upload receipts first"

	blurReceiptText  = "Blur receipt lah. Type amount manually?"
	receiptErrorText = "Error processing receipt"
)

func personaActivatedText(p persona.Persona) string {
	book := p.Book()
	return fmt.Sprintf("%s %s activated!\n\n%s", book.Emoji, book.Name, incomePromptText)
}

func budgetPreviewText(income, essentials, wants, savings decimal.Decimal) string {
	return fmt.Sprintf("Ok! Monthly income: %s\n\n", domain.FormatRM(income)) +
		"50/30/20 Budget:\n\n" +
		fmt.Sprintf("Essentials (50%%): %s\n", domain.FormatRM(essentials)) +
		fmt.Sprintf("Wants (30%%): %s\n", domain.FormatRM(wants)) +
		fmt.Sprintf("Savings (20%%): %s\n\n", domain.FormatRM(savings)) +
		"Reply OK to confirm!"
}

func loggedOnlyText(amount decimal.Decimal, category string) string {
	return fmt.Sprintf("Logged %s -> %s", domain.FormatRM(amount), category)
}

func spendAlertText(amount decimal.Decimal, line *domain.BudgetLine, pct int) string {
	return fmt.Sprintf("Logged: %s -> %s\n", domain.FormatRM(amount), line.Category) +
		fmt.Sprintf("MTD: %s/%s (%d%%)\n\n", domain.FormatRM(line.Spent), domain.FormatRM(line.Allocation), pct)
}

func courseRecommendationText(c courses.Course) string {
	return fmt.Sprintf("BTW try this course:\n%s\n%s diamonds\nAndroid: %s\niOS: %s",
		c.Title, c.Diamonds, c.AndroidURL, c.IOSURL)
}
