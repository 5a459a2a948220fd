package ledger

// Storage keys. One snapshot for the category list, one per category for
// its transactions, one scalar goal, one reminder list.
const (
	categoriesKey = "income_categories"
	goalKey       = "monthly_goal"
	remindersKey  = "payment_reminders"

	transactionsKeyPrefix = "transactions_"
)

func transactionsKey(categoryID string) string {
	return transactionsKeyPrefix + categoryID
}
