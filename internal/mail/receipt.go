package mail

import (
	"fmt"
	"strings"
	"time"

	"github.com/garagebuddy/garagebuddy/internal/format"
	"github.com/garagebuddy/garagebuddy/internal/model"
)

// Receipt composes the subject and plain-text body for a transaction receipt.
// Recipients are the seller and, when linked, the customer account.
func Receipt(
	sale *model.Sale, txn *model.Transaction, items []model.Item,
	seller *model.User, customer *model.User,
) (to []string, subject, body string) {
	subject = fmt.Sprintf("GarageBuddy Sale '%s' Transaction %d", sale.Name, txn.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Transaction ID: %d\n", txn.ID)
	fmt.Fprintf(&b, "%s sold items to %s.\n", seller.Name, txn.CustomerName)
	for _, it := range items {
		fmt.Fprintf(&b, "\t%s\t\t%s\n", it.Name, format.Currency(it.Price))
	}
	fmt.Fprintf(&b, "Total: %d items for %s\n", txn.NumItems, format.Currency(txn.Value))
	fmt.Fprintf(&b, "\nThanks for using GarageBuddy!\nmessage generated at %s\n",
		format.Time(time.Now()))

	to = []string{fmt.Sprintf("%s <%s>", seller.Name, seller.Email)}
	if customer != nil {
		to = append(to, fmt.Sprintf("%s <%s>", customer.Name, customer.Email))
	}
	return to, subject, b.String()
}
