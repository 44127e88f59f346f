package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/garagebuddy/garagebuddy/internal/model"
)

func TestReceipt(t *testing.T) {
	sale := &model.Sale{ID: 4, Name: "Spring Cleanout"}
	txn := &model.Transaction{ID: 17, SaleID: 4, SellerEmail: "carol@example.com",
		CustomerName: "Walk-in", NumItems: 2, Value: 27.50, CreatedAt: time.Now()}
	items := []model.Item{
		{Name: "Lamp", Price: 12.50},
		{Name: "Bookshelf", Price: 15.00},
	}
	seller := &model.User{Email: "carol@example.com", Name: "Carol"}

	to, subject, body := Receipt(sale, txn, items, seller, nil)

	if subject != "GarageBuddy Sale 'Spring Cleanout' Transaction 17" {
		t.Fatalf("subject = %q", subject)
	}
	if len(to) != 1 || to[0] != "Carol <carol@example.com>" {
		t.Fatalf("to = %v", to)
	}
	for _, want := range []string{
		"Transaction ID: 17",
		"Carol sold items to Walk-in.",
		"Lamp\t\t$12.50",
		"Bookshelf\t\t$15.00",
		"Total: 2 items for $27.50",
		"Thanks for using GarageBuddy!",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestReceiptCustomerCopy(t *testing.T) {
	sale := &model.Sale{ID: 1, Name: "Yard Sale"}
	txn := &model.Transaction{ID: 3, SaleID: 1, SellerEmail: "carol@example.com",
		CustomerName: "Dave", NumItems: 0, Value: 0}
	seller := &model.User{Email: "carol@example.com", Name: "Carol"}
	customer := &model.User{Email: "dave@example.com", Name: "Dave"}

	to, _, _ := Receipt(sale, txn, nil, seller, customer)
	if len(to) != 2 || to[1] != "Dave <dave@example.com>" {
		t.Fatalf("to = %v", to)
	}
}
