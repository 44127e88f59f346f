package http

import (
	"time"

	"github.com/garagebuddy/garagebuddy/internal/model"
)

// Response shapes. Dates travel as RFC 3339; money as plain floats.

type userView struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	SuperUser  bool   `json:"super_user"`
}

func toUserView(u *model.User) userView {
	return userView{
		Email:      u.Email,
		Name:       u.Name,
		Address:    u.Address,
		City:       u.City,
		State:      u.State,
		PostalCode: u.PostalCode,
		SuperUser:  u.SuperUser,
	}
}

type saleView struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Closed    bool      `json:"closed"`
}

func toSaleView(s *model.Sale) saleView {
	return saleView{
		ID:        s.ID,
		Name:      s.Name,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Closed:    s.Closed,
	}
}

type itemView struct {
	ID            int      `json:"id"`
	SaleID        *int     `json:"sale_id,omitempty"`
	TransactionID *int     `json:"transaction_id,omitempty"`
	OwnerEmail    string   `json:"owner_email"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	MinPrice      float64  `json:"min_price"`
	SoldFor       *float64 `json:"sold_for,omitempty"`
	Purchased     bool     `json:"purchased"`
	CurrentBid    *float64 `json:"current_bid,omitempty"`
	ReservedBy    *string  `json:"reserved_by,omitempty"`
}

func toItemView(it *model.Item) itemView {
	return itemView{
		ID:            it.ID,
		SaleID:        it.SaleID,
		TransactionID: it.TransactionID,
		OwnerEmail:    it.CreatedBy,
		Name:          it.Name,
		Description:   it.Description,
		Price:         it.Price,
		MinPrice:      it.MinPrice,
		SoldFor:       it.SoldFor,
		Purchased:     it.Purchased,
		CurrentBid:    it.CurrentBid,
		ReservedBy:    it.ReservedBy,
	}
}

type transactionView struct {
	ID            int       `json:"id"`
	SaleID        int       `json:"sale_id"`
	SellerEmail   string    `json:"seller_email"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail *string   `json:"customer_email,omitempty"`
	NumItems      int       `json:"num_items"`
	Value         float64   `json:"value"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTransactionView(t *model.Transaction) transactionView {
	return transactionView{
		ID:            t.ID,
		SaleID:        t.SaleID,
		SellerEmail:   t.SellerEmail,
		CustomerName:  t.CustomerName,
		CustomerEmail: t.CustomerEmail,
		NumItems:      t.NumItems,
		Value:         t.Value,
		CreatedAt:     t.CreatedAt,
	}
}
