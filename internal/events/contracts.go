// Package events 负责领域事件的落库与投递
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/models"

	"github.com/google/uuid"
)

// PurchaseCreated purchase.created 事件体
type PurchaseCreated struct {
	EventID      string       `json:"event_id"`
	Type         string       `json:"type"`
	PurchaseID   uint         `json:"purchase_id"`
	CheckoutNo   string       `json:"checkout_no"`
	BuyerID      uint         `json:"buyer_id"`
	SellerID     uint         `json:"seller_id"`
	ProductID    uint         `json:"product_id"`
	Quantity     int          `json:"quantity"`
	TotalPrice   models.Money `json:"total_price"`
	PurchaseDate time.Time    `json:"purchase_date"`
}

// NewPurchaseCreatedOutbox 将购买记录转为待投递事件，需在购买记录写入后调用（依赖主键）
func NewPurchaseCreatedOutbox(topic string, purchase models.Purchase) (models.OutboxEvent, error) {
	event := PurchaseCreated{
		EventID:      uuid.NewString(),
		Type:         constants.EventPurchaseCreated,
		PurchaseID:   purchase.ID,
		CheckoutNo:   purchase.CheckoutNo,
		BuyerID:      purchase.BuyerID,
		SellerID:     purchase.SellerID,
		ProductID:    purchase.ProductID,
		Quantity:     purchase.Quantity,
		TotalPrice:   purchase.TotalPrice,
		PurchaseDate: purchase.PurchaseDate.UTC(),
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return models.OutboxEvent{}, err
	}
	payload := models.JSON{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.OutboxEvent{}, err
	}
	return models.OutboxEvent{
		EventID:   event.EventID,
		EventType: event.Type,
		Topic:     topic,
		EventKey:  fmt.Sprintf("%d", purchase.ProductID),
		Payload:   payload,
		CreatedAt: time.Now(),
	}, nil
}
