package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Payload is a raw JSON object whose fields are decoded and validated one by one,
// so a type error in one field does not hide the violations in the others.
type Payload map[string]json.RawMessage

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,min=3"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AddCartItemRequest struct {
	ProductID int `json:"product_id" binding:"required,gt=0,max=2147483647"`
	Quantity  int `json:"quantity" binding:"required,min=1,max=2147483647"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=2147483647"`
}

type NotifyCustomersRequest struct {
	Subject string `json:"subject" binding:"omitempty,max=255"`
	Message string `json:"message" binding:"required"`
}

type HelloRequest struct {
	Name string `json:"name"`
}

// NotifyCustomersTask is the message published on the notification queue.
type NotifyCustomersTask struct {
	ID          uuid.UUID `json:"id"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	RequestedBy int       `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}
