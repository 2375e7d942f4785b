package customers

import "time"

// Customer is a visited account. CreatedBy records the employee who
// registered it; visit rows referencing the customer block deletion.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kana      string    `json:"kana"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
