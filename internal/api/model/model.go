package model

import "time"

// Model is a gallery entry a shopper can try garments on
type Model struct {
	ModelID   string    `db:"model_id"`
	Name      string    `db:"name"`
	BodyType  string    `db:"body_type"`
	ImageURL  string    `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
}
