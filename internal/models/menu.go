package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuItem is a sellable dish or drink. Prices are whole COP units; when a
// promo is active the effective price at checkout is PromoPrice.
type MenuItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Price        int64              `bson:"price" json:"price"`
	PromoEnabled bool               `bson:"promoEnabled" json:"promoEnabled"`
	PromoPrice   int64              `bson:"promoPrice" json:"promoPrice"`
	IsOnPromo    bool               `bson:"-" json:"isOnPromo"`
	Category     StringList         `bson:"category" json:"category"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	ImagePath    string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	Available    bool               `bson:"available" json:"available"`
	IsDeleted    bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
