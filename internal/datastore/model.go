package datastore

import "time"

// Confidence bounds for item/tag links.
const (
	MinConfidence = 0
	MaxConfidence = 100
)

// User is a registered account. Email is unique.
type User struct {
	ID             uint      `gorm:"primaryKey"`
	Email          string    `gorm:"size:255;not null;uniqueIndex"`
	HashedPassword string    `gorm:"size:255;not null"`
	CreatedAt      time.Time
	Items          []Item `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
}

// Item is a single clothing item in a user's closet.
type Item struct {
	ID            uint    `gorm:"primaryKey"`
	Description   string  `gorm:"type:text;not null"`
	ImageFilename *string `gorm:"size:255"`
	OwnerID       uint    `gorm:"not null;index"`
	CreatedAt     time.Time
	Links         []ItemTagLink `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// TagNames returns the names of the item's linked tags in link order.
// Links must have been loaded with their tags.
func (i *Item) TagNames() []string {
	names := make([]string, 0, len(i.Links))
	for _, link := range i.Links {
		if link.Tag.Name != "" {
			names = append(names, link.Tag.Name)
		}
	}
	return names
}

// WeatherTag is a weather-condition label. Names are unique.
type WeatherTag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;not null;uniqueIndex"`
}

// ItemTagLink associates an item with a tag and the classifier's confidence.
type ItemTagLink struct {
	ItemID     uint       `gorm:"primaryKey;autoIncrement:false"`
	TagID      uint       `gorm:"primaryKey;autoIncrement:false"`
	Confidence int        `gorm:"not null;check:chk_clothing_weather_confidence,confidence >= 0 AND confidence <= 100"`
	Tag        WeatherTag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the historical association table name.
func (ItemTagLink) TableName() string { return "clothing_weather" }

// models lists every persisted type in migration order.
func models() []any {
	return []any{&User{}, &WeatherTag{}, &Item{}, &ItemTagLink{}}
}
