// Package reminder builds the daily three-slot reminder digest.
package reminder

import (
	"time"
)

// ItemType defines the slot of a digest item.
type ItemType string

const (
	ItemTypeWeather   ItemType = "weather"
	ItemTypeCommute   ItemType = "commute"
	ItemTypeImportant ItemType = "important"
)

// Item is one reminder card.
type Item struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
}

// Digest is the payload forwarded to the backend. It always holds exactly three
// items, in weather, commute, important order.
type Digest struct {
	Reminders []Item `json:"reminders"`
}

var itemTitles = map[ItemType]string{
	ItemTypeWeather:   "今日天气",
	ItemTypeCommute:   "通勤提醒",
	ItemTypeImportant: "重要提醒",
}

// BuildDigest assembles the three slots. Ids are "<type>_<YYYY-MM-DD>", so the
// same inputs on the same day always produce the same digest.
func BuildDigest(today time.Time, weather, commute, important string) Digest {
	date := today.Format(dateLayout)
	item := func(t ItemType, subtitle string) Item {
		return Item{
			ID:       string(t) + "_" + date,
			Type:     t,
			Title:    itemTitles[t],
			Subtitle: subtitle,
		}
	}
	return Digest{Reminders: []Item{
		item(ItemTypeWeather, weather),
		item(ItemTypeCommute, commute),
		item(ItemTypeImportant, important),
	}}
}
