package event

import "time"

// Event はイベントエンティティを表す
type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int // 楽観的ロック用
}

// NewEvent は新しいイベントを作成する
func NewEvent(title, description string, date time.Time, location, imageURL string) *Event {
	now := time.Now()
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     0,
	}
}

// IsUpcoming はイベントが開催前かを返す
func (e *Event) IsUpcoming() bool {
	return time.Now().Before(e.Date)
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrTitleRequired
	}
	if e.Location == "" {
		return ErrLocationRequired
	}
	if e.Date.IsZero() {
		return ErrDateRequired
	}
	return nil
}
