package entity

import "time"

const (
	DefaultCategory = "General"
	DefaultMood     = "Neutral"
	DefaultMusicKey = "none"
	DefaultPriority = "Medium"
)

type DiaryEntry struct {
	Ownership
	Title    string `json:"title" binding:"max=200"`
	Content  string `json:"content"`
	MusicKey string `json:"music_key"`
}

func (e *DiaryEntry) ApplyDefaults(time.Time) {
	if e.MusicKey == "" {
		e.MusicKey = DefaultMusicKey
	}
}

type PersonalEntry struct {
	Ownership
	Title    string   `json:"title" binding:"required,max=200"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category"`
	Mood     string   `json:"mood"`
	Images   []string `json:"images"`
	Date     FlexTime `json:"date"`
}

func (e *PersonalEntry) ApplyDefaults(now time.Time) {
	e.Category, e.Mood = orDefault(e.Category, DefaultCategory), orDefault(e.Mood, DefaultMood)
	if e.Images == nil {
		e.Images = []string{}
	}
	if e.Date.IsZero() {
		e.Date.Time = now
	}
}

func (e *PersonalEntry) AddImage(url string) { e.Images = append(e.Images, url) }

type ProfessionalEntry struct {
	Ownership
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category"`
	Mood        string   `json:"mood"`
	Images      []string `json:"images"`
	Date        FlexTime `json:"date"`
}

func (e *ProfessionalEntry) ApplyDefaults(now time.Time) {
	e.Category, e.Mood = orDefault(e.Category, DefaultCategory), orDefault(e.Mood, DefaultMood)
	if e.Images == nil {
		e.Images = []string{}
	}
	if e.Date.IsZero() {
		e.Date.Time = now
	}
}

func (e *ProfessionalEntry) AddImage(url string) { e.Images = append(e.Images, url) }

type ScheduleItem struct {
	Ownership
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description"`
	Date        FlexTime `json:"date"`
	Time        string   `json:"time" binding:"omitempty,clock"`
	Category    string   `json:"category"`
	Priority    string   `json:"priority" binding:"omitempty,priority"`
	Completed   bool     `json:"completed"`
}

func (e *ScheduleItem) ApplyDefaults(time.Time) {
	e.Category = orDefault(e.Category, DefaultCategory)
	e.Priority = orDefault(e.Priority, DefaultPriority)
}

func (e *ScheduleItem) Check() map[string]string {
	if e.Date.IsZero() {
		return map[string]string{"date": "is required"}
	}
	return nil
}

// Reminder is created by the daily job for users who skipped their diary.
type Reminder struct {
	Ownership
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
	Seen    bool      `json:"seen"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
