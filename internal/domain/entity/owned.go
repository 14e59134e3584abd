package entity

import (
	"bytes"
	"encoding/json"
	"time"
)

// Ownership is embedded by every resource that belongs to exactly one user.
type Ownership struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Ownership) Own() *Ownership { return o }

// Owned is implemented by pointers to resources embedding Ownership.
type Owned interface {
	Own() *Ownership
}

// Defaulter is implemented by resources that fill optional fields on create.
type Defaulter interface {
	ApplyDefaults(now time.Time)
}

// Checker is implemented by resources with rules binding tags cannot express.
// It returns field -> message for every violation.
type Checker interface {
	Check() map[string]string
}

// ImageHolder is implemented by resources that keep a list of image URLs.
type ImageHolder interface {
	AddImage(url string)
}

// DayLayout is the calendar day format used in routes and payloads.
const DayLayout = "2006-01-02"

// FlexTime accepts either a calendar day or an RFC3339 timestamp in JSON.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if d, err := time.Parse(DayLayout, s); err == nil {
		t.Time = d
		return nil
	}
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	t.Time = v
	return nil
}

// DayBounds returns [start, end) of the UTC calendar day in s (YYYY-MM-DD).
func DayBounds(s string) (time.Time, time.Time, error) {
	d, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return d, d.AddDate(0, 0, 1), nil
}
