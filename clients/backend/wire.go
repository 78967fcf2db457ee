package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"shootdispatch/models"
)

// Every casing and shape variant the backend has been seen to send is
// resolved here, once. Nothing past this file sees wire types.

// flexID accepts a string, a number or null.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// flexName accepts a plain string or an object with a name.
type flexName string

func (f *flexName) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexName(s)
	case b[0] == '{':
		var obj struct {
			Name     string `json:"name"`
			FullName string `json:"full_name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*f = flexName(first(obj.Name, obj.FullName))
	}
	return nil
}

// flexInt accepts a number, a numeric string or null.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

// envelope accepts a bare array, a bare object, or either wrapped in one of
// the usual keys.
type envelope[T any] struct {
	Items []T
}

var envelopeKeys = []string{"data", "items", "results", "shoots", "photographers", "availability", "slots", "shoot"}

func (e *envelope[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '[' {
		return json.Unmarshal(b, &e.Items)
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(b, &wrapper); err != nil {
		return err
	}
	for _, key := range envelopeKeys {
		if inner, ok := wrapper[key]; ok {
			return e.UnmarshalJSON(inner)
		}
	}

	var one T
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	e.Items = []T{one}
	return nil
}

func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type wireSlot struct {
	ID                flexID `json:"id"`
	PhotographerID    flexID `json:"photographerId"`
	PhotographerIDAlt flexID `json:"photographer_id"`
	Date              string `json:"date"`
	DayOfWeek         string `json:"dayOfWeek"`
	DayOfWeekAlt      string `json:"day_of_week"`
	StartTime         string `json:"startTime"`
	StartTimeAlt      string `json:"start_time"`
	EndTime           string `json:"endTime"`
	EndTimeAlt        string `json:"end_time"`
	Status            string `json:"status"`
}

func (w wireSlot) model() models.AvailabilitySlot {
	status := models.SlotStatus(strings.ToLower(first(w.Status)))
	if status == "" {
		status = models.SlotAvailable
	}
	return models.AvailabilitySlot{
		ID:             string(w.ID),
		PhotographerID: first(string(w.PhotographerID), string(w.PhotographerIDAlt)),
		Date:           normalizeDate(w.Date),
		DayOfWeek:      strings.ToLower(first(w.DayOfWeek, w.DayOfWeekAlt)),
		StartTime:      normalizeClock(first(w.StartTime, w.StartTimeAlt)),
		EndTime:        normalizeClock(first(w.EndTime, w.EndTimeAlt)),
		Status:         status,
	}
}

// normalizeDate keeps the calendar part of "2025-01-06" or an RFC 3339 stamp.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len(models.DateLayout) {
		if _, err := time.Parse(models.DateLayout, s[:len(models.DateLayout)]); err == nil {
			return s[:len(models.DateLayout)]
		}
	}
	return s
}

// normalizeClock turns "9:00" or "09:00:00" into "09:00".
func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return s
}

type wireRef struct {
	ID flexID `json:"id"`
}

type wireShoot struct {
	ID                flexID   `json:"id"`
	PhotographerID    flexID   `json:"photographerId"`
	PhotographerIDAlt flexID   `json:"photographer_id"`
	Photographer      *wireRef `json:"photographer"`
	AddressLine       string   `json:"addressLine"`
	AddressLineAlt    string   `json:"address_line"`
	Address           string   `json:"address"`
	CityStateZip      string   `json:"cityStateZip"`
	CityStateZipAlt   string   `json:"city_state_zip"`
	ClientName        string   `json:"clientName"`
	ClientNameAlt     string   `json:"client_name"`
	Client            flexName `json:"client"`
	StartTime         string   `json:"startTime"`
	StartTimeAlt      string   `json:"start_time"`
	ScheduledAt       string   `json:"scheduledAt"`
	ScheduledAtAlt    string   `json:"scheduled_at"`
	DayLabel          string   `json:"dayLabel"`
	DayLabelAlt       string   `json:"day_label"`
	TimeLabel         string   `json:"timeLabel"`
	TimeLabelAlt      string   `json:"time_label"`
}

// shootTimeLayouts are tried after RFC 3339. Stamps without an offset are
// wall-clock times in the business timezone.
var shootTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseShootTime(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range shootTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// model converts the wire shoot. rawStart is returned when a start time was
// sent but could not be parsed.
func (w wireShoot) model(loc *time.Location) (shoot models.Shoot, rawStart string) {
	photographerID := first(string(w.PhotographerID), string(w.PhotographerIDAlt))
	if photographerID == "" && w.Photographer != nil {
		photographerID = string(w.Photographer.ID)
	}
	s := models.Shoot{
		ID:             string(w.ID),
		AddressLine:    first(w.AddressLine, w.AddressLineAlt, w.Address),
		CityStateZip:   first(w.CityStateZip, w.CityStateZipAlt),
		ClientName:     first(w.ClientName, w.ClientNameAlt, string(w.Client)),
		PhotographerID: photographerID,
		DayLabel:       first(w.DayLabel, w.DayLabelAlt),
		TimeLabel:      first(w.TimeLabel, w.TimeLabelAlt),
	}
	if raw := first(w.StartTime, w.StartTimeAlt, w.ScheduledAt, w.ScheduledAtAlt); raw != "" {
		t, ok := parseShootTime(raw, loc)
		if !ok {
			return s, raw
		}
		s.StartTime = &t
	}
	return s, ""
}

type wirePhotographer struct {
	ID           flexID          `json:"id"`
	Name         flexName        `json:"name"`
	FullName     string          `json:"full_name"`
	Avatar       string          `json:"avatar"`
	AvatarURL    string          `json:"avatar_url"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Status       string          `json:"status"`
	LoadToday    flexInt         `json:"loadToday"`
	LoadTodayAlt flexInt         `json:"load_today"`
	Region       string          `json:"region"`
	HomeAddress  json.RawMessage `json:"homeAddress"`
	HomeAddrAlt  json.RawMessage `json:"home_address"`
	Address      json.RawMessage `json:"address"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	Zip          string          `json:"zip"`
	ZipAlt       string          `json:"zip_code"`
}

func (w wirePhotographer) model() models.Photographer {
	status := models.PhotographerStatus(strings.ToLower(strings.TrimSpace(w.Status)))
	if !status.Valid() {
		status = models.StatusFree
	}
	load := int(w.LoadToday)
	if load == 0 {
		load = int(w.LoadTodayAlt)
	}

	var addr models.Address
	for _, raw := range []json.RawMessage{w.HomeAddress, w.HomeAddrAlt, w.Address} {
		if a := decodeAddress(raw); !a.IsZero() {
			addr = a
			break
		}
	}
	addr.City = first(addr.City, w.City)
	addr.State = first(addr.State, w.State)
	addr.Zip = first(addr.Zip, w.Zip, w.ZipAlt)

	return models.Photographer{
		ID:        string(w.ID),
		Name:      first(string(w.Name), w.FullName),
		Avatar:    first(w.Avatar, w.AvatarURL),
		Phone:     w.Phone,
		Email:     w.Email,
		Address:   addr,
		Status:    status,
		LoadToday: load,
		Region:    w.Region,
	}
}

type wireAddress struct {
	Line       string `json:"line"`
	Street     string `json:"street"`
	Address    string `json:"address"`
	AddressAlt string `json:"address_line"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	ZipAlt     string `json:"zip_code"`
	ZipCamel   string `json:"zipCode"`
}

// decodeAddress reads an address object or a "line, city, ST zip" string.
func decodeAddress(raw json.RawMessage) models.Address {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return models.Address{}
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return models.Address{}
		}
		return parseAddressLine(s)
	}
	var w wireAddress
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Address{}
	}
	return models.Address{
		Line:  first(w.Line, w.Street, w.Address, w.AddressAlt),
		City:  strings.TrimSpace(w.City),
		State: strings.TrimSpace(w.State),
		Zip:   first(w.Zip, w.ZipAlt, w.ZipCamel),
	}
}

func parseAddressLine(s string) models.Address {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 0:
		return models.Address{}
	case 1:
		return models.Address{Line: parts[0]}
	case 2:
		return models.Address{Line: parts[0], City: parts[1]}
	}
	addr := models.Address{
		Line: strings.Join(parts[:len(parts)-2], ", "),
		City: parts[len(parts)-2],
	}
	tail := strings.Fields(parts[len(parts)-1])
	if len(tail) > 0 {
		addr.State = tail[0]
	}
	if len(tail) > 1 {
		addr.Zip = tail[1]
	}
	return addr
}
