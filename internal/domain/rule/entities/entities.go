package entities

import "time"

// FilterType selects which messages of the source chat a rule forwards
type FilterType string

const (
	FilterAll   FilterType = "all"
	FilterText  FilterType = "text"
	FilterMedia FilterType = "media"
	FilterLinks FilterType = "links"
)

// ParseFilterType validates raw. An empty value means FilterAll.
func ParseFilterType(raw string) (FilterType, bool) {
	switch FilterType(raw) {
	case "":
		return FilterAll, true
	case FilterAll, FilterText, FilterMedia, FilterLinks:
		return FilterType(raw), true
	default:
		return "", false
	}
}

// Rule copies messages from a source chat to a target chat of the same account
type Rule struct {
	ID           uint       `json:"id"`
	TelegramID   string     `json:"telegramId"`
	SourceChat   string     `json:"sourceChat"`
	TargetChat   string     `json:"targetChat"`
	FilterType   FilterType `json:"filterType"`
	Keyword      string     `json:"keyword"`
	EditText     string     `json:"editText"`
	ReplaceText  string     `json:"replaceText"`
	IsForwarding bool       `json:"isForwarding"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// HasRewrite reports whether both sides of the rewrite pair are set
func (r Rule) HasRewrite() bool {
	return r.EditText != "" && r.ReplaceText != ""
}
