package dto

import "github.com/royak47/autofor/internal/domain/rule/entities"

// CreateRuleRequest is the body of POST /api/rules
type CreateRuleRequest struct {
	TelegramID  string `json:"telegramId"`
	SourceChat  string `json:"sourceChat"`
	TargetChat  string `json:"targetChat"`
	FilterType  string `json:"filterType"`
	Keyword     string `json:"keyword,omitempty"`
	EditText    string `json:"editText,omitempty"`
	ReplaceText string `json:"replaceText,omitempty"`
}

// CreateRuleResponse is returned after a rule is stored
type CreateRuleResponse struct {
	Message string         `json:"message"`
	Rule    *entities.Rule `json:"rule"`
}
