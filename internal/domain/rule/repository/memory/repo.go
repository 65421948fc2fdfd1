package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	accountentities "github.com/royak47/autofor/internal/domain/account/entities"
	"github.com/royak47/autofor/internal/domain/rule/deps"
	"github.com/royak47/autofor/internal/domain/rule/entities"
)

// Repository implements deps.RuleRepository using in-memory storage
type Repository struct {
	mu     sync.RWMutex
	nextID uint
	rules  []entities.Rule
}

// NewRepository creates a new in-memory rule repository
func NewRepository() *Repository {
	return &Repository{}
}

// Create stores a rule and assigns its id
func (r *Repository) Create(ctx context.Context, rule *entities.Rule) error {
	if _, ok := accountentities.ParseTelegramID(rule.TelegramID); !ok {
		return fmt.Errorf("invalid telegram id %q", rule.TelegramID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now()
	rule.ID = r.nextID
	rule.CreatedAt = now
	rule.UpdatedAt = now
	r.rules = append(r.rules, *rule)
	return nil
}

// ListByAccount returns all rules of an account in creation order
func (r *Repository) ListByAccount(ctx context.Context, telegramID int64) ([]entities.Rule, error) {
	return r.filter(telegramID, false), nil
}

// ListEnabledByAccount returns the account's rules with forwarding on
func (r *Repository) ListEnabledByAccount(ctx context.Context, telegramID int64) ([]entities.Rule, error) {
	return r.filter(telegramID, true), nil
}

// SetForwarding toggles the forwarding flag on all rules of an account
func (r *Repository) SetForwarding(ctx context.Context, telegramID int64, enabled bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner := accountentities.FormatTelegramID(telegramID)
	var changed int64
	for i := range r.rules {
		if r.rules[i].TelegramID == owner {
			r.rules[i].IsForwarding = enabled
			r.rules[i].UpdatedAt = time.Now()
			changed++
		}
	}
	return changed, nil
}

func (r *Repository) filter(telegramID int64, enabledOnly bool) []entities.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner := accountentities.FormatTelegramID(telegramID)
	rules := make([]entities.Rule, 0)
	for _, rule := range r.rules {
		if rule.TelegramID != owner || (enabledOnly && !rule.IsForwarding) {
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

var _ deps.RuleRepository = (*Repository)(nil)
