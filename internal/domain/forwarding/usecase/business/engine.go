package business

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/royak47/autofor/internal/domain"
	ruleentities "github.com/royak47/autofor/internal/domain/rule/entities"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
)

// compiledRule is a rule prepared for matching. pattern is nil when the
// rule has no rewrite.
type compiledRule struct {
	ruleentities.Rule
	keyword string
	pattern *regexp.Regexp
}

// compileRules prepares rules in list order. A rewrite pattern that is not
// a valid regular expression is matched literally.
func compileRules(rules []ruleentities.Rule, logger zerolog.Logger) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		c := compiledRule{Rule: r, keyword: strings.ToLower(r.Keyword)}

		if r.HasRewrite() {
			pattern, err := regexp.Compile(r.EditText)
			if err != nil {
				logger.Debug().
					Err(err).
					Uint("rule_id", r.ID).
					Msg("rewrite pattern is not a valid regexp, matching literally")
				pattern = regexp.MustCompile(regexp.QuoteMeta(r.EditText))
			}
			c.pattern = pattern
		}

		compiled = append(compiled, c)
	}
	return compiled
}

// shouldForward applies the rule's filter and keyword to msg
func (c *compiledRule) shouldForward(msg domain.Message) bool {
	var ok bool
	switch c.FilterType {
	case ruleentities.FilterText:
		ok = msg.HasText()
	case ruleentities.FilterMedia:
		ok = msg.HasMedia()
	case ruleentities.FilterLinks:
		ok = strings.Contains(msg.Text, "http")
	default:
		ok = true
	}

	if ok && c.keyword != "" {
		ok = msg.HasText() && strings.Contains(strings.ToLower(msg.Text), c.keyword)
	}
	return ok
}

// render builds the outgoing message, replacing every match in the text
// with the literal replacement text
func (c *compiledRule) render(msg domain.Message) domain.OutgoingMessage {
	out := domain.OutgoingMessage{Text: msg.Text}
	if c.pattern != nil && out.Text != "" {
		out.Text = c.pattern.ReplaceAllLiteralString(out.Text, c.ReplaceText)
	}
	if msg.HasMedia() {
		out.Media = msg.Media
	}
	return out
}

// Engine evaluates one account's rule snapshot against its inbound messages
type Engine struct {
	accountID   string
	rules       []compiledRule
	sender      domain.Connection
	publisher   domain.ForwardEventPublisher
	sendTimeout time.Duration
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewEngine compiles rules and binds them to the connection that sends the copies
func NewEngine(
	accountID string,
	rules []ruleentities.Rule,
	sender domain.Connection,
	publisher domain.ForwardEventPublisher,
	sendTimeout time.Duration,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Engine {
	logger = logger.With().Str("component", "forwarding_engine").Str("account_id", accountID).Logger()

	return &Engine{
		accountID:   accountID,
		rules:       compileRules(rules, logger),
		sender:      sender,
		publisher:   publisher,
		sendTimeout: sendTimeout,
		metrics:     m,
		logger:      logger,
	}
}

// RuleCount returns the number of rules in the snapshot
func (e *Engine) RuleCount() int {
	return len(e.rules)
}

// Handle dispatches msg to the target of every matching rule and returns
// how many copies were sent. A failed dispatch does not stop the others.
func (e *Engine) Handle(ctx context.Context, msg domain.Message) int {
	e.metrics.RecordMessageReceived()

	if !msg.HasText() && !msg.HasMedia() {
		return 0
	}

	sent := 0
	for i := range e.rules {
		rule := &e.rules[i]
		if msg.ChatID != rule.SourceChat || !rule.shouldForward(msg) {
			continue
		}

		out := rule.render(msg)
		if out.Text == "" && out.Media == nil {
			e.logger.Debug().Uint("rule_id", rule.ID).Msg("rewrite left nothing to send, skipping")
			continue
		}

		if e.dispatch(ctx, rule, msg, out) {
			sent++
		}
	}
	return sent
}

func (e *Engine) dispatch(ctx context.Context, rule *compiledRule, msg domain.Message, out domain.OutgoingMessage) bool {
	sendCtx := ctx
	if e.sendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, e.sendTimeout)
		defer cancel()
	}

	start := time.Now()
	err := e.sender.Send(sendCtx, rule.TargetChat, out)
	duration := time.Since(start).Seconds()

	event := domain.ForwardEvent{
		AccountID:  e.accountID,
		RuleID:     rule.ID,
		SourceChat: rule.SourceChat,
		TargetChat: rule.TargetChat,
		MessageID:  msg.MessageID,
		Status:     domain.ForwardStatusForwarded,
		At:         time.Now(),
	}

	if err != nil {
		event.Status = domain.ForwardStatusFailed
		event.Error = err.Error()
		e.metrics.RecordForward(string(domain.ForwardStatusFailed), duration)
		e.logger.Error().
			Err(err).
			Uint("rule_id", rule.ID).
			Str("source_chat", rule.SourceChat).
			Str("target_chat", rule.TargetChat).
			Int("message_id", msg.MessageID).
			Msg("failed to forward message")
	} else {
		e.metrics.RecordForward(string(domain.ForwardStatusForwarded), duration)
		e.logger.Debug().
			Uint("rule_id", rule.ID).
			Str("target_chat", rule.TargetChat).
			Int("message_id", msg.MessageID).
			Msg("message forwarded")
	}

	if e.publisher != nil {
		if perr := e.publisher.PublishForwardEvent(ctx, event); perr != nil {
			e.logger.Debug().Err(perr).Msg("failed to publish forward event")
		}
	}

	return err == nil
}
