package telegram

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gotd/td/tg"
)

// channelIDOffset is the prefix applied to channel ids in their marked form
const channelIDOffset = 1_000_000_000_000

func userMarkedID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func chatMarkedID(id int64) string {
	return strconv.FormatInt(-id, 10)
}

func channelMarkedID(id int64) string {
	return strconv.FormatInt(-(channelIDOffset + id), 10)
}

// markedID converts a peer into the chat identifier users see in clients and bots
func markedID(peer tg.PeerClass) (string, bool) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return userMarkedID(p.UserID), true
	case *tg.PeerChat:
		return chatMarkedID(p.ChatID), true
	case *tg.PeerChannel:
		return channelMarkedID(p.ChannelID), true
	default:
		return "", false
	}
}

// isUsername reports whether chatID names a public username rather than a numeric id
func isUsername(chatID string) bool {
	if strings.HasPrefix(chatID, "@") {
		return true
	}
	_, err := strconv.ParseInt(chatID, 10, 64)
	return err != nil
}

func normalizeUsername(chatID string) string {
	return strings.ToLower(strings.TrimPrefix(chatID, "@"))
}

// peerCache maps chat identifiers to input peers with their access hashes.
// It is filled from update entities, dialogs and username resolution.
type peerCache struct {
	mu         sync.RWMutex
	byID       map[string]tg.InputPeerClass
	byUsername map[string]tg.InputPeerClass
}

func newPeerCache() *peerCache {
	return &peerCache{
		byID:       make(map[string]tg.InputPeerClass),
		byUsername: make(map[string]tg.InputPeerClass),
	}
}

func (p *peerCache) lookup(chatID string) (tg.InputPeerClass, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if isUsername(chatID) {
		peer, ok := p.byUsername[normalizeUsername(chatID)]
		return peer, ok
	}
	peer, ok := p.byID[chatID]
	return peer, ok
}

func (p *peerCache) rememberEntities(e tg.Entities) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, u := range e.Users {
		p.addUser(u)
	}
	for _, c := range e.Chats {
		p.addChat(c)
	}
	for _, c := range e.Channels {
		p.addChannel(c)
	}
}

func (p *peerCache) rememberClasses(users []tg.UserClass, chats []tg.ChatClass) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			p.addUser(user)
		}
	}
	for _, c := range chats {
		switch chat := c.(type) {
		case *tg.Chat:
			p.addChat(chat)
		case *tg.Channel:
			p.addChannel(chat)
		}
	}
}

func (p *peerCache) size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byID)
}

func (p *peerCache) addUser(u *tg.User) {
	if u == nil || u.Min {
		return
	}
	peer := &tg.InputPeerUser{UserID: u.ID, AccessHash: u.AccessHash}
	p.byID[userMarkedID(u.ID)] = peer
	if u.Username != "" {
		p.byUsername[strings.ToLower(u.Username)] = peer
	}
}

func (p *peerCache) addChat(c *tg.Chat) {
	if c == nil {
		return
	}
	p.byID[chatMarkedID(c.ID)] = &tg.InputPeerChat{ChatID: c.ID}
}

func (p *peerCache) addChannel(c *tg.Channel) {
	if c == nil || c.Min {
		return
	}
	peer := &tg.InputPeerChannel{ChannelID: c.ID, AccessHash: c.AccessHash}
	p.byID[channelMarkedID(c.ID)] = peer
	if c.Username != "" {
		p.byUsername[strings.ToLower(c.Username)] = peer
	}
}
