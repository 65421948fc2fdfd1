package telegram

import (
	"time"

	"github.com/gotd/td/tg"

	"github.com/royak47/autofor/internal/domain"
)

// convertMessage turns a platform message into the domain variant.
// Service messages and messages without a known peer are skipped.
func convertMessage(raw tg.MessageClass) (domain.Message, bool) {
	msg, ok := raw.(*tg.Message)
	if !ok {
		return domain.Message{}, false
	}

	chatID, ok := markedID(msg.PeerID)
	if !ok {
		return domain.Message{}, false
	}

	out := domain.Message{
		ChatID:    chatID,
		MessageID: msg.ID,
		Text:      msg.Message,
		Date:      time.Unix(int64(msg.Date), 0),
	}

	if media, ok := msg.GetMedia(); ok {
		out.Media = extractAttachment(media)
	}

	return out, true
}

// extractAttachment keeps photos and videos as re-sendable input media
func extractAttachment(media tg.MessageMediaClass) *domain.Attachment {
	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		p, ok := m.GetPhoto()
		if !ok {
			return nil
		}
		photo, ok := p.(*tg.Photo)
		if !ok {
			return nil
		}
		return &domain.Attachment{
			Kind: domain.MediaPhoto,
			Ref:  &tg.InputMediaPhoto{ID: photo.AsInput()},
		}

	case *tg.MessageMediaDocument:
		d, ok := m.GetDocument()
		if !ok {
			return nil
		}
		doc, ok := d.(*tg.Document)
		if !ok {
			return nil
		}
		for _, attr := range doc.Attributes {
			if _, isVideo := attr.(*tg.DocumentAttributeVideo); isVideo {
				return &domain.Attachment{
					Kind: domain.MediaVideo,
					Ref:  &tg.InputMediaDocument{ID: doc.AsInput()},
				}
			}
		}
	}

	return nil
}
