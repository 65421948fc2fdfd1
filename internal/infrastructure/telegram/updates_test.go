package telegram

import (
	"testing"

	"github.com/gotd/td/tg"

	"github.com/royak47/autofor/internal/domain"
)

func TestConvertMessage(t *testing.T) {
	raw := &tg.Message{
		ID:      42,
		PeerID:  &tg.PeerChannel{ChannelID: 1234567890},
		Message: "breaking news http://example.com",
		Date:    1700000000,
	}

	msg, ok := convertMessage(raw)
	if !ok {
		t.Fatal("expected message to convert")
	}
	if msg.ChatID != "-1001234567890" {
		t.Errorf("ChatID = %q", msg.ChatID)
	}
	if msg.MessageID != 42 || msg.Text != raw.Message {
		t.Errorf("unexpected message %+v", msg)
	}
	if msg.Media != nil {
		t.Error("text message must not carry media")
	}
	if msg.Date.Unix() != 1700000000 {
		t.Errorf("Date = %v", msg.Date)
	}
}

func TestConvertMessage_SkipsServiceMessages(t *testing.T) {
	if _, ok := convertMessage(&tg.MessageService{ID: 1}); ok {
		t.Error("service messages must be skipped")
	}
	if _, ok := convertMessage(&tg.MessageEmpty{ID: 1}); ok {
		t.Error("empty messages must be skipped")
	}
}

func TestConvertMessage_Photo(t *testing.T) {
	raw := &tg.Message{
		ID:     7,
		PeerID: &tg.PeerUser{UserID: 99},
	}
	media := &tg.MessageMediaPhoto{}
	media.SetPhoto(&tg.Photo{ID: 1, AccessHash: 2, FileReference: []byte{3}})
	raw.SetMedia(media)

	msg, ok := convertMessage(raw)
	if !ok {
		t.Fatal("expected message to convert")
	}
	if !msg.HasMedia() || msg.Media.Kind != domain.MediaPhoto {
		t.Fatalf("expected photo attachment, got %+v", msg.Media)
	}

	ref, ok := msg.Media.Ref.(*tg.InputMediaPhoto)
	if !ok {
		t.Fatalf("Ref = %T, want *tg.InputMediaPhoto", msg.Media.Ref)
	}
	input, ok := ref.ID.(*tg.InputPhoto)
	if !ok || input.ID != 1 || input.AccessHash != 2 {
		t.Errorf("InputPhoto = %#v", ref.ID)
	}
}

func TestExtractAttachment(t *testing.T) {
	video := &tg.Document{
		ID:         5,
		AccessHash: 6,
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeFilename{FileName: "clip.mp4"},
			&tg.DocumentAttributeVideo{Duration: 3, W: 640, H: 480},
		},
	}
	file := &tg.Document{
		ID:         8,
		Attributes: []tg.DocumentAttributeClass{&tg.DocumentAttributeFilename{FileName: "report.pdf"}},
	}

	withDocument := func(doc *tg.Document) *tg.MessageMediaDocument {
		media := &tg.MessageMediaDocument{}
		media.SetDocument(doc)
		return media
	}

	tests := []struct {
		name     string
		media    tg.MessageMediaClass
		wantKind domain.MediaKind
	}{
		{"video document", withDocument(video), domain.MediaVideo},
		{"plain document", withDocument(file), ""},
		{"empty photo", &tg.MessageMediaPhoto{}, ""},
		{"geo", &tg.MessageMediaGeo{Geo: &tg.GeoPointEmpty{}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractAttachment(tt.media)
			if tt.wantKind == "" {
				if got != nil {
					t.Errorf("expected no attachment, got %+v", got)
				}
				return
			}
			if got == nil || got.Kind != tt.wantKind {
				t.Fatalf("attachment = %+v, want kind %s", got, tt.wantKind)
			}
			if _, ok := got.Ref.(*tg.InputMediaDocument); !ok {
				t.Errorf("Ref = %T, want *tg.InputMediaDocument", got.Ref)
			}
		})
	}
}
