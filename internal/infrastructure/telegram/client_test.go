package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"

	"github.com/royak47/autofor/internal/domain"
)

// dialogsInvoker answers every call with dialogs after failing the first fail calls
type dialogsInvoker struct {
	dialogs *tg.MessagesDialogs
	fail    int
	calls   int
}

func (i *dialogsInvoker) Invoke(ctx context.Context, input bin.Encoder, output bin.Decoder) error {
	i.calls++
	if i.calls <= i.fail {
		return context.DeadlineExceeded
	}

	var b bin.Buffer
	if err := i.dialogs.Encode(&b); err != nil {
		return err
	}
	return output.Decode(&b)
}

func newTestConnection() *connection {
	return &connection{
		peers:  newPeerCache(),
		logger: zerolog.Nop(),
	}
}

func groupDialogs(id int64) *tg.MessagesDialogs {
	return &tg.MessagesDialogs{
		Chats: []tg.ChatClass{&tg.Chat{ID: id, Title: "group", Photo: &tg.ChatPhotoEmpty{}}},
	}
}

func TestResolvePeer_RetriesDialogsAfterFailure(t *testing.T) {
	invoker := &dialogsInvoker{dialogs: groupDialogs(4242), fail: 1}
	api := tg.NewClient(invoker)
	c := newTestConnection()
	ctx := context.Background()

	if _, err := c.resolvePeer(ctx, api, "-4242"); !errors.Is(err, domain.ErrPeerNotFound) {
		t.Fatalf("first resolvePeer() error = %v, want ErrPeerNotFound", err)
	}

	peer, err := c.resolvePeer(ctx, api, "-4242")
	if err != nil {
		t.Fatalf("second resolvePeer() error = %v", err)
	}
	if chat, ok := peer.(*tg.InputPeerChat); !ok || chat.ChatID != 4242 {
		t.Errorf("resolvePeer() = %#v, want InputPeerChat 4242", peer)
	}
	if invoker.calls != 2 {
		t.Errorf("dialogs fetched %d times, want 2", invoker.calls)
	}
}

func TestResolvePeer_LoadsDialogsOnce(t *testing.T) {
	invoker := &dialogsInvoker{dialogs: groupDialogs(4242)}
	api := tg.NewClient(invoker)
	c := newTestConnection()
	ctx := context.Background()

	if _, err := c.resolvePeer(ctx, api, "-4242"); err != nil {
		t.Fatalf("resolvePeer() error = %v", err)
	}
	if _, err := c.resolvePeer(ctx, api, "-999"); !errors.Is(err, domain.ErrPeerNotFound) {
		t.Fatalf("resolvePeer() error = %v, want ErrPeerNotFound", err)
	}
	if invoker.calls != 1 {
		t.Errorf("dialogs fetched %d times, want 1", invoker.calls)
	}
}
