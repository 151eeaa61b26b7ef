package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	chatID int64
	texts  []string
	err    error
}

func (f *fakeSender) SendHTML(ctx context.Context, chatID int64, text string) error {
	f.chatID = chatID
	f.texts = append(f.texts, text)
	return f.err
}

func TestFormatPublishedEscapes(t *testing.T) {
	msg := FormatPublished("S&P <500> rallies", "content/posts/money/a.md", "gemini-2.5-flash")
	assert.Contains(t, msg, "S&amp;P &lt;500&gt; rallies")
	assert.Contains(t, msg, "<code>content/posts/money/a.md</code>")
	assert.Contains(t, msg, "model: gemini-2.5-flash")
}

func TestFormatFailure(t *testing.T) {
	msg := FormatFailure("publish", errors.New("status 422 <bad>"))
	assert.Contains(t, msg, "at publish")
	assert.Contains(t, msg, "status 422 &lt;bad&gt;")

	assert.Contains(t, FormatFailure("feed", nil), "unknown error")
}

func TestFormatFailureTruncates(t *testing.T) {
	msg := FormatFailure("generate", errors.New(strings.Repeat("x", 10000)))
	assert.Less(t, len([]rune(msg)), 4096)
	assert.True(t, strings.HasSuffix(msg, "…</pre>"))
}

func TestNotifierSends(t *testing.T) {
	s := &fakeSender{}
	n := NewNotifier(s, 42, nil)

	n.Published(context.Background(), "Title", "path.md", "")
	n.Failed(context.Background(), "feed", errors.New("boom"))

	assert.Equal(t, int64(42), s.chatID)
	require.Len(t, s.texts, 2)
	assert.NotContains(t, s.texts[0], "model:")
	assert.Contains(t, s.texts[1], "boom")
}

func TestNotifierNilAndErrorsAreSafe(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() { n.Failed(context.Background(), "x", errors.New("y")) })

	n = NewNotifier(&fakeSender{err: errors.New("down")}, 1, nil)
	assert.NotPanics(t, func() { n.Published(context.Background(), "t", "p", "m") })
}

func TestBotSender(t *testing.T) {
	var sentText, sentMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"analyst_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			assert.NoError(t, r.ParseForm())
			sentText = r.PostForm.Get("text")
			sentMode = r.PostForm.Get("parse_mode")
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s, err := NewBotSenderWithEndpoint("tok", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	require.NoError(t, s.SendHTML(context.Background(), 42, "<b>hi</b>"))
	assert.Equal(t, "<b>hi</b>", sentText)
	assert.Equal(t, "HTML", sentMode)
}

func TestBotSenderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/getMe") {
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot"}}`))
			return
		}
		_, _ = fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	}))
	defer srv.Close()

	s, err := NewBotSenderWithEndpoint("tok", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	err = s.SendHTML(context.Background(), 42, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
