package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	netmail "net/mail"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

func testConfig() Config {
	return Config{
		From:      "admin@example.com",
		Subject:   "Activate your account",
		PlainText: "Your mail client does not support HTML",
	}
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 900, "codes should not repeat much over 1000 draws")
}

func TestBuildMessage(t *testing.T) {
	s := NewSender(testConfig(), &MockTransport{}).(*smtpSender)

	msg, err := s.buildMessage("alice@example.com", "123456")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "alice@example.com")
	assert.Contains(t, raw, "admin@example.com")
	assert.Contains(t, raw, "Activate your account")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")

	bodies := readParts(t, buf.Bytes())
	require.Contains(t, bodies, "text/plain")
	require.Contains(t, bodies, "text/html")
	assert.Contains(t, bodies["text/plain"], "Your mail client does not support HTML")
	assert.Contains(t, bodies["text/html"], "123456")
}

// readParts returns the decoded body of every leaf MIME part keyed by media type.
func readParts(t *testing.T, raw []byte) map[string]string {
	t.Helper()
	msg, err := netmail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	bodies := make(map[string]string)
	collectParts(t, msg.Header.Get("Content-Type"), msg.Body, bodies)
	return bodies
}

func collectParts(t *testing.T, contentType string, body io.Reader, bodies map[string]string) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)

	if !strings.HasPrefix(mediaType, "multipart/") {
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		bodies[mediaType] = string(data)
		return
	}

	reader := multipart.NewReader(body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
		collectParts(t, part.Header.Get("Content-Type"), part, bodies)
	}
}

func TestBuildMessage_InvalidRecipient(t *testing.T) {
	s := NewSender(testConfig(), &MockTransport{}).(*smtpSender)

	_, err := s.buildMessage("not an address", "123456")
	assert.Error(t, err)
}

func TestSendConfirmationCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		transportErr  error
		expectedError error
	}{
		{name: "Delivered"},
		{name: "Transport failure", transportErr: errors.New("connection refused"), expectedError: ErrDelivery},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			transport := &MockTransport{}
			transport.On("DialAndSendWithContext", mock.Anything, mock.MatchedBy(func(msgs []*gomail.Msg) bool {
				return len(msgs) == 1
			})).Return(tc.transportErr).Once()

			err := NewSender(testConfig(), transport).SendConfirmationCode(context.Background(), "alice@example.com", "123456")
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Contains(t, err.Error(), "connection refused")
			} else {
				assert.NoError(t, err)
			}
			transport.AssertExpectations(t)
		})
	}
}

func TestNewSMTPClient(t *testing.T) {
	client, err := NewSMTPClient(SMTPConfig{Host: "localhost", Port: 1025, TLS: "none"})
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = NewSMTPClient(SMTPConfig{Host: "localhost", Port: 1025, TLS: "sometimes"})
	assert.Error(t, err)
}
