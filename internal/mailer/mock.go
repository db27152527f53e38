package mailer

import (
	"context"
	"sync"
)

// MockMailer records sent messages for tests. It can be told to fail
// so delivery-failure paths can be exercised.
type MockMailer struct {
	mu       sync.Mutex
	Messages []MockMessage
	Err      error
}

type MockMessage struct {
	To      string
	Subject string
	Body    string
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, MockMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Last returns the most recently sent message.
func (m *MockMailer) Last() (MockMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return MockMessage{}, false
	}
	return m.Messages[len(m.Messages)-1], true
}
