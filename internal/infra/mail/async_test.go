package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncNotifierSendsInBackground(t *testing.T) {
	d := &fakeDialer{}
	s := NewEmailSender("smtp.example.com", 587, "", "", "web@example.com", "sales@example.com", "")
	s.dialer = d

	logger, hook := test.NewNullLogger()
	n := NewAsyncNotifier(s, logger)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, n.NotifyLeadCreated(ctx, testLead()))
	cancel()
	n.Wait()

	assert.Len(t, d.sent, 1)
	assert.Equal(t, "lead notification sent", hook.LastEntry().Message)
}

func TestAsyncNotifierLogsFailure(t *testing.T) {
	d := &fakeDialer{err: errors.New("smtp down")}
	s := NewEmailSender("smtp.example.com", 587, "", "", "web@example.com", "sales@example.com", "")
	s.dialer = d

	logger, hook := test.NewNullLogger()
	n := NewAsyncNotifier(s, logger)

	assert.NoError(t, n.NotifyLeadCreated(context.Background(), testLead()))
	n.Wait()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
