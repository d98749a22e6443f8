package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merabestie/sellerhub/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabled(t *testing.T) {
	assert.Nil(t, New(config.SmsConfig{}))
	assert.Nil(t, New(config.SmsConfig{Enabled: true, AccountSid: "AC1"}))
	assert.NotNil(t, New(config.SmsConfig{Enabled: true, AccountSid: "AC1", AuthToken: "t", From: "+100"}))
}

func TestTwilioSend(t *testing.T) {
	var gotPath, gotTo, gotBody, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		_ = r.ParseForm()
		gotTo = r.PostForm.Get("To")
		gotBody = r.PostForm.Get("Body")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(config.SmsConfig{BaseURL: srv.URL + "/", AccountSid: "AC1", AuthToken: "tok", From: "+15550000"})
	require.NoError(t, s.Send(context.Background(), "+919999999999", "Your OTP is 123456"))

	assert.Equal(t, "/Accounts/AC1/Messages.json", gotPath)
	assert.Equal(t, "AC1", gotUser)
	assert.Equal(t, "+919999999999", gotTo)
	assert.Equal(t, "Your OTP is 123456", gotBody)
}

func TestTwilioSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(config.SmsConfig{BaseURL: srv.URL, AccountSid: "AC1", AuthToken: "tok", From: "+15550000"})
	err := s.Send(context.Background(), "bogus", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "Invalid 'To' Phone Number")
}
