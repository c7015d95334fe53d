package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func challengeServer(t *testing.T, handler http.HandlerFunc) *ChallengeService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewChallengeService(ChallengeConfig{
		VerifyURL:  srv.URL,
		Secret:     "test-secret",
		HTTPClient: srv.Client(),
	})
}

func TestChallengeVerify_Score(t *testing.T) {
	svc := challengeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "score": 0.8}`))
	})

	score, err := svc.Verify(context.Background(), "tok", "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if score != 0.8 {
		t.Errorf("score = %v, want 0.8", score)
	}
}

func TestChallengeVerify_SendsFormFields(t *testing.T) {
	var gotSecret, gotResponse, gotRemoteIP string
	svc := challengeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotSecret = r.PostFormValue("secret")
		gotResponse = r.PostFormValue("response")
		gotRemoteIP = r.PostFormValue("remoteip")
		w.Write([]byte(`{"success": true, "score": 0.5}`))
	})

	if _, err := svc.Verify(context.Background(), "the-token", "203.0.113.7"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotSecret != "test-secret" {
		t.Errorf("secret = %q, want %q", gotSecret, "test-secret")
	}
	if gotResponse != "the-token" {
		t.Errorf("response = %q, want %q", gotResponse, "the-token")
	}
	if gotRemoteIP != "203.0.113.7" {
		t.Errorf("remoteip = %q, want %q", gotRemoteIP, "203.0.113.7")
	}
}

func TestChallengeVerify_FailureIsZeroNotError(t *testing.T) {
	// The endpoint answering "this token is bad" is a verdict, not an outage.
	svc := challengeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	})

	score, err := svc.Verify(context.Background(), "bad-tok", "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
}

func TestChallengeVerify_SuccessWithoutScoreIsZero(t *testing.T) {
	// v2-style responses carry no score field; success alone does not vouch.
	svc := challengeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true}`))
	})

	score, err := svc.Verify(context.Background(), "tok", "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
}

func TestChallengeVerify_Non200Unavailable(t *testing.T) {
	svc := challengeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := svc.Verify(context.Background(), "tok", "203.0.113.7")
	if !errors.Is(err, ErrChallengeUnavailable) {
		t.Fatalf("err = %v, want ErrChallengeUnavailable", err)
	}
}

func TestChallengeVerify_MalformedResponseUnavailable(t *testing.T) {
	svc := challengeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	})

	_, err := svc.Verify(context.Background(), "tok", "203.0.113.7")
	if !errors.Is(err, ErrChallengeUnavailable) {
		t.Fatalf("err = %v, want ErrChallengeUnavailable", err)
	}
}

func TestChallengeVerify_Unconfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  ChallengeConfig
	}{
		{"no url", ChallengeConfig{Secret: "s"}},
		{"no secret", ChallengeConfig{VerifyURL: "https://challenge.example.com/verify"}},
		{"empty", ChallengeConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewChallengeService(tt.cfg)
			_, err := svc.Verify(context.Background(), "tok", "203.0.113.7")
			if !errors.Is(err, ErrChallengeUnavailable) {
				t.Fatalf("err = %v, want ErrChallengeUnavailable", err)
			}
		})
	}
}

func TestChallengeVerify_ClampsScore(t *testing.T) {
	svc := challengeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "score": 3.5}`))
	})

	score, err := svc.Verify(context.Background(), "tok", "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if score != 1 {
		t.Errorf("score = %v, want clamped to 1", score)
	}
}
