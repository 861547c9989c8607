package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidRepoURL, "repository URL %q has no repo", "https://github.com/tokio-rs")

	if err.Code != ErrCodeInvalidRepoURL {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidRepoURL)
	}
	want := `INVALID_REPO_URL: repository URL "https://github.com/tokio-rs" has no repo`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Unwrap() != nil {
		t.Error("New should carry no cause")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("Could not resolve to a Repository")
	err := Wrap(ErrCodeUpstream, cause, "github query for %s", "owner/gone")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see the cause")
	}
	want := "UPSTREAM: github query for owner/gone: Could not resolve to a Repository"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	inner := New(ErrCodeInvalidRepoURL, "bad url")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeNetwork, false},
		{"outer of two", Wrap(ErrCodeInvalidInput, inner, "entry 3"), ErrCodeInvalidInput, true},
		{"inner of two", Wrap(ErrCodeInvalidInput, inner, "entry 3"), ErrCodeInvalidRepoURL, true},
		{"fmt wrapped", fmt.Errorf("category %q: %w", "science", New(ErrCodeSnapshotInconsistent, "crate 7 missing")), ErrCodeSnapshotInconsistent, true},
		{"fmt between coded errors", Wrap(ErrCodeInternal, fmt.Errorf("ctx: %w", inner), "outer"), ErrCodeInvalidRepoURL, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeMissingCredential, "no token"), ErrCodeMissingCredential},
		{"outermost wins", Wrap(ErrCodeNetwork, New(ErrCodeNotFound, "gone"), "fetch"), ErrCodeNetwork},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(fmt.Errorf("run: %w", New(ErrCodeMissingCredential, "set GITHUB_TOKEN"))); got != "set GITHUB_TOKEN" {
		t.Errorf("UserMessage(coded) = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
