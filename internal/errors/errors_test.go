package errors

import (
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "resource not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(fmt.Errorf("loading config: %w", ErrInvalidConfig), ExitUser),
			want: "loading config: invalid configuration",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
		{
			name: "success code with error",
			err:  NewExitError(New("unexpected"), ExitSuccess),
			want: "unexpected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	tests := []struct {
		name       string
		err        *ExitError
		wantTarget error
		wantIs     bool
	}{
		{
			name:       "unwrap to sentinel error",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     true,
		},
		{
			name:       "unwrap through wrapped error",
			err:        NewExitError(Wrap(ErrMissingName, "creating checkpoint"), ExitUser),
			wantTarget: ErrMissingName,
			wantIs:     true,
		},
		{
			name:       "no match for different sentinel",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrInvalidConfig,
			wantIs:     false,
		},
		{
			name:       "nil underlying error",
			err:        NewExitError(nil, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.wantTarget); got != tt.wantIs {
				t.Errorf("Is() = %v, want %v", got, tt.wantIs)
			}
		})
	}
}

func TestExitError_As(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantAs   bool
	}{
		{
			name:     "direct ExitError",
			err:      NewExitError(ErrNotFound, ExitUser),
			wantCode: ExitUser,
			wantAs:   true,
		},
		{
			name:     "wrapped ExitError",
			err:      Wrap(NewExitError(ErrInvalidConfig, ExitUser), "command failed"),
			wantCode: ExitUser,
			wantAs:   true,
		},
		{
			name:     "ExitSystem code",
			err:      NewExitError(ErrCancelled, ExitSystem),
			wantCode: ExitSystem,
			wantAs:   true,
		},
		{
			name:     "non-ExitError",
			err:      ErrNotFound,
			wantCode: 0,
			wantAs:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitErr *ExitError
			gotAs := As(tt.err, &exitErr)
			if gotAs != tt.wantAs {
				t.Errorf("As() = %v, want %v", gotAs, tt.wantAs)
			}
			if gotAs && exitErr.Code != tt.wantCode {
				t.Errorf("ExitError.Code = %d, want %d", exitErr.Code, tt.wantCode)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", New("boom"), ExitSystem},
		{"user error", NewUserError(ErrInvalidConfig, ""), ExitUser},
		{"wrapped system error", Wrap(NewSystemError(New("disk"), ""), "ctx"), ExitSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMark(t *testing.T) {
	residue := New("directory still present")
	marked := Mark(residue, ErrNotFound)

	if !Is(marked, ErrNotFound) {
		t.Error("marked error should match ErrNotFound")
	}
	if !Is(marked, residue) {
		t.Error("marked error should still match its own identity")
	}
}

func TestConstructors(t *testing.T) {
	t.Run("NewUserError", func(t *testing.T) {
		e := NewUserError(New("user error"), "check input")
		if e.Code != ExitUser {
			t.Errorf("Code = %d, want %d", e.Code, ExitUser)
		}
		if e.Suggestion != "check input" {
			t.Errorf("Suggestion = %q, want 'check input'", e.Suggestion)
		}
	})

	t.Run("NewSystemError", func(t *testing.T) {
		e := NewSystemError(New("system error"), "check logs")
		if e.Code != ExitSystem {
			t.Errorf("Code = %d, want %d", e.Code, ExitSystem)
		}
	})

	t.Run("NewConfigError", func(t *testing.T) {
		e := NewConfigError(New("config error"))
		if e.Code != ExitUser {
			t.Errorf("Code = %d, want %d", e.Code, ExitUser)
		}
		if e.Suggestion != "Run: checkpoint config show" {
			t.Errorf("Suggestion = %q", e.Suggestion)
		}
	})
}
