package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "await failed carries both handles",
			err:  AwaitFailed(3, 7),
			want: "[send] await_failed platform=3 response=7: request completed with error",
		},
		{
			name: "bad platform handle omits response",
			err:  BadPlatformHandle(999),
			want: "[dispatch] bad_platform_handle platform=999: no platform registered for handle",
		},
		{
			name: "not found omits handles",
			err:  NotFound(PhaseLoad, "export", "allocate"),
			want: `[load] not_found: export "allocate" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_CauseChain(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := Invocation(0, 0, inner)

	if !strings.Contains(err.Error(), "caused by: connection refused") {
		t.Fatalf("Error() = %q, missing cause", err.Error())
	}
	if !stderrors.Is(err, inner) {
		t.Fatal("errors.Is does not reach the cause")
	}
}

func TestError_IsMatchesPhaseAndKind(t *testing.T) {
	err := AwaitFailed(1, 2)

	if !stderrors.Is(err, &Error{Phase: PhaseSend, Kind: KindAwaitFailed}) {
		t.Fatal("Is should match on phase and kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseDispatch, Kind: KindAwaitFailed}) {
		t.Fatal("Is should not match a different phase")
	}
	if stderrors.Is(err, BadPlatformHandle(1)) {
		t.Fatal("Is should not match a different kind")
	}
}

func TestBuilder(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := New(PhaseSend, KindInvocation).
		Platform(4).
		Response(9).
		Cause(inner).
		Detail("attempt %d", 2).
		Build()

	if err.Platform != 4 || err.Response != 9 {
		t.Fatalf("handles = %d/%d, want 4/9", err.Platform, err.Response)
	}
	if err.Detail != "attempt 2" {
		t.Fatalf("Detail = %q", err.Detail)
	}
	if stderrors.Unwrap(err) != inner {
		t.Fatal("Unwrap did not return the cause")
	}
}
