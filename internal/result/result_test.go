package result

import "testing"

func TestSuccessCarriesData(t *testing.T) {
	res := Success(42)

	if !res.IsSuccess() || res.IsFailure() {
		t.Fatalf("expected success")
	}
	if res.Data() != 42 {
		t.Fatalf("expected data 42, got %d", res.Data())
	}
	if res.Err() != nil {
		t.Fatalf("expected nil error on success")
	}
}

func TestFailureCarriesTypedError(t *testing.T) {
	res := Failure[string](Transient, "bank down", 503)

	if res.IsSuccess() {
		t.Fatalf("expected failure")
	}
	err := res.Err()
	if err == nil {
		t.Fatalf("expected error details")
	}
	if err.Kind != Transient || err.Message != "bank down" || err.Code != 503 {
		t.Fatalf("unexpected error: %+v", err)
	}
	if res.Data() != "" {
		t.Fatalf("expected zero value data on failure")
	}
}

func TestFailureFromPreservesError(t *testing.T) {
	original := Error{Kind: Unexpected, Message: "boom", Code: 400}
	res := FailureFrom[int](original)

	if *res.Err() != original {
		t.Fatalf("expected error passed through unchanged, got %+v", res.Err())
	}
}

func TestErrorKindStrings(t *testing.T) {
	cases := map[ErrorKind]string{
		Validation: "validation",
		Conflict:   "conflict",
		NotFound:   "not_found",
		Transient:  "transient",
		Unexpected: "unexpected",
	}
	for kind, want := range cases {
		if kind.String() != want {
			t.Fatalf("kind %d: expected %q, got %q", int(kind), want, kind.String())
		}
	}
}
