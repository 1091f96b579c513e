package authcore

import (
	"context"
	"errors"
	"testing"
)

func TestAuthenticateSuccess(t *testing.T) {
	directory := newMockDirectory()
	engine := newTestEngine(t, directory, newMockNotifier())

	reg := registerTestPrincipal(t, engine, "jane@example.com", "s3cret-passphrase")

	res := engine.Authenticate(context.Background(), "Jane@Example.com", "s3cret-passphrase")
	if !res.OK {
		t.Fatalf("Authenticate failed: %+v", res)
	}
	if res.PrincipalID != reg.PrincipalID {
		t.Fatalf("principal id = %q, want %q", res.PrincipalID, reg.PrincipalID)
	}
	if res.Token == "" || res.Token == reg.Token {
		t.Fatal("expected a fresh token distinct from the registration token")
	}

	stored, err := directory.GetByID(context.Background(), reg.PrincipalID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.LastAuthenticatedAt.IsZero() {
		t.Fatal("LastAuthenticatedAt not recorded")
	}
}

// Unknown email and wrong password must be indistinguishable from the
// caller's side: same kind, same message, no principal id, no token.
func TestAuthenticateFailuresAreUniform(t *testing.T) {
	engine := newTestEngine(t, newMockDirectory(), newMockNotifier())
	registerTestPrincipal(t, engine, "jane@example.com", "s3cret-passphrase")

	unknown := engine.Authenticate(context.Background(), "nobody@example.com", "whatever-pass")
	wrongPassword := engine.Authenticate(context.Background(), "jane@example.com", "not-the-password")

	requireFailure(t, unknown, KindInvalidCredentials)
	requireFailure(t, wrongPassword, KindInvalidCredentials)
	if unknown != wrongPassword {
		t.Fatalf("results differ:\n unknown email: %+v\nwrong password: %+v", unknown, wrongPassword)
	}
	if unknown.PrincipalID != "" {
		t.Fatalf("failure leaked principal id: %+v", unknown)
	}
}

func TestAuthenticateInvalidInput(t *testing.T) {
	engine := newTestEngine(t, newMockDirectory(), newMockNotifier())

	requireFailure(t, engine.Authenticate(context.Background(), "", "pass"), KindInvalidInput)
	requireFailure(t, engine.Authenticate(context.Background(), "jane@example.com", ""), KindInvalidInput)
}

func TestAuthenticateDirectoryDown(t *testing.T) {
	directory := newMockDirectory()
	engine := newTestEngine(t, directory, newMockNotifier())

	directory.getErr = errors.New("connection refused")
	requireFailure(t, engine.Authenticate(context.Background(), "jane@example.com", "pass"), KindDependency)
}

// A failed last-authenticated bookkeeping write must not fail the login.
func TestAuthenticateSucceedsWhenUpdateFails(t *testing.T) {
	directory := newMockDirectory()
	engine := newTestEngine(t, directory, newMockNotifier())
	registerTestPrincipal(t, engine, "jane@example.com", "s3cret-passphrase")

	directory.updateErr = errors.New("write timeout")

	res := engine.Authenticate(context.Background(), "jane@example.com", "s3cret-passphrase")
	if !res.OK {
		t.Fatalf("Authenticate failed on bookkeeping error: %+v", res)
	}
}

// A corrupt stored credential reads as a wrong password, not as a
// distinguishable server error.
func TestAuthenticateMalformedStoredCredential(t *testing.T) {
	directory := newMockDirectory()
	engine := newTestEngine(t, directory, newMockNotifier())
	reg := registerTestPrincipal(t, engine, "jane@example.com", "s3cret-passphrase")

	directory.mu.Lock()
	p := directory.byID[reg.PrincipalID]
	p.Credential = "not-a-credential"
	directory.byID[p.ID] = p
	directory.byEmail[p.Email] = p
	directory.mu.Unlock()

	res := engine.Authenticate(context.Background(), "jane@example.com", "s3cret-passphrase")
	requireFailure(t, res, KindInvalidCredentials)
	if res.Message != invalidCredentialsMessage {
		t.Fatalf("message = %q, want the uniform credentials message", res.Message)
	}
}
