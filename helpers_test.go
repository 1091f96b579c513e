package authcore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// mockDirectory is an in-test UserDirectory with per-method failure
// injection. Email lookups are exact-match: the engine is expected to
// normalize before calling.
type mockDirectory struct {
	mu      sync.Mutex
	byID    map[string]Principal
	byEmail map[string]Principal

	getErr    error
	addErr    error
	updateErr error

	updates int
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		byID:    make(map[string]Principal),
		byEmail: make(map[string]Principal),
	}
}

func (d *mockDirectory) GetByEmail(_ context.Context, email string) (Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.getErr != nil {
		return Principal{}, d.getErr
	}
	p, ok := d.byEmail[email]
	if !ok {
		return Principal{}, ErrPrincipalNotFound
	}
	return p, nil
}

func (d *mockDirectory) GetByID(_ context.Context, id string) (Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.getErr != nil {
		return Principal{}, d.getErr
	}
	p, ok := d.byID[id]
	if !ok {
		return Principal{}, ErrPrincipalNotFound
	}
	return p, nil
}

func (d *mockDirectory) Add(_ context.Context, p Principal) (Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.addErr != nil {
		return Principal{}, d.addErr
	}
	if _, ok := d.byEmail[p.Email]; ok {
		return Principal{}, ErrDuplicateEmail
	}
	d.byID[p.ID] = p
	d.byEmail[p.Email] = p
	return p, nil
}

func (d *mockDirectory) Update(_ context.Context, p Principal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.updateErr != nil {
		return d.updateErr
	}
	if _, ok := d.byID[p.ID]; !ok {
		return ErrPrincipalNotFound
	}
	d.byID[p.ID] = p
	d.byEmail[p.Email] = p
	d.updates++
	return nil
}

func (d *mockDirectory) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.byID[id]
	if !ok {
		return ErrPrincipalNotFound
	}
	delete(d.byID, id)
	delete(d.byEmail, p.Email)
	return nil
}

// mockNotifier records deliveries and can be told to fail.
type mockNotifier struct {
	mu         sync.Mutex
	welcomes   []string
	recoveries map[string]string // email -> last reset reference
	sendErr    error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{recoveries: make(map[string]string)}
}

func (n *mockNotifier) SendWelcome(_ context.Context, email, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return n.sendErr
	}
	n.welcomes = append(n.welcomes, email)
	return nil
}

func (n *mockNotifier) SendRecovery(_ context.Context, email, resetReference string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return n.sendErr
	}
	n.recoveries[email] = resetReference
	return nil
}

func (n *mockNotifier) lastRecovery(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.recoveries[email]
}

func (n *mockNotifier) welcomeCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.welcomes)
}

func testEngineConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("test-secret-at-least-32-bytes-long!!")
	cfg.Token.Issuer = "authcore-test"
	cfg.Token.Audience = "authcore-clients"
	cfg.Password.Iterations = 1000 // keep test hashing cheap
	cfg.Revocation.SweepInterval = 0
	return cfg
}

func newTestEngine(t *testing.T, directory *mockDirectory, notifier *mockNotifier) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(testEngineConfig()).
		WithDirectory(directory).
		WithNotifier(notifier).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func registerTestPrincipal(t *testing.T, engine *Engine, email, password string) Result {
	t.Helper()

	res := engine.Register(context.Background(), RegisterInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  password,
	})
	if !res.OK {
		t.Fatalf("Register failed: kind=%s message=%q", res.Kind, res.Message)
	}
	return res
}

func requireFailure(t *testing.T, res Result, kind Kind) {
	t.Helper()
	if res.OK {
		t.Fatalf("expected failure, got success: %+v", res)
	}
	if res.Kind != kind {
		t.Fatalf("kind = %s, want %s", res.Kind, kind)
	}
	if res.Token != "" {
		t.Fatalf("failure carried a token: %+v", res)
	}
}

func expiredBearer(t *testing.T, engine *Engine, principalID, email string) string {
	t.Helper()

	bearer, err := engine.issuer.IssueScoped(principalID, email, "", time.Nanosecond)
	if err != nil {
		t.Fatalf("IssueScoped: %v", err)
	}
	time.Sleep(time.Millisecond)
	return bearer
}

func tamper(tokenString string) string {
	i := strings.LastIndex(tokenString, ".") + 1
	b := []byte(tokenString)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
