// Package memory provides a map-backed UserDirectory for tests, examples,
// and single-process deployments that do not need durable accounts.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/authcore-go/authcore"
)

// Directory is an in-memory, concurrency-safe authcore.UserDirectory.
// Email uniqueness is enforced case-insensitively under the write lock, so
// concurrent double-registration resolves to exactly one winner.
type Directory struct {
	mu      sync.RWMutex
	byID    map[string]authcore.Principal
	byEmail map[string]string // lowercased email -> id
}

// New returns an empty directory.
func New() *Directory {
	return &Directory{
		byID:    make(map[string]authcore.Principal),
		byEmail: make(map[string]string),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) GetByEmail(_ context.Context, email string) (authcore.Principal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[emailKey(email)]
	if !ok {
		return authcore.Principal{}, authcore.ErrPrincipalNotFound
	}
	return d.byID[id], nil
}

func (d *Directory) GetByID(_ context.Context, id string) (authcore.Principal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.byID[id]
	if !ok {
		return authcore.Principal{}, authcore.ErrPrincipalNotFound
	}
	return p, nil
}

func (d *Directory) Add(_ context.Context, principal authcore.Principal) (authcore.Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := emailKey(principal.Email)
	if _, ok := d.byEmail[key]; ok {
		return authcore.Principal{}, authcore.ErrDuplicateEmail
	}
	if _, ok := d.byID[principal.ID]; ok {
		return authcore.Principal{}, authcore.ErrDuplicateEmail
	}

	d.byID[principal.ID] = principal
	d.byEmail[key] = principal.ID
	return principal, nil
}

func (d *Directory) Update(_ context.Context, principal authcore.Principal) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.byID[principal.ID]
	if !ok {
		return authcore.ErrPrincipalNotFound
	}

	newKey := emailKey(principal.Email)
	oldKey := emailKey(existing.Email)
	if newKey != oldKey {
		if _, taken := d.byEmail[newKey]; taken {
			return authcore.ErrDuplicateEmail
		}
		delete(d.byEmail, oldKey)
		d.byEmail[newKey] = principal.ID
	}

	d.byID[principal.ID] = principal
	return nil
}

func (d *Directory) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.byID[id]
	if !ok {
		return authcore.ErrPrincipalNotFound
	}
	delete(d.byID, id)
	delete(d.byEmail, emailKey(p.Email))
	return nil
}
