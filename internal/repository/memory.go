package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdocs/certintake/internal/common"
	"github.com/fleetdocs/certintake/internal/entity"
)

// MemoryCertificateRepository is an in-memory CertificateRepository for
// tests and single-process use.
type MemoryCertificateRepository struct {
	mu    sync.RWMutex
	certs map[uuid.UUID]entity.Certificate
}

func NewMemoryCertificateRepository() *MemoryCertificateRepository {
	return &MemoryCertificateRepository{certs: make(map[uuid.UUID]entity.Certificate)}
}

func (r *MemoryCertificateRepository) Create(_ context.Context, cert *entity.Certificate) (*entity.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cert.ID == uuid.Nil {
		cert.ID = uuid.New()
	}
	now := time.Now().UTC()
	cert.CreatedAt = now
	cert.UpdatedAt = now
	r.certs[cert.ID] = *cert
	return cert, nil
}

func (r *MemoryCertificateRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.certs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (r *MemoryCertificateRepository) ListByShip(_ context.Context, shipID uuid.UUID) ([]*entity.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Certificate
	for _, c := range r.certs {
		if c.ShipID == shipID {
			cc := c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *MemoryCertificateRepository) SetFileID(_ context.Context, id uuid.UUID, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.certs[id]
	if !ok {
		return common.ErrNotFound
	}
	c.FileID = &fileID
	c.UpdatedAt = time.Now().UTC()
	r.certs[id] = c
	return nil
}

func (r *MemoryCertificateRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.certs[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.certs, id)
	return nil
}

// MemoryUserRepository is an in-memory UserRepository for tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]entity.User)}
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.Username] = *user
	return user, nil
}
