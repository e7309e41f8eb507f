package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"agenda-backend/internal/database"
	"agenda-backend/internal/gate"
	"agenda-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordProvider implementa gate.SessionProvider em cima da tabela de
// usuários: login por email/senha, sessão JWT de 24h. Mudanças de sessão
// são entregues a um único observador (o Gate).
type PasswordProvider struct {
	secret string

	mu         sync.Mutex
	current    *gate.Session
	subscriber func(*gate.Session)
}

func NewPasswordProvider(secret string) *PasswordProvider {
	return &PasswordProvider{secret: secret}
}

func (p *PasswordProvider) CurrentSession(ctx context.Context) (*gate.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, nil
	}
	if time.Now().After(p.current.ExpiresAt) {
		p.current = nil
		return nil, nil
	}
	s := *p.current
	return &s, nil
}

func (p *PasswordProvider) Subscribe(fn func(*gate.Session)) func() {
	p.mu.Lock()
	p.subscriber = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		p.subscriber = nil
		p.mu.Unlock()
	}
}

func (p *PasswordProvider) notify(s *gate.Session) {
	p.mu.Lock()
	fn := p.subscriber
	p.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (p *PasswordProvider) SignInWithPassword(ctx context.Context, email, senha string) (*gate.Session, error) {
	var user models.User
	err := database.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gate.ErrInvalidCredentials
		}
		return nil, gate.ErrProviderUnavailable
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(senha)); err != nil {
		return nil, gate.ErrInvalidCredentials
	}

	token, expiresAt, err := GenerateToken(p.secret, &user)
	if err != nil {
		return nil, gate.ErrProviderUnavailable
	}

	session := &gate.Session{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}

	p.mu.Lock()
	p.current = session
	p.mu.Unlock()
	p.notify(session)

	s := *session
	return &s, nil
}

func (p *PasswordProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	p.notify(nil)
	return nil
}

// GormProfileStore implementa gate.ProfileStore na tabela de usuários.
type GormProfileStore struct{}

func (GormProfileStore) ProfileByID(ctx context.Context, id string) (*gate.Profile, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &gate.Profile{
		ID:    user.ID,
		Email: user.Email,
		Nome:  user.Nome,
		Role:  user.Role,
	}, nil
}
