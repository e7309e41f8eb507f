// Package gate concentra o estado de sessão/perfil do processo em um único
// dono. Todo mundo lê snapshots imutáveis; só o Gate escreve.
//
// A resolução de perfil disparada por mudança de sessão NUNCA roda dentro do
// callback de subscription: o handler apenas enfileira uma tarefa e um
// consumidor dedicado executa a busca. Isso elimina a reentrância no provider.
//
// Decisões de autorização falham fechado (erro na sessão inicial vira
// Unauthenticated; perfil sem confirmação nunca ganha acesso elevado).
package gate

import (
	"context"
	"errors"
	"sync"
	"time"

	"agenda-backend/internal/models"
)

var (
	ErrInvalidCredentials  = errors.New("credenciais inválidas")
	ErrProviderUnavailable = errors.New("provedor de identidade indisponível")
)

type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticatedUser
	StateAuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticatedUser:
		return "authenticated_user"
	case StateAuthenticatedAdmin:
		return "authenticated_admin"
	}
	return "unknown"
}

type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToForbidden
	ShowLoading
)

// Session é a credencial emitida pelo provedor de identidade.
type Session struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Profile é o registro de autorização 1:1 com o subject da sessão.
type Profile struct {
	ID    string
	Email string
	Nome  *string
	Role  models.UserRole
}

type SessionProvider interface {
	// CurrentSession devolve a sessão atual ou nil se não houver.
	CurrentSession(ctx context.Context) (*Session, error)
	// Subscribe registra o único observador de mudanças de sessão e
	// devolve a função de cancelamento.
	Subscribe(fn func(*Session)) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, senha string) (*Session, error)
	SignOut(ctx context.Context) error
}

type ProfileStore interface {
	ProfileByID(ctx context.Context, id string) (*Profile, error)
}

// DefaultLoadingTimeout limita quanto tempo o estado Loading pode durar.
// Garante que a UI nunca fica pendurada se o provedor não responder.
const DefaultLoadingTimeout = 5 * time.Second

type Gate struct {
	provider SessionProvider
	profiles ProfileStore
	timeout  time.Duration

	mu      sync.Mutex
	state   State
	session *Session
	profile *Profile
	closed  bool

	tasks chan string // ids de usuário com perfil pendente
	done  chan struct{}
	unsub func()
	timer *time.Timer
	wg    sync.WaitGroup
}

type Option func(*Gate)

func WithLoadingTimeout(d time.Duration) Option {
	return func(g *Gate) { g.timeout = d }
}

func New(provider SessionProvider, profiles ProfileStore, opts ...Option) *Gate {
	g := &Gate{
		provider: provider,
		profiles: profiles,
		timeout:  DefaultLoadingTimeout,
		state:    StateLoading,
		tasks:    make(chan string, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start liga o consumidor de tarefas, a subscription, a checagem de sessão
// inicial e o timer de segurança do Loading. A subscription e a checagem
// inicial são fontes independentes e podem resolver em qualquer ordem; as
// duas convergem para o mesmo estado final.
func (g *Gate) Start(ctx context.Context) {
	g.wg.Add(1)
	go g.consumeTasks(ctx)

	g.unsub = g.provider.Subscribe(func(s *Session) {
		g.applySession(s)
	})

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		s, err := g.provider.CurrentSession(ctx)
		if err != nil {
			// Erro na checagem inicial conta como "sem sessão" apenas
			// enquanto nada mais resolveu. Uma sessão que o evento de
			// subscription já entregou não pode ser derrubada por uma
			// checagem atrasada que falhou; as duas fontes precisam
			// terminar no mesmo estado em qualquer ordem de chegada.
			g.mu.Lock()
			if !g.closed && g.state == StateLoading {
				g.state = StateUnauthenticated
			}
			g.mu.Unlock()
			return
		}
		g.applySession(s)
	}()

	g.timer = time.AfterFunc(g.timeout, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if !g.closed && g.state == StateLoading {
			g.state = StateUnauthenticated
		}
	})
}

// Close é o guard de teardown: depois dele nenhuma mutação de estado é
// aplicada, mesmo que buscas em andamento resolvam.
func (g *Gate) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	if g.unsub != nil {
		g.unsub()
	}
	if g.timer != nil {
		g.timer.Stop()
	}
	close(g.done)
	g.wg.Wait()
}

func (g *Gate) consumeTasks(ctx context.Context) {
	defer g.wg.Done()
	for {
		select {
		case <-g.done:
			return
		case userID := <-g.tasks:
			p, err := g.profiles.ProfileByID(ctx, userID)
			if err != nil {
				p = nil
			}
			g.applyProfile(userID, p)
		}
	}
}

// applySession é o único ponto de escrita de sessão. Com sessão presente o
// estado vai para AuthenticatedUser até o perfil confirmar a role; sem
// sessão, tudo é limpo.
func (g *Gate) applySession(s *Session) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}

	if s == nil {
		g.session = nil
		g.profile = nil
		g.state = StateUnauthenticated
		g.mu.Unlock()
		return
	}

	sameUser := g.session != nil && g.session.UserID == s.UserID
	g.session = s
	if sameUser && g.profile != nil {
		// Perfil já resolvido para este subject; mantém a role
		g.mu.Unlock()
		return
	}
	g.profile = nil
	g.state = StateAuthenticatedUser
	userID := s.UserID
	g.mu.Unlock()

	// Enfileira fora do lock; o consumidor faz a busca
	select {
	case g.tasks <- userID:
	case <-g.done:
	}
}

func (g *Gate) applyProfile(userID string, p *Profile) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	// Resultado obsoleto: a sessão mudou desde que a tarefa foi enfileirada
	if g.session == nil || g.session.UserID != userID {
		return
	}
	if p == nil {
		// Falha na busca do perfil: permanece no menor privilégio
		return
	}
	g.profile = p
	if p.Role == models.RoleAdmin {
		g.state = StateAuthenticatedAdmin
	} else {
		g.state = StateAuthenticatedUser
	}
}

type Snapshot struct {
	State   State
	Session *Session
	Profile *Profile
}

func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap := Snapshot{State: g.state}
	if g.session != nil {
		s := *g.session
		snap.Session = &s
	}
	if g.profile != nil {
		p := *g.profile
		snap.Profile = &p
	}
	return snap
}

// ResolveAccess decide se uma view pode renderizar. requiredRole vazio
// significa "qualquer usuário autenticado".
func (g *Gate) ResolveAccess(requiredRole models.UserRole) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateLoading:
		return ShowLoading
	case StateUnauthenticated:
		return RedirectToLogin
	}
	if requiredRole == models.RoleAdmin && g.state != StateAuthenticatedAdmin {
		return RedirectToForbidden
	}
	return Allow
}

// Resolve é a mesma tabela de decisão do ResolveAccess, em forma pura, para
// quem já tem sessão e role resolvidas (ex.: middleware HTTP por requisição,
// onde não existe estado Loading).
func Resolve(hasSession bool, role models.UserRole, requiredRole models.UserRole) Decision {
	if !hasSession {
		return RedirectToLogin
	}
	if requiredRole == models.RoleAdmin && role != models.RoleAdmin {
		return RedirectToForbidden
	}
	return Allow
}

func (g *Gate) SignIn(ctx context.Context, email, senha string) error {
	s, err := g.provider.SignInWithPassword(ctx, email, senha)
	if err != nil {
		return err
	}
	g.applySession(s)
	return nil
}

// SignOut limpa o estado local antes da chamada ao provider, de propósito:
// mesmo que o provider falhe, a UI nunca mostra sessão velha depois de um
// logout pedido pelo usuário. Chamar duas vezes é inofensivo.
func (g *Gate) SignOut(ctx context.Context) error {
	g.applySession(nil)
	return g.provider.SignOut(ctx)
}
