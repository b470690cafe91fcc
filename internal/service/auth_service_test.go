package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/auth"
	"github.com/altilhabela/portal/internal/notify"
	"github.com/altilhabela/portal/internal/usuario"
)

type memUsers struct {
	porID    map[string]*usuario.Usuario
	porEmail map[string]string
	hashes   map[string]string
}

func newMemUsers() *memUsers {
	return &memUsers{
		porID:    map[string]*usuario.Usuario{},
		porEmail: map[string]string{},
		hashes:   map[string]string{},
	}
}

func (m *memUsers) Create(_ context.Context, u usuario.Usuario, senhaHash string) (*usuario.Usuario, error) {
	if _, ok := m.porEmail[u.Email]; ok {
		return nil, usuario.ErrEmailEmUso
	}
	m.porID[u.ID] = &u
	m.porEmail[u.Email] = u.ID
	m.hashes[u.ID] = senhaHash
	return &u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*usuario.Usuario, error) {
	u, ok := m.porID[id]
	if !ok {
		return nil, usuario.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*usuario.Usuario, error) {
	id, ok := m.porEmail[email]
	if !ok {
		return nil, usuario.ErrNotFound
	}
	return m.porID[id], nil
}

func (m *memUsers) GetSenhaHash(_ context.Context, id string) (string, error) {
	h, ok := m.hashes[id]
	if !ok {
		return "", usuario.ErrNotFound
	}
	return h, nil
}

func (m *memUsers) UpdateSenha(_ context.Context, id, senhaHash string) error {
	if _, ok := m.porID[id]; !ok {
		return usuario.ErrNotFound
	}
	m.hashes[id] = senhaHash
	return nil
}

type memSessions struct {
	mu   sync.Mutex
	byID map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]string{}}
}

func (m *memSessions) SaveRefresh(_ context.Context, hash, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[hash] = userID
	return nil
}

func (m *memSessions) ConsumeRefresh(_ context.Context, hash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.byID[hash]
	if !ok {
		return "", auth.ErrInvalidRefresh
	}
	delete(m.byID, hash)
	return userID, nil
}

func (m *memSessions) DeleteRefresh(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, hash)
	return nil
}

type memNotifier struct {
	events []notify.Event
}

func (m *memNotifier) Dispatch(ev notify.Event) {
	m.events = append(m.events, ev)
}

func newAuthFixture(t *testing.T) (*AuthService, *memUsers, *memSessions, *memNotifier) {
	t.Helper()
	users := newMemUsers()
	sessions := newMemSessions()
	notifier := &memNotifier{}
	jwt := auth.NewJWTManager("um-segredo-de-teste-bem-comprido-mesmo", 15*time.Minute)
	svc := NewAuthService(users, sessions, jwt, notifier, time.Hour, "https://portal.test", zerolog.Nop())
	return svc, users, sessions, notifier
}

func seedUser(t *testing.T, users *memUsers, email, senha string, ativo bool) *usuario.Usuario {
	t.Helper()
	hash, err := auth.Hash(senha)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := users.Create(context.Background(), usuario.Usuario{
		ID: "u-" + email, Email: email, Nome: "Teste", Role: usuario.RoleMembro, Ativo: ativo,
	}, hash)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestLoginEmiteTokens(t *testing.T) {
	svc, users, sessions, _ := newAuthFixture(t)
	seedUser(t, users, "m@example.com", "senha-forte", true)

	pair, err := svc.Login(context.Background(), "m@example.com", "senha-forte")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("tokens vazios")
	}
	if pair.TokenType != "bearer" {
		t.Fatalf("token_type = %q", pair.TokenType)
	}
	if pair.Usuario == nil || pair.Usuario.Email != "m@example.com" {
		t.Fatal("usuário ausente na resposta")
	}
	if len(sessions.byID) != 1 {
		t.Fatalf("sessões = %d, esperado 1", len(sessions.byID))
	}
}

func TestLoginCredenciaisErradas(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	seedUser(t, users, "m@example.com", "senha-forte", true)

	if _, err := svc.Login(context.Background(), "m@example.com", "errada"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Fatalf("senha errada: err = %v", err)
	}
	if _, err := svc.Login(context.Background(), "nao@example.com", "qualquer"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Fatalf("email desconhecido: err = %v", err)
	}
}

func TestLoginContaDesativada(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	seedUser(t, users, "off@example.com", "senha-forte", false)

	_, err := svc.Login(context.Background(), "off@example.com", "senha-forte")
	if !errors.Is(err, ErrContaDesativada) {
		t.Fatalf("err = %v, esperado ErrContaDesativada", err)
	}
}

func TestRefreshRotacionaToken(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	seedUser(t, users, "m@example.com", "senha-forte", true)

	pair, err := svc.Login(context.Background(), "m@example.com", "senha-forte")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	novo, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if novo.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh deveria rotacionar o token")
	}

	// o token antigo morreu na rotação
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, auth.ErrInvalidRefresh) {
		t.Fatalf("reuso: err = %v, esperado ErrInvalidRefresh", err)
	}
}

func TestRefreshContaDesativada(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	u := seedUser(t, users, "m@example.com", "senha-forte", true)

	pair, err := svc.Login(context.Background(), "m@example.com", "senha-forte")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	users.porID[u.ID].Ativo = false
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrContaDesativada) {
		t.Fatalf("err = %v, esperado ErrContaDesativada", err)
	}
}

func TestLogoutInvalidaSessao(t *testing.T) {
	svc, users, sessions, _ := newAuthFixture(t)
	seedUser(t, users, "m@example.com", "senha-forte", true)

	pair, err := svc.Login(context.Background(), "m@example.com", "senha-forte")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.byID) != 0 {
		t.Fatal("sessão deveria ser removida")
	}
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, auth.ErrInvalidRefresh) {
		t.Fatalf("err = %v, esperado ErrInvalidRefresh", err)
	}
}

func TestAlterarSenha(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	u := seedUser(t, users, "m@example.com", "senha-antiga", true)

	err := svc.AlterarSenha(context.Background(), u.ID, "errada", "senha-nova-ok")
	if !errors.Is(err, ErrSenhaAtualIncorreta) {
		t.Fatalf("err = %v, esperado ErrSenhaAtualIncorreta", err)
	}

	if err := svc.AlterarSenha(context.Background(), u.ID, "senha-antiga", "curta"); err == nil {
		t.Fatal("senha curta deveria ser recusada")
	}

	if err := svc.AlterarSenha(context.Background(), u.ID, "senha-antiga", "senha-nova-ok"); err != nil {
		t.Fatalf("alterar: %v", err)
	}

	if _, err := svc.Login(context.Background(), "m@example.com", "senha-antiga"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Fatal("senha antiga não deveria mais funcionar")
	}
	if _, err := svc.Login(context.Background(), "m@example.com", "senha-nova-ok"); err != nil {
		t.Fatalf("senha nova deveria funcionar: %v", err)
	}
}

func TestRecuperarSenhaNaoVazaCadastro(t *testing.T) {
	svc, users, _, notifier := newAuthFixture(t)
	seedUser(t, users, "m@example.com", "senha-forte", true)

	if err := svc.RecuperarSenha(context.Background(), "desconhecido@example.com"); err != nil {
		t.Fatalf("email desconhecido não é erro: %v", err)
	}
	if len(notifier.events) != 0 {
		t.Fatal("sem cadastro, sem e-mail")
	}

	if err := svc.RecuperarSenha(context.Background(), "m@example.com"); err != nil {
		t.Fatalf("recuperar: %v", err)
	}
	if len(notifier.events) != 1 || notifier.events[0].Tipo != notify.EventoSenhaRecuperada {
		t.Fatalf("evento de recuperação ausente: %+v", notifier.events)
	}

	// a senha antiga foi substituída pela temporária
	if _, err := svc.Login(context.Background(), "m@example.com", "senha-forte"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Fatal("senha antiga deveria parar de valer")
	}
}

func TestRegistrarValidaEDuplica(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)

	u, err := svc.Registrar(context.Background(), "Admin", "adm@example.com", "senha-forte", usuario.RoleAdmin)
	if err != nil {
		t.Fatalf("registrar: %v", err)
	}
	if u.Role != usuario.RoleAdmin || !u.Ativo {
		t.Fatalf("usuário mal construído: %+v", u)
	}
	if users.hashes[u.ID] == "" {
		t.Fatal("hash não persistido")
	}

	if _, err := svc.Registrar(context.Background(), "Outro", "adm@example.com", "senha-forte", usuario.RoleAdmin); !errors.Is(err, usuario.ErrEmailEmUso) {
		t.Fatalf("err = %v, esperado ErrEmailEmUso", err)
	}
	if _, err := svc.Registrar(context.Background(), "X", "invalido", "senha-forte", usuario.RoleAdmin); err == nil {
		t.Fatal("email inválido deveria falhar")
	}
}
