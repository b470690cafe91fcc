package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/auth"
	"github.com/altilhabela/portal/internal/candidatura"
	"github.com/altilhabela/portal/internal/config"
	"github.com/altilhabela/portal/internal/imovel"
	"github.com/altilhabela/portal/internal/lifecycle"
	"github.com/altilhabela/portal/internal/noticia"
	"github.com/altilhabela/portal/internal/notify"
	"github.com/altilhabela/portal/internal/parceiro"
	"github.com/altilhabela/portal/internal/service"
	"github.com/altilhabela/portal/internal/storage"
	"github.com/altilhabela/portal/internal/usuario"
)

type fakeImovelRepo struct {
	imoveis map[string]*imovel.Imovel
}

func (f *fakeImovelRepo) Create(_ context.Context, i imovel.Imovel) (*imovel.Imovel, error) {
	i.StatusAprovacao = imovel.StatusPendente
	i.Ativo = true
	f.imoveis[i.ID] = &i
	copia := i
	return &copia, nil
}

func (f *fakeImovelRepo) GetByID(_ context.Context, id string, somenteAtivo bool) (*imovel.Imovel, error) {
	i, ok := f.imoveis[id]
	if !ok || (somenteAtivo && !i.Ativo) {
		return nil, imovel.ErrNotFound
	}
	copia := *i
	return &copia, nil
}

func (f *fakeImovelRepo) ListAprovados(context.Context, imovel.Filtro) ([]imovel.Imovel, error) {
	var out []imovel.Imovel
	for _, i := range f.imoveis {
		if i.Ativo && i.StatusAprovacao == imovel.StatusAprovado {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeImovelRepo) ListDestaques(context.Context, int) ([]imovel.Imovel, error) {
	return nil, nil
}

func (f *fakeImovelRepo) ListDoProprietario(_ context.Context, proprietarioID string) ([]imovel.Imovel, error) {
	var out []imovel.Imovel
	for _, i := range f.imoveis {
		if i.ProprietarioID == proprietarioID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeImovelRepo) ListAll(context.Context) ([]imovel.Imovel, error) { return nil, nil }

func (f *fakeImovelRepo) Update(_ context.Context, id, proprietarioID string, _ imovel.Patch) error {
	i, ok := f.imoveis[id]
	if !ok || i.ProprietarioID != proprietarioID {
		return imovel.ErrNotFound
	}
	return nil
}

func (f *fakeImovelRepo) SoftDelete(_ context.Context, id, proprietarioID string) error {
	i, ok := f.imoveis[id]
	if !ok || i.ProprietarioID != proprietarioID {
		return imovel.ErrNotFound
	}
	i.Ativo = false
	return nil
}

func (f *fakeImovelRepo) SetDestaque(_ context.Context, id string, destaque bool) error {
	i, ok := f.imoveis[id]
	if !ok {
		return imovel.ErrNotFound
	}
	i.Destaque = destaque
	return nil
}

func (f *fakeImovelRepo) CountByStatus(_ context.Context, status *imovel.StatusAprovacao) (int64, error) {
	var n int64
	for _, i := range f.imoveis {
		if status == nil || i.StatusAprovacao == *status {
			n++
		}
	}
	return n, nil
}

func (f *fakeImovelRepo) RegistrarVisualizacao(_ context.Context, id string) error {
	i, ok := f.imoveis[id]
	if !ok {
		return imovel.ErrNotFound
	}
	i.Visualizacoes++
	return nil
}

func (f *fakeImovelRepo) RegistrarClique(_ context.Context, id string) error {
	i, ok := f.imoveis[id]
	if !ok {
		return imovel.ErrNotFound
	}
	i.CliquesLink++
	return nil
}

type fakeParceiroRepo struct{}

func (fakeParceiroRepo) Create(_ context.Context, p parceiro.PerfilParceiro) (*parceiro.PerfilParceiro, error) {
	return &p, nil
}
func (fakeParceiroRepo) GetByID(context.Context, string) (*parceiro.PerfilParceiro, error) {
	return nil, parceiro.ErrNotFound
}
func (fakeParceiroRepo) GetByUser(context.Context, string) (*parceiro.PerfilParceiro, error) {
	return nil, parceiro.ErrNotFound
}
func (fakeParceiroRepo) ListAtivos(context.Context, *string) ([]parceiro.PerfilParceiro, error) {
	return nil, nil
}
func (fakeParceiroRepo) ListAll(context.Context) ([]parceiro.PerfilParceiro, error) {
	return nil, nil
}
func (fakeParceiroRepo) Update(context.Context, string, string, parceiro.Patch) error {
	return parceiro.ErrNotFound
}
func (fakeParceiroRepo) SetDestaque(context.Context, string, bool) error { return nil }
func (fakeParceiroRepo) CountAtivos(context.Context) (int64, error)      { return 0, nil }

type fakeNoticiaRepo struct{}

func (fakeNoticiaRepo) Create(_ context.Context, n noticia.Noticia) (*noticia.Noticia, error) {
	return &n, nil
}
func (fakeNoticiaRepo) GetByID(context.Context, string, bool) (*noticia.Noticia, error) {
	return nil, noticia.ErrNotFound
}
func (fakeNoticiaRepo) ListPublicadas(context.Context, *string) ([]noticia.Noticia, error) {
	return nil, nil
}
func (fakeNoticiaRepo) ListAll(context.Context) ([]noticia.Noticia, error) { return nil, nil }
func (fakeNoticiaRepo) Update(context.Context, string, noticia.Patch) error {
	return noticia.ErrNotFound
}
func (fakeNoticiaRepo) Delete(context.Context, string) error { return noticia.ErrNotFound }

type fakeCandidaturaRepo struct{}

func (fakeCandidaturaRepo) Create(_ context.Context, c candidatura.Candidatura) (*candidatura.Candidatura, error) {
	return &c, nil
}
func (fakeCandidaturaRepo) Get(context.Context, candidatura.Tipo, string) (*candidatura.Candidatura, error) {
	return nil, candidatura.ErrNotFound
}
func (fakeCandidaturaRepo) ListByStatus(context.Context, candidatura.Tipo, *candidatura.Status) ([]candidatura.Candidatura, error) {
	return nil, nil
}
func (fakeCandidaturaRepo) ExistsPendente(context.Context, candidatura.Tipo, string) (bool, error) {
	return false, nil
}
func (fakeCandidaturaRepo) CountPendentes(context.Context, candidatura.Tipo) (int64, error) {
	return 0, nil
}

type fakeUserStore struct {
	porEmail map[string]*usuario.Usuario
	porID    map[string]*usuario.Usuario
	hashes   map[string]string
}

func (f *fakeUserStore) Create(_ context.Context, u usuario.Usuario, senhaHash string) (*usuario.Usuario, error) {
	f.porEmail[u.Email] = &u
	f.porID[u.ID] = &u
	f.hashes[u.ID] = senhaHash
	return &u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*usuario.Usuario, error) {
	u, ok := f.porID[id]
	if !ok {
		return nil, usuario.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*usuario.Usuario, error) {
	u, ok := f.porEmail[email]
	if !ok {
		return nil, usuario.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetSenhaHash(_ context.Context, id string) (string, error) {
	return f.hashes[id], nil
}

func (f *fakeUserStore) UpdateSenha(_ context.Context, id, senhaHash string) error {
	f.hashes[id] = senhaHash
	return nil
}

func (f *fakeUserStore) List(context.Context) ([]usuario.Usuario, error) {
	var out []usuario.Usuario
	for _, u := range f.porID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) ListEmailsAtivos(_ context.Context, role *usuario.Role) ([]string, error) {
	var out []string
	for _, u := range f.porID {
		if u.Ativo && (role == nil || u.Role == *role) {
			out = append(out, u.Email)
		}
	}
	return out, nil
}

func (f *fakeUserStore) CountByRole(_ context.Context, role *usuario.Role) (int64, error) {
	var n int64
	for _, u := range f.porID {
		if role == nil || u.Role == *role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserStore) UpdatePerfil(_ context.Context, id string, patch usuario.PerfilPatch) error {
	u, ok := f.porID[id]
	if !ok {
		return usuario.ErrNotFound
	}
	if patch.Nome != nil {
		u.Nome = *patch.Nome
	}
	if patch.Telefone != nil {
		u.Telefone = patch.Telefone
	}
	return nil
}

type fakeSessions struct {
	tokens map[string]string
}

func (f *fakeSessions) SaveRefresh(_ context.Context, hash, userID string, _ time.Duration) error {
	f.tokens[hash] = userID
	return nil
}

func (f *fakeSessions) ConsumeRefresh(_ context.Context, hash string) (string, error) {
	userID, ok := f.tokens[hash]
	if !ok {
		return "", auth.ErrInvalidRefresh
	}
	delete(f.tokens, hash)
	return userID, nil
}

func (f *fakeSessions) DeleteRefresh(_ context.Context, hash string) error {
	delete(f.tokens, hash)
	return nil
}

// fakeLifecycleStore cobre só o que as rotas exercitadas usam.
type fakeLifecycleStore struct {
	imoveis  *fakeImovelRepo
	usuarios *fakeUserStore
}

func (f *fakeLifecycleStore) GetCandidatura(context.Context, candidatura.Tipo, string) (*candidatura.Candidatura, error) {
	return nil, candidatura.ErrNotFound
}
func (f *fakeLifecycleStore) AprovarCandidatura(context.Context, candidatura.Tipo, string, string, string) (*candidatura.Candidatura, *usuario.Usuario, error) {
	return nil, nil, candidatura.ErrNotFound
}
func (f *fakeLifecycleStore) RecusarCandidatura(context.Context, candidatura.Tipo, string, *string) (*candidatura.Candidatura, error) {
	return nil, candidatura.ErrNotFound
}
func (f *fakeLifecycleStore) GetUsuario(ctx context.Context, id string) (*usuario.Usuario, error) {
	return f.usuarios.GetByID(ctx, id)
}
func (f *fakeLifecycleStore) AtualizarPerfilUsuario(context.Context, string, usuario.PerfilPatch) error {
	return nil
}
func (f *fakeLifecycleStore) DesativarUsuario(context.Context, string) (*lifecycle.CascataResumo, error) {
	return nil, usuario.ErrNotFound
}
func (f *fakeLifecycleStore) ReativarUsuario(context.Context, string) error {
	return usuario.ErrNotFound
}
func (f *fakeLifecycleStore) RemoverUsuario(context.Context, string) (*lifecycle.CascataResumo, error) {
	return nil, usuario.ErrNotFound
}
func (f *fakeLifecycleStore) GetImovel(ctx context.Context, id string) (*imovel.Imovel, error) {
	return f.imoveis.GetByID(ctx, id, false)
}
func (f *fakeLifecycleStore) SetStatusImovel(_ context.Context, id string, status imovel.StatusAprovacao, motivo *string) error {
	i, ok := f.imoveis.imoveis[id]
	if !ok {
		return imovel.ErrNotFound
	}
	i.StatusAprovacao = status
	i.MotivoRecusa = motivo
	return nil
}

func TestRouter(t *testing.T) {
	logger := zerolog.Nop()
	notifier := notify.NewDispatcher(notify.NewNoopMailer(logger), logger)
	defer notifier.Wait()

	membro := &usuario.Usuario{ID: "membro-1", Email: "membro@example.com", Nome: "Membro", Role: usuario.RoleMembro, Ativo: true}
	admin := &usuario.Usuario{ID: "admin-1", Email: "admin@example.com", Nome: "Admin", Role: usuario.RoleAdmin, Ativo: true}

	senhaHash, err := auth.Hash("senha-forte-123")
	if err != nil {
		t.Fatal(err)
	}

	users := &fakeUserStore{
		porEmail: map[string]*usuario.Usuario{membro.Email: membro, admin.Email: admin},
		porID:    map[string]*usuario.Usuario{membro.ID: membro, admin.ID: admin},
		hashes:   map[string]string{membro.ID: senhaHash, admin.ID: senhaHash},
	}

	imoveisRepo := &fakeImovelRepo{imoveis: map[string]*imovel.Imovel{
		"casa-1": {
			ID:              "casa-1",
			ProprietarioID:  membro.ID,
			Titulo:          "Casa do Curral",
			StatusAprovacao: imovel.StatusPendente,
			Ativo:           true,
		},
	}}

	jwtManager := auth.NewJWTManager("segredo-de-teste-com-32-caracteres!", time.Minute)
	authService := service.NewAuthService(users, &fakeSessions{tokens: map[string]string{}}, jwtManager, notifier, time.Hour, "https://portal.test", logger)
	engine := lifecycle.NewService(&fakeLifecycleStore{imoveis: imoveisRepo, usuarios: users}, notifier, "https://portal.test", logger)

	handler := NewRouter(Deps{
		Cfg: &config.Config{
			AllowOrigins:    []string{"https://portal.test"},
			RateLimitPublic: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
			RateLimitAuth:   config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		},
		AuthService:  authService,
		Usuarios:     users,
		Candidaturas: candidatura.NewService(fakeCandidaturaRepo{}, users, logger),
		Imoveis:      imovel.NewService(imoveisRepo, logger),
		Parceiros:    parceiro.NewService(fakeParceiroRepo{}, logger),
		Noticias:     noticia.NewService(fakeNoticiaRepo{}, logger),
		Engine:       engine,
		Notifier:     notifier,
		Storage:      storage.NoopStore{},
		JWT:          jwtManager,
	})

	membroToken, _, err := jwtManager.GenerateAccessToken(membro.ID, []string{"membro"})
	if err != nil {
		t.Fatal(err)
	}
	adminToken, _, err := jwtManager.GenerateAccessToken(admin.ID, []string{"admin"})
	if err != nil {
		t.Fatal(err)
	}
	associadoToken, _, err := jwtManager.GenerateAccessToken("associado-1", []string{"associado"})
	if err != nil {
		t.Fatal(err)
	}

	novoImovel := map[string]any{
		"titulo":            "Casa na praia",
		"descricao":         "Vista para o mar",
		"tipo":              "casa",
		"regiao":            "norte",
		"endereco_completo": "Av. Beira Mar, 100",
		"preco_diaria":      350.0,
		"capacidade":        4,
	}
	novaCandidatura := map[string]any{
		"nome":        "Maria Souza",
		"email":       "nova@example.com",
		"telefone":    "11999999999",
		"endereco":    "Rua das Flores, 10",
		"num_imoveis": 2,
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		token  string
		status int
	}{
		{"health", http.MethodGet, "/health", nil, "", http.StatusOK},
		{"vitrine", http.MethodGet, "/imoveis", nil, "", http.StatusOK},
		{"imovel publico", http.MethodGet, "/imoveis/casa-1", nil, "", http.StatusOK},
		{"imovel inexistente", http.MethodGet, "/imoveis/nao-existe", nil, "", http.StatusNotFound},
		{"clique", http.MethodPost, "/imoveis/casa-1/clique", nil, "", http.StatusOK},
		{"parceiros", http.MethodGet, "/parceiros", nil, "", http.StatusOK},
		{"noticias", http.MethodGet, "/noticias", nil, "", http.StatusOK},
		{"candidatura membro", http.MethodPost, "/candidaturas/membro", novaCandidatura, "", http.StatusCreated},
		{"candidatura tipo invalido", http.MethodPost, "/candidaturas/banana", novaCandidatura, "", http.StatusBadRequest},
		{"login", http.MethodPost, "/auth/login", map[string]string{"email": membro.Email, "password": "senha-forte-123"}, "", http.StatusOK},
		{"login senha errada", http.MethodPost, "/auth/login", map[string]string{"email": membro.Email, "password": "errada"}, "", http.StatusUnauthorized},
		{"me sem token", http.MethodGet, "/auth/me", nil, "", http.StatusUnauthorized},
		{"me", http.MethodGet, "/auth/me", nil, membroToken, http.StatusOK},
		{"criar imovel sem token", http.MethodPost, "/imoveis", novoImovel, "", http.StatusUnauthorized},
		{"criar imovel sem papel", http.MethodPost, "/imoveis", novoImovel, associadoToken, http.StatusForbidden},
		{"criar imovel", http.MethodPost, "/imoveis", novoImovel, membroToken, http.StatusCreated},
		{"meus imoveis", http.MethodGet, "/meus-imoveis", nil, membroToken, http.StatusOK},
		{"proprietario do imovel", http.MethodGet, "/imoveis/casa-1/proprietario", nil, membroToken, http.StatusOK},
		{"perfil publico", http.MethodGet, "/usuarios/membro-1/perfil-publico", nil, "", http.StatusOK},
		{"admin sem papel", http.MethodPut, "/admin/imoveis/casa-1/aprovar", nil, membroToken, http.StatusForbidden},
		{"admin aprova imovel", http.MethodPut, "/admin/imoveis/casa-1/aprovar", nil, adminToken, http.StatusOK},
		{"dashboard", http.MethodGet, "/admin/dashboard", nil, adminToken, http.StatusOK},
		{"admin lista usuarios", http.MethodGet, "/admin/usuarios", nil, adminToken, http.StatusOK},
		{"remover imovel", http.MethodDelete, "/imoveis/casa-1", nil, membroToken, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, requestBody(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("%s %s: esperado %d, recebido %d (%s)", tc.method, tc.path, tc.status, rec.Code, rec.Body.String())
			}
		})
	}

	if got := imoveisRepo.imoveis["casa-1"].StatusAprovacao; got != imovel.StatusAprovado {
		t.Fatalf("esperado casa-1 aprovada, status %q", got)
	}
	if imoveisRepo.imoveis["casa-1"].Ativo {
		t.Fatal("esperado casa-1 desativada após remoção")
	}
	// só a página de detalhe conta; a rota do proprietário não move o contador
	if got := imoveisRepo.imoveis["casa-1"].Visualizacoes; got != 1 {
		t.Fatalf("visualizacoes = %d, esperado 1 (apenas a rota de detalhe)", got)
	}

	// a home conta apenas membros, não o total de contas
	req := httptest.NewRequest(http.MethodGet, "/pagina-principal", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("pagina-principal: status %d (%s)", rec.Code, rec.Body.String())
	}
	var home struct {
		Data struct {
			Estatisticas struct {
				TotalMembros int64 `json:"total_membros"`
			} `json:"estatisticas"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&home); err != nil {
		t.Fatalf("decodificar pagina-principal: %v", err)
	}
	if home.Data.Estatisticas.TotalMembros != 1 {
		t.Fatalf("total_membros = %d, esperado 1 (só o papel membro)", home.Data.Estatisticas.TotalMembros)
	}
}

func requestBody(body any) *bytes.Buffer {
	if body == nil {
		return bytes.NewBuffer(nil)
	}
	b, _ := json.Marshal(body)
	return bytes.NewBuffer(b)
}
