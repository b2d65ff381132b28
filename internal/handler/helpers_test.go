package handler

import (
	"net/http"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ericoliveiras/loja-tech/internal/carrinho"
	"github.com/ericoliveiras/loja-tech/internal/database"
	"github.com/ericoliveiras/loja-tech/internal/model"
)

// setupTestDB troca o banco global por um sqlite em memória com o schema da
// aplicação. Uma única conexão mantém o banco vivo durante o teste.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_fk=1"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	original := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = original
		sqlDB.Close()
	})
	return db
}

// getProjectRootTest encontra a raiz do projeto a partir deste arquivo.
func getProjectRootTest(t *testing.T) string {
	t.Helper()
	_, currentFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "não foi possível obter informações do chamador")
	return filepath.Join(filepath.Dir(currentFile), "..", "..")
}

// novoRouterTeste monta um gin em modo de teste com os templates carregados.
func novoRouterTeste(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.LoadHTMLGlob(filepath.Join(getProjectRootTest(t), "internal", "view", "templates", "*"))
	return router
}

func novoStoreTeste() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("secret-key-for-test"))
}

// cookieDeSessao codifica valores de sessão num cookie pronto para enviar na
// requisição, do mesmo jeito que o navegador devolveria.
func cookieDeSessao(t *testing.T, store *sessions.CookieStore, values map[interface{}]interface{}) *http.Cookie {
	t.Helper()
	encoded, err := securecookie.EncodeMulti(NomeSessao, values, store.Codecs...)
	require.NoError(t, err)
	return &http.Cookie{Name: NomeSessao, Value: encoded}
}

// decodificarCookieDeSessao lê de volta os valores de sessão gravados pelo
// handler na resposta.
func decodificarCookieDeSessao(t *testing.T, store *sessions.CookieStore, cookies []*http.Cookie) map[interface{}]interface{} {
	t.Helper()
	for _, cookie := range cookies {
		if cookie.Name != NomeSessao {
			continue
		}
		values := make(map[interface{}]interface{})
		err := securecookie.DecodeMulti(NomeSessao, cookie.Value, &values, store.Codecs...)
		require.NoError(t, err)
		return values
	}
	t.Fatalf("cookie de sessão %q não encontrado na resposta", NomeSessao)
	return nil
}

func carrinhoDoCookie(t *testing.T, store *sessions.CookieStore, cookies []*http.Cookie) map[string]carrinho.Item {
	t.Helper()
	values := decodificarCookieDeSessao(t, store, cookies)
	itens, ok := values[carrinho.ChaveSessao].(map[string]carrinho.Item)
	if !ok {
		return map[string]carrinho.Item{}
	}
	return itens
}

func criarCategoriaTeste(t *testing.T, nome string) model.Categoria {
	t.Helper()
	categoria := model.Categoria{Nome: nome, Ativo: true}
	require.NoError(t, database.DB.Create(&categoria).Error)
	return categoria
}

func criarProdutoTeste(t *testing.T, categoriaID uint, nome, preco string, estoque int) model.Produto {
	t.Helper()
	produto := model.Produto{
		Nome:        nome,
		CategoriaID: categoriaID,
		Descricao:   "Descrição de " + nome,
		Preco:       decimal.RequireFromString(preco),
		Estoque:     estoque,
		Ativo:       true,
	}
	require.NoError(t, database.DB.Create(&produto).Error)
	return produto
}

func criarUsuarioTeste(t *testing.T, username, senha, tipo string) model.Usuario {
	t.Helper()
	senhaHash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	require.NoError(t, err)

	usuario := model.Usuario{
		Username:  username,
		Nome:      "Usuário " + username,
		Email:     username + "@example.com",
		SenhaHash: string(senhaHash),
		Tipo:      tipo,
	}
	require.NoError(t, database.DB.Create(&usuario).Error)
	return usuario
}
