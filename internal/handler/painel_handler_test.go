package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/loja-tech/internal/database"
	"github.com/ericoliveiras/loja-tech/internal/model"
)

func setupPainelRouter(t *testing.T, store *sessions.CookieStore) http.Handler {
	router := novoRouterTeste(t)
	authHandler := &AuthHandler{Store: store}
	painelHandler := &PainelHandler{Store: store}

	painel := router.Group("/painel")
	painel.Use(authHandler.AuthRequired(), authHandler.RoleRequired(model.RoleLojista))
	{
		painel.GET("", painelHandler.ShowPainelPage)
		painel.GET("/produtos", painelHandler.ShowProdutosPage)
		painel.POST("/produtos/criar", painelHandler.ProcessCriarProdutoForm)
		painel.POST("/produtos/editar/:id", painelHandler.ProcessEditarProdutoForm)
		painel.POST("/produtos/deletar/:id", painelHandler.DeletarProduto)
		painel.GET("/categorias", painelHandler.ShowCategoriasPage)
		painel.POST("/categorias/criar", painelHandler.ProcessCriarCategoriaForm)
		painel.POST("/categorias/deletar/:id", painelHandler.DeletarCategoria)
		painel.GET("/vendas", painelHandler.ShowVendasPage)
	}
	return router
}

func TestPainelStaffGate(t *testing.T) {
	setupTestDB(t)
	store := novoStoreTeste()
	router := setupPainelRouter(t, store)

	t.Run("Visitante Vai para o Login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/painel", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusFound, recorder.Code)
		require.Equal(t, "/login", recorder.Header().Get("Location"))
	})

	t.Run("Cliente Recebe Acesso Negado", func(t *testing.T) {
		cliente := criarUsuarioTeste(t, "cliente.gate", "senha123", model.RoleCliente)
		cookie := cookieDeSessao(t, store, map[interface{}]interface{}{"userID": cliente.ID})

		req := httptest.NewRequest(http.MethodGet, "/painel", nil)
		req.AddCookie(cookie)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("Lojista Entra", func(t *testing.T) {
		lojista := criarUsuarioTeste(t, "lojista.gate", "senha123", model.RoleLojista)
		cookie := cookieDeSessao(t, store, map[interface{}]interface{}{"userID": lojista.ID})

		req := httptest.NewRequest(http.MethodGet, "/painel", nil)
		req.AddCookie(cookie)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestPainelProdutosCRUD(t *testing.T) {
	setupTestDB(t)
	store := novoStoreTeste()
	router := setupPainelRouter(t, store)

	lojista := criarUsuarioTeste(t, "lojista.crud", "senha123", model.RoleLojista)
	cookie := cookieDeSessao(t, store, map[interface{}]interface{}{"userID": lojista.ID})
	categoria := criarCategoriaTeste(t, "Armazenamento")

	t.Run("Criar", func(t *testing.T) {
		form := url.Values{
			"nome":           {"SSD 1TB"},
			"descricao":      {"SSD NVMe"},
			"preco":          {"450.00"},
			"estoque":        {"12"},
			"categoria":      {fmt.Sprint(categoria.ID)},
			"especificacoes": {"Leitura 3500MB/s"},
		}
		recorder := postForm(router, "/painel/produtos/criar", form, cookie)

		require.Equal(t, http.StatusFound, recorder.Code)
		require.Equal(t, "/painel/produtos", recorder.Header().Get("Location"))

		var produto model.Produto
		require.NoError(t, database.DB.Where("nome = ?", "SSD 1TB").First(&produto).Error)
		require.Equal(t, 12, produto.Estoque)
		require.True(t, produto.Preco.Equal(decimal.RequireFromString("450.00")))
		require.True(t, produto.Ativo)
	})

	t.Run("Criar com Preço Inválido", func(t *testing.T) {
		form := url.Values{
			"nome":      {"Produto Quebrado"},
			"preco":     {"abc"},
			"estoque":   {"1"},
			"categoria": {fmt.Sprint(categoria.ID)},
		}
		recorder := postForm(router, "/painel/produtos/criar", form, cookie)
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Editar", func(t *testing.T) {
		produto := criarProdutoTeste(t, categoria.ID, "HD 2TB", "300.00", 7)

		form := url.Values{
			"nome":      {"HD 2TB Recondicionado"},
			"preco":     {"250.00"},
			"estoque":   {"4"},
			"categoria": {fmt.Sprint(categoria.ID)},
		}
		recorder := postForm(router, fmt.Sprintf("/painel/produtos/editar/%d", produto.ID), form, cookie)

		require.Equal(t, http.StatusFound, recorder.Code)

		var atualizado model.Produto
		require.NoError(t, database.DB.First(&atualizado, produto.ID).Error)
		require.Equal(t, "HD 2TB Recondicionado", atualizado.Nome)
		require.Equal(t, 4, atualizado.Estoque)
		require.True(t, atualizado.Preco.Equal(decimal.RequireFromString("250.00")))
	})

	t.Run("Deletar", func(t *testing.T) {
		produto := criarProdutoTeste(t, categoria.ID, "Pen Drive", "40.00", 30)

		recorder := postForm(router, fmt.Sprintf("/painel/produtos/deletar/%d", produto.ID), url.Values{}, cookie)
		require.Equal(t, http.StatusFound, recorder.Code)

		var count int64
		database.DB.Model(&model.Produto{}).Where("id = ?", produto.ID).Count(&count)
		require.Zero(t, count)
	})
}

func TestDeletarCategoriaCascata(t *testing.T) {
	setupTestDB(t)
	store := novoStoreTeste()
	router := setupPainelRouter(t, store)

	lojista := criarUsuarioTeste(t, "lojista.cascata", "senha123", model.RoleLojista)
	cookie := cookieDeSessao(t, store, map[interface{}]interface{}{"userID": lojista.ID})

	categoria := criarCategoriaTeste(t, "Descontinuados")
	criarProdutoTeste(t, categoria.ID, "Produto Velho 1", "10.00", 1)
	criarProdutoTeste(t, categoria.ID, "Produto Velho 2", "20.00", 1)

	recorder := postForm(router, fmt.Sprintf("/painel/categorias/deletar/%d", categoria.ID), url.Values{}, cookie)
	require.Equal(t, http.StatusFound, recorder.Code)
	require.Equal(t, "/painel/categorias", recorder.Header().Get("Location"))

	var categorias, produtos int64
	database.DB.Model(&model.Categoria{}).Where("id = ?", categoria.ID).Count(&categorias)
	database.DB.Model(&model.Produto{}).Where("categoria_id = ?", categoria.ID).Count(&produtos)
	require.Zero(t, categorias)
	require.Zero(t, produtos, "excluir a categoria deve apagar os produtos dela")
}

func TestShowVendasPage(t *testing.T) {
	setupTestDB(t)
	store := novoStoreTeste()
	router := setupPainelRouter(t, store)

	lojista := criarUsuarioTeste(t, "lojista.vendas", "senha123", model.RoleLojista)
	cookie := cookieDeSessao(t, store, map[interface{}]interface{}{"userID": lojista.ID})

	comprador := criarUsuarioTeste(t, "comprador.vendas", "senha123", model.RoleCliente)
	cliente := model.Cliente{UsuarioID: comprador.ID, CPF: "999.888.777-66"}
	require.NoError(t, database.DB.Create(&cliente).Error)

	categoria := criarCategoriaTeste(t, "Redes")
	produto := criarProdutoTeste(t, categoria.ID, "Roteador", "220.00", 9)

	pedido := model.Pedido{
		ClienteID:  cliente.ID,
		Status:     model.StatusConfirmado,
		ValorTotal: decimal.RequireFromString("220.00"),
	}
	require.NoError(t, database.DB.Create(&pedido).Error)
	item := model.ItemPedido{
		PedidoID:      pedido.ID,
		ProdutoID:     produto.ID,
		Quantidade:    1,
		PrecoUnitario: decimal.RequireFromString("220.00"),
	}
	require.NoError(t, database.DB.Create(&item).Error)

	req := httptest.NewRequest(http.MethodGet, "/painel/vendas", nil)
	req.AddCookie(cookie)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Roteador")
}
