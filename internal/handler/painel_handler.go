package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ericoliveiras/loja-tech/internal/database"
	"github.com/ericoliveiras/loja-tech/internal/model"
)

// PainelHandler agrupa as telas do painel do lojista: CRUD de produtos e
// categorias e a listagem de vendas. Todas as rotas ficam atrás de
// AuthRequired + RoleRequired(lojista).
type PainelHandler struct {
	Store *sessions.CookieStore
}

// ShowPainelPage renderiza o painel principal do lojista.
func (h *PainelHandler) ShowPainelPage(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	c.HTML(http.StatusOK, "painel.html", gin.H{
		"IsLoggedIn": true,
		"User":       user,
	})
}

// ShowProdutosPage lista todos os produtos, inclusive inativos.
func (h *PainelHandler) ShowProdutosPage(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	var produtos []model.Produto
	if err := database.DB.Preload("Categoria").Order("created_at desc").Find(&produtos).Error; err != nil {
		c.String(http.StatusInternalServerError, "Erro ao buscar produtos.")
		return
	}

	c.HTML(http.StatusOK, "painel_produtos.html", gin.H{
		"IsLoggedIn": true,
		"User":       user,
		"Produtos":   produtos,
	})
}

// ShowCriarProdutoForm exibe o formulário de criação de produto.
func (h *PainelHandler) ShowCriarProdutoForm(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	var categorias []model.Categoria
	database.DB.Order("nome").Find(&categorias)

	c.HTML(http.StatusOK, "painel_produto_criar.html", gin.H{
		"IsLoggedIn": true,
		"User":       user,
		"Categorias": categorias,
	})
}

// ProcessCriarProdutoForm processa o formulário de criação de produto.
func (h *PainelHandler) ProcessCriarProdutoForm(c *gin.Context) {
	preco, err := decimal.NewFromString(c.PostForm("preco"))
	if err != nil {
		c.String(http.StatusBadRequest, "O preço fornecido é inválido.")
		return
	}

	estoque, err := strconv.Atoi(c.PostForm("estoque"))
	if err != nil {
		c.String(http.StatusBadRequest, "O estoque fornecido é inválido.")
		return
	}

	categoriaID, err := strconv.ParseUint(c.PostForm("categoria"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Categoria inválida.")
		return
	}

	produto := model.Produto{
		Nome:           c.PostForm("nome"),
		CategoriaID:    uint(categoriaID),
		Descricao:      c.PostForm("descricao"),
		Preco:          preco,
		Estoque:        estoque,
		Especificacoes: c.PostForm("especificacoes"),
		Destaque:       c.PostForm("destaque") == "true",
		Ativo:          c.PostForm("ativo") != "false",
	}

	if file, err := c.FormFile("imagem"); err == nil {
		caminho, err := salvarImagem(c, file)
		if err != nil {
			c.String(http.StatusInternalServerError, fmt.Sprintf("Erro ao salvar arquivo: %s", err.Error()))
			return
		}
		produto.ImagemURL = caminho
	}

	if err := database.DB.Create(&produto).Error; err != nil {
		log.Error().Err(err).Msg("erro ao criar produto")
		c.String(http.StatusInternalServerError, "Erro ao salvar produto no banco de dados.")
		return
	}

	c.Redirect(http.StatusFound, "/painel/produtos")
}

// ShowEditarProdutoForm busca um produto pelo ID e exibe o formulário de
// edição.
func (h *PainelHandler) ShowEditarProdutoForm(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	produto, ok := buscarProduto(c)
	if !ok {
		return
	}

	var categorias []model.Categoria
	database.DB.Order("nome").Find(&categorias)

	c.HTML(http.StatusOK, "painel_produto_editar.html", gin.H{
		"IsLoggedIn": true,
		"User":       user,
		"Produto":    produto,
		"Categorias": categorias,
	})
}

// ProcessEditarProdutoForm aplica os campos do formulário diretamente sobre o
// produto e persiste.
func (h *PainelHandler) ProcessEditarProdutoForm(c *gin.Context) {
	produto, ok := buscarProduto(c)
	if !ok {
		return
	}

	preco, err := decimal.NewFromString(c.PostForm("preco"))
	if err != nil {
		c.String(http.StatusBadRequest, "O preço fornecido é inválido.")
		return
	}

	produto.Nome = c.PostForm("nome")
	produto.Preco = preco
	produto.Descricao = c.PostForm("descricao")
	produto.Especificacoes = c.PostForm("especificacoes")
	if categoriaID, err := strconv.ParseUint(c.PostForm("categoria"), 10, 32); err == nil {
		produto.CategoriaID = uint(categoriaID)
	}
	if estoque, err := strconv.Atoi(c.PostForm("estoque")); err == nil {
		produto.Estoque = estoque
	}
	produto.Destaque = c.PostForm("destaque") == "true"
	produto.Ativo = c.PostForm("ativo") != "false"

	if file, err := c.FormFile("imagem"); err == nil {
		if caminho, err := salvarImagem(c, file); err == nil {
			produto.ImagemURL = caminho
		}
	}

	if err := database.DB.Save(&produto).Error; err != nil {
		log.Error().Err(err).Uint("produto_id", produto.ID).Msg("erro ao atualizar produto")
		c.String(http.StatusInternalServerError, "Erro ao atualizar o produto.")
		return
	}

	c.Redirect(http.StatusFound, "/painel/produtos")
}

// DeletarProduto remove o produto e o arquivo de imagem associado.
func (h *PainelHandler) DeletarProduto(c *gin.Context) {
	produto, ok := buscarProduto(c)
	if !ok {
		return
	}

	if produto.ImagemURL != "" {
		caminho := produto.ImagemURL
		if caminho[0] == '/' {
			caminho = caminho[1:]
		}
		if err := os.Remove(caminho); err != nil {
			log.Warn().Err(err).Str("arquivo", caminho).Msg("não foi possível remover a imagem do produto")
		}
	}

	if err := database.DB.Delete(&model.Produto{}, produto.ID).Error; err != nil {
		c.String(http.StatusInternalServerError, "Erro ao excluir o produto.")
		return
	}

	c.Redirect(http.StatusFound, "/painel/produtos")
}

// ShowCategoriasPage lista todas as categorias.
func (h *PainelHandler) ShowCategoriasPage(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	var categorias []model.Categoria
	if err := database.DB.Order("nome").Find(&categorias).Error; err != nil {
		c.String(http.StatusInternalServerError, "Erro ao buscar categorias.")
		return
	}

	c.HTML(http.StatusOK, "painel_categorias.html", gin.H{
		"IsLoggedIn": true,
		"User":       user,
		"Categorias": categorias,
	})
}

// ShowCriarCategoriaForm exibe o formulário de criação de categoria.
func (h *PainelHandler) ShowCriarCategoriaForm(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	c.HTML(http.StatusOK, "painel_categoria_criar.html", gin.H{
		"IsLoggedIn": true,
		"User":       user,
	})
}

// ProcessCriarCategoriaForm cria a categoria a partir do formulário.
func (h *PainelHandler) ProcessCriarCategoriaForm(c *gin.Context) {
	categoria := model.Categoria{
		Nome:      c.PostForm("nome"),
		Descricao: c.PostForm("descricao"),
		Ativo:     true,
	}
	if err := database.DB.Create(&categoria).Error; err != nil {
		log.Error().Err(err).Msg("erro ao criar categoria")
		c.String(http.StatusInternalServerError, "Erro ao criar a categoria.")
		return
	}
	c.Redirect(http.StatusFound, "/painel/categorias")
}

// ShowEditarCategoriaForm exibe o formulário de edição de categoria.
func (h *PainelHandler) ShowEditarCategoriaForm(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	categoria, ok := buscarCategoria(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "painel_categoria_editar.html", gin.H{
		"IsLoggedIn": true,
		"User":       user,
		"Categoria":  categoria,
	})
}

// ProcessEditarCategoriaForm atualiza a categoria.
func (h *PainelHandler) ProcessEditarCategoriaForm(c *gin.Context) {
	categoria, ok := buscarCategoria(c)
	if !ok {
		return
	}

	categoria.Nome = c.PostForm("nome")
	categoria.Descricao = c.PostForm("descricao")
	if err := database.DB.Save(&categoria).Error; err != nil {
		c.String(http.StatusInternalServerError, "Erro ao atualizar a categoria.")
		return
	}
	c.Redirect(http.StatusFound, "/painel/categorias")
}

// DeletarCategoria remove a categoria. Os produtos dela são apagados em
// cascata pela constraint do banco.
func (h *PainelHandler) DeletarCategoria(c *gin.Context) {
	categoria, ok := buscarCategoria(c)
	if !ok {
		return
	}

	if err := database.DB.Delete(&model.Categoria{}, categoria.ID).Error; err != nil {
		c.String(http.StatusInternalServerError, "Erro ao excluir a categoria.")
		return
	}
	c.Redirect(http.StatusFound, "/painel/categorias")
}

// ShowVendasPage lista os itens vendidos, pedidos mais recentes primeiro.
func (h *PainelHandler) ShowVendasPage(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	var vendas []model.ItemPedido
	err := database.DB.Preload("Produto").Preload("Pedido").
		Joins("JOIN pedidos ON pedidos.id = item_pedidos.pedido_id").
		Order("pedidos.created_at desc").
		Find(&vendas).Error
	if err != nil {
		log.Error().Err(err).Msg("erro ao buscar vendas")
		c.HTML(http.StatusOK, "painel_vendas.html", gin.H{
			"IsLoggedIn": true,
			"User":       user,
			"Vendas":     []model.ItemPedido{},
			"ErrorMsg":   "Erro ao carregar histórico de vendas.",
		})
		return
	}

	c.HTML(http.StatusOK, "painel_vendas.html", gin.H{
		"IsLoggedIn": true,
		"User":       user,
		"Vendas":     vendas,
	})
}

// --- Funções auxiliares ---

func salvarImagem(c *gin.Context, file *multipart.FileHeader) (string, error) {
	extensao := filepath.Ext(file.Filename)
	novoNome := uuid.New().String() + extensao
	destino := filepath.Join("uploads", novoNome)
	if err := c.SaveUploadedFile(file, destino); err != nil {
		return "", err
	}
	return "/uploads/" + novoNome, nil
}

func buscarProduto(c *gin.Context) (model.Produto, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "ID inválido.")
		return model.Produto{}, false
	}

	var produto model.Produto
	if err := database.DB.First(&produto, id).Error; err != nil {
		c.String(http.StatusNotFound, "Produto não encontrado.")
		return model.Produto{}, false
	}
	return produto, true
}

func buscarCategoria(c *gin.Context) (model.Categoria, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "ID inválido.")
		return model.Categoria{}, false
	}

	var categoria model.Categoria
	if err := database.DB.First(&categoria, id).Error; err != nil {
		c.String(http.StatusNotFound, "Categoria não encontrada.")
		return model.Categoria{}, false
	}
	return categoria, true
}
