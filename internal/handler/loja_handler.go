package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"github.com/ericoliveiras/loja-tech/internal/carrinho"
	"github.com/ericoliveiras/loja-tech/internal/database"
	"github.com/ericoliveiras/loja-tech/internal/model"
)

// LojaHandler agrupa as páginas públicas da loja: vitrine, detalhe de
// produto, sobre e contato.
type LojaHandler struct {
	Store *sessions.CookieStore
}

// ShowHomePage exibe a página inicial com os produtos em destaque.
func (h *LojaHandler) ShowHomePage(c *gin.Context) {
	user, isLoggedIn := usuarioDaSessao(h.Store, c)
	session := obterSessao(h.Store, c)

	var destaques []model.Produto
	database.DB.Where("ativo = ? AND destaque = ?", true, true).Limit(6).Find(&destaques)

	var categorias []model.Categoria
	database.DB.Where("ativo = ?", true).Order("nome").Find(&categorias)

	flashesSuccess := session.Flashes("success")
	flashesError := session.Flashes("error")
	session.Save(c.Request, c.Writer)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Destaques":      destaques,
		"Categorias":     categorias,
		"IsLoggedIn":     isLoggedIn,
		"User":           user,
		"CartItemCount":  carrinho.Abrir(session).Tamanho(),
		"FlashesSuccess": flashesSuccess,
		"FlashesError":   flashesError,
	})
}

// ShowSobrePage exibe a página institucional.
func (h *LojaHandler) ShowSobrePage(c *gin.Context) {
	user, isLoggedIn := usuarioDaSessao(h.Store, c)
	c.HTML(http.StatusOK, "sobre.html", gin.H{
		"IsLoggedIn": isLoggedIn,
		"User":       user,
	})
}

// ShowProdutosPage lista os produtos ativos com filtro por categoria e busca
// textual sobre nome, descrição e especificações.
func (h *LojaHandler) ShowProdutosPage(c *gin.Context) {
	user, isLoggedIn := usuarioDaSessao(h.Store, c)
	session := obterSessao(h.Store, c)

	categoriaID := c.Query("categoria")
	busca := c.Query("busca")

	query := database.DB.Where("ativo = ?", true)
	if categoriaID != "" {
		query = query.Where("categoria_id = ?", categoriaID)
	}
	if busca != "" {
		termo := "%" + strings.ToLower(busca) + "%"
		query = query.Where(
			database.DB.Where("LOWER(nome) LIKE ?", termo).
				Or("LOWER(descricao) LIKE ?", termo).
				Or("LOWER(especificacoes) LIKE ?", termo),
		)
	}

	var produtos []model.Produto
	if err := query.Order("created_at desc").Find(&produtos).Error; err != nil {
		c.String(http.StatusInternalServerError, "Erro ao buscar produtos.")
		return
	}

	var categorias []model.Categoria
	database.DB.Where("ativo = ?", true).Order("nome").Find(&categorias)

	flashesSuccess := session.Flashes("success")
	flashesError := session.Flashes("error")
	session.Save(c.Request, c.Writer)

	c.HTML(http.StatusOK, "produtos.html", gin.H{
		"Produtos":             produtos,
		"Categorias":           categorias,
		"CategoriaSelecionada": categoriaID,
		"Busca":                busca,
		"IsLoggedIn":           isLoggedIn,
		"User":                 user,
		"CartItemCount":        carrinho.Abrir(session).Tamanho(),
		"FlashesSuccess":       flashesSuccess,
		"FlashesError":         flashesError,
	})
}

// ShowProdutoDetalhePage exibe um produto. Produto inativo ou sem estoque só
// é visível para o lojista; visitantes e clientes voltam para a vitrine com
// um aviso.
func (h *LojaHandler) ShowProdutoDetalhePage(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "Produto não encontrado.")
		return
	}

	var produto model.Produto
	if err := database.DB.Preload("Categoria").First(&produto, id).Error; err != nil {
		c.String(http.StatusNotFound, "Produto não encontrado.")
		return
	}

	user, isLoggedIn := usuarioDaSessao(h.Store, c)
	session := obterSessao(h.Store, c)

	isStaff := isLoggedIn && user.Tipo == model.RoleLojista
	if !isStaff && !produto.Disponivel() {
		session.AddFlash(fmt.Sprintf("Produto '%s' indisponível no momento.", produto.Nome), "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/produtos")
		return
	}

	var relacionados []model.Produto
	database.DB.
		Where("categoria_id = ? AND ativo = ? AND estoque > 0 AND id <> ?", produto.CategoriaID, true, produto.ID).
		Limit(4).
		Find(&relacionados)

	c.HTML(http.StatusOK, "produto_detalhe.html", gin.H{
		"Produto":       produto,
		"Relacionados":  relacionados,
		"IsLoggedIn":    isLoggedIn,
		"User":          user,
		"CartItemCount": carrinho.Abrir(session).Tamanho(),
	})
}

// ShowContatoPage exibe o formulário de contato.
func (h *LojaHandler) ShowContatoPage(c *gin.Context) {
	user, isLoggedIn := usuarioDaSessao(h.Store, c)
	session := obterSessao(h.Store, c)
	flashesSuccess := session.Flashes("success")
	flashesError := session.Flashes("error")
	session.Save(c.Request, c.Writer)

	c.HTML(http.StatusOK, "contato.html", gin.H{
		"IsLoggedIn":     isLoggedIn,
		"User":           user,
		"FlashesSuccess": flashesSuccess,
		"FlashesError":   flashesError,
	})
}

// ProcessContatoForm grava a mensagem enviada pelo formulário de contato.
func (h *LojaHandler) ProcessContatoForm(c *gin.Context) {
	session := obterSessao(h.Store, c)

	nome := c.PostForm("nome")
	email := c.PostForm("email")
	telefone := c.PostForm("telefone")
	assunto := c.PostForm("assunto")
	mensagem := c.PostForm("mensagem")

	if nome == "" || email == "" || assunto == "" || mensagem == "" {
		session.AddFlash("Por favor, preencha todos os campos obrigatórios.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/contato")
		return
	}

	contato := model.Contato{
		Nome:     nome,
		Email:    email,
		Telefone: telefone,
		Assunto:  assunto,
		Mensagem: mensagem,
	}
	if err := database.DB.Create(&contato).Error; err != nil {
		log.Error().Err(err).Msg("erro ao gravar mensagem de contato")
		session.AddFlash("Erro ao enviar a mensagem. Tente novamente.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/contato")
		return
	}

	session.AddFlash("Mensagem enviada com sucesso! Entraremos em contato em breve.", "success")
	session.Save(c.Request, c.Writer)
	c.Redirect(http.StatusFound, "/contato")
}
