package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ericoliveiras/loja-tech/internal/carrinho"
	"github.com/ericoliveiras/loja-tech/internal/database"
	"github.com/ericoliveiras/loja-tech/internal/model"
)

// EstoqueInsuficienteError aborta o checkout quando o estoque vivo de um
// produto é menor que a quantidade pedida. Devolvido de dentro da transação,
// desfaz tudo que já tinha sido criado.
type EstoqueInsuficienteError struct {
	NomeProduto string
}

func (e *EstoqueInsuficienteError) Error() string {
	return "estoque insuficiente para " + e.NomeProduto
}

// CarrinhoHandler agrupa os handlers do carrinho e do checkout.
type CarrinhoHandler struct {
	Store *sessions.CookieStore
}

// ShowCarrinhoPage exibe o conteúdo do carrinho de compras.
func (h *CarrinhoHandler) ShowCarrinhoPage(c *gin.Context) {
	user, isLoggedIn := usuarioDaSessao(h.Store, c)
	session := obterSessao(h.Store, c)
	cart := carrinho.Abrir(session)

	flashesSuccess := session.Flashes("success")
	flashesError := session.Flashes("error")
	session.Save(c.Request, c.Writer)

	c.HTML(http.StatusOK, "carrinho.html", gin.H{
		"Items":          cart.Itens(),
		"Total":          cart.Total(),
		"IsLoggedIn":     isLoggedIn,
		"User":           user,
		"CartItemCount":  cart.Tamanho(),
		"FlashesSuccess": flashesSuccess,
		"FlashesError":   flashesError,
	})
}

// AdicionarAoCarrinho adiciona uma unidade do produto ao carrinho.
func (h *CarrinhoHandler) AdicionarAoCarrinho(c *gin.Context) {
	produto, ok := h.produtoDaRota(c)
	if !ok {
		return
	}

	session := obterSessao(h.Store, c)
	cart := carrinho.Abrir(session)
	cart.Adicionar(&produto, 1)

	session.AddFlash(fmt.Sprintf("%s adicionado ao carrinho!", produto.Nome), "success")
	if err := cart.Gravar(c.Request, c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "Erro ao salvar o carrinho.")
		return
	}
	c.Redirect(http.StatusFound, "/carrinho")
}

// DiminuirQuantidade remove uma unidade do produto do carrinho.
func (h *CarrinhoHandler) DiminuirQuantidade(c *gin.Context) {
	produtoID, ok := idDaRota(c)
	if !ok {
		return
	}

	session := obterSessao(h.Store, c)
	cart := carrinho.Abrir(session)
	cart.Diminuir(produtoID, 1)

	session.AddFlash("Quantidade diminuída!", "success")
	if err := cart.Gravar(c.Request, c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "Erro ao atualizar o carrinho.")
		return
	}
	c.Redirect(http.StatusFound, "/carrinho")
}

// RemoverDoCarrinho remove completamente o produto do carrinho.
func (h *CarrinhoHandler) RemoverDoCarrinho(c *gin.Context) {
	produtoID, ok := idDaRota(c)
	if !ok {
		return
	}

	session := obterSessao(h.Store, c)
	cart := carrinho.Abrir(session)
	cart.Remover(produtoID)

	session.AddFlash("Item removido do carrinho!", "success")
	if err := cart.Gravar(c.Request, c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "Erro ao atualizar o carrinho.")
		return
	}
	c.Redirect(http.StatusFound, "/carrinho")
}

// LimparCarrinho remove todos os itens do carrinho.
func (h *CarrinhoHandler) LimparCarrinho(c *gin.Context) {
	session := obterSessao(h.Store, c)
	cart := carrinho.Abrir(session)
	cart.Limpar()

	if err := cart.Gravar(c.Request, c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "Erro ao limpar o carrinho.")
		return
	}
	c.Redirect(http.StatusFound, "/carrinho")
}

// ShowCheckoutPage exibe o resumo do pedido antes da confirmação.
func (h *CarrinhoHandler) ShowCheckoutPage(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)
	session := obterSessao(h.Store, c)
	cart := carrinho.Abrir(session)

	if cart.Vazio() {
		c.Redirect(http.StatusFound, "/carrinho")
		return
	}

	c.HTML(http.StatusOK, "checkout.html", gin.H{
		"Items":         cart.Itens(),
		"Total":         cart.Total(),
		"IsLoggedIn":    true,
		"User":          user,
		"CartItemCount": cart.Tamanho(),
	})
}

// ProcessCheckout converte o carrinho em um pedido confirmado dentro de uma
// única transação: ou o pedido inteiro e as baixas de estoque são gravados,
// ou nada é.
func (h *CarrinhoHandler) ProcessCheckout(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)
	session := obterSessao(h.Store, c)
	cart := carrinho.Abrir(session)

	if cart.Vazio() {
		c.Redirect(http.StatusFound, "/carrinho")
		return
	}

	var pedidoCriado model.Pedido
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Cliente: busca ou cria com os dados do formulário, preenchendo
		// campos ausentes com placeholders.
		var cliente model.Cliente
		err := tx.Where("usuario_id = ?", user.ID).First(&cliente).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cliente = model.Cliente{
				UsuarioID: user.ID,
				CPF:       valorOuPadrao(c.PostForm("cpf"), "000.000.000-00"),
				Telefone:  c.PostForm("telefone"),
				Endereco:  c.PostForm("endereco"),
				Cidade:    c.PostForm("cidade"),
				Estado:    valorOuPadrao(c.PostForm("estado"), "SP"),
				CEP:       c.PostForm("cep"),
			}
			err = tx.Create(&cliente).Error
		}
		if err != nil {
			return fmt.Errorf("buscar ou criar cliente: %w", err)
		}

		// Pedido: o total é a fotografia do carrinho, não a soma dos itens.
		pedido := model.Pedido{
			ClienteID:  cliente.ID,
			Status:     model.StatusConfirmado,
			ValorTotal: cart.Total(),
		}
		if err := tx.Create(&pedido).Error; err != nil {
			return fmt.Errorf("criar pedido: %w", err)
		}
		pedidoCriado = pedido

		for _, item := range cart.Itens() {
			var produto model.Produto
			if err := tx.First(&produto, item.ID).Error; err != nil {
				return fmt.Errorf("buscar produto %d: %w", item.ID, err)
			}

			if produto.Estoque < item.Quantidade {
				return &EstoqueInsuficienteError{NomeProduto: produto.Nome}
			}

			itemPedido := model.ItemPedido{
				PedidoID:      pedido.ID,
				ProdutoID:     produto.ID,
				Quantidade:    item.Quantidade,
				PrecoUnitario: item.Preco,
			}
			if err := tx.Create(&itemPedido).Error; err != nil {
				return fmt.Errorf("criar item do pedido: %w", err)
			}

			produto.Estoque -= item.Quantidade
			if err := tx.Save(&produto).Error; err != nil {
				return fmt.Errorf("baixar estoque do produto %d: %w", produto.ID, err)
			}
		}
		return nil
	})

	if err != nil {
		var estoqueErr *EstoqueInsuficienteError
		if errors.As(err, &estoqueErr) {
			session.AddFlash(fmt.Sprintf("Estoque insuficiente para %s", estoqueErr.NomeProduto), "error")
		} else {
			log.Error().Err(err).Uint("usuario_id", user.ID).Msg("erro no checkout")
			session.AddFlash("Não foi possível registrar seu pedido. Tente novamente.", "error")
		}
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/carrinho")
		return
	}

	cart.Limpar()
	session.AddFlash(fmt.Sprintf("Pedido #%d confirmado com sucesso!", pedidoCriado.ID), "success")
	if err := cart.Gravar(c.Request, c.Writer); err != nil {
		log.Error().Err(err).Msg("erro ao limpar o carrinho após o checkout")
	}

	log.Info().Uint("pedido_id", pedidoCriado.ID).Uint("usuario_id", user.ID).
		Str("total", pedidoCriado.ValorTotal.String()).Msg("pedido confirmado")
	c.Redirect(http.StatusFound, fmt.Sprintf("/checkout/sucesso/%d", pedidoCriado.ID))
}

// ShowCheckoutSucessoPage exibe a confirmação do pedido recém-criado.
func (h *CarrinhoHandler) ShowCheckoutSucessoPage(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "Pedido não encontrado.")
		return
	}

	var pedido model.Pedido
	if err := database.DB.Preload("Itens.Produto").First(&pedido, id).Error; err != nil {
		c.String(http.StatusNotFound, "Pedido não encontrado.")
		return
	}

	session := obterSessao(h.Store, c)
	flashesSuccess := session.Flashes("success")
	session.Save(c.Request, c.Writer)

	c.HTML(http.StatusOK, "checkout_sucesso.html", gin.H{
		"Pedido":         pedido,
		"IsLoggedIn":     true,
		"User":           user,
		"FlashesSuccess": flashesSuccess,
	})
}

// ShowHistoricoComprasPage lista os pedidos do cliente logado, mais recentes
// primeiro.
func (h *CarrinhoHandler) ShowHistoricoComprasPage(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)

	var pedidos []model.Pedido
	var cliente model.Cliente
	if err := database.DB.Where("usuario_id = ?", user.ID).First(&cliente).Error; err == nil {
		database.DB.Preload("Itens.Produto").
			Where("cliente_id = ?", cliente.ID).
			Order("created_at desc").
			Find(&pedidos)
	}

	c.HTML(http.StatusOK, "historico_compras.html", gin.H{
		"Pedidos":    pedidos,
		"IsLoggedIn": true,
		"User":       user,
	})
}

// produtoDaRota busca o produto apontado pelo parâmetro :id, respondendo 404
// quando não existe.
func (h *CarrinhoHandler) produtoDaRota(c *gin.Context) (model.Produto, bool) {
	id, ok := idDaRota(c)
	if !ok {
		return model.Produto{}, false
	}

	var produto model.Produto
	if err := database.DB.First(&produto, id).Error; err != nil {
		c.String(http.StatusNotFound, "Produto não encontrado.")
		return model.Produto{}, false
	}
	return produto, true
}

func idDaRota(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "ID inválido.")
		return 0, false
	}
	return uint(id64), true
}

func valorOuPadrao(valor, padrao string) string {
	if valor == "" {
		return padrao
	}
	return valor
}
