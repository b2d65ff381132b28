// Package carrinho implementa o carrinho de compras guardado na sessão.
//
// O carrinho não é persistido no banco: ele vive no cookie de sessão como um
// mapa de id do produto (string) para Item. O preço é congelado no primeiro
// Adicionar; o checkout usa esse valor, não o preço atual do produto.
package carrinho

import (
	"encoding/gob"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"

	"github.com/ericoliveiras/loja-tech/internal/model"
)

// ChaveSessao é a chave do carrinho dentro da sessão. O sufixo de versão
// invalida payloads antigos quando o formato do Item mudar.
const ChaveSessao = "carrinho.v1"

// Item é a fotografia de um produto no momento em que entrou no carrinho.
// O preço fica como float64 dentro do cookie e é reconstruído como decimal
// na leitura.
type Item struct {
	Nome       string
	Preco      float64
	Quantidade int
	Imagem     string
}

// ItemDetalhado é o que o checkout e os templates consomem.
type ItemDetalhado struct {
	ID         int
	Nome       string
	Preco      decimal.Decimal
	Quantidade int
	Subtotal   decimal.Decimal
	Imagem     string
}

func init() {
	gob.Register(map[string]Item{})
}

// Carrinho embrulha o mapa de itens de uma sessão.
type Carrinho struct {
	sessao *sessions.Session
	itens  map[string]Item
}

// Abrir lê o carrinho da sessão. Payload ausente ou de formato inesperado
// vira um carrinho vazio.
func Abrir(sessao *sessions.Session) *Carrinho {
	itens, ok := sessao.Values[ChaveSessao].(map[string]Item)
	if !ok {
		itens = make(map[string]Item)
	}
	return &Carrinho{sessao: sessao, itens: itens}
}

// Adicionar soma a quantidade pedida à atual, travada no estoque do produto.
// Nunca falha por excesso: a quantidade é truncada no teto do estoque.
// No primeiro Adicionar o item guarda nome, preço e imagem do produto;
// nas chamadas seguintes só a quantidade muda.
func (c *Carrinho) Adicionar(produto *model.Produto, quantidade int) {
	id := chave(produto.ID)

	novaQuantidade := c.itens[id].Quantidade + quantidade
	if novaQuantidade > produto.Estoque {
		novaQuantidade = produto.Estoque
	}

	item, existe := c.itens[id]
	if !existe {
		item = Item{
			Nome:   produto.Nome,
			Preco:  produto.Preco.InexactFloat64(),
			Imagem: produto.ImagemURL,
		}
	}
	item.Quantidade = novaQuantidade
	c.itens[id] = item
	c.salvar()
}

// Diminuir subtrai a quantidade e remove o item quando chega a zero ou menos.
// Não reconfere estoque. Produto fora do carrinho é no-op.
func (c *Carrinho) Diminuir(produtoID uint, quantidade int) {
	id := chave(produtoID)
	item, existe := c.itens[id]
	if !existe {
		return
	}

	item.Quantidade -= quantidade
	if item.Quantidade <= 0 {
		delete(c.itens, id)
	} else {
		c.itens[id] = item
	}
	c.salvar()
}

// Remover tira o produto do carrinho por completo.
func (c *Carrinho) Remover(produtoID uint) {
	id := chave(produtoID)
	if _, existe := c.itens[id]; !existe {
		return
	}
	delete(c.itens, id)
	c.salvar()
}

// Limpar esvazia o carrinho (usado no checkout).
func (c *Carrinho) Limpar() {
	c.itens = make(map[string]Item)
	c.salvar()
}

// Tamanho é a soma das quantidades de todos os itens.
func (c *Carrinho) Tamanho() int {
	total := 0
	for _, item := range c.itens {
		total += item.Quantidade
	}
	return total
}

// Vazio informa se não há itens no carrinho.
func (c *Carrinho) Vazio() bool {
	return len(c.itens) == 0
}

// Itens devolve os itens em ordem de id, com o preço reconstruído como
// decimal a partir do float gravado na sessão.
func (c *Carrinho) Itens() []ItemDetalhado {
	detalhados := make([]ItemDetalhado, 0, len(c.itens))
	for id, item := range c.itens {
		produtoID, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		preco := decimal.NewFromFloat(item.Preco)
		detalhados = append(detalhados, ItemDetalhado{
			ID:         produtoID,
			Nome:       item.Nome,
			Preco:      preco,
			Quantidade: item.Quantidade,
			Subtotal:   preco.Mul(decimal.NewFromInt(int64(item.Quantidade))),
			Imagem:     item.Imagem,
		})
	}
	sort.Slice(detalhados, func(i, j int) bool {
		return detalhados[i].ID < detalhados[j].ID
	})
	return detalhados
}

// Total soma preço × quantidade de todos os itens.
func (c *Carrinho) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.itens {
		preco := decimal.NewFromFloat(item.Preco)
		total = total.Add(preco.Mul(decimal.NewFromInt(int64(item.Quantidade))))
	}
	return total
}

// Gravar escreve o cookie de sessão na resposta. Deve ser chamado pelo
// handler depois de qualquer mutação.
func (c *Carrinho) Gravar(r *http.Request, w http.ResponseWriter) error {
	return c.sessao.Save(r, w)
}

// salvar devolve o mapa para a sessão, marcando-a como alterada.
func (c *Carrinho) salvar() {
	c.sessao.Values[ChaveSessao] = c.itens
}

func chave(produtoID uint) string {
	return strconv.FormatUint(uint64(produtoID), 10)
}
