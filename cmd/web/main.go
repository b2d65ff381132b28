package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/ericoliveiras/loja-tech/internal/database"
	"github.com/ericoliveiras/loja-tech/internal/handler"
	"github.com/ericoliveiras/loja-tech/internal/model"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal().Msg("erro ao carregar o arquivo .env")
	}

	database.ConnectDB()
	database.SeedLojista()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal().Msg("SESSION_SECRET não encontrado no .env")
	}
	store := sessions.NewCookieStore([]byte(sessionSecret))

	lojaHandler := &handler.LojaHandler{Store: store}
	authHandler := &handler.AuthHandler{Store: store}
	carrinhoHandler := &handler.CarrinhoHandler{Store: store}
	painelHandler := &handler.PainelHandler{Store: store}

	router := gin.Default()
	router.LoadHTMLGlob("internal/view/templates/*")
	router.Static("/uploads", "./uploads")

	// Páginas públicas
	router.GET("/", lojaHandler.ShowHomePage)
	router.GET("/sobre", lojaHandler.ShowSobrePage)
	router.GET("/produtos", lojaHandler.ShowProdutosPage)
	router.GET("/produto/:id", lojaHandler.ShowProdutoDetalhePage)
	router.GET("/contato", lojaHandler.ShowContatoPage)
	router.POST("/contato", lojaHandler.ProcessContatoForm)

	// Conta
	router.GET("/cadastro", authHandler.ShowCadastroPage)
	router.POST("/cadastro", authHandler.ProcessCadastroForm)
	router.GET("/login", authHandler.ShowLoginPage)
	router.POST("/login", authHandler.ProcessLoginForm)
	router.GET("/logout", authHandler.Logout)

	// Carrinho (aberto a visitantes; o checkout exige login)
	router.GET("/carrinho", carrinhoHandler.ShowCarrinhoPage)
	router.POST("/carrinho/adicionar/:id", carrinhoHandler.AdicionarAoCarrinho)
	router.POST("/carrinho/diminuir/:id", carrinhoHandler.DiminuirQuantidade)
	router.POST("/carrinho/remover/:id", carrinhoHandler.RemoverDoCarrinho)
	router.POST("/carrinho/limpar", carrinhoHandler.LimparCarrinho)

	// Rotas autenticadas
	autenticado := router.Group("/")
	autenticado.Use(authHandler.AuthRequired())
	{
		autenticado.GET("/perfil", authHandler.ShowPerfilPage)
		autenticado.POST("/perfil", authHandler.ProcessPerfilForm)
		autenticado.GET("/alterar-senha", authHandler.ShowAlterarSenhaPage)
		autenticado.POST("/alterar-senha", authHandler.ProcessAlterarSenhaForm)
		autenticado.GET("/checkout", carrinhoHandler.ShowCheckoutPage)
		autenticado.POST("/checkout", carrinhoHandler.ProcessCheckout)
		autenticado.GET("/checkout/sucesso/:id", carrinhoHandler.ShowCheckoutSucessoPage)
		autenticado.GET("/minhas-compras", carrinhoHandler.ShowHistoricoComprasPage)
	}

	// Painel do lojista
	painel := router.Group("/painel")
	painel.Use(authHandler.AuthRequired(), authHandler.RoleRequired(model.RoleLojista))
	{
		painel.GET("", painelHandler.ShowPainelPage)
		painel.GET("/vendas", painelHandler.ShowVendasPage)

		painel.GET("/produtos", painelHandler.ShowProdutosPage)
		painel.GET("/produtos/criar", painelHandler.ShowCriarProdutoForm)
		painel.POST("/produtos/criar", painelHandler.ProcessCriarProdutoForm)
		painel.GET("/produtos/editar/:id", painelHandler.ShowEditarProdutoForm)
		painel.POST("/produtos/editar/:id", painelHandler.ProcessEditarProdutoForm)
		painel.POST("/produtos/deletar/:id", painelHandler.DeletarProduto)

		painel.GET("/categorias", painelHandler.ShowCategoriasPage)
		painel.GET("/categorias/criar", painelHandler.ShowCriarCategoriaForm)
		painel.POST("/categorias/criar", painelHandler.ProcessCriarCategoriaForm)
		painel.GET("/categorias/editar/:id", painelHandler.ShowEditarCategoriaForm)
		painel.POST("/categorias/editar/:id", painelHandler.ProcessEditarCategoriaForm)
		painel.POST("/categorias/deletar/:id", painelHandler.DeletarCategoria)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("porta", port).Msg("servidor iniciado")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("servidor encerrado com erro")
	}
}
