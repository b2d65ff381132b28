package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ericoliveiras/loja-tech/internal/database"
	"github.com/ericoliveiras/loja-tech/internal/model"
)

// Erros de cadastro. O usuário vê a mensagem correspondente; o erro bruto do
// banco nunca chega à resposta, só ao log.
var (
	ErrUsernameEmUso = errors.New("nome de usuário já existe")
	ErrEmailEmUso    = errors.New("e-mail já cadastrado")
)

type AuthHandler struct {
	Store *sessions.CookieStore
}

// ShowCadastroPage renderiza a página de cadastro e exibe flash messages.
func (h *AuthHandler) ShowCadastroPage(c *gin.Context) {
	if _, isLoggedIn := usuarioDaSessao(h.Store, c); isLoggedIn {
		c.Redirect(http.StatusFound, "/")
		return
	}

	session := obterSessao(h.Store, c)
	flashesSuccess := session.Flashes("success")
	flashesError := session.Flashes("error")
	session.Save(c.Request, c.Writer)

	c.HTML(http.StatusOK, "cadastro.html", gin.H{
		"IsLoggedIn":     false,
		"FlashesSuccess": flashesSuccess,
		"FlashesError":   flashesError,
	})
}

// ProcessCadastroForm processa os dados submetidos pelo formulário de
// cadastro, criando o usuário e seu registro de cliente.
func (h *AuthHandler) ProcessCadastroForm(c *gin.Context) {
	session := obterSessao(h.Store, c)

	username := c.PostForm("username")
	nome := c.PostForm("nome")
	email := c.PostForm("email")
	senha := c.PostForm("senha")
	confirmarSenha := c.PostForm("confirmar_senha")

	if senha != confirmarSenha {
		session.AddFlash("As senhas não coincidem.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/cadastro")
		return
	}

	usuario := model.Usuario{
		Username: username,
		Nome:     nome,
		Email:    email,
		Tipo:     model.RoleCliente,
	}
	cliente := model.Cliente{
		CPF:      c.PostForm("cpf"),
		Telefone: c.PostForm("telefone"),
		Endereco: c.PostForm("endereco"),
		Cidade:   c.PostForm("cidade"),
		Estado:   c.PostForm("estado"),
		CEP:      c.PostForm("cep"),
	}

	if err := criarConta(&usuario, &cliente, senha); err != nil {
		switch {
		case errors.Is(err, ErrUsernameEmUso):
			session.AddFlash("Nome de usuário já existe.", "error")
		case errors.Is(err, ErrEmailEmUso):
			session.AddFlash("E-mail já cadastrado.", "error")
		default:
			log.Error().Err(err).Str("username", username).Msg("erro ao criar cadastro")
			session.AddFlash("Erro ao criar cadastro. Tente novamente.", "error")
		}
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/cadastro")
		return
	}

	session.AddFlash("Cadastro realizado com sucesso! Faça login para continuar.", "success")
	session.Save(c.Request, c.Writer)
	c.Redirect(http.StatusFound, "/login")
}

// criarConta valida unicidade de username e e-mail e grava usuário e cliente
// numa transação. Devolve ErrUsernameEmUso, ErrEmailEmUso ou o erro de
// persistência.
func criarConta(usuario *model.Usuario, cliente *model.Cliente, senha string) error {
	var count int64
	database.DB.Model(&model.Usuario{}).Where("username = ?", usuario.Username).Count(&count)
	if count > 0 {
		return ErrUsernameEmUso
	}

	database.DB.Model(&model.Usuario{}).Where("email = ?", usuario.Email).Count(&count)
	if count > 0 {
		return ErrEmailEmUso
	}

	senhaHash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash da senha: %w", err)
	}
	usuario.SenhaHash = string(senhaHash)

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(usuario).Error; err != nil {
			return fmt.Errorf("criar usuário: %w", err)
		}
		cliente.UsuarioID = usuario.ID
		if err := tx.Create(cliente).Error; err != nil {
			return fmt.Errorf("criar cliente: %w", err)
		}
		return nil
	})
}

// ShowLoginPage renderiza a página de login e exibe flash messages.
func (h *AuthHandler) ShowLoginPage(c *gin.Context) {
	if _, isLoggedIn := usuarioDaSessao(h.Store, c); isLoggedIn {
		c.Redirect(http.StatusFound, "/")
		return
	}

	session := obterSessao(h.Store, c)
	flashesSuccess := session.Flashes("success")
	flashesError := session.Flashes("error")
	session.Save(c.Request, c.Writer)

	c.HTML(http.StatusOK, "login.html", gin.H{
		"IsLoggedIn":     false,
		"FlashesSuccess": flashesSuccess,
		"FlashesError":   flashesError,
	})
}

// ProcessLoginForm autentica por username e senha.
func (h *AuthHandler) ProcessLoginForm(c *gin.Context) {
	session := obterSessao(h.Store, c)
	username := c.PostForm("username")
	senha := c.PostForm("senha")

	var usuario model.Usuario
	result := database.DB.Where("username = ?", username).First(&usuario)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Error().Err(result.Error).Msg("erro ao buscar usuário no login")
		}
		session.AddFlash("Usuário ou senha inválidos.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaHash), []byte(senha)); err != nil {
		session.AddFlash("Usuário ou senha inválidos.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session.Values["userID"] = usuario.ID
	session.Values["userName"] = usuario.Nome
	session.AddFlash(fmt.Sprintf("Bem-vindo, %s!", usuario.Nome), "success")

	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Error().Err(err).Msg("erro ao salvar sessão de login")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if usuario.Tipo == model.RoleLojista {
		c.Redirect(http.StatusFound, "/painel")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout encerra a sessão do usuário.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := obterSessao(h.Store, c)
	session.Values["userID"] = nil
	session.Values["userName"] = nil
	session.Options.MaxAge = -1

	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Error().Err(err).Msg("erro ao salvar sessão de logout")
		c.String(http.StatusInternalServerError, "Erro ao fazer logout.")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ShowPerfilPage exibe os dados do usuário e, para clientes, o endereço.
func (h *AuthHandler) ShowPerfilPage(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)
	session := obterSessao(h.Store, c)

	var cliente model.Cliente
	if user.Tipo != model.RoleLojista {
		database.DB.Where("usuario_id = ?", user.ID).First(&cliente)
	}

	flashesSuccess := session.Flashes("success")
	flashesError := session.Flashes("error")
	session.Save(c.Request, c.Writer)

	c.HTML(http.StatusOK, "perfil.html", gin.H{
		"IsLoggedIn":     true,
		"User":           user,
		"Cliente":        cliente,
		"IsAdmin":        user.Tipo == model.RoleLojista,
		"FlashesSuccess": flashesSuccess,
		"FlashesError":   flashesError,
	})
}

// ProcessPerfilForm atualiza nome e e-mail do usuário e, para clientes, os
// dados de entrega.
func (h *AuthHandler) ProcessPerfilForm(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)
	session := obterSessao(h.Store, c)

	user.Nome = c.PostForm("nome")
	user.Email = c.PostForm("email")
	if err := database.DB.Save(&user).Error; err != nil {
		log.Error().Err(err).Uint("usuario_id", user.ID).Msg("erro ao atualizar perfil")
		session.AddFlash("Erro ao atualizar o perfil. Tente novamente.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/perfil")
		return
	}

	if user.Tipo != model.RoleLojista {
		var cliente model.Cliente
		if err := database.DB.Where("usuario_id = ?", user.ID).First(&cliente).Error; err == nil {
			cliente.Telefone = c.PostForm("telefone")
			cliente.Endereco = c.PostForm("endereco")
			cliente.Cidade = c.PostForm("cidade")
			cliente.Estado = c.PostForm("estado")
			cliente.CEP = c.PostForm("cep")
			database.DB.Save(&cliente)
		}
	}

	session.AddFlash("Perfil atualizado com sucesso!", "success")
	session.Save(c.Request, c.Writer)
	c.Redirect(http.StatusFound, "/perfil")
}

// ShowAlterarSenhaPage exibe o formulário de troca de senha.
func (h *AuthHandler) ShowAlterarSenhaPage(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)
	session := obterSessao(h.Store, c)

	flashesSuccess := session.Flashes("success")
	flashesError := session.Flashes("error")
	session.Save(c.Request, c.Writer)

	c.HTML(http.StatusOK, "alterar_senha.html", gin.H{
		"IsLoggedIn":     true,
		"User":           user,
		"FlashesSuccess": flashesSuccess,
		"FlashesError":   flashesError,
	})
}

// ProcessAlterarSenhaForm troca a senha após conferir a senha atual.
func (h *AuthHandler) ProcessAlterarSenhaForm(c *gin.Context) {
	userData, _ := c.Get("user")
	user := userData.(model.Usuario)
	session := obterSessao(h.Store, c)

	senhaAtual := c.PostForm("senha_atual")
	novaSenha := c.PostForm("nova_senha")
	confirmarSenha := c.PostForm("confirmar_senha")

	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(senhaAtual)); err != nil {
		session.AddFlash("Senha atual incorreta.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/alterar-senha")
		return
	}

	if novaSenha != confirmarSenha {
		session.AddFlash("As senhas não coincidem.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/alterar-senha")
		return
	}

	senhaHash, err := bcrypt.GenerateFromPassword([]byte(novaSenha), bcrypt.DefaultCost)
	if err != nil {
		session.AddFlash("Erro ao processar a senha. Tente novamente.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/alterar-senha")
		return
	}

	if err := database.DB.Model(&user).Update("senha_hash", string(senhaHash)).Error; err != nil {
		log.Error().Err(err).Uint("usuario_id", user.ID).Msg("erro ao alterar senha")
		session.AddFlash("Erro ao alterar a senha. Tente novamente.", "error")
		session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusFound, "/alterar-senha")
		return
	}

	session.AddFlash("Senha alterada com sucesso!", "success")
	session.Save(c.Request, c.Writer)
	c.Redirect(http.StatusFound, "/perfil")
}

// AuthRequired redireciona visitantes para o login e coloca o usuário
// autenticado no contexto da requisição.
func (h *AuthHandler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := obterSessao(h.Store, c)
		userID, ok := session.Values["userID"].(uint)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		var user model.Usuario
		if err := database.DB.First(&user, userID).Error; err != nil {
			// Sessão aponta para um usuário que não existe mais.
			session.Values["userID"] = nil
			session.Values["userName"] = nil
			session.Options.MaxAge = -1
			session.Save(c.Request, c.Writer)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// RoleRequired nega acesso a quem não tem o papel exigido. Usado com
// model.RoleLojista para proteger o painel.
func (h *AuthHandler) RoleRequired(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userData, exists := c.Get("user")
		if !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		user := userData.(model.Usuario)
		if user.Tipo != requiredRole {
			log.Warn().Uint("usuario_id", user.ID).Str("tipo", user.Tipo).Msg("acesso negado ao painel")
			c.String(http.StatusForbidden, "Acesso negado.")
			c.Abort()
			return
		}
		c.Next()
	}
}
