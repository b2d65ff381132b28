package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/ericoliveiras/loja-tech/internal/database"
	"github.com/ericoliveiras/loja-tech/internal/model"
)

// NomeSessao é o nome do cookie de sessão usado em toda a aplicação.
const NomeSessao = "loja-tech-session"

func obterSessao(store *sessions.CookieStore, c *gin.Context) *sessions.Session {
	session, _ := store.Get(c.Request, NomeSessao)
	return session
}

// usuarioDaSessao busca o usuário logado a partir do userID guardado na
// sessão. Sessão sem userID válido conta como visitante.
func usuarioDaSessao(store *sessions.CookieStore, c *gin.Context) (model.Usuario, bool) {
	session := obterSessao(store, c)
	userID, ok := session.Values["userID"].(uint)
	if !ok {
		return model.Usuario{}, false
	}

	var user model.Usuario
	if err := database.DB.First(&user, userID).Error; err != nil {
		return model.Usuario{}, false
	}
	return user, true
}
