package database

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ericoliveiras/loja-tech/internal/model"
)

// SeedLojista garante que exista ao menos uma conta com acesso ao painel.
func SeedLojista() {
	var user model.Usuario
	result := DB.Where("username = ?", "lojista").First(&user)

	if result.Error != nil && errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Info().Msg("usuário lojista não encontrado, criando um novo")

		senhaHash, err := bcrypt.GenerateFromPassword([]byte("senhaforte123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("falha ao criar hash da senha do lojista")
		}

		lojista := model.Usuario{
			Username:  "lojista",
			Nome:      "Lojista Principal",
			Email:     "lojista@lojatech.com",
			SenhaHash: string(senhaHash),
			Tipo:      model.RoleLojista,
		}

		if err := DB.Create(&lojista).Error; err != nil {
			log.Fatal().Err(err).Msg("falha ao criar o usuário lojista")
		}
		log.Info().Msg("usuário lojista criado com sucesso")
	} else {
		log.Info().Msg("usuário lojista já existe")
	}
}
