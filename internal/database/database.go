package database

import (
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ericoliveiras/loja-tech/internal/model"
)

var DB *gorm.DB

// ConnectDB abre a conexão com o Postgres usando DATABASE_URL e roda as
// migrações. Sem banco a aplicação não tem como subir.
func ConnectDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL não encontrado no .env")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("falha ao conectar ao banco de dados")
	}
	log.Info().Msg("conexão com o banco de dados estabelecida")

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("falha ao executar migrações")
	}
	log.Info().Msg("migrações concluídas")
}

// Migrate roda o AutoMigrate de todos os modelos. Exportada para os testes
// prepararem um banco em memória com o mesmo schema da aplicação.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Categoria{},
		&model.Produto{},
		&model.Pedido{},
		&model.ItemPedido{},
		&model.Contato{},
	)
}
