// Herramienta de migraciones de esquema basada en golang-migrate.
// Acciones: up, down (con -steps), version y force (limpia estado dirty).
package main

import (
	"errors"
	"flag"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/jhoicas/Movimientos-api/pkg/config"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

func main() {
	var (
		action = flag.String("action", "up", "acción: up, down, version, force")
		steps  = flag.Int("steps", 1, "cantidad de pasos para down")
		target = flag.Uint("target", 0, "versión destino para force")
		dir    = flag.String("dir", "migrations", "directorio de migraciones")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	// golang-migrate registra el driver de pgx/v5 bajo el esquema pgx5.
	dsn := strings.Replace(cfg.DB.ConnectionString(), "postgres://", "pgx5://", 1)
	dsn = strings.Replace(dsn, "postgresql://", "pgx5://", 1)

	m, err := migrate.New("file://"+*dir, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("crear instancia de migrate")
	}
	defer m.Close()

	switch *action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migraciones up")
		}
		log.Info().Msg("migraciones up aplicadas")

	case "down":
		if err := m.Steps(-*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Int("steps", *steps).Msg("migraciones down")
		}
		log.Info().Int("steps", *steps).Msg("migraciones down aplicadas")

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatal().Err(err).Msg("consultar versión")
		}
		log.Info().Uint("version", uint(v)).Bool("dirty", dirty).Msg("versión actual")

	case "force":
		if err := m.Force(int(*target)); err != nil {
			log.Fatal().Err(err).Uint("target", *target).Msg("forzar versión")
		}
		log.Info().Uint("target", *target).Msg("versión forzada")

	default:
		log.Fatal().Str("action", *action).Msg("acción desconocida (up|down|version|force)")
	}
}
