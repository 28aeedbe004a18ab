package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"vitrine/config"
	"vitrine/internal/pkg/database"
	"vitrine/migrations"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "migrate [comando] [args...]",
		Short: "Aplica as migrações do banco da Vitrine",
		Long: `Executa comandos do goose (up, down, status, redo, version, up-to, down-to...)
usando as migrações embutidas no binário. Sem comando, executa "up".`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Exibe o log detalhado do goose")

	return cmd
}

func run(ctx context.Context, arguments []string, verbose bool) error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema: %v", err)
	}

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL não definida")
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("goose: failed to connect to DB: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if !verbose {
		goose.SetLogger(goose.NopLogger())
	}

	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	if err := goose.RunContext(ctx, command, db.DB, ".", args...); err != nil {
		return fmt.Errorf("goose %v: %w", command, err)
	}

	fmt.Printf("goose %s success\n", command)
	return nil
}
