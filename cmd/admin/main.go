package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/altilhabela/portal/internal/auth"
	"github.com/altilhabela/portal/internal/db"
	"github.com/altilhabela/portal/internal/usuario"
	"github.com/altilhabela/portal/internal/util"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	// hash não toca o banco; resolve antes de conectar.
	if cmd == "hash" {
		if err := runHash(args); err != nil {
			log.Fatal().Err(err).Msg("falha ao gerar hash")
		}
		return
	}

	_ = godotenv.Load()

	ctx := context.Background()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		log.Fatal().Msg("defina DB_DSN ou DATABASE_URL")
	}

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível conectar ao banco")
	}
	defer pool.Close()

	usuarios := usuario.NewRepository(pool)

	switch cmd {
	case "create":
		if err := runCreate(ctx, usuarios, args); err != nil {
			log.Fatal().Err(err).Msg("falha ao criar administrador")
		}
	case "list":
		if err := runList(ctx, usuarios); err != nil {
			log.Fatal().Err(err).Msg("falha ao listar usuários")
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "admin CLI")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  admin create --nome \"Fulano\" --email fulano@altilhabela.com.br --senha segredo123")
	fmt.Fprintln(os.Stderr, "  admin list")
	fmt.Fprintln(os.Stderr, "  admin hash <senha>")
}

// runHash imprime o hash argon2id de uma senha, para seeds manuais.
func runHash(args []string) error {
	if len(args) != 1 {
		return errors.New("uso: admin hash <senha>")
	}

	hash, err := auth.Hash(args[0])
	if err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}

func runCreate(ctx context.Context, usuarios *usuario.Repository, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		nome  = fs.String("nome", "", "nome exibido")
		email = fs.String("email", "", "e-mail de acesso")
		senha = fs.String("senha", "", "senha inicial")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *nome == "" || *email == "" || *senha == "" {
		return errors.New("nome, email e senha são obrigatórios")
	}
	if err := util.ValidateEmail(*email); err != nil {
		return err
	}
	if err := util.ValidatePassword(*senha); err != nil {
		return err
	}

	hash, err := auth.Hash(*senha)
	if err != nil {
		return fmt.Errorf("hash da senha: %w", err)
	}

	novo, err := usuarios.Create(ctx, usuario.Usuario{
		ID:    util.NewID(),
		Email: *email,
		Nome:  *nome,
		Role:  usuario.RoleAdmin,
		Ativo: true,
	}, hash)
	if err != nil {
		return err
	}

	output, _ := json.MarshalIndent(novo, "", "  ")
	fmt.Println(string(output))
	return nil
}

func runList(ctx context.Context, usuarios *usuario.Repository) error {
	list, err := usuarios.List(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("nenhum usuário cadastrado")
		return nil
	}

	encoded, _ := json.MarshalIndent(list, "", "  ")
	fmt.Println(string(encoded))
	return nil
}
