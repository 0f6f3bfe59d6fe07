package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"expensetracker/internal/config"
	"expensetracker/internal/database"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("createuser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	isAdmin := fs.Bool("admin", false, "Grant access to the administration pages")
	dbPath := fs.String("db", "", "SQLite database file (overrides DB_DRIVER/DB_PATH)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: createuser -user <username> -email <email> [-password <password>] [-admin] [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user, email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout) // Print newline after password input
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *dbPath != "" {
		cfg.DBDriver = database.DriverSQLite
		cfg.DBPath = *dbPath
	}

	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return err
	}
	manager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer manager.Close()

	if err := manager.RunMigrations(); err != nil {
		return err
	}

	userService := services.NewUserService(manager.DB())
	user, err := userService.CreateUser(*username, *email, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateUsername) || errors.Is(err, apperrors.ErrDuplicateEmail) {
			return fmt.Errorf("user %s already exists: %w", *username, err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if *isAdmin {
		if err := userService.SetAdmin(user.ID, true); err != nil {
			return fmt.Errorf("failed to grant admin: %w", err)
		}
	}

	role := "user"
	if *isAdmin {
		role = "admin"
	}
	fmt.Fprintf(stdout, "User %s created successfully as %s with ID %s\n", user.Username, role, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal input such as pipes
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
