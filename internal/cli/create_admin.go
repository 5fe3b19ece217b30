package cli

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/config"
	"github.com/taskdesk/taskdesk/internal/database"
	"github.com/taskdesk/taskdesk/internal/database/users"
	"github.com/taskdesk/taskdesk/internal/entities"
)

// CreateAdminCommand provisions an administrator account from the
// command line. Useful for bootstrapping a fresh database before any
// user can log in through the API.
type CreateAdminCommand struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Department   string
	DatabasePath string
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Name, "name", "", "Full name of the administrator (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address used for login (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password (if omitted, prompted for interactively)")
	fs.StringVar(&cmd.Phone, "phone", "", "Contact phone number (required)")
	fs.StringVar(&cmd.Department, "department", "", "Department name")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -name <name> -email <email> -phone <phone> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an administrator account in the local database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -name \"Jane Doe\" -email jane@example.com -phone 555-0100\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Name == "" {
		return fmt.Errorf("required flag -name not provided")
	}
	if cmd.Email == "" {
		return fmt.Errorf("required flag -email not provided")
	}
	if cmd.Phone == "" {
		return fmt.Errorf("required flag -phone not provided")
	}

	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	if cmd.Password == "" {
		password, err := promptPassword()
		if err != nil {
			return err
		}
		cmd.Password = password
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), nil, config.Auth{BcryptCost: auth.DefaultBcryptCost})

	user, err := service.CreateUser(auth.CreateUserInput{
		Name:       cmd.Name,
		Email:      cmd.Email,
		Password:   cmd.Password,
		Phone:      cmd.Phone,
		Department: cmd.Department,
		Role:       entities.UserRoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	fmt.Printf("Created admin user %q (id=%d, email=%s)\n", user.Name, user.ID, user.Email)
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(password) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}

	return string(password), nil
}
