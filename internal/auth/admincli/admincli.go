// Package admincli implements the auth-admin operator commands. They act on
// the database directly and are the only way to create an administrator.
package admincli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
)

// PasswordEnv supplies the admin password when stdin is not a terminal.
const PasswordEnv = "AUTH_ADMIN_PASSWORD"

// ErrUsage is returned for unknown commands and bad flags.
var ErrUsage = errors.New("usage error")

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// PasswordPrompt reads a secret without echoing it.
type PasswordPrompt func(prompt string) (string, error)

// Provisioner is the subset of service.ProvisioningService the commands use.
type Provisioner interface {
	CreateAdmin(ctx context.Context, acct domain.AdminAccount) (domain.User, error)
	SetRole(ctx context.Context, email string, role domain.Role) (domain.User, error)
	SetActive(ctx context.Context, email string, active bool) (domain.User, error)
}

// Runner dispatches a subcommand.
type Runner struct {
	Provisioner Provisioner
	Lookup      EnvLookup
	// Prompt is nil when stdin is not a terminal.
	Prompt PasswordPrompt
	Out    io.Writer
}

const usage = `usage: auth-admin <command> [flags]

commands:
  create-admin -email EMAIL -name NAME   create an active administrator
  set-role     -email EMAIL -role ROLE   set role to "user" or "admin"
  set-active   -email EMAIL -active BOOL enable or disable an account

The create-admin password is prompted for, or read from ` + PasswordEnv + `.
`

// Usage writes the command summary to w.
func Usage(w io.Writer) { _, _ = io.WriteString(w, usage) }

// Run executes args[0] with the remaining args as flags.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "create-admin":
		return r.createAdmin(ctx, rest)
	case "set-role":
		return r.setRole(ctx, rest)
	case "set-active":
		return r.setActive(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

// CreateAdminConfig holds the create-admin flags.
type CreateAdminConfig struct {
	Email string
	Name  string
}

// ParseCreateAdmin parses create-admin flags.
func ParseCreateAdmin(fs *flag.FlagSet, args []string) (CreateAdminConfig, error) {
	var cfg CreateAdminConfig
	fs.StringVar(&cfg.Email, "email", "", "administrator email")
	fs.StringVar(&cfg.Name, "name", "", "administrator display name")
	if err := parse(fs, args); err != nil {
		return CreateAdminConfig{}, err
	}

	cfg.Email = strings.TrimSpace(cfg.Email)
	cfg.Name = strings.TrimSpace(cfg.Name)
	if err := authsdk.ValidateEmail(cfg.Email); err != nil {
		return CreateAdminConfig{}, fmt.Errorf("%w: -email %v", ErrUsage, err)
	}
	if cfg.Name == "" {
		return CreateAdminConfig{}, fmt.Errorf("%w: -name is required", ErrUsage)
	}
	return cfg, nil
}

func (r *Runner) createAdmin(ctx context.Context, args []string) error {
	cfg, err := ParseCreateAdmin(newFlagSet("create-admin"), args)
	if err != nil {
		return err
	}

	password, err := r.password()
	if err != nil {
		return err
	}
	if err := authsdk.ValidatePassword(password); err != nil {
		return fmt.Errorf("password %v", err)
	}

	user, err := r.Provisioner.CreateAdmin(ctx, domain.AdminAccount{
		Email:    cfg.Email,
		Name:     cfg.Name,
		Password: password,
	})
	if errors.Is(err, service.ErrUserExists) {
		return fmt.Errorf("an account for %s already exists", cfg.Email)
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(r.Out, "created admin %s (id %d)\n", user.Email, user.ID)
	return nil
}

// password prefers the environment, then an interactive prompt with
// confirmation.
func (r *Runner) password() (string, error) {
	if r.Lookup != nil {
		if pw, ok := r.Lookup(PasswordEnv); ok && pw != "" {
			return pw, nil
		}
	}
	if r.Prompt == nil {
		return "", fmt.Errorf("stdin is not a terminal; set %s", PasswordEnv)
	}

	pw, err := r.Prompt("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	confirm, err := r.Prompt("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if pw != confirm {
		return "", errors.New("passwords do not match")
	}
	return pw, nil
}

// SetRoleConfig holds the set-role flags.
type SetRoleConfig struct {
	Email string
	Role  domain.Role
}

// ParseSetRole parses set-role flags.
func ParseSetRole(fs *flag.FlagSet, args []string) (SetRoleConfig, error) {
	var email, role string
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&role, "role", "", `"user" or "admin"`)
	if err := parse(fs, args); err != nil {
		return SetRoleConfig{}, err
	}

	if email = strings.TrimSpace(email); email == "" {
		return SetRoleConfig{}, fmt.Errorf("%w: -email is required", ErrUsage)
	}
	parsed, err := domain.ParseRole(strings.TrimSpace(role))
	if err != nil {
		return SetRoleConfig{}, fmt.Errorf("%w: -role: %v", ErrUsage, err)
	}
	return SetRoleConfig{Email: email, Role: parsed}, nil
}

func (r *Runner) setRole(ctx context.Context, args []string) error {
	cfg, err := ParseSetRole(newFlagSet("set-role"), args)
	if err != nil {
		return err
	}

	user, err := r.Provisioner.SetRole(ctx, cfg.Email, cfg.Role)
	if err != nil {
		return notFound(cfg.Email, err)
	}
	fmt.Fprintf(r.Out, "%s is now %s\n", user.Email, user.Role)
	return nil
}

// SetActiveConfig holds the set-active flags.
type SetActiveConfig struct {
	Email  string
	Active bool
}

// ParseSetActive parses set-active flags. -active is required so a typo
// cannot silently disable an account.
func ParseSetActive(fs *flag.FlagSet, args []string) (SetActiveConfig, error) {
	var email, active string
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&active, "active", "", "true or false")
	if err := parse(fs, args); err != nil {
		return SetActiveConfig{}, err
	}

	if email = strings.TrimSpace(email); email == "" {
		return SetActiveConfig{}, fmt.Errorf("%w: -email is required", ErrUsage)
	}
	on, err := strconv.ParseBool(strings.TrimSpace(active))
	if err != nil {
		return SetActiveConfig{}, fmt.Errorf("%w: -active must be true or false", ErrUsage)
	}
	return SetActiveConfig{Email: email, Active: on}, nil
}

func (r *Runner) setActive(ctx context.Context, args []string) error {
	cfg, err := ParseSetActive(newFlagSet("set-active"), args)
	if err != nil {
		return err
	}

	user, err := r.Provisioner.SetActive(ctx, cfg.Email, cfg.Active)
	if err != nil {
		return notFound(cfg.Email, err)
	}
	state := "disabled"
	if user.IsActive {
		state = "enabled"
	}
	fmt.Fprintf(r.Out, "%s is now %s\n", user.Email, state)
	return nil
}

func notFound(email string, err error) error {
	if errors.Is(err, service.ErrUserNotFound) {
		return fmt.Errorf("no account for %s", email)
	}
	return err
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}
