package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zivana-montessori/core/internal/database"
	"github.com/zivana-montessori/core/internal/modules/auth/user"
	"github.com/zivana-montessori/core/internal/modules/registration/fields"
	"github.com/zivana-montessori/core/internal/modules/registration/form"
	"github.com/zivana-montessori/core/internal/modules/registration/message"
	"github.com/zivana-montessori/core/internal/modules/system/settings"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var readPasswordFunc = term.ReadPassword

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := openDB(*configPath, true)
			if err != nil {
				return err
			}
			defer database.Close(db)
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func createAdminCmd(configPath *string) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a dashboard account, prompting for its password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := openDB(*configPath, true)
			if err != nil {
				return err
			}
			defer database.Close(db)

			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if len(pwd) == 0 {
				return errors.New("password is required")
			}

			// Account creation never issues a session.
			svc := user.NewService(db, nil, zap.NewNop())
			u, err := svc.CreateAdmin(cmd.Context(), email, name, string(pwd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&name, "name", "", "Display name, defaults to the email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func fieldsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List registration form fields, seeding defaults on an empty table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := openDB(*configPath, false)
			if err != nil {
				return err
			}
			defer database.Close(db)

			defs, err := fields.NewRegistry(fields.NewGormStore(db), zap.NewNop()).ListAll(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDER\tNAME\tKIND\tREQUIRED\tENABLED\tLABEL")
			for _, d := range defs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\t%s\n", d.Order, d.Name, d.Kind, d.Required, d.Enabled, d.Label)
			}
			return w.Flush()
		},
	}
}

func previewCmd(configPath *string) *cobra.Command {
	var values []string

	cmd := &cobra.Command{
		Use:   "preview-message",
		Short: "Render the registration message for sample values",
		Example: `  zivana-admin preview-message --value childName="Budi Santoso" --value parentName=Sari`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := openDB(*configPath, false)
			if err != nil {
				return err
			}
			defer database.Close(db)

			parsed, err := parseValues(values)
			if err != nil {
				return err
			}
			text, link, err := renderPreview(cmd.Context(), fields.NewRegistry(fields.NewGormStore(db), zap.NewNop()),
				settings.NewService(db), cfg.WhatsAppFallbackNumber(), parsed)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&values, "value", nil, "Field value as name=value, repeatable")
	return cmd
}

type previewSettings interface {
	WhatsAppTemplate(ctx context.Context) (string, error)
	WhatsAppNumber(ctx context.Context) (string, error)
}

// renderPreview mirrors what a parent would be sent, falling back to the
// default template and number the way the public form does.
func renderPreview(ctx context.Context, reg *fields.Registry, st previewSettings, fallbackPhone string, values map[string]string) (string, string, error) {
	defs, err := reg.ListEnabled(ctx)
	if err != nil {
		return "", "", err
	}
	tmpl, err := st.WhatsAppTemplate(ctx)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		tmpl = message.DefaultTemplate()
	}
	phone, err := st.WhatsAppNumber(ctx)
	if err != nil || strings.TrimSpace(phone) == "" {
		phone = fallbackPhone
	}
	text := message.Render(tmpl, defs, values, message.VariantRegistration)
	return text, form.DeepLink(phone, text), nil
}

func parseValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --value %q, expected name=value", p)
		}
		out[strings.TrimSpace(name)] = value
	}
	return out, nil
}
