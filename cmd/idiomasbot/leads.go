package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	redisadapter "github.com/eiescz/idiomasbot/internal/adapters/redis"
	"github.com/eiescz/idiomasbot/internal/config"
	"github.com/eiescz/idiomasbot/internal/domain"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Print a summary of recent leads and enrollments",
	Long:  `Reads the record store and renders a markdown activity report to the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		if err := runLeads(cmd.Context(), limit); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(leadsCmd)
	leadsCmd.Flags().IntP("limit", "n", 20, "Maximum rows per section")
}

func runLeads(ctx context.Context, limit int) error {
	env, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if env.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR must be set: the report reads the shared record store")
	}

	client := backend.NewClient(&backend.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})
	defer client.Close()
	records := redisadapter.NewRecords(client, "")

	leads, err := records.Leads(ctx)
	if err != nil {
		return err
	}
	enrollments, err := records.Enrollments(ctx)
	if err != nil {
		return err
	}
	reservations, err := records.Reservations(ctx)
	if err != nil {
		return err
	}

	report := buildReport(leads, enrollments, reservations, limit)

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		// No usable terminal profile; emit the raw markdown.
		fmt.Println(report)
		return nil
	}
	out, err := renderer.Render(report)
	if err != nil {
		fmt.Println(report)
		return nil
	}
	fmt.Print(out)
	return nil
}

func buildReport(leads []domain.Lead, enrollments []domain.Enrollment, reservations []domain.Reservation, limit int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Actividad del bot\n\n")
	fmt.Fprintf(&b, "Leads: %d · Inscripciones: %d · Reservas: %d\n\n", len(leads), len(enrollments), len(reservations))

	b.WriteString("## Últimos leads\n\n")
	b.WriteString("| Teléfono | Nombre | Intención | Mensaje |\n|---|---|---|---|\n")
	for i, l := range leads {
		if i == limit {
			break
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", l.Conversation, cell(l.Name), l.Intent, cell(l.LastMessage))
	}

	b.WriteString("\n## Últimas inscripciones\n\n")
	b.WriteString("| Nombre | Curso | Nivel | Horario |\n|---|---|---|---|\n")
	for i, e := range enrollments {
		if i == limit {
			break
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(e.Name), e.Course, e.Level, cell(e.SchedulePref))
	}

	b.WriteString("\n## Últimas reservas\n\n")
	b.WriteString("| Nombre | Fecha |\n|---|---|\n")
	for i, r := range reservations {
		if i == limit {
			break
		}
		fmt.Fprintf(&b, "| %s | %s |\n", cell(r.Name), r.When.Format("02/01/2006 15:04"))
	}

	return b.String()
}

// cell strips pipes so free text cannot break the table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", "/")
}
