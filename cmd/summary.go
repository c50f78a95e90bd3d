package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/frahmantamala/payroll-management/internal/payroll"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

var summaryLocale string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print payroll totals",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		lg := logger.InitWithConfig(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
		svc, err := openServices(cfg, lg)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer svc.Close()

		summary, err := svc.Payroll.Summary(context.Background())
		if err != nil {
			log.Fatalf("failed to compute summary: %v", err)
		}

		tag, err := language.Parse(summaryLocale)
		if err != nil {
			tag = language.English
		}
		printSummary(os.Stdout, tag, summary)
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryLocale, "locale", "en", "BCP 47 locale used to format numbers")
}

func printSummary(w io.Writer, tag language.Tag, s *payroll.Summary) {
	p := message.NewPrinter(tag)
	p.Fprintf(w, "Employees:     %d\n", s.TotalEmployees)
	p.Fprintf(w, "Departments:   %d\n", s.TotalDepartments)
	p.Fprintf(w, "Periods:       %d\n", s.Periods)
	p.Fprintf(w, "Total net pay: %.2f\n", s.TotalNetPay.InexactFloat64())
	fmt.Fprintln(w)
}
