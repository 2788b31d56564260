package cli

import (
	"fmt"
	"time"

	"github.com/kallinyester/jato/internal/model"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the board and upcoming deadlines",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the backend's dashboard metrics",
	Args:  cobra.NoArgs,
	RunE:  runMetrics,
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show deadline alerts from the backend",
	Args:  cobra.NoArgs,
	RunE:  runAlerts,
}

func runStats(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	ctrl, err := rt.remoteBoard(cmd)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	s := ctrl.Stats()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "📊 Board")
	fmt.Fprintf(out, "   Projects:             %d\n", s.Total)
	fmt.Fprintf(out, "   In development:       %d\n", s.InDevelopment)
	fmt.Fprintf(out, "   In production:        %d\n", s.InProduction)
	fmt.Fprintf(out, "   Average progress:     %d%%\n", s.AvgProgress)
	fmt.Fprintf(out, "   Overdue:              %d\n", s.Overdue)
	fmt.Fprintf(out, "   Completed this month: %d\n", s.CompletedThisMonth)

	upcoming := ctrl.Upcoming()
	if len(upcoming) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	printNotifications(out, ctrl)
	now := time.Now()
	for _, p := range upcoming {
		days, _ := p.DaysUntilDeadline(now)
		fmt.Fprintf(out, "   %s  %s (%s) in %d day(s)\n", p.Deadline, p.Name, p.Client, days)
	}
	return nil
}

func runMetrics(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	authed, err := rt.authed()
	if err != nil {
		return err
	}

	m, err := authed.Metrics(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "📊 Dashboard")
	fmt.Fprintf(out, "   Projects:             %d\n", m.Total)
	fmt.Fprintf(out, "   In development:       %d\n", m.InDevelopment)
	fmt.Fprintf(out, "   In production:        %d\n", m.InProduction)
	fmt.Fprintf(out, "   Average progress:     %.1f%%\n", m.AverageProgress)
	fmt.Fprintf(out, "   Overdue:              %d\n", m.Overdue)
	fmt.Fprintf(out, "   Completed this month: %d\n", m.CompletedThisMonth)
	return nil
}

func runAlerts(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	authed, err := rt.authed()
	if err != nil {
		return err
	}

	alerts, err := authed.Alerts(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(alerts) == 0 {
		fmt.Fprintln(out, "No alerts.")
		return nil
	}
	for _, a := range alerts {
		icon := "ℹ️ "
		switch a.Type {
		case model.NotifyWarning:
			icon = "⚠️ "
		case model.NotifyError:
			icon = "❌"
		}
		fmt.Fprintf(out, "%s %s\n", icon, a.Message)
	}
	return nil
}
