package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kallinyester/jato/internal/api"
	"github.com/kallinyester/jato/internal/board"
	"github.com/kallinyester/jato/internal/model"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `List, create, edit, duplicate and delete client projects.`,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Long: `List projects, optionally filtered on the backend and searched locally.

Examples:
  jato project list
  jato project list --stage development --priority high
  jato project list --search crm`,
	Args: cobra.NoArgs,
	RunE: runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show project details",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a project",
	Long: `Create a project. Progress starts at 0.

Examples:
  jato project add --name "E-commerce" --client "TechStore" \
    --description "Online store" --languages "React,Node.js" \
    --stage development --priority high --start 2026-01-15 --deadline 2026-03-30`,
	Args: cobra.NoArgs,
	RunE: runProjectAdd,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit [project-id]",
	Short: "Change some fields of a project",
	Long: `Change only the fields given as flags.

Examples:
  jato project edit 12 --progress 80
  jato project edit 12 --stage production`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectEdit,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a project",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

var projectDuplicateCmd = &cobra.Command{
	Use:     "duplicate [project-id]",
	Aliases: []string{"dup"},
	Short:   "Copy a project with progress reset",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDuplicate,
}

// projectFields are the editable project fields as flags
type projectFields struct {
	name        string
	client      string
	description string
	languages   string
	stage       string
	priority    string
	start       string
	deadline    string
	progress    int
}

var (
	listFilter struct {
		stage    string
		priority string
		client   string
		name     string
		tech     string
		search   string
		skip     int
		limit    int
		json     bool
	}
	addFields   projectFields
	editFields  projectFields
	deleteForce bool
)

func bindProjectFields(cmd *cobra.Command, f *projectFields) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Project name")
	cmd.Flags().StringVarP(&f.client, "client", "c", "", "Client name")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&f.languages, "languages", "l", "", "Comma separated technologies")
	cmd.Flags().StringVarP(&f.stage, "stage", "s", "", "Stage (planning, development, testing, staging, production, maintenance)")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Priority (low, medium, high)")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
}

func init() {
	projectListCmd.Flags().StringVarP(&listFilter.stage, "stage", "s", "", "Only this stage")
	projectListCmd.Flags().StringVarP(&listFilter.priority, "priority", "p", "", "Only this priority")
	projectListCmd.Flags().StringVar(&listFilter.client, "client", "", "Client name filter")
	projectListCmd.Flags().StringVar(&listFilter.name, "name", "", "Project name filter")
	projectListCmd.Flags().StringVar(&listFilter.tech, "tech", "", "Technology filter")
	projectListCmd.Flags().StringVarP(&listFilter.search, "search", "q", "", "Search name, client and description")
	projectListCmd.Flags().IntVar(&listFilter.skip, "skip", 0, "Skip the first N projects")
	projectListCmd.Flags().IntVar(&listFilter.limit, "limit", 0, "Return at most N projects")
	projectListCmd.Flags().BoolVar(&listFilter.json, "json", false, "Print JSON")

	bindProjectFields(projectAddCmd, &addFields)
	bindProjectFields(projectEditCmd, &editFields)
	projectEditCmd.Flags().IntVar(&editFields.progress, "progress", 0, "Progress percentage (0-100)")

	projectDeleteCmd.Flags().BoolVarP(&deleteForce, "yes", "y", false, "Skip confirmation")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectDuplicateCmd)
}

func parseStageFlag(s string) (model.Stage, error) {
	if s == "" {
		return "", nil
	}
	st, ok := model.ParseStage(s)
	if !ok {
		return "", fmt.Errorf("unknown stage %q", s)
	}
	return st, nil
}

func parsePriorityFlag(s string) (model.Priority, error) {
	if s == "" {
		return "", nil
	}
	p, ok := model.ParsePriority(s)
	if !ok {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	s, err := rt.session()
	if err != nil {
		return err
	}

	stage, err := parseStageFlag(listFilter.stage)
	if err != nil {
		return err
	}
	priority, err := parsePriorityFlag(listFilter.priority)
	if err != nil {
		return err
	}

	projects, err := rt.client.FetchProjects(cmd.Context(), s.Token, api.ProjectFilter{
		Stage:      stage,
		Priority:   priority,
		Client:     listFilter.client,
		Name:       listFilter.name,
		Technology: listFilter.tech,
		Skip:       listFilter.skip,
		Limit:      listFilter.limit,
	})
	if err != nil {
		return err
	}

	if listFilter.search != "" {
		ctrl := rt.controller()
		defer ctrl.Close()
		ctrl.Load(projects)
		projects = ctrl.List(model.StageAll, listFilter.search)
	}

	out := cmd.OutOrStdout()
	if listFilter.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	}

	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found. Add one with: jato project add --name ...")
		return nil
	}
	printProjects(out, projects, time.Now())
	return nil
}

// printProjects renders projects as a table
func printProjects(w io.Writer, projects []model.Project, now time.Time) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CLIENT", "STAGE", "PRIORITY", "PROGRESS", "DEADLINE")

	for _, p := range projects {
		due := p.Deadline
		if p.IsOverdue(now) {
			due += " (overdue)"
		}
		t.Row(p.ID, p.Name, p.Client, p.Stage.Label(), p.Priority.Label(), fmt.Sprintf("%d%%", p.Progress), due)
	}
	fmt.Fprintln(w, t.Render())
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	ctrl, err := rt.remoteBoard(cmd)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	p, err := ctrl.Project(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	now := time.Now()
	fmt.Fprintf(out, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(out, "  Client:      %s\n", p.Client)
	fmt.Fprintf(out, "  Stage:       %s\n", p.Stage.Label())
	fmt.Fprintf(out, "  Priority:    %s\n", p.Priority.Label())
	fmt.Fprintf(out, "  Progress:    %d%%\n", p.Progress)
	fmt.Fprintf(out, "  Start:       %s\n", p.StartDate)
	due := p.Deadline
	if days, ok := p.DaysUntilDeadline(now); ok {
		switch {
		case p.IsOverdue(now):
			due += " (overdue)"
		case days > 0:
			due += fmt.Sprintf(" (in %d day(s))", days)
		}
	}
	fmt.Fprintf(out, "  Deadline:    %s\n", due)
	if len(p.Languages) > 0 {
		fmt.Fprintf(out, "  Languages:   %s\n", strings.Join(p.Languages, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", p.Description)
	}
	return nil
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	stage := model.StagePlanning
	if addFields.stage != "" {
		var err error
		if stage, err = parseStageFlag(addFields.stage); err != nil {
			return err
		}
	}
	priority := model.PriorityMedium
	if addFields.priority != "" {
		var err error
		if priority, err = parsePriorityFlag(addFields.priority); err != nil {
			return err
		}
	}
	start := addFields.start
	if start == "" {
		start = time.Now().Format(model.DateLayout)
	}

	d := model.Draft{
		Name:        strings.TrimSpace(addFields.name),
		Client:      strings.TrimSpace(addFields.client),
		Description: strings.TrimSpace(addFields.description),
		Languages:   model.ParseLanguages(addFields.languages),
		Stage:       stage,
		Priority:    priority,
		StartDate:   start,
		Deadline:    addFields.deadline,
	}
	if err := model.ValidateDraft(d); err != nil {
		return err
	}

	rt := newRuntime()
	ctrl, err := rt.remoteBoard(cmd)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	p, err := ctrl.Add(cmd.Context(), d)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printNotifications(out, ctrl)
	fmt.Fprintf(out, "   %s [%s] %s\n", p.ID, p.Stage.Label(), p.Name)
	return nil
}

// editUpdate builds an update from the flags that were set
func editUpdate(cmd *cobra.Command) (model.ProjectUpdate, error) {
	var u model.ProjectUpdate
	flags := cmd.Flags()
	text := func(name, value string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v := strings.TrimSpace(value)
		return &v
	}

	u.Name = text("name", editFields.name)
	u.Client = text("client", editFields.client)
	u.Description = text("description", editFields.description)
	u.StartDate = text("start", editFields.start)
	u.Deadline = text("deadline", editFields.deadline)

	if flags.Changed("languages") {
		langs := model.ParseLanguages(editFields.languages)
		if langs == nil {
			langs = []string{}
		}
		u.Languages = &langs
	}
	if flags.Changed("stage") {
		st, ok := model.ParseStage(editFields.stage)
		if !ok || !st.Valid() {
			return u, fmt.Errorf("unknown stage %q", editFields.stage)
		}
		u.Stage = &st
	}
	if flags.Changed("priority") {
		p, err := parsePriorityFlag(editFields.priority)
		if err != nil {
			return u, err
		}
		u.Priority = &p
	}
	if flags.Changed("progress") {
		n := editFields.progress
		u.Progress = &n
	}

	if u.IsEmpty() {
		return u, fmt.Errorf("nothing to change - pass at least one field flag")
	}
	return u, model.ValidateUpdate(u)
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	u, err := editUpdate(cmd)
	if err != nil {
		return err
	}

	rt := newRuntime()
	ctrl, err := rt.remoteBoard(cmd)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	p, err := ctrl.Update(cmd.Context(), args[0], u)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printNotifications(out, ctrl)
	fmt.Fprintf(out, "   %s [%s] %s %d%%\n", p.ID, p.Stage.Label(), p.Name, p.Progress)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	p := newPrompter(cmd)

	confirmer := board.ConfirmFunc(func(proj model.Project) bool {
		if deleteForce || !rt.cfg.ConfirmDelete {
			return true
		}
		return p.confirm(fmt.Sprintf("Delete %q (%s)?", proj.Name, proj.Client))
	})

	ctrl, err := rt.remoteBoard(cmd, board.WithConfirmer(confirmer))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	deleted, err := ctrl.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !deleted {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	printNotifications(out, ctrl)
	return nil
}

func runProjectDuplicate(cmd *cobra.Command, args []string) error {
	rt := newRuntime()
	ctrl, err := rt.remoteBoard(cmd)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	src, err := ctrl.Project(args[0])
	if err != nil {
		return err
	}
	p, err := ctrl.Duplicate(cmd.Context(), src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printNotifications(out, ctrl)
	fmt.Fprintf(out, "   %s [%s] %s\n", p.ID, p.Stage.Label(), p.Name)
	return nil
}
