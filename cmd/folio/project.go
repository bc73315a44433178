package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/config"
	"github.com/thithuypham/folio/internal/project"
	"github.com/thithuypham/folio/internal/storage"
)

func init() {
	rootCmd.AddCommand(projectCmd)

	projectAddCmd.Flags().StringP("title", "t", "", "Display title (required)")
	projectAddCmd.Flags().StringP("description", "d", "", "Description text")
	projectAddCmd.Flags().String("status", project.StatusActive, "Status: Active, Pilot Phase, Research Phase, Completed, Maintained")
	projectAddCmd.Flags().String("category", "", "Category label")
	projectAddCmd.Flags().String("year", "", "Year or range, e.g. 2022-Present")
	projectAddCmd.Flags().StringSlice("tech", nil, "Technologies (comma-separated)")
	projectAddCmd.MarkFlagRequired("title")
	projectCmd.AddCommand(projectAddCmd)

	projectCmd.AddCommand(projectGetCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectStatusCmd)
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage portfolio projects",
	Long:  `Commands for managing the projects shown next to the publication list.`,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects grouped into active and completed",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a project by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectGet,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a new project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change a project's status",
	Long: `Change a project's status, e.g. to move it from active to completed.

Example:
  folio project status edufl Completed`,
	Args: cobra.ExactArgs(2),
	RunE: runProjectStatus,
}

// ProjectListResult is the response for the project list command.
type ProjectListResult struct {
	Active    []project.Project `json:"active"`
	Completed []project.Project `json:"completed"`
}

// ProjectResult is the response for commands that change one project.
type ProjectResult struct {
	Status  string          `json:"status"`
	Project project.Project `json:"project"`
}

func runProjectList(cmd *cobra.Command, args []string) error {
	projects := mustLoadProjects(mustFindRepository())
	active, completed := project.Partition(projects)

	if !humanOutput {
		outputJSON(ProjectListResult{Active: active, Completed: completed})
		return nil
	}

	printProjectGroup("Active Projects", active)
	printProjectGroup("Completed Projects", completed)
	return nil
}

func printProjectGroup(heading string, projects []project.Project) {
	if len(projects) == 0 {
		return
	}
	fmt.Printf("%s (%d)\n", heading, len(projects))
	for _, p := range projects {
		fmt.Printf("  %-16s %s [%s]\n", p.ID, truncateString(p.Title, ListTitleMaxLen), p.Status)
	}
	fmt.Println()
}

func runProjectGet(cmd *cobra.Command, args []string) error {
	projects := mustLoadProjects(mustFindRepository())
	idx, found := storage.FindProjectByID(projects, args[0])
	if !found {
		exitWithError(ExitError, "%v: %s", project.ErrProjectNotFound, args[0])
	}
	p := projects[idx]

	if !humanOutput {
		outputJSON(p)
		return nil
	}

	fmt.Println(p.ID)
	fmt.Printf("  Title:    %s\n", p.Title)
	fmt.Printf("  Status:   %s\n", p.Status)
	if p.Category != "" {
		fmt.Printf("  Category: %s\n", p.Category)
	}
	if p.Year != "" {
		fmt.Printf("  Year:     %s\n", p.Year)
	}
	if len(p.Technologies) > 0 {
		fmt.Printf("  Tech:     %s\n", strings.Join(p.Technologies, ", "))
	}
	if p.Description != "" {
		fmt.Printf("  %s\n", wrapText(p.Description, TextWrapWidth, "  "))
	}
	for _, l := range p.ActionableLinks() {
		fmt.Printf("  %s %s: %s\n", project.LinkIcon(l.Type), l.Label, l.URL)
	}
	return nil
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	status, _ := cmd.Flags().GetString("status")
	category, _ := cmd.Flags().GetString("category")
	year, _ := cmd.Flags().GetString("year")
	tech, _ := cmd.Flags().GetStringSlice("tech")

	p := project.Project{
		ID:           args[0],
		Title:        title,
		Description:  description,
		Status:       status,
		Category:     category,
		Year:         year,
		Technologies: tech,
	}
	if err := p.ValidateForCreate(); err != nil {
		exitWithError(ExitDataError, "invalid project: %v", err)
	}

	projectsPath := config.ProjectsPath(repoRoot)
	projects, err := storage.ReadAllProjects(projectsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading projects: %v", err)
	}
	if _, found := storage.FindProjectByID(projects, p.ID); found {
		exitWithError(ExitDataError, "%v: %s", project.ErrDuplicateID, p.ID)
	}

	if err := storage.AppendProject(projectsPath, p); err != nil {
		exitWithError(ExitError, "writing project: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added project %s\n", p.ID)
	} else {
		outputJSON(ProjectResult{Status: "added", Project: p})
	}
	return nil
}

func runProjectStatus(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	id, status := args[0], args[1]

	if !project.IsActive(status) && !project.IsCompleted(status) {
		exitWithError(ExitDataError, "%v", project.ErrUnknownStatus)
	}

	projectsPath := config.ProjectsPath(repoRoot)
	projects, err := storage.ReadAllProjects(projectsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading projects: %v", err)
	}
	idx, found := storage.FindProjectByID(projects, id)
	if !found {
		exitWithError(ExitError, "%v: %s", project.ErrProjectNotFound, id)
	}

	projects[idx].Status = status
	if err := storage.WriteAllProjects(projectsPath, projects); err != nil {
		exitWithError(ExitError, "writing projects: %v", err)
	}

	if humanOutput {
		fmt.Printf("%s is now %s\n", id, status)
	} else {
		outputJSON(ProjectResult{Status: "updated", Project: projects[idx]})
	}
	return nil
}
