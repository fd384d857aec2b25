package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"journal/internal/app"
	"journal/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func addList(topLevel *cobra.Command, o *globalOptions) {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Example: `
journal list
journal list --search trip
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, userID, err := o.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := c.List(cmd.Context(), userID)
			if err != nil {
				return err
			}
			stats := domain.ComputeStats(entries, time.Now())
			return printEntries(cmd.OutOrStdout(), domain.FilterEntries(entries, search), stats)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "",
		"Only show entries whose title or content contains the term.")

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command, o *globalOptions) {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseEntryRef(args[0])
			if err != nil {
				return err
			}
			id, ok := ref.ID()
			if !ok {
				return fmt.Errorf("%q is not a saved entry", args[0])
			}
			c, userID, err := o.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			e, err := c.Get(cmd.Context(), userID, id)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addNew(topLevel *cobra.Command, o *globalOptions) {
	var title, mood string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Write a new entry, reading the content from stdin",
		Example: `
echo "Great day" | journal new --title Trip --mood happy
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMood(mood)
			if err != nil {
				return err
			}
			content, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read content: %w", err)
			}
			fields, err := domain.EntryFields{
				Title:   title,
				Content: strings.TrimRight(string(content), "\n"),
				Mood:    m,
			}.Validate()
			if err != nil {
				return err
			}
			c, userID, err := o.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			id, err := c.Save(cmd.Context(), userID, domain.Draft(), fields)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "",
		"Entry title.")
	cmd.Flags().StringVarP(&mood, "mood", "m", string(domain.MoodNeutral),
		"One of happy, neutral, sad, excited, tired.")

	topLevel.AddCommand(cmd)
}

func addActivity(topLevel *cobra.Command, o *globalOptions) {
	var days int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Chart entries written per day",
		Example: `
journal activity
journal activity --days 30
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := o.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			points, err := c.Daily(cmd.Context(), days)
			if err != nil {
				return err
			}
			printActivity(cmd.OutOrStdout(), points)
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 14,
		"Number of days to chart, ending today.")

	topLevel.AddCommand(cmd)
}

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))

func printActivity(w io.Writer, points []app.DayPoint) {
	for _, p := range points {
		mood := ""
		if p.Mood != nil {
			mood = p.Mood.Label()
		}
		fmt.Fprintf(w, "%s %s %s\n", p.Day, barStyle.Render(strings.Repeat("█", p.Entries)+strings.Repeat("·", max(0, 1-p.Entries))), mood)
	}
}

func printEntries(w io.Writer, entries []domain.Entry, s domain.Stats) error {
	fmt.Fprintf(w, "%d entries, %d this week, %d words on average\n\n",
		s.TotalEntries, s.ThisWeek, s.AvgWordsPerEntry)
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries.")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.CreatedAt.Local().Format("2006-01-02"), string(e.Mood), e.Title})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "DATE", "MOOD", "TITLE").
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func printEntry(w io.Writer, e *domain.Entry) {
	fmt.Fprintf(w, "%s\n%s\n", e.Title, strings.Repeat("=", len([]rune(e.Title))))
	fmt.Fprintf(w, "%s  %s\n\n", e.CreatedAt.Local().Format("Monday, January 2, 2006 15:04"), e.Mood.Label())
	fmt.Fprintln(w, e.Content)
}
