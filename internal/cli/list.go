package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// newListCmd creates the list command, which prints every stored
// planogram from the configured backend.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored planograms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context())
		},
	}
}

func runList(ctx context.Context) error {
	appCfg, err := loadConfig(configFlag)
	if err != nil {
		return err
	}
	st, err := buildStore(ctx, appCfg)
	if err != nil {
		return err
	}
	defer st.Close()

	summaries, err := st.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		printInfo("No planograms stored")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{s.ID, s.Name, strconv.Itoa(s.Products), s.UpdatedAt})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Products", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return StyleValue
		})

	fmt.Println(t.Render())
	return nil
}
