package main

import (
	"fmt"

	"fpick/internal/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewDfCmd creates the df command
func NewDfCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "df [path]",
		Short: "Show the capacity of mounted volumes",
		Long:  `Show the size and free space of the volume holding path, or of every mounted volume.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				u, err := storage.UsageOf(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), usageTable([]storage.Volume{{MountPoint: u.Path, FSType: "-", Usage: u}}))
				return nil
			}

			vols, err := storage.Volumes()
			if err != nil {
				return err
			}
			shown := vols[:0]
			for _, v := range vols {
				if all || v.Usage.Total > 0 {
					shown = append(shown, v)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), usageTable(shown))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include volumes without capacity")
	return cmd
}

const readOnlyColumn = 5

// usageTable renders one row per volume
func usageTable(vols []storage.Volume) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("MOUNT", "TYPE", "SIZE", "USED", "AVAIL", "MODE").
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().PaddingRight(1)
			switch {
			case row == table.HeaderRow:
				return primaryStyle.PaddingRight(1)
			case col == readOnlyColumn && row >= 0 && row < len(vols) && vols[row].Usage.ReadOnly:
				return errorStyle.PaddingRight(1)
			}
			return cell
		})

	for _, v := range vols {
		mode := "rw"
		if v.Usage.ReadOnly {
			mode = "ro"
		}
		t.Row(v.MountPoint, v.FSType,
			humanize.Bytes(v.Usage.Total), humanize.Bytes(v.Usage.Used()), humanize.Bytes(v.Usage.Available), mode)
	}
	return t
}
