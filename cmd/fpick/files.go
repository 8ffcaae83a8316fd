package main

import (
	"fmt"
	"io"

	"fpick/internal/fsutil"
	"fpick/internal/picker"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

// NewLsCmd creates the ls command
func NewLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [folder]",
		Short: "List a folder the way the picker shows it",
		Long:  `List a folder with the configured filter, folders first. Entries that can be picked are marked with '*'.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := newFs()
			en, f, err := newEnumerator(fs)
			if err != nil {
				return err
			}
			dir, err := picker.Stat(fs, rootArg(args))
			if err != nil {
				return err
			}
			listing, err := en.List(dir, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, primaryText(listing.Folder().Path))
			if listing.Len() == 0 {
				fmt.Fprintln(out, mutedText("  (empty)"))
			}
			for _, e := range listing.Entries() {
				printEntry(out, e, f.CanBeSelected(e))
			}
			return nil
		},
	}
}

func printEntry(out io.Writer, e picker.Entry, selectable bool) {
	mark := " "
	if selectable {
		mark = "*"
	}
	name, size := e.Name(), humanize.Bytes(uint64(e.Size))
	if e.Dir {
		name, size = infoText(name+"/"), "-"
	}
	fmt.Fprintf(out, "%s %8s  %s  %s\n", mark, size, e.ModTime.Format(timeLayout), name)
}

// NewWalkCmd creates the walk command
func NewWalkCmd() *cobra.Command {
	var depth int
	var self bool

	cmd := &cobra.Command{
		Use:   "walk [folder]",
		Short: "List every file and folder below a folder",
		Long:  `Walk a folder breadth first with the configured display filter and print one path per line.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := cfg.Filter()
			if err != nil {
				return err
			}
			entries, err := fsutil.SubFiles(newFs(), rootArg(args), fsutil.WalkOptions{
				Depth:       depth,
				IncludeSelf: self,
				Filter:      f.CanBeDisplayed,
			})
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), e.Path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "how many levels to descend, 0 for all")
	cmd.Flags().BoolVar(&self, "self", false, "print the folder itself first")
	return cmd
}

// NewMD5Cmd creates the md5 command
func NewMD5Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "md5 <file>...",
		Short: "Print MD5 digests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := newFs()
			for _, path := range args {
				sum, err := fsutil.MD5(fs, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, path)
			}
			return nil
		},
	}
}

// NewCopyCmd creates the cp command
func NewCopyCmd() *cobra.Command {
	var parents bool

	cmd := &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fsutil.CopyFile(newFs(), args[0], args[1], parents); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText(fmt.Sprintf("Copied %s to %s", args[0], args[1])))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parent folders")
	return cmd
}
